// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when the local API has
// no listen address.
var errNoHandlersAreCreated = errors.New("no handlers are created")
