// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// ErrNoListenAddress is returned when the local API is disabled.
	ErrNoListenAddress = errors.New("local API listen address is empty")
	// ErrNoRouter is returned when no HTTP handler was assembled.
	ErrNoRouter = errors.New("local API handler is missing")
)
