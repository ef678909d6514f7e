// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrInvalidJSON is reported when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON body")

	// ErrIntegrityCheck is reported when the HashSHA256 header does not
	// match the request body.
	ErrIntegrityCheck = errors.New("integrity check failed")

	// ErrManualConnectivity is reported by POST /api/network when
	// connectivity is detected by probing.
	ErrManualConnectivity = errors.New("connectivity is probed, manual signal is disabled")
)
