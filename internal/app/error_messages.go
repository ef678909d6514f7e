// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains application-wide constants and the error taxonomy
// shared by the sync engine, its adapters and the local API.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected failure occurs
	// that the caller cannot resolve. Storage details stay in the log.
	MsgInternalServerError = "internal server error"
)
