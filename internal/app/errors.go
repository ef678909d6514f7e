// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-event-sync/models"
)

// CodedError is implemented by every error of the sync taxonomy. Code
// returns the stable SyncError code surfaced to the read-model.
type CodedError interface {
	error
	Code() string
}

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`

	// Err is the sentinel behind Message, if any.
	Err error `json:"-"`
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// ValidationError reports invalid input: a malformed event or configuration.
// It is never retried.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Code() string { return models.ErrorCodeValidation }

// Unwrap exposes the field sentinels to [errors.Is].
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// HasField reports whether field is among the invalid ones.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// TransportError is a network failure, timeout, 5xx, 408 or 429 answer from
// the sync endpoint. It is retried with backoff.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error during %s (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Code() string { return models.ErrorCodeTransport }

// ServerRejectionError is a per-item refusal from the server. The item is
// retried up to the configured limit and then surfaced as terminal.
type ServerRejectionError struct {
	EventID string
	Reason  string
	Message string
	Err     error
}

func (e *ServerRejectionError) Error() string {
	return fmt.Sprintf("server rejected event %s: %s %s", e.EventID, e.Reason, e.Message)
}

func (e *ServerRejectionError) Unwrap() error { return e.Err }

func (e *ServerRejectionError) Code() string { return models.ErrorCodeServerRejection }

// ConflictError marks a detected conflict. It is not a failure: it is routed
// to the conflict resolver.
type ConflictError struct {
	StreamID string
	LocalID  string
	ServerID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on stream %s: local %s vs server %s", e.StreamID, e.LocalID, e.ServerID)
}

func (e *ConflictError) Code() string { return models.ErrorCodeConflict }

// StorageError wraps a local persistence failure. It aborts the current
// cycle; the next cycle retries.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Code() string { return models.ErrorCodeStorage }

// ErrorCode returns the taxonomy code of err, or an empty string when err is
// not part of it.
func ErrorCode(err error) string {
	var coded CodedError
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}

// IsRetryable reports whether err is worth retrying inside the same cycle.
func IsRetryable(err error) bool {
	var transport *TransportError
	return errors.As(err, &transport)
}
