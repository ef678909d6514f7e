// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by storage adapters. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrMetadataNotFound is returned by GetSyncMetadata for an unknown key.
	ErrMetadataNotFound = errors.New("sync metadata not found")

	// ErrStorageClosed is returned when an adapter is used after Close.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrUnknownDriver is returned by NewStorage for an unsupported driver.
	ErrUnknownDriver = errors.New("unknown storage driver")

	// ErrEmptyEventID is returned when a row without id is written.
	ErrEmptyEventID = errors.New("event id is empty")
)

// Low-level database operation errors. These are wrapped by the SQL adapter
// when a SQL-level operation fails.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT or UPDATE fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrBeginningTransaction is returned when a transaction cannot start.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing fails.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRows is returned when scanning result rows fails.
	ErrScanningRows = errors.New("failed to scan event rows")

	// ErrDecodingRow is returned when a stored row cannot be decoded.
	ErrDecodingRow = errors.New("failed to decode event row")
)
