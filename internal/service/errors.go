// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrSyncInProgress   = errors.New("sync is already in progress")
	ErrOffline          = errors.New("device is offline")
	ErrNoActiveSync     = errors.New("no active sync")
	ErrConflictNotFound = errors.New("conflict not found")
	ErrSyncCancelled    = errors.New("sync cancelled")

	ErrNonMonotonicVersion  = errors.New("version is not monotonic for the aggregate")
	ErrResolutionStream     = errors.New("resolution must target the conflicting aggregate")
	ErrUnknownStrategy      = errors.New("unknown conflict strategy")
	ErrBuildInfoUnspecified = errors.New("build version is not specified")
)
