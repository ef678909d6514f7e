// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service implements the offline-first sync engine: the event store
// that durably appends local events, the conflict resolvers, the sync
// coordinator that pushes and pulls batches, and the status read-model
// derived from both.
package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-event-sync/models"
)

// EventStore appends locally produced events to the durable log.
type EventStore interface {
	// Append fills the bookkeeping fields of event (id, timestamp, version,
	// stream sequence, lamport, producer, hash) and writes it before
	// returning. Appending an id that is already stored is a no-op that
	// returns the stored row.
	Append(ctx context.Context, event models.SyncEvent) (models.EventLogRow, error)

	// Observe applies the Lamport receive rule for a remote clock value.
	Observe(ctx context.Context, lamport int64) error

	// Pending returns the unsynced rows in replay order.
	Pending(ctx context.Context) ([]models.EventLogRow, error)
}

// ConflictResolver settles one conflict.
type ConflictResolver interface {
	Strategy() models.ConflictStrategy

	Resolve(conflict models.SyncConflict) (models.ConflictDecision, error)
}

// Coordinator drives sync cycles. At most one cycle runs at a time.
type Coordinator interface {
	// Sync runs one cycle. It returns ErrSyncInProgress when a cycle is
	// already running and ErrOffline when the device is offline.
	Sync(ctx context.Context) (models.SyncResult, error)

	// Cancel aborts the running cycle. Pending events and visible errors are
	// kept. Returns ErrNoActiveSync when nothing is running.
	Cancel() error

	// SetOnline records a connectivity transition.
	SetOnline(online bool)

	IsOnline() bool

	// Resume runs a cycle when the app returns to the foreground and
	// background sync is enabled.
	Resume(ctx context.Context) error

	// RetryAll clears per-item retry counters and terminal rejections, then
	// runs a cycle.
	RetryAll(ctx context.Context) (models.SyncResult, error)

	// DismissError removes every visible error with code. Queued events are
	// not touched.
	DismissError(code string)

	// ResolveConflict settles a held conflict with the authoritative event,
	// which is appended as a new pending event.
	ResolveConflict(ctx context.Context, conflictID string, resolution models.SyncEvent) (models.EventLogRow, error)

	// Conflicts returns the held conflicts.
	Conflicts() []models.SyncConflict

	// Audit returns the most recent settled conflicts, newest last.
	Audit() []models.ConflictAudit

	// State returns the current snapshot.
	State() models.SyncState

	// Subscribe returns a channel receiving a snapshot on every transition.
	// Slow readers only see the latest one. The channel is closed when ctx
	// is done.
	Subscribe(ctx context.Context) <-chan models.SyncState

	Statistics() models.SyncStatistics

	// ItemRetries returns the rejection counter of every pending event that
	// has been refused at least once, and whether it became terminal.
	ItemRetries() map[string]ItemRetry
}

// SyncJob triggers background sync cycles on a fixed interval.
type SyncJob interface {
	// Start stops a previously started job and runs a new one until ctx is
	// done or Stop is called.
	Start(ctx context.Context, interval time.Duration)

	// Stop blocks until the background goroutine has exited.
	Stop()
}

// ItemRetry is the rejection bookkeeping of one pending event.
type ItemRetry struct {
	Count    int
	Terminal bool
}

// StatusReader exposes the read-model consumed by status indicators.
type StatusReader interface {
	Status(ctx context.Context) (models.SyncStatus, error)
}

// AppInfoService reports build metadata of the running binary.
type AppInfoService interface {
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// SyncRecorder receives sync telemetry. Implemented by internal/metrics.
type SyncRecorder interface {
	RecordCycle(ctx context.Context, outcome string, duration time.Duration)
	AddPushed(ctx context.Context, n int)
	AddPulled(ctx context.Context, n int)
	AddConflicts(ctx context.Context, n int, strategy models.ConflictStrategy)
	RecordError(ctx context.Context, code string)
}

type nopRecorder struct{}

func (nopRecorder) RecordCycle(context.Context, string, time.Duration) {}

func (nopRecorder) AddPushed(context.Context, int) {}

func (nopRecorder) AddPulled(context.Context, int) {}

func (nopRecorder) AddConflicts(context.Context, int, models.ConflictStrategy) {}

func (nopRecorder) RecordError(context.Context, string) {}
