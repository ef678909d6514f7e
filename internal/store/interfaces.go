// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-event-sync/models"
)

// EventStorage is the durable, append-only event log of one device.
//
// Implementations must guarantee that:
//   - CreateEvent is durable before it returns;
//   - CreateEvent with an id that already exists is a no-op;
//   - GetPendingEvents returns unsynced rows ordered by (producer_id,
//     lamport, id);
//   - MarkEventAsSynced is idempotent.
type EventStorage interface {
	// Initialize prepares the storage (schema, connectivity). It is safe to
	// call more than once.
	Initialize(ctx context.Context) error

	CreateEvent(ctx context.Context, row models.EventLogRow) error

	GetPendingEvents(ctx context.Context) ([]models.EventLogRow, error)

	MarkEventAsSynced(ctx context.Context, id string) error

	HasEvent(ctx context.Context, id string) (bool, error)

	Close() error
}

// MetadataStorage is a small key/value table for sync bookkeeping: the pull
// cursor, the lamport clock, held conflicts.
type MetadataStorage interface {
	// GetSyncMetadata returns ErrMetadataNotFound for an unknown key.
	GetSyncMetadata(ctx context.Context, key string) (string, error)

	SetSyncMetadata(ctx context.Context, key, value string) error
}

// RemoteEventStorage persists events received from the server. Rows are
// stored as synced. A row whose id is already present is marked synced
// instead of being duplicated.
type RemoteEventStorage interface {
	SaveRemoteEvents(ctx context.Context, rows ...models.EventLogRow) error
}

// StreamHead is the highest version and stream sequence seen on a stream.
type StreamHead struct {
	Version   int64
	StreamSeq int64
}

// StreamReader gives read access to whole streams.
type StreamReader interface {
	// GetStreamEvents returns every row of streamID ordered by stream_seq.
	GetStreamEvents(ctx context.Context, streamID string) ([]models.EventLogRow, error)

	GetStreamHead(ctx context.Context, streamID string) (StreamHead, error)

	PendingCount(ctx context.Context) (int, error)
}

// Storage is the full capability set every adapter implements.
//
//go:generate mockgen -source=interfaces.go -destination=../mock/storage_mock.go -package=mock
type Storage interface {
	EventStorage
	MetadataStorage
	RemoteEventStorage
	StreamReader
}
