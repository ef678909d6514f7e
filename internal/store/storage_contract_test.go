// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/models"
)

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

func newRow(id, producer string, lamport, seq int64) models.EventLogRow {
	ev := models.SyncEvent{
		ID:            id,
		EventType:     "order.created",
		AggregateID:   "42",
		AggregateType: "order",
		EventData:     json.RawMessage(`{"total":10}`),
		Metadata:      map[string]string{"source": "pos"},
		Timestamp:     time.UnixMilli(1_700_000_000_000 + lamport).UTC(),
		Version:       seq,
	}
	return models.EventLogRow{
		SyncEvent:  ev,
		StreamID:   ev.StreamID(),
		ProducerID: producer,
		StreamSeq:  seq,
		Lamport:    lamport,
		Hash:       "h-" + id,
	}
}

type storageFactory func(t *testing.T) Storage

func storageFactories() map[string]storageFactory {
	factories := map[string]storageFactory{
		"memory": func(t *testing.T) Storage {
			return NewMemoryEventStorage()
		},
		"sqlite": func(t *testing.T) Storage {
			dsn := filepath.Join(t.TempDir(), "events.db")
			s, err := NewStorage(testContext(), config.ClientStorage{Driver: DriverSQLite, DSN: dsn}, "store-a", logger.Nop())
			require.NoError(t, err)
			return s
		},
		"redis": func(t *testing.T) Storage {
			s, err := NewStorage(testContext(), redisConfig(miniredis.RunT(t)), "store-a", logger.Nop())
			require.NoError(t, err)
			return s
		},
	}

	return factories
}

func redisConfig(mr *miniredis.Miniredis) config.ClientStorage {
	return config.ClientStorage{Driver: DriverRedis, DSN: "redis://" + mr.Addr() + "/0"}
}

func forEachStorage(t *testing.T, fn func(t *testing.T, s Storage)) {
	for name, factory := range storageFactories() {
		t.Run(name, func(t *testing.T) {
			s := factory(t)
			t.Cleanup(func() { s.Close() })
			fn(t, s)
		})
	}
}

func TestStorage_CreateEventRoundTrip(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s Storage) {
		ctx := testContext()
		row := newRow("e1", "dev-a", 1, 1)

		require.NoError(t, s.CreateEvent(ctx, row))

		pending, err := s.GetPendingEvents(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)

		got := pending[0]
		assert.Equal(t, row.ID, got.ID)
		assert.Equal(t, row.StreamID, got.StreamID)
		assert.Equal(t, row.EventType, got.EventType)
		assert.JSONEq(t, string(row.EventData), string(got.EventData))
		assert.Equal(t, row.Metadata, got.Metadata)
		assert.True(t, row.Timestamp.Equal(got.Timestamp))
		assert.Equal(t, row.Lamport, got.Lamport)
		assert.Equal(t, row.Hash, got.Hash)
		assert.False(t, got.Synced)
	})
}

func TestStorage_CreateEventDuplicateIsNoop(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s Storage) {
		ctx := testContext()
		row := newRow("e1", "dev-a", 1, 1)

		require.NoError(t, s.CreateEvent(ctx, row))

		changed := row
		changed.EventType = "order.updated"
		require.NoError(t, s.CreateEvent(ctx, changed))

		pending, err := s.GetPendingEvents(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "order.created", pending[0].EventType)
	})
}

func TestStorage_CreateEventEmptyID(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s Storage) {
		err := s.CreateEvent(testContext(), newRow("", "dev-a", 1, 1))
		assert.ErrorIs(t, err, ErrEmptyEventID)
	})
}

func TestStorage_PendingOrder(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s Storage) {
		ctx := testContext()

		require.NoError(t, s.CreateEvent(ctx, newRow("c", "dev-b", 1, 3)))
		require.NoError(t, s.CreateEvent(ctx, newRow("b", "dev-a", 2, 2)))
		require.NoError(t, s.CreateEvent(ctx, newRow("a", "dev-a", 10, 1)))

		pending, err := s.GetPendingEvents(ctx)
		require.NoError(t, err)

		ids := make([]string, 0, len(pending))
		for _, row := range pending {
			ids = append(ids, row.ID)
		}
		assert.Equal(t, []string{"b", "a", "c"}, ids)
	})
}

func TestStorage_MarkEventAsSynced(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s Storage) {
		ctx := testContext()

		require.NoError(t, s.CreateEvent(ctx, newRow("e1", "dev-a", 1, 1)))
		require.NoError(t, s.CreateEvent(ctx, newRow("e2", "dev-a", 2, 2)))

		require.NoError(t, s.MarkEventAsSynced(ctx, "e1"))
		require.NoError(t, s.MarkEventAsSynced(ctx, "e1"))
		require.NoError(t, s.MarkEventAsSynced(ctx, "unknown"))

		pending, err := s.GetPendingEvents(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "e2", pending[0].ID)

		count, err := s.PendingCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		ok, err := s.HasEvent(ctx, "e1")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestStorage_HasEvent(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s Storage) {
		ctx := testContext()

		ok, err := s.HasEvent(ctx, "e1")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.CreateEvent(ctx, newRow("e1", "dev-a", 1, 1)))

		ok, err = s.HasEvent(ctx, "e1")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestStorage_SaveRemoteEvents(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s Storage) {
		ctx := testContext()

		local := newRow("mine", "dev-a", 1, 1)
		require.NoError(t, s.CreateEvent(ctx, local))

		remote := newRow("theirs", "dev-b", 5, 2)
		require.NoError(t, s.SaveRemoteEvents(ctx, local, remote))

		pending, err := s.GetPendingEvents(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)

		stream, err := s.GetStreamEvents(ctx, local.StreamID)
		require.NoError(t, err)
		require.Len(t, stream, 2)
		assert.Equal(t, "mine", stream[0].ID)
		assert.Equal(t, "theirs", stream[1].ID)
		assert.True(t, stream[1].Synced)
	})
}

func TestStorage_SaveRemoteEventsEmpty(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s Storage) {
		assert.NoError(t, s.SaveRemoteEvents(testContext()))
	})
}

func TestStorage_StreamHead(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s Storage) {
		ctx := testContext()
		streamID := models.StreamKey("order", "42")

		head, err := s.GetStreamHead(ctx, streamID)
		require.NoError(t, err)
		assert.Equal(t, StreamHead{}, head)

		require.NoError(t, s.CreateEvent(ctx, newRow("e1", "dev-a", 1, 1)))
		require.NoError(t, s.CreateEvent(ctx, newRow("e2", "dev-a", 2, 2)))

		head, err = s.GetStreamHead(ctx, streamID)
		require.NoError(t, err)
		assert.Equal(t, StreamHead{Version: 2, StreamSeq: 2}, head)

		other, err := s.GetStreamHead(ctx, models.StreamKey("order", "7"))
		require.NoError(t, err)
		assert.Equal(t, StreamHead{}, other)
	})
}

func TestStorage_SyncMetadata(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s Storage) {
		ctx := testContext()

		_, err := s.GetSyncMetadata(ctx, "cursor")
		assert.ErrorIs(t, err, ErrMetadataNotFound)

		require.NoError(t, s.SetSyncMetadata(ctx, "cursor", "c1"))
		require.NoError(t, s.SetSyncMetadata(ctx, "cursor", "c2"))

		value, err := s.GetSyncMetadata(ctx, "cursor")
		require.NoError(t, err)
		assert.Equal(t, "c2", value)
	})
}

func TestSQLiteStorage_SurvivesReopen(t *testing.T) {
	ctx := testContext()
	dsn := filepath.Join(t.TempDir(), "nested", "events.db")
	cfg := config.ClientStorage{Driver: DriverSQLite, DSN: dsn}

	s, err := NewStorage(ctx, cfg, "store-a", logger.Nop())
	require.NoError(t, err)
	require.NoError(t, s.CreateEvent(ctx, newRow("e1", "dev-a", 1, 1)))
	require.NoError(t, s.SetSyncMetadata(ctx, "cursor", "c9"))
	require.NoError(t, s.Close())

	reopened, err := NewStorage(ctx, cfg, "store-a", logger.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	pending, err := reopened.GetPendingEvents(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "e1", pending[0].ID)

	cursor, err := reopened.GetSyncMetadata(ctx, "cursor")
	require.NoError(t, err)
	assert.Equal(t, "c9", cursor)
}

func TestSQLiteStorage_StoresAreIsolated(t *testing.T) {
	ctx := testContext()
	dsn := filepath.Join(t.TempDir(), "shared.db")

	a, err := NewStorage(ctx, config.ClientStorage{Driver: DriverSQLite, DSN: dsn}, "store-a", logger.Nop())
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.CreateEvent(ctx, newRow("e1", "dev-a", 1, 1)))
	require.NoError(t, a.Close())

	b, err := NewStorage(ctx, config.ClientStorage{Driver: DriverSQLite, DSN: dsn}, "store-b", logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	count, err := b.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryStorage_Closed(t *testing.T) {
	ctx := testContext()
	s := NewMemoryEventStorage()
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.CreateEvent(ctx, newRow("e1", "dev-a", 1, 1)), ErrStorageClosed)
	_, err := s.GetPendingEvents(ctx)
	assert.ErrorIs(t, err, ErrStorageClosed)
	_, err = s.GetSyncMetadata(ctx, "cursor")
	assert.ErrorIs(t, err, ErrStorageClosed)

	require.NoError(t, s.Initialize(ctx))
	assert.NoError(t, s.CreateEvent(ctx, newRow("e1", "dev-a", 1, 1)))
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	ctx := testContext()
	s := NewMemoryEventStorage()
	require.NoError(t, s.CreateEvent(ctx, newRow("e1", "dev-a", 1, 1)))

	pending, err := s.GetPendingEvents(ctx)
	require.NoError(t, err)
	pending[0].Metadata["source"] = "tampered"

	again, err := s.GetPendingEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pos", again[0].Metadata["source"])
}

func TestNewStorage_UnknownDriver(t *testing.T) {
	_, err := NewStorage(testContext(), config.ClientStorage{Driver: "mongo"}, "store-a", logger.Nop())
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestRedisStorage_SurvivesReopen(t *testing.T) {
	ctx := testContext()
	cfg := redisConfig(miniredis.RunT(t))

	s, err := NewStorage(ctx, cfg, "store-a", logger.Nop())
	require.NoError(t, err)
	require.NoError(t, s.CreateEvent(ctx, newRow("e1", "dev-a", 1, 1)))
	require.NoError(t, s.CreateEvent(ctx, newRow("e2", "dev-a", 2, 2)))
	require.NoError(t, s.MarkEventAsSynced(ctx, "e2"))
	require.NoError(t, s.SetSyncMetadata(ctx, "cursor", "c9"))
	require.NoError(t, s.Close())

	reopened, err := NewStorage(ctx, cfg, "store-a", logger.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	pending, err := reopened.GetPendingEvents(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "e1", pending[0].ID)

	has, err := reopened.HasEvent(ctx, "e2")
	require.NoError(t, err)
	assert.True(t, has)

	cursor, err := reopened.GetSyncMetadata(ctx, "cursor")
	require.NoError(t, err)
	assert.Equal(t, "c9", cursor)
}

func TestRedisStorage_StoresAreIsolated(t *testing.T) {
	ctx := testContext()
	mr := miniredis.RunT(t)

	a, err := NewStorage(ctx, redisConfig(mr), "store-a", logger.Nop())
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.CreateEvent(ctx, newRow("e1", "dev-a", 1, 1)))
	require.NoError(t, a.SetSyncMetadata(ctx, "cursor", "c1"))

	b, err := NewStorage(ctx, redisConfig(mr), "store-b", logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	count, err := b.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = b.GetSyncMetadata(ctx, "cursor")
	assert.ErrorIs(t, err, ErrMetadataNotFound)
	assert.True(t, mr.Exists("store-a:pending"))
}

func TestNewStorage_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(mr)
	mr.Close()

	_, err := NewStorage(testContext(), cfg, "store-a", logger.Nop())
	assert.Error(t, err)
}

func TestNewStorage_RedisBadURL(t *testing.T) {
	_, err := NewStorage(testContext(), config.ClientStorage{Driver: DriverRedis, DSN: "://bad"}, "store-a", logger.Nop())
	assert.Error(t, err)
}
