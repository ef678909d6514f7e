package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/mock"
	"github.com/MKhiriev/go-event-sync/internal/store"
	"github.com/MKhiriev/go-event-sync/models"
)

const testDevice = "device-a"

func testSyncConfig() config.SyncConfig {
	return config.SyncConfig{
		APIURL:               "http://sync.local",
		SyncInterval:         time.Minute,
		MaxRetries:           2,
		BatchSize:            50,
		Timeout:              time.Second,
		ConflictStrategy:     models.ConflictStrategyLWW,
		EnableBackgroundSync: true,
		StoreID:              "pos",
		DeviceID:             testDevice,
		InitialBackoff:       time.Millisecond,
		MaxBackoff:           2 * time.Millisecond,
	}
}

// harness wires a coordinator over the in-memory store and a mocked server.
type harness struct {
	storage store.Storage
	events  EventStore
	remote  *mock.MockRemoteAdapter
	coord   *coordinator
}

func newHarness(t *testing.T, cfg config.SyncConfig) *harness {
	t.Helper()

	storage := store.NewMemoryEventStorage()
	require.NoError(t, storage.Initialize(context.Background()))

	return newHarnessWithStorage(t, cfg, storage)
}

func newHarnessWithStorage(t *testing.T, cfg config.SyncConfig, storage store.Storage) *harness {
	t.Helper()

	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteAdapter(ctrl)

	resolver, err := NewConflictResolver(cfg.ConflictStrategy)
	require.NoError(t, err)

	events := NewEventStore(storage, cfg.DeviceID, logger.Nop())
	coord := NewCoordinator(storage, events, remote, resolver, cfg, nil, logger.Nop()).(*coordinator)
	coord.SetOnline(true)

	return &harness{storage: storage, events: events, remote: remote, coord: coord}
}

func (h *harness) appendOrder(t *testing.T, aggregateID string, total int, at time.Time) models.EventLogRow {
	t.Helper()

	row, err := h.events.Append(context.Background(), orderEvent(aggregateID, total, at))
	require.NoError(t, err)
	return row
}

func (h *harness) pending(t *testing.T) []models.EventLogRow {
	t.Helper()

	rows, err := h.storage.GetPendingEvents(context.Background())
	require.NoError(t, err)
	return rows
}

func (h *harness) expectEmptyPull() *gomock.Call {
	return h.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).Return(models.PullResponse{}, nil)
}

func orderEvent(aggregateID string, total int, at time.Time) models.SyncEvent {
	data, _ := json.Marshal(map[string]int{"total": total})
	return models.SyncEvent{
		EventType:     "order.updated",
		AggregateType: "order",
		AggregateID:   aggregateID,
		EventData:     data,
		Metadata:      map[string]string{"source": "pos"},
		Timestamp:     at,
	}
}

// serverRow builds an event as produced by another device.
func serverRow(id, aggregateID string, total int, at time.Time, version, lamport int64) models.EventLogRow {
	event := orderEvent(aggregateID, total, at)
	event.ID = id
	event.Version = version
	event.Timestamp = at.UTC()
	return models.EventLogRow{
		SyncEvent:  event,
		StreamID:   event.StreamID(),
		ProducerID: "device-b",
		StreamSeq:  version,
		Lamport:    lamport,
		Synced:     true,
	}
}

func acceptAll(_ context.Context, req models.PushRequest) (models.PushResponse, error) {
	resp := models.PushResponse{}
	for _, e := range req.Events {
		resp.Accepted = append(resp.Accepted, e.ID)
	}
	return resp, nil
}

func baseTime() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}
