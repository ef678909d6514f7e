package service

import (
	"context"

	"github.com/MKhiriev/go-event-sync/internal/app"
	"github.com/MKhiriev/go-event-sync/internal/store"
	"github.com/MKhiriev/go-event-sync/models"
)

// queueSource is the coordinator bookkeeping the read-model needs.
type queueSource interface {
	State() models.SyncState
	ItemRetries() map[string]ItemRetry
	inFlightIDs() map[string]bool
	heldStreams() map[string]string
}

type statusModel struct {
	storage     store.EventStorage
	coordinator queueSource
}

// NewStatusModel derives the [models.SyncStatus] read-model from the pending
// log and the coordinator's in-memory bookkeeping.
func NewStatusModel(storage store.EventStorage, c Coordinator) StatusReader {
	coord, _ := c.(queueSource)
	return &statusModel{storage: storage, coordinator: coord}
}

func (m *statusModel) Status(ctx context.Context) (models.SyncStatus, error) {
	pending, err := m.storage.GetPendingEvents(ctx)
	if err != nil {
		return models.SyncStatus{}, &app.StorageError{Op: "pending events", Err: err}
	}

	status := models.SyncStatus{
		PendingCount: len(pending),
		Errors:       []models.SyncError{},
		Queue:        make([]models.QueueItem, 0, len(pending)),
	}

	var (
		retries  map[string]ItemRetry
		inFlight map[string]bool
		held     map[string]string
	)
	if m.coordinator != nil {
		state := m.coordinator.State()
		status.IsOnline = state.IsOnline
		status.IsSyncing = state.IsSyncing
		status.LastSyncTime = state.LastSyncTime
		status.Errors = state.Errors

		retries = m.coordinator.ItemRetries()
		inFlight = m.coordinator.inFlightIDs()
		held = m.coordinator.heldStreams()
	}

	for _, row := range pending {
		item := models.QueueItem{
			ID:         row.ID,
			Type:       row.EventType,
			EntityType: row.AggregateType,
			EntityID:   row.AggregateID,
			Timestamp:  row.Timestamp,
			RetryCount: retries[row.ID].Count,
			Status:     models.QueueItemPending,
		}

		switch _, isHeld := held[row.StreamID]; {
		case retries[row.ID].Terminal:
			item.Status = models.QueueItemFailed
		case isHeld:
			item.Status = models.QueueItemConflict
		case inFlight[row.ID]:
			item.Status = models.QueueItemSyncing
		}

		status.Queue = append(status.Queue, item)
	}

	return status, nil
}
