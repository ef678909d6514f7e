package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-event-sync/internal/app"
	"github.com/MKhiriev/go-event-sync/internal/mock"
	"github.com/MKhiriev/go-event-sync/internal/store"
	"github.com/MKhiriev/go-event-sync/models"
)

func TestStatusModel_Empty(t *testing.T) {
	h := newHarness(t, testSyncConfig())

	status, err := NewStatusModel(h.storage, h.coord).Status(context.Background())
	require.NoError(t, err)

	assert.True(t, status.IsOnline)
	assert.False(t, status.IsSyncing)
	assert.Zero(t, status.PendingCount)
	assert.Nil(t, status.LastSyncTime)
	assert.Empty(t, status.Errors)
	assert.NotNil(t, status.Queue)
}

func TestStatusModel_QueueItemStatuses(t *testing.T) {
	ctx := context.Background()
	cfg := testSyncConfig()
	cfg.ConflictStrategy = models.ConflictStrategyManual
	cfg.MaxRetries = 0
	h := newHarness(t, cfg)

	rejected := h.appendOrder(t, "1", 1, baseTime())
	conflicting := h.appendOrder(t, "2", 1, baseTime())
	plain := h.appendOrder(t, "3", 1, baseTime())

	h.remote.EXPECT().Push(gomock.Any(), gomock.Any()).Return(models.PushResponse{
		Rejected: []models.RejectedEvent{
			{ID: rejected.ID, Code: "INVALID", Message: "nope"},
			{ID: conflicting.ID, Code: models.RejectionCodeConflict},
			{ID: plain.ID, Code: models.RejectionCodeConflict},
		},
	}, nil)
	h.remote.EXPECT().Pull(gomock.Any(), gomock.Any()).Return(models.PullResponse{
		Events: []models.EventLogRow{serverRow("srv-2", "2", 7, baseTime(), 2, 4)},
	}, nil)

	_, err := h.coord.Sync(ctx)
	require.NoError(t, err)

	status, err := NewStatusModel(h.storage, h.coord).Status(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, status.PendingCount)
	assert.NotNil(t, status.LastSyncTime)
	require.Len(t, status.Errors, 1)
	assert.Equal(t, models.ErrorCodeServerRejection, status.Errors[0].Code)

	byID := make(map[string]models.QueueItem)
	for _, item := range status.Queue {
		byID[item.ID] = item
	}
	require.Len(t, byID, 3)

	assert.Equal(t, models.QueueItemFailed, byID[rejected.ID].Status)
	assert.Equal(t, 1, byID[rejected.ID].RetryCount)
	assert.Equal(t, models.QueueItemConflict, byID[conflicting.ID].Status)
	assert.Equal(t, models.QueueItemPending, byID[plain.ID].Status)

	item := byID[plain.ID]
	assert.Equal(t, "order.updated", item.Type)
	assert.Equal(t, "order", item.EntityType)
	assert.Equal(t, "3", item.EntityID)
}

func TestStatusModel_InFlight(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, testSyncConfig())
	row := h.appendOrder(t, "42", 1, time.Time{})
	model := NewStatusModel(h.storage, h.coord)

	h.remote.EXPECT().Push(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req models.PushRequest) (models.PushResponse, error) {
			status, err := model.Status(ctx)
			require.NoError(t, err)
			assert.True(t, status.IsSyncing)
			require.Len(t, status.Queue, 1)
			assert.Equal(t, row.ID, status.Queue[0].ID)
			assert.Equal(t, models.QueueItemSyncing, status.Queue[0].Status)
			return acceptAll(ctx, req)
		})
	h.expectEmptyPull()

	_, err := h.coord.Sync(ctx)
	require.NoError(t, err)

	status, err := model.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.PendingCount)
}

func TestStatusModel_StorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mock.NewMockEventStorage(ctrl)
	storage.EXPECT().GetPendingEvents(gomock.Any()).Return(nil, store.ErrStorageClosed)

	_, err := NewStatusModel(storage, nil).Status(context.Background())

	var storageErr *app.StorageError
	require.ErrorAs(t, err, &storageErr)
}
