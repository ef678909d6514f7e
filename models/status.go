package models

import "time"

// QueueItemStatus is the UI-facing state of one pending event.
type QueueItemStatus string

const (
	QueueItemPending  QueueItemStatus = "pending"
	QueueItemSyncing  QueueItemStatus = "syncing"
	QueueItemFailed   QueueItemStatus = "failed"
	QueueItemConflict QueueItemStatus = "conflict"
)

// QueueItem is a summary of a not-yet-synced event.
type QueueItem struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Timestamp  time.Time       `json:"timestamp"`
	RetryCount int             `json:"retryCount"`
	Status     QueueItemStatus `json:"status"`
}

// SyncStatus is the read-model consumed by status indicators.
type SyncStatus struct {
	IsOnline     bool        `json:"isOnline"`
	IsSyncing    bool        `json:"isSyncing"`
	PendingCount int         `json:"pendingCount"`
	LastSyncTime *time.Time  `json:"lastSyncTime,omitempty"`
	Errors       []SyncError `json:"errors"`
	Queue        []QueueItem `json:"queue"`
}
