package store

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/MKhiriev/go-event-sync/models"
)

// memoryEventStorage keeps the log in process memory. Nothing survives a
// restart; it backs tests and ephemeral devices.
type memoryEventStorage struct {
	mu       sync.RWMutex
	events   map[string]models.EventLogRow
	order    []string
	metadata map[string]string
	closed   bool
}

// NewMemoryEventStorage returns an empty in-memory [Storage].
func NewMemoryEventStorage() Storage {
	return &memoryEventStorage{
		events:   make(map[string]models.EventLogRow),
		metadata: make(map[string]string),
	}
}

func (m *memoryEventStorage) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = false
	return nil
}

func (m *memoryEventStorage) CreateEvent(ctx context.Context, row models.EventLogRow) error {
	if row.ID == "" {
		return ErrEmptyEventID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStorageClosed
	}
	if _, ok := m.events[row.ID]; ok {
		return nil
	}

	m.events[row.ID] = cloneRow(row)
	m.order = append(m.order, row.ID)
	return nil
}

func (m *memoryEventStorage) GetPendingEvents(ctx context.Context) ([]models.EventLogRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStorageClosed
	}

	pending := make([]models.EventLogRow, 0)
	for _, id := range m.order {
		if row := m.events[id]; !row.Synced {
			pending = append(pending, cloneRow(row))
		}
	}

	slices.SortStableFunc(pending, comparePending)
	return pending, nil
}

func (m *memoryEventStorage) MarkEventAsSynced(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStorageClosed
	}
	if row, ok := m.events[id]; ok {
		row.Synced = true
		m.events[id] = row
	}
	return nil
}

func (m *memoryEventStorage) HasEvent(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return false, ErrStorageClosed
	}
	_, ok := m.events[id]
	return ok, nil
}

func (m *memoryEventStorage) SaveRemoteEvents(ctx context.Context, rows ...models.EventLogRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStorageClosed
	}

	for _, row := range rows {
		if row.ID == "" {
			return ErrEmptyEventID
		}
		if existing, ok := m.events[row.ID]; ok {
			existing.Synced = true
			m.events[row.ID] = existing
			continue
		}
		row.Synced = true
		m.events[row.ID] = cloneRow(row)
		m.order = append(m.order, row.ID)
	}
	return nil
}

func (m *memoryEventStorage) GetStreamEvents(ctx context.Context, streamID string) ([]models.EventLogRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStorageClosed
	}

	stream := make([]models.EventLogRow, 0)
	for _, id := range m.order {
		if row := m.events[id]; row.StreamID == streamID {
			stream = append(stream, cloneRow(row))
		}
	}

	slices.SortStableFunc(stream, compareStream)
	return stream, nil
}

func (m *memoryEventStorage) GetStreamHead(ctx context.Context, streamID string) (StreamHead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return StreamHead{}, ErrStorageClosed
	}

	var head StreamHead
	for _, row := range m.events {
		if row.StreamID != streamID {
			continue
		}
		head.Version = max(head.Version, row.Version)
		head.StreamSeq = max(head.StreamSeq, row.StreamSeq)
	}
	return head, nil
}

func (m *memoryEventStorage) PendingCount(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrStorageClosed
	}

	count := 0
	for _, row := range m.events {
		if !row.Synced {
			count++
		}
	}
	return count, nil
}

func (m *memoryEventStorage) GetSyncMetadata(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", ErrStorageClosed
	}
	value, ok := m.metadata[key]
	if !ok {
		return "", ErrMetadataNotFound
	}
	return value, nil
}

func (m *memoryEventStorage) SetSyncMetadata(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStorageClosed
	}
	m.metadata[key] = value
	return nil
}

func (m *memoryEventStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func comparePending(a, b models.EventLogRow) int {
	return cmp.Or(
		cmp.Compare(a.ProducerID, b.ProducerID),
		cmp.Compare(a.Lamport, b.Lamport),
		cmp.Compare(a.ID, b.ID),
	)
}

func compareStream(a, b models.EventLogRow) int {
	return cmp.Or(
		cmp.Compare(a.StreamSeq, b.StreamSeq),
		cmp.Compare(a.Lamport, b.Lamport),
		cmp.Compare(a.ID, b.ID),
	)
}

func cloneRow(row models.EventLogRow) models.EventLogRow {
	row.EventData = append([]byte(nil), row.EventData...)
	row.Metadata = maps.Clone(row.Metadata)
	return row
}
