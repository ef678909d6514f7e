package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/go-event-sync/internal/app"
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/store"
	"github.com/MKhiriev/go-event-sync/internal/utils"
	"github.com/MKhiriev/go-event-sync/internal/validators"
	"github.com/MKhiriev/go-event-sync/models"
)

// Sync metadata keys.
const (
	metaKeyLamport   = "lamport"
	metaKeyCursor    = "cursor"
	metaKeyConflicts = "conflicts"
)

type eventStore struct {
	storage   store.Storage
	validator validators.Validator
	ids       *utils.UUIDGenerator
	producer  string
	now       func() time.Time

	// mu serializes appends so that version, stream_seq and lamport are
	// assigned without gaps or duplicates.
	mu      sync.Mutex
	lamport int64
	loaded  bool

	logger *logger.Logger
}

// NewEventStore returns an [EventStore] writing to storage on behalf of the
// device producerID.
func NewEventStore(storage store.Storage, producerID string, logger *logger.Logger) EventStore {
	return &eventStore{
		storage:   storage,
		validator: validators.NewEventValidator(),
		ids:       utils.NewUUIDGenerator(),
		producer:  producerID,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *eventStore) Append(ctx context.Context, event models.SyncEvent) (models.EventLogRow, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, event); err != nil {
		return models.EventLogRow{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID != "" {
		exists, err := s.storage.HasEvent(ctx, event.ID)
		if err != nil {
			return models.EventLogRow{}, &app.StorageError{Op: "has event", Err: err}
		}
		if exists {
			log.Debug().Str("func", "eventStore.Append").Str("event_id", event.ID).Msg("event already stored")
			return s.stored(ctx, event)
		}
	} else {
		event.ID = s.ids.Generate()
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	event.Timestamp = event.Timestamp.UTC().Truncate(time.Millisecond)

	streamID := event.StreamID()
	head, err := s.storage.GetStreamHead(ctx, streamID)
	if err != nil {
		return models.EventLogRow{}, &app.StorageError{Op: "stream head", Err: err}
	}

	switch {
	case event.Version == 0:
		event.Version = head.Version + 1
	case event.Version <= head.Version:
		return models.EventLogRow{}, app.NewValidationError(app.FieldError{
			Field:   validators.FieldVersion,
			Message: fmt.Sprintf("%s: got %d, stream is at %d", ErrNonMonotonicVersion, event.Version, head.Version),
			Err:     ErrNonMonotonicVersion,
		})
	}

	hash, err := EventHash(event)
	if err != nil {
		return models.EventLogRow{}, err
	}

	lamport, err := s.tick(ctx)
	if err != nil {
		return models.EventLogRow{}, &app.StorageError{Op: "lamport clock", Err: err}
	}

	row := models.EventLogRow{
		SyncEvent:  event,
		StreamID:   streamID,
		ProducerID: s.producer,
		StreamSeq:  head.StreamSeq + 1,
		Lamport:    lamport,
		Hash:       hash,
	}

	if err := s.storage.CreateEvent(ctx, row); err != nil {
		log.Err(err).Str("func", "eventStore.Append").Str("event_id", row.ID).Str("stream_id", streamID).Msg("failed to append event")
		return models.EventLogRow{}, &app.StorageError{Op: "create event", Err: err}
	}

	log.Debug().
		Str("func", "eventStore.Append").
		Str("event_id", row.ID).
		Str("stream_id", streamID).
		Int64("lamport", lamport).
		Msg("event appended")

	return row, nil
}

func (s *eventStore) stored(ctx context.Context, event models.SyncEvent) (models.EventLogRow, error) {
	rows, err := s.storage.GetStreamEvents(ctx, event.StreamID())
	if err != nil {
		return models.EventLogRow{}, &app.StorageError{Op: "stream events", Err: err}
	}
	for _, row := range rows {
		if row.ID == event.ID {
			return row, nil
		}
	}
	// same id stored under another aggregate
	return models.EventLogRow{SyncEvent: event, StreamID: event.StreamID()}, nil
}

func (s *eventStore) Observe(ctx context.Context, lamport int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return &app.StorageError{Op: "lamport clock", Err: err}
	}
	if lamport <= s.lamport {
		return nil
	}

	if err := s.storage.SetSyncMetadata(ctx, metaKeyLamport, strconv.FormatInt(lamport, 10)); err != nil {
		return &app.StorageError{Op: "lamport clock", Err: err}
	}
	s.lamport = lamport
	return nil
}

func (s *eventStore) Pending(ctx context.Context) ([]models.EventLogRow, error) {
	rows, err := s.storage.GetPendingEvents(ctx)
	if err != nil {
		return nil, &app.StorageError{Op: "pending events", Err: err}
	}
	return rows, nil
}

// tick advances the clock and persists it before the event that uses it is
// written, so a value is never handed out twice across restarts.
func (s *eventStore) tick(ctx context.Context) (int64, error) {
	if err := s.load(ctx); err != nil {
		return 0, err
	}

	next := s.lamport + 1
	if err := s.storage.SetSyncMetadata(ctx, metaKeyLamport, strconv.FormatInt(next, 10)); err != nil {
		return 0, err
	}
	s.lamport = next
	return next, nil
}

func (s *eventStore) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	value, err := s.storage.GetSyncMetadata(ctx, metaKeyLamport)
	switch {
	case errors.Is(err, store.ErrMetadataNotFound):
		s.lamport = 0
	case err != nil:
		return err
	default:
		n, parseErr := strconv.ParseInt(value, 10, 64)
		if parseErr != nil {
			return fmt.Errorf("corrupted lamport clock %q: %w", value, parseErr)
		}
		s.lamport = n
	}

	s.loaded = true
	return nil
}

// EventHash returns the integrity digest of event: BLAKE2b-256 over its
// canonical JSON form.
func EventHash(event models.SyncEvent) (string, error) {
	canonical, err := utils.CanonicalJSON(event)
	if err != nil {
		return "", fmt.Errorf("error hashing event %s: %w", event.ID, err)
	}
	return utils.Digest(canonical), nil
}
