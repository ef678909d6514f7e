package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-event-sync/internal/utils"
	"github.com/MKhiriev/go-event-sync/models"
)

// NewConflictResolver returns the resolver implementing strategy.
func NewConflictResolver(strategy models.ConflictStrategy) (ConflictResolver, error) {
	switch strategy {
	case models.ConflictStrategyLWW:
		return NewLWWResolver(), nil
	case models.ConflictStrategyManual:
		return NewManualResolver(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// LWWResolver keeps the event that is later in the (timestamp, lamport, id)
// order. The decision depends only on the two events, so every device
// settles the same conflict the same way.
type LWWResolver struct{}

func NewLWWResolver() *LWWResolver {
	return &LWWResolver{}
}

func (r *LWWResolver) Strategy() models.ConflictStrategy {
	return models.ConflictStrategyLWW
}

func (r *LWWResolver) Resolve(conflict models.SyncConflict) (models.ConflictDecision, error) {
	equal, err := SameValue(conflict.LocalEvent, conflict.ServerEvent)
	if err != nil {
		return models.ConflictDecision{}, err
	}
	if equal {
		return models.ConflictDecision{Conflict: conflict, Winner: models.WinnerNone}, nil
	}

	if conflict.LocalEvent.Before(conflict.ServerEvent) {
		discarded := conflict.LocalEvent
		return models.ConflictDecision{Conflict: conflict, Winner: models.WinnerServer, Discarded: &discarded}, nil
	}

	discarded := conflict.ServerEvent
	return models.ConflictDecision{Conflict: conflict, Winner: models.WinnerLocal, Discarded: &discarded}, nil
}

// ManualResolver never decides: the conflict is held until a caller supplies
// the authoritative event.
type ManualResolver struct{}

func NewManualResolver() *ManualResolver {
	return &ManualResolver{}
}

func (r *ManualResolver) Strategy() models.ConflictStrategy {
	return models.ConflictStrategyManual
}

func (r *ManualResolver) Resolve(conflict models.SyncConflict) (models.ConflictDecision, error) {
	equal, err := SameValue(conflict.LocalEvent, conflict.ServerEvent)
	if err != nil {
		return models.ConflictDecision{}, err
	}
	if equal {
		return models.ConflictDecision{Conflict: conflict, Winner: models.WinnerNone}, nil
	}
	return models.ConflictDecision{Conflict: conflict, Winner: models.WinnerPending}, nil
}

// eventValue is the part of an event that carries meaning. Ids, clocks and
// timestamps are excluded.
type eventValue struct {
	EventType     string            `json:"eventType"`
	AggregateType string            `json:"aggregateType"`
	AggregateID   string            `json:"aggregateId"`
	EventData     json.RawMessage   `json:"eventData"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// SameValue reports whether a and b describe the same change, comparing the
// canonical JSON of type, aggregate, payload and metadata.
func SameValue(a, b models.EventLogRow) (bool, error) {
	ca, err := canonicalValue(a)
	if err != nil {
		return false, err
	}
	cb, err := canonicalValue(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ca, cb), nil
}

func canonicalValue(row models.EventLogRow) ([]byte, error) {
	payload := row.EventData
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}

	canonical, err := utils.CanonicalJSON(eventValue{
		EventType:     row.EventType,
		AggregateType: row.AggregateType,
		AggregateID:   row.AggregateID,
		EventData:     payload,
		Metadata:      row.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("error comparing event %s: %w", row.ID, err)
	}
	return canonical, nil
}
