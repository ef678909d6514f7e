package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MKhiriev/go-event-sync/models"
)

// eventRequest is the body accepted by POST /api/events and the resolve
// endpoint. Bookkeeping fields are filled by the event store.
type eventRequest struct {
	ID            string            `json:"id"`
	EventType     string            `json:"eventType"`
	AggregateID   string            `json:"aggregateId"`
	AggregateType string            `json:"aggregateType"`
	EventData     json.RawMessage   `json:"eventData"`
	Metadata      map[string]string `json:"metadata"`
	Timestamp     time.Time         `json:"timestamp"`
	Version       int64             `json:"version"`
	CorrelationID string            `json:"correlationId"`
	CausationID   string            `json:"causationId"`
}

func (e eventRequest) toEvent() models.SyncEvent {
	return models.SyncEvent{
		ID:            e.ID,
		EventType:     e.EventType,
		AggregateID:   e.AggregateID,
		AggregateType: e.AggregateType,
		EventData:     e.EventData,
		Metadata:      e.Metadata,
		Timestamp:     e.Timestamp,
		Version:       e.Version,
		CorrelationID: e.CorrelationID,
		CausationID:   e.CausationID,
	}
}

func (h *Handler) appendEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, "*Handler.appendEvent", err)
		return
	}

	row, err := h.services.EventStore.Append(r.Context(), req.toEvent())
	if err != nil {
		writeError(w, r, "*Handler.appendEvent", err)
		return
	}

	h.writeSigned(w, row, http.StatusCreated)
}
