// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// SyncEvent is a single immutable domain event produced on the device.
// Once appended to the event log it is never modified.
type SyncEvent struct {
	// ID is a globally unique identifier (UUIDv7 when assigned locally).
	ID string `json:"id"`

	// EventType is the domain name of the change (e.g. "order.created").
	EventType string `json:"eventType"`

	// AggregateID identifies the entity the event belongs to.
	AggregateID string `json:"aggregateId"`

	// AggregateType is the kind of entity (e.g. "order", "ticket").
	AggregateType string `json:"aggregateType"`

	// EventData is the opaque domain payload.
	EventData json.RawMessage `json:"eventData"`

	// Metadata carries optional free-form attributes.
	Metadata map[string]string `json:"metadata,omitempty"`

	// Timestamp is the wall-clock creation time on the producing device.
	Timestamp time.Time `json:"timestamp"`

	// Version is monotonic per aggregate.
	Version int64 `json:"version"`

	CorrelationID string `json:"correlationId,omitempty"`
	CausationID   string `json:"causationId,omitempty"`
}

// StreamID returns the "<aggregateType>-<aggregateId>" key the event is
// grouped under.
func (e SyncEvent) StreamID() string {
	return StreamKey(e.AggregateType, e.AggregateID)
}

// StreamKey builds a stream identifier from its aggregate parts.
func StreamKey(aggregateType, aggregateID string) string {
	return aggregateType + "-" + aggregateID
}

// EventLogRow is the persisted form of a SyncEvent together with its
// bookkeeping columns.
type EventLogRow struct {
	SyncEvent

	// StreamID equals SyncEvent.StreamID() at the time of append.
	StreamID string `json:"streamId"`

	// ProducerID identifies the device that produced the event.
	ProducerID string `json:"producerId"`

	// Synced is true once the server acknowledged the event.
	Synced bool `json:"synced"`

	// StreamSeq is the position of the event inside its stream.
	StreamSeq int64 `json:"streamSeq"`

	// Lamport is the logical clock value assigned by the producer.
	Lamport int64 `json:"lamport"`

	// Hash is the hex-encoded integrity digest of the canonical event.
	Hash string `json:"hash"`
}

// Before reports whether r is ordered strictly before other using the
// (timestamp, lamport, id) total order.
func (r EventLogRow) Before(other EventLogRow) bool {
	if !r.Timestamp.Equal(other.Timestamp) {
		return r.Timestamp.Before(other.Timestamp)
	}
	if r.Lamport != other.Lamport {
		return r.Lamport < other.Lamport
	}
	return r.ID < other.ID
}
