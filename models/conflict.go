// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ConflictStrategy selects how concurrent edits of one stream are settled.
type ConflictStrategy string

const (
	// ConflictStrategyLWW settles conflicts automatically: the event with the
	// later timestamp wins, ties are broken by the higher lamport value.
	ConflictStrategyLWW ConflictStrategy = "LWW"

	// ConflictStrategyManual holds the local event until a caller decides.
	ConflictStrategyManual ConflictStrategy = "MANUAL"
)

// Valid reports whether s is a known strategy.
func (s ConflictStrategy) Valid() bool {
	return s == ConflictStrategyLWW || s == ConflictStrategyManual
}

// SyncConflict pairs a pending local event with a server event touching the
// same stream.
type SyncConflict struct {
	ID          string      `json:"id"`
	LocalID     string      `json:"localId"`
	LocalEvent  EventLogRow `json:"localEvent"`
	ServerEvent EventLogRow `json:"serverEvent"`
	DetectedAt  time.Time   `json:"detectedAt"`
}

// ConflictWinner names the side kept by a resolution.
type ConflictWinner string

const (
	WinnerLocal  ConflictWinner = "local"
	WinnerServer ConflictWinner = "server"
	// WinnerNone is returned when the two events carry the same value.
	WinnerNone ConflictWinner = "none"
	// WinnerPending is returned while a manual conflict awaits a decision.
	WinnerPending ConflictWinner = "pending"
	// WinnerResolution marks a manual conflict settled by a caller-supplied
	// event.
	WinnerResolution ConflictWinner = "resolution"
)

// ConflictDecision is the outcome of running a resolver on a conflict.
type ConflictDecision struct {
	Conflict SyncConflict   `json:"conflict"`
	Winner   ConflictWinner `json:"winner"`
	// Discarded is the losing event, kept for audit. Nil unless one side lost.
	Discarded *EventLogRow `json:"discarded,omitempty"`
}

// ConflictAudit is a record of a settled conflict.
type ConflictAudit struct {
	ConflictID string           `json:"conflictId"`
	StreamID   string           `json:"streamId"`
	Strategy   ConflictStrategy `json:"strategy"`
	Winner     ConflictWinner   `json:"winner"`
	Discarded  *EventLogRow     `json:"discarded,omitempty"`
	ResolvedAt time.Time        `json:"resolvedAt"`
}
