package models

import "time"

// SyncPhase is the state of the sync cycle machine.
type SyncPhase string

const (
	PhaseIdle         SyncPhase = "IDLE"
	PhaseSyncing      SyncPhase = "SYNCING"
	PhaseSuccess      SyncPhase = "SUCCESS"
	PhaseError        SyncPhase = "ERROR"
	PhaseRetryBackoff SyncPhase = "RETRY_BACKOFF"
	PhaseCancelled    SyncPhase = "CANCELLED"
)

// Sync error codes.
const (
	ErrorCodeValidation      = "VALIDATION_ERROR"
	ErrorCodeTransport       = "TRANSPORT_ERROR"
	ErrorCodeConflict        = "CONFLICT"
	ErrorCodeStorage         = "STORAGE_ERROR"
	ErrorCodeServerRejection = "SERVER_REJECTION"
)

// SyncError is a user-visible failure recorded in the sync state.
type SyncError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// SyncProgress describes the in-flight cycle. Progress is in [0, 1].
type SyncProgress struct {
	Message  string  `json:"message"`
	Progress float64 `json:"progress"`
}

// SyncState is an immutable snapshot of the engine, safe to hand out to
// readers.
type SyncState struct {
	Phase         SyncPhase      `json:"phase"`
	IsOnline      bool           `json:"isOnline"`
	IsSyncing     bool           `json:"isSyncing"`
	LastSyncTime  *time.Time     `json:"lastSyncTime,omitempty"`
	PendingEvents []EventLogRow  `json:"pendingEvents"`
	Errors        []SyncError    `json:"errors"`
	ServerEvents  []EventLogRow  `json:"serverEvents"`
	Conflicts     []SyncConflict `json:"conflicts"`
	Progress      *SyncProgress  `json:"progress,omitempty"`
}

// Clone returns a deep copy of the slices held by s.
func (s SyncState) Clone() SyncState {
	out := s
	out.PendingEvents = append([]EventLogRow(nil), s.PendingEvents...)
	out.Errors = append([]SyncError(nil), s.Errors...)
	out.ServerEvents = append([]EventLogRow(nil), s.ServerEvents...)
	out.Conflicts = append([]SyncConflict(nil), s.Conflicts...)
	if s.LastSyncTime != nil {
		t := *s.LastSyncTime
		out.LastSyncTime = &t
	}
	if s.Progress != nil {
		p := *s.Progress
		out.Progress = &p
	}
	return out
}

// SyncResult summarizes one completed cycle.
type SyncResult struct {
	Pushed    int           `json:"pushed"`
	Rejected  int           `json:"rejected"`
	Pulled    int           `json:"pulled"`
	Conflicts int           `json:"conflicts"`
	Duration  time.Duration `json:"duration"`
}

// SyncStatistics accumulates counters over the lifetime of the engine.
type SyncStatistics struct {
	TotalSynced     int64         `json:"totalSynced"`
	TotalFailed     int64         `json:"totalFailed"`
	TotalConflicts  int64         `json:"totalConflicts"`
	TotalCycles     int64         `json:"totalCycles"`
	AverageSyncTime time.Duration `json:"averageSyncTime"`
}
