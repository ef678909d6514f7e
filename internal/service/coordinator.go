package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-event-sync/internal/adapter"
	"github.com/MKhiriev/go-event-sync/internal/app"
	"github.com/MKhiriev/go-event-sync/internal/config"
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/store"
	"github.com/MKhiriev/go-event-sync/internal/utils"
	"github.com/MKhiriev/go-event-sync/internal/validators"
	"github.com/MKhiriev/go-event-sync/models"
)

// Cycle outcomes reported to the [SyncRecorder].
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
)

const auditLimit = 100

type coordinator struct {
	storage   store.Storage
	events    EventStore
	remote    adapter.RemoteAdapter
	resolver  ConflictResolver
	validator validators.Validator
	recorder  SyncRecorder
	ids       *utils.UUIDGenerator
	cfg       config.SyncConfig
	now       func() time.Time

	// syncing guards against overlapping cycles.
	syncing atomic.Bool

	mu        sync.Mutex
	state     models.SyncState
	cancel    context.CancelFunc
	cancelled bool
	retries   map[string]int
	terminal  map[string]bool
	inFlight  map[string]bool
	held      map[string]string // stream id -> conflict id
	loaded    bool
	audit     []models.ConflictAudit
	stats     models.SyncStatistics

	subsMu sync.Mutex
	subs   map[chan models.SyncState]struct{}

	logger *logger.Logger
}

// NewCoordinator wires a [Coordinator]. A nil recorder disables telemetry.
func NewCoordinator(
	storage store.Storage,
	events EventStore,
	remote adapter.RemoteAdapter,
	resolver ConflictResolver,
	cfg config.SyncConfig,
	recorder SyncRecorder,
	logger *logger.Logger,
) Coordinator {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}

	return &coordinator{
		storage:   storage,
		events:    events,
		remote:    remote,
		resolver:  resolver,
		validator: validators.NewEventValidator(),
		recorder:  recorder,
		ids:       utils.NewUUIDGenerator(),
		cfg:       cfg,
		now:       time.Now,
		state: models.SyncState{
			Phase:         models.PhaseIdle,
			PendingEvents: []models.EventLogRow{},
			Errors:        []models.SyncError{},
			ServerEvents:  []models.EventLogRow{},
			Conflicts:     []models.SyncConflict{},
		},
		retries:  make(map[string]int),
		terminal: make(map[string]bool),
		inFlight: make(map[string]bool),
		held:     make(map[string]string),
		subs:     make(map[chan models.SyncState]struct{}),
		logger:   logger,
	}
}

func (c *coordinator) Sync(ctx context.Context) (models.SyncResult, error) {
	if !c.IsOnline() {
		return models.SyncResult{}, ErrOffline
	}
	if !c.syncing.CompareAndSwap(false, true) {
		return models.SyncResult{}, ErrSyncInProgress
	}

	if err := c.load(ctx); err != nil {
		c.syncing.Store(false)
		return models.SyncResult{}, err
	}

	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	c.cancel = cancel
	c.cancelled = false
	c.state.Phase = models.PhaseSyncing
	c.state.IsSyncing = true
	c.state.Progress = &models.SyncProgress{Message: "starting", Progress: 0}
	c.mu.Unlock()
	c.publish()

	c.logger.Info().Str("func", "coordinator.Sync").Msg("sync cycle started")

	start := c.now()
	result, err := c.runCycle(cycleCtx)
	result.Duration = c.now().Sub(start)

	err = c.finish(ctx, result, err)
	return result, err
}

// finish records the outcome of a cycle and walks the phase back to IDLE.
func (c *coordinator) finish(ctx context.Context, result models.SyncResult, cycleErr error) error {
	log := c.logger.With().Str("func", "coordinator.finish").Logger()

	c.refreshPending(ctx)

	c.mu.Lock()
	cancelled := c.cancelled || (cycleErr != nil && errors.Is(cycleErr, context.Canceled))
	c.cancel = nil
	c.cancelled = false
	c.inFlight = make(map[string]bool)

	c.stats.TotalCycles++
	c.stats.TotalSynced += int64(result.Pushed)
	c.stats.TotalConflicts += int64(result.Conflicts)
	c.stats.AverageSyncTime += (result.Duration - c.stats.AverageSyncTime) / time.Duration(c.stats.TotalCycles)

	var outcome string
	switch {
	case cancelled:
		outcome = OutcomeCancelled
		c.state.Phase = models.PhaseCancelled
		cycleErr = ErrSyncCancelled
	case cycleErr != nil:
		outcome = OutcomeError
		c.stats.TotalFailed++
		c.state.Phase = models.PhaseError
		c.addErrorLocked(toSyncError(cycleErr, c.now()))
	default:
		outcome = OutcomeSuccess
		now := c.now().UTC()
		c.state.LastSyncTime = &now
		c.state.Phase = models.PhaseSuccess
		c.clearErrorsLocked(models.ErrorCodeTransport, models.ErrorCodeStorage)
		c.state.Progress = &models.SyncProgress{Message: "done", Progress: 1}
	}
	c.mu.Unlock()
	c.publish()

	c.recorder.RecordCycle(ctx, outcome, result.Duration)
	if outcome == OutcomeError {
		c.recorder.RecordError(ctx, app.ErrorCode(cycleErr))
	}

	c.mu.Lock()
	c.state.Phase = models.PhaseIdle
	c.state.IsSyncing = false
	c.state.Progress = nil
	c.mu.Unlock()
	c.syncing.Store(false)
	c.publish()

	log.Info().
		Str("outcome", outcome).
		Int("pushed", result.Pushed).
		Int("rejected", result.Rejected).
		Int("pulled", result.Pulled).
		Int("conflicts", result.Conflicts).
		Dur("duration", result.Duration).
		Msg("sync cycle finished")

	return cycleErr
}

func (c *coordinator) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return ErrNoActiveSync
	}
	c.cancelled = true
	c.cancel()
	return nil
}

func (c *coordinator) SetOnline(online bool) {
	c.mu.Lock()
	if c.state.IsOnline == online {
		c.mu.Unlock()
		return
	}
	c.state.IsOnline = online
	c.mu.Unlock()

	c.logger.Info().Str("func", "coordinator.SetOnline").Bool("online", online).Msg("connectivity changed")
	c.publish()
}

func (c *coordinator) IsOnline() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.IsOnline
}

func (c *coordinator) Resume(ctx context.Context) error {
	if !c.cfg.EnableBackgroundSync {
		return nil
	}

	_, err := c.Sync(ctx)
	if errors.Is(err, ErrSyncInProgress) || errors.Is(err, ErrOffline) {
		return nil
	}
	return err
}

func (c *coordinator) RetryAll(ctx context.Context) (models.SyncResult, error) {
	c.mu.Lock()
	c.retries = make(map[string]int)
	c.terminal = make(map[string]bool)
	c.mu.Unlock()

	return c.Sync(ctx)
}

func (c *coordinator) DismissError(code string) {
	c.mu.Lock()
	c.clearErrorsLocked(code)
	c.mu.Unlock()
	c.publish()
}

func (c *coordinator) State() models.SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

func (c *coordinator) Statistics() models.SyncStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *coordinator) ItemRetries() map[string]ItemRetry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]ItemRetry, len(c.retries))
	for id, n := range c.retries {
		out[id] = ItemRetry{Count: n, Terminal: c.terminal[id]}
	}
	return out
}

func (c *coordinator) Conflicts() []models.SyncConflict {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.SyncConflict(nil), c.state.Conflicts...)
}

func (c *coordinator) Audit() []models.ConflictAudit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ConflictAudit(nil), c.audit...)
}

// inFlightIDs reports the events of the batch currently being pushed.
func (c *coordinator) inFlightIDs() map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]bool, len(c.inFlight))
	for id := range c.inFlight {
		out[id] = true
	}
	return out
}

// heldStreams reports the streams blocked by a held conflict.
func (c *coordinator) heldStreams() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]string, len(c.held))
	for stream, id := range c.held {
		out[stream] = id
	}
	return out
}

func toSyncError(err error, now time.Time) models.SyncError {
	code := app.ErrorCode(err)
	switch {
	case code != "":
	case errors.Is(err, context.DeadlineExceeded):
		code = models.ErrorCodeTransport
	default:
		code = models.ErrorCodeStorage
	}
	return models.SyncError{
		Code:      code,
		Message:   err.Error(),
		Timestamp: now.UTC(),
	}
}
