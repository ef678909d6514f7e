package service

import (
	"context"
	"slices"

	"github.com/MKhiriev/go-event-sync/models"
)

func (c *coordinator) Subscribe(ctx context.Context) <-chan models.SyncState {
	ch := make(chan models.SyncState, 1)
	ch <- c.State()

	c.subsMu.Lock()
	c.subs[ch] = struct{}{}
	c.subsMu.Unlock()

	go func() {
		<-ctx.Done()
		c.subsMu.Lock()
		delete(c.subs, ch)
		close(ch)
		c.subsMu.Unlock()
	}()

	return ch
}

// publish hands the current snapshot to every subscriber. A subscriber that
// has not read the previous snapshot gets it replaced.
func (c *coordinator) publish() {
	snapshot := c.State()

	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	for ch := range c.subs {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

func (c *coordinator) setPhase(phase models.SyncPhase) {
	c.mu.Lock()
	if c.state.Phase == phase {
		c.mu.Unlock()
		return
	}
	c.state.Phase = phase
	c.mu.Unlock()
	c.publish()
}

func (c *coordinator) setProgress(message string, progress float64) {
	c.mu.Lock()
	c.state.Progress = &models.SyncProgress{Message: message, Progress: progress}
	c.mu.Unlock()
	c.publish()
}

func (c *coordinator) setPending(rows []models.EventLogRow) {
	if rows == nil {
		rows = []models.EventLogRow{}
	}
	c.mu.Lock()
	c.state.PendingEvents = rows
	c.mu.Unlock()
}

// refreshPending reloads the pending snapshot. It runs after the cycle
// context may already be cancelled.
func (c *coordinator) refreshPending(ctx context.Context) {
	rows, err := c.events.Pending(context.WithoutCancel(ctx))
	if err != nil {
		c.logger.Warn().Err(err).Str("func", "coordinator.refreshPending").Msg("failed to reload pending events")
		return
	}
	c.setPending(rows)
}

// addErrorLocked appends err unless an error with the same code (and event,
// for per-item errors) is already visible, in which case that one is
// refreshed. c.mu must be held.
func (c *coordinator) addErrorLocked(err models.SyncError) {
	for i, existing := range c.state.Errors {
		if existing.Code == err.Code && existing.Details["eventId"] == err.Details["eventId"] {
			c.state.Errors[i] = err
			return
		}
	}
	c.state.Errors = append(c.state.Errors, err)
}

// clearErrorsLocked drops every error carrying one of codes. c.mu must be
// held.
func (c *coordinator) clearErrorsLocked(codes ...string) {
	c.state.Errors = slices.DeleteFunc(c.state.Errors, func(e models.SyncError) bool {
		return slices.Contains(codes, e.Code)
	})
}
