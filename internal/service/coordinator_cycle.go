package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-event-sync/internal/app"
	"github.com/MKhiriev/go-event-sync/internal/store"
	"github.com/MKhiriev/go-event-sync/models"
	"github.com/sethvargo/go-retry"
)

// runCycle pushes the pending queue in batches and then pulls server events.
// Pull is skipped when a push batch exhausts its transport retries.
func (c *coordinator) runCycle(ctx context.Context) (models.SyncResult, error) {
	var result models.SyncResult

	pending, err := c.events.Pending(ctx)
	if err != nil {
		return result, err
	}
	c.setPending(pending)

	batches := chunk(c.pushable(pending), c.cfg.BatchSize)
	steps := float64(len(batches) + 1)

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		c.setProgress(fmt.Sprintf("pushing batch %d of %d", i+1, len(batches)), float64(i)/steps)

		pushed, rejected, err := c.pushBatch(ctx, batch)
		result.Pushed += pushed
		result.Rejected += rejected
		if err != nil {
			return result, err
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	c.setProgress("pulling server events", float64(len(batches))/steps)

	pulled, conflicts, err := c.pull(ctx)
	result.Pulled = pulled
	result.Conflicts = conflicts
	if err != nil {
		return result, err
	}

	return result, nil
}

// pushable drops events that must not be sent: terminal rejections and
// events on a stream blocked by a held conflict.
func (c *coordinator) pushable(pending []models.EventLogRow) []models.EventLogRow {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.EventLogRow, 0, len(pending))
	for _, row := range pending {
		if c.terminal[row.ID] {
			continue
		}
		if _, ok := c.held[row.StreamID]; ok {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (c *coordinator) pushBatch(ctx context.Context, batch []models.EventLogRow) (pushed, rejected int, err error) {
	log := c.logger.With().Str("func", "coordinator.pushBatch").Int("batch_size", len(batch)).Logger()

	c.mu.Lock()
	for _, row := range batch {
		c.inFlight[row.ID] = true
	}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		for _, row := range batch {
			delete(c.inFlight, row.ID)
		}
		c.mu.Unlock()
	}()

	req := models.PushRequest{DeviceID: c.cfg.DeviceID, Events: batch}

	var resp models.PushResponse
	err = c.withRetry(ctx, "push", func(ctx context.Context) error {
		var callErr error
		resp, callErr = c.remote.Push(ctx, req)
		return callErr
	})
	if err != nil {
		var rejection *app.ServerRejectionError
		if errors.As(err, &rejection) {
			if rejection.Reason == models.RejectionCodeConflict {
				// settled when the competing server events are pulled
				log.Debug().Err(err).Msg("batch rejected as conflicting, keeping it pending")
				return 0, len(batch), nil
			}
			log.Warn().Err(err).Msg("batch rejected by server")
			for _, row := range batch {
				c.reject(ctx, row.ID, rejection.Reason, rejection.Message)
			}
			return 0, len(batch), nil
		}
		log.Err(err).Msg("push failed")
		return 0, 0, err
	}

	sent := make(map[string]bool, len(batch))
	for _, row := range batch {
		sent[row.ID] = true
	}

	for _, id := range resp.Accepted {
		if !sent[id] {
			log.Warn().Str("event_id", id).Msg("server acknowledged an event that was not sent")
			continue
		}
		if err := c.storage.MarkEventAsSynced(ctx, id); err != nil {
			return pushed, rejected, &app.StorageError{Op: "mark synced", Err: err}
		}
		c.acknowledge(id)
		pushed++
	}

	for _, r := range resp.Rejected {
		if !sent[r.ID] {
			continue
		}
		rejected++
		if r.Code == models.RejectionCodeConflict {
			// settled when the competing server event is pulled
			log.Debug().Str("event_id", r.ID).Msg("event rejected as conflicting, keeping it pending")
			continue
		}
		c.reject(ctx, r.ID, r.Code, r.Message)
	}

	c.recorder.AddPushed(ctx, pushed)
	log.Debug().Int("pushed", pushed).Int("rejected", rejected).Msg("batch pushed")
	return pushed, rejected, nil
}

// reject counts a refusal of one event. Past MaxRetries the event becomes
// terminal: it stays pending but is no longer sent until RetryAll.
func (c *coordinator) reject(ctx context.Context, id, reason, message string) {
	c.mu.Lock()
	c.retries[id]++
	count := c.retries[id]
	becameTerminal := count > c.cfg.MaxRetries && !c.terminal[id]
	if becameTerminal {
		c.terminal[id] = true
		c.stats.TotalFailed++
		c.addErrorLocked(models.SyncError{
			Code:    models.ErrorCodeServerRejection,
			Message: fmt.Sprintf("event %s rejected %d times: %s %s", id, count, reason, message),
			Details: map[string]string{
				"eventId": id,
				"reason":  reason,
			},
			Timestamp: c.now().UTC(),
		})
	}
	c.mu.Unlock()

	if becameTerminal {
		c.logger.Warn().Str("func", "coordinator.reject").Str("event_id", id).Int("retries", count).Msg("event rejected permanently")
		c.recorder.RecordError(ctx, models.ErrorCodeServerRejection)
		c.publish()
	}
}

// acknowledge forgets the rejection bookkeeping of a synced event.
func (c *coordinator) acknowledge(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.retries, id)
	delete(c.terminal, id)
	c.state.Errors = slices.DeleteFunc(c.state.Errors, func(e models.SyncError) bool {
		return e.Code == models.ErrorCodeServerRejection && e.Details["eventId"] == id
	})
}

// pull pages through server events from the stored cursor.
func (c *coordinator) pull(ctx context.Context) (pulled, conflicts int, err error) {
	log := c.logger.With().Str("func", "coordinator.pull").Logger()

	cursor, err := c.storage.GetSyncMetadata(ctx, metaKeyCursor)
	if err != nil && !errors.Is(err, store.ErrMetadataNotFound) {
		return 0, 0, &app.StorageError{Op: "read cursor", Err: err}
	}

	var staged []models.EventLogRow
	for {
		if err := ctx.Err(); err != nil {
			return pulled, conflicts, err
		}

		req := models.PullRequest{DeviceID: c.cfg.DeviceID, Cursor: cursor, Limit: c.cfg.BatchSize}

		var resp models.PullResponse
		err := c.withRetry(ctx, "pull", func(ctx context.Context) error {
			var callErr error
			resp, callErr = c.remote.Pull(ctx, req)
			return callErr
		})
		if err != nil {
			log.Err(err).Str("cursor", cursor).Msg("pull failed")
			return pulled, conflicts, err
		}

		rows := c.validRows(ctx, resp.Events)
		n, k, err := c.applyPulled(ctx, rows)
		pulled += n
		conflicts += k
		if err != nil {
			return pulled, conflicts, err
		}
		staged = append(staged, rows...)

		advanced := resp.Cursor != "" && resp.Cursor != cursor
		if advanced {
			if err := c.storage.SetSyncMetadata(ctx, metaKeyCursor, resp.Cursor); err != nil {
				return pulled, conflicts, &app.StorageError{Op: "save cursor", Err: err}
			}
			cursor = resp.Cursor
		}

		if !resp.HasMore || len(resp.Events) == 0 {
			break
		}
		if !advanced {
			// the same page would come back again
			log.Warn().Str("cursor", cursor).Msg("server reported more events without advancing the cursor")
			break
		}
	}

	c.mu.Lock()
	c.state.ServerEvents = staged
	if c.state.ServerEvents == nil {
		c.state.ServerEvents = []models.EventLogRow{}
	}
	c.mu.Unlock()

	c.recorder.AddPulled(ctx, pulled)
	log.Debug().Int("pulled", pulled).Int("conflicts", conflicts).Str("cursor", cursor).Msg("pull finished")
	return pulled, conflicts, nil
}

// validRows drops malformed server rows and surfaces one validation error
// per dropped row.
func (c *coordinator) validRows(ctx context.Context, rows []models.EventLogRow) []models.EventLogRow {
	out := make([]models.EventLogRow, 0, len(rows))
	for _, row := range rows {
		if err := c.validator.Validate(ctx, row); err != nil {
			c.logger.Warn().Err(err).Str("func", "coordinator.validRows").Str("event_id", row.ID).Msg("dropping invalid server event")
			c.mu.Lock()
			c.addErrorLocked(models.SyncError{
				Code:      models.ErrorCodeValidation,
				Message:   err.Error(),
				Details:   map[string]string{"eventId": row.ID},
				Timestamp: c.now().UTC(),
			})
			c.mu.Unlock()
			continue
		}
		if row.StreamID == "" {
			row.StreamID = row.SyncEvent.StreamID()
		}
		row.Synced = true
		out = append(out, row)
	}
	return out
}

// applyPulled stores one page of server events. An echo of a pending local
// event acknowledges it. A foreign event on a stream with pending local
// events is a conflict.
func (c *coordinator) applyPulled(ctx context.Context, rows []models.EventLogRow) (pulled, conflicts int, err error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	pending, err := c.events.Pending(ctx)
	if err != nil {
		return 0, 0, err
	}
	byID := make(map[string]models.EventLogRow, len(pending))
	byStream := make(map[string][]models.EventLogRow)
	for _, row := range pending {
		byID[row.ID] = row
		byStream[row.StreamID] = append(byStream[row.StreamID], row)
	}

	var (
		toSave     []models.EventLogRow
		maxLamport int64
	)
	for _, row := range rows {
		maxLamport = max(maxLamport, row.Lamport)

		if _, ok := byID[row.ID]; ok {
			if err := c.storage.MarkEventAsSynced(ctx, row.ID); err != nil {
				return pulled, conflicts, &app.StorageError{Op: "mark synced", Err: err}
			}
			c.acknowledge(row.ID)
			delete(byID, row.ID)
			byStream[row.StreamID] = slices.DeleteFunc(byStream[row.StreamID], func(r models.EventLogRow) bool {
				return r.ID == row.ID
			})
			continue
		}

		exists, err := c.storage.HasEvent(ctx, row.ID)
		if err != nil {
			return pulled, conflicts, &app.StorageError{Op: "has event", Err: err}
		}
		if exists {
			continue
		}

		if locals := byStream[row.StreamID]; len(locals) > 0 {
			remaining, raised, err := c.settleConflict(ctx, row, locals)
			if err != nil {
				return pulled, conflicts, err
			}
			byStream[row.StreamID] = remaining
			for _, l := range locals {
				if !slices.ContainsFunc(remaining, func(r models.EventLogRow) bool { return r.ID == l.ID }) {
					delete(byID, l.ID)
				}
			}
			if raised {
				conflicts++
			}
		}

		toSave = append(toSave, row)
	}

	if len(toSave) > 0 {
		if err := c.storage.SaveRemoteEvents(ctx, toSave...); err != nil {
			return pulled, conflicts, &app.StorageError{Op: "save remote events", Err: err}
		}
	}
	if err := c.events.Observe(ctx, maxLamport); err != nil {
		return pulled, conflicts, err
	}

	return len(toSave), conflicts, nil
}

// withRetry runs call under the configured backoff. Only transport failures
// are retried; the phase shows RETRY_BACKOFF while waiting.
func (c *coordinator) withRetry(ctx context.Context, op string, call func(context.Context) error) error {
	backoff := newBackoff(c.cfg, func(attempt int, wait time.Duration) {
		c.logger.Warn().
			Str("func", "coordinator.withRetry").
			Str("op", op).
			Int("attempt", attempt).
			Dur("wait", wait).
			Msg("remote call failed, backing off")
		c.setPhase(models.PhaseRetryBackoff)
	})

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		c.setPhase(models.PhaseSyncing)

		callCtx := ctx
		if c.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
			defer cancel()
		}

		err := call(callCtx)
		if err != nil && app.IsRetryable(err) && ctx.Err() == nil {
			return retry.RetryableError(err)
		}
		return err
	})
	c.setPhase(models.PhaseSyncing)
	return err
}

func chunk(rows []models.EventLogRow, size int) [][]models.EventLogRow {
	var out [][]models.EventLogRow
	for len(rows) > 0 {
		n := min(size, len(rows))
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}
