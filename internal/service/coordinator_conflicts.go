package service

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/MKhiriev/go-event-sync/internal/app"
	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/internal/store"
	"github.com/MKhiriev/go-event-sync/internal/validators"
	"github.com/MKhiriev/go-event-sync/models"
)

// load restores held conflicts persisted by a previous run.
func (c *coordinator) load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return nil
	}

	value, err := c.storage.GetSyncMetadata(ctx, metaKeyConflicts)
	switch {
	case errors.Is(err, store.ErrMetadataNotFound):
	case err != nil:
		return &app.StorageError{Op: "read conflicts", Err: err}
	default:
		var held []models.SyncConflict
		if err := json.Unmarshal([]byte(value), &held); err != nil {
			return &app.StorageError{Op: "decode conflicts", Err: err}
		}
		c.state.Conflicts = held
		for _, conflict := range held {
			c.held[conflict.LocalEvent.StreamID] = conflict.ID
		}
	}
	if c.state.Conflicts == nil {
		c.state.Conflicts = []models.SyncConflict{}
	}

	c.loaded = true
	return nil
}

// settleConflict compares server with the latest pending local event on the
// same stream and applies the decision. It returns the local events still
// pending on the stream and whether a conflict was raised.
func (c *coordinator) settleConflict(ctx context.Context, server models.EventLogRow, locals []models.EventLogRow) ([]models.EventLogRow, bool, error) {
	log := c.logger.With().
		Str("func", "coordinator.settleConflict").
		Str("stream_id", server.StreamID).
		Str("server_event_id", server.ID).
		Logger()

	local := locals[len(locals)-1]
	conflict := models.SyncConflict{
		ID:          c.ids.Generate(),
		LocalID:     local.ID,
		LocalEvent:  local,
		ServerEvent: server,
		DetectedAt:  c.now().UTC(),
	}

	decision, err := c.resolver.Resolve(conflict)
	if err != nil {
		return locals, false, err
	}

	switch decision.Winner {
	case models.WinnerNone:
		// the server already carries the same change
		if err := c.storage.MarkEventAsSynced(ctx, local.ID); err != nil {
			return locals, false, &app.StorageError{Op: "mark synced", Err: err}
		}
		c.acknowledge(local.ID)
		log.Debug().Str("local_event_id", local.ID).Msg("local event equals server event")
		return locals[:len(locals)-1], false, nil

	case models.WinnerServer:
		remaining := make([]models.EventLogRow, 0, len(locals))
		for _, l := range locals {
			if !l.Before(server) {
				remaining = append(remaining, l)
				continue
			}
			if err := c.storage.MarkEventAsSynced(ctx, l.ID); err != nil {
				return locals, true, &app.StorageError{Op: "discard local event", Err: err}
			}
			c.acknowledge(l.ID)
			discarded := l
			c.addAudit(models.ConflictAudit{
				ConflictID: conflict.ID,
				StreamID:   server.StreamID,
				Strategy:   c.resolver.Strategy(),
				Winner:     models.WinnerServer,
				Discarded:  &discarded,
				ResolvedAt: c.now().UTC(),
			})
		}
		log.Info().Str("local_event_id", local.ID).Msg("conflict settled, server event wins")
		c.recorder.AddConflicts(ctx, 1, c.resolver.Strategy())
		return remaining, true, nil

	case models.WinnerLocal:
		c.addAudit(models.ConflictAudit{
			ConflictID: conflict.ID,
			StreamID:   server.StreamID,
			Strategy:   c.resolver.Strategy(),
			Winner:     models.WinnerLocal,
			Discarded:  decision.Discarded,
			ResolvedAt: c.now().UTC(),
		})
		log.Info().Str("local_event_id", local.ID).Msg("conflict settled, local event wins")
		c.recorder.AddConflicts(ctx, 1, c.resolver.Strategy())
		return locals, true, nil

	default:
		if err := c.hold(ctx, conflict); err != nil {
			return locals, true, err
		}
		log.Info().
			Err(&app.ConflictError{StreamID: server.StreamID, LocalID: local.ID, ServerID: server.ID}).
			Str("conflict_id", conflict.ID).
			Msg("conflict held for manual resolution")
		c.recorder.AddConflicts(ctx, 1, c.resolver.Strategy())
		return locals, true, nil
	}
}

// hold keeps a conflict until ResolveConflict. A newer server event on an
// already held stream replaces the server side of the existing conflict.
func (c *coordinator) hold(ctx context.Context, conflict models.SyncConflict) error {
	c.mu.Lock()
	stream := conflict.LocalEvent.StreamID
	if id, ok := c.held[stream]; ok {
		for i := range c.state.Conflicts {
			if c.state.Conflicts[i].ID == id {
				c.state.Conflicts[i].ServerEvent = conflict.ServerEvent
				c.state.Conflicts[i].LocalEvent = conflict.LocalEvent
				c.state.Conflicts[i].LocalID = conflict.LocalID
			}
		}
	} else {
		c.held[stream] = conflict.ID
		c.state.Conflicts = append(c.state.Conflicts, conflict)
	}
	err := c.persistConflictsLocked(ctx)
	c.mu.Unlock()

	c.publish()
	return err
}

func (c *coordinator) persistConflictsLocked(ctx context.Context) error {
	data, err := json.Marshal(c.state.Conflicts)
	if err != nil {
		return &app.StorageError{Op: "encode conflicts", Err: err}
	}
	if err := c.storage.SetSyncMetadata(ctx, metaKeyConflicts, string(data)); err != nil {
		return &app.StorageError{Op: "save conflicts", Err: err}
	}
	return nil
}

func (c *coordinator) ResolveConflict(ctx context.Context, conflictID string, resolution models.SyncEvent) (models.EventLogRow, error) {
	log := logger.FromContext(ctx).With().Str("func", "coordinator.ResolveConflict").Str("conflict_id", conflictID).Logger()

	if err := c.load(ctx); err != nil {
		return models.EventLogRow{}, err
	}

	c.mu.Lock()
	idx := slices.IndexFunc(c.state.Conflicts, func(sc models.SyncConflict) bool { return sc.ID == conflictID })
	if idx < 0 {
		c.mu.Unlock()
		return models.EventLogRow{}, ErrConflictNotFound
	}
	conflict := c.state.Conflicts[idx]
	c.mu.Unlock()

	local := conflict.LocalEvent
	if resolution.AggregateType == "" && resolution.AggregateID == "" {
		resolution.AggregateType = local.AggregateType
		resolution.AggregateID = local.AggregateID
	}
	if resolution.StreamID() != local.StreamID {
		return models.EventLogRow{}, app.NewValidationError(app.FieldError{
			Field:   validators.FieldAggregateID,
			Message: ErrResolutionStream.Error(),
			Err:     ErrResolutionStream,
		})
	}
	resolution.ID = ""
	resolution.Version = 0

	pending, err := c.events.Pending(ctx)
	if err != nil {
		return models.EventLogRow{}, err
	}
	superseded := conflictingLocals(pending, local)

	row, err := c.events.Append(ctx, resolution)
	if err != nil {
		log.Err(err).Msg("failed to append resolution")
		return models.EventLogRow{}, err
	}

	for _, p := range superseded {
		if err := c.storage.MarkEventAsSynced(ctx, p.ID); err != nil {
			return row, &app.StorageError{Op: "discard local event", Err: err}
		}
		c.acknowledge(p.ID)
	}

	c.mu.Lock()
	c.state.Conflicts = slices.DeleteFunc(c.state.Conflicts, func(sc models.SyncConflict) bool { return sc.ID == conflictID })
	delete(c.held, local.StreamID)
	err = c.persistConflictsLocked(ctx)
	c.mu.Unlock()
	if err != nil {
		return row, err
	}

	resolvedAt := c.now().UTC()
	for _, p := range superseded {
		discarded := p
		c.addAudit(models.ConflictAudit{
			ConflictID: conflictID,
			StreamID:   local.StreamID,
			Strategy:   c.resolver.Strategy(),
			Winner:     models.WinnerResolution,
			Discarded:  &discarded,
			ResolvedAt: resolvedAt,
		})
	}

	c.refreshPending(ctx)
	c.publish()

	log.Info().Str("event_id", row.ID).Int("superseded", len(superseded)).Msg("conflict resolved")
	return row, nil
}

// conflictingLocals returns the pending events on the held stream that the
// conflict covered: everything up to the held local event. Events appended
// after detection stay pending.
func conflictingLocals(pending []models.EventLogRow, held models.EventLogRow) []models.EventLogRow {
	var out []models.EventLogRow
	for _, p := range pending {
		if p.StreamID != held.StreamID || p.Lamport > held.Lamport {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (c *coordinator) addAudit(entry models.ConflictAudit) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.audit = append(c.audit, entry)
	if len(c.audit) > auditLimit {
		c.audit = slices.Clone(c.audit[len(c.audit)-auditLimit:])
	}
}
