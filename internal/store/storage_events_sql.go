// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/models"
)

// sqlEventStorage is the SQLite / Postgres implementation of [Storage].
// Rows of several logical stores may share one database; every statement is
// scoped by store_id.
type sqlEventStorage struct {
	*DB
	storeID string
	logger  *logger.Logger
}

// NewSQLEventStorage returns a [Storage] backed by db.
func NewSQLEventStorage(db *DB, storeID string, logger *logger.Logger) Storage {
	return &sqlEventStorage{
		DB:      db,
		storeID: storeID,
		logger:  logger,
	}
}

func (s *sqlEventStorage) Initialize(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if err := s.DB.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "sqlEventStorage.Initialize").Msg("database is unreachable")
		return fmt.Errorf("database is unreachable: %w", err)
	}

	if err := s.DB.Migrate(); err != nil {
		log.Err(err).Str("func", "sqlEventStorage.Initialize").Msg("failed to apply migrations")
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

func (s *sqlEventStorage) CreateEvent(ctx context.Context, row models.EventLogRow) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertEventsQuery(s.builder(), s.storeID, false, row)
	if err != nil {
		log.Err(err).Str("func", "sqlEventStorage.CreateEvent").Str("event_id", row.ID).Msg("failed to build insert query")
		return err
	}

	err = s.withRetry(ctx, func(ctx context.Context) error {
		_, execErr := s.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).
			Str("func", "sqlEventStorage.CreateEvent").
			Str("event_id", row.ID).
			Str("stream_id", row.StreamID).
			Msg("failed to insert event")
		return fmt.Errorf("%w: insert event %s: %w", ErrExecutingStatement, row.ID, err)
	}

	return nil
}

func (s *sqlEventStorage) GetPendingEvents(ctx context.Context) ([]models.EventLogRow, error) {
	query, args, err := buildSelectPendingQuery(s.builder(), s.storeID)
	if err != nil {
		return nil, err
	}

	return s.queryRows(ctx, "sqlEventStorage.GetPendingEvents", query, args...)
}

func (s *sqlEventStorage) MarkEventAsSynced(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildMarkSyncedQuery(s.builder(), s.storeID, id)
	if err != nil {
		return err
	}

	err = s.withRetry(ctx, func(ctx context.Context) error {
		_, execErr := s.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "sqlEventStorage.MarkEventAsSynced").Str("event_id", id).Msg("failed to mark event as synced")
		return fmt.Errorf("%w: mark event %s synced: %w", ErrExecutingStatement, id, err)
	}

	return nil
}

func (s *sqlEventStorage) HasEvent(ctx context.Context, id string) (bool, error) {
	query, args, err := buildCountEventQuery(s.builder(), s.storeID, id)
	if err != nil {
		return false, err
	}

	count, err := s.queryCount(ctx, "sqlEventStorage.HasEvent", query, args...)
	return count > 0, err
}

func (s *sqlEventStorage) PendingCount(ctx context.Context) (int, error) {
	query, args, err := buildCountPendingQuery(s.builder(), s.storeID)
	if err != nil {
		return 0, err
	}

	return s.queryCount(ctx, "sqlEventStorage.PendingCount", query, args...)
}

func (s *sqlEventStorage) GetStreamEvents(ctx context.Context, streamID string) ([]models.EventLogRow, error) {
	query, args, err := buildSelectStreamQuery(s.builder(), s.storeID, streamID)
	if err != nil {
		return nil, err
	}

	return s.queryRows(ctx, "sqlEventStorage.GetStreamEvents", query, args...)
}

func (s *sqlEventStorage) GetStreamHead(ctx context.Context, streamID string) (StreamHead, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildStreamHeadQuery(s.builder(), s.storeID, streamID)
	if err != nil {
		return StreamHead{}, err
	}

	var head StreamHead
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&head.Version, &head.StreamSeq); err != nil {
		log.Err(err).Str("func", "sqlEventStorage.GetStreamHead").Str("stream_id", streamID).Msg("failed to query stream head")
		return StreamHead{}, fmt.Errorf("%w: stream head %s: %w", ErrExecutingQuery, streamID, err)
	}

	return head, nil
}

func (s *sqlEventStorage) SaveRemoteEvents(ctx context.Context, rows ...models.EventLogRow) error {
	if len(rows) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "sqlEventStorage.SaveRemoteEvents").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for start := 0; start < len(rows); start += insertChunkSize {
		end := min(start+insertChunkSize, len(rows))

		chunk := make([]models.EventLogRow, 0, end-start)
		for _, row := range rows[start:end] {
			row.Synced = true
			chunk = append(chunk, row)
		}

		query, args, err := buildInsertEventsQuery(s.builder(), s.storeID, true, chunk...)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "sqlEventStorage.SaveRemoteEvents").
				Int("batch_size", len(chunk)).
				Msg("failed to insert remote events")
			return fmt.Errorf("%w: insert remote events: %w", ErrExecutingStatement, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "sqlEventStorage.SaveRemoteEvents").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (s *sqlEventStorage) GetSyncMetadata(ctx context.Context, key string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetMetadataQuery(s.builder(), s.storeID, key)
	if err != nil {
		return "", err
	}

	var value string
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrMetadataNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "sqlEventStorage.GetSyncMetadata").Str("key", key).Msg("failed to read sync metadata")
		return "", fmt.Errorf("%w: sync metadata %s: %w", ErrExecutingQuery, key, err)
	}

	return value, nil
}

func (s *sqlEventStorage) SetSyncMetadata(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildSetMetadataQuery(s.builder(), s.storeID, key, value, time.Now().UnixMilli())
	if err != nil {
		return err
	}

	err = s.withRetry(ctx, func(ctx context.Context) error {
		_, execErr := s.DB.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "sqlEventStorage.SetSyncMetadata").Str("key", key).Msg("failed to write sync metadata")
		return fmt.Errorf("%w: sync metadata %s: %w", ErrExecutingStatement, key, err)
	}

	return nil
}

func (s *sqlEventStorage) Close() error {
	return s.DB.Close()
}

func (s *sqlEventStorage) queryCount(ctx context.Context, funcName, query string, args ...any) (int, error) {
	var count int
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("failed to execute count query")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return count, nil
}

func (s *sqlEventStorage) queryRows(ctx context.Context, funcName, query string, args ...any) ([]models.EventLogRow, error) {
	log := logger.FromContext(ctx)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	result := make([]models.EventLogRow, 0)
	for rows.Next() {
		row, scanErr := scanEventRow(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", funcName).Msg("failed to scan event row")
			return nil, scanErr
		}
		result = append(result, row)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", funcName).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEventRow(scanner rowScanner) (models.EventLogRow, error) {
	var (
		row         models.EventLogRow
		data        []byte
		metadata    sql.NullString
		timestampMs int64
	)

	err := scanner.Scan(
		&row.ID,
		&row.StreamID,
		&row.AggregateID,
		&row.AggregateType,
		&row.EventType,
		&data,
		&metadata,
		&timestampMs,
		&row.Version,
		&row.CorrelationID,
		&row.CausationID,
		&row.ProducerID,
		&row.Lamport,
		&row.StreamSeq,
		&row.Hash,
		&row.Synced,
	)
	if err != nil {
		return models.EventLogRow{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	row.EventData = json.RawMessage(data)
	row.Timestamp = time.UnixMilli(timestampMs).UTC()

	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &row.Metadata); err != nil {
			return models.EventLogRow{}, fmt.Errorf("%w: metadata of %s: %w", ErrDecodingRow, row.ID, err)
		}
	}

	return row, nil
}
