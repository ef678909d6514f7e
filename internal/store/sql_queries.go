// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-event-sync/models"
)

const (
	eventLogTable     = "event_log"
	syncMetadataTable = "sync_metadata"

	// rows per multi-row INSERT, keeps the statement under SQLite's
	// host parameter limit
	insertChunkSize = 50
)

var eventColumns = []string{
	"id",
	"stream_id",
	"aggregate_id",
	"aggregate_type",
	"event_type",
	"event_data",
	"metadata",
	"timestamp_ms",
	"version",
	"correlation_id",
	"causation_id",
	"producer_id",
	"lamport",
	"stream_seq",
	"hash",
	"synced",
}

// buildInsertEventsQuery builds a multi-row INSERT for rows.
// With upsertSynced a conflicting id is marked synced; otherwise it is left
// untouched.
func buildInsertEventsQuery(b sq.StatementBuilderType, storeID string, upsertSynced bool, rows ...models.EventLogRow) (string, []any, error) {
	insert := b.Insert(eventLogTable).Columns(append([]string{"store_id"}, eventColumns...)...)

	for _, row := range rows {
		values, err := eventValues(row)
		if err != nil {
			return "", nil, err
		}
		insert = insert.Values(append([]any{storeID}, values...)...)
	}

	if upsertSynced {
		insert = insert.Suffix("ON CONFLICT (store_id, id) DO UPDATE SET synced = excluded.synced")
	} else {
		insert = insert.Suffix("ON CONFLICT (store_id, id) DO NOTHING")
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func eventValues(row models.EventLogRow) ([]any, error) {
	if row.ID == "" {
		return nil, ErrEmptyEventID
	}

	var metadata any
	if len(row.Metadata) > 0 {
		raw, err := json.Marshal(row.Metadata)
		if err != nil {
			return nil, fmt.Errorf("error encoding metadata of event %s: %w", row.ID, err)
		}
		metadata = string(raw)
	}

	data := string(row.EventData)
	if data == "" {
		data = "null"
	}

	return []any{
		row.ID,
		row.StreamID,
		row.AggregateID,
		row.AggregateType,
		row.EventType,
		data,
		metadata,
		row.Timestamp.UnixMilli(),
		row.Version,
		row.CorrelationID,
		row.CausationID,
		row.ProducerID,
		row.Lamport,
		row.StreamSeq,
		row.Hash,
		row.Synced,
	}, nil
}

func buildSelectPendingQuery(b sq.StatementBuilderType, storeID string) (string, []any, error) {
	query, args, err := b.Select(eventColumns...).
		From(eventLogTable).
		Where(sq.Eq{"store_id": storeID}).
		Where(sq.Eq{"synced": false}).
		OrderBy("producer_id", "lamport", "id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectStreamQuery(b sq.StatementBuilderType, storeID, streamID string) (string, []any, error) {
	query, args, err := b.Select(eventColumns...).
		From(eventLogTable).
		Where(sq.Eq{"store_id": storeID}).
		Where(sq.Eq{"stream_id": streamID}).
		OrderBy("stream_seq", "lamport", "id").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildStreamHeadQuery(b sq.StatementBuilderType, storeID, streamID string) (string, []any, error) {
	query, args, err := b.Select("COALESCE(MAX(version), 0)", "COALESCE(MAX(stream_seq), 0)").
		From(eventLogTable).
		Where(sq.Eq{"store_id": storeID}).
		Where(sq.Eq{"stream_id": streamID}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildMarkSyncedQuery(b sq.StatementBuilderType, storeID, id string) (string, []any, error) {
	query, args, err := b.Update(eventLogTable).
		Set("synced", true).
		Where(sq.Eq{"store_id": storeID}).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildCountEventQuery(b sq.StatementBuilderType, storeID, id string) (string, []any, error) {
	query, args, err := b.Select("COUNT(*)").
		From(eventLogTable).
		Where(sq.Eq{"store_id": storeID}).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildCountPendingQuery(b sq.StatementBuilderType, storeID string) (string, []any, error) {
	query, args, err := b.Select("COUNT(*)").
		From(eventLogTable).
		Where(sq.Eq{"store_id": storeID}).
		Where(sq.Eq{"synced": false}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildGetMetadataQuery(b sq.StatementBuilderType, storeID, key string) (string, []any, error) {
	query, args, err := b.Select("meta_value").
		From(syncMetadataTable).
		Where(sq.Eq{"store_id": storeID}).
		Where(sq.Eq{"meta_key": key}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSetMetadataQuery(b sq.StatementBuilderType, storeID, key, value string, updatedAtMs int64) (string, []any, error) {
	query, args, err := b.Insert(syncMetadataTable).
		Columns("store_id", "meta_key", "meta_value", "updated_at_ms").
		Values(storeID, key, value, updatedAtMs).
		Suffix("ON CONFLICT (store_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value, updated_at_ms = excluded.updated_at_ms").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
