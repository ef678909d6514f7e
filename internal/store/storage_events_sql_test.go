package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/migrations"
	"github.com/MKhiriev/go-event-sync/models"
)

var selectEventsSQL = `SELECT ` + strings.Join(eventColumns, ", ") + ` FROM event_log`

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newPostgresStorage(t *testing.T) (Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newTestDB(t)
	return NewSQLEventStorage(NewDB(db, migrations.DialectPostgres, logger.Nop()), "store-a", logger.Nop()), mock
}

func eventRowValues(id string, lamport int64, synced bool) []driver.Value {
	row := newRow(id, "dev-a", lamport, lamport)
	return []driver.Value{
		row.ID, row.StreamID, row.AggregateID, row.AggregateType, row.EventType,
		[]byte(row.EventData), `{"source":"pos"}`, row.Timestamp.UnixMilli(), row.Version,
		"", "", row.ProducerID, row.Lamport, row.StreamSeq, row.Hash, synced,
	}
}

func TestSQLStorage_CreateEvent(t *testing.T) {
	tests := []struct {
		name    string
		execErr []error
		wantErr bool
	}{
		{name: "success"},
		{
			name:    "serialization failure is retried",
			execErr: []error{&pgconn.PgError{Code: pgerrcode.SerializationFailure}},
		},
		{
			name:    "constraint violation is returned",
			execErr: []error{&pgconn.PgError{Code: pgerrcode.NotNullViolation}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newPostgresStorage(t)
			insert := regexp.QuoteMeta(`INSERT INTO event_log (store_id,` + strings.Join(eventColumns, ",") + `) VALUES ($1,$2,`)

			for _, e := range tt.execErr {
				mock.ExpectExec(insert).WillReturnError(e)
			}
			if !tt.wantErr {
				mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := s.CreateEvent(testContext(), newRow("e1", "dev-a", 1, 1))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrExecutingStatement)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLStorage_GetPendingEvents(t *testing.T) {
	s, mock := newPostgresStorage(t)

	rows := sqlmock.NewRows(eventColumns).
		AddRow(eventRowValues("e1", 1, false)...).
		AddRow(eventRowValues("e2", 2, false)...)

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL + ` WHERE store_id = $1 AND synced = $2 ORDER BY producer_id, lamport, id`)).
		WithArgs("store-a", false).
		WillReturnRows(rows)

	pending, err := s.GetPendingEvents(testContext())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "e1", pending[0].ID)
	assert.Equal(t, "pos", pending[0].Metadata["source"])
	assert.JSONEq(t, `{"total":10}`, string(pending[1].EventData))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_GetPendingEventsQueryError(t *testing.T) {
	s, mock := newPostgresStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL)).WillReturnError(errors.New("boom"))

	_, err := s.GetPendingEvents(testContext())
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestSQLStorage_GetPendingEventsBadMetadata(t *testing.T) {
	s, mock := newPostgresStorage(t)

	values := eventRowValues("e1", 1, false)
	values[6] = `{not json`
	mock.ExpectQuery(regexp.QuoteMeta(selectEventsSQL)).
		WillReturnRows(sqlmock.NewRows(eventColumns).AddRow(values...))

	_, err := s.GetPendingEvents(testContext())
	assert.ErrorIs(t, err, ErrDecodingRow)
}

func TestSQLStorage_MarkEventAsSynced(t *testing.T) {
	s, mock := newPostgresStorage(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE event_log SET synced = $1 WHERE store_id = $2 AND id = $3`)).
		WithArgs(true, "store-a", "e1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.MarkEventAsSynced(testContext(), "e1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStorage_HasEvent(t *testing.T) {
	s, mock := newPostgresStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM event_log WHERE store_id = $1 AND id = $2`)).
		WithArgs("store-a", "e1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := s.HasEvent(testContext(), "e1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLStorage_SaveRemoteEvents(t *testing.T) {
	t.Run("commits one insert per chunk", func(t *testing.T) {
		s, mock := newPostgresStorage(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO event_log`)).WillReturnResult(sqlmock.NewResult(0, insertChunkSize))
		mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (store_id, id) DO UPDATE SET synced = excluded.synced`)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		events := make([]models.EventLogRow, 0, insertChunkSize+1)
		for i := range insertChunkSize + 1 {
			events = append(events, newRow(fmt.Sprintf("e%03d", i), "dev-b", int64(i+1), int64(i+1)))
		}

		require.NoError(t, s.SaveRemoteEvents(testContext(), events...))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		s, mock := newPostgresStorage(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO event_log`)).WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		err := s.SaveRemoteEvents(testContext(), newRow("e1", "dev-b", 1, 1))
		assert.ErrorIs(t, err, ErrExecutingStatement)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		s, mock := newPostgresStorage(t)

		mock.ExpectBegin().WillReturnError(errors.New("boom"))

		err := s.SaveRemoteEvents(testContext(), newRow("e1", "dev-b", 1, 1))
		assert.ErrorIs(t, err, ErrBeginningTransaction)
	})
}

func TestSQLStorage_GetStreamHead(t *testing.T) {
	s, mock := newPostgresStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(version), 0), COALESCE(MAX(stream_seq), 0) FROM event_log WHERE store_id = $1 AND stream_id = $2`)).
		WithArgs("store-a", "order-42").
		WillReturnRows(sqlmock.NewRows([]string{"version", "seq"}).AddRow(7, 9))

	head, err := s.GetStreamHead(testContext(), "order-42")
	require.NoError(t, err)
	assert.Equal(t, StreamHead{Version: 7, StreamSeq: 9}, head)
}

func TestSQLStorage_SyncMetadata(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		s, mock := newPostgresStorage(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT meta_value FROM sync_metadata WHERE store_id = $1 AND meta_key = $2`)).
			WithArgs("store-a", "cursor").
			WillReturnError(sql.ErrNoRows)

		_, err := s.GetSyncMetadata(testContext(), "cursor")
		assert.ErrorIs(t, err, ErrMetadataNotFound)
	})

	t.Run("found", func(t *testing.T) {
		s, mock := newPostgresStorage(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT meta_value FROM sync_metadata`)).
			WillReturnRows(sqlmock.NewRows([]string{"meta_value"}).AddRow("c1"))

		value, err := s.GetSyncMetadata(testContext(), "cursor")
		require.NoError(t, err)
		assert.Equal(t, "c1", value)
	})

	t.Run("upsert", func(t *testing.T) {
		s, mock := newPostgresStorage(t)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sync_metadata (store_id,meta_key,meta_value,updated_at_ms) VALUES ($1,$2,$3,$4) ON CONFLICT (store_id, meta_key)`)).
			WithArgs("store-a", "cursor", "c2", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.SetSyncMetadata(testContext(), "cursor", "c2"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
