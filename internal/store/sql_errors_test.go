package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassifier_Classify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil", err: nil, want: NonRetryable},
		{name: "plain error", err: errors.New("boom"), want: NonRetryable},
		{name: "serialization failure", err: &pgconn.PgError{Code: pgerrcode.SerializationFailure}, want: Retryable},
		{name: "deadlock", err: &pgconn.PgError{Code: pgerrcode.DeadlockDetected}, want: Retryable},
		{name: "connection failure", err: &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, want: Retryable},
		{name: "cannot connect now", err: &pgconn.PgError{Code: pgerrcode.CannotConnectNow}, want: Retryable},
		{name: "wrapped deadlock", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgerrcode.DeadlockDetected}), want: Retryable},
		{name: "unique violation", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: NonRetryable},
	}

	c := NewPostgresErrorClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func TestSQLiteErrorClassifier_Classify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: Retryable},
		{name: "locked", err: fmt.Errorf("wrap: %w", sqlite3.Error{Code: sqlite3.ErrLocked}), want: Retryable},
		{name: "constraint", err: sqlite3.Error{Code: sqlite3.ErrConstraint}, want: NonRetryable},
		{name: "plain error", err: errors.New("boom"), want: NonRetryable},
	}

	c := NewSQLiteErrorClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func Test_sqliteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", sqliteDSN("a.db"))
	assert.Equal(t, "a.db?mode=ro", sqliteDSN("a.db?mode=ro"))
}

func Test_pendingMember(t *testing.T) {
	row := newRow("e1", "dev-a", 12, 1)
	member := pendingMember(row)

	assert.Equal(t, "dev-a\x0000000000000000000012\x00e1", member)
	assert.Equal(t, "e1", idFromMember(member))
	assert.Less(t, pendingMember(newRow("z", "dev-a", 9, 1)), member)
}
