package store

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-event-sync/internal/logger"
	"github.com/MKhiriev/go-event-sync/migrations"
)

const (
	transientRetries    = 3
	transientRetryDelay = 50 * time.Millisecond
)

// DB wraps a *sql.DB with the dialect it speaks and the classifier used to
// decide whether a failed statement is worth repeating.
type DB struct {
	*sql.DB
	dialect            string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// NewDB wraps an already opened connection. dialect is one of
// migrations.DialectSQLite or migrations.DialectPostgres.
func NewDB(conn *sql.DB, dialect string, log *logger.Logger) *DB {
	db := &DB{
		DB:      conn,
		dialect: dialect,
		logger:  log,
	}

	switch dialect {
	case migrations.DialectPostgres:
		db.errorClassificator = NewPostgresErrorClassifier()
	default:
		db.errorClassificator = NewSQLiteErrorClassifier()
	}

	return db
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// builder returns a squirrel statement builder with the dialect's
// placeholder format.
func (db *DB) builder() sq.StatementBuilderType {
	if db.dialect == migrations.DialectPostgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// withRetry runs fn and repeats it a few times while the classifier reports
// a transient failure (lock contention, serialization failure, lost
// connection).
func (db *DB) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(transientRetries, retry.NewConstant(transientRetryDelay))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable {
			db.logger.Warn().Err(err).Str("func", "DB.withRetry").Msg("transient database error, retrying")
			return retry.RetryableError(err)
		}
		return err
	})
}
