package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sethvargo/go-retry"
)

// NewDB creates a MySQL connection pool for the given DSN. The pool bounds
// concurrent in-flight store operations; exhaustion queues callers.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// WaitForDB pings the database with exponential backoff until it responds
// or the deadline passes. Applied at process start only — steady-state
// store errors surface directly to callers without retry.
func WaitForDB(ctx context.Context, db *sql.DB, maxWait time.Duration) error {
	backoff := retry.WithMaxDuration(maxWait, retry.NewExponential(time.Second))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			slog.Warn("database not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}
