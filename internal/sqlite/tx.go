package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mesh-intelligence/navtree/pkg/types"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in one write transaction. Any error rolls the whole
// transaction back. A transaction that lost a lock race is retried up to
// maxRetries times before it is reported.
func (b *Backend) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	db, _, err := b.handles()
	if err != nil {
		return err
	}

	start := time.Now()
	err = b.retryTx(ctx, db, op, fn)
	b.metrics.observe(op, start, err)
	return err
}

func (b *Backend) retryTx(ctx context.Context, db *sql.DB, op string, fn func(tx *sql.Tx) error) error {
	for attempt := 1; ; attempt++ {
		err := runTx(ctx, db, fn)
		if err == nil {
			return nil
		}
		if !isBusy(err) || attempt > b.maxRetries {
			return classify(err)
		}

		b.metrics.retries.WithLabelValues(op).Inc()
		b.logger.Warn("transaction lost lock race, retrying",
			"op", op, "attempt", attempt, "err", err)

		select {
		case <-ctx.Done():
			return classify(ctx.Err())
		case <-time.After(time.Duration(attempt) * b.retryDelay):
		}
	}
}

// withReadTx runs fn in one deferred transaction on the query-only reader
// pool so multi-statement reads see a single snapshot.
func (b *Backend) withReadTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	_, rdb, err := b.handles()
	if err != nil {
		return err
	}
	return classify(runTx(ctx, rdb, fn))
}

func runTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// checkpoint marks a step inside a mutation. It returns the injected
// fault for that step, if any.
func (b *Backend) checkpoint(step string) error {
	if b.fault == nil {
		return nil
	}
	if err := b.fault(step); err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	return nil
}

// classify leaves domain errors untouched and marks everything else as a
// backend failure.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case types.IsUserError(err),
		errors.Is(err, types.ErrBackendFailure),
		errors.Is(err, types.ErrInvariantViolated),
		errors.Is(err, types.ErrEngineDetached):
		return err
	default:
		return fmt.Errorf("%w: %w", types.ErrBackendFailure, err)
	}
}

// isBusy reports whether err is SQLITE_BUSY or SQLITE_LOCKED, including
// their extended codes.
func isBusy(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}
