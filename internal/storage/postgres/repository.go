package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/Togather-Foundation/venues/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	venuesTable = "venues"
	eventsTable = "events"
)

// Repository implements venues.Repository with a PostgreSQL backend.
type Repository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Venues() storage.Table[venues.Venue] {
	return &Table[venues.Venue]{name: venuesTable, pool: r.pool, tx: r.tx}
}

func (r *Repository) Events() storage.Table[venues.Event] {
	return &Table[venues.Event]{name: eventsTable, pool: r.pool, tx: r.tx}
}

// sqlStateSerializationFailure is the SQLSTATE of serialization_failure.
const sqlStateSerializationFailure = "40001"

// maxTxAttempts bounds how often WithTx reruns fn after a serialization
// failure.
const maxTxAttempts = 3

// WithTx runs fn in a SERIALIZABLE transaction so the event and venue writes
// of one operation commit together, even when several processes share the
// database. A transaction aborted by a serialization conflict is retried from
// the start. Nested calls reuse the open transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, venues.Repository) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = r.runTx(ctx, fn)
		if !isSerializationFailure(err) {
			return err
		}
	}
	return err
}

func (r *Repository) runTx(ctx context.Context, fn func(context.Context, venues.Repository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	wrapped := &Repository{pool: r.pool, tx: tx}
	if err := fn(ctx, wrapped); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// isSerializationFailure reports whether err carries SQLSTATE 40001.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateSerializationFailure
}

// Ping checks database connectivity for readiness probes.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
