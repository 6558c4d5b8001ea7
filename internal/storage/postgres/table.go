package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Togather-Foundation/venues/internal/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Table stores records of one type as JSONB documents keyed by id.
// Iteration order is the order ids were first inserted (the seq column).
type Table[T any] struct {
	name string
	pool *pgxpool.Pool
	tx   pgx.Tx
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (t *Table[T]) queryer() queryer {
	if t.tx != nil {
		return t.tx
	}
	return t.pool
}

func (t *Table[T]) Insert(ctx context.Context, id string, record T) (_ T, err error) {
	defer t.observe("upsert", time.Now(), &err)

	var zero T
	body, err := json.Marshal(record)
	if err != nil {
		return zero, fmt.Errorf("encode %s record: %w", t.name, err)
	}

	query := fmt.Sprintf(`
INSERT INTO %s (id, body)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body
RETURNING body`, t.name)

	var stored []byte
	if err := t.queryer().QueryRow(ctx, query, id, body).Scan(&stored); err != nil {
		return zero, fmt.Errorf("upsert %s %s: %w", t.name, id, err)
	}
	return t.decode(stored)
}

func (t *Table[T]) Get(ctx context.Context, id string) (T, bool, error) {
	query := fmt.Sprintf(`SELECT body FROM %s WHERE id = $1`, t.name)
	return t.one(ctx, "get", query, id)
}

func (t *Table[T]) Remove(ctx context.Context, id string) (T, bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING body`, t.name)
	return t.one(ctx, "delete", query, id)
}

func (t *Table[T]) Values(ctx context.Context) (_ []T, err error) {
	defer t.observe("scan", time.Now(), &err)

	query := fmt.Sprintf(`SELECT body FROM %s ORDER BY seq`, t.name)

	rows, err := t.queryer().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.name, err)
	}
	bodies, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.name, err)
	}

	out := make([]T, 0, len(bodies))
	for _, body := range bodies {
		record, err := t.decode(body)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func (t *Table[T]) one(ctx context.Context, verb, query, id string) (_ T, _ bool, err error) {
	defer t.observe(verb, time.Now(), &err)

	var zero T
	var stored []byte
	err = t.queryer().QueryRow(ctx, query, id).Scan(&stored)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("%s %s %s: %w", verb, t.name, id, err)
	}
	record, err := t.decode(stored)
	if err != nil {
		return zero, false, err
	}
	return record, true, nil
}

func (t *Table[T]) observe(verb string, start time.Time, err *error) {
	metrics.RecordQuery(t.name+"_"+verb, start, *err)
}

func (t *Table[T]) decode(body []byte) (T, error) {
	var record T
	if err := json.Unmarshal(body, &record); err != nil {
		return record, fmt.Errorf("decode %s record: %w", t.name, err)
	}
	return record, nil
}
