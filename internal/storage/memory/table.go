package memory

import (
	"context"
	"sync"
)

// Table is an in-process storage.Table that keeps first-insertion order.
// Stored records are copied on the way in and out through clone, so callers
// never share mutable state with the table.
type Table[T any] struct {
	mu      sync.RWMutex
	records map[string]T
	order   []string
	clone   func(T) T
}

// NewTable returns an empty table. clone may be nil for value types without
// reference fields.
func NewTable[T any](clone func(T) T) *Table[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Table[T]{records: make(map[string]T), clone: clone}
}

func (t *Table[T]) Insert(ctx context.Context, id string, record T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.records[id]; !exists {
		t.order = append(t.order, id)
	}
	t.records[id] = t.clone(record)
	return t.clone(record), nil
}

func (t *Table[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	record, ok := t.records[id]
	if !ok {
		return zero, false, nil
	}
	return t.clone(record), true, nil
}

func (t *Table[T]) Remove(ctx context.Context, id string) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	record, ok := t.records[id]
	if !ok {
		return zero, false, nil
	}
	delete(t.records, id)
	for i, key := range t.order {
		if key == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return record, true, nil
}

func (t *Table[T]) Values(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.clone(t.records[id]))
	}
	return out, nil
}

// Len reports the number of stored records.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}
