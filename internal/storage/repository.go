package storage

import "context"

// Table is a primary-key indexed collection of records of one type.
//
// There is no secondary indexing: any lookup other than by id is a full scan
// over Values. Absence is reported through the boolean results, never as an
// error; errors are storage faults only.
type Table[T any] interface {
	// Insert upserts record under id and returns the stored record. Replacing
	// an existing record keeps its position in iteration order.
	Insert(ctx context.Context, id string, record T) (T, error)
	Get(ctx context.Context, id string) (T, bool, error)
	// Remove deletes the record and returns it when it was present.
	Remove(ctx context.Context, id string) (T, bool, error)
	// Values returns a snapshot of all records in first-insertion order.
	Values(ctx context.Context) ([]T, error)
}
