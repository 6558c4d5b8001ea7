package memory

import (
	"context"

	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/Togather-Foundation/venues/internal/storage"
)

// Repository is the in-process backend for the venues engine. It has no
// transactions: WithTx runs fn directly and writes land as they are made.
type Repository struct {
	venues *Table[venues.Venue]
	events *Table[venues.Event]
}

func NewRepository() *Repository {
	return &Repository{
		venues: NewTable(venues.Venue.Clone),
		events: NewTable(venues.Event.Clone),
	}
}

func (r *Repository) Venues() storage.Table[venues.Venue] {
	return r.venues
}

func (r *Repository) Events() storage.Table[venues.Event] {
	return r.events
}

func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, venues.Repository) error) error {
	return fn(ctx, r)
}
