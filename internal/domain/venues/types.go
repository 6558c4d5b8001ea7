package venues

import (
	"context"
	"slices"
	"time"

	"github.com/Togather-Foundation/venues/internal/storage"
)

// MaxEventsPerVenue bounds how many events a venue can hold at once.
const MaxEventsPerVenue = 5

// Status is the scheduling state of an event.
type Status string

const (
	StatusScheduled   Status = "Scheduled"
	StatusUnscheduled Status = "Unscheduled"
)

func (s Status) Valid() bool {
	return s == StatusScheduled || s == StatusUnscheduled
}

// Venue holds references to the events scheduled into it, by id.
type Venue struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	EventIDs  []string   `json:"event_ids"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Holds reports whether eventID is in the venue's event list.
func (v Venue) Holds(eventID string) bool {
	return slices.Contains(v.EventIDs, eventID)
}

// Full reports whether the venue is at capacity.
func (v Venue) Full() bool {
	return len(v.EventIDs) >= MaxEventsPerVenue
}

func (v Venue) Clone() Venue {
	cp := v
	cp.EventIDs = append(make([]string, 0, len(v.EventIDs)), v.EventIDs...)
	if v.UpdatedAt != nil {
		at := *v.UpdatedAt
		cp.UpdatedAt = &at
	}
	return cp
}

// Event does not record which venue holds it; membership is derived by
// scanning venues (see Service.FindVenueOfEvent).
type Event struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Organizer   string     `json:"organizer"`
	Price       float64    `json:"price"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func (e Event) Scheduled() bool {
	return e.Status == StatusScheduled
}

func (e Event) Clone() Event {
	cp := e
	if e.UpdatedAt != nil {
		at := *e.UpdatedAt
		cp.UpdatedAt = &at
	}
	return cp
}

// Repository is the pair of keyed tables backing the engine.
type Repository interface {
	Venues() storage.Table[Venue]
	Events() storage.Table[Event]

	// WithTx runs fn against a repository whose writes commit together when
	// the backend supports it. Backends without transactions run fn directly.
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
}
