package venues_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/Togather-Foundation/venues/internal/storage"
	"github.com/Togather-Foundation/venues/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 19, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...venues.Option) (*venues.Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	opts = append([]venues.Option{venues.WithClock(func() time.Time { return fixedNow })}, opts...)
	return venues.NewService(repo, opts...), repo
}

func mustVenue(t *testing.T, svc *venues.Service, name string) venues.Venue {
	t.Helper()
	venue, err := svc.CreateVenue(context.Background(), venues.CreateVenueParams{Name: name})
	require.NoError(t, err)
	return venue
}

func mustEvent(t *testing.T, svc *venues.Service, venueID, name string) venues.Event {
	t.Helper()
	event, err := svc.CreateEventInVenue(context.Background(), venueID, venues.CreateEventParams{Name: name})
	require.NoError(t, err)
	return event
}

func requireHealthy(t *testing.T, svc *venues.Service) {
	t.Helper()
	report, err := svc.Audit(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.Violations)
}

// faultyRepo fails the next failVenueWrites venue upserts, simulating a crash
// between the event write and the venue write of one operation.
type faultyRepo struct {
	*memory.Repository
	mu              sync.Mutex
	failVenueWrites int
}

var errInjected = errors.New("injected write failure")

func (r *faultyRepo) Venues() storage.Table[venues.Venue] {
	return &faultyVenueTable{Table: r.Repository.Venues(), repo: r}
}

func (r *faultyRepo) WithTx(ctx context.Context, fn func(context.Context, venues.Repository) error) error {
	return fn(ctx, r)
}

func (r *faultyRepo) failNext(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failVenueWrites = n
}

type faultyVenueTable struct {
	storage.Table[venues.Venue]
	repo *faultyRepo
}

func (t *faultyVenueTable) Insert(ctx context.Context, id string, record venues.Venue) (venues.Venue, error) {
	t.repo.mu.Lock()
	fail := t.repo.failVenueWrites > 0
	if fail {
		t.repo.failVenueWrites--
	}
	t.repo.mu.Unlock()
	if fail {
		return venues.Venue{}, errInjected
	}
	return t.Table.Insert(ctx, id, record)
}

func TestObserverSeesEveryOperation(t *testing.T) {
	type call struct {
		op  string
		err error
	}
	var calls []call
	svc, _ := newTestService(t, venues.WithObserver(func(op string, err error) {
		calls = append(calls, call{op, err})
	}))
	ctx := context.Background()

	venue := mustVenue(t, svc, "Danforth Music Hall")
	_, err := svc.GetVenue(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	require.Error(t, err)
	_, err = svc.ListVenues(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteVenue(ctx, venue.ID))

	require.Len(t, calls, 4)
	assert.Equal(t, "create_venue", calls[0].op)
	assert.NoError(t, calls[0].err)
	assert.Equal(t, "get_venue", calls[1].op)
	assert.ErrorIs(t, calls[1].err, venues.ErrVenueNotFound)
	assert.Equal(t, "list_venues", calls[2].op)
	assert.Equal(t, "delete_venue", calls[3].op)
}

func TestConcurrentScheduleAdmitsOneWinner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	home := mustVenue(t, svc, "Home")
	event := mustEvent(t, svc, home.ID, "Floating Show")
	_, err := svc.Unschedule(ctx, home.ID, event.ID)
	require.NoError(t, err)

	targets := make([]venues.Venue, 8)
	for i := range targets {
		targets[i] = mustVenue(t, svc, "Target")
	}

	var wg sync.WaitGroup
	errs := make([]error, len(targets))
	for i, target := range targets {
		wg.Add(1)
		go func(i int, venueID string) {
			defer wg.Done()
			_, errs[i] = svc.Schedule(ctx, venueID, event.ID)
		}(i, target.ID)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, venues.ErrAlreadyScheduledElsewhere)
	}
	assert.Equal(t, 1, wins)
	requireHealthy(t, svc)
}
