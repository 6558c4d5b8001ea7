package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRoundTripAndOrder(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()

	repo, err := NewRepository(pool)
	require.NoError(t, err)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, id := range []string{"V2", "V1", "V3"} {
		_, err := repo.Venues().Insert(ctx, id, venues.Venue{ID: id, Name: "Venue " + id, EventIDs: []string{}, CreatedAt: created})
		require.NoError(t, err)
	}

	updated, err := repo.Venues().Insert(ctx, "V1", venues.Venue{ID: "V1", Name: "Renamed", EventIDs: []string{"E1"}, CreatedAt: created})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	got, ok, err := repo.Venues().Get(ctx, "V1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"E1"}, got.EventIDs)
	assert.True(t, created.Equal(got.CreatedAt))

	all, err := repo.Venues().Values(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "V2", all[0].ID)
	assert.Equal(t, "V1", all[1].ID)
	assert.Equal(t, "V3", all[2].ID)

	removed, ok, err := repo.Venues().Remove(ctx, "V2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Venue V2", removed.Name)

	_, ok, err = repo.Venues().Get(ctx, "V2")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = repo.Venues().Remove(ctx, "V2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()

	repo, err := NewRepository(pool)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = repo.WithTx(ctx, func(ctx context.Context, tx venues.Repository) error {
		if _, err := tx.Events().Insert(ctx, "E1", venues.Event{ID: "E1", Name: "Show", Status: venues.StatusScheduled}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, ok, err := repo.Events().Get(ctx, "E1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsSerializationFailure(t *testing.T) {
	conflict := &pgconn.PgError{Code: sqlStateSerializationFailure}
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"serialization failure", conflict, true},
		{"wrapped at commit", fmt.Errorf("commit tx: %w", conflict), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSerializationFailure(tt.err))
		})
	}
}

func TestWithTxRetriesSerializationFailures(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()

	repo, err := NewRepository(pool)
	require.NoError(t, err)

	attempts := 0
	err = repo.WithTx(ctx, func(ctx context.Context, tx venues.Repository) error {
		attempts++
		if _, err := tx.Events().Insert(ctx, "E1", venues.Event{ID: "E1", Name: "Show", Status: venues.StatusUnscheduled}); err != nil {
			return err
		}
		if attempts == 1 {
			return fmt.Errorf("upsert events E1: %w", &pgconn.PgError{Code: sqlStateSerializationFailure})
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	_, ok, err := repo.Events().Get(ctx, "E1")
	require.NoError(t, err)
	assert.True(t, ok)

	attempts = 0
	err = repo.WithTx(ctx, func(ctx context.Context, tx venues.Repository) error {
		attempts++
		return &pgconn.PgError{Code: sqlStateSerializationFailure}
	})
	require.Error(t, err)
	assert.True(t, isSerializationFailure(err))
	assert.Equal(t, maxTxAttempts, attempts)
}

// Two services over one database stand in for two server processes, each
// with its own in-process lock.
func TestConcurrentProcessesScheduleEventOnce(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()

	first, err := NewRepository(pool)
	require.NoError(t, err)
	second, err := NewRepository(pool)
	require.NoError(t, err)
	svcA := venues.NewService(first)
	svcB := venues.NewService(second)

	for round := 0; round < 5; round++ {
		left, err := svcA.CreateVenue(ctx, venues.CreateVenueParams{Name: fmt.Sprintf("Left %d", round)})
		require.NoError(t, err)
		right, err := svcA.CreateVenue(ctx, venues.CreateVenueParams{Name: fmt.Sprintf("Right %d", round)})
		require.NoError(t, err)
		event, err := svcA.CreateEventInVenue(ctx, left.ID, venues.CreateEventParams{Name: "Contested"})
		require.NoError(t, err)
		_, err = svcA.Unschedule(ctx, left.ID, event.ID)
		require.NoError(t, err)

		start := make(chan struct{})
		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i, run := range []func() error{
			func() error { _, err := svcA.Schedule(ctx, left.ID, event.ID); return err },
			func() error { _, err := svcB.Schedule(ctx, right.ID, event.ID); return err },
		} {
			wg.Add(1)
			go func(i int, run func() error) {
				defer wg.Done()
				<-start
				errs[i] = run()
			}(i, run)
		}
		close(start)
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			}
		}
		assert.Equal(t, 1, succeeded, "round %d: %v", round, errs)

		report, err := svcB.Audit(ctx)
		require.NoError(t, err)
		require.True(t, report.Healthy(), "round %d: %+v", round, report.Violations)
	}
}

func TestServiceOverPostgres(t *testing.T) {
	pool, _ := setupPostgres(t)
	ctx := context.Background()

	repo, err := NewRepository(pool)
	require.NoError(t, err)
	svc := venues.NewService(repo)

	venue, err := svc.CreateVenue(ctx, venues.CreateVenueParams{Name: "Lee's Palace"})
	require.NoError(t, err)
	event, err := svc.CreateEventInVenue(ctx, venue.ID, venues.CreateEventParams{Name: "Opening Night", Price: 12.5})
	require.NoError(t, err)

	holder, err := svc.FindVenueOfEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, venue.ID, holder)

	_, err = svc.Unschedule(ctx, venue.ID, event.ID)
	require.NoError(t, err)

	report, err := svc.Audit(ctx)
	require.NoError(t, err)
	assert.True(t, report.Healthy())
	assert.Equal(t, 1, report.Venues)
	assert.Equal(t, 1, report.Events)
}

func TestMigrationVersion(t *testing.T) {
	_, dbURL := setupPostgres(t)

	version, dirty, ok, err := MigrationVersion(dbURL, migrationsDir())
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}
