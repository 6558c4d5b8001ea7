package venues_test

import (
	"context"
	"testing"

	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleElsewhereThenMove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	v1 := mustVenue(t, svc, "V1")
	v2 := mustVenue(t, svc, "V2")
	event := mustEvent(t, svc, v1.ID, "E")

	_, err := svc.Schedule(ctx, v2.ID, event.ID)
	require.ErrorIs(t, err, venues.ErrAlreadyScheduledElsewhere)
	assert.Contains(t, err.Error(), "already scheduled")

	placed, err := svc.Unschedule(ctx, v1.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, venues.StatusUnscheduled, placed.Event.Status)
	assert.Empty(t, placed.Venue.EventIDs)

	placed, err = svc.Schedule(ctx, v2.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, venues.StatusScheduled, placed.Event.Status)
	assert.Equal(t, []string{event.ID}, placed.Venue.EventIDs)
	require.NotNil(t, placed.Event.UpdatedAt)
	require.NotNil(t, placed.Venue.UpdatedAt)

	holder, err := svc.FindVenueOfEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, v2.ID, holder)
	requireHealthy(t, svc)
}

func TestScheduleRejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	venue := mustVenue(t, svc, "V")
	event := mustEvent(t, svc, venue.ID, "E")
	missing := "01HZZZZZZZZZZZZZZZZZZZZZZZ"

	_, err := svc.Schedule(ctx, venue.ID, event.ID)
	assert.ErrorIs(t, err, venues.ErrAlreadyScheduledHere)

	_, err = svc.Schedule(ctx, venue.ID, missing)
	assert.ErrorIs(t, err, venues.ErrEventNotFound)

	_, err = svc.Schedule(ctx, missing, event.ID)
	assert.ErrorIs(t, err, venues.ErrVenueNotFound)

	// Missing event is reported before missing venue.
	_, err = svc.Schedule(ctx, missing, missing)
	assert.ErrorIs(t, err, venues.ErrEventNotFound)
}

func TestScheduleEnforcesCapacity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	full := mustVenue(t, svc, "Full")
	for i := 0; i < venues.MaxEventsPerVenue; i++ {
		mustEvent(t, svc, full.ID, "Gig")
	}
	home := mustVenue(t, svc, "Home")
	event := mustEvent(t, svc, home.ID, "Wanderer")
	_, err := svc.Unschedule(ctx, home.ID, event.ID)
	require.NoError(t, err)

	_, err = svc.Schedule(ctx, full.ID, event.ID)
	require.ErrorIs(t, err, venues.ErrVenueFull)

	stored, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, venues.StatusUnscheduled, stored.Status)
	after, err := svc.GetVenue(ctx, full.ID)
	require.NoError(t, err)
	assert.Len(t, after.EventIDs, venues.MaxEventsPerVenue)
	requireHealthy(t, svc)
}

func TestScheduleThenUnscheduleRestoresOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	venue := mustVenue(t, svc, "V")
	a := mustEvent(t, svc, venue.ID, "A")
	b := mustEvent(t, svc, venue.ID, "B")
	c := mustEvent(t, svc, venue.ID, "C")

	other := mustVenue(t, svc, "Other")
	guest := mustEvent(t, svc, other.ID, "Guest")
	_, err := svc.Unschedule(ctx, other.ID, guest.ID)
	require.NoError(t, err)

	before, err := svc.GetVenue(ctx, venue.ID)
	require.NoError(t, err)

	_, err = svc.Schedule(ctx, venue.ID, guest.ID)
	require.NoError(t, err)
	placed, err := svc.Unschedule(ctx, venue.ID, guest.ID)
	require.NoError(t, err)

	assert.Equal(t, before.EventIDs, placed.Venue.EventIDs)
	assert.Equal(t, venues.StatusUnscheduled, placed.Event.Status)

	placed, err = svc.Unschedule(ctx, venue.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, c.ID}, placed.Venue.EventIDs)
	requireHealthy(t, svc)
}

func TestUnscheduleRejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v1 := mustVenue(t, svc, "V1")
	v2 := mustVenue(t, svc, "V2")
	event := mustEvent(t, svc, v1.ID, "E")
	missing := "01HZZZZZZZZZZZZZZZZZZZZZZZ"

	_, err := svc.Unschedule(ctx, v2.ID, event.ID)
	require.ErrorIs(t, err, venues.ErrEventNotInVenue)
	assert.ErrorIs(t, err, venues.ErrConflict)

	_, err = svc.Unschedule(ctx, missing, missing)
	require.ErrorIs(t, err, venues.ErrEventNotFound)
	assert.Contains(t, err.Error(), "does not exist")

	_, err = svc.Unschedule(ctx, missing, event.ID)
	assert.ErrorIs(t, err, venues.ErrVenueNotFound)

	stored, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, venues.StatusScheduled, stored.Status)
	requireHealthy(t, svc)
}
