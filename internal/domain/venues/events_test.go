package venues_test

import (
	"context"
	"testing"

	"github.com/Togather-Foundation/venues/internal/domain/ids"
	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestCreateEventInVenue(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	venue := mustVenue(t, svc, "Horseshoe")

	event, err := svc.CreateEventInVenue(ctx, venue.ID, venues.CreateEventParams{
		Name:        "Rock & Roll Revival",
		Description: `<p>Doors at <b>8</b><script>x()</script></p>`,
		Organizer:   "Collective Concerts",
		Price:       20,
	})
	require.NoError(t, err)

	assert.Equal(t, "Rock & Roll Revival", event.Name)
	assert.Equal(t, "<p>Doors at <b>8</b></p>", event.Description)
	assert.Equal(t, venues.StatusScheduled, event.Status)
	assert.Equal(t, fixedNow, event.CreatedAt)
	assert.Nil(t, event.UpdatedAt)

	after, err := svc.GetVenue(ctx, venue.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{event.ID}, after.EventIDs)
	require.NotNil(t, after.UpdatedAt)
}

func TestCreateEventInMissingVenue(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateEventInVenue(context.Background(), "01HZZZZZZZZZZZZZZZZZZZZZZZ", venues.CreateEventParams{Name: "Gig"})
	assert.ErrorIs(t, err, venues.ErrVenueNotFound)

	list, err := svc.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSixthEventIsRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	venue := mustVenue(t, svc, "V")

	for i := 0; i < venues.MaxEventsPerVenue; i++ {
		mustEvent(t, svc, venue.ID, "Gig")
	}

	_, err := svc.CreateEventInVenue(ctx, venue.ID, venues.CreateEventParams{Name: "Gig"})
	require.ErrorIs(t, err, venues.ErrVenueFull)
	assert.ErrorIs(t, err, venues.ErrConflict)
	assert.Contains(t, err.Error(), "venue is full")

	list, err := svc.ListEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, list, venues.MaxEventsPerVenue)
	requireHealthy(t, svc)
}

func TestCreateEventValidation(t *testing.T) {
	svc, _ := newTestService(t)
	venue := mustVenue(t, svc, "V")

	tests := []struct {
		name   string
		params venues.CreateEventParams
		field  string
	}{
		{name: "missing name", params: venues.CreateEventParams{}, field: "name"},
		{name: "negative price", params: venues.CreateEventParams{Name: "Gig", Price: -1}, field: "price"},
		{name: "bad id", params: venues.CreateEventParams{ID: "not-a-ulid", Name: "Gig"}, field: "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEventInVenue(context.Background(), venue.ID, tt.params)
			var verr venues.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreateEventWithCallerID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	venue := mustVenue(t, svc, "V")
	other := mustVenue(t, svc, "Other")

	id, err := ids.NewULID()
	require.NoError(t, err)

	first, err := svc.CreateEventInVenue(ctx, venue.ID, venues.CreateEventParams{ID: id, Name: "Gig"})
	require.NoError(t, err)
	assert.Equal(t, id, first.ID)

	replay, err := svc.CreateEventInVenue(ctx, venue.ID, venues.CreateEventParams{ID: id, Name: "Gig"})
	require.NoError(t, err)
	assert.Equal(t, first, replay)

	after, err := svc.GetVenue(ctx, venue.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, after.EventIDs)

	_, err = svc.CreateEventInVenue(ctx, other.ID, venues.CreateEventParams{ID: id, Name: "Gig"})
	assert.ErrorIs(t, err, venues.ErrEventIDInUse)

	_, err = svc.Unschedule(ctx, venue.ID, id)
	require.NoError(t, err)
	_, err = svc.CreateEventInVenue(ctx, venue.ID, venues.CreateEventParams{ID: id, Name: "Gig"})
	assert.ErrorIs(t, err, venues.ErrEventIDInUse)
	requireHealthy(t, svc)
}

func TestEditEvent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	venue := mustVenue(t, svc, "V")
	event, err := svc.CreateEventInVenue(ctx, venue.ID, venues.CreateEventParams{Name: "Gig", Organizer: "Org", Price: 10})
	require.NoError(t, err)

	edited, err := svc.EditEvent(ctx, event.ID, venues.EditEventParams{Name: ptr("Late Gig"), Price: ptr(15.0)})
	require.NoError(t, err)
	assert.Equal(t, "Late Gig", edited.Name)
	assert.Equal(t, 15.0, edited.Price)
	assert.Equal(t, "Org", edited.Organizer)
	assert.Equal(t, venues.StatusScheduled, edited.Status)
	require.NotNil(t, edited.UpdatedAt)

	t.Run("status is not editable", func(t *testing.T) {
		_, err := svc.EditEvent(ctx, event.ID, venues.EditEventParams{Status: ptr(venues.StatusUnscheduled)})
		require.ErrorIs(t, err, venues.ErrStatusManaged)

		stored, err := svc.GetEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, venues.StatusScheduled, stored.Status)
		requireHealthy(t, svc)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.EditEvent(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ", venues.EditEventParams{Name: ptr("x")})
		assert.ErrorIs(t, err, venues.ErrEventNotFound)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := svc.EditEvent(ctx, event.ID, venues.EditEventParams{Name: ptr("   ")})
		var verr venues.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "name", verr.Field)
	})
}

func TestDeleteEvent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	venue := mustVenue(t, svc, "V")
	event := mustEvent(t, svc, venue.ID, "Gig")

	err := svc.DeleteEvent(ctx, event.ID)
	require.ErrorIs(t, err, venues.ErrEventScheduled)
	assert.Contains(t, err.Error(), "remove the event from its venue first")

	stored, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, venues.StatusScheduled, stored.Status)
	after, err := svc.GetVenue(ctx, venue.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{event.ID}, after.EventIDs)

	_, err = svc.Unschedule(ctx, venue.ID, event.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteEvent(ctx, event.ID))

	_, err = svc.GetEvent(ctx, event.ID)
	assert.ErrorIs(t, err, venues.ErrEventNotFound)
	assert.ErrorIs(t, svc.DeleteEvent(ctx, event.ID), venues.ErrEventNotFound)
}
