package memory

import (
	"context"
	"testing"

	"github.com/Togather-Foundation/venues/internal/domain/venues"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableInsertKeepsFirstInsertionOrder(t *testing.T) {
	ctx := context.Background()
	table := NewTable[string](nil)

	for _, id := range []string{"c", "a", "b"} {
		_, err := table.Insert(ctx, id, "v-"+id)
		require.NoError(t, err)
	}
	_, err := table.Insert(ctx, "a", "replaced")
	require.NoError(t, err)

	values, err := table.Values(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"v-c", "replaced", "v-b"}, values)
	assert.Equal(t, 3, table.Len())
}

func TestTableGetAndRemove(t *testing.T) {
	ctx := context.Background()
	table := NewTable[int](nil)

	_, ok, err := table.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = table.Insert(ctx, "one", 1)
	require.NoError(t, err)
	_, err = table.Insert(ctx, "two", 2)
	require.NoError(t, err)

	got, ok, err := table.Get(ctx, "one")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, got)

	removed, ok, err := table.Remove(ctx, "one")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, removed)

	_, ok, err = table.Remove(ctx, "one")
	require.NoError(t, err)
	assert.False(t, ok)

	values, err := table.Values(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, values)
}

func TestTableHasNoAliasing(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	venue := venues.Venue{ID: "v1", Name: "Hall", EventIDs: []string{"e1"}}
	_, err := repo.Venues().Insert(ctx, venue.ID, venue)
	require.NoError(t, err)

	venue.EventIDs[0] = "mutated"

	stored, ok, err := repo.Venues().Get(ctx, "v1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"e1"}, stored.EventIDs)

	stored.EventIDs = append(stored.EventIDs, "e2")
	again, _, err := repo.Venues().Get(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1"}, again.EventIDs)
}

func TestTableHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	table := NewTable[int](nil)
	_, err := table.Insert(ctx, "x", 1)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = table.Values(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
