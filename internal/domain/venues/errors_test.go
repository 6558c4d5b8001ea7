package venues

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesByCode(t *testing.T) {
	specific := ErrVenueNotFound.with("venue with id=%s does not exist", "V1")

	assert.ErrorIs(t, specific, ErrVenueNotFound)
	assert.ErrorIs(t, specific, ErrNotFound)
	assert.NotErrorIs(t, specific, ErrEventNotFound)
	assert.NotErrorIs(t, specific, ErrConflict)
	assert.Equal(t, "venue with id=V1 does not exist", specific.Error())
	assert.Equal(t, "venue does not exist", ErrVenueNotFound.Error())
}

func TestStorageErrorWrapsCause(t *testing.T) {
	cause := errors.New("disk on fire")
	err := storageError("save venue", cause)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "save venue: disk on fire", err.Error())
}

func TestEveryErrorHasOneKind(t *testing.T) {
	all := []*Error{
		ErrVenueNotFound, ErrEventNotFound, ErrVenueFull, ErrVenueHasEvents,
		ErrEventNotInVenue, ErrAlreadyScheduledHere, ErrAlreadyScheduledElsewhere,
		ErrEventScheduled, ErrNotScheduled, ErrStatusManaged, ErrEventIDInUse, ErrUnschedulePending,
		ErrMembershipLost, ErrStorage,
	}
	for _, e := range all {
		matched := 0
		for _, kind := range []error{ErrNotFound, ErrConflict, ErrInternal} {
			if errors.Is(e, kind) {
				matched++
			}
		}
		assert.Equal(t, 1, matched, e.Code)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "invalid name: is required", ValidationError{Field: "name", Message: "is required"}.Error())
	assert.Equal(t, "bad body", ValidationError{Message: "bad body"}.Error())
}
