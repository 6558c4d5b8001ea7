package venues

import (
	"errors"
	"fmt"
)

// Error kinds. Every engine error matches exactly one of these with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInternal = errors.New("internal error")
)

// Error is a typed engine failure. Two Errors match under errors.Is when they
// share a Code, so callers can test for a specific failure regardless of the
// ids interpolated into Reason.
type Error struct {
	Kind   error
	Code   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrVenueNotFound = &Error{Kind: ErrNotFound, Code: "venue_not_found", Reason: "venue does not exist"}
	ErrEventNotFound = &Error{Kind: ErrNotFound, Code: "event_not_found", Reason: "event does not exist"}

	ErrVenueFull                 = &Error{Kind: ErrConflict, Code: "venue_full", Reason: "venue is full, please find another venue or create one"}
	ErrVenueHasEvents            = &Error{Kind: ErrConflict, Code: "venue_has_events", Reason: "venue has scheduled events, remove them before deletion"}
	ErrEventNotInVenue           = &Error{Kind: ErrConflict, Code: "event_not_in_venue", Reason: "event is not scheduled in venue"}
	ErrAlreadyScheduledHere      = &Error{Kind: ErrConflict, Code: "already_scheduled_here", Reason: "event is already scheduled in venue"}
	ErrAlreadyScheduledElsewhere = &Error{Kind: ErrConflict, Code: "already_scheduled_elsewhere", Reason: "event is already scheduled elsewhere"}
	ErrEventScheduled            = &Error{Kind: ErrConflict, Code: "event_scheduled", Reason: "remove the event from its venue first"}
	ErrNotScheduled              = &Error{Kind: ErrConflict, Code: "not_scheduled", Reason: "event is not scheduled anywhere"}
	ErrStatusManaged             = &Error{Kind: ErrConflict, Code: "status_managed", Reason: "status is managed by scheduling and cannot be edited"}
	ErrEventIDInUse              = &Error{Kind: ErrConflict, Code: "event_id_in_use", Reason: "event id is already in use"}
	ErrUnschedulePending         = &Error{Kind: ErrConflict, Code: "unschedule_pending", Reason: "event is still listed by a venue, retry unschedule to finish removing it"}

	ErrMembershipLost = &Error{Kind: ErrInternal, Code: "membership_lost", Reason: "scheduled event is not held by any venue"}
	ErrStorage        = &Error{Kind: ErrInternal, Code: "storage", Reason: "storage failure"}
)

// with returns a copy of e carrying a more specific reason.
func (e *Error) with(format string, args ...any) *Error {
	cp := *e
	cp.Reason = fmt.Sprintf(format, args...)
	return &cp
}

func storageError(op string, err error) error {
	return &Error{Kind: ErrInternal, Code: ErrStorage.Code, Reason: op, Err: err}
}

// ValidationError reports a request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
