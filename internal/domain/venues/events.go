package venues

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// CreateEventInVenue creates a Scheduled event held by venueID. It is the
// only way an event comes into existence.
//
// When params.ID is set and an event with that id already exists, the call is
// treated as a retry: if the venue already holds the event the stored event is
// returned; if the event is Scheduled but held by no venue (a previous attempt
// stopped after its first write) the venue append is completed. Any other
// existing event yields ErrEventIDInUse.
func (s *Service) CreateEventInVenue(ctx context.Context, venueID string, params CreateEventParams) (Event, error) {
	params.normalize()
	if err := s.validate(params); err != nil {
		return Event{}, err
	}

	var created Event
	err := s.write(ctx, "create_event", func(ctx context.Context, repo Repository) error {
		spanAttrs(ctx, attribute.String("venue.id", venueID))
		venue, err := loadVenue(ctx, repo, venueID)
		if err != nil {
			return err
		}

		event, replay, err := s.existingForRetry(ctx, repo, venue, params.ID)
		if err != nil {
			return err
		}
		if replay {
			// Nothing left to write.
			created = event
			return nil
		}

		if venue.Full() {
			return ErrVenueFull
		}

		if event.ID == "" {
			id := params.ID
			if id == "" {
				if id, err = s.newID(); err != nil {
					return storageError("mint event id", err)
				}
			}
			event, err = saveEvent(ctx, repo, Event{
				ID:          id,
				Name:        params.Name,
				Description: params.Description,
				Organizer:   params.Organizer,
				Price:       params.Price,
				Status:      StatusScheduled,
				CreatedAt:   s.now(),
			})
			if err != nil {
				return err
			}
		}

		venue.EventIDs = append(venue.EventIDs, event.ID)
		venue.UpdatedAt = s.timestamp()
		if _, err := saveVenue(ctx, repo, venue); err != nil {
			return err
		}
		created = event
		return nil
	})
	if err != nil {
		return Event{}, err
	}

	s.logger.Info().Str("venue_id", venueID).Str("event_id", created.ID).Msg("event created and scheduled")
	return created, nil
}

// existingForRetry resolves a caller-supplied event id against the store.
// It returns replay=true when the venue already holds the event, a non-empty
// event when only the venue write is outstanding, and a zero event when the
// id is unused.
func (s *Service) existingForRetry(ctx context.Context, repo Repository, venue Venue, id string) (Event, bool, error) {
	if id == "" {
		return Event{}, false, nil
	}
	event, ok, err := repo.Events().Get(ctx, id)
	if err != nil {
		return Event{}, false, storageError("load event", err)
	}
	if !ok {
		return Event{}, false, nil
	}
	if venue.Holds(id) {
		return event, true, nil
	}
	if !event.Scheduled() {
		return Event{}, false, ErrEventIDInUse
	}
	_, held, err := holderOf(ctx, repo, id)
	if err != nil {
		return Event{}, false, err
	}
	if held {
		return Event{}, false, ErrEventIDInUse
	}
	s.logger.Warn().Str("venue_id", venue.ID).Str("event_id", id).Msg("completing interrupted event creation")
	return event, false, nil
}

func (s *Service) ListEvents(ctx context.Context) ([]Event, error) {
	var list []Event
	err := s.read(ctx, "list_events", func(ctx context.Context, repo Repository) error {
		values, err := repo.Events().Values(ctx)
		if err != nil {
			return storageError("list events", err)
		}
		list = values
		return nil
	})
	return list, err
}

func (s *Service) GetEvent(ctx context.Context, id string) (Event, error) {
	var event Event
	err := s.read(ctx, "get_event", func(ctx context.Context, repo Repository) error {
		var err error
		event, err = loadEvent(ctx, repo, id)
		return err
	})
	return event, err
}

// EditEvent merges the supplied fields into the event, last write wins per
// field. Status belongs to Schedule/Unschedule: supplying it is rejected with
// ErrStatusManaged so an edit can never detach an event from its venue.
func (s *Service) EditEvent(ctx context.Context, id string, params EditEventParams) (Event, error) {
	params.normalize()
	if err := s.validate(params); err != nil {
		return Event{}, err
	}

	var edited Event
	err := s.write(ctx, "edit_event", func(ctx context.Context, repo Repository) error {
		spanAttrs(ctx, attribute.String("event.id", id))
		event, err := loadEvent(ctx, repo, id)
		if err != nil {
			return err
		}
		if params.Status != nil {
			return ErrStatusManaged
		}
		if params.Name != nil {
			event.Name = *params.Name
		}
		if params.Description != nil {
			event.Description = *params.Description
		}
		if params.Organizer != nil {
			event.Organizer = *params.Organizer
		}
		if params.Price != nil {
			event.Price = *params.Price
		}
		event.UpdatedAt = s.timestamp()
		edited, err = saveEvent(ctx, repo, event)
		return err
	})
	return edited, err
}

// DeleteEvent removes an Unscheduled event that no venue lists.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	err := s.write(ctx, "delete_event", func(ctx context.Context, repo Repository) error {
		spanAttrs(ctx, attribute.String("event.id", id))
		event, err := loadEvent(ctx, repo, id)
		if err != nil {
			return err
		}
		if event.Scheduled() {
			return ErrEventScheduled
		}
		if err := requireUnheld(ctx, repo, id); err != nil {
			return err
		}
		_, ok, err := repo.Events().Remove(ctx, id)
		if err != nil {
			return storageError("remove event", err)
		}
		if !ok {
			return ErrEventNotFound.with("event with id=%s does not exist", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("event_id", id).Msg("event deleted")
	return nil
}
