package venues

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// Placement is the pair of records touched by Schedule and Unschedule.
type Placement struct {
	Venue Venue `json:"venue"`
	Event Event `json:"event"`
}

// Schedule attaches an existing Unscheduled event to a venue.
//
// The capacity bound applies here exactly as it does on creation. An event
// that is Scheduled but held by no venue is treated as an interrupted
// Schedule and adopted by venueID rather than rejected. An Unscheduled event
// still listed by some venue is an interrupted Unschedule and is refused
// until that Unschedule is re-driven.
func (s *Service) Schedule(ctx context.Context, venueID, eventID string) (Placement, error) {
	var placed Placement
	err := s.write(ctx, "schedule", func(ctx context.Context, repo Repository) error {
		spanAttrs(ctx, attribute.String("venue.id", venueID), attribute.String("event.id", eventID))
		event, err := loadEvent(ctx, repo, eventID)
		if err != nil {
			return err
		}
		venue, err := loadVenue(ctx, repo, venueID)
		if err != nil {
			return err
		}
		if !event.Scheduled() {
			if err := requireUnheld(ctx, repo, eventID); err != nil {
				return err
			}
		}
		if venue.Holds(eventID) {
			return ErrAlreadyScheduledHere.with("event with id=%s is already scheduled in venue id=%s", eventID, venueID)
		}
		if event.Scheduled() {
			holder, held, err := holderOf(ctx, repo, eventID)
			if err != nil {
				return err
			}
			if held {
				return ErrAlreadyScheduledElsewhere.with("event with id=%s is already scheduled in venue id=%s", eventID, holder.ID)
			}
			s.logger.Warn().Str("venue_id", venueID).Str("event_id", eventID).Msg("adopting scheduled event held by no venue")
		}
		if venue.Full() {
			return ErrVenueFull
		}

		if !event.Scheduled() {
			event.Status = StatusScheduled
			event.UpdatedAt = s.timestamp()
			if event, err = saveEvent(ctx, repo, event); err != nil {
				return err
			}
		}

		venue.EventIDs = append(venue.EventIDs, eventID)
		venue.UpdatedAt = s.timestamp()
		if venue, err = saveVenue(ctx, repo, venue); err != nil {
			return err
		}

		placed = Placement{Venue: venue, Event: event}
		return nil
	})
	if err != nil {
		return Placement{}, err
	}

	s.logger.Info().Str("venue_id", venueID).Str("event_id", eventID).Msg("event scheduled")
	return placed, nil
}

// Unschedule detaches an event from the venue holding it and marks it
// Unscheduled. The relative order of the venue's remaining events is kept.
func (s *Service) Unschedule(ctx context.Context, venueID, eventID string) (Placement, error) {
	var placed Placement
	err := s.write(ctx, "unschedule", func(ctx context.Context, repo Repository) error {
		spanAttrs(ctx, attribute.String("venue.id", venueID), attribute.String("event.id", eventID))
		event, err := loadEvent(ctx, repo, eventID)
		if err != nil {
			return err
		}
		venue, err := loadVenue(ctx, repo, venueID)
		if err != nil {
			return err
		}
		if !venue.Holds(eventID) {
			return ErrEventNotInVenue.with("event with id=%s is not scheduled in venue id=%s", eventID, venueID)
		}

		// Event first: if the venue write is lost, the venue still lists the
		// event and a retry takes this same path.
		event.Status = StatusUnscheduled
		event.UpdatedAt = s.timestamp()
		if event, err = saveEvent(ctx, repo, event); err != nil {
			return err
		}

		venue.EventIDs = without(venue.EventIDs, eventID)
		venue.UpdatedAt = s.timestamp()
		if venue, err = saveVenue(ctx, repo, venue); err != nil {
			return err
		}

		placed = Placement{Venue: venue, Event: event}
		return nil
	})
	if err != nil {
		return Placement{}, err
	}

	s.logger.Info().Str("venue_id", venueID).Str("event_id", eventID).Msg("event removed from venue")
	return placed, nil
}

func without(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != id {
			out = append(out, item)
		}
	}
	return out
}
