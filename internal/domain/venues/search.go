package venues

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// FindVenueOfEvent returns the id of the venue holding eventID.
//
// Events carry no venue reference, so this scans every venue in store order
// and stops at the first match: O(number of venues) per call.
func (s *Service) FindVenueOfEvent(ctx context.Context, eventID string) (string, error) {
	var venueID string
	err := s.read(ctx, "find_venue", func(ctx context.Context, repo Repository) error {
		spanAttrs(ctx, attribute.String("event.id", eventID))
		event, err := loadEvent(ctx, repo, eventID)
		if err != nil {
			return err
		}
		if !event.Scheduled() {
			return ErrNotScheduled.with("event with id=%s is not scheduled in any venue", eventID)
		}
		holder, held, err := holderOf(ctx, repo, eventID)
		if err != nil {
			return err
		}
		if !held {
			s.logger.Error().Str("event_id", eventID).Msg("scheduled event missing from every venue")
			return ErrMembershipLost.with("event with id=%s is scheduled but no venue holds it", eventID)
		}
		venueID = holder.ID
		return nil
	})
	return venueID, err
}

// VenueEvents returns the events held by a venue in the venue's order.
// References to events missing from the events table are skipped.
func (s *Service) VenueEvents(ctx context.Context, venueID string) ([]Event, error) {
	var list []Event
	err := s.read(ctx, "venue_events", func(ctx context.Context, repo Repository) error {
		venue, err := loadVenue(ctx, repo, venueID)
		if err != nil {
			return err
		}
		list = make([]Event, 0, len(venue.EventIDs))
		for _, id := range venue.EventIDs {
			event, ok, err := repo.Events().Get(ctx, id)
			if err != nil {
				return storageError("load event", err)
			}
			if !ok {
				s.logger.Error().Str("venue_id", venueID).Str("event_id", id).Msg("venue references missing event")
				continue
			}
			list = append(list, event)
		}
		return nil
	})
	return list, err
}

// holderOf scans venues in store order for the first one holding eventID.
func holderOf(ctx context.Context, repo Repository, eventID string) (Venue, bool, error) {
	all, err := repo.Venues().Values(ctx)
	if err != nil {
		return Venue{}, false, storageError("scan venues", err)
	}
	for _, venue := range all {
		if venue.Holds(eventID) {
			return venue, true, nil
		}
	}
	return Venue{}, false, nil
}

// requireUnheld fails with ErrUnschedulePending when an Unscheduled event is
// still listed by a venue, which only happens after an Unschedule stopped
// between its event and venue writes.
func requireUnheld(ctx context.Context, repo Repository, eventID string) error {
	holder, held, err := holderOf(ctx, repo, eventID)
	if err != nil {
		return err
	}
	if held {
		return ErrUnschedulePending.with("event with id=%s is unscheduled but still listed by venue id=%s, retry unschedule there first", eventID, holder.ID)
	}
	return nil
}
