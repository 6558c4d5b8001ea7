package venues

import (
	"context"
	"fmt"
)

// ViolationKind names a broken cross-table invariant.
type ViolationKind string

const (
	ViolationCapacityExceeded  ViolationKind = "capacity_exceeded"
	ViolationDuplicateEvent    ViolationKind = "duplicate_event"
	ViolationMissingEvent      ViolationKind = "missing_event"
	ViolationUnscheduledMember ViolationKind = "unscheduled_member"
	ViolationOrphanedEvent     ViolationKind = "orphaned_event"
	ViolationMultipleVenues    ViolationKind = "multiple_venues"
)

type Violation struct {
	Kind    ViolationKind `json:"kind"`
	VenueID string        `json:"venue_id,omitempty"`
	EventID string        `json:"event_id,omitempty"`
	Detail  string        `json:"detail"`
}

// Report is the outcome of a full consistency check.
type Report struct {
	Venues     int         `json:"venues"`
	Events     int         `json:"events"`
	Violations []Violation `json:"violations"`
}

func (r Report) Healthy() bool {
	return len(r.Violations) == 0
}

// Audit checks every venue/event invariant across both tables without
// modifying anything.
func (s *Service) Audit(ctx context.Context) (Report, error) {
	var report Report
	err := s.read(ctx, "audit", func(ctx context.Context, repo Repository) error {
		allVenues, err := repo.Venues().Values(ctx)
		if err != nil {
			return storageError("scan venues", err)
		}
		allEvents, err := repo.Events().Values(ctx)
		if err != nil {
			return storageError("scan events", err)
		}
		report = audit(allVenues, allEvents)
		return nil
	})
	if err != nil {
		return Report{}, err
	}
	if !report.Healthy() {
		s.logger.Warn().Int("violations", len(report.Violations)).Msg("consistency audit found violations")
	}
	return report, nil
}

func audit(allVenues []Venue, allEvents []Event) Report {
	report := Report{Venues: len(allVenues), Events: len(allEvents), Violations: []Violation{}}

	byID := make(map[string]Event, len(allEvents))
	for _, event := range allEvents {
		byID[event.ID] = event
	}

	holders := make(map[string][]string)
	for _, venue := range allVenues {
		if len(venue.EventIDs) > MaxEventsPerVenue {
			report.Violations = append(report.Violations, Violation{
				Kind:    ViolationCapacityExceeded,
				VenueID: venue.ID,
				Detail:  fmt.Sprintf("venue holds %d events, limit is %d", len(venue.EventIDs), MaxEventsPerVenue),
			})
		}
		seen := make(map[string]bool, len(venue.EventIDs))
		for _, id := range venue.EventIDs {
			if seen[id] {
				report.Violations = append(report.Violations, Violation{
					Kind: ViolationDuplicateEvent, VenueID: venue.ID, EventID: id,
					Detail: "event listed more than once",
				})
				continue
			}
			seen[id] = true
			holders[id] = append(holders[id], venue.ID)

			event, ok := byID[id]
			switch {
			case !ok:
				report.Violations = append(report.Violations, Violation{
					Kind: ViolationMissingEvent, VenueID: venue.ID, EventID: id,
					Detail: "venue references an event that does not exist",
				})
			case !event.Scheduled():
				report.Violations = append(report.Violations, Violation{
					Kind: ViolationUnscheduledMember, VenueID: venue.ID, EventID: id,
					Detail: "venue holds an unscheduled event",
				})
			}
		}
	}

	for _, event := range allEvents {
		venueIDs := holders[event.ID]
		switch {
		case event.Scheduled() && len(venueIDs) == 0:
			report.Violations = append(report.Violations, Violation{
				Kind: ViolationOrphanedEvent, EventID: event.ID,
				Detail: "scheduled event is held by no venue",
			})
		case len(venueIDs) > 1:
			report.Violations = append(report.Violations, Violation{
				Kind: ViolationMultipleVenues, EventID: event.ID,
				Detail: fmt.Sprintf("event is held by %d venues", len(venueIDs)),
			})
		}
	}

	return report
}
