package venues

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

func (s *Service) CreateVenue(ctx context.Context, params CreateVenueParams) (Venue, error) {
	params.normalize()
	if err := s.validate(params); err != nil {
		return Venue{}, err
	}

	var created Venue
	err := s.write(ctx, "create_venue", func(ctx context.Context, repo Repository) error {
		id, err := s.newID()
		if err != nil {
			return storageError("mint venue id", err)
		}
		created, err = saveVenue(ctx, repo, Venue{
			ID:        id,
			Name:      params.Name,
			EventIDs:  []string{},
			CreatedAt: s.now(),
		})
		return err
	})
	if err != nil {
		return Venue{}, err
	}

	s.logger.Info().Str("venue_id", created.ID).Msg("venue created")
	return created, nil
}

func (s *Service) ListVenues(ctx context.Context) ([]Venue, error) {
	var list []Venue
	err := s.read(ctx, "list_venues", func(ctx context.Context, repo Repository) error {
		values, err := repo.Venues().Values(ctx)
		if err != nil {
			return storageError("list venues", err)
		}
		list = values
		return nil
	})
	return list, err
}

func (s *Service) GetVenue(ctx context.Context, id string) (Venue, error) {
	var venue Venue
	err := s.read(ctx, "get_venue", func(ctx context.Context, repo Repository) error {
		var err error
		venue, err = loadVenue(ctx, repo, id)
		return err
	})
	return venue, err
}

// RenameVenue replaces the venue's name. The event list is left untouched.
func (s *Service) RenameVenue(ctx context.Context, id string, params RenameVenueParams) (Venue, error) {
	params.normalize()
	if err := s.validate(params); err != nil {
		return Venue{}, err
	}

	var renamed Venue
	err := s.write(ctx, "rename_venue", func(ctx context.Context, repo Repository) error {
		spanAttrs(ctx, attribute.String("venue.id", id))
		venue, err := loadVenue(ctx, repo, id)
		if err != nil {
			return err
		}
		venue.Name = params.Name
		venue.UpdatedAt = s.timestamp()
		renamed, err = saveVenue(ctx, repo, venue)
		return err
	})
	return renamed, err
}

// DeleteVenue removes an empty venue. A venue still holding events is left
// unchanged and ErrVenueHasEvents is returned.
func (s *Service) DeleteVenue(ctx context.Context, id string) error {
	err := s.write(ctx, "delete_venue", func(ctx context.Context, repo Repository) error {
		spanAttrs(ctx, attribute.String("venue.id", id))
		venue, err := loadVenue(ctx, repo, id)
		if err != nil {
			return err
		}
		if len(venue.EventIDs) > 0 {
			return ErrVenueHasEvents
		}
		_, ok, err := repo.Venues().Remove(ctx, id)
		if err != nil {
			return storageError("remove venue", err)
		}
		if !ok {
			return ErrVenueNotFound.with("venue with id=%s does not exist", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("venue_id", id).Msg("venue deleted")
	return nil
}
