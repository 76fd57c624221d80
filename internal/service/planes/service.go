// Package planes implements plane CRUD with seating-configuration
// validation.
package planes

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
	"github.com/tmarkov/flightdesk/internal/repository"
)

type Service struct {
	planes repository.PlaneRepository
	log    zerolog.Logger
}

type Option func(*Service)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log.With().Str("component", "planes").Logger() }
}

func NewService(planes repository.PlaneRepository, opts ...Option) *Service {
	s := &Service{planes: planes, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Plane, error) {
	return s.planes.GetByID(ctx, id)
}

// Create validates the seating configuration before persisting, so every
// stored plane can resolve seats.
func (s *Service) Create(ctx context.Context, name, configuration string, airlineID int64) (*domain.Plane, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("name must not be empty")
	}
	if _, err := domain.ParseSeatingConfiguration(configuration); err != nil {
		return nil, apperr.Validationf("invalid seating configuration: %v", err)
	}

	plane := &domain.Plane{Name: name, Configuration: configuration, AirlineID: airlineID}
	id, err := s.planes.Create(ctx, plane)
	if err != nil {
		return nil, err
	}
	plane.ID = id

	s.log.Info().Int64("plane_id", id).Str("name", name).Msg("plane created")
	return s.planes.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.planes.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("plane_id", id).Msg("plane deleted")
	return nil
}
