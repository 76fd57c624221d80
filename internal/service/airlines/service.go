// Package airlines implements airline CRUD and logo storage.
package airlines

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
	"github.com/tmarkov/flightdesk/internal/pagination"
	"github.com/tmarkov/flightdesk/internal/repository"
)

// LogoStore persists uploaded logos and resolves stored paths.
type LogoStore interface {
	Save(airlineID int64, ext string, r io.Reader) (string, error)
	Path(relPath string) (string, error)
}

type Service struct {
	airlines repository.AirlineRepository
	logos    LogoStore
	log      zerolog.Logger
}

type Option func(*Service)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log.With().Str("component", "airlines").Logger() }
}

func NewService(airlines repository.AirlineRepository, logos LogoStore, opts ...Option) *Service {
	s := &Service{airlines: airlines, logos: logos, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Airline, error) {
	return s.airlines.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, page int) (pagination.Page[domain.Airline], error) {
	var empty pagination.Page[domain.Airline]

	page = pagination.Normalize(page)
	airlines, err := s.airlines.List(ctx, pagination.PageSize, pagination.Offset(page))
	if err != nil {
		return empty, err
	}
	total, err := s.airlines.Count(ctx)
	if err != nil {
		return empty, err
	}
	return pagination.NewPage(airlines, total, page), nil
}

func (s *Service) Create(ctx context.Context, name string) (*domain.Airline, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("name must not be empty")
	}

	id, err := s.airlines.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("airline_id", id).Str("name", name).Msg("airline created")
	return &domain.Airline{ID: id, Name: name}, nil
}

// Update applies a sparse field map; name is the only writable field.
func (s *Service) Update(ctx context.Context, id int64, input map[string]any) (*domain.Airline, error) {
	fields := make(map[string]any)
	if value, ok := input["name"]; ok {
		name, ok := value.(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, apperr.Validation("name must be a non-empty string")
		}
		fields["name"] = name
	}

	if err := s.airlines.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.airlines.GetByID(ctx, id)
}

// SaveLogo stores the uploaded image and records its path on the airline.
func (s *Service) SaveLogo(ctx context.Context, airlineID int64, ext string, r io.Reader) error {
	if _, err := s.airlines.GetByID(ctx, airlineID); err != nil {
		return err
	}

	path, err := s.logos.Save(airlineID, ext, r)
	if err != nil {
		return err
	}
	if err := s.airlines.Update(ctx, airlineID, map[string]any{"logo_path": path}); err != nil {
		return err
	}

	s.log.Info().Int64("airline_id", airlineID).Str("path", path).Msg("logo uploaded")
	return nil
}

// LogoPath resolves the on-disk location of an airline's logo.
func (s *Service) LogoPath(ctx context.Context, airlineID int64) (string, error) {
	airline, err := s.airlines.GetByID(ctx, airlineID)
	if err != nil {
		return "", err
	}
	if airline.LogoPath == "" {
		return "", apperr.NotFound("airline has no logo")
	}

	path, err := s.logos.Path(airline.LogoPath)
	if err != nil {
		return "", apperr.NotFound("airline has no logo")
	}
	return path, nil
}
