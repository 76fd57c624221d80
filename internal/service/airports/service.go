// Package airports serves the seeded airport reference data, with the list
// endpoint backed by a Redis page cache.
package airports

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
	"github.com/tmarkov/flightdesk/internal/pagination"
	"github.com/tmarkov/flightdesk/internal/repository"
)

// PageCache holds rendered list pages. Airports are seed data, so serving a
// slightly stale page is fine.
type PageCache interface {
	GetAirportsPage(ctx context.Context, page int) (*pagination.Page[domain.Airport], error)
	SetAirportsPage(ctx context.Context, page int, airports pagination.Page[domain.Airport]) error
}

type Service struct {
	airports repository.AirportRepository
	cache    PageCache
	log      zerolog.Logger
}

type Option func(*Service)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log.With().Str("component", "airports").Logger() }
}

// WithCache enables the list page cache.
func WithCache(cache PageCache) Option {
	return func(s *Service) { s.cache = cache }
}

func NewService(airports repository.AirportRepository, opts ...Option) *Service {
	s := &Service{airports: airports, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Airport, error) {
	return s.airports.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, page int) (pagination.Page[domain.Airport], error) {
	var empty pagination.Page[domain.Airport]
	page = pagination.Normalize(page)

	if s.cache != nil {
		cached, err := s.cache.GetAirportsPage(ctx, page)
		if err != nil {
			s.log.Warn().Err(err).Int("page", page).Msg("airport cache read")
		} else if cached != nil {
			return *cached, nil
		}
	}

	airports, err := s.airports.List(ctx, pagination.PageSize, pagination.Offset(page))
	if err != nil {
		return empty, err
	}
	total, err := s.airports.Count(ctx)
	if err != nil {
		return empty, err
	}

	result := pagination.NewPage(airports, total, page)
	if s.cache != nil {
		if err := s.cache.SetAirportsPage(ctx, page, result); err != nil {
			s.log.Warn().Err(err).Int("page", page).Msg("airport cache write")
		}
	}
	return result, nil
}

// Search matches the query against name, city, country and IATA code.
func (s *Service) Search(ctx context.Context, query string, page int) (pagination.Page[domain.Airport], error) {
	var empty pagination.Page[domain.Airport]

	query = strings.TrimSpace(query)
	if query == "" {
		return empty, apperr.Validation("query must not be empty")
	}

	page = pagination.Normalize(page)
	airports, err := s.airports.Search(ctx, query, pagination.PageSize, pagination.Offset(page))
	if err != nil {
		return empty, err
	}
	total, err := s.airports.SearchCount(ctx, query)
	if err != nil {
		return empty, err
	}
	return pagination.NewPage(airports, total, page), nil
}
