// Package flights implements flight CRUD, route search and the resolution
// of flights into their detailed response shape.
package flights

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
	"github.com/tmarkov/flightdesk/internal/pagination"
	"github.com/tmarkov/flightdesk/internal/repository"
)

// Layouts accepted for flight timestamps in create and update payloads.
const (
	timeLayout      = "2006-01-02 15:04:05"
	timeLayoutShort = "2006-01-02T15:04"
	dateLayout      = "2006-01-02"
)

type Service struct {
	flights      repository.FlightRepository
	planes       repository.PlaneRepository
	airports     repository.AirportRepository
	reservations repository.ReservationRepository
	log          zerolog.Logger
}

type Option func(*Service)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log.With().Str("component", "flights").Logger() }
}

func NewService(
	flights repository.FlightRepository,
	planes repository.PlaneRepository,
	airports repository.AirportRepository,
	reservations repository.ReservationRepository,
	opts ...Option,
) *Service {
	s := &Service{flights: flights, planes: planes, airports: airports, reservations: reservations, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateInput struct {
	Price              string
	DepartureTime      string
	ArrivalTime        string
	PlaneID            int64
	DepartureAirportID int64
	ArrivalAirportID   int64
}

// SearchParams describes a one-way or return route search. Return searches
// look up the reversed route on the return date as well.
type SearchParams struct {
	Type               string
	DepartureAirportID int64
	ArrivalAirportID   int64
	DepartureDate      string
	ReturnDate         string
}

type SearchResult struct {
	DepartureFlights []domain.FlightDetails `json:"departureFlights"`
	ReturnFlights    []domain.FlightDetails `json:"returnFlights"`
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.FlightDetails, error) {
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Details(ctx, flight)
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.FlightDetails, error) {
	if _, err := domain.ParsePriceList(input.Price); err != nil {
		return nil, apperr.Validationf("invalid price list: %v", err)
	}

	departure, err := parseFlightTime(input.DepartureTime)
	if err != nil {
		return nil, apperr.Validation("invalid departure time")
	}
	arrival, err := parseFlightTime(input.ArrivalTime)
	if err != nil {
		return nil, apperr.Validation("invalid arrival time")
	}
	if !arrival.After(departure) {
		return nil, apperr.Validation("arrival time must be after departure time")
	}
	if input.DepartureAirportID == input.ArrivalAirportID {
		return nil, apperr.Validation("departure and arrival airports must differ")
	}

	flight := &domain.Flight{
		Price:              input.Price,
		DepartureTime:      departure,
		ArrivalTime:        arrival,
		PlaneID:            input.PlaneID,
		DepartureAirportID: input.DepartureAirportID,
		ArrivalAirportID:   input.ArrivalAirportID,
	}

	id, err := s.flights.Create(ctx, flight)
	if err != nil {
		return nil, err
	}
	flight.ID = id

	s.log.Info().Int64("flight_id", id).Msg("flight created")
	return s.Details(ctx, flight)
}

// Update applies a sparse field map. Unknown fields are ignored; known
// fields with invalid values fail the whole update.
func (s *Service) Update(ctx context.Context, id int64, input map[string]any) (*domain.FlightDetails, error) {
	fields := make(map[string]any)
	for name, value := range input {
		column, sanitized, err := sanitizeFlightField(name, value)
		if err != nil {
			return nil, err
		}
		if column == "" {
			continue
		}
		fields[column] = sanitized
	}

	if err := s.flights.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func sanitizeFlightField(name string, value any) (string, any, error) {
	switch name {
	case "price":
		str, ok := value.(string)
		if !ok {
			return "", nil, apperr.Validation("price must be a string")
		}
		if _, err := domain.ParsePriceList(str); err != nil {
			return "", nil, apperr.Validationf("invalid price list: %v", err)
		}
		return "price", str, nil
	case "departureTime", "arrivalTime":
		str, ok := value.(string)
		if !ok {
			return "", nil, apperr.Validationf("%s must be a string", name)
		}
		ts, err := parseFlightTime(str)
		if err != nil {
			return "", nil, apperr.Validationf("invalid %s", name)
		}
		if name == "departureTime" {
			return "departure_time", ts, nil
		}
		return "arrival_time", ts, nil
	case "planeId":
		id, err := toID(value)
		if err != nil {
			return "", nil, apperr.Validation("planeId must be a positive integer")
		}
		return "plane_id", id, nil
	case "departureAirportId":
		id, err := toID(value)
		if err != nil {
			return "", nil, apperr.Validation("departureAirportId must be a positive integer")
		}
		return "departure_airport_id", id, nil
	case "arrivalAirportId":
		id, err := toID(value)
		if err != nil {
			return "", nil, apperr.Validation("arrivalAirportId must be a positive integer")
		}
		return "arrival_airport_id", id, nil
	case "cancelled":
		b, ok := value.(bool)
		if !ok {
			return "", nil, apperr.Validation("cancelled must be a boolean")
		}
		return "cancelled", b, nil
	default:
		return "", nil, nil
	}
}

// toID converts JSON numbers (decoded as float64) and native ints to a
// positive int64 id.
func toID(value any) (int64, error) {
	switch v := value.(type) {
	case float64:
		id := int64(v)
		if float64(id) != v || id <= 0 {
			return 0, fmt.Errorf("not a positive integer: %v", v)
		}
		return id, nil
	case int64:
		if v <= 0 {
			return 0, fmt.Errorf("not a positive integer: %d", v)
		}
		return v, nil
	case int:
		if v <= 0 {
			return 0, fmt.Errorf("not a positive integer: %d", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("not a number: %T", value)
	}
}

func parseFlightTime(value string) (time.Time, error) {
	for _, layout := range []string{timeLayout, timeLayoutShort, time.RFC3339} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// ByAirline pages over the flights operated by an airline's planes.
func (s *Service) ByAirline(ctx context.Context, airlineID int64, page int) (pagination.Page[domain.FlightDetails], error) {
	var empty pagination.Page[domain.FlightDetails]

	page = pagination.Normalize(page)
	flights, err := s.flights.ListByAirline(ctx, airlineID, pagination.PageSize, pagination.Offset(page))
	if err != nil {
		return empty, err
	}
	total, err := s.flights.CountByAirline(ctx, airlineID)
	if err != nil {
		return empty, err
	}

	details, err := s.detailsList(ctx, flights)
	if err != nil {
		return empty, err
	}
	return pagination.NewPage(details, total, page), nil
}

// Search runs a one-way or return route search on calendar days.
func (s *Service) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if params.Type != "oneway" && params.Type != "return" {
		return nil, apperr.Validation("type must be oneway or return")
	}
	departureDate, err := time.Parse(dateLayout, params.DepartureDate)
	if err != nil {
		return nil, apperr.Validation("invalid departure date")
	}

	outbound, err := s.flights.Search(ctx, params.DepartureAirportID, params.ArrivalAirportID, departureDate)
	if err != nil {
		return nil, err
	}
	result := &SearchResult{ReturnFlights: []domain.FlightDetails{}}
	if result.DepartureFlights, err = s.detailsList(ctx, outbound); err != nil {
		return nil, err
	}

	if params.Type == "return" {
		if params.ReturnDate == "" {
			return nil, apperr.Validation("returnDate is required for return searches")
		}
		returnDate, err := time.Parse(dateLayout, params.ReturnDate)
		if err != nil {
			return nil, apperr.Validation("invalid return date")
		}
		if returnDate.Before(departureDate) {
			return nil, apperr.Validation("return date must not precede departure date")
		}

		inbound, err := s.flights.Search(ctx, params.ArrivalAirportID, params.DepartureAirportID, returnDate)
		if err != nil {
			return nil, err
		}
		if result.ReturnFlights, err = s.detailsList(ctx, inbound); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// TakenSeats lists the seats already reserved on a flight.
func (s *Service) TakenSeats(ctx context.Context, flightID int64) ([]string, error) {
	if _, err := s.flights.GetByID(ctx, flightID); err != nil {
		return nil, err
	}

	reservations, err := s.reservations.ListByFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}

	seats := make([]string, 0, len(reservations))
	for _, res := range reservations {
		seats = append(seats, res.Seat)
	}
	return seats, nil
}

// Details resolves a flight's plane and airports into the response shape.
func (s *Service) Details(ctx context.Context, flight *domain.Flight) (*domain.FlightDetails, error) {
	plane, err := s.planes.GetByID(ctx, flight.PlaneID)
	if err != nil {
		return nil, fmt.Errorf("resolve plane: %w", err)
	}
	departure, err := s.airports.GetByID(ctx, flight.DepartureAirportID)
	if err != nil {
		return nil, fmt.Errorf("resolve departure airport: %w", err)
	}
	arrival, err := s.airports.GetByID(ctx, flight.ArrivalAirportID)
	if err != nil {
		return nil, fmt.Errorf("resolve arrival airport: %w", err)
	}

	return &domain.FlightDetails{
		ID:               flight.ID,
		Price:            flight.Price,
		DepartureTime:    flight.DepartureTime,
		ArrivalTime:      flight.ArrivalTime,
		Cancelled:        flight.Cancelled,
		DepartureAirport: *departure,
		ArrivalAirport:   *arrival,
		Plane:            *plane,
	}, nil
}

// detailsList resolves a batch, memoizing airports and planes so a page of
// flights on the same route does not repeat lookups.
func (s *Service) detailsList(ctx context.Context, flights []domain.Flight) ([]domain.FlightDetails, error) {
	airports := make(map[int64]*domain.Airport)
	planes := make(map[int64]*domain.Plane)

	airport := func(id int64) (*domain.Airport, error) {
		if a, ok := airports[id]; ok {
			return a, nil
		}
		a, err := s.airports.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		airports[id] = a
		return a, nil
	}
	plane := func(id int64) (*domain.Plane, error) {
		if p, ok := planes[id]; ok {
			return p, nil
		}
		p, err := s.planes.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		planes[id] = p
		return p, nil
	}

	details := make([]domain.FlightDetails, 0, len(flights))
	for _, f := range flights {
		p, err := plane(f.PlaneID)
		if err != nil {
			return nil, err
		}
		dep, err := airport(f.DepartureAirportID)
		if err != nil {
			return nil, err
		}
		arr, err := airport(f.ArrivalAirportID)
		if err != nil {
			return nil, err
		}
		details = append(details, domain.FlightDetails{
			ID:               f.ID,
			Price:            f.Price,
			DepartureTime:    f.DepartureTime,
			ArrivalTime:      f.ArrivalTime,
			Cancelled:        f.Cancelled,
			DepartureAirport: *dep,
			ArrivalAirport:   *arr,
			Plane:            *p,
		})
	}
	return details, nil
}
