// Package reservations implements seat booking on top of the seat-class
// resolver, a Redis seat lock and the reservations unique index.
package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
	"github.com/tmarkov/flightdesk/internal/kafka"
	"github.com/tmarkov/flightdesk/internal/pagination"
	"github.com/tmarkov/flightdesk/internal/repository"
)

// SeatLocker serializes concurrent attempts on the same (flight, seat) pair
// before the database constraint has the final word.
type SeatLocker interface {
	AcquireSeatLock(ctx context.Context, flightID int64, seat string, ttl time.Duration) (bool, error)
	ReleaseSeatLock(ctx context.Context, flightID int64, seat string) error
}

// Publisher emits reservation events for downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// FlightResolver turns flight ids into the detailed response shape.
type FlightResolver interface {
	Get(ctx context.Context, id int64) (*domain.FlightDetails, error)
}

type Service struct {
	reservations repository.ReservationRepository
	flights      repository.FlightRepository
	planes       repository.PlaneRepository
	users        repository.UserRepository
	resolver     FlightResolver
	locker       SeatLocker
	producer     Publisher
	topic        string
	lockTTL      time.Duration
	log          zerolog.Logger
}

type Option func(*Service)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log.With().Str("component", "reservations").Logger() }
}

// WithEvents enables reservation event publishing on the given topic.
func WithEvents(producer Publisher, topic string) Option {
	return func(s *Service) {
		s.producer = producer
		s.topic = topic
	}
}

func WithLockTTL(ttl time.Duration) Option {
	return func(s *Service) { s.lockTTL = ttl }
}

func NewService(
	reservations repository.ReservationRepository,
	flights repository.FlightRepository,
	planes repository.PlaneRepository,
	users repository.UserRepository,
	resolver FlightResolver,
	locker SeatLocker,
	opts ...Option,
) *Service {
	s := &Service{
		reservations: reservations,
		flights:      flights,
		planes:       planes,
		users:        users,
		resolver:     resolver,
		locker:       locker,
		lockTTL:      2 * time.Minute,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a reservation with its flight resolved. Regular users can only
// read their own reservations.
func (s *Service) Get(ctx context.Context, actorID int64, actorLevel int, id int64) (*domain.ReservationDetails, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != actorID && actorLevel < domain.LevelAdmin {
		return nil, apperr.Forbidden("insufficient permissions")
	}
	return s.details(ctx, res)
}

func (s *Service) ListForUser(ctx context.Context, userID int64, page int) (pagination.Page[domain.ReservationDetails], error) {
	var empty pagination.Page[domain.ReservationDetails]

	page = pagination.Normalize(page)
	items, err := s.reservations.ListByUser(ctx, userID, pagination.PageSize, pagination.Offset(page))
	if err != nil {
		return empty, err
	}
	total, err := s.reservations.CountByUser(ctx, userID)
	if err != nil {
		return empty, err
	}

	details := make([]domain.ReservationDetails, 0, len(items))
	for i := range items {
		d, err := s.details(ctx, &items[i])
		if err != nil {
			return empty, err
		}
		details = append(details, *d)
	}
	return pagination.NewPage(details, total, page), nil
}

// Create books a seat. The seat class is derived from the plane's seating
// configuration; the Redis lock narrows the race window and the unique index
// on (flight_id, seat) settles it.
func (s *Service) Create(ctx context.Context, userID, flightID int64, seat string) (*domain.ReservationDetails, error) {
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if flight.Cancelled {
		return nil, apperr.Validation("flight is cancelled")
	}

	plane, err := s.planes.GetByID(ctx, flight.PlaneID)
	if err != nil {
		return nil, err
	}

	class, err := domain.ResolveSeatClass(plane.Configuration, seat)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSeat) || errors.Is(err, domain.ErrInvalidConfiguration) {
			return nil, apperr.Validation(err.Error())
		}
		return nil, err
	}

	acquired, err := s.locker.AcquireSeatLock(ctx, flightID, seat, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire seat lock: %w", err)
	}
	if !acquired {
		return nil, apperr.Conflict("seat is already taken")
	}

	reservation := &domain.Reservation{Seat: seat, Class: class, UserID: userID, FlightID: flightID}
	id, err := s.reservations.Create(ctx, reservation)
	if err != nil {
		if lockErr := s.locker.ReleaseSeatLock(ctx, flightID, seat); lockErr != nil {
			s.log.Warn().Err(lockErr).Int64("flight_id", flightID).Str("seat", seat).Msg("release seat lock")
		}
		return nil, err
	}
	reservation.ID = id

	s.publish(ctx, kafka.EventReservationCreated, reservation)
	s.log.Info().Int64("reservation_id", id).Int64("flight_id", flightID).Str("seat", seat).Msg("reservation created")
	return s.details(ctx, reservation)
}

// Delete cancels a reservation. Owners may delete their own; admin-level
// users may delete any.
func (s *Service) Delete(ctx context.Context, actorID int64, actorLevel int, id int64) error {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if res.UserID != actorID && actorLevel < domain.LevelAdmin {
		return apperr.Forbidden("insufficient permissions")
	}

	if err := s.reservations.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.locker.ReleaseSeatLock(ctx, res.FlightID, res.Seat); err != nil {
		s.log.Warn().Err(err).Int64("flight_id", res.FlightID).Str("seat", res.Seat).Msg("release seat lock")
	}

	s.publish(ctx, kafka.EventReservationDeleted, res)
	s.log.Info().Int64("reservation_id", id).Msg("reservation deleted")
	return nil
}

// publish emits a reservation event; failures are logged, never surfaced,
// because the booking itself already committed.
func (s *Service) publish(ctx context.Context, eventType string, res *domain.Reservation) {
	if s.producer == nil {
		return
	}

	email := ""
	if user, err := s.users.GetByID(ctx, res.UserID); err == nil {
		email = user.Email
	}

	event := kafka.ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID,
		FlightID:      res.FlightID,
		Seat:          res.Seat,
		Class:         res.Class,
		Email:         email,
		OccurredAt:    time.Now(),
	}
	if err := s.producer.Publish(ctx, s.topic, fmt.Sprintf("%d", res.FlightID), event); err != nil {
		s.log.Warn().Err(err).Str("event", eventType).Int64("reservation_id", res.ID).Msg("publish reservation event")
	}
}

func (s *Service) details(ctx context.Context, res *domain.Reservation) (*domain.ReservationDetails, error) {
	flight, err := s.resolver.Get(ctx, res.FlightID)
	if err != nil {
		return nil, err
	}
	return &domain.ReservationDetails{
		ID:     res.ID,
		Seat:   res.Seat,
		Class:  res.Class,
		Flight: *flight,
		UserID: res.UserID,
	}, nil
}
