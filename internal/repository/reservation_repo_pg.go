package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
)

type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.Reservation, error)
	Create(ctx context.Context, reservation *domain.Reservation) (int64, error)
	Delete(ctx context.Context, id int64) error
	FlownFlightsByUser(ctx context.Context, userID int64) ([]domain.FlownFlight, error)
}

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT id, seat, class, user_id, flight_id FROM reservations WHERE id=$1`, id)
	var res domain.Reservation
	if err := row.Scan(&res.ID, &res.Seat, &res.Class, &res.UserID, &res.FlightID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("reservation not found")
		}
		return nil, err
	}
	return &res, nil
}

func (r *PGReservationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT id, seat, class, user_id, flight_id FROM reservations
		WHERE user_id=$1 ORDER BY id LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *PGReservationRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE user_id=$1`, userID).Scan(&count)
	return count, err
}

func (r *PGReservationRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT id, seat, class, user_id, flight_id FROM reservations WHERE flight_id=$1 ORDER BY id`, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

// Create relies on the (flight_id, seat) unique constraint to guarantee at
// most one reservation per seat.
func (r *PGReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO reservations (seat, class, user_id, flight_id)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		reservation.Seat, reservation.Class, reservation.UserID, reservation.FlightID).Scan(&id)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return 0, apperr.Conflict("seat is already taken")
		}
		if isPgError(err, pgForeignKeyViolation) {
			return 0, apperr.Validation("referenced flight or user does not exist")
		}
		return 0, err
	}
	return id, nil
}

func (r *PGReservationRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("reservation not found")
	}
	return nil
}

// FlownFlightsByUser returns one representative row per distinct flight the
// user holds reservations on, with the airport coordinates needed for
// distance statistics.
func (r *PGReservationRepository) FlownFlightsByUser(ctx context.Context, userID int64) ([]domain.FlownFlight, error) {
	rows, err := r.db.Query(ctx, `
		WITH ranked_flights AS (
			SELECT
				flights.departure_time,
				flights.arrival_time,
				flights.departure_airport_id,
				departure_airport.latitude AS departure_latitude,
				departure_airport.longitude AS departure_longitude,
				flights.arrival_airport_id,
				arrival_airport.latitude AS arrival_latitude,
				arrival_airport.longitude AS arrival_longitude,
				planes.airline_id AS airline_id,
				flights.id AS flight_id,
				ROW_NUMBER() OVER (PARTITION BY flights.id ORDER BY flights.departure_time) AS rn
			FROM reservations
				JOIN flights ON reservations.flight_id = flights.id
				JOIN airports AS departure_airport ON flights.departure_airport_id = departure_airport.id
				JOIN airports AS arrival_airport ON flights.arrival_airport_id = arrival_airport.id
				JOIN planes ON flights.plane_id = planes.id
			WHERE reservations.user_id = $1
		)
		SELECT departure_time, arrival_time, departure_airport_id, departure_latitude, departure_longitude,
			arrival_airport_id, arrival_latitude, arrival_longitude, airline_id, flight_id
		FROM ranked_flights WHERE rn = 1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.FlownFlight, 0)
	for rows.Next() {
		var f domain.FlownFlight
		if err := rows.Scan(&f.DepartureTime, &f.ArrivalTime, &f.DepartureAirportID, &f.DepartureLatitude, &f.DepartureLongitude,
			&f.ArrivalAirportID, &f.ArrivalLatitude, &f.ArrivalLongitude, &f.AirlineID, &f.FlightID); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func collectReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.Seat, &res.Class, &res.UserID, &res.FlightID); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
