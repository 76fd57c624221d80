package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
)

type FlightRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) (int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
	ListByAirline(ctx context.Context, airlineID int64, limit, offset int) ([]domain.Flight, error)
	CountByAirline(ctx context.Context, airlineID int64) (int, error)
	Search(ctx context.Context, departureAirportID, arrivalAirportID int64, date time.Time) ([]domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, price, departure_time, arrival_time, plane_id, departure_airport_id, arrival_airport_id, cancelled`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.Price, &f.DepartureTime, &f.ArrivalTime, &f.PlaneID, &f.DepartureAirportID, &f.ArrivalAirportID, &f.Cancelled)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	flight, err := scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("flight not found")
	}
	return flight, err
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO flights (price, departure_time, arrival_time, plane_id, departure_airport_id, arrival_airport_id, cancelled)
		VALUES ($1, $2, $3, $4, $5, $6, false) RETURNING id`,
		flight.Price, flight.DepartureTime, flight.ArrivalTime, flight.PlaneID, flight.DepartureAirportID, flight.ArrivalAirportID).Scan(&id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return 0, apperr.Validation("referenced plane or airport does not exist")
		}
		return 0, err
	}
	return id, nil
}

func (r *PGFlightRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	sql, args := buildUpdate("flights", fields, id)
	cmd, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("flight not found")
	}
	return nil
}

// ListByAirline pages over flights operated by the airline's planes; the
// count query mirrors the same join.
func (r *PGFlightRepository) ListByAirline(ctx context.Context, airlineID int64, limit, offset int) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT flights.id, flights.price, flights.departure_time, flights.arrival_time,
			flights.plane_id, flights.departure_airport_id, flights.arrival_airport_id, flights.cancelled
		FROM flights JOIN planes ON flights.plane_id = planes.id
		WHERE planes.airline_id = $1
		ORDER BY flights.departure_time LIMIT $2 OFFSET $3`, airlineID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlights(rows)
}

func (r *PGFlightRepository) CountByAirline(ctx context.Context, airlineID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM flights
		JOIN planes ON flights.plane_id = planes.id
		WHERE planes.airline_id = $1`, airlineID).Scan(&count)
	return count, err
}

// Search returns non-cancelled flights on the route departing on the given
// calendar day.
func (r *PGFlightRepository) Search(ctx context.Context, departureAirportID, arrivalAirportID int64, date time.Time) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE departure_airport_id = $1
			AND arrival_airport_id = $2
			AND departure_time::date = $3::date
			AND NOT cancelled
		ORDER BY departure_time`, departureAirportID, arrivalAirportID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlights(rows)
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		flight, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *flight)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
