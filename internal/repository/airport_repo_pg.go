package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
)

type AirportRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Airport, error)
	List(ctx context.Context, limit, offset int) ([]domain.Airport, error)
	Count(ctx context.Context) (int, error)
	Search(ctx context.Context, query string, limit, offset int) ([]domain.Airport, error)
	SearchCount(ctx context.Context, query string) (int, error)
}

type PGAirportRepository struct {
	db *pgxpool.Pool
}

func NewAirportRepository(db *pgxpool.Pool) AirportRepository {
	return &PGAirportRepository{db: db}
}

const airportColumns = `id, name, city, country, iata, latitude, longitude, timezone`

func scanAirport(row pgx.Row) (*domain.Airport, error) {
	var a domain.Airport
	err := row.Scan(&a.ID, &a.Name, &a.City, &a.Country, &a.IATA, &a.Latitude, &a.Longitude, &a.Timezone)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PGAirportRepository) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	airport, err := scanAirport(r.db.QueryRow(ctx, `SELECT `+airportColumns+` FROM airports WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("airport not found")
	}
	return airport, err
}

func (r *PGAirportRepository) List(ctx context.Context, limit, offset int) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT `+airportColumns+` FROM airports ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAirports(rows)
}

func (r *PGAirportRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM airports`).Scan(&count)
	return count, err
}

// Search matches name, city, country and IATA code with the same predicate
// the count query uses.
func (r *PGAirportRepository) Search(ctx context.Context, query string, limit, offset int) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT `+airportColumns+` FROM airports
		WHERE name ILIKE $1 OR city ILIKE $1 OR country ILIKE $1 OR iata ILIKE $1
		ORDER BY id LIMIT $2 OFFSET $3`, "%"+query+"%", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAirports(rows)
}

func (r *PGAirportRepository) SearchCount(ctx context.Context, query string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM airports
		WHERE name ILIKE $1 OR city ILIKE $1 OR country ILIKE $1 OR iata ILIKE $1`, "%"+query+"%").Scan(&count)
	return count, err
}

func collectAirports(rows pgx.Rows) ([]domain.Airport, error) {
	airports := make([]domain.Airport, 0)
	for rows.Next() {
		airport, err := scanAirport(rows)
		if err != nil {
			return nil, err
		}
		airports = append(airports, *airport)
	}
	return airports, rows.Err()
}

var _ AirportRepository = (*PGAirportRepository)(nil)
