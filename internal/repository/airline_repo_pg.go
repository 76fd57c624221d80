package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
)

type AirlineRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Airline, error)
	List(ctx context.Context, limit, offset int) ([]domain.Airline, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, name string) (int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
}

type PGAirlineRepository struct {
	db *pgxpool.Pool
}

func NewAirlineRepository(db *pgxpool.Pool) AirlineRepository {
	return &PGAirlineRepository{db: db}
}

func (r *PGAirlineRepository) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, COALESCE(logo_path, '') FROM airlines WHERE id=$1`, id)
	var a domain.Airline
	if err := row.Scan(&a.ID, &a.Name, &a.LogoPath); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("airline not found")
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGAirlineRepository) List(ctx context.Context, limit, offset int) ([]domain.Airline, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, COALESCE(logo_path, '') FROM airlines ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airlines := make([]domain.Airline, 0)
	for rows.Next() {
		var a domain.Airline
		if err := rows.Scan(&a.ID, &a.Name, &a.LogoPath); err != nil {
			return nil, err
		}
		airlines = append(airlines, a)
	}
	return airlines, rows.Err()
}

func (r *PGAirlineRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM airlines`).Scan(&count)
	return count, err
}

func (r *PGAirlineRepository) Create(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO airlines (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	return id, err
}

func (r *PGAirlineRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	sql, args := buildUpdate("airlines", fields, id)
	cmd, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("airline not found")
	}
	return nil
}

var _ AirlineRepository = (*PGAirlineRepository)(nil)
