package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
)

type PlaneRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Plane, error)
	Create(ctx context.Context, plane *domain.Plane) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type PGPlaneRepository struct {
	db *pgxpool.Pool
}

func NewPlaneRepository(db *pgxpool.Pool) PlaneRepository {
	return &PGPlaneRepository{db: db}
}

func (r *PGPlaneRepository) GetByID(ctx context.Context, id int64) (*domain.Plane, error) {
	row := r.db.QueryRow(ctx, `SELECT planes.id, planes.name, planes.configuration, planes.airline_id, airlines.name
		FROM planes JOIN airlines ON planes.airline_id = airlines.id
		WHERE planes.id=$1`, id)
	var p domain.Plane
	if err := row.Scan(&p.ID, &p.Name, &p.Configuration, &p.AirlineID, &p.AirlineName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("plane not found")
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGPlaneRepository) Create(ctx context.Context, plane *domain.Plane) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO planes (name, configuration, airline_id) VALUES ($1, $2, $3) RETURNING id`,
		plane.Name, plane.Configuration, plane.AirlineID).Scan(&id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return 0, apperr.Validation("referenced airline does not exist")
		}
		return 0, err
	}
	return id, nil
}

// Delete surfaces the flights foreign key as a distinct conflict so the API
// can report the plane as in use instead of a generic failure.
func (r *PGPlaneRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM planes WHERE id=$1`, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return apperr.Conflict("plane is associated with one or more flights")
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("plane not found")
	}
	return nil
}

var _ PlaneRepository = (*PGPlaneRepository)(nil)
