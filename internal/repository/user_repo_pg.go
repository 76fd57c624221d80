package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Count(ctx context.Context) (int, error)
}

type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

const userColumns = `users.id, users.first_name, users.last_name, users.email, users.password,
	COALESCE(users.nationality, ''), COALESCE(users.date_of_birth::text, ''), COALESCE(users.phone, ''),
	COALESCE(users.sex, ''), users.role_id, roles.name, roles.permission_level, users.created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Nationality, &u.DateOfBirth, &u.Phone, &u.Sex, &u.RoleID, &u.RoleName, &u.PermissionLevel, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PGUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users
		JOIN roles ON users.role_id = roles.id WHERE users.id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	return user, err
}

func (r *PGUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users
		JOIN roles ON users.role_id = roles.id WHERE users.email=$1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	return user, err
}

// Create inserts the user with the role named in user.RoleName and maps the
// unique email constraint to a conflict.
func (r *PGUserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO users (first_name, last_name, email, password, role_id)
		VALUES ($1, $2, $3, $4, (SELECT id FROM roles WHERE name = $5)) RETURNING id`,
		user.FirstName, user.LastName, user.Email, user.PasswordHash, user.RoleName).Scan(&id)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return 0, apperr.Conflict("user with this email already exists")
		}
		return 0, err
	}
	return id, nil
}

func (r *PGUserRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	sql, args := buildUpdate("users", fields, id)
	cmd, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return apperr.Conflict("user with this email already exists")
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *PGUserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users
		JOIN roles ON users.role_id = roles.id
		ORDER BY users.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *PGUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

type PGRoleRepository struct {
	db *pgxpool.Pool
}

func NewRoleRepository(db *pgxpool.Pool) RoleRepository {
	return &PGRoleRepository{db: db}
}

func (r *PGRoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, permission_level FROM roles WHERE name=$1`, name)
	var role domain.Role
	if err := row.Scan(&role.ID, &role.Name, &role.PermissionLevel); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("role not found")
		}
		return nil, err
	}
	return &role, nil
}

var (
	_ UserRepository = (*PGUserRepository)(nil)
	_ RoleRepository = (*PGRoleRepository)(nil)
)
