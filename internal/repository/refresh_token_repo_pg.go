package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tmarkov/flightdesk/internal/apperr"
)

// RefreshTokenRepository stores HMAC hashes of refresh tokens, never the raw
// token value.
type RefreshTokenRepository interface {
	Create(ctx context.Context, hash string, userID, expiry int64) error
	// Rotate consumes oldHash and stores newHash atomically, returning the
	// owning user. A missing oldHash means the token was already used or
	// revoked and fails the rotation, which makes every refresh token
	// single-use.
	Rotate(ctx context.Context, oldHash, newHash string, newExpiry int64) (int64, error)
	Delete(ctx context.Context, hash string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type PGRefreshTokenRepository struct {
	db *pgxpool.Pool
}

func NewRefreshTokenRepository(db *pgxpool.Pool) RefreshTokenRepository {
	return &PGRefreshTokenRepository{db: db}
}

func (r *PGRefreshTokenRepository) Create(ctx context.Context, hash string, userID, expiry int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO refresh_tokens (hash, user_id, expiry) VALUES ($1, $2, $3)`,
		hash, userID, expiry)
	return err
}

func (r *PGRefreshTokenRepository) Rotate(ctx context.Context, oldHash, newHash string, newExpiry int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var userID int64
	err = tx.QueryRow(ctx,
		`DELETE FROM refresh_tokens WHERE hash=$1 AND expiry >= $2 RETURNING user_id`,
		oldHash, time.Now().Unix()).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.Unauthorized("invalid token")
		}
		return 0, err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO refresh_tokens (hash, user_id, expiry) VALUES ($1, $2, $3)`,
		newHash, userID, newExpiry); err != nil {
		return 0, err
	}

	// Opportunistic sweep of tokens past their expiry.
	if _, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE expiry < $1`, time.Now().Unix()); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return userID, nil
}

func (r *PGRefreshTokenRepository) Delete(ctx context.Context, hash string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE hash=$1`, hash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.Unauthorized("invalid token")
	}
	return nil
}

func (r *PGRefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expiry < $1`, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

var _ RefreshTokenRepository = (*PGRefreshTokenRepository)(nil)
