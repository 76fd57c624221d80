// Package auth implements credential checks, JWT issuance and refresh
// token rotation.
package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
	"github.com/tmarkov/flightdesk/internal/repository"
)

const (
	adminEmail    = "admin@gmail.com"
	adminPassword = "flightadmin"
)

// TokenPair is what a successful login or refresh hands back: a short-lived
// access token for the Authorization header and a raw refresh token destined
// for an httpOnly cookie.
type TokenPair struct {
	AccessToken   string
	RefreshToken  string
	RefreshExpiry int64
}

type Service struct {
	users  repository.UserRepository
	tokens repository.RefreshTokenRepository
	issuer *TokenService
	log    zerolog.Logger
}

type Option func(*Service)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log.With().Str("component", "auth").Logger() }
}

func NewService(users repository.UserRepository, tokens repository.RefreshTokenRepository, issuer *TokenService, opts ...Option) *Service {
	s := &Service{users: users, tokens: tokens, issuer: issuer, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login verifies the credentials and issues a fresh token pair. Unknown
// emails and wrong passwords produce the same error, so the endpoint does
// not leak which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, nil, apperr.Unauthorized("invalid email or password")
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperr.Unauthorized("invalid email or password")
	}

	pair, err := s.issuePair(ctx, user.ID, user.PermissionLevel)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user logged in")
	return pair, user, nil
}

// Refresh rotates the presented refresh token and issues a new pair. The old
// token is consumed even when issuing fails later, which is the safe side of
// the trade-off.
func (s *Service) Refresh(ctx context.Context, rawRefresh string) (*TokenPair, error) {
	newRaw, newExpiry, err := s.issuer.IssueRefreshToken()
	if err != nil {
		return nil, err
	}

	userID, err := s.tokens.Rotate(ctx, s.issuer.RefreshHash(rawRefresh), s.issuer.RefreshHash(newRaw), newExpiry)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	access, err := s.issuer.IssueAccessToken(user.ID, user.PermissionLevel)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: newRaw, RefreshExpiry: newExpiry}, nil
}

// Logout revokes the presented refresh token.
func (s *Service) Logout(ctx context.Context, rawRefresh string) error {
	return s.tokens.Delete(ctx, s.issuer.RefreshHash(rawRefresh))
}

// Register creates a regular user account. The caller provides an already
// validated user value with a plaintext password.
func (s *Service) Register(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.RoleName = domain.RoleUser

	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	created, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", id).Msg("user registered")
	return created, nil
}

// Authenticate validates an access token for the middleware.
func (s *Service) Authenticate(token string) (*Claims, error) {
	return s.issuer.Verify(token)
}

// EnsureAdmin seeds the administrator account on first startup. The hash is
// generated here rather than in a migration because bcrypt salts are random.
func (s *Service) EnsureAdmin(ctx context.Context) error {
	_, err := s.users.GetByEmail(ctx, adminEmail)
	if err == nil {
		return nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = s.users.Create(ctx, &domain.User{
		FirstName:    "Admin",
		LastName:     "Admin",
		Email:        adminEmail,
		PasswordHash: string(hash),
		RoleName:     domain.RoleAdmin,
	})
	if err != nil {
		// Lost a startup race with another replica.
		if apperr.IsKind(err, apperr.KindConflict) {
			return nil
		}
		return err
	}

	s.log.Info().Str("email", adminEmail).Msg("seeded admin account")
	return nil
}

func (s *Service) issuePair(ctx context.Context, userID int64, permissionLevel int) (*TokenPair, error) {
	access, err := s.issuer.IssueAccessToken(userID, permissionLevel)
	if err != nil {
		return nil, err
	}

	raw, expiry, err := s.issuer.IssueRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Create(ctx, s.issuer.RefreshHash(raw), userID, expiry); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: raw, RefreshExpiry: expiry}, nil
}
