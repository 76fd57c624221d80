// Package users implements profile reads and sparse profile updates.
package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
	"github.com/tmarkov/flightdesk/internal/pagination"
	"github.com/tmarkov/flightdesk/internal/repository"
)

const dateLayout = "2006-01-02"

type Service struct {
	users repository.UserRepository
	roles repository.RoleRepository
	log   zerolog.Logger
}

type Option func(*Service)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log.With().Str("component", "users").Logger() }
}

func NewService(users repository.UserRepository, roles repository.RoleRepository, opts ...Option) *Service {
	s := &Service{users: users, roles: roles, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, page int) (pagination.Page[domain.User], error) {
	var empty pagination.Page[domain.User]

	page = pagination.Normalize(page)
	users, err := s.users.List(ctx, pagination.PageSize, pagination.Offset(page))
	if err != nil {
		return empty, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return empty, err
	}
	return pagination.NewPage(users, total, page), nil
}

// Update applies a sparse field map to the target user. Unknown fields are
// ignored. Role changes require admin privileges and are rejected on the
// actor's own account, so an admin cannot lock themselves out.
func (s *Service) Update(ctx context.Context, actorID int64, actorLevel int, targetID int64, input map[string]any) (*domain.User, error) {
	fields := make(map[string]any)
	for name, value := range input {
		if name == "role" {
			if actorLevel < domain.LevelAdmin {
				return nil, apperr.Forbidden("insufficient permissions")
			}
			if actorID == targetID {
				return nil, apperr.Validation("cannot change own role")
			}
			roleID, err := s.roleID(ctx, value)
			if err != nil {
				return nil, err
			}
			fields["role_id"] = roleID
			continue
		}

		column, sanitized, err := sanitizeUserField(name, value)
		if err != nil {
			return nil, err
		}
		if column == "" {
			continue
		}
		fields[column] = sanitized
	}

	if err := s.users.Update(ctx, targetID, fields); err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", targetID).Msg("user updated")
	return s.users.GetByID(ctx, targetID)
}

func (s *Service) roleID(ctx context.Context, value any) (int64, error) {
	name, ok := value.(string)
	if !ok {
		return 0, apperr.Validation("role must be a string")
	}
	role, err := s.roles.GetByName(ctx, name)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return 0, apperr.Validationf("unknown role %q", name)
		}
		return 0, err
	}
	return role.ID, nil
}

func sanitizeUserField(name string, value any) (string, any, error) {
	str := func() (string, error) {
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("%s must be a string", name)
		}
		return s, nil
	}

	switch name {
	case "firstName", "lastName":
		v, err := str()
		if err != nil {
			return "", nil, apperr.Validation(err.Error())
		}
		if strings.TrimSpace(v) == "" {
			return "", nil, apperr.Validationf("%s must not be empty", name)
		}
		if name == "firstName" {
			return "first_name", v, nil
		}
		return "last_name", v, nil
	case "email":
		v, err := str()
		if err != nil {
			return "", nil, apperr.Validation(err.Error())
		}
		if !strings.Contains(v, "@") {
			return "", nil, apperr.Validation("invalid email")
		}
		return "email", v, nil
	case "password":
		v, err := str()
		if err != nil {
			return "", nil, apperr.Validation(err.Error())
		}
		if len(v) < 6 {
			return "", nil, apperr.Validation("password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(v), bcrypt.DefaultCost)
		if err != nil {
			return "", nil, fmt.Errorf("hash password: %w", err)
		}
		return "password", string(hash), nil
	case "dateOfBirth":
		v, err := str()
		if err != nil {
			return "", nil, apperr.Validation(err.Error())
		}
		if _, err := time.Parse(dateLayout, v); err != nil {
			return "", nil, apperr.Validation("dateOfBirth must be YYYY-MM-DD")
		}
		return "date_of_birth", v, nil
	case "sex":
		v, err := str()
		if err != nil {
			return "", nil, apperr.Validation(err.Error())
		}
		if v != "male" && v != "female" {
			return "", nil, apperr.Validation("sex must be male or female")
		}
		return "sex", v, nil
	case "nationality":
		v, err := str()
		if err != nil {
			return "", nil, apperr.Validation(err.Error())
		}
		return "nationality", v, nil
	case "phone":
		v, err := str()
		if err != nil {
			return "", nil, apperr.Validation(err.Error())
		}
		return "phone", v, nil
	default:
		return "", nil, nil
	}
}
