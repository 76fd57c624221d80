package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, id int64, fields map[string]any) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockRoleRepo struct{ mock.Mock }

func (m *mockRoleRepo) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func TestUpdateMapsAndSanitizesFields(t *testing.T) {
	users := new(mockUserRepo)
	roles := new(mockRoleRepo)
	svc := NewService(users, roles)

	users.On("Update", mock.Anything, int64(5), mock.MatchedBy(func(fields map[string]any) bool {
		if fields["first_name"] != "Alice" || fields["date_of_birth"] != "1990-04-01" {
			return false
		}
		hash, ok := fields["password"].(string)
		return ok && bcrypt.CompareHashAndPassword([]byte(hash), []byte("newsecret")) == nil
	})).Return(nil)
	users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, FirstName: "Alice"}, nil)

	updated, err := svc.Update(context.Background(), 5, domain.LevelUser, 5, map[string]any{
		"firstName":   "Alice",
		"dateOfBirth": "1990-04-01",
		"password":    "newsecret",
		"unknown":     "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	users.AssertExpectations(t)
}

func TestUpdateRejectsBadDate(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockRoleRepo))

	_, err := svc.Update(context.Background(), 5, domain.LevelUser, 5, map[string]any{"dateOfBirth": "01/04/1990"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	users.AssertNotCalled(t, "Update")
}

func TestUpdateRejectsBadSex(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockRoleRepo))

	_, err := svc.Update(context.Background(), 5, domain.LevelUser, 5, map[string]any{"sex": "yes"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRoleChangeRequiresAdmin(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockRoleRepo))

	_, err := svc.Update(context.Background(), 5, domain.LevelUser, 8, map[string]any{"role": "admin"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestRoleChangeOnOwnAccountRejected(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockRoleRepo))

	_, err := svc.Update(context.Background(), 5, domain.LevelAdmin, 5, map[string]any{"role": "user"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRoleChangeResolvesRoleID(t *testing.T) {
	users := new(mockUserRepo)
	roles := new(mockRoleRepo)
	svc := NewService(users, roles)

	roles.On("GetByName", mock.Anything, "flightManager").
		Return(&domain.Role{ID: 2, Name: "flightManager", PermissionLevel: domain.LevelFlightManager}, nil)
	users.On("Update", mock.Anything, int64(8), map[string]any{"role_id": int64(2)}).Return(nil)
	users.On("GetByID", mock.Anything, int64(8)).Return(&domain.User{ID: 8, RoleName: "flightManager"}, nil)

	updated, err := svc.Update(context.Background(), 5, domain.LevelAdmin, 8, map[string]any{"role": "flightManager"})
	require.NoError(t, err)
	assert.Equal(t, "flightManager", updated.RoleName)
}

func TestRoleChangeUnknownRole(t *testing.T) {
	users := new(mockUserRepo)
	roles := new(mockRoleRepo)
	svc := NewService(users, roles)

	roles.On("GetByName", mock.Anything, "superuser").Return(nil, apperr.NotFound("role not found"))

	_, err := svc.Update(context.Background(), 5, domain.LevelAdmin, 8, map[string]any{"role": "superuser"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestListBuildsEnvelope(t *testing.T) {
	users := new(mockUserRepo)
	svc := NewService(users, new(mockRoleRepo))

	users.On("List", mock.Anything, 20, 20).Return([]domain.User{{ID: 21}}, nil)
	users.On("Count", mock.Anything).Return(21, nil)

	page, err := svc.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 21, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
}
