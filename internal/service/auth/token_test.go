package auth

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", 15*time.Minute, 5*24*time.Hour)

	token, err := svc.IssueAccessToken(42, domain.LevelFlightManager)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(42, 10), claims.Subject)
	assert.Equal(t, domain.LevelFlightManager, claims.PermissionLevel)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute, time.Hour)

	token, err := svc.IssueAccessToken(7, domain.LevelUser)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindTokenExpired))
}

func TestVerifyTamperedToken(t *testing.T) {
	svc := NewTokenService("test-secret", 15*time.Minute, time.Hour)
	other := NewTokenService("other-secret", 15*time.Minute, time.Hour)

	token, err := other.IssueAccessToken(7, domain.LevelAdmin)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	assert.False(t, apperr.IsKind(err, apperr.KindTokenExpired))
}

func TestVerifyGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", 15*time.Minute, time.Hour)

	_, err := svc.Verify("not.a.jwt")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestRefreshTokensAreUnique(t *testing.T) {
	svc := NewTokenService("test-secret", 15*time.Minute, 5*24*time.Hour)

	first, expiry, err := svc.IssueRefreshToken()
	require.NoError(t, err)
	second, _, err := svc.IssueRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Greater(t, expiry, time.Now().Unix())
	assert.Len(t, first, 64)
}

func TestRefreshHashIsDeterministicPerSecret(t *testing.T) {
	svc := NewTokenService("test-secret", 15*time.Minute, time.Hour)
	other := NewTokenService("other-secret", 15*time.Minute, time.Hour)

	assert.Equal(t, svc.RefreshHash("raw-token"), svc.RefreshHash("raw-token"))
	assert.NotEqual(t, svc.RefreshHash("raw-token"), other.RefreshHash("raw-token"))
	assert.NotEqual(t, "raw-token", svc.RefreshHash("raw-token"))
}
