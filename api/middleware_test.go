package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmarkov/flightdesk/internal/domain"
	"github.com/tmarkov/flightdesk/internal/service/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func gateRouter(t *testing.T, issuer *auth.TokenService, level int) *gin.Engine {
	t.Helper()

	router := gin.New()
	authMW := NewAuthMiddleware(stubAuthenticator{issuer})
	router.GET("/protected", authMW.Required(), RequireLevel(level), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": callerID(c)})
	})
	return router
}

type stubAuthenticator struct {
	issuer *auth.TokenService
}

func (s stubAuthenticator) Authenticate(token string) (*auth.Claims, error) {
	return s.issuer.Verify(token)
}

func TestGateMissingHeader(t *testing.T) {
	issuer := auth.NewTokenService("test-secret", 15*time.Minute, time.Hour)
	router := gateRouter(t, issuer, domain.LevelUser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"incomplete login credentials"}`, w.Body.String())
}

func TestGateMalformedHeader(t *testing.T) {
	issuer := auth.NewTokenService("test-secret", 15*time.Minute, time.Hour)
	router := gateRouter(t, issuer, domain.LevelUser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGateInvalidToken(t *testing.T) {
	issuer := auth.NewTokenService("test-secret", 15*time.Minute, time.Hour)
	router := gateRouter(t, issuer, domain.LevelUser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGateExpiredToken(t *testing.T) {
	expired := auth.NewTokenService("test-secret", -time.Minute, time.Hour)
	token, err := expired.IssueAccessToken(5, domain.LevelUser)
	require.NoError(t, err)

	router := gateRouter(t, auth.NewTokenService("test-secret", 15*time.Minute, time.Hour), domain.LevelUser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestGateInsufficientLevel(t *testing.T) {
	issuer := auth.NewTokenService("test-secret", 15*time.Minute, time.Hour)
	token, err := issuer.IssueAccessToken(5, domain.LevelUser)
	require.NoError(t, err)

	router := gateRouter(t, issuer, domain.LevelAdmin)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGateAllowsSufficientLevel(t *testing.T) {
	issuer := auth.NewTokenService("test-secret", 15*time.Minute, time.Hour)
	token, err := issuer.IssueAccessToken(5, domain.LevelAdmin)
	require.NoError(t, err)

	router := gateRouter(t, issuer, domain.LevelFlightManager)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":5}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS("http://localhost:3000"))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
