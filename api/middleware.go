package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/service/auth"
)

const (
	ctxUserID    = "userID"
	ctxPermLevel = "permLevel"
)

// Authenticator validates access tokens for the gate.
type Authenticator interface {
	Authenticate(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	authenticator Authenticator
}

func NewAuthMiddleware(authenticator Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Required parses the Bearer token and stores the caller's identity on the
// context. A missing or malformed header is a client mistake (400), a bad or
// expired token an authentication failure (401).
func (m *AuthMiddleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			respondError(c, apperr.Validation("incomplete login credentials"))
			return
		}

		claims, err := m.authenticator.Authenticate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(c, err)
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			respondError(c, apperr.Unauthorized("invalid token"))
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxPermLevel, claims.PermissionLevel)
		c.Next()
	}
}

// RequireLevel allows the request through iff the authenticated caller's
// permission level is at least the given one. Must run after Required.
func RequireLevel(level int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetInt(ctxPermLevel) < level {
			respondError(c, apperr.Forbidden("insufficient permissions"))
			return
		}
		c.Next()
	}
}

func callerID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

func callerLevel(c *gin.Context) int {
	return c.GetInt(ctxPermLevel)
}

// CORS admits the configured frontend origin with credentials, answering
// preflights with 204.
func CORS(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
