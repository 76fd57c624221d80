package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tmarkov/flightdesk/internal/apperr"
)

// Claims carried by access tokens. The permission level is embedded so the
// middleware can authorize without a database round trip.
type Claims struct {
	PermissionLevel int `json:"perm_level"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies access tokens and mints opaque refresh
// tokens. Refresh tokens are stored server-side as an HMAC of the raw value,
// so a database leak does not expose usable tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (t *TokenService) IssueAccessToken(userID int64, permissionLevel int) (string, error) {
	now := time.Now()
	claims := Claims{
		PermissionLevel: permissionLevel,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates an access token. Expired tokens are reported
// distinctly so the handler can tell the client to refresh.
func (t *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.TokenExpired("token has expired")
		}
		return nil, apperr.Unauthorized("invalid token")
	}
	return claims, nil
}

// IssueRefreshToken returns the raw token for the client cookie together
// with the unix expiry to persist alongside its hash.
func (t *TokenService) IssueRefreshToken() (raw string, expiry int64, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", 0, fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), time.Now().Add(t.refreshTTL).Unix(), nil
}

// RefreshHash derives the storable form of a raw refresh token.
func (t *TokenService) RefreshHash(raw string) string {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

func (t *TokenService) AccessTTL() time.Duration  { return t.accessTTL }
func (t *TokenService) RefreshTTL() time.Duration { return t.refreshTTL }
