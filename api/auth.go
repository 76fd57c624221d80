package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
	"github.com/tmarkov/flightdesk/internal/service/auth"
)

const (
	refreshCookie     = "refreshToken"
	refreshCookiePath = "/api/refresh"
)

type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(authSvc *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authSvc}
}

func (h *AuthHandler) Register(r *gin.RouterGroup) {
	r.POST("/login", h.login)
	r.POST("/refresh", h.refresh)
	r.POST("/logout", h.logout)
	r.POST("/register", h.register)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(c, apperr.Validation("email and password are required"))
		return
	}

	pair, _, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setRefreshCookie(c, pair)
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken})
}

func (h *AuthHandler) refresh(c *gin.Context) {
	raw, err := c.Cookie(refreshCookie)
	if err != nil || raw == "" {
		respondError(c, apperr.Unauthorized("missing refresh token"))
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), raw)
	if err != nil {
		respondError(c, err)
		return
	}

	setRefreshCookie(c, pair)
	c.JSON(http.StatusOK, gin.H{"access_token": pair.AccessToken})
}

func (h *AuthHandler) logout(c *gin.Context) {
	raw, err := c.Cookie(refreshCookie)
	if err != nil || raw == "" {
		respondError(c, apperr.Unauthorized("missing refresh token"))
		return
	}

	if err := h.auth.Logout(c.Request.Context(), raw); err != nil {
		respondError(c, err)
		return
	}

	clearRefreshCookie(c)
	respondMessage(c, http.StatusOK, "logged out")
}

type registerRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Nationality string `json:"nationality"`
	DateOfBirth string `json:"dateOfBirth"`
	Phone       string `json:"phone"`
	Sex         string `json:"sex"`
}

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		respondError(c, apperr.Validation("firstName, lastName, email and password are required"))
		return
	}
	if !strings.Contains(req.Email, "@") {
		respondError(c, apperr.Validation("invalid email"))
		return
	}
	if len(req.Password) < 6 {
		respondError(c, apperr.Validation("password must be at least 6 characters"))
		return
	}

	user := &domain.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Nationality: req.Nationality,
		DateOfBirth: req.DateOfBirth,
		Phone:       req.Phone,
		Sex:         req.Sex,
	}
	created, err := h.auth.Register(c.Request.Context(), user, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func setRefreshCookie(c *gin.Context, pair *auth.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	maxAge := int(time.Until(time.Unix(pair.RefreshExpiry, 0)).Seconds())
	c.SetCookie(refreshCookie, pair.RefreshToken, maxAge, refreshCookiePath, "", true, true)
}

func clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, "", -1, refreshCookiePath, "", true, true)
}
