package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmarkov/flightdesk/internal/service/users"
)

type UserHandler struct {
	users *users.Service
}

func NewUserHandler(usersSvc *users.Service) *UserHandler {
	return &UserHandler{users: usersSvc}
}

func (h *UserHandler) Register(r *gin.RouterGroup, auth *AuthMiddleware, admin gin.HandlerFunc) {
	r.GET("/user", auth.Required(), h.me)
	r.PUT("/user", auth.Required(), h.updateMe)
	r.GET("/users", auth.Required(), admin, h.list)
	r.PUT("/users", auth.Required(), admin, h.update)
}

func (h *UserHandler) me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) updateMe(c *gin.Context) {
	var input map[string]any
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.users.Update(c.Request.Context(), callerID(c), callerLevel(c), callerID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) list(c *gin.Context) {
	page, err := h.users.List(c.Request.Context(), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *UserHandler) update(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	var input map[string]any
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.users.Update(c.Request.Context(), callerID(c), callerLevel(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
