package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmarkov/flightdesk/internal/service/planes"
)

type PlaneHandler struct {
	planes *planes.Service
}

func NewPlaneHandler(planesSvc *planes.Service) *PlaneHandler {
	return &PlaneHandler{planes: planesSvc}
}

func (h *PlaneHandler) Register(r *gin.RouterGroup, auth *AuthMiddleware, manager gin.HandlerFunc) {
	r.GET("/plane", auth.Required(), manager, h.get)
	r.POST("/plane", auth.Required(), manager, h.create)
	r.DELETE("/plane", auth.Required(), manager, h.delete)
}

func (h *PlaneHandler) get(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	plane, err := h.planes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plane)
}

type createPlaneRequest struct {
	Name          string `json:"name"`
	Configuration string `json:"configuration"`
	AirlineID     int64  `json:"airlineId"`
}

func (h *PlaneHandler) create(c *gin.Context) {
	var req createPlaneRequest
	if !bindJSON(c, &req) {
		return
	}

	plane, err := h.planes.Create(c.Request.Context(), req.Name, req.Configuration, req.AirlineID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plane)
}

func (h *PlaneHandler) delete(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	if err := h.planes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "plane deleted")
}
