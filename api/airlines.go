package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/service/airlines"
)

// maxLogoSize caps logo uploads at 5 MiB.
const maxLogoSize = 5 << 20

type AirlineHandler struct {
	airlines *airlines.Service
}

func NewAirlineHandler(airlinesSvc *airlines.Service) *AirlineHandler {
	return &AirlineHandler{airlines: airlinesSvc}
}

func (h *AirlineHandler) Register(r *gin.RouterGroup, auth *AuthMiddleware, manager gin.HandlerFunc) {
	r.GET("/airline", h.get)
	r.GET("/airline/list", h.list)
	r.GET("/airline/logo", h.logo)
	r.POST("/airline", auth.Required(), manager, h.create)
	r.PUT("/airline", auth.Required(), manager, h.update)
	r.POST("/airline/logo", auth.Required(), manager, h.uploadLogo)
}

func (h *AirlineHandler) get(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	airline, err := h.airlines.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, airline)
}

func (h *AirlineHandler) list(c *gin.Context) {
	page, err := h.airlines.List(c.Request.Context(), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type createAirlineRequest struct {
	Name string `json:"name"`
}

func (h *AirlineHandler) create(c *gin.Context) {
	var req createAirlineRequest
	if !bindJSON(c, &req) {
		return
	}

	airline, err := h.airlines.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, airline)
}

func (h *AirlineHandler) update(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	var input map[string]any
	if !bindJSON(c, &input) {
		return
	}

	airline, err := h.airlines.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, airline)
}

func (h *AirlineHandler) logo(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	path, err := h.airlines.LogoPath(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.File(path)
}

func (h *AirlineHandler) uploadLogo(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	header, err := c.FormFile("logo")
	if err != nil {
		respondError(c, apperr.Validation("logo file is required"))
		return
	}
	if header.Size > maxLogoSize {
		respondError(c, apperr.Validation("logo exceeds the size limit"))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		respondError(c, apperr.Validation("logo must be a jpeg or png image"))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, apperr.Validation("unreadable logo file"))
		return
	}
	defer file.Close()

	if err := h.airlines.SaveLogo(c.Request.Context(), id, ext, file); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, "logo uploaded")
}
