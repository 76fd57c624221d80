package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmarkov/flightdesk/internal/service/airports"
)

type AirportHandler struct {
	airports *airports.Service
}

func NewAirportHandler(airportsSvc *airports.Service) *AirportHandler {
	return &AirportHandler{airports: airportsSvc}
}

func (h *AirportHandler) Register(r *gin.RouterGroup) {
	r.GET("/airport", h.get)
	r.GET("/airport/list", h.list)
	r.GET("/airport/search", h.search)
}

func (h *AirportHandler) get(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	airport, err := h.airports.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, airport)
}

func (h *AirportHandler) list(c *gin.Context) {
	page, err := h.airports.List(c.Request.Context(), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *AirportHandler) search(c *gin.Context) {
	page, err := h.airports.Search(c.Request.Context(), c.Query("query"), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
