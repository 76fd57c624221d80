package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmarkov/flightdesk/internal/service/stats"
)

type StatisticsHandler struct {
	stats *stats.Service
}

func NewStatisticsHandler(statsSvc *stats.Service) *StatisticsHandler {
	return &StatisticsHandler{stats: statsSvc}
}

func (h *StatisticsHandler) Register(r *gin.RouterGroup, auth *AuthMiddleware) {
	r.GET("/statistics", auth.Required(), h.forUser)
}

func (h *StatisticsHandler) forUser(c *gin.Context) {
	statistics, err := h.stats.ForUser(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statistics)
}
