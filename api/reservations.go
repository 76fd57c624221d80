package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/service/reservations"
)

type ReservationHandler struct {
	reservations *reservations.Service
}

func NewReservationHandler(reservationsSvc *reservations.Service) *ReservationHandler {
	return &ReservationHandler{reservations: reservationsSvc}
}

func (h *ReservationHandler) Register(r *gin.RouterGroup, auth *AuthMiddleware) {
	r.GET("/reservation", auth.Required(), h.get)
	r.GET("/reservation/user", auth.Required(), h.listForUser)
	r.POST("/reservation", auth.Required(), h.create)
	r.DELETE("/reservation", auth.Required(), h.delete)
}

func (h *ReservationHandler) get(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	reservation, err := h.reservations.Get(c.Request.Context(), callerID(c), callerLevel(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (h *ReservationHandler) listForUser(c *gin.Context) {
	page, err := h.reservations.ListForUser(c.Request.Context(), callerID(c), pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type createReservationRequest struct {
	FlightID int64  `json:"flightId"`
	Seat     string `json:"seat"`
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req createReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.FlightID <= 0 || req.Seat == "" {
		respondError(c, apperr.Validation("flightId and seat are required"))
		return
	}

	reservation, err := h.reservations.Create(c.Request.Context(), callerID(c), req.FlightID, req.Seat)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

func (h *ReservationHandler) delete(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	if err := h.reservations.Delete(c.Request.Context(), callerID(c), callerLevel(c), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "reservation deleted")
}
