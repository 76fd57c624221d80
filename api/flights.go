package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmarkov/flightdesk/internal/service/flights"
)

type FlightHandler struct {
	flights *flights.Service
}

func NewFlightHandler(flightsSvc *flights.Service) *FlightHandler {
	return &FlightHandler{flights: flightsSvc}
}

func (h *FlightHandler) Register(r *gin.RouterGroup, auth *AuthMiddleware, manager gin.HandlerFunc) {
	r.GET("/flight", h.get)
	r.GET("/flight/seats", h.takenSeats)
	r.GET("/flight/airline", h.byAirline)
	r.POST("/flight/search", h.search)
	r.POST("/flight", auth.Required(), manager, h.create)
	r.PUT("/flight", auth.Required(), manager, h.update)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	flight, err := h.flights.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

type createFlightRequest struct {
	Price              string `json:"price"`
	DepartureTime      string `json:"departureTime"`
	ArrivalTime        string `json:"arrivalTime"`
	PlaneID            int64  `json:"planeId"`
	DepartureAirportID int64  `json:"departureAirportId"`
	ArrivalAirportID   int64  `json:"arrivalAirportId"`
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if !bindJSON(c, &req) {
		return
	}

	flight, err := h.flights.Create(c.Request.Context(), flights.CreateInput{
		Price:              req.Price,
		DepartureTime:      req.DepartureTime,
		ArrivalTime:        req.ArrivalTime,
		PlaneID:            req.PlaneID,
		DepartureAirportID: req.DepartureAirportID,
		ArrivalAirportID:   req.ArrivalAirportID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	var input map[string]any
	if !bindJSON(c, &input) {
		return
	}

	flight, err := h.flights.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

type searchFlightRequest struct {
	Type               string `json:"type"`
	DepartureAirportID int64  `json:"departureAirportId"`
	ArrivalAirportID   int64  `json:"arrivalAirportId"`
	DepartureDate      string `json:"departureDate"`
	ReturnDate         string `json:"returnDate"`
}

func (h *FlightHandler) search(c *gin.Context) {
	var req searchFlightRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.flights.Search(c.Request.Context(), flights.SearchParams{
		Type:               req.Type,
		DepartureAirportID: req.DepartureAirportID,
		ArrivalAirportID:   req.ArrivalAirportID,
		DepartureDate:      req.DepartureDate,
		ReturnDate:         req.ReturnDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) takenSeats(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	seats, err := h.flights.TakenSeats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seats": seats})
}

func (h *FlightHandler) byAirline(c *gin.Context) {
	id, ok := idQuery(c)
	if !ok {
		return
	}

	page, err := h.flights.ByAirline(c.Request.Context(), id, pageQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
