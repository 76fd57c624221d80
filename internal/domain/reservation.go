package domain

import "time"

type Reservation struct {
	ID       int64  `json:"id"`
	Seat     string `json:"seat"`
	Class    string `json:"class"`
	UserID   int64  `json:"userId"`
	FlightID int64  `json:"flightId"`
}

// ReservationDetails embeds the resolved flight the way the reservation
// endpoints respond with it.
type ReservationDetails struct {
	ID     int64         `json:"id"`
	Seat   string        `json:"seat"`
	Class  string        `json:"class"`
	Flight FlightDetails `json:"flight"`
	UserID int64         `json:"userId"`
}

// FlownFlight is one representative row per distinct flight a user has
// reservations on, used by the statistics endpoint.
type FlownFlight struct {
	DepartureTime      time.Time `json:"departureTime"`
	ArrivalTime        time.Time `json:"arrivalTime"`
	DepartureAirportID int64     `json:"departureAirportId"`
	DepartureLatitude  float64   `json:"departureLatitude"`
	DepartureLongitude float64   `json:"departureLongitude"`
	ArrivalAirportID   int64     `json:"arrivalAirportId"`
	ArrivalLatitude    float64   `json:"arrivalLatitude"`
	ArrivalLongitude   float64   `json:"arrivalLongitude"`
	AirlineID          int64     `json:"airlineId"`
	FlightID           int64     `json:"flightId"`
}
