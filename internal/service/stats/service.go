// Package stats aggregates a user's flown flights into travel statistics.
package stats

import (
	"context"

	"github.com/tmarkov/flightdesk/internal/domain"
	"github.com/tmarkov/flightdesk/internal/geo"
	"github.com/tmarkov/flightdesk/internal/repository"
)

// FlightResolver turns flight ids into the detailed response shape.
type FlightResolver interface {
	Get(ctx context.Context, id int64) (*domain.FlightDetails, error)
}

// FlightDistance pairs a resolved flight with its great-circle distance.
type FlightDistance struct {
	Flight     domain.FlightDetails `json:"flight"`
	DistanceKm int                  `json:"distanceKm"`
}

type Statistics struct {
	TotalFlights     int             `json:"totalFlights"`
	TotalDistanceKm  int             `json:"totalDistanceKm"`
	TimeInAirMinutes int             `json:"timeInAirMinutes"`
	AirportsVisited  int             `json:"airportsVisited"`
	AirlinesFlown    int             `json:"airlinesFlown"`
	ShortestFlight   *FlightDistance `json:"shortestFlight"`
	LongestFlight    *FlightDistance `json:"longestFlight"`
}

type Service struct {
	reservations repository.ReservationRepository
	resolver     FlightResolver
}

func NewService(reservations repository.ReservationRepository, resolver FlightResolver) *Service {
	return &Service{reservations: reservations, resolver: resolver}
}

// ForUser computes statistics over the user's distinct flown flights. A user
// holding several seats on one flight counts that flight once.
func (s *Service) ForUser(ctx context.Context, userID int64) (*Statistics, error) {
	flights, err := s.reservations.FlownFlightsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{}
	if len(flights) == 0 {
		return stats, nil
	}

	airports := make(map[int64]struct{})
	airlines := make(map[int64]struct{})
	var shortestID, longestID int64
	shortest, longest := -1, -1

	for _, f := range flights {
		distance := geo.Haversine(f.DepartureLatitude, f.DepartureLongitude, f.ArrivalLatitude, f.ArrivalLongitude)

		stats.TotalFlights++
		stats.TotalDistanceKm += distance
		stats.TimeInAirMinutes += int(f.ArrivalTime.Sub(f.DepartureTime).Minutes())
		airports[f.DepartureAirportID] = struct{}{}
		airports[f.ArrivalAirportID] = struct{}{}
		airlines[f.AirlineID] = struct{}{}

		if shortest == -1 || distance < shortest {
			shortest, shortestID = distance, f.FlightID
		}
		if longest == -1 || distance > longest {
			longest, longestID = distance, f.FlightID
		}
	}
	stats.AirportsVisited = len(airports)
	stats.AirlinesFlown = len(airlines)

	shortestFlight, err := s.resolver.Get(ctx, shortestID)
	if err != nil {
		return nil, err
	}
	stats.ShortestFlight = &FlightDistance{Flight: *shortestFlight, DistanceKm: shortest}

	longestFlight := shortestFlight
	if longestID != shortestID {
		if longestFlight, err = s.resolver.Get(ctx, longestID); err != nil {
			return nil, err
		}
	}
	stats.LongestFlight = &FlightDistance{Flight: *longestFlight, DistanceKm: longest}

	return stats, nil
}
