package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

type Flight struct {
	ID                 int64     `json:"id"`
	Price              string    `json:"price"`
	DepartureTime      time.Time `json:"departureTime"`
	ArrivalTime        time.Time `json:"arrivalTime"`
	PlaneID            int64     `json:"planeId"`
	DepartureAirportID int64     `json:"departureAirportId"`
	ArrivalAirportID   int64     `json:"arrivalAirportId"`
	Cancelled          bool      `json:"cancelled"`
}

// FlightDetails is a flight with its related entities resolved, the shape
// list and detail endpoints respond with.
type FlightDetails struct {
	ID               int64     `json:"id"`
	Price            string    `json:"price"`
	DepartureTime    time.Time `json:"departureTime"`
	ArrivalTime      time.Time `json:"arrivalTime"`
	Cancelled        bool      `json:"cancelled"`
	DepartureAirport Airport   `json:"departureAirport"`
	ArrivalAirport   Airport   `json:"arrivalAirport"`
	Plane            Plane     `json:"plane"`
}

// ClassPrice is one entry of a flight price string, e.g. "[Economy 199.99]".
type ClassPrice struct {
	Class string
	Price float64
}

var priceRe = regexp.MustCompile(`\[(\w+)\s+([\d.]+)]`)

// ParsePriceList validates and parses a price string of the form
// "[ClassName Price]...". Flight creation rejects strings with no valid
// class/price pair.
func ParsePriceList(price string) ([]ClassPrice, error) {
	matches := priceRe.FindAllStringSubmatch(price, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("invalid price list %q", price)
	}

	prices := make([]ClassPrice, 0, len(matches))
	for _, m := range matches {
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q for class %s", m[2], m[1])
		}
		prices = append(prices, ClassPrice{Class: m[1], Price: value})
	}
	return prices, nil
}
