// Package geo holds coordinate math used by the statistics service.
package geo

import "math"

const earthRadiusKm = 6371

// Haversine returns the great-circle distance between two coordinate pairs
// in whole kilometers, truncated.
func Haversine(lat1, lon1, lat2, lon2 float64) int {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return int(earthRadiusKm * c)
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
