// internal/utils/geo.go
package utils

import (
	"fmt"
	"math"

	"greenwatch/internal/models"
)

// MapsLink renders a map URL for a coordinate pair.
func MapsLink(point models.GeoPoint) string {
	return fmt.Sprintf("https://maps.google.com/?q=%.6f,%.6f", point.Latitude, point.Longitude)
}

// Distance returns the great-circle distance between two points in
// kilometers (Haversine).
func Distance(a, b models.GeoPoint) float64 {
	const earthRadiusKm = 6371

	lat1 := toRadians(a.Latitude)
	lon1 := toRadians(a.Longitude)
	lat2 := toRadians(b.Latitude)
	lon2 := toRadians(b.Longitude)

	deltaLat := lat2 - lat1
	deltaLon := lon2 - lon1

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
