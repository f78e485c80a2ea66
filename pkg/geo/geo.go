// Package geo provides great-circle distance and road travel time estimation
// for points expressed in decimal degrees.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for Haversine distances.
const EarthRadiusKm = 6371.0

// MinTravelHours is the floor applied to every travel estimate (15 minutes).
const MinTravelHours = 0.25

// Point is a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// Haversine returns the great-circle distance in kilometres between two
// points.
func Haversine(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	rLat1 := radians(a.Lat)
	rLat2 := radians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// TravelHours estimates road travel time between two points from their
// great-circle distance. Average speed is tiered: short hops move through
// towns (25 km/h), medium legs mix roads (35 km/h), long legs assume
// highways (50 km/h). The result is floored at MinTravelHours.
func TravelHours(a, b Point) float64 {
	return TravelHoursForDistance(Haversine(a, b))
}

// TravelHoursForDistance converts a road distance in kilometres to an
// estimated duration in hours using the same speed tiers as TravelHours.
func TravelHoursForDistance(distanceKm float64) float64 {
	var speed float64
	switch {
	case distanceKm < 10:
		speed = 25
	case distanceKm < 50:
		speed = 35
	default:
		speed = 50
	}

	hours := distanceKm / speed
	if hours < MinTravelHours {
		return MinTravelHours
	}
	return hours
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
