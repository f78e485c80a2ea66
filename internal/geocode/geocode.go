// Package geocode resolves destination names to coordinates using the
// Nominatim forward geocoding API, with a static fallback table for known
// destinations so place and route lookups keep working when the geocoder is
// unreachable.
package geocode

import (
	"errors"
	"strings"

	"github.com/tripwise/tripwise/pkg/geo"
)

// ErrNotFound indicates the geocoder returned no result for the query.
var ErrNotFound = errors.New("no geocoding result for destination")

// fallbackCoordinates covers the destinations the planner is most commonly
// asked about. Used when the geocoder is unavailable or returns nothing.
var fallbackCoordinates = map[string]geo.Point{
	"mumbai":     {Lat: 19.0760, Lon: 72.8777},
	"delhi":      {Lat: 28.7041, Lon: 77.1025},
	"bangalore":  {Lat: 12.9716, Lon: 77.5946},
	"kochi":      {Lat: 9.9312, Lon: 76.2673},
	"trivandrum": {Lat: 8.5241, Lon: 76.9366},
	"chennai":    {Lat: 13.0827, Lon: 80.2707},
	"kolkata":    {Lat: 22.5726, Lon: 88.3639},
	"goa":        {Lat: 15.2993, Lon: 74.1240},
	"munnar":     {Lat: 10.0889, Lon: 77.0595},
	"alleppey":   {Lat: 9.4981, Lon: 76.3388},
	"thekkady":   {Lat: 9.46, Lon: 77.15},
	"kumarakom":  {Lat: 9.61, Lon: 76.43},
	"varkala":    {Lat: 8.74, Lon: 76.71},
	"wayanad":    {Lat: 11.6054, Lon: 76.0870},
}

// defaultPoint is returned when nothing else matches (Kochi).
var defaultPoint = geo.Point{Lat: 9.9312, Lon: 76.2673}

// FallbackPoint returns the best-known coordinate for a destination without
// consulting any remote service. It matches known destination names as
// substrings and falls back to a fixed default.
func FallbackPoint(destination string) geo.Point {
	lower := strings.ToLower(destination)
	for name, point := range fallbackCoordinates {
		if strings.Contains(lower, name) {
			return point
		}
	}
	return defaultPoint
}
