package models

import (
	"math"
	"strings"
)

// Location is a geocoded place. Once resolved it is never mutated.
type Location struct {
	Text string  `json:"text" validate:"required"`
	Lat  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Valid reports whether the coordinates are in range and the label is set.
func (l Location) Valid() bool {
	if strings.TrimSpace(l.Text) == "" {
		return false
	}
	return l.Lat >= -90 && l.Lat <= 90 && l.Lon >= -180 && l.Lon <= 180
}

// Route is the driving path between two locations.
// Distance is in kilometres and Duration in minutes.
type Route struct {
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
	Polyline [][2]float64 `json:"polyline"`
}

// Valid reports whether r carries non-negative metrics.
func (r Route) Valid() bool {
	return r.Distance >= 0 && r.Duration >= 0 && !math.IsNaN(r.Distance) && !math.IsNaN(r.Duration)
}

// GeocodeRequest is the body of POST /api/location/geocode.
type GeocodeRequest struct {
	Location string `json:"location" validate:"required"`
}

// RouteRequest is the body of POST /api/location/route.
type RouteRequest struct {
	Pickup  Location `json:"pickup" validate:"required"`
	Dropoff Location `json:"dropoff" validate:"required"`
}
