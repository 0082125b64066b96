package location

import (
	"math"

	"ride-booking/internal/models"

	"github.com/mmcloughlin/geohash"
)

const earthRadiusKm = 6371.0

// SamePlaceKm is the distance under which two geocodes of a phrase count as one place.
const SamePlaceKm = 0.25

// HaversineKm returns the great-circle distance between a and b in kilometres.
func HaversineKm(a, b models.Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Cell returns the geohash of l at the given precision.
func Cell(l models.Location, precision uint) string {
	return geohash.EncodeWithPrecision(l.Lat, l.Lon, precision)
}

// SamePlace reports whether a and b lie within SamePlaceKm of each other.
func SamePlace(a, b models.Location) bool {
	return HaversineKm(a, b) < SamePlaceKm
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
