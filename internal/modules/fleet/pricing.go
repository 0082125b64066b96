package fleet

import (
	"math"
	"sort"

	"ride-booking/internal/models"
)

// MaxQuotes is the number of options offered for one trip.
const MaxQuotes = 3

// EstimatePrice returns basePrice + pricePerKm * distanceKm rounded to the
// currency's minor unit (2 decimals). Negative inputs are clamped to zero.
func EstimatePrice(v models.Vehicle, distanceKm float64) float64 {
	if distanceKm < 0 || math.IsNaN(distanceKm) {
		distanceKm = 0
	}
	price := v.BasePrice + v.PricePerKm*distanceKm
	if price < 0 {
		price = 0
	}
	return math.Round(price*100) / 100
}

// QuoteVehicles prices every vehicle for the trip. eta is the dispatch delay
// in minutes and does not depend on the trip itself.
func QuoteVehicles(vehicles []models.Vehicle, distanceKm float64, eta int) []models.VehicleQuote {
	quotes := make([]models.VehicleQuote, 0, len(vehicles))
	for _, v := range vehicles {
		quotes = append(quotes, models.VehicleQuote{
			Vehicle:        v,
			EstimatedPrice: EstimatePrice(v, distanceKm),
			ETA:            eta,
		})
	}
	return quotes
}

// RankQuotes sorts quotes by price, then eta, then vehicle id, and keeps the first limit.
func RankQuotes(quotes []models.VehicleQuote, limit int) []models.VehicleQuote {
	ranked := append([]models.VehicleQuote(nil), quotes...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.EstimatedPrice != b.EstimatedPrice {
			return a.EstimatedPrice < b.EstimatedPrice
		}
		if a.ETA != b.ETA {
			return a.ETA < b.ETA
		}
		return a.ID < b.ID
	})
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Recommend filters, prices and ranks the available vehicles for a trip of distanceKm.
// An unsatisfiable constraint set falls back to every available vehicle.
func Recommend(vehicles []models.Vehicle, c models.VehicleConstraints, distanceKm float64, eta int) []models.VehicleQuote {
	candidates := FilterVehicles(AvailableOnly(vehicles), c)
	return RankQuotes(QuoteVehicles(candidates, distanceKm, eta), MaxQuotes)
}
