package fleet

import (
	"testing"

	"ride-booking/internal/models"
)

func vehicle(id string, t models.VehicleType, capacity int, base, perKm float64, features ...string) models.Vehicle {
	return models.Vehicle{
		ID: id, Type: t, Name: id, Capacity: capacity, Features: features,
		BasePrice: base, PricePerKm: perKm, Available: true,
	}
}

func TestEstimatePrice(t *testing.T) {
	a := vehicle("A", models.VehicleEconomy, 4, 200, 50)
	b := vehicle("B", models.VehicleSUV, 6, 300, 80)

	if got := EstimatePrice(a, 116.5); got != 6025.0 {
		t.Errorf("EstimatePrice(A, 116.5) = %.2f; want 6025.00", got)
	}
	if got := EstimatePrice(b, 116.5); got != 9620.0 {
		t.Errorf("EstimatePrice(B, 116.5) = %.2f; want 9620.00", got)
	}
	// 100 + 33.333*3 = 199.999 -> 200.00
	c := vehicle("C", models.VehicleEconomy, 4, 100, 33.333)
	if got := EstimatePrice(c, 3); got != 200.0 {
		t.Errorf("EstimatePrice rounds to %.4f; want 200.00", got)
	}
	if got := EstimatePrice(a, -5); got != 200.0 {
		t.Errorf("EstimatePrice with negative distance = %.2f; want base price", got)
	}
}

func TestRankQuotesOrderAndLimit(t *testing.T) {
	quotes := []models.VehicleQuote{
		{Vehicle: models.Vehicle{ID: "d"}, EstimatedPrice: 50, ETA: 5},
		{Vehicle: models.Vehicle{ID: "c"}, EstimatedPrice: 10, ETA: 9},
		{Vehicle: models.Vehicle{ID: "b"}, EstimatedPrice: 10, ETA: 3},
		{Vehicle: models.Vehicle{ID: "a"}, EstimatedPrice: 10, ETA: 3},
		{Vehicle: models.Vehicle{ID: "e"}, EstimatedPrice: 5, ETA: 20},
	}
	ranked := RankQuotes(quotes, MaxQuotes)
	want := []string{"e", "a", "b"}
	if len(ranked) != len(want) {
		t.Fatalf("got %d quotes; want %d", len(ranked), len(want))
	}
	for i, id := range want {
		if ranked[i].ID != id {
			t.Errorf("ranked[%d] = %s; want %s", i, ranked[i].ID, id)
		}
	}
	for i := 1; i < len(ranked); i++ {
		p, q := ranked[i-1], ranked[i]
		if p.EstimatedPrice > q.EstimatedPrice || (p.EstimatedPrice == q.EstimatedPrice && p.ETA > q.ETA) {
			t.Errorf("quotes %d and %d out of order", i-1, i)
		}
	}
	if quotes[0].ID != "d" {
		t.Error("RankQuotes mutated its input")
	}
}

func TestRecommendFallsBackWhenConstraintsUnsatisfiable(t *testing.T) {
	fleet := []models.Vehicle{
		vehicle("A", models.VehicleEconomy, 4, 200, 50),
		vehicle("B", models.VehicleSUV, 6, 300, 80),
	}
	luxury := models.VehicleLuxury
	got := Recommend(fleet, models.VehicleConstraints{Type: &luxury}, 10, 5)
	unfiltered := Recommend(fleet, models.VehicleConstraints{}, 10, 5)
	if len(got) != len(unfiltered) || len(got) != 2 {
		t.Fatalf("fallback returned %d quotes; want 2", len(got))
	}
	for i := range got {
		if got[i].ID != unfiltered[i].ID || got[i].EstimatedPrice != unfiltered[i].EstimatedPrice {
			t.Errorf("fallback[%d] = %s; want %s", i, got[i].ID, unfiltered[i].ID)
		}
	}
}

func TestRecommendSkipsUnavailable(t *testing.T) {
	off := vehicle("Z", models.VehicleEconomy, 4, 1, 1)
	off.Available = false
	fleet := []models.Vehicle{off, vehicle("A", models.VehicleEconomy, 4, 200, 50)}
	got := Recommend(fleet, models.VehicleConstraints{}, 1, 5)
	if len(got) != 1 || got[0].ID != "A" {
		t.Fatalf("Recommend = %+v; want only A", got)
	}
	if got[0].ETA != 5 {
		t.Errorf("ETA = %d; want 5", got[0].ETA)
	}
}

func TestFilterVehicles(t *testing.T) {
	fleet := []models.Vehicle{
		vehicle("A", models.VehicleEconomy, 4, 200, 50, "GPS"),
		vehicle("B", models.VehicleSUV, 7, 300, 80, "GPS", "Child Seat"),
		vehicle("C", models.VehicleSUV, 5, 300, 75),
	}
	six := 6
	suv := models.VehicleSUV
	got := FilterVehicles(fleet, models.VehicleConstraints{Type: &suv, MinCapacity: &six, Features: []string{"child seat"}})
	if len(got) != 1 || got[0].ID != "B" {
		t.Errorf("FilterVehicles = %+v; want only B", got)
	}

	bogus := models.VehicleType("Spaceship")
	if got := FilterVehicles(fleet, models.VehicleConstraints{Type: &bogus}); len(got) != 3 {
		t.Errorf("invalid constraint should not filter; got %d vehicles", len(got))
	}
}
