package fleet

import (
	"ride-booking/internal/models"
)

// AvailableOnly drops vehicles whose availability flag is off.
func AvailableOnly(vehicles []models.Vehicle) []models.Vehicle {
	out := make([]models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.Available {
			out = append(out, v)
		}
	}
	return out
}

// Matches reports whether v satisfies every constraint in c.
func Matches(v models.Vehicle, c models.VehicleConstraints) bool {
	if c.Type != nil && v.Type != *c.Type {
		return false
	}
	if c.MinCapacity != nil && v.Capacity < *c.MinCapacity {
		return false
	}
	for _, f := range c.Features {
		if !v.HasFeature(f) {
			return false
		}
	}
	return true
}

// FilterVehicles keeps the vehicles matching c. When nothing matches, the input
// is returned unchanged: an ignored preference beats an empty offer.
func FilterVehicles(vehicles []models.Vehicle, c models.VehicleConstraints) []models.Vehicle {
	if c.Empty() || !validConstraints(c) {
		return vehicles
	}
	out := make([]models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if Matches(v, c) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return vehicles
	}
	return out
}

func validConstraints(c models.VehicleConstraints) bool {
	if c.Type != nil && !c.Type.Valid() {
		return false
	}
	if c.MinCapacity != nil && *c.MinCapacity <= 0 {
		return false
	}
	return true
}
