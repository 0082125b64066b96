package models

import (
	"errors"
	"strings"
)

// VehicleType is the fleet category of a vehicle.
type VehicleType string

const (
	VehicleEconomy VehicleType = "Economy"
	VehicleSUV     VehicleType = "SUV"
	VehicleLuxury  VehicleType = "Luxury"
)

var ErrInvalidVehicleType = errors.New("invalid vehicle type")

// ParseVehicleType matches in case-insensitively against the known types.
func ParseVehicleType(in string) (VehicleType, error) {
	switch strings.ToLower(strings.TrimSpace(in)) {
	case "economy":
		return VehicleEconomy, nil
	case "suv":
		return VehicleSUV, nil
	case "luxury":
		return VehicleLuxury, nil
	}
	return "", ErrInvalidVehicleType
}

// Valid reports whether t is one of the known vehicle types.
func (t VehicleType) Valid() bool {
	switch t {
	case VehicleEconomy, VehicleSUV, VehicleLuxury:
		return true
	default:
		return false
	}
}

func (t VehicleType) String() string {
	return string(t)
}

// Vehicle is a fleet entry. Rates are in the configured currency.
type Vehicle struct {
	ID         string      `json:"id"`
	Type       VehicleType `json:"type"`
	Name       string      `json:"name"`
	Capacity   int         `json:"capacity"`
	Features   []string    `json:"features"`
	PricePerKm float64     `json:"pricePerKm"`
	BasePrice  float64     `json:"basePrice"`
	Available  bool        `json:"available"`
}

// HasFeature reports whether v lists feature, ignoring case.
func (v Vehicle) HasFeature(feature string) bool {
	for _, f := range v.Features {
		if strings.EqualFold(f, feature) {
			return true
		}
	}
	return false
}

// VehicleQuote is a vehicle priced for one trip. It is never persisted.
type VehicleQuote struct {
	Vehicle
	EstimatedPrice float64 `json:"estimatedPrice"`
	ETA            int     `json:"eta"`
}

// VehicleConstraints narrows the candidate fleet. Nil or empty fields do not filter.
type VehicleConstraints struct {
	Type        *VehicleType `json:"type,omitempty"`
	MinCapacity *int         `json:"minCapacity,omitempty" validate:"omitempty,gt=0"`
	Features    []string     `json:"features,omitempty"`
}

// Empty reports whether c would keep every vehicle.
func (c VehicleConstraints) Empty() bool {
	return c.Type == nil && c.MinCapacity == nil && len(c.Features) == 0
}

// Merge overlays o on c: scalar fields in o win and features are unioned.
func (c VehicleConstraints) Merge(o VehicleConstraints) VehicleConstraints {
	out := c
	if o.Type != nil {
		t := *o.Type
		out.Type = &t
	}
	if o.MinCapacity != nil {
		n := *o.MinCapacity
		out.MinCapacity = &n
	}
	out.Features = append([]string(nil), c.Features...)
	for _, f := range o.Features {
		dup := false
		for _, have := range out.Features {
			if strings.EqualFold(have, f) {
				dup = true
				break
			}
		}
		if !dup {
			out.Features = append(out.Features, f)
		}
	}
	return out
}

// RecommendRequest is the body of POST /api/vehicles/recommend.
type RecommendRequest struct {
	Distance    float64             `json:"distance" validate:"gte=0"`
	Constraints *VehicleConstraints `json:"constraints,omitempty"`
}
