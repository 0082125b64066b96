package location

import (
	"context"
	"fmt"
	"time"

	"ride-booking/internal/models"
)

// ServiceInterface exposes geocoding and routing with a per-call deadline.
type ServiceInterface interface {
	Geocode(ctx context.Context, text string) (models.Location, error)
	Route(ctx context.Context, pickup, dropoff models.Location) (models.Route, error)
}

type service struct {
	geocoder Geocoder
	router   Router
	timeout  time.Duration
}

func NewService(geocoder Geocoder, router Router, timeout time.Duration) ServiceInterface {
	return &service{geocoder: geocoder, router: router, timeout: timeout}
}

func (s *service) Geocode(ctx context.Context, text string) (models.Location, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	loc, err := s.geocoder.Geocode(ctx, text)
	if err != nil {
		return models.Location{}, fmt.Errorf("service.Geocode: %w", err)
	}
	return loc, nil
}

func (s *service) Route(ctx context.Context, pickup, dropoff models.Location) (models.Route, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	route, err := s.router.Route(ctx, pickup, dropoff)
	if err != nil {
		return models.Route{}, fmt.Errorf("service.Route: %w", err)
	}
	return route, nil
}
