package fleet

import (
	"context"
	"fmt"

	"ride-booking/internal/models"
)

// ServiceInterface is what the handlers and the assistant need from the fleet.
type ServiceInterface interface {
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	ListAvailable(ctx context.Context) ([]models.Vehicle, error)
	FindVehicle(ctx context.Context, id string) (*models.Vehicle, error)
	SetAvailability(ctx context.Context, id string, available bool) error
	Recommend(ctx context.Context, distanceKm float64, c models.VehicleConstraints) ([]models.VehicleQuote, error)
}

type service struct {
	repo       RepositoryInterface
	etaMinutes int
}

// NewService builds the fleet service. etaMinutes is the dispatch delay attached to every quote.
func NewService(repo RepositoryInterface, etaMinutes int) ServiceInterface {
	return &service{repo: repo, etaMinutes: etaMinutes}
}

func (s *service) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return s.repo.ListVehicles(ctx)
}

func (s *service) ListAvailable(ctx context.Context) ([]models.Vehicle, error) {
	return s.repo.ListAvailable(ctx)
}

func (s *service) FindVehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) SetAvailability(ctx context.Context, id string, available bool) error {
	return s.repo.SetAvailability(ctx, id, available)
}

// Recommend returns the top quotes for a trip of distanceKm.
func (s *service) Recommend(ctx context.Context, distanceKm float64, c models.VehicleConstraints) ([]models.VehicleQuote, error) {
	vehicles, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.Recommend: %w", err)
	}
	return Recommend(vehicles, c, distanceKm, s.etaMinutes), nil
}
