package fleet

import (
	"context"
	"errors"
	"fmt"

	"ride-booking/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the fleet table operations.
type RepositoryInterface interface {
	// ListVehicles returns the whole fleet ordered by id.
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	// ListAvailable returns the vehicles currently open for dispatch.
	ListAvailable(ctx context.Context) ([]models.Vehicle, error)
	FindByID(ctx context.Context, id string) (*models.Vehicle, error)
	// SetAvailability flips the availability flag of one vehicle. A vehicle held by a
	// pending or confirmed booking cannot be made available (models.ErrConflict).
	SetAvailability(ctx context.Context, id string, available bool) error
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const vehicleColumns = `id, type, name, capacity, features, price_per_km, base_price, available`

func (r *Repository) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY id`
	return r.queryVehicles(ctx, "ListVehicles", query)
}

func (r *Repository) ListAvailable(ctx context.Context) ([]models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE available ORDER BY id`
	return r.queryVehicles(ctx, "ListAvailable", query)
}

// FindByID returns models.ErrNotFound when no vehicle has the id.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("FindByID failed: %w", err)
	}
	return v, nil
}

func (r *Repository) SetAvailability(ctx context.Context, id string, available bool) error {
	const query = `
		UPDATE vehicles
		SET available = $2,
		    updated_at = now()
		WHERE id = $1
		  AND NOT ($2 AND EXISTS (
		      SELECT 1 FROM bookings
		      WHERE vehicle_id = $1 AND status IN ('pending', 'confirmed')))`
	cmd, err := r.db.Exec(ctx, query, id, available)
	if err != nil {
		return fmt.Errorf("SetAvailability failed: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return models.ErrConflict
}

func (r *Repository) queryVehicles(ctx context.Context, op, query string, args ...any) ([]models.Vehicle, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s Scan failed: %w", op, err)
		}
		vehicles = append(vehicles, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows failed: %w", op, err)
	}
	return vehicles, nil
}

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	v := &models.Vehicle{}
	var vehicleType string
	if err := row.Scan(
		&v.ID, &vehicleType, &v.Name, &v.Capacity, &v.Features,
		&v.PricePerKm, &v.BasePrice, &v.Available,
	); err != nil {
		return nil, err
	}
	v.Type = models.VehicleType(vehicleType)
	return v, nil
}
