package booking

import (
	"context"
	"errors"
	"fmt"

	"ride-booking/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the booking store.
type RepositoryInterface interface {
	// Create inserts b and takes its vehicle off the available fleet atomically.
	Create(ctx context.Context, b *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	ListByUserID(ctx context.Context, userID string, status *models.BookingStatus, limit int) ([]models.Booking, error)
	// Cancel marks a cancellable booking cancelled and frees its vehicle.
	Cancel(ctx context.Context, id string) (*models.Booking, error)
	SetIntegrationRefs(ctx context.Context, id string, paymentRef, calendarEventID *string) error
	StatsByUserID(ctx context.Context, userID string) (*models.BookingStats, error)
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const bookingColumns = `
	id, user_id,
	pickup_text, pickup_lat, pickup_lon,
	dropoff_text, dropoff_lat, dropoff_lon,
	vehicle_snapshot, status, scheduled_time, estimated_cost,
	distance_km, duration_minutes, passenger_count,
	driver_name, driver_phone, payment_reference, calendar_event_id,
	created_at, updated_at`

func (r *Repository) Create(ctx context.Context, b *models.Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Claim the vehicle first so two bookings cannot take the same one.
	cmd, err := tx.Exec(ctx, `UPDATE vehicles SET available = FALSE, updated_at = now() WHERE id = $1 AND available`, b.Vehicle.ID)
	if err != nil {
		return fmt.Errorf("repository.Create: claim vehicle: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrVehicleUnavailable
	}

	query := `
		INSERT INTO bookings (
			id, user_id,
			pickup_text, pickup_lat, pickup_lon,
			dropoff_text, dropoff_lat, dropoff_lon,
			vehicle_id, vehicle_snapshot, status, scheduled_time, estimated_cost,
			distance_km, duration_minutes, passenger_count,
			driver_name, driver_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at`
	err = tx.QueryRow(ctx, query,
		b.ID, b.UserID,
		b.Pickup.Text, b.Pickup.Lat, b.Pickup.Lon,
		b.Dropoff.Text, b.Dropoff.Lat, b.Dropoff.Lon,
		b.Vehicle.ID, b.Vehicle, string(b.Status), b.ScheduledTime, b.EstimatedCost,
		b.Distance, b.Duration, b.PassengerCount,
		b.DriverName, b.DriverPhone,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("repository.Create: insert: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository.Create: commit: %w", err)
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return b, nil
}

func (r *Repository) ListByUserID(ctx context.Context, userID string, status *models.BookingStatus, limit int) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3`
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}
	rows, err := r.db.Query(ctx, query, userID, statusArg, limit)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByUserID.Query: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListByUserID.scanBooking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListByUserID.rows: %w", err)
	}
	return bookings, nil
}

func (r *Repository) Cancel(ctx context.Context, id string) (*models.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository.Cancel: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'confirmed')
		RETURNING ` + bookingColumns
	b, err := scanBooking(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Status changed after the service read it.
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("repository.Cancel: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE vehicles SET available = TRUE, updated_at = now() WHERE id = $1`, b.Vehicle.ID); err != nil {
		return nil, fmt.Errorf("repository.Cancel: release vehicle: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.Cancel: commit: %w", err)
	}
	return b, nil
}

func (r *Repository) SetIntegrationRefs(ctx context.Context, id string, paymentRef, calendarEventID *string) error {
	const query = `
		UPDATE bookings
		SET payment_reference = COALESCE($2, payment_reference),
		    calendar_event_id = COALESCE($3, calendar_event_id),
		    updated_at = now()
		WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id, paymentRef, calendarEventID)
	if err != nil {
		return fmt.Errorf("repository.SetIntegrationRefs: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) StatsByUserID(ctx context.Context, userID string) (*models.BookingStats, error) {
	const query = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COALESCE(SUM(estimated_cost) FILTER (WHERE status = 'completed'), 0)::float8
		FROM bookings
		WHERE user_id = $1`
	var s models.BookingStats
	if err := r.db.QueryRow(ctx, query, userID).Scan(&s.TotalBookings, &s.CompletedBookings, &s.TotalSpent); err != nil {
		return nil, fmt.Errorf("repository.StatsByUserID: %w", err)
	}
	return &s, nil
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	var status string
	err := row.Scan(
		&b.ID, &b.UserID,
		&b.Pickup.Text, &b.Pickup.Lat, &b.Pickup.Lon,
		&b.Dropoff.Text, &b.Dropoff.Lat, &b.Dropoff.Lon,
		&b.Vehicle, &status, &b.ScheduledTime, &b.EstimatedCost,
		&b.Distance, &b.Duration, &b.PassengerCount,
		&b.DriverName, &b.DriverPhone, &b.PaymentReference, &b.CalendarEventID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	b.Status = models.BookingStatus(status)
	return &b, nil
}
