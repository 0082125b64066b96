package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ride-booking/internal/logger"
	"ride-booking/internal/models"
	"ride-booking/internal/modules/fleet"
	"ride-booking/pkg/calendar"
	"ride-booking/pkg/events"
	"ride-booking/pkg/notify"
	"ride-booking/pkg/payment"

	"github.com/google/uuid"
)

// Routing keys of the booking events.
const (
	EventConfirmed = "booking.confirmed"
	EventCancelled = "booking.cancelled"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ServiceInterface defines the contract for the booking service.
type ServiceInterface interface {
	Create(ctx context.Context, userID, email string, req models.CreateBookingRequest) (*models.Booking, error)
	Get(ctx context.Context, userID, bookingID string) (*models.Booking, error)
	ListForUser(ctx context.Context, userID, status string, limit int) ([]models.Booking, error)
	Cancel(ctx context.Context, userID, email, bookingID string) (*models.Booking, error)
	Stats(ctx context.Context, userID string) (*models.BookingStats, error)
}

// VehicleFinder loads one fleet vehicle.
type VehicleFinder interface {
	FindVehicle(ctx context.Context, id string) (*models.Vehicle, error)
}

// Router computes the trip used for pricing.
type Router interface {
	Route(ctx context.Context, pickup, dropoff models.Location) (models.Route, error)
}

// Deps are the collaborators of the booking service. Nil integrations are replaced by no-ops.
type Deps struct {
	Repo     RepositoryInterface
	Vehicles VehicleFinder
	Router   Router
	Drivers  *DriverPool
	Payments payment.ServiceInterface
	Calendar calendar.Scheduler
	Events   events.Publisher
	Mailer   notify.Mailer
	Logger   *slog.Logger
}

type service struct {
	Deps
	now func() time.Time
}

func NewService(d Deps) ServiceInterface {
	if d.Payments == nil {
		d.Payments = payment.NoopService{}
	}
	if d.Calendar == nil {
		d.Calendar = calendar.Noop{}
	}
	if d.Events == nil {
		d.Events = events.Noop{}
	}
	if d.Mailer == nil {
		d.Mailer = notify.Noop{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &service{Deps: d, now: time.Now}
}

// NewBookingID returns "BK-" followed by 8 upper-case hex characters.
func NewBookingID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BK-" + strings.ToUpper(id[:8])
}

// Create prices the trip with the same quote function the assistant uses, so the
// stored cost always equals the offered price.
func (s *service) Create(ctx context.Context, userID, email string, req models.CreateBookingRequest) (*models.Booking, error) {
	vehicle, err := s.Vehicles.FindVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("service.Create: %w", err)
	}
	passengers := req.PassengerCount
	if passengers == 0 {
		passengers = 1
	}
	if !vehicle.Available || passengers > vehicle.Capacity {
		return nil, models.ErrVehicleUnavailable
	}

	route, err := s.Router.Route(ctx, req.Pickup, req.Dropoff)
	if err != nil {
		return nil, fmt.Errorf("service.Create: %w", err)
	}

	now := s.now().UTC()
	scheduled := now
	if req.ScheduledTime != nil && !req.ScheduledTime.IsZero() {
		scheduled = req.ScheduledTime.UTC()
	}
	b := &models.Booking{
		ID:             NewBookingID(),
		UserID:         userID,
		Pickup:         req.Pickup,
		Dropoff:        req.Dropoff,
		Vehicle:        *vehicle,
		Status:         models.BookingConfirmed,
		ScheduledTime:  scheduled,
		EstimatedCost:  fleet.EstimatePrice(*vehicle, route.Distance),
		Distance:       route.Distance,
		Duration:       route.Duration,
		PassengerCount: passengers,
	}
	if d, ok := s.Drivers.Assign(); ok {
		b.DriverName, b.DriverPhone = &d.Name, &d.Phone
	}

	if err := s.Repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("service.Create: %w", err)
	}
	logger.Info(ctx, s.Logger, "booking.create", "booking confirmed",
		"booking_id", b.ID, "vehicle_id", vehicle.ID, "estimated_cost", b.EstimatedCost)

	s.afterConfirm(ctx, email, b)
	return b, nil
}

// afterConfirm runs the integrations. Their failures are logged, never returned:
// the booking is already committed.
func (s *service) afterConfirm(ctx context.Context, email string, b *models.Booking) {
	var paymentRef, eventID *string

	if ref, err := s.Payments.CreateIntent(ctx, b.ID, b.UserID, b.EstimatedCost); err != nil {
		logger.Error(ctx, s.Logger, "booking.payment", "payment intent failed", err, "booking_id", b.ID)
	} else if ref != "" {
		paymentRef = &ref
	}

	end := b.ScheduledTime.Add(time.Duration(b.Duration * float64(time.Minute)))
	if id, err := s.Calendar.CreateEvent(ctx, calendar.Event{
		Summary:     fmt.Sprintf("Ride to %s (%s)", b.Dropoff.Text, b.ID),
		Description: rideDescription(b),
		Location:    b.Pickup.Text,
		Start:       b.ScheduledTime,
		End:         end,
	}); err != nil {
		logger.Error(ctx, s.Logger, "booking.calendar", "calendar event failed", err, "booking_id", b.ID)
	} else if id != "" {
		eventID = &id
	}

	if paymentRef != nil || eventID != nil {
		if err := s.Repo.SetIntegrationRefs(ctx, b.ID, paymentRef, eventID); err != nil {
			logger.Error(ctx, s.Logger, "booking.refs", "storing integration refs failed", err, "booking_id", b.ID)
		} else {
			b.PaymentReference, b.CalendarEventID = paymentRef, eventID
		}
	}

	if err := s.Events.Publish(ctx, EventConfirmed, b); err != nil {
		logger.Error(ctx, s.Logger, "booking.publish", "publishing event failed", err, "booking_id", b.ID)
	}
	if err := s.Mailer.Send(ctx, email, "Your ride "+b.ID+" is confirmed", rideDescription(b)); err != nil {
		logger.Error(ctx, s.Logger, "booking.email", "confirmation email failed", err, "booking_id", b.ID)
	}
}

// Get returns models.ErrNotFound for bookings of other users.
func (s *service) Get(ctx context.Context, userID, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("service.Get: %w", err)
	}
	if b.UserID != userID {
		return nil, models.ErrNotFound
	}
	return b, nil
}

func (s *service) ListForUser(ctx context.Context, userID, status string, limit int) ([]models.Booking, error) {
	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	var filter *models.BookingStatus
	if strings.TrimSpace(status) != "" {
		st, err := models.ParseBookingStatus(status)
		if err != nil {
			return nil, err
		}
		filter = &st
	}
	bookings, err := s.Repo.ListByUserID(ctx, userID, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("service.ListForUser: %w", err)
	}
	return bookings, nil
}

// Cancel is idempotent: cancelling a cancelled booking returns it unchanged.
func (s *service) Cancel(ctx context.Context, userID, email, bookingID string) (*models.Booking, error) {
	b, err := s.Get(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == models.BookingCancelled {
		return b, nil
	}
	if !b.Status.CanTransitionTo(models.BookingCancelled) {
		return nil, models.ErrBookingNotCancellable
	}

	cancelled, err := s.Repo.Cancel(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("service.Cancel: %w", err)
	}
	logger.Info(ctx, s.Logger, "booking.cancel", "booking cancelled", "booking_id", bookingID)

	if cancelled.PaymentReference != nil {
		if err := s.Payments.CancelIntent(ctx, *cancelled.PaymentReference); err != nil {
			logger.Error(ctx, s.Logger, "booking.payment", "cancelling payment intent failed", err, "booking_id", bookingID)
		}
	}
	if cancelled.CalendarEventID != nil {
		if err := s.Calendar.DeleteEvent(ctx, *cancelled.CalendarEventID); err != nil {
			logger.Error(ctx, s.Logger, "booking.calendar", "deleting calendar event failed", err, "booking_id", bookingID)
		}
	}
	if err := s.Events.Publish(ctx, EventCancelled, cancelled); err != nil {
		logger.Error(ctx, s.Logger, "booking.publish", "publishing event failed", err, "booking_id", bookingID)
	}
	if err := s.Mailer.Send(ctx, email, "Your ride "+bookingID+" was cancelled", rideDescription(cancelled)); err != nil {
		logger.Error(ctx, s.Logger, "booking.email", "cancellation email failed", err, "booking_id", bookingID)
	}
	return cancelled, nil
}

func (s *service) Stats(ctx context.Context, userID string) (*models.BookingStats, error) {
	stats, err := s.Repo.StatsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.Stats: %w", err)
	}
	return stats, nil
}

func rideDescription(b *models.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Booking %s\n", b.ID)
	fmt.Fprintf(&sb, "From: %s\nTo: %s\n", b.Pickup.Text, b.Dropoff.Text)
	fmt.Fprintf(&sb, "Pickup time: %s\n", b.ScheduledTime.Format(time.RFC1123))
	fmt.Fprintf(&sb, "Vehicle: %s (%s)\n", b.Vehicle.Name, b.Vehicle.Type)
	fmt.Fprintf(&sb, "Distance: %.2f km, about %.0f min\n", b.Distance, b.Duration)
	fmt.Fprintf(&sb, "Estimated cost: %.2f\n", b.EstimatedCost)
	if b.DriverName != nil {
		fmt.Fprintf(&sb, "Driver: %s", *b.DriverName)
		if b.DriverPhone != nil {
			fmt.Fprintf(&sb, " (%s)", *b.DriverPhone)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
