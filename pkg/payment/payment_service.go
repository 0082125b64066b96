package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

// ServiceInterface defines the contract for a payment processing service.
type ServiceInterface interface {
	// CreateIntent reserves amount (in major units) for a booking and returns the provider reference.
	CreateIntent(ctx context.Context, bookingID, userID string, amount float64) (string, error)
	CancelIntent(ctx context.Context, reference string) error
}

// StripeService creates Stripe PaymentIntents.
type StripeService struct {
	api      *client.API
	currency string
}

func NewStripeService(apiKey, currency string) *StripeService {
	return newStripeService(client.New(apiKey, nil), currency)
}

func newStripeService(api *client.API, currency string) *StripeService {
	return &StripeService{api: api, currency: currency}
}

// CreateIntent is idempotent per booking id.
func (s *StripeService) CreateIntent(ctx context.Context, bookingID, userID string, amount float64) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("invalid payment amount %.2f", amount)
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(s.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey("booking-" + bookingID)
	params.AddMetadata("booking_id", bookingID)
	params.AddMetadata("user_id", userID)

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create payment intent: %w", err)
	}
	return pi.ID, nil
}

func (s *StripeService) CancelIntent(ctx context.Context, reference string) error {
	if reference == "" {
		return nil
	}
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonRequestedByCustomer)),
	}
	params.Context = ctx
	if _, err := s.api.PaymentIntents.Cancel(reference, params); err != nil {
		return fmt.Errorf("stripe: cancel payment intent %s: %w", reference, err)
	}
	return nil
}

// NoopService is used when no Stripe key is configured; bookings carry no payment reference.
type NoopService struct{}

func (NoopService) CreateIntent(ctx context.Context, bookingID, userID string, amount float64) (string, error) {
	return "", nil
}

func (NoopService) CancelIntent(ctx context.Context, reference string) error { return nil }
