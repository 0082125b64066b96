package models

import (
	"errors"
	"strings"
	"time"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

var ErrInvalidBookingStatus = errors.New("invalid booking status")

// ParseBookingStatus normalizes (lowercases+trims) and validates a status string.
func ParseBookingStatus(in string) (BookingStatus, error) {
	s := BookingStatus(strings.ToLower(strings.TrimSpace(in)))
	if s.Valid() {
		return s, nil
	}
	return "", ErrInvalidBookingStatus
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	default:
		return false
	}
}

func (s BookingStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether s may move to next.
// Completion is driven from outside this service.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	default:
		return false
	}
}

// Terminal reports whether no further transition is possible.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Booking is a confirmed ride. Vehicle is a snapshot taken at confirmation time.
type Booking struct {
	ID               string        `json:"id"`
	UserID           string        `json:"userId"`
	Pickup           Location      `json:"pickup"`
	Dropoff          Location      `json:"dropoff"`
	Vehicle          Vehicle       `json:"vehicle"`
	Status           BookingStatus `json:"status"`
	ScheduledTime    time.Time     `json:"scheduledTime"`
	EstimatedCost    float64       `json:"estimatedCost"`
	Distance         float64       `json:"distance"`
	Duration         float64       `json:"duration"`
	PassengerCount   int           `json:"passengerCount"`
	DriverName       *string       `json:"driverName,omitempty"`
	DriverPhone      *string       `json:"driverPhone,omitempty"`
	PaymentReference *string       `json:"paymentReference,omitempty"`
	CalendarEventID  *string       `json:"calendarEventId,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// CreateBookingRequest is the body of POST /api/bookings.
type CreateBookingRequest struct {
	Pickup         Location   `json:"pickup" validate:"required"`
	Dropoff        Location   `json:"dropoff" validate:"required"`
	VehicleID      string     `json:"vehicleId" validate:"required"`
	ScheduledTime  *time.Time `json:"scheduledTime,omitempty"`
	PassengerCount int        `json:"passengerCount,omitempty" validate:"omitempty,min=1,max=20"`
}

// BookingStats summarizes a user's booking history.
type BookingStats struct {
	TotalBookings     int     `json:"totalBookings"`
	CompletedBookings int     `json:"completedBookings"`
	TotalSpent        float64 `json:"totalSpent"`
}

// Driver is an entry of the dispatch roster.
type Driver struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
