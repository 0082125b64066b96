package models

import "errors"

var ErrNotFound = errors.New("requested resource not found")
var ErrForbidden = errors.New("user does not have permission to access this resource")
var ErrConflict = errors.New("resource conflict, item already exists")
var ErrInvalidToken = errors.New("token not found or expired")

// RoleAdmin is the token role allowed to manage the fleet.
const RoleAdmin = "admin"

// ErrVehicleUnavailable indicates the chosen vehicle is off the available fleet
// or cannot carry the requested party.
var ErrVehicleUnavailable = errors.New("vehicle is not available for this trip")
var ErrBookingNotCancellable = errors.New("booking can no longer be cancelled")

// Collaborator failures. The assistant absorbs these; HTTP handlers map them to 4xx/5xx.
var ErrGeocodeNoMatch = errors.New("no location matched the given text")
var ErrRouteUnavailable = errors.New("no route available between the given locations")

// ErrorResponse is the error half of the response envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"error"`
}

// Envelope wraps every successful API payload.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// Fail builds the error envelope for msg.
func Fail(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Message: msg}
}

// OK builds the success envelope around data.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}
