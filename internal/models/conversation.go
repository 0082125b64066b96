package models

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConversationTurn is one entry of a session's append-only chat log.
type ConversationTurn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingContext is the per-session state the caller passes into each turn.
// Every field is optional; a zero BookingContext means nothing is known yet.
type BookingContext struct {
	Pickup      *Location           `json:"pickup,omitempty"`
	Dropoff     *Location           `json:"dropoff,omitempty"`
	Route       *Route              `json:"route,omitempty"`
	Constraints *VehicleConstraints `json:"constraints,omitempty"`
}

// HandleResult is the outcome of one assistant turn. Only facts produced
// during that turn are set.
type HandleResult struct {
	Reply         string              `json:"message"`
	Pickup        *Location           `json:"pickup,omitempty"`
	Dropoff       *Location           `json:"dropoff,omitempty"`
	Route         *Route              `json:"route,omitempty"`
	Vehicles      []VehicleQuote      `json:"vehicles,omitempty"`
	Constraints   *VehicleConstraints `json:"constraints,omitempty"`
	NeedsMoreInfo bool                `json:"needsMoreInfo"`
}

// Apply merges the facts of r into c and returns the updated context.
// A new endpoint drops a route that no longer matches it.
func (c BookingContext) Apply(r HandleResult) BookingContext {
	out := c
	if r.Pickup != nil {
		out.Pickup = r.Pickup
		out.Route = nil
	}
	if r.Dropoff != nil {
		out.Dropoff = r.Dropoff
		out.Route = nil
	}
	if r.Route != nil {
		out.Route = r.Route
	}
	if r.Constraints != nil {
		merged := r.Constraints.Merge(VehicleConstraints{})
		if c.Constraints != nil {
			merged = c.Constraints.Merge(*r.Constraints)
		}
		out.Constraints = &merged
	}
	return out
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message   string          `json:"message" validate:"required"`
	SessionID string          `json:"sessionId,omitempty"`
	Context   *BookingContext `json:"context,omitempty"`
}

// ChatResponse is HandleResult plus the session it was recorded under.
type ChatResponse struct {
	HandleResult
	SessionID string `json:"sessionId"`
}
