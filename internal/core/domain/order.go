package domain

import (
	"errors"
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusReview     OrderStatus = "REVIEW"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
)

// validTransitions defines the allowed state machine transitions.
// COMPLETED is terminal; no edge skips a state or reverses one.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusReview:     {StatusProcessing},
	StatusProcessing: {StatusCompleted},
	StatusCompleted:  {},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrOrderNotFound = errors.New("order not found")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is one of the known lifecycle states.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusReview, StatusProcessing, StatusCompleted:
		return true
	}
	return false
}

// Order is the core aggregate. Orders are created in REVIEW by their owner
// and advanced only through the status state machine.
type Order struct {
	ID             string         `json:"id"`
	Description    string         `json:"description"`
	Specifications map[string]any `json:"specifications"`
	Quantity       int            `json:"quantity"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Status         OrderStatus    `json:"status"`
	UserID         string         `json:"user_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
