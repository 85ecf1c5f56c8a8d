package dto

import (
	"github.com/spec-kit/ticket-client/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Description string `json:"description"`
}

// StateResponse is the full view state the presentation layer renders:
// tickets (optionally filtered), users, and the busy map.
type StateResponse struct {
	Tickets []domain.Ticket           `json:"tickets"`
	Users   []domain.User             `json:"users"`
	Busy    map[int]domain.ActionKind `json:"busy"`
	Filter  domain.FilterState        `json:"filter"`
}

// TicketDetailResponse provides a single ticket with its busy state.
type TicketDetailResponse struct {
	Ticket domain.Ticket     `json:"ticket"`
	Busy   bool              `json:"busy"`
	Kind   domain.ActionKind `json:"kind,omitempty"`
}
