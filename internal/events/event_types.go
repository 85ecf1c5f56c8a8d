package events

import (
	"time"

	"github.com/spec-kit/ticket-client/internal/domain"
)

// EventType identifies store change notifications.
type EventType string

const (
	EventSnapshotLoaded  EventType = "snapshot.loaded"
	EventTicketsReplaced EventType = "tickets.replaced"
	EventTicketUpserted  EventType = "ticket.upserted"
)

// Event is a store change notification delivered to subscribers.
type Event struct {
	ID        string
	Type      EventType
	Timestamp time.Time
	Payload   any
}

// SnapshotLoadedPayload accompanies a full load of tickets and users.
type SnapshotLoadedPayload struct {
	TicketCount int
	UserCount   int
}

// TicketsReplacedPayload accompanies a canonical-list resynchronization.
type TicketsReplacedPayload struct {
	TicketCount int
}

// TicketUpsertedPayload accompanies a single-ticket insert or replace.
type TicketUpsertedPayload struct {
	Ticket domain.Ticket
}
