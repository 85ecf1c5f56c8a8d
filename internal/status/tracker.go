package status

import (
	"sync"

	"github.com/spec-kit/ticket-client/internal/domain"
	"github.com/spec-kit/ticket-client/pkg/apperrors"
)

// Tracker records which tickets currently have a mutation in flight.
// Per ticket the state machine is Idle → Busy(kind) → Idle; a ticket
// can hold at most one in-flight action, and a second Begin on a busy
// ticket is rejected without touching the network.
type Tracker struct {
	mu       sync.RWMutex
	inFlight map[int]domain.ActionKind
}

// NewTracker constructs an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{inFlight: make(map[int]domain.ActionKind)}
}

// Begin transitions the ticket to Busy(kind) and returns a release
// function. Callers must defer the release so that no failure path can
// leave the ticket stuck busy. Begin fails with a busy conflict when
// the ticket already has an action in flight.
func (t *Tracker) Begin(ticketID int, kind domain.ActionKind) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if current, busy := t.inFlight[ticketID]; busy {
		return nil, apperrors.NewTicketBusy(ticketID, string(current))
	}
	t.inFlight[ticketID] = kind

	var once sync.Once
	release := func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.inFlight, ticketID)
			t.mu.Unlock()
		})
	}
	return release, nil
}

// Kind returns the in-flight action for the ticket, if any. Reads are
// non-blocking and reflect the latest transition.
func (t *Tracker) Kind(ticketID int) (domain.ActionKind, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	kind, busy := t.inFlight[ticketID]
	return kind, busy
}

// IsBusy reports whether the ticket has an action in flight.
func (t *Tracker) IsBusy(ticketID int) bool {
	_, busy := t.Kind(ticketID)
	return busy
}

// AnyBusy reports whether any ticket has an action in flight.
func (t *Tracker) AnyBusy() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.inFlight) > 0
}

// All returns a copy of the busy map for view rendering.
func (t *Tracker) All() map[int]domain.ActionKind {
	t.mu.RLock()
	defer t.mu.RUnlock()
	all := make(map[int]domain.ActionKind, len(t.inFlight))
	for id, kind := range t.inFlight {
		all[id] = kind
	}
	return all
}
