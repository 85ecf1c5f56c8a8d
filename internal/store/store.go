package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/ticket-client/internal/domain"
	"github.com/spec-kit/ticket-client/internal/events"
	"github.com/spec-kit/ticket-client/internal/gateway"
	"github.com/spec-kit/ticket-client/pkg/apperrors"
)

// Store holds the authoritative client-side snapshot of tickets and
// users. Tickets keep arrival order with at most one entry per id.
// Every committed update is a single atomic transition announced to
// subscribers via the dispatcher.
type Store struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
	index   map[int]int
	users   []domain.User

	gw         gateway.Gateway
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewStore constructs an empty store.
func NewStore(gw gateway.Gateway, dispatcher events.Dispatcher, logger *zap.Logger) *Store {
	return &Store{
		index:      make(map[int]int),
		gw:         gw,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// LoadAll fetches the full ticket and user lists in parallel and
// replaces the store's contents atomically once both succeed. If either
// fetch fails the store retains its previous contents and a load error
// is returned.
func (s *Store) LoadAll(ctx context.Context) error {
	var (
		tickets []domain.Ticket
		users   []domain.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tickets, err = s.gw.ListTickets(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.gw.ListUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("initial load failed", zap.Error(err))
		return apperrors.NewLoadError(err)
	}

	s.mu.Lock()
	s.setTicketsLocked(tickets)
	s.users = append([]domain.User(nil), users...)
	s.mu.Unlock()

	s.publish(ctx, events.EventSnapshotLoaded, events.SnapshotLoadedPayload{
		TicketCount: len(tickets),
		UserCount:   len(users),
	})
	return nil
}

// ReplaceTickets resynchronizes the ticket list from the server's
// canonical state after a mutation.
func (s *Store) ReplaceTickets(ctx context.Context, tickets []domain.Ticket) {
	s.mu.Lock()
	s.setTicketsLocked(tickets)
	s.mu.Unlock()

	s.publish(ctx, events.EventTicketsReplaced, events.TicketsReplacedPayload{
		TicketCount: len(tickets),
	})
}

// Upsert inserts a new ticket at the end of the sequence, or replaces
// the existing entry in place when the id is already present.
func (s *Store) Upsert(ctx context.Context, ticket domain.Ticket) {
	s.mu.Lock()
	if pos, ok := s.index[ticket.ID]; ok {
		s.tickets[pos] = ticket
	} else {
		s.index[ticket.ID] = len(s.tickets)
		s.tickets = append(s.tickets, ticket)
	}
	s.mu.Unlock()

	s.publish(ctx, events.EventTicketUpserted, events.TicketUpsertedPayload{Ticket: ticket})
}

// Seed replaces the store's contents from a cached snapshot, used for
// warm start when the gateway is unreachable.
func (s *Store) Seed(ctx context.Context, tickets []domain.Ticket, users []domain.User) {
	s.mu.Lock()
	s.setTicketsLocked(tickets)
	s.users = append([]domain.User(nil), users...)
	s.mu.Unlock()

	s.publish(ctx, events.EventSnapshotLoaded, events.SnapshotLoadedPayload{
		TicketCount: len(tickets),
		UserCount:   len(users),
	})
}

// Get returns the ticket with the given id, if present.
func (s *Store) Get(ticketID int) (domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.index[ticketID]
	if !ok {
		return domain.Ticket{}, false
	}
	return s.tickets[pos], true
}

// Tickets returns a copy of the ordered ticket sequence.
func (s *Store) Tickets() []domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Ticket(nil), s.tickets...)
}

// Users returns a copy of the user list.
func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User(nil), s.users...)
}

// Snapshot returns copies of both collections from the same committed
// state.
func (s *Store) Snapshot() ([]domain.Ticket, []domain.User) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Ticket(nil), s.tickets...), append([]domain.User(nil), s.users...)
}

// setTicketsLocked replaces the sequence, deduplicating by id so a
// misbehaving server response cannot violate the one-entry-per-id
// invariant. First occurrence wins, order preserved.
func (s *Store) setTicketsLocked(tickets []domain.Ticket) {
	s.tickets = make([]domain.Ticket, 0, len(tickets))
	s.index = make(map[int]int, len(tickets))
	for _, t := range tickets {
		if _, seen := s.index[t.ID]; seen {
			s.logger.Warn("duplicate ticket id in server response", zap.Int("ticket_id", t.ID))
			continue
		}
		s.index[t.ID] = len(s.tickets)
		s.tickets = append(s.tickets, t)
	}
}

func (s *Store) publish(ctx context.Context, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
