package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-client/internal/domain"
	"github.com/spec-kit/ticket-client/internal/status"
	"github.com/spec-kit/ticket-client/internal/store"
)

type countingGateway struct {
	listCalls atomic.Int64
}

func (g *countingGateway) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	g.listCalls.Add(1)
	return nil, nil
}

func (g *countingGateway) ListUsers(ctx context.Context) ([]domain.User, error) { return nil, nil }

func (g *countingGateway) GetTicket(ctx context.Context, ticketID int) (*domain.Ticket, error) {
	return nil, nil
}

func (g *countingGateway) CreateTicket(ctx context.Context, description string) (*domain.Ticket, error) {
	return nil, nil
}

func (g *countingGateway) Assign(ctx context.Context, ticketID, userID int) error { return nil }

func (g *countingGateway) Unassign(ctx context.Context, ticketID int) error { return nil }

func (g *countingGateway) Complete(ctx context.Context, ticketID int) error { return nil }

func (g *countingGateway) Uncomplete(ctx context.Context, ticketID int) error { return nil }

func TestWorkerRefreshesOnInterval(t *testing.T) {
	gw := &countingGateway{}
	s := store.NewStore(gw, nil, zap.NewNop())
	tracker := status.NewTracker()
	w := NewRefreshWorker(s, tracker, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.Eventually(t, func() bool {
		return gw.listCalls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestWorkerSkipsWhileMutationInFlight(t *testing.T) {
	gw := &countingGateway{}
	s := store.NewStore(gw, nil, zap.NewNop())
	tracker := status.NewTracker()

	release, err := tracker.Begin(1, domain.ActionAssign)
	require.NoError(t, err)
	defer release()

	w := NewRefreshWorker(s, tracker, 10*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	w.Run(ctx)

	assert.Equal(t, int64(0), gw.listCalls.Load())
}
