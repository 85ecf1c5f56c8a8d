package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-client/internal/domain"
	"github.com/spec-kit/ticket-client/internal/gateway"
	"github.com/spec-kit/ticket-client/internal/observability"
	"github.com/spec-kit/ticket-client/internal/status"
	"github.com/spec-kit/ticket-client/internal/store"
	"github.com/spec-kit/ticket-client/pkg/apperrors"
)

// Coordinator orchestrates one logical user action end to end: mark the
// ticket busy, call the gateway, reconcile the store from the server's
// canonical state on success, report a typed failure otherwise, and
// always clear the busy marker.
type Coordinator struct {
	gw          gateway.Gateway
	store       *store.Store
	tracker     *status.Tracker
	metrics     *observability.Metrics
	logger      *zap.Logger
	callTimeout time.Duration
}

// Dependencies bundles collaborators for the coordinator.
type Dependencies struct {
	Gateway     gateway.Gateway
	Store       *store.Store
	Tracker     *status.Tracker
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	CallTimeout time.Duration
}

// NewCoordinator constructs the coordinator.
func NewCoordinator(deps Dependencies) *Coordinator {
	timeout := deps.CallTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Coordinator{
		gw:          deps.Gateway,
		store:       deps.Store,
		tracker:     deps.Tracker,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		callTimeout: timeout,
	}
}

// AddTicket creates a ticket from the given description. Empty or
// whitespace-only input is rejected locally without a network call. On
// success the server's version of the ticket, carrying its generated
// id, is upserted into the store.
func (c *Coordinator) AddTicket(ctx context.Context, description string) (*domain.Ticket, error) {
	if strings.TrimSpace(description) == "" {
		c.metrics.RecordAction("add", "rejected")
		return nil, apperrors.NewValidationError("ticket description must not be empty", nil)
	}

	actionID := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	created, err := c.gw.CreateTicket(ctx, description)
	if err != nil {
		c.metrics.RecordAction("add", "failure")
		c.logger.Warn("create ticket failed",
			zap.String("action_id", actionID), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeout(0, err)
		}
		return nil, apperrors.NewSubmissionError(err)
	}

	c.store.Upsert(ctx, *created)
	c.metrics.RecordAction("add", "success")
	c.logger.Info("ticket created",
		zap.String("action_id", actionID), zap.Int("ticket_id", created.ID))
	return created, nil
}

// AssignTicket sets or clears the assignee of a ticket. A userID equal
// to domain.UnassignedID selects the unassign call; any other value
// selects assign-to-user. On success the full ticket list is reloaded
// and the store replaced so the displayed assignee matches server state
// exactly.
func (c *Coordinator) AssignTicket(ctx context.Context, ticketID, userID int) error {
	release, err := c.tracker.Begin(ticketID, domain.ActionAssign)
	if err != nil {
		c.metrics.RecordAction("assign", "rejected")
		return err
	}
	defer release()

	actionID := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	if userID == domain.UnassignedID {
		err = c.gw.Unassign(ctx, ticketID)
	} else {
		err = c.gw.Assign(ctx, ticketID, userID)
	}
	if err != nil {
		c.metrics.RecordAction("assign", "failure")
		c.logger.Warn("assign failed",
			zap.String("action_id", actionID),
			zap.Int("ticket_id", ticketID),
			zap.Int("user_id", userID),
			zap.Error(err))
		return c.mutationError(ticketID, err, apperrors.NewAssignError)
	}

	if err := c.reconcile(ctx); err != nil {
		c.metrics.RecordAction("assign", "failure")
		return c.mutationError(ticketID, err, apperrors.NewAssignError)
	}
	c.metrics.RecordAction("assign", "success")
	c.logger.Info("assignee updated",
		zap.String("action_id", actionID),
		zap.Int("ticket_id", ticketID),
		zap.Int("user_id", userID))
	return nil
}

// ToggleComplete flips the completion state of a ticket. An unknown id
// is a no-op, guarding against gestures on stale or removed tickets.
// The direction of the call follows the store's current view: a
// completed ticket gets the mark-incomplete call and vice versa. On
// success the full ticket list is reloaded and the store replaced.
func (c *Coordinator) ToggleComplete(ctx context.Context, ticketID int) error {
	ticket, ok := c.store.Get(ticketID)
	if !ok {
		c.logger.Debug("toggle on unknown ticket ignored", zap.Int("ticket_id", ticketID))
		return nil
	}

	release, err := c.tracker.Begin(ticketID, domain.ActionComplete)
	if err != nil {
		c.metrics.RecordAction("complete", "rejected")
		return err
	}
	defer release()

	actionID := uuid.NewString()
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	if ticket.Completed {
		err = c.gw.Uncomplete(ctx, ticketID)
	} else {
		err = c.gw.Complete(ctx, ticketID)
	}
	if err != nil {
		c.metrics.RecordAction("complete", "failure")
		c.logger.Warn("toggle complete failed",
			zap.String("action_id", actionID),
			zap.Int("ticket_id", ticketID),
			zap.Bool("was_completed", ticket.Completed),
			zap.Error(err))
		return c.mutationError(ticketID, err, apperrors.NewCompletionError)
	}

	if err := c.reconcile(ctx); err != nil {
		c.metrics.RecordAction("complete", "failure")
		return c.mutationError(ticketID, err, apperrors.NewCompletionError)
	}
	c.metrics.RecordAction("complete", "success")
	c.logger.Info("completion toggled",
		zap.String("action_id", actionID),
		zap.Int("ticket_id", ticketID),
		zap.Bool("completed", !ticket.Completed))
	return nil
}

// FetchTicket retrieves a single ticket from the gateway for the detail
// view. A 404 surfaces as the distinct not-found condition.
func (c *Coordinator) FetchTicket(ctx context.Context, ticketID int) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	ticket, err := c.gw.GetTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeout(ticketID, err)
		}
		return nil, err
	}
	return ticket, nil
}

// Reload re-runs the full load cycle, replacing both collections.
func (c *Coordinator) Reload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	return c.store.LoadAll(ctx)
}

// reconcile reloads the canonical ticket list after a confirmed
// mutation, preferring server truth over a speculative local patch.
func (c *Coordinator) reconcile(ctx context.Context) error {
	tickets, err := c.gw.ListTickets(ctx)
	if err != nil {
		return fmt.Errorf("reload after mutation: %w", err)
	}
	c.store.ReplaceTickets(ctx, tickets)
	return nil
}

// mutationError maps a gateway failure to its action-specific kind,
// with deadline expiry reported as a timeout.
func (c *Coordinator) mutationError(ticketID int, err error, wrap func(int, error) error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeout(ticketID, err)
	}
	return wrap(ticketID, err)
}
