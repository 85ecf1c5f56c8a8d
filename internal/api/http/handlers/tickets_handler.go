package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-client/internal/api/dto"
	"github.com/spec-kit/ticket-client/internal/coordinator"
	"github.com/spec-kit/ticket-client/internal/domain"
	"github.com/spec-kit/ticket-client/internal/status"
	"github.com/spec-kit/ticket-client/internal/store"
	"github.com/spec-kit/ticket-client/pkg/apperrors"
)

// TicketsHandler exposes engine state and gesture endpoints to the
// presentation layer.
type TicketsHandler struct {
	store       *store.Store
	tracker     *status.Tracker
	coordinator *coordinator.Coordinator
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(s *store.Store, t *status.Tracker, c *coordinator.Coordinator) *TicketsHandler {
	return &TicketsHandler{store: s, tracker: t, coordinator: c}
}

// State returns the current view state. The status query parameter
// filters tickets (all, completed, incomplete); the filter never
// touches the store itself.
func (h *TicketsHandler) State(c *fiber.Ctx) error {
	filter := domain.ParseFilter(c.Query("status"))
	tickets, users := h.store.Snapshot()
	return c.JSON(dto.StateResponse{
		Tickets: domain.ApplyFilter(tickets, filter),
		Users:   users,
		Busy:    h.tracker.All(),
		Filter:  filter,
	})
}

// Detail fetches a single ticket from the gateway for the detail view.
func (h *TicketsHandler) Detail(c *fiber.Ctx) error {
	ticketID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("ticket id must be an integer", nil)
	}
	ticket, err := h.coordinator.FetchTicket(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	kind, busy := h.tracker.Kind(ticketID)
	return c.JSON(dto.TicketDetailResponse{Ticket: *ticket, Busy: busy, Kind: kind})
}

// Create adds a new ticket.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	created, err := h.coordinator.AddTicket(c.UserContext(), req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// Assign sets or clears a ticket's assignee; a userId of -1 unassigns.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	ticketID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("ticket id must be an integer", nil)
	}
	userID, err := strconv.Atoi(c.Params("userId"))
	if err != nil {
		return apperrors.NewValidationError("user id must be an integer", nil)
	}
	if err := h.coordinator.AssignTicket(c.UserContext(), ticketID, userID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Toggle flips a ticket's completion state.
func (h *TicketsHandler) Toggle(c *fiber.Ctx) error {
	ticketID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("ticket id must be an integer", nil)
	}
	if err := h.coordinator.ToggleComplete(c.UserContext(), ticketID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reload re-runs the full load cycle on demand.
func (h *TicketsHandler) Reload(c *fiber.Ctx) error {
	if err := h.coordinator.Reload(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
