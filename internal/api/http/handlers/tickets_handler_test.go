package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-client/internal/api/http"
	"github.com/spec-kit/ticket-client/internal/api/http/handlers"
	"github.com/spec-kit/ticket-client/internal/coordinator"
	"github.com/spec-kit/ticket-client/internal/domain"
	"github.com/spec-kit/ticket-client/internal/observability"
	"github.com/spec-kit/ticket-client/internal/status"
	"github.com/spec-kit/ticket-client/internal/store"
	"github.com/spec-kit/ticket-client/pkg/apperrors"
)

type fakeGateway struct {
	tickets []domain.Ticket
	users   []domain.User
}

func (f *fakeGateway) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return append([]domain.Ticket(nil), f.tickets...), nil
}

func (f *fakeGateway) ListUsers(ctx context.Context) ([]domain.User, error) {
	return append([]domain.User(nil), f.users...), nil
}

func (f *fakeGateway) GetTicket(ctx context.Context, ticketID int) (*domain.Ticket, error) {
	for _, t := range f.tickets {
		if t.ID == ticketID {
			ticket := t
			return &ticket, nil
		}
	}
	return nil, apperrors.NewNotFound("ticket", nil)
}

func (f *fakeGateway) CreateTicket(ctx context.Context, description string) (*domain.Ticket, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) Assign(ctx context.Context, ticketID, userID int) error {
	for i := range f.tickets {
		if f.tickets[i].ID == ticketID {
			assignee := userID
			f.tickets[i].AssigneeID = &assignee
		}
	}
	return nil
}

func (f *fakeGateway) Unassign(ctx context.Context, ticketID int) error { return nil }

func (f *fakeGateway) Complete(ctx context.Context, ticketID int) error { return nil }

func (f *fakeGateway) Uncomplete(ctx context.Context, ticketID int) error { return nil }

func newApp(t *testing.T, gw *fakeGateway) (*fiber.App, *store.Store) {
	t.Helper()
	logger := zap.NewNop()
	s := store.NewStore(gw, nil, logger)
	tracker := status.NewTracker()
	coord := coordinator.NewCoordinator(coordinator.Dependencies{
		Gateway:     gw,
		Store:       s,
		Tracker:     tracker,
		Metrics:     observability.NewMetrics(),
		Logger:      logger,
		CallTimeout: time.Second,
	})
	require.NoError(t, s.LoadAll(context.Background()))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(),
		Tickets: handlers.NewTicketsHandler(s, tracker, coord),
	})
	return app, s
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error.Code
}

func TestStateFiltersTicketsWithoutTouchingStore(t *testing.T) {
	app, s := newApp(t, &fakeGateway{
		tickets: []domain.Ticket{
			{ID: 1, Description: "open"},
			{ID: 2, Description: "done", Completed: true},
		},
		users: []domain.User{{ID: 7, Name: "Ada"}},
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/state?status=completed", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state struct {
		Tickets []domain.Ticket `json:"tickets"`
		Users   []domain.User   `json:"users"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	require.Len(t, state.Tickets, 1)
	assert.Equal(t, 2, state.Tickets[0].ID)
	assert.Len(t, state.Users, 1)

	// the filter is view state only; the store keeps everything
	assert.Len(t, s.Tickets(), 2)
}

func TestCreateRejectsBlankDescription(t *testing.T) {
	app, _ := newApp(t, &fakeGateway{})

	req := httptest.NewRequest(http.MethodPost, "/tickets", strings.NewReader(`{"description":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", decodeError(t, resp))
}

func TestDetailUnknownTicketReturns404Code(t *testing.T) {
	app, _ := newApp(t, &fakeGateway{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/tickets/999", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp))
}

func TestAssignEndpointDrivesCoordinator(t *testing.T) {
	app, s := newApp(t, &fakeGateway{
		tickets: []domain.Ticket{{ID: 1, Description: "Fix login bug"}},
		users:   []domain.User{{ID: 7, Name: "Ada"}},
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/tickets/1/assignee/7", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	got, ok := s.Get(1)
	require.True(t, ok)
	require.NotNil(t, got.AssigneeID)
	assert.Equal(t, 7, *got.AssigneeID)
}

func TestPanicInHandlerBecomesRecoverableError(t *testing.T) {
	app, _ := newApp(t, &fakeGateway{})
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("render fault")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp))
}
