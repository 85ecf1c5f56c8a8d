package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-client/internal/domain"
	"github.com/spec-kit/ticket-client/pkg/apperrors"
)

// Gateway is the remote ticket store boundary. Every call maps to one
// HTTP request; any non-2xx response or transport failure is an error.
type Gateway interface {
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetTicket(ctx context.Context, ticketID int) (*domain.Ticket, error)
	CreateTicket(ctx context.Context, description string) (*domain.Ticket, error)
	Assign(ctx context.Context, ticketID, userID int) error
	Unassign(ctx context.Context, ticketID int) error
	Complete(ctx context.Context, ticketID int) error
	Uncomplete(ctx context.Context, ticketID int) error
}

// Client talks to the remote ticket API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient constructs a gateway client. The per-call deadline is the
// caller's responsibility via ctx; the http.Client carries no timeout of
// its own so a context deadline is the single source of truth.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// ListTickets fetches the full canonical ticket list.
func (c *Client) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	if err := c.doJSON(ctx, http.MethodGet, "/api/tickets", nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// ListUsers fetches the full user list.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetTicket fetches a single ticket. A 404 surfaces as a distinct
// not-found condition rather than a generic gateway failure.
func (c *Client) GetTicket(ctx context.Context, ticketID int) (*domain.Ticket, error) {
	var ticket domain.Ticket
	path := fmt.Sprintf("/api/tickets/%d", ticketID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// CreateTicket submits a new ticket and returns the server's version of
// it, including the server-generated id.
func (c *Client) CreateTicket(ctx context.Context, description string) (*domain.Ticket, error) {
	body := map[string]string{"description": description}
	var created domain.Ticket
	if err := c.doJSON(ctx, http.MethodPost, "/api/tickets", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Assign sets the ticket's assignee.
func (c *Client) Assign(ctx context.Context, ticketID, userID int) error {
	path := fmt.Sprintf("/api/tickets/%d/assign/%d", ticketID, userID)
	return c.doJSON(ctx, http.MethodPut, path, nil, nil)
}

// Unassign clears the ticket's assignee.
func (c *Client) Unassign(ctx context.Context, ticketID int) error {
	path := fmt.Sprintf("/api/tickets/%d/unassign", ticketID)
	return c.doJSON(ctx, http.MethodPut, path, nil, nil)
}

// Complete marks the ticket completed.
func (c *Client) Complete(ctx context.Context, ticketID int) error {
	path := fmt.Sprintf("/api/tickets/%d/complete", ticketID)
	return c.doJSON(ctx, http.MethodPut, path, nil, nil)
}

// Uncomplete marks the ticket incomplete.
func (c *Client) Uncomplete(ctx context.Context, ticketID int) error {
	path := fmt.Sprintf("/api/tickets/%d/complete", ticketID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return apperrors.NewNotFound("ticket", map[string]any{"path": path})
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("gateway call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
