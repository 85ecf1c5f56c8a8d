package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ClientError standardizes engine errors reported to the presentation layer.
type ClientError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError constructs a ClientError.
func NewClientError(code, message string, status int, details map[string]any) *ClientError {
	return &ClientError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError reports bad local input; no network call was made.
func NewValidationError(message string, details map[string]any) error {
	return NewClientError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewLoadError reports a failed bulk fetch; the store kept its prior contents.
func NewLoadError(err error) error {
	return &ClientError{
		Code:       "LOAD_FAILED",
		Message:    "failed to load tickets and users",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewNotFound reports a 404 on a single-resource fetch.
func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &ClientError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewSubmissionError reports a failed ticket create call.
func NewSubmissionError(err error) error {
	return &ClientError{
		Code:       "SUBMISSION_FAILED",
		Message:    "failed to create ticket",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewAssignError reports a failed assign/unassign call.
func NewAssignError(ticketID int, err error) error {
	return &ClientError{
		Code:       "ASSIGN_FAILED",
		Message:    "failed to update ticket assignee",
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"ticket_id": ticketID},
		Err:        err,
	}
}

// NewCompletionError reports a failed complete/uncomplete call.
func NewCompletionError(ticketID int, err error) error {
	return &ClientError{
		Code:       "COMPLETION_FAILED",
		Message:    "failed to update ticket completion",
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"ticket_id": ticketID},
		Err:        err,
	}
}

// NewTimeout reports a gateway call that exceeded its deadline. The busy
// marker for the ticket is released by the caller regardless.
func NewTimeout(ticketID int, err error) error {
	return &ClientError{
		Code:       "TIMEOUT",
		Message:    "gateway call timed out",
		HTTPStatus: http.StatusGatewayTimeout,
		Details:    map[string]any{"ticket_id": ticketID},
		Err:        err,
	}
}

// NewTicketBusy rejects a second action on a ticket with one already in flight.
func NewTicketBusy(ticketID int, kind string) error {
	return &ClientError{
		Code:       "TICKET_BUSY",
		Message:    "ticket already has an action in flight",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"ticket_id": ticketID, "in_flight": kind},
	}
}

func NewInternalError(err error) error {
	return &ClientError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal client error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToClientError converts generic errors to ClientError.
func ToClientError(err error) *ClientError {
	if err == nil {
		return nil
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{
			Code:       "TIMEOUT",
			Message:    "gateway call timed out",
			HTTPStatus: http.StatusGatewayTimeout,
			Err:        err,
		}
	}
	return &ClientError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal client error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err carries the given ClientError code.
func IsCode(err error, code string) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Code == code
	}
	return false
}
