package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-client/internal/observability"
	"github.com/spec-kit/ticket-client/pkg/apperrors"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
// The request logger wraps the error boundary so the status it records is
// the one the client actually received after error translation.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware is the recoverable-fault boundary: any panic
// or error escaping a handler becomes a structured JSON error response
// instead of a dead view.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				clientErr := apperrors.ToClientError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), clientErr.Code)
				}
				response := fiber.Map{"error": fiber.Map{
					"code":    clientErr.Code,
					"message": clientErr.Message,
				}}
				if len(clientErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = clientErr.Details
				}
				if clientErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(clientErr))
				}
				c.Status(clientErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}
