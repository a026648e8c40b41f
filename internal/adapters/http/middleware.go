package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const headerRequestID = "X-Request-Id"

// RequestIDMiddleware ensures every request has a unique X-Request-Id.
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(headerRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(headerRequestID, id)
			c.Set("request_id", id)
			return next(c)
		}
	}
}

// LoggingMiddleware logs each request with structured fields.
func LoggingMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("request",
				"request_id", c.Get("request_id"),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}

// RecoverMiddleware turns handler panics into 500s and logs them.
func RecoverMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				"request_id", c.Get("request_id"),
				"error", err,
				"stack", string(stack),
			)
			return err
		},
	})
}

// NewServer wires the echo instance with the standard middleware chain.
func NewServer(h *Handler, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = errorHandler(e)

	e.Use(RequestIDMiddleware())
	e.Use(LoggingMiddleware(logger))
	e.Use(RecoverMiddleware(logger))

	h.Register(e)
	return e
}

// errorHandler keeps echo's answers for routing errors and hides everything
// else behind the fixed failure message.
func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}
		if c.Response().Committed {
			return
		}
		_ = c.JSON(http.StatusInternalServerError, ErrorResponse{Error: readingFailedMessage})
	}
}
