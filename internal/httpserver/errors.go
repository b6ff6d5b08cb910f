package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kindones/storefront/internal/domain"
)

const genericOrderError = "Unable to create order. Please try again."

type errorBody struct {
	Error string `json:"error"`
}

// ErrorHandler renders every error as {"error": "..."}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, errorBody{Error: msg})
}

// httpError maps a service error to a status and client message and logs it
// under event. Internal causes are logged but never returned.
func httpError(l *slog.Logger, event string, err error, fallback string) error {
	code, msg := classify(err, fallback)
	switch {
	case code >= 500:
		l.Error(event, "status", code, "reason", msg, "error", err)
	default:
		l.Warn(event, "status", code, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(code, msg)
}

func classify(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidBasket),
		errors.Is(err, domain.ErrGuestDetailsMissing),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrFeatureLimit):
		return http.StatusBadRequest, domain.Message(err, "Invalid request.")
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, domain.Message(err, "Unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.Message(err, "Not found.")
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrDuplicate):
		return http.StatusConflict, domain.Message(err, "Conflict.")
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Request timed out. Please try again."
	default:
		return http.StatusInternalServerError, fallback
	}
}
