package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jpcardenas/tienda/internal/service"
)

// mapError translates service errors into the API's {"message": ...} error
// body. Unexpected errors are logged with full detail and surfaced as a
// generic 500 so internals never leak to the client.
func mapError(l *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(op, "status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, clientMessage(err))
	case errors.Is(err, service.ErrNotFound):
		l.Warn(op, "status", http.StatusNotFound, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, clientMessage(err))
	case errors.Is(err, service.ErrConflict):
		l.Error(op, "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, clientMessage(err))
	default:
		l.Error(op, "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func clientMessage(err error) string {
	msg := err.Error()
	for _, prefix := range []string{"validation: ", "not found: ", "conflict: "} {
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}
