package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jpcardenas/tienda/internal/auth"
	"github.com/jpcardenas/tienda/internal/logging"
	"github.com/jpcardenas/tienda/internal/mykafka"
	"github.com/jpcardenas/tienda/internal/service"
	"github.com/jpcardenas/tienda/internal/transport"
)

type CartHandler struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	view, err := h.Svc.Get(ctx, userID)
	if err != nil {
		return mapError(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

// PutCart replaces the active cart wholesale. There is no partial patch; the
// body is the complete desired item list.
func (h *CartHandler) PutCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.put")

	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.ReplaceCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("put_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cart, err := h.Svc.Replace(ctx, userID, req.Items)
	if err != nil {
		return mapError(l, "put_cart_error", err)
	}

	publish(c, h.Producer, topicCartEvents, fmt.Sprint(userID), map[string]any{
		"type":       "cart_replaced",
		"userID":     userID,
		"cartID":     cart.ID,
		"totalItems": cart.TotalItems,
		"totalCents": cart.TotalCents,
	})

	return c.NoContent(http.StatusNoContent)
}

// MergeCart folds a guest's local cart into the server cart right after
// login. The response is the merged cart; the client clears its local copy.
func (h *CartHandler) MergeCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.merge")

	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.MergeCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("merge_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	view, err := h.Svc.Merge(ctx, userID, req.Items)
	if err != nil {
		return mapError(l, "merge_cart_error", err)
	}

	publish(c, h.Producer, topicCartEvents, fmt.Sprint(userID), map[string]any{
		"type":   "cart_merged",
		"userID": userID,
		"cartID": view.CartID,
	})

	return c.JSON(http.StatusOK, view)
}
