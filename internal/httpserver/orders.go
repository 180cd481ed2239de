package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jpcardenas/tienda/internal/auth"
	"github.com/jpcardenas/tienda/internal/logging"
	"github.com/jpcardenas/tienda/internal/mykafka"
	"github.com/jpcardenas/tienda/internal/service"
	"github.com/jpcardenas/tienda/internal/transport"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.create")

	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Create(ctx, userID, req)
	if err != nil {
		return mapError(l, "create_order_error", err)
	}

	publish(c, h.Producer, topicOrderEvents, fmt.Sprint(userID), map[string]any{
		"type":       "order_created",
		"userID":     userID,
		"orderID":    order.ID,
		"code":       order.Code,
		"totalCents": order.Total,
	})

	l.Info("create_order_success", "code", order.Code)
	return c.JSON(http.StatusCreated, transport.CreateOrderResponse{Order: *order})
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	userID, ok := auth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	orders, err := h.Svc.List(ctx, userID, limit)
	if err != nil {
		return mapError(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, transport.ListOrdersResponse{Orders: orders})
}
