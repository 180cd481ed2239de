package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jpcardenas/tienda/internal/logging"
	"github.com/jpcardenas/tienda/internal/repo"
	"github.com/jpcardenas/tienda/internal/transport"
)

// RefDataHandler serves the checkout reference tables. The storefront renders
// these as pick lists; only active rows are exposed.
type RefDataHandler struct {
	Repo *repo.GormRepo
}

func (h *RefDataHandler) ListShippingOptions(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "refdata.shipping_options")

	opts, err := h.Repo.ListActiveShippingOptions(ctx)
	if err != nil {
		l.Error("list_shipping_options_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	views := make([]transport.ShippingOptionView, len(opts))
	for i, o := range opts {
		views[i] = transport.ShippingOptionView{
			ID:         o.ID,
			Code:       o.Code,
			Label:      o.Label,
			PriceCents: o.PriceCents,
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"shippingOptions": views})
}

func (h *RefDataHandler) ListPaymentMethods(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "refdata.payment_methods")

	methods, err := h.Repo.ListActivePaymentMethods(ctx)
	if err != nil {
		l.Error("list_payment_methods_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	views := make([]transport.PaymentMethodView, len(methods))
	for i, m := range methods {
		views[i] = transport.PaymentMethodView{
			ID:    m.ID,
			Code:  m.Code,
			Label: m.Label,
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"paymentMethods": views})
}
