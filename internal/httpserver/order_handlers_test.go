package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jpcardenas/tienda/internal/models"
	"github.com/jpcardenas/tienda/internal/transport"
)

func seedCheckout(t *testing.T, env *testEnv) (shippingID, paymentID uint) {
	t.Helper()

	opt := models.ShippingOption{Code: "medellin", Label: "Medellin", PriceCents: 10000, IsActive: true}
	require.NoError(t, env.DB.Create(&opt).Error)
	pm := models.PaymentMethod{Code: "transfer", Label: "Transferencia", IsActive: true}
	require.NoError(t, env.DB.Create(&pm).Error)

	body := transport.ReplaceCartRequest{Items: []transport.ItemInput{
		{Product: productBlob(t, 1, "Cafe de origen", 100000), Quantity: 2},
	}}
	_, c := env.doJSONRequest(http.MethodPut, "/api/v1/cart", body)
	asUser(c, 1)
	require.NoError(t, env.C.PutCart(c))

	return opt.ID, pm.ID
}

func TestCreateOrderHandler(t *testing.T) {
	env := newTestEnv(t)
	shippingID, paymentID := seedCheckout(t, env)

	body := transport.CreateOrderRequest{
		Customer: transport.CustomerInput{
			Name:    "Juan Perez",
			Email:   "juan@example.com",
			Phone:   "3001234567",
			City:    "Medellin",
			Address: "Calle 10 # 43-12",
		},
		ShippingOptionID: &shippingID,
		PaymentMethodID:  &paymentID,
	}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", body)
	asUser(c, 1)
	require.NoError(t, env.O.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp transport.CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Order.Code)
	require.Equal(t, int64(200000), resp.Order.Subtotal)
	require.Equal(t, int64(210000), resp.Order.Total)
	require.Equal(t, models.OrderStatusPending, resp.Order.Status)
	require.Len(t, resp.Order.Items, 1)
}

func TestCreateOrderHandlerEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	body := transport.CreateOrderRequest{
		Customer: transport.CustomerInput{
			Name:    "Juan Perez",
			Email:   "juan@example.com",
			Phone:   "3001234567",
			City:    "Medellin",
			Address: "Calle 10 # 43-12",
		},
	}

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", body)
	asUser(c, 1)
	requireHTTPError(t, env.O.CreateOrder(c), http.StatusBadRequest)
}

func TestCreateOrderHandlerMissingCustomer(t *testing.T) {
	env := newTestEnv(t)
	seedCheckout(t, env)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", transport.CreateOrderRequest{})
	asUser(c, 1)
	requireHTTPError(t, env.O.CreateOrder(c), http.StatusBadRequest)
}

func TestCreateOrderHandlerUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", transport.CreateOrderRequest{})
	requireHTTPError(t, env.O.CreateOrder(c), http.StatusUnauthorized)
}

func TestListOrdersHandler(t *testing.T) {
	env := newTestEnv(t)
	shippingID, paymentID := seedCheckout(t, env)

	body := transport.CreateOrderRequest{
		Customer: transport.CustomerInput{
			Name:    "Juan Perez",
			Email:   "juan@example.com",
			Phone:   "3001234567",
			City:    "Medellin",
			Address: "Calle 10 # 43-12",
		},
		ShippingOptionID: &shippingID,
		PaymentMethodID:  &paymentID,
	}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", body)
	asUser(c, 1)
	require.NoError(t, env.O.CreateOrder(c))

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/orders", nil)
	asUser(c, 1)
	require.NoError(t, env.O.ListOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.ListOrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Orders, 1)
	require.NotNil(t, resp.Orders[0].Shipping)
	require.Equal(t, "medellin", resp.Orders[0].Shipping.Code)
}

func TestListOrdersHandlerOtherUser(t *testing.T) {
	env := newTestEnv(t)
	seedCheckout(t, env)

	body := transport.CreateOrderRequest{
		Customer: transport.CustomerInput{
			Name:    "Juan Perez",
			Email:   "juan@example.com",
			Phone:   "3001234567",
			City:    "Medellin",
			Address: "Calle 10 # 43-12",
		},
	}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", body)
	asUser(c, 1)
	require.NoError(t, env.O.CreateOrder(c))

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/orders", nil)
	asUser(c, 2)
	require.NoError(t, env.O.ListOrders(c))

	var resp transport.ListOrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Orders)
}
