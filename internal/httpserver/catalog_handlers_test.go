package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jpcardenas/tienda/internal/models"
	"github.com/jpcardenas/tienda/internal/transport"
)

func TestGetProductsPaginated(t *testing.T) {
	env := newTestEnv(t)

	for i := 1; i <= 3; i++ {
		require.NoError(t, env.DB.Create(&models.Product{
			Name:       "Producto",
			PriceCents: int64(i) * 10000,
			Stock:      10,
		}).Error)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/products?page=1&size=2", nil)
	require.NoError(t, env.P.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Product `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.Equal(t, int64(3), resp.Meta.Total)
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/products/99", nil)
	c.SetParamNames("id")
	c.SetParamValues("99")
	requireHTTPError(t, env.P.GetProduct(c), http.StatusNotFound)
}

func TestGetProductByID(t *testing.T) {
	env := newTestEnv(t)

	p := models.Product{Name: "Cafe de origen", PriceCents: 25000, Stock: 5}
	require.NoError(t, env.DB.Create(&p).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.P.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Cafe de origen", got.Name)
}

func TestListShippingOptionsOnlyActive(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.DB.Create(&models.ShippingOption{
		Code: "medellin", Label: "Medellin", PriceCents: 10000, IsActive: true,
	}).Error)
	require.NoError(t, env.DB.Create(&models.ShippingOption{
		Code: "retirado", Label: "Retirado", PriceCents: 5000, IsActive: false,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/shipping-options", nil)
	require.NoError(t, env.R.ListShippingOptions(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ShippingOptions []transport.ShippingOptionView `json:"shippingOptions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.ShippingOptions, 1)
	require.Equal(t, "medellin", resp.ShippingOptions[0].Code)
}

func TestListPaymentMethodsOnlyActive(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.DB.Create(&models.PaymentMethod{
		Code: "transfer", Label: "Transferencia", IsActive: true,
	}).Error)
	require.NoError(t, env.DB.Create(&models.PaymentMethod{
		Code: "cheque", Label: "Cheque", IsActive: false,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/payment-methods", nil)
	require.NoError(t, env.R.ListPaymentMethods(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		PaymentMethods []transport.PaymentMethodView `json:"paymentMethods"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.PaymentMethods, 1)
	require.Equal(t, "transfer", resp.PaymentMethods[0].Code)
}
