package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jpcardenas/tienda/internal/auth"
)

// Deps collects everything the router wires. SearchHandler may be nil when
// elasticsearch is not configured; the route then answers 503.
type Deps struct {
	AuthHandler    *AuthHandler
	CartHandler    *CartHandler
	OrderHandler   *OrderHandler
	ProductHandler *ProductHandler
	RefDataHandler *RefDataHandler
	SearchHandler  *SearchHandler
	AuthMW         *auth.Middleware
}

func Register(e *echo.Echo, d Deps) {
	e.GET("/health/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/health/ready", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	api := e.Group("/api/v1")

	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)
	api.POST("/refresh", d.AuthHandler.Refresh)
	api.POST("/logout", d.AuthHandler.Logout)

	api.GET("/products", d.ProductHandler.GetProducts)
	api.GET("/products/:id", d.ProductHandler.GetProduct)
	api.GET("/shipping-options", d.RefDataHandler.ListShippingOptions)
	api.GET("/payment-methods", d.RefDataHandler.ListPaymentMethods)

	if d.SearchHandler != nil {
		api.GET("/search", d.SearchHandler.Search)
	} else {
		api.GET("/search", func(c echo.Context) error {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "search unavailable")
		})
	}

	cart := api.Group("/cart", d.AuthMW.RequireLogin)
	cart.GET("", d.CartHandler.GetCart)
	cart.PUT("", d.CartHandler.PutCart)
	cart.POST("/merge", d.CartHandler.MergeCart)

	orders := api.Group("/orders", d.AuthMW.RequireLogin)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.ListOrders)
}
