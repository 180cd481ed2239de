package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jpcardenas/tienda/internal/logging"
	"github.com/jpcardenas/tienda/internal/repo"
	"github.com/jpcardenas/tienda/internal/util"
)

type ProductHandler struct {
	Repo *repo.GormRepo
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.list")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, limit := util.Calculate(page, size)

	products, total, err := h.Repo.ListProducts(ctx, from, limit)
	if err != nil {
		l.Error("list_products_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": products,
		"meta": echo.Map{
			"total": total,
			"from":  from,
			"size":  limit,
		},
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "products.get")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	product, err := h.Repo.GetProduct(ctx, id)
	if err != nil {
		l.Error("get_product_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if product == nil {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	return c.JSON(http.StatusOK, product)
}
