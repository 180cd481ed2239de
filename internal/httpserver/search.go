package httpserver

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/jpcardenas/tienda/internal/logging"
	"github.com/jpcardenas/tienda/internal/service/search"
	"github.com/jpcardenas/tienda/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search.query")

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, limit := util.Calculate(page, size)

	total, products, err := search.Search(ctx, h.ES, h.Index, query, from, limit)
	if err != nil {
		l.Error("search_error", "error", err)
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
