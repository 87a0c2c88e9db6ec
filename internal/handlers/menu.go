package handlers

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/spiceroute/storefront/internal/catalog"
	"github.com/spiceroute/storefront/internal/es"
)

type MenuHandler struct {
	Catalog *catalog.Catalog
	ES      *elasticsearch.Client
	Index   string
}

func (h *MenuHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"results": h.Catalog.Categories()})
}

func (h *MenuHandler) ListItems(c echo.Context) error {
	items := h.Catalog.Items()
	if slug := c.QueryParam("category"); slug != "" {
		items = h.Catalog.ItemsByCategory(slug)
	}
	return c.JSON(http.StatusOK, echo.Map{"results": items})
}

func (h *MenuHandler) GetItem(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	item, err := h.Catalog.Item(id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "menu item not found")
	}
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) Search(c echo.Context) error {
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search disabled")
	}
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 10)
	from, size := paginate(page, size)

	total, items, err := es.SearchMenu(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "results": items})
}
