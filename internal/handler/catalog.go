package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Husnain-278/EventHub/internal/repository"
)

// CatalogHandler serves the read-only reference data customers pick
// from when booking.
type CatalogHandler struct {
	Catalog *repository.CatalogRepo
}

// NewCatalogHandler panics when repo is nil.
func NewCatalogHandler(repo *repository.CatalogRepo) *CatalogHandler {
	if repo == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: repo}
}

// ListVenues handles GET /v1/venues; only active venues are listed.
func (h *CatalogHandler) ListVenues(c echo.Context) error {
	items, err := h.Catalog.ListActiveVenues(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListEventTypes handles GET /v1/event-types.
func (h *CatalogHandler) ListEventTypes(c echo.Context) error {
	items, err := h.Catalog.ListEventTypes(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListCategories handles GET /v1/menu-categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	items, err := h.Catalog.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListMenuItems handles GET /v1/menu-items.  Each item carries its
// category name.
func (h *CatalogHandler) ListMenuItems(c echo.Context) error {
	items, err := h.Catalog.ListMenuItems(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
