package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Husnain-278/EventHub/internal/repository"
)

// StatsHandler serves the dashboard counts.
type StatsHandler struct {
	Stats *repository.StatsRepo
}

func NewStatsHandler(repo *repository.StatsRepo) *StatsHandler {
	if repo == nil {
		panic("nil repository passed to NewStatsHandler")
	}
	return &StatsHandler{Stats: repo}
}

// Get handles GET /v1/event-stats.
func (h *StatsHandler) Get(c echo.Context) error {
	s, err := h.Stats.Get(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
