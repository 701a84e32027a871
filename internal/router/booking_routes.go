package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Husnain-278/EventHub/internal/config"
	"github.com/Husnain-278/EventHub/internal/handler"
	"github.com/Husnain-278/EventHub/internal/middleware"
)

// RegisterBookings registers the customer booking endpoints under /v1.
// Creation is rate limited per client; reads are not cached because
// they must reflect committed writes immediately.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1")
	g.POST("/bookings", h.Create, middleware.NewTokenBucket(rlCfg, rdb))
	g.GET("/bookings", h.List)
	g.GET("/bookings/:id", h.Get)
	g.GET("/booking-menu", h.ListItems)
}
