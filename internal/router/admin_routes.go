package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Husnain-278/EventHub/internal/handler"
	"github.com/Husnain-278/EventHub/internal/middleware"
	"github.com/Husnain-278/EventHub/internal/model"
)

// RegisterAdmin registers the administrative booking actions under
// /v1/admin.  Every route requires a valid JWT carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminBookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin),
	)
	g.PATCH("/bookings/:id/status", h.SetStatus)
	g.POST("/bookings/approve", h.BulkStatus(model.StatusActive))
	g.POST("/bookings/reject", h.BulkStatus(model.StatusRejected))
	g.POST("/bookings/pending", h.BulkStatus(model.StatusPending))
	g.PUT("/bookings/:id/menu-items", h.ReplaceMenuItems)
	g.PUT("/bookings/:id", h.Update)
	g.DELETE("/bookings/:id", h.Delete)
}
