// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/Husnain-278/EventHub/internal/config"
	"github.com/Husnain-278/EventHub/internal/handler"
	"github.com/Husnain-278/EventHub/internal/metrics"
	"github.com/Husnain-278/EventHub/internal/middleware"
)

// NewEcho returns an Echo instance sharing logger, with the request
// validator, panic recovery, request ids and access logging installed.
func NewEcho(logger *log.Logger, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger = logger
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.AccessLog(logger, m))
	return e
}

// RegisterRoutes registers the operational endpoints: /healthz and
// /metrics.
func RegisterRoutes(e *echo.Echo, db *sql.DB, m *metrics.Metrics) {
	e.GET("/healthz", handler.Health(db))
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
}

// RegisterPublic registers the unauthenticated read endpoints.  Catalog
// listings and stats go through the Redis response cache.
func RegisterPublic(e *echo.Echo, catalog *handler.CatalogHandler, stats *handler.StatsHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1", middleware.NewRedisCache(cacheCfg, rdb))
	g.GET("/venues", catalog.ListVenues)
	g.GET("/event-types", catalog.ListEventTypes)
	g.GET("/menu-categories", catalog.ListCategories)
	g.GET("/menu-items", catalog.ListMenuItems)
	g.GET("/event-stats", stats.Get)
}
