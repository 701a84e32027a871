package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"

	"github.com/Husnain-278/EventHub/internal/booking"
	"github.com/Husnain-278/EventHub/internal/config"
	"github.com/Husnain-278/EventHub/internal/database"
	"github.com/Husnain-278/EventHub/internal/handler"
	"github.com/Husnain-278/EventHub/internal/metrics"
	"github.com/Husnain-278/EventHub/internal/notify"
	"github.com/Husnain-278/EventHub/internal/queue"
	"github.com/Husnain-278/EventHub/internal/repository"
	"github.com/Husnain-278/EventHub/internal/router"
	queue_publisher "github.com/Husnain-278/EventHub/internal/service"
)

func main() {
	logger := log.New("eventhub")
	logger.SetHeader(`{"time":"${time_rfc3339}","level":"${level}","prefix":"${prefix}"}`)

	if err := config.LoadDotEnv(); err != nil {
		logger.Warnj(log.JSON{"msg": "could not read .env", "error": err.Error()})
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalj(log.JSON{"msg": "invalid configuration", "error": err.Error()})
	}
	logger.SetLevel(parseLevel(cfg.LogLevel))

	db, err := database.Open(cfg.DB)
	if err != nil {
		logger.Fatalj(log.JSON{"msg": "database open failed", "driver": cfg.DB.Driver, "error": err.Error()})
	}
	defer db.Close()
	if cfg.Migrate {
		if err := database.Migrate(db, cfg.DB.Driver); err != nil {
			logger.Fatalj(log.JSON{"msg": "migration failed", "error": err.Error()})
		}
	}

	m := metrics.New()
	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logger.Warnj(log.JSON{"msg": "redis unavailable, cache and rate limit disabled"})
	}

	bookings := repository.NewBookingRepo(db)
	catalog := repository.NewCatalogRepo(db)
	stats := repository.NewStatsRepo(db)

	var pub notify.Publisher = notify.LogPublisher{Logger: logger}
	if cfg.Notify.Enabled {
		pub = queue_publisher.NewPublisher(cfg.Notify.URL, cfg.Notify.Queue)
	}
	dispatcher := notify.New(pub, notify.Options{Buffer: cfg.Notify.Buffer, Timeout: cfg.Notify.Timeout}, logger, m)
	svc := booking.NewService(bookings, catalog, dispatcher, logger, m)

	e := router.NewEcho(logger, m)
	router.RegisterRoutes(e, db, m)
	router.RegisterPublic(e, handler.NewCatalogHandler(catalog), handler.NewStatsHandler(stats), config.LoadCacheConfig(), rdb)
	router.RegisterBookings(e, handler.NewBookingHandler(svc, bookings), config.LoadRateLimitConfig(), rdb)
	router.RegisterAdmin(e, handler.NewAdminBookingHandler(svc), cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	addr := ":" + cfg.Port
	g.Go(func() error {
		logger.Infoj(log.JSON{"msg": "listening", "addr": addr, "env": cfg.Env, "driver": cfg.DB.Driver})
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return dispatcher.Run(ctx) })
	if cfg.Notify.Enabled && cfg.Notify.Consumer {
		consumer := &queue.Consumer{URL: cfg.Notify.URL, Queue: cfg.Notify.Queue, LogPath: cfg.Notify.LogPath, Logger: logger}
		g.Go(func() error { return consumer.Run(ctx) })
	}

	if err := g.Wait(); err != nil {
		logger.Errorj(log.JSON{"msg": "server stopped", "error": err.Error()})
		os.Exit(1)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	logger.Infoj(log.JSON{"msg": "shutdown complete"})
}

func parseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
