package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/Husnain-278/EventHub/internal/metrics"
)

// AccessLog writes one JSON line per request to logger and records the
// request latency by route.  Server errors log at error level.
func AccessLog(logger *log.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			m.ObserveRequest(v.Method, v.RoutePath, strconv.Itoa(v.Status), v.Latency)
			entry := log.JSON{
				"msg":        "request",
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"remote_ip":  v.RemoteIP,
				"request_id": v.RequestID,
			}
			if v.Error != nil {
				entry["error"] = v.Error.Error()
			}
			if v.Status >= 500 {
				logger.Errorj(entry)
			} else {
				logger.Infoj(entry)
			}
			return nil
		},
	})
}
