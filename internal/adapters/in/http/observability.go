package http

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Observability counts and times requests by route pattern and logs them.
type Observability struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logger   *slog.Logger
}

// NewObservability registers the HTTP collectors with reg.
func NewObservability(reg prometheus.Registerer, logger *slog.Logger) (*Observability, error) {
	o := &Observability{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		logger: logger.With("component", "http"),
	}
	if err := reg.Register(o.requests); err != nil {
		return nil, err
	}
	if err := reg.Register(o.duration); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Observability) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			// route pattern, not the raw path, keeps label cardinality bounded
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			elapsed := time.Since(start)
			status := strconv.Itoa(c.Response().Status)

			o.requests.WithLabelValues(c.Request().Method, path, status).Inc()
			o.duration.WithLabelValues(c.Request().Method, path, status).Observe(elapsed.Seconds())

			o.logger.InfoContext(c.Request().Context(), "http request",
				"method", c.Request().Method,
				"path", path,
				"status", c.Response().Status,
				"duration", elapsed,
			)
			return nil
		}
	}
}
