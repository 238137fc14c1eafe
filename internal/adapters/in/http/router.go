package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	gommonlog "github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the echo instance: health and metrics endpoints, the
// Swagger UI and the /api/v1 routes behind identity and contract validation.
func NewRouter(ctx context.Context, s *Server, reg *prometheus.Registry, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	validateRequest, err := RequestValidator(doc)
	if err != nil {
		return nil, err
	}
	obs, err := NewObservability(reg, logger)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(gommonlog.WARN)
	e.Validator = NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler(logger)
	e.Use(middleware.Recover())
	e.Use(obs.Middleware())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	if err = RegisterSwagger(e, doc); err != nil {
		return nil, err
	}

	api := e.Group("/api/v1", ActorFromHeaders(), validateRequest)
	RegisterHandlers(api, s)
	return e, nil
}
