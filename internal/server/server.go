package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ride-booking/internal/logger"
	"ride-booking/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Module mounts its routes under the authenticated /api group.
type Module interface {
	RegisterRoutes(g *echo.Group)
}

// Check reports the health of one dependency.
type Check func(ctx context.Context) error

type Options struct {
	JWTSecret    string
	ClientOrigin string
	Logger       *slog.Logger
	Checks       map[string]Check
	Modules      []Module
}

// New builds the echo instance with middleware, /health and the /api modules.
func New(opts Options) *echo.Echo {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			c.SetRequest(c.Request().WithContext(logger.WithRequestID(c.Request().Context(), id)))
		},
	}))
	e.Use(requestLogger(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{opts.ClientOrigin},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	e.GET("/health", healthHandler(opts.Checks))

	api := e.Group("/api", JWTMiddleware(opts.JWTSecret))
	for _, m := range opts.Modules {
		m.RegisterRoutes(api)
	}
	return e
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			args := []any{"method", v.Method, "uri", v.URI, "status", v.Status,
				"latency_ms", v.Latency.Milliseconds()}
			if v.Error != nil {
				logger.Error(ctx, log, "http_request", "request failed", v.Error, args...)
				return nil
			}
			logger.Info(ctx, log, "http_request", "request served", args...)
			return nil
		},
	})
}

func healthHandler(checks map[string]Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status[name] = err.Error()
				status["status"] = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "ok"
		}
		if code != http.StatusOK {
			return c.JSON(code, models.Envelope{Success: false, Data: status})
		}
		return c.JSON(code, models.OK(status))
	}
}

// Run serves e on addr until ctx is cancelled, then drains in-flight requests.
func Run(ctx context.Context, e *echo.Echo, addr string, log *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "action", "server_start", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("HTTP server shutting down", "action", "server_stop")
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
