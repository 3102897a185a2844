// Package httpapi serves the dashboard metrics as a JSON API over HTTP using Echo.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// shutdownTimeout bounds how long in-flight requests get once the server is asked to stop.
const shutdownTimeout = 5 * time.Second

// NewServer builds the Echo instance with every route registered, without starting it.
// This is exposed for unit testing.
func NewServer(baseCfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			_, _ = fmt.Fprintf(os.Stderr, "%s %s %d %v\n", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	h := &handler{baseCfg: baseCfg, src: src, mgr: mgr}

	e.GET("/healthz", h.healthz)

	api := e.Group("/api/customers/:customer")
	api.GET("/burnup/hours", h.hoursBurnup)
	api.GET("/burnup/demands", h.demandBurnup)
	api.GET("/leadtimes", h.leadTimes)
	api.GET("/monthly", h.monthly)

	return e
}

// StartHTTPServer serves the API on baseCfg.Addr until ctx is cancelled.
func StartHTTPServer(ctx context.Context, baseCfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) error {
	e := NewServer(baseCfg, src, mgr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(baseCfg.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}
