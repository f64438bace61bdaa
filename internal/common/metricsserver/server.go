// Package metricsserver exposes the Prometheus endpoint on its own port
// so scraping never interferes with the scan itself.
package metricsserver

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/crawlbite/menuscan/internal/common/config"
)

// MetricsHandler interface for metrics collectors
type MetricsHandler interface {
	ServeHTTP(ctx *fasthttp.RequestCtx)
}

// Start launches the metrics HTTP server in the background.
// Returns nil if metrics are disabled in the config.
func Start(cfg config.MetricsConfig, handler MetricsHandler, logger *zap.Logger) (*fasthttp.Server, error) {
	if !cfg.Enabled {
		logger.Info("Metrics collection disabled")
		return nil, nil
	}

	server := &fasthttp.Server{
		Handler:            newHandler(cfg.Path, handler),
		Name:               "menuscan-metrics",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		MaxRequestBodySize: 1 * 1024,
		TCPKeepalive:       true,
		TCPKeepalivePeriod: 30 * time.Second,
		Concurrency:        100,
	}

	go func() {
		logger.Info("Metrics server listening",
			zap.String("listen", cfg.Listen),
			zap.String("path", cfg.Path))

		if err := server.ListenAndServe(cfg.Listen); err != nil {
			logger.Error("Metrics server stopped",
				zap.String("listen", cfg.Listen),
				zap.Error(err))
		}
	}()

	return server, nil
}

// newHandler routes the configured metrics path to the collector and
// rejects everything else.
func newHandler(metricsPath string, collector MetricsHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) == metricsPath {
			collector.ServeHTTP(ctx)
			return
		}

		ctx.SetStatusCode(fasthttp.StatusNotFound)
		ctx.SetBodyString("Not Found")
	}
}
