package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
)

// PrometheusMetrics provides metrics collection for the menu scanner
type PrometheusMetrics struct {
	// Fetch metrics
	fetchesTotal  *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fetchRetries  prometheus.Counter

	// Crawl metrics
	pagesCrawled   prometheus.Counter
	itemsExtracted prometheus.Counter
	anomaliesTotal *prometheus.CounterVec

	// Render metrics
	rendersTotal *prometheus.CounterVec

	logger      *zap.Logger
	httpHandler func(*fasthttp.RequestCtx)
}

// NewPrometheusMetrics creates a new Prometheus-based metrics collector
func NewPrometheusMetrics(namespace string, logger *zap.Logger) *PrometheusMetrics {
	return NewPrometheusMetricsWithRegistry(namespace, prometheus.NewRegistry(), logger)
}

// NewPrometheusMetricsWithRegistry creates a new Prometheus-based metrics collector with custom registry
func NewPrometheusMetricsWithRegistry(namespace string, registerer prometheus.Registerer, logger *zap.Logger) *PrometheusMetrics {
	pm := &PrometheusMetrics{
		logger: logger,
	}

	pm.fetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scan",
		Name:      "fetches_total",
		Help:      "Total page fetches by mode and outcome",
	}, []string{"mode", "outcome"}) // mode: http, render; outcome: success, error

	pm.fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scan",
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching pages",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~50s
	}, []string{"mode"})

	pm.fetchRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scan",
		Name:      "fetch_retries_total",
		Help:      "Total fetch attempts retried on transient failures",
	})

	pm.pagesCrawled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scan",
		Name:      "pages_crawled_total",
		Help:      "Total pages visited by the pagination crawler",
	})

	pm.itemsExtracted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scan",
		Name:      "items_extracted_total",
		Help:      "Total menu items extracted",
	})

	pm.anomaliesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scan",
		Name:      "segment_anomalies_total",
		Help:      "Lines dropped during segmentation by reason",
	}, []string{"reason"}) // reason: orphan_price, incomplete_item

	pm.rendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scan",
		Name:      "renders_total",
		Help:      "Total browser renders by outcome",
	}, []string{"outcome"})

	registerer.MustRegister(
		pm.fetchesTotal,
		pm.fetchDuration,
		pm.fetchRetries,
		pm.pagesCrawled,
		pm.itemsExtracted,
		pm.anomaliesTotal,
		pm.rendersTotal,
	)

	gatherer, ok := registerer.(prometheus.Gatherer)
	if !ok {
		gatherer = prometheus.DefaultGatherer
	}
	pm.httpHandler = fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	logger.Info("Prometheus metrics initialized")
	return pm
}

// RecordFetch records one fetch outcome
func (pm *PrometheusMetrics) RecordFetch(mode, outcome string) {
	pm.fetchesTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordFetchDuration records fetch duration for a mode
func (pm *PrometheusMetrics) RecordFetchDuration(mode string, seconds float64) {
	pm.fetchDuration.WithLabelValues(mode).Observe(seconds)
}

// RecordFetchRetry records one retried fetch attempt
func (pm *PrometheusMetrics) RecordFetchRetry() {
	pm.fetchRetries.Inc()
}

// RecordPageCrawled records one visited page
func (pm *PrometheusMetrics) RecordPageCrawled() {
	pm.pagesCrawled.Inc()
}

// RecordItemsExtracted records extracted items
func (pm *PrometheusMetrics) RecordItemsExtracted(count float64) {
	pm.itemsExtracted.Add(count)
}

// RecordAnomaly records dropped lines by reason
func (pm *PrometheusMetrics) RecordAnomaly(reason string, count float64) {
	pm.anomaliesTotal.WithLabelValues(reason).Add(count)
}

// RecordRender records one browser render outcome
func (pm *PrometheusMetrics) RecordRender(outcome string) {
	pm.rendersTotal.WithLabelValues(outcome).Inc()
}

// ServeHTTP serves Prometheus metrics via HTTP
func (pm *PrometheusMetrics) ServeHTTP(ctx *fasthttp.RequestCtx) {
	pm.httpHandler(ctx)
}
