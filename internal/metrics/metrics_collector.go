package metrics

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/crawlbite/menuscan/pkg/types"
)

// MetricsCollector centralizes all metrics recording for a scan
type MetricsCollector struct {
	prometheus *PrometheusMetrics
	logger     *zap.Logger
}

// NewMetricsCollector creates a new MetricsCollector instance
func NewMetricsCollector(namespace string, logger *zap.Logger) *MetricsCollector {
	return &MetricsCollector{
		prometheus: NewPrometheusMetrics(namespace, logger),
		logger:     logger,
	}
}

// RecordFetchSuccess records a successful fetch with its duration
func (mc *MetricsCollector) RecordFetchSuccess(mode string, seconds float64) {
	mc.prometheus.RecordFetch(mode, "success")
	mc.prometheus.RecordFetchDuration(mode, seconds)
}

// RecordFetchError records a failed fetch
func (mc *MetricsCollector) RecordFetchError(mode string) {
	mc.prometheus.RecordFetch(mode, "error")
}

// RecordFetchRetry records a retried fetch attempt
func (mc *MetricsCollector) RecordFetchRetry() {
	mc.prometheus.RecordFetchRetry()
}

// RecordPage records one crawled page and what it yielded
func (mc *MetricsCollector) RecordPage(itemCount int, anomalies types.SegmentAnomalies) {
	mc.prometheus.RecordPageCrawled()
	mc.prometheus.RecordItemsExtracted(float64(itemCount))
	if anomalies.OrphanPrices > 0 {
		mc.prometheus.RecordAnomaly("orphan_price", float64(anomalies.OrphanPrices))
	}
	if anomalies.IncompleteItems > 0 {
		mc.prometheus.RecordAnomaly("incomplete_item", float64(anomalies.IncompleteItems))
	}
}

// RecordRenderSuccess records a successful browser render
func (mc *MetricsCollector) RecordRenderSuccess() {
	mc.prometheus.RecordRender("success")
}

// RecordRenderError records a failed browser render
func (mc *MetricsCollector) RecordRenderError() {
	mc.prometheus.RecordRender("error")
}

// ServeHTTP serves the metrics endpoint
func (mc *MetricsCollector) ServeHTTP(ctx *fasthttp.RequestCtx) {
	mc.prometheus.ServeHTTP(ctx)
}
