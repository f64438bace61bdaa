package chrome

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crawlbite/menuscan/internal/metrics"
	"github.com/crawlbite/menuscan/pkg/types"
)

// RenderFetcher adapts the Chrome pool to the crawler's fetch capability.
// Each fetch holds exactly one instance for its duration and releases it
// on every exit path.
type RenderFetcher struct {
	pool      *ChromePool
	config    *Config
	collector *metrics.MetricsCollector
	logger    *zap.Logger
}

// NewRenderFetcher creates a RenderFetcher over an initialized pool.
func NewRenderFetcher(pool *ChromePool, config *Config, collector *metrics.MetricsCollector, logger *zap.Logger) *RenderFetcher {
	return &RenderFetcher{
		pool:      pool,
		config:    config,
		collector: collector,
		logger:    logger,
	}
}

// Fetch renders one page in a pooled browser and returns its DOM snapshot.
// Success means the render completed; the rendered DOM is returned even
// when the server replied with an error document's status.
func (rf *RenderFetcher) Fetch(ctx context.Context, url string) (*types.FetchResult, error) {
	requestID := uuid.NewString()

	instance, err := rf.pool.Acquire(ctx)
	if err != nil {
		rf.collector.RecordFetchError(types.FetchModeRender)
		return nil, err
	}
	defer rf.pool.Release(instance)

	rendered, err := instance.Render(ctx, url, rf.config)
	if err != nil {
		rf.collector.RecordFetchError(types.FetchModeRender)
		rf.collector.RecordRenderError()
		rf.logger.Error("Render failed",
			zap.String("request_id", requestID),
			zap.String("url", url),
			zap.Int("instance_id", instance.ID),
			zap.Error(err))
		return nil, err
	}

	rf.collector.RecordFetchSuccess(types.FetchModeRender, rendered.Duration.Seconds())
	rf.collector.RecordRenderSuccess()
	rf.logger.Info("Page rendered",
		zap.String("request_id", requestID),
		zap.String("url", url),
		zap.Int("instance_id", instance.ID),
		zap.Int("status_code", rendered.StatusCode),
		zap.Duration("render_time", rendered.Duration))

	statusCode := rendered.StatusCode
	if statusCode == 0 {
		// Network event missed; the snapshot itself proves delivery.
		statusCode = 200
	}

	return &types.FetchResult{
		URL:        url,
		FinalURL:   rendered.FinalURL,
		StatusCode: statusCode,
		Body:       []byte(rendered.HTML),
		Success:    true,
		Mode:       types.FetchModeRender,
		Duration:   rendered.Duration,
	}, nil
}
