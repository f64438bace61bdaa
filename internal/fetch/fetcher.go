// Package fetch implements the plain-HTTP page fetch capability with
// bounded retries on transient server errors.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/crawlbite/menuscan/internal/metrics"
	"github.com/crawlbite/menuscan/pkg/types"
)

// ErrTransport marks network-level fetch failures.
var ErrTransport = errors.New("transport error")

// errTransientStatus marks retryable server-error responses.
var errTransientStatus = errors.New("transient status")

// transientStatuses are the server-error codes retried with backoff.
var transientStatuses = map[int]struct{}{
	fasthttp.StatusInternalServerError: {},
	fasthttp.StatusBadGateway:          {},
	fasthttp.StatusServiceUnavailable:  {},
	fasthttp.StatusGatewayTimeout:      {},
}

const maxRedirects = 10

// Config holds HTTP fetcher settings.
type Config struct {
	Timeout        time.Duration // per-request timeout
	Retries        int           // retry attempts on transient failures
	BackoffInitial time.Duration // first retry delay, doubled per attempt
	UserAgent      string
}

// DefaultConfig returns the fetcher defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        10 * time.Second,
		Retries:        3,
		BackoffInitial: 1 * time.Second,
		UserAgent:      "menuscan/1.0 (+https://github.com/crawlbite/menuscan)",
	}
}

// HTTPFetcher fetches pages over plain HTTP. Safe for sequential reuse;
// the crawler never fetches concurrently.
type HTTPFetcher struct {
	client    *fasthttp.Client
	config    Config
	collector *metrics.MetricsCollector
	logger    *zap.Logger
}

// NewHTTPFetcher creates an HTTPFetcher with the given configuration.
func NewHTTPFetcher(config Config, collector *metrics.MetricsCollector, logger *zap.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &fasthttp.Client{
			Name:                config.UserAgent,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
		config:    config,
		collector: collector,
		logger:    logger,
	}
}

// Fetch retrieves one page. Transport errors and transient server statuses
// (500, 502, 503, 504) are retried with exponential backoff; any other
// non-2xx status is returned immediately with Success=false and no error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*types.FetchResult, error) {
	start := time.Now()

	var (
		lastStatus int
		body       []byte
	)

	attempt := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}

		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(url)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.SetUserAgent(f.config.UserAgent)

		if err := f.client.DoRedirects(req, resp, maxRedirects); err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}

		lastStatus = resp.StatusCode()
		body = append([]byte(nil), resp.Body()...)

		if _, transient := transientStatuses[lastStatus]; transient {
			return fmt.Errorf("%w: %d", errTransientStatus, lastStatus)
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		f.collector.RecordFetchRetry()
		f.logger.Debug("Retrying fetch",
			zap.String("url", url),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = f.config.BackoffInitial
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(f.config.Retries)), ctx)

	err := backoff.RetryNotify(attempt, policy, notify)

	result := &types.FetchResult{
		URL:        url,
		FinalURL:   url,
		StatusCode: lastStatus,
		Body:       body,
		Mode:       types.FetchModeHTTP,
		Duration:   time.Since(start),
	}

	if err != nil {
		f.collector.RecordFetchError(types.FetchModeHTTP)
		if lastStatus == 0 {
			// Never got a response.
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		// Transient status persisted through every retry.
		return result, nil
	}

	result.Success = lastStatus >= 200 && lastStatus < 300
	if result.Success {
		f.collector.RecordFetchSuccess(types.FetchModeHTTP, result.Duration.Seconds())
	} else {
		f.collector.RecordFetchError(types.FetchModeHTTP)
		f.logger.Warn("Fetch returned non-success status",
			zap.String("url", url),
			zap.Int("status_code", lastStatus))
	}
	return result, nil
}
