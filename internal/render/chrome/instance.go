package chrome

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromeInstance represents a single Chrome browser instance
type ChromeInstance struct {
	ID              int
	ctx             context.Context
	cancel          context.CancelFunc
	allocatorCtx    context.Context
	allocatorCancel context.CancelFunc
	createdAt       time.Time
	logger          *zap.Logger

	// Mutable, atomic
	rendersDone int32
	dead        atomic.Bool
}

// RenderResult is one rendered page snapshot.
type RenderResult struct {
	HTML       string
	FinalURL   string
	StatusCode int
	Duration   time.Duration
}

// NewChromeInstance creates and starts a Chrome instance
func NewChromeInstance(id int, config *Config, logger *zap.Logger) (*ChromeInstance, error) {
	instance := &ChromeInstance{
		ID:        id,
		createdAt: time.Now().UTC(),
		logger:    logger,
	}

	if err := instance.createBrowser(); err != nil {
		return nil, fmt.Errorf("failed to create Chrome instance %d: %w", id, err)
	}

	instance.logger.Info("Chrome instance created",
		zap.Int("instance_id", id),
		zap.Time("created_at", instance.createdAt))

	return instance, nil
}

// createBrowser initializes the Chrome browser process
func (ci *ChromeInstance) createBrowser() error {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
	}

	allocatorOpts := append(chromedp.DefaultExecAllocatorOptions[:], opts...)
	ci.allocatorCtx, ci.allocatorCancel = chromedp.NewExecAllocator(context.Background(), allocatorOpts...)
	ci.ctx, ci.cancel = chromedp.NewContext(ci.allocatorCtx)

	// Start the browser without navigating anywhere.
	if err := chromedp.Run(ci.ctx); err != nil {
		return fmt.Errorf("failed to start Chrome: %w", err)
	}
	return nil
}

// Render navigates a fresh tab to pageURL, waits for the DOM to settle,
// and returns the rendered snapshot. The tab is always closed on exit,
// success or failure.
func (ci *ChromeInstance) Render(ctx context.Context, pageURL string, config *Config) (*RenderResult, error) {
	start := time.Now()

	tabCtx, tabCancel := chromedp.NewContext(ci.ctx)
	defer tabCancel()

	// Cancel the tab when the request context expires.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	result := &RenderResult{}

	// Capture the main document's status code from network events.
	var statusMu sync.Mutex
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			statusMu.Lock()
			if result.StatusCode == 0 {
				result.StatusCode = int(e.Response.Status)
			}
			statusMu.Unlock()
		}
	})

	navCtx, navCancel := context.WithTimeout(tabCtx, config.NavTimeout)
	defer navCancel()

	err := chromedp.Run(navCtx,
		network.Enable(),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		ci.waitSettled(config.SettleTimeout, config.SettleInterval),
		ci.extractHTML(&result.HTML),
		chromedp.Location(&result.FinalURL),
	)

	result.Duration = time.Since(start)
	atomic.AddInt32(&ci.rendersDone, 1)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNavigateFailed, err)
	}

	ci.logger.Debug("Page rendered",
		zap.Int("instance_id", ci.ID),
		zap.String("url", pageURL),
		zap.Int("status_code", result.StatusCode),
		zap.Duration("render_time", result.Duration))

	return result, nil
}

// waitSettled polls the document length until two consecutive polls agree,
// bounded by timeout. Replaces a fixed post-navigation sleep: pages that
// settle early return early, pages that never settle proceed at the bound.
func (ci *ChromeInstance) waitSettled(timeout, interval time.Duration) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		deadline := time.After(timeout)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		prev := -1
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-deadline:
				// Never stabilized; extract whatever rendered.
				return nil
			case <-ticker.C:
				var length int
				if err := chromedp.Evaluate(`document.documentElement.outerHTML.length`, &length).Do(ctx); err != nil {
					continue
				}
				if length == prev {
					return nil
				}
				prev = length
			}
		}
	}
}

// extractHTML extracts the page HTML with retry logic
func (ci *ChromeInstance) extractHTML(output *string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		var lastErr error

		for attempt := 0; attempt < 3; attempt++ {
			rootNode, err := dom.GetDocument().Do(ctx)
			if err != nil {
				lastErr = err
				time.Sleep(300 * time.Millisecond)
				continue
			}

			html, err := dom.GetOuterHTML().WithNodeID(rootNode.NodeID).Do(ctx)
			if err != nil {
				lastErr = err
				time.Sleep(300 * time.Millisecond)
				continue
			}

			*output = html
			return nil
		}

		return fmt.Errorf("%w after 3 attempts: %v", ErrExtractHTML, lastErr)
	}
}

// RendersDone returns how many renders this instance has served.
func (ci *ChromeInstance) RendersDone() int {
	return int(atomic.LoadInt32(&ci.rendersDone))
}

// IsAlive checks if the Chrome instance is still responsive
func (ci *ChromeInstance) IsAlive() bool {
	if ci.dead.Load() {
		return false
	}

	ctx, cancel := context.WithTimeout(ci.ctx, 5*time.Second)
	defer cancel()

	err := chromedp.Run(ctx, chromedp.ActionFunc(func(context.Context) error { return nil }))
	if err != nil {
		ci.dead.Store(true)
		return false
	}
	return true
}

// Close terminates the browser and its allocator.
func (ci *ChromeInstance) Close() {
	ci.dead.Store(true)
	if ci.cancel != nil {
		ci.cancel()
	}
	if ci.allocatorCancel != nil {
		ci.allocatorCancel()
	}
	ci.logger.Info("Chrome instance closed", zap.Int("instance_id", ci.ID))
}
