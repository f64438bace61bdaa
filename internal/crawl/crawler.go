// Package crawl drives the pagination-following menu extraction loop.
package crawl

import (
	"bytes"
	"context"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/crawlbite/menuscan/internal/common/urlutil"
	"github.com/crawlbite/menuscan/internal/menu"
	"github.com/crawlbite/menuscan/internal/metrics"
	"github.com/crawlbite/menuscan/internal/snapshot"
	"github.com/crawlbite/menuscan/pkg/types"
)

// Fetcher is the pluggable page-fetch capability. The crawler is agnostic
// to whether pages come over plain HTTP or a rendering browser.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*types.FetchResult, error)
}

// nextLinkSelector marks the pagination anchor on the target layout.
const nextLinkSelector = "a.next"

// DefaultMaxPages bounds a crawl that never runs out of next-links.
const DefaultMaxPages = 50

// Crawler walks a paginated menu, accumulating items page by page.
// Strictly sequential: each next-link is only known after parsing the
// page before it.
type Crawler struct {
	fetcher   Fetcher
	maxPages  int
	collector *metrics.MetricsCollector
	snapshots *snapshot.Store // optional
	logger    *zap.Logger
}

// New creates a Crawler. snapshots may be nil to disable page dumps.
func New(fetcher Fetcher, maxPages int, collector *metrics.MetricsCollector, snapshots *snapshot.Store, logger *zap.Logger) *Crawler {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Crawler{
		fetcher:   fetcher,
		maxPages:  maxPages,
		collector: collector,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Run crawls from startURL until no next-link is found, a page revisit is
// detected, the page bound is hit, or a fetch fails. Failures past the
// first page degrade to partial results; a first-page failure yields an
// empty result. Never panics across this boundary.
func (c *Crawler) Run(ctx context.Context, startURL string) *types.CrawlResult {
	result := &types.CrawlResult{}
	visited := make(map[uint64]struct{})

	pageURL := startURL
	for pageURL != "" {
		if result.PagesVisited >= c.maxPages {
			c.logger.Warn("Page bound reached, stopping crawl",
				zap.Int("max_pages", c.maxPages),
				zap.String("next_url", pageURL))
			break
		}

		key := urlutil.HashURL(pageURL)
		if _, seen := visited[key]; seen {
			c.logger.Warn("Refusing to revisit page",
				zap.String("url", pageURL))
			break
		}
		visited[key] = struct{}{}

		fetched, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			c.logger.Error("Fetch failed, stopping crawl",
				zap.String("url", pageURL),
				zap.Int("pages_visited", result.PagesVisited),
				zap.Error(err))
			break
		}
		if !fetched.Success {
			c.logger.Warn("Fetch returned failure, stopping crawl",
				zap.String("url", pageURL),
				zap.Int("status_code", fetched.StatusCode),
				zap.Int("pages_visited", result.PagesVisited))
			break
		}

		result.PagesVisited++
		if c.snapshots != nil {
			c.snapshots.Save(pageURL, fetched.Body)
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fetched.Body))
		if err != nil {
			c.logger.Warn("Page did not parse, stopping crawl",
				zap.String("url", pageURL),
				zap.Error(err))
			break
		}

		c.extractPage(doc, pageURL, result)

		pageURL = c.nextPageURL(doc, pageURL)
	}

	return result
}

// extractPage runs panel extraction and segmentation over one parsed page,
// appending tagged items to the accumulator.
func (c *Crawler) extractPage(doc *goquery.Document, pageURL string, result *types.CrawlResult) {
	panels := menu.ExtractPanels(doc)

	pageItems := 0
	var pageAnomalies types.SegmentAnomalies
	for _, panel := range panels {
		items, anomalies := menu.Segment(panel.Lines)
		for _, item := range items {
			item.Category = panel.Title
			result.Items = append(result.Items, item)
		}
		pageItems += len(items)
		pageAnomalies.Add(anomalies)
	}

	result.Anomalies.Add(pageAnomalies)
	c.collector.RecordPage(pageItems, pageAnomalies)

	c.logger.Info("Page extracted",
		zap.String("url", pageURL),
		zap.Int("categories", len(panels)),
		zap.Int("items", pageItems),
		zap.Int("orphan_prices", pageAnomalies.OrphanPrices),
		zap.Int("incomplete_items", pageAnomalies.IncompleteItems))
}

// nextPageURL returns the resolved destination of the page's pagination
// anchor, or "" when the first such anchor is absent or carries no href.
func (c *Crawler) nextPageURL(doc *goquery.Document, pageURL string) string {
	href, ok := doc.Find(nextLinkSelector).First().Attr("href")
	if !ok || href == "" {
		return ""
	}

	next := urlutil.Resolve(pageURL, href)
	if next == "" {
		c.logger.Warn("Next link did not resolve",
			zap.String("url", pageURL),
			zap.String("href", href))
		return ""
	}

	c.logger.Info("Following pagination",
		zap.String("from", pageURL),
		zap.String("to", next))
	return next
}
