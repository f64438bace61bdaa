package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crawlbite/menuscan/internal/analyze"
	"github.com/crawlbite/menuscan/internal/common/config"
	logutil "github.com/crawlbite/menuscan/internal/common/logger"
	"github.com/crawlbite/menuscan/internal/common/metricsserver"
	"github.com/crawlbite/menuscan/internal/crawl"
	"github.com/crawlbite/menuscan/internal/fetch"
	"github.com/crawlbite/menuscan/internal/metrics"
	"github.com/crawlbite/menuscan/internal/render/chrome"
	"github.com/crawlbite/menuscan/internal/report"
	"github.com/crawlbite/menuscan/internal/snapshot"
	"github.com/crawlbite/menuscan/pkg/types"
)

func main() {
	configPath := flag.String("c", "configs/menuscan.yaml",
		"Path to scan configuration file")
	siteURL := flag.String("site", "",
		"Site root URL (overrides site_url from config)")
	output := flag.String("o", "",
		"Report output path (overrides report.output; empty writes to stdout)")
	flag.Parse()

	initialLogger, err := logutil.NewDefaultLogger()
	if err != nil {
		panic(err)
	}

	initialLogger.Info("Loading configuration", zap.String("path", *configPath))

	cfg, err := config.Load(*configPath)
	if err != nil {
		initialLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if *siteURL != "" {
		cfg.SiteURL = *siteURL
		if err := cfg.Validate(); err != nil {
			initialLogger.Fatal("Invalid site URL", zap.Error(err))
		}
	}
	if *output != "" {
		cfg.Report.Output = *output
	}

	logger, err := logutil.NewLogger(cfg.Log)
	if err != nil {
		initialLogger.Fatal("Failed to create configured logger", zap.Error(err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scanID := uuid.NewString()
	logger.Info("Scan starting",
		zap.String("scan_id", scanID),
		zap.String("site", cfg.SiteURL),
		zap.String("menu_url", cfg.MenuURL()))

	collector := metrics.NewMetricsCollector(cfg.Metrics.Namespace, logger)

	metricsServer, err := metricsserver.Start(cfg.Metrics, collector, logger)
	if err != nil {
		logger.Fatal("Failed to start metrics server", zap.Error(err))
	}

	reportData, err := runScan(ctx, cfg, scanID, collector, logger)
	if err != nil {
		logger.Fatal("Scan failed", zap.Error(err))
	}

	if err := writeReport(cfg.Report.Output, reportData); err != nil {
		logger.Fatal("Failed to write report", zap.Error(err))
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Warn("Metrics server shutdown failed", zap.Error(err))
		}
	}

	logger.Info("Scan complete",
		zap.String("scan_id", scanID),
		zap.Int("pages_visited", reportData.PagesVisited),
		zap.Int("items", len(reportData.Items)),
		zap.Duration("duration", reportData.Duration))
}

// runScan runs the full pipeline: robots and homepage analysis, render-mode
// selection, the pagination crawl, and report assembly.
func runScan(
	ctx context.Context,
	cfg *config.ScanConfig,
	scanID string,
	collector *metrics.MetricsCollector,
	logger *zap.Logger,
) (*types.ScanReport, error) {
	start := time.Now()

	fetchConfig := fetch.Config{
		Timeout:        cfg.Fetch.Timeout.ToDuration(),
		Retries:        cfg.Fetch.Retries,
		BackoffInitial: cfg.Fetch.BackoffInitial.ToDuration(),
		UserAgent:      cfg.Fetch.UserAgent,
	}
	httpFetcher := fetch.NewHTTPFetcher(fetchConfig, collector, logger)

	facts, agentAccess := analyze.NewRobotsAnalyzer(httpFetcher, logger).Analyze(ctx, cfg.SiteURL)

	discovery := discoverHomepage(ctx, httpFetcher, cfg.SiteURL, logger)

	menuURL := cfg.MenuURL()
	facts.JSHeavy = probeJSHeavy(ctx, httpFetcher, menuURL, logger)

	fetcher, cleanup, err := selectFetcher(cfg, httpFetcher, facts.JSHeavy, collector, logger)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	var snapshots *snapshot.Store
	if cfg.Snapshot.Dir != "" {
		snapshots, err = snapshot.NewStore(cfg.Snapshot.Dir, cfg.Snapshot.Compression, logger)
		if err != nil {
			return nil, err
		}
	}

	crawler := crawl.New(fetcher, cfg.Crawl.MaxPages, collector, snapshots, logger)
	crawlResult := crawler.Run(ctx, menuURL)

	scanReport := &types.ScanReport{
		ScanID:          scanID,
		SiteURL:         cfg.SiteURL,
		StartURL:        menuURL,
		Items:           crawlResult.Items,
		PagesVisited:    crawlResult.PagesVisited,
		Anomalies:       crawlResult.Anomalies,
		Facts:           facts,
		Score:           analyze.Score(facts),
		Recommendations: analyze.Recommend(facts.JSHeavy, facts.Sitemaps),
		AgentAccess:     agentAccess,
		Discovery:       discovery,
		Duration:        time.Since(start),
	}
	report.Summarize(scanReport)

	return scanReport, nil
}

// discoverHomepage fetches the site root and scans it for feeds and API
// links. Failures degrade to an empty discovery, never a fatal error.
func discoverHomepage(ctx context.Context, fetcher *fetch.HTTPFetcher, siteURL string, logger *zap.Logger) types.SiteDiscovery {
	result, err := fetcher.Fetch(ctx, siteURL)
	if err != nil || !result.Success {
		logger.Warn("Homepage fetch failed, skipping discovery", zap.String("url", siteURL))
		return types.SiteDiscovery{}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body))
	if err != nil {
		logger.Warn("Homepage parse failed, skipping discovery", zap.Error(err))
		return types.SiteDiscovery{}
	}

	return analyze.Discover(doc)
}

// probeJSHeavy fetches the menu page once over plain HTTP to judge whether
// the markup needs a browser. An unreachable page counts as not JS-heavy.
func probeJSHeavy(ctx context.Context, fetcher *fetch.HTTPFetcher, menuURL string, logger *zap.Logger) bool {
	result, err := fetcher.Fetch(ctx, menuURL)
	if err != nil || !result.Success {
		logger.Warn("Menu page probe failed", zap.String("url", menuURL))
		return false
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body))
	if err != nil {
		logger.Warn("Menu page parse failed", zap.Error(err))
		return false
	}

	return analyze.IsJSHeavy(doc)
}

// selectFetcher decides between plain HTTP and Chrome rendering. The
// returned cleanup shuts down the Chrome pool when one was started.
func selectFetcher(
	cfg *config.ScanConfig,
	httpFetcher *fetch.HTTPFetcher,
	jsHeavy bool,
	collector *metrics.MetricsCollector,
	logger *zap.Logger,
) (crawl.Fetcher, func(), error) {
	useRender := jsHeavy
	if cfg.Render.Force {
		useRender = true
	}
	if cfg.Render.Disable {
		useRender = false
	}

	if !useRender {
		logger.Info("Using plain HTTP fetcher", zap.Bool("js_heavy", jsHeavy))
		return httpFetcher, func() {}, nil
	}

	logger.Info("Using Chrome rendering fetcher", zap.Bool("js_heavy", jsHeavy))

	chromeConfig := &chrome.Config{
		PoolSize:          cfg.Render.PoolSize,
		NavTimeout:        cfg.Render.NavTimeout.ToDuration(),
		SettleTimeout:     cfg.Render.SettleTimeout.ToDuration(),
		SettleInterval:    cfg.Render.SettleInterval.ToDuration(),
		RestartAfterCount: cfg.Render.RestartAfterCount,
	}
	if err := chromeConfig.Validate(); err != nil {
		return nil, nil, err
	}

	pool, err := chrome.NewChromePool(chromeConfig, logger)
	if err != nil {
		return nil, nil, err
	}

	return chrome.NewRenderFetcher(pool, chromeConfig, collector, logger), pool.Shutdown, nil
}

// writeReport renders the markdown report to the configured output.
func writeReport(outputPath string, scanReport *types.ScanReport) error {
	var out io.Writer = os.Stdout
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	return report.NewMarkdownWriter(out).Write(scanReport)
}
