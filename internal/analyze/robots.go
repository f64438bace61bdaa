package analyze

import (
	"context"
	"strings"

	"github.com/temoto/robotstxt"
	"go.uber.org/zap"

	"github.com/crawlbite/menuscan/internal/common/urlutil"
	"github.com/crawlbite/menuscan/pkg/types"
)

// Fetcher is the page-fetch capability the analyzer needs. Satisfied by
// fetch.HTTPFetcher; robots.txt is always fetched without rendering.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*types.FetchResult, error)
}

// probeAgents are the user agents whose site-root access is probed
// against the parsed robots.txt.
var probeAgents = []string{"*", "Googlebot", "Bingbot"}

// RobotsAnalyzer derives CrawlabilityFacts from a site's robots.txt.
type RobotsAnalyzer struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewRobotsAnalyzer creates a RobotsAnalyzer using the given fetch capability.
func NewRobotsAnalyzer(fetcher Fetcher, logger *zap.Logger) *RobotsAnalyzer {
	return &RobotsAnalyzer{fetcher: fetcher, logger: logger}
}

// Analyze fetches <site>/robots.txt and extracts sitemap URLs, crawl-delay
// directives, and per-agent access to the site root. A missing or
// unfetchable robots.txt yields HasRobots=false with empty slices; it is
// not an error.
func (ra *RobotsAnalyzer) Analyze(ctx context.Context, siteURL string) (types.CrawlabilityFacts, []types.AgentAccess) {
	root, err := urlutil.SiteRoot(siteURL)
	if err != nil {
		ra.logger.Warn("invalid site URL", zap.String("url", siteURL), zap.Error(err))
		return types.CrawlabilityFacts{}, nil
	}
	robotsURL := root + "/robots.txt"

	result, err := ra.fetcher.Fetch(ctx, robotsURL)
	if err != nil || !result.Success {
		ra.logger.Warn("robots.txt not available",
			zap.String("url", robotsURL),
			zap.Error(err))
		return types.CrawlabilityFacts{}, nil
	}

	facts := types.CrawlabilityFacts{HasRobots: true}
	for _, line := range strings.Split(string(result.Body), "\n") {
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "sitemap:"):
			if v := directiveValue(line); v != "" {
				facts.Sitemaps = append(facts.Sitemaps, v)
			}
		case strings.HasPrefix(lower, "crawl-delay"):
			if v := directiveValue(line); v != "" {
				facts.CrawlDelays = append(facts.CrawlDelays, v)
			}
		}
	}

	access := ra.probeAccess(result.Body, siteURL)

	ra.logger.Info("robots.txt analyzed",
		zap.String("url", robotsURL),
		zap.Int("sitemaps", len(facts.Sitemaps)),
		zap.Int("crawl_delays", len(facts.CrawlDelays)))

	return facts, access
}

// probeAccess checks whether each probe agent may fetch the site root.
func (ra *RobotsAnalyzer) probeAccess(body []byte, siteURL string) []types.AgentAccess {
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		ra.logger.Warn("robots.txt parse failed", zap.Error(err))
		return nil
	}

	access := make([]types.AgentAccess, 0, len(probeAgents))
	for _, agent := range probeAgents {
		access = append(access, types.AgentAccess{
			UserAgent: agent,
			Allowed:   data.TestAgent("/", agent),
		})
	}
	return access
}

// directiveValue returns the trimmed text after the first colon of a
// robots.txt directive line, or "" when there is none.
func directiveValue(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}
