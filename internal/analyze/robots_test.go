package analyze

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crawlbite/menuscan/pkg/types"
)

// stubFetcher serves a canned result for any URL.
type stubFetcher struct {
	result *types.FetchResult
	err    error
	gotURL string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (*types.FetchResult, error) {
	s.gotURL = url
	return s.result, s.err
}

func TestRobotsAnalyzerAnalyze(t *testing.T) {
	body := `User-agent: *
Disallow: /admin/
Crawl-delay: 10

User-agent: Bingbot
Disallow: /

Sitemap: https://example.com/sitemap.xml
sitemap: https://example.com/menu-sitemap.xml
`
	fetcher := &stubFetcher{result: &types.FetchResult{
		StatusCode: 200,
		Body:       []byte(body),
		Success:    true,
	}}

	ra := NewRobotsAnalyzer(fetcher, zap.NewNop())
	facts, access := ra.Analyze(context.Background(), "https://example.com/")

	assert.Equal(t, "https://example.com/robots.txt", fetcher.gotURL)
	assert.True(t, facts.HasRobots)
	assert.Equal(t, []string{"10"}, facts.CrawlDelays)
	assert.Equal(t, []string{
		"https://example.com/sitemap.xml",
		"https://example.com/menu-sitemap.xml",
	}, facts.Sitemaps)

	require.Len(t, access, 3)
	assert.Equal(t, types.AgentAccess{UserAgent: "*", Allowed: true}, access[0])
	assert.Equal(t, types.AgentAccess{UserAgent: "Googlebot", Allowed: true}, access[1])
	assert.Equal(t, types.AgentAccess{UserAgent: "Bingbot", Allowed: false}, access[2])
}

func TestRobotsAnalyzerMissingRobots(t *testing.T) {
	fetcher := &stubFetcher{result: &types.FetchResult{StatusCode: 404}}

	ra := NewRobotsAnalyzer(fetcher, zap.NewNop())
	facts, access := ra.Analyze(context.Background(), "https://example.com")

	assert.False(t, facts.HasRobots)
	assert.Empty(t, facts.Sitemaps)
	assert.Empty(t, facts.CrawlDelays)
	assert.Nil(t, access)
}

func TestRobotsAnalyzerTransportError(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}

	ra := NewRobotsAnalyzer(fetcher, zap.NewNop())
	facts, _ := ra.Analyze(context.Background(), "https://example.com")

	assert.False(t, facts.HasRobots)
}

func TestRobotsAnalyzerInvalidSiteURL(t *testing.T) {
	fetcher := &stubFetcher{}

	ra := NewRobotsAnalyzer(fetcher, zap.NewNop())
	facts, access := ra.Analyze(context.Background(), "not a url")

	assert.False(t, facts.HasRobots)
	assert.Nil(t, access)
	assert.Empty(t, fetcher.gotURL)
}
