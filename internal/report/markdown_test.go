package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crawlbite/menuscan/pkg/types"
)

func sampleReport() *types.ScanReport {
	r := &types.ScanReport{
		ScanID:       "f8a1c2d3",
		SiteURL:      "https://example.com",
		StartURL:     "https://example.com/menu-m/",
		PagesVisited: 3,
		Items: []types.MenuItem{
			{Category: "Pizza", Name: "Margherita", Description: " Tomato and mozzarella", Price: "90 L.E"},
			{Category: "Pizza", Name: "Pepperoni", Price: "110 L.E"},
			{Category: "Salads", Name: "Caesar", Price: "65 L.E"},
		},
		Facts: types.CrawlabilityFacts{
			HasRobots: true,
			Sitemaps:  []string{"https://example.com/sitemap.xml"},
		},
		Score:           85,
		Recommendations: []string{"Plain HTTP fetching with an HTML parser is sufficient for this site."},
		AgentAccess: []types.AgentAccess{
			{UserAgent: "*", Allowed: true},
			{UserAgent: "Googlebot", Allowed: true},
			{UserAgent: "Bingbot", Allowed: false},
		},
		Discovery: types.SiteDiscovery{
			RSSFeeds: []string{"https://example.com/feed"},
		},
		Duration: 1200 * time.Millisecond,
	}
	Summarize(r)
	return r
}

func TestMarkdownWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	require.NoError(t, w.Write(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "# Menu Scan Report")
	assert.Contains(t, out, "https://example.com/menu-m/")
	assert.Contains(t, out, "## Crawlability")
	assert.Contains(t, out, "Crawlability score: 85 / 100")
	assert.Contains(t, out, "Pepperoni")
	assert.Contains(t, out, "110 L.E")
	assert.Contains(t, out, "Googlebot")
	assert.Contains(t, out, "Blocked")
	assert.Contains(t, out, "https://example.com/sitemap.xml")
	assert.Contains(t, out, "https://example.com/feed")
	assert.Contains(t, out, "### Largest Categories")
}

func TestMarkdownWriterEmptyScan(t *testing.T) {
	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	r := &types.ScanReport{
		ScanID:   "deadbeef",
		SiteURL:  "https://example.com",
		StartURL: "https://example.com/menu-m/",
	}
	Summarize(r)

	require.NoError(t, w.Write(r))
	out := buf.String()

	assert.Contains(t, out, "No menu items extracted.")
	assert.Contains(t, out, "No sitemaps, feeds, or API endpoints found.")
	assert.Contains(t, out, "hard to crawl")
}

func TestMarkdownWriterAnomalies(t *testing.T) {
	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	r := sampleReport()
	r.Anomalies = types.SegmentAnomalies{OrphanPrices: 2, IncompleteItems: 1}

	require.NoError(t, w.Write(r))

	assert.Contains(t, buf.String(), "2 orphan price(s)")
	assert.Contains(t, buf.String(), "1 incomplete item(s)")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijk", 10))
	assert.Equal(t, "ab", truncate("abcd", 2))
}
