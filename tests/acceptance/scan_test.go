package acceptance_test

import (
	"bytes"
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/crawlbite/menuscan/internal/analyze"
	"github.com/crawlbite/menuscan/internal/crawl"
	"github.com/crawlbite/menuscan/internal/fetch"
	"github.com/crawlbite/menuscan/internal/metrics"
	"github.com/crawlbite/menuscan/internal/report"
	"github.com/crawlbite/menuscan/pkg/types"
	"github.com/crawlbite/menuscan/tests/testhelpers"
)

func newHTTPFetcher() *fetch.HTTPFetcher {
	cfg := fetch.DefaultConfig()
	cfg.Timeout = 5 * time.Second
	cfg.BackoffInitial = 10 * time.Millisecond
	collector := metrics.NewMetricsCollector("menuscan_acceptance", zap.NewNop())
	return fetch.NewHTTPFetcher(cfg, collector, zap.NewNop())
}

func newCrawler(fetcher crawl.Fetcher, maxPages int) *crawl.Crawler {
	collector := metrics.NewMetricsCollector("menuscan_acceptance", zap.NewNop())
	return crawl.New(fetcher, maxPages, collector, nil, zap.NewNop())
}

var menuFixture = map[string]testhelpers.PageFixture{
	"/menu-m/": {
		Panels: []testhelpers.PanelFixture{
			{Title: "Pizza", Lines: []string{
				"Margherita", "Tomato and mozzarella", "Price: 90 L.E",
				"Pepperoni", "110 L.E",
			}},
			{Title: "Salads", Lines: []string{
				"Caesar Salad", "65 L.E",
			}},
		},
		NextPath: "/menu-m/page/2/",
	},
	"/menu-m/page/2/": {
		Panels: []testhelpers.PanelFixture{
			{Title: "Grills", Lines: []string{
				"Mixed Grill", "Serves two", "220 L.E",
			}},
		},
		NextPath: "/menu-m/page/3/",
	},
	"/menu-m/page/3/": {
		Panels: []testhelpers.PanelFixture{
			{Title: "Drinks", Lines: []string{
				"Fresh Juice", "35 L.E",
			}},
		},
	},
}

var _ = Describe("Menu scan pipeline", func() {
	var (
		server *testhelpers.Server
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
	})

	Describe("crawling a paginated menu", func() {
		BeforeEach(func() {
			server = testhelpers.NewServer(testhelpers.SiteFixture{Pages: menuFixture})
		})

		It("walks every page in order and extracts all items", func() {
			crawler := newCrawler(newHTTPFetcher(), crawl.DefaultMaxPages)
			result := crawler.Run(ctx, server.URL+"/menu-m/")

			Expect(result.PagesVisited).To(Equal(3))
			Expect(result.Items).To(HaveLen(5))

			Expect(result.Items[0].Category).To(Equal("Pizza"))
			Expect(result.Items[0].Name).To(Equal("Margherita"))
			Expect(result.Items[0].Description).To(ContainSubstring("Tomato and mozzarella"))
			Expect(result.Items[0].Price).To(Equal("90 L.E"))

			Expect(result.Items[3].Category).To(Equal("Grills"))
			Expect(result.Items[3].Name).To(Equal("Mixed Grill"))
			Expect(result.Items[3].Price).To(Equal("220 L.E"))

			Expect(result.Items[4].Category).To(Equal("Drinks"))
		})

		It("stops at the page cap and keeps what it has", func() {
			crawler := newCrawler(newHTTPFetcher(), 2)
			result := crawler.Run(ctx, server.URL+"/menu-m/")

			Expect(result.PagesVisited).To(Equal(2))
			Expect(result.Items).To(HaveLen(4))
		})

		It("returns an empty result when the first page is missing", func() {
			crawler := newCrawler(newHTTPFetcher(), crawl.DefaultMaxPages)
			result := crawler.Run(ctx, server.URL+"/no-such-menu/")

			Expect(result.PagesVisited).To(BeZero())
			Expect(result.Items).To(BeEmpty())
		})
	})

	Describe("crawlability analysis", func() {
		It("reads robots directives and probes agent access", func() {
			server = testhelpers.NewServer(testhelpers.SiteFixture{
				Robots: "User-agent: *\nCrawl-delay: 5\nAllow: /\n\nUser-agent: Bingbot\nDisallow: /\n\nSitemap: https://fixture.example/sitemap.xml\n",
				Pages:  menuFixture,
			})

			analyzer := analyze.NewRobotsAnalyzer(newHTTPFetcher(), zap.NewNop())
			facts, access := analyzer.Analyze(ctx, server.URL)

			Expect(facts.HasRobots).To(BeTrue())
			Expect(facts.CrawlDelays).To(ContainElement("5"))
			Expect(facts.Sitemaps).To(ContainElement("https://fixture.example/sitemap.xml"))

			byAgent := map[string]bool{}
			for _, a := range access {
				byAgent[a.UserAgent] = a.Allowed
			}
			Expect(byAgent).To(HaveKeyWithValue("*", true))
			Expect(byAgent).To(HaveKeyWithValue("Googlebot", true))
			Expect(byAgent).To(HaveKeyWithValue("Bingbot", false))
		})

		It("reports nothing when robots.txt is missing", func() {
			server = testhelpers.NewServer(testhelpers.SiteFixture{Pages: menuFixture})

			analyzer := analyze.NewRobotsAnalyzer(newHTTPFetcher(), zap.NewNop())
			facts, access := analyzer.Analyze(ctx, server.URL)

			Expect(facts.HasRobots).To(BeFalse())
			Expect(facts.Sitemaps).To(BeEmpty())
			Expect(access).To(BeEmpty())
		})

		It("flags script-heavy menu pages", func() {
			server = testhelpers.NewServer(testhelpers.SiteFixture{
				Pages:            menuFixture,
				ScriptHeavyPaths: map[string]bool{"/menu-m/": true},
			})

			result, err := newHTTPFetcher().Fetch(ctx, server.URL+"/menu-m/")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Success).To(BeTrue())

			doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body))
			Expect(err).NotTo(HaveOccurred())
			Expect(analyze.IsJSHeavy(doc)).To(BeTrue())
		})

		It("finds feeds and API links on the homepage", func() {
			server = testhelpers.NewServer(testhelpers.SiteFixture{
				HomepageExtra: `<link type="application/rss+xml" href="/feed"/>` +
					`<a href="/api/v1/menu">API</a>`,
				Pages: menuFixture,
			})

			result, err := newHTTPFetcher().Fetch(ctx, server.URL+"/")
			Expect(err).NotTo(HaveOccurred())

			doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body))
			Expect(err).NotTo(HaveOccurred())

			discovery := analyze.Discover(doc)
			Expect(discovery.RSSFeeds).To(ContainElement("/feed"))
			Expect(discovery.APIEndpoints).To(ContainElement("/api/v1/menu"))
		})
	})

	Describe("end-to-end report", func() {
		It("produces a markdown report from a full scan", func() {
			server = testhelpers.NewServer(testhelpers.SiteFixture{
				Robots: "User-agent: *\nAllow: /\nSitemap: https://fixture.example/sitemap.xml\n",
				Pages:  menuFixture,
			})

			fetcher := newHTTPFetcher()
			facts, access := analyze.NewRobotsAnalyzer(fetcher, zap.NewNop()).Analyze(ctx, server.URL)

			crawler := newCrawler(fetcher, crawl.DefaultMaxPages)
			crawlResult := crawler.Run(ctx, server.URL+"/menu-m/")

			scanReport := &types.ScanReport{
				ScanID:          "acceptance",
				SiteURL:         server.URL,
				StartURL:        server.URL + "/menu-m/",
				Items:           crawlResult.Items,
				PagesVisited:    crawlResult.PagesVisited,
				Anomalies:       crawlResult.Anomalies,
				Facts:           facts,
				Score:           analyze.Score(facts),
				Recommendations: analyze.Recommend(facts.JSHeavy, facts.Sitemaps),
				AgentAccess:     access,
				Duration:        time.Second,
			}
			report.Summarize(scanReport)

			Expect(scanReport.Score).To(Equal(85))
			Expect(scanReport.TopPriced[0].Name).To(Equal("Mixed Grill"))

			var buf bytes.Buffer
			Expect(report.NewMarkdownWriter(&buf).Write(scanReport)).To(Succeed())

			out := buf.String()
			Expect(out).To(ContainSubstring("# Menu Scan Report"))
			Expect(out).To(ContainSubstring("Crawlability score: 85 / 100"))
			Expect(out).To(ContainSubstring("Mixed Grill"))
			Expect(out).To(ContainSubstring("https://fixture.example/sitemap.xml"))
		})
	})
})
