package analyze

import "github.com/crawlbite/menuscan/pkg/types"

// Score weights. They sum to exactly 100; contributions are additive and
// independent, with no interaction terms.
const (
	robotsWeight     = 25
	crawlDelayWeight = 15
	sitemapWeight    = 30
	staticPageWeight = 30
)

// Score computes the heuristic crawlability score in [0,100].
func Score(facts types.CrawlabilityFacts) int {
	score := 0
	if facts.HasRobots {
		score += robotsWeight
	}
	if len(facts.CrawlDelays) > 0 {
		score += crawlDelayWeight
	}
	if len(facts.Sitemaps) > 0 {
		score += sitemapWeight
	}
	if !facts.JSHeavy {
		score += staticPageWeight
	}
	return score
}

// Recommend returns fixed tooling advice selected by the JS verdict and
// sitemap presence. Deterministic; no external calls.
func Recommend(jsHeavy bool, sitemaps []string) []string {
	var recommendations []string
	if jsHeavy {
		recommendations = append(recommendations,
			"Use a headless browser (chromedp or Playwright) to render JavaScript-heavy pages.",
			"Budget for a browser pool; rendered fetches are an order of magnitude slower than plain HTTP.")
	} else {
		recommendations = append(recommendations,
			"Plain HTTP fetching with an HTML parser is sufficient for this site.",
			"A conventional crawling framework (e.g. Colly) scales well for static pages.")
	}
	if len(sitemaps) > 0 {
		recommendations = append(recommendations,
			"Utilize the published sitemap URLs to improve crawl efficiency.")
	}
	return recommendations
}
