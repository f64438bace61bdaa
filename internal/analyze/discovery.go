package analyze

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/crawlbite/menuscan/pkg/types"
)

// Discover lists machine-readable entry points advertised on a page:
// RSS feed links and anchors that look like API endpoints.
func Discover(doc *goquery.Document) types.SiteDiscovery {
	var discovery types.SiteDiscovery

	doc.Find(`link[type="application/rss+xml"]`).Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			discovery.RSSFeeds = append(discovery.RSSFeeds, href)
		}
	})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if strings.Contains(strings.ToLower(href), "/api/") {
			discovery.APIEndpoints = append(discovery.APIEndpoints, href)
		}
	})

	return discovery
}
