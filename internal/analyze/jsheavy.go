// Package analyze holds the crawlability heuristics: JS-heaviness
// detection, robots.txt analysis, feed/API discovery, and the score.
package analyze

import "github.com/PuerkitoBio/goquery"

const (
	// scriptTagThreshold is the script count above which a page is
	// considered JavaScript-heavy.
	scriptTagThreshold = 10

	// contentTagSelector matches the content-bearing tags whose complete
	// absence suggests the page body is built client-side.
	contentTagSelector = "div, p, span, table"
)

// IsJSHeavy reports whether a page likely needs a browser to render.
// Cheap and false-positive-prone; it only picks the fetch strategy.
func IsJSHeavy(doc *goquery.Document) bool {
	if doc.Find("script").Length() > scriptTagThreshold {
		return true
	}
	return doc.Find(contentTagSelector).Length() == 0
}
