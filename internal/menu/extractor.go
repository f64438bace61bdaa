package menu

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/crawlbite/menuscan/pkg/types"
)

// Panel markup follows the WPBakery tabbed-accordion convention the target
// layout uses: grouped panels with a heading title and a body region.
const (
	panelSelector        = "div.vc_tta-panel"
	headingTitleSelector = "div.vc_tta-panel-heading span.vc_tta-title-text"
	panelBodySelector    = "div.vc_tta-panel-body"

	// UnnamedCategory is the title used when a panel has no heading title.
	UnnamedCategory = "Unnamed Category"
)

// ExtractPanels locates category panels in document order. Panels without a
// body region are skipped entirely.
func ExtractPanels(doc *goquery.Document) []types.CategoryPanel {
	var panels []types.CategoryPanel

	doc.Find(panelSelector).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(headingTitleSelector).First().Text())
		if title == "" {
			title = UnnamedCategory
		}

		body := sel.Find(panelBodySelector).First()
		if body.Length() == 0 {
			return
		}

		panels = append(panels, types.CategoryPanel{
			Title: title,
			Lines: textLines(body),
		})
	})

	return panels
}

// textLines renders the selection's text with a newline between adjacent
// text nodes, then splits, trims, and drops empty lines, preserving
// document order.
func textLines(sel *goquery.Selection) []string {
	var sb strings.Builder
	for _, node := range sel.Nodes {
		appendTextNodes(&sb, node)
	}

	raw := strings.Split(sb.String(), "\n")
	lines := make([]string, 0, len(raw))
	for _, r := range raw {
		if line := strings.TrimSpace(r); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func appendTextNodes(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendTextNodes(sb, c)
	}
}
