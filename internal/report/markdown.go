package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/crawlbite/menuscan/pkg/types"
)

// MarkdownWriter renders a scan report as GitHub-flavored markdown.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that writes to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write renders the full report.
func (w *MarkdownWriter) Write(report *types.ScanReport) error {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeCrawlability(md, report)
	w.writeAgentAccess(md, report)
	w.writeDiscovery(md, report)
	w.writeSummary(md, report)
	w.writeItems(md, report)
	w.writeFooter(md)

	return md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *types.ScanReport) {
	md.H1("Menu Scan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", report.SiteURL},
			{"Start URL", report.StartURL},
			{"Scan ID", "`" + report.ScanID + "`"},
			{"Pages Visited", strconv.Itoa(report.PagesVisited)},
			{"Items Extracted", strconv.Itoa(len(report.Items))},
			{"Duration", report.Duration.String()},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeCrawlability(md *markdown.Markdown, report *types.ScanReport) {
	md.H2("Crawlability")
	md.PlainText("")

	facts := report.Facts
	md.Table(markdown.TableSet{
		Header: []string{"Check", "Result"},
		Rows: [][]string{
			{"robots.txt present", yesNo(facts.HasRobots)},
			{"Crawl delays declared", yesNo(len(facts.CrawlDelays) > 0)},
			{"Sitemaps declared", yesNo(len(facts.Sitemaps) > 0)},
			{"JavaScript-heavy markup", yesNo(facts.JSHeavy)},
		},
	})
	md.PlainText("")

	md.PlainTextf("**Crawlability score: %d / 100**", report.Score)
	md.PlainText("")

	switch {
	case report.Score >= 70:
		md.Tip(fmt.Sprintf("This site is friendly to crawlers (score %d).", report.Score))
	case report.Score >= 40:
		md.Note(fmt.Sprintf("This site is moderately crawlable (score %d).", report.Score))
	default:
		md.Warningf("This site is hard to crawl (score %d).", report.Score)
	}
	md.PlainText("")

	if len(report.Recommendations) > 0 {
		md.H3("Recommendations")
		md.PlainText("")
		md.BulletList(report.Recommendations...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeAgentAccess(md *markdown.Markdown, report *types.ScanReport) {
	if len(report.AgentAccess) == 0 {
		return
	}

	md.H2("Robots Policy by Agent")
	md.PlainText("")

	rows := make([][]string, len(report.AgentAccess))
	for i, access := range report.AgentAccess {
		verdict := "Blocked"
		if access.Allowed {
			verdict = "Allowed"
		}
		rows[i] = []string{access.UserAgent, verdict}
	}
	md.Table(markdown.TableSet{
		Header: []string{"User-Agent", "Root Access"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeDiscovery(md *markdown.Markdown, report *types.ScanReport) {
	md.H2("Discovered Surfaces")
	md.PlainText("")

	if len(report.Facts.Sitemaps) > 0 {
		md.H3("Sitemaps")
		md.PlainText("")
		md.BulletList(report.Facts.Sitemaps...)
		md.PlainText("")
	}

	if len(report.Discovery.RSSFeeds) > 0 {
		md.H3("RSS Feeds")
		md.PlainText("")
		md.BulletList(report.Discovery.RSSFeeds...)
		md.PlainText("")
	}

	if len(report.Discovery.APIEndpoints) > 0 {
		md.H3("API Endpoints")
		md.PlainText("")
		md.BulletList(report.Discovery.APIEndpoints...)
		md.PlainText("")
	}

	if len(report.Facts.Sitemaps) == 0 &&
		len(report.Discovery.RSSFeeds) == 0 &&
		len(report.Discovery.APIEndpoints) == 0 {
		md.PlainText("No sitemaps, feeds, or API endpoints found.")
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *types.ScanReport) {
	md.H2("Menu Summary")
	md.PlainText("")

	if len(report.TopCategories) > 0 {
		md.H3("Largest Categories")
		md.PlainText("")
		rows := make([][]string, len(report.TopCategories))
		for i, c := range report.TopCategories {
			rows[i] = []string{c.Category, strconv.Itoa(c.Count)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Category", "Items"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(report.TopPriced) > 0 {
		md.H3("Most Expensive Items")
		md.PlainText("")
		rows := make([][]string, len(report.TopPriced))
		for i, item := range report.TopPriced {
			rows[i] = []string{item.Name, item.Category, item.Price}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Item", "Category", "Price"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	anomalies := report.Anomalies
	if anomalies.OrphanPrices > 0 || anomalies.IncompleteItems > 0 {
		md.Warningf(
			"Extraction anomalies: %d orphan price(s), %d incomplete item(s).",
			anomalies.OrphanPrices, anomalies.IncompleteItems,
		)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeItems(md *markdown.Markdown, report *types.ScanReport) {
	md.H2("Menu Items")
	md.PlainText("")

	if len(report.Items) == 0 {
		md.PlainText("No menu items extracted.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Items))
	for i, item := range report.Items {
		rows[i] = []string{
			item.Category,
			item.Name,
			truncate(strings.TrimSpace(item.Description), 60),
			item.Price,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Name", "Description", "Price"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Generated by [menuscan](https://github.com/crawlbite/menuscan)*")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// truncate shortens a string to maxLen with an ellipsis.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
