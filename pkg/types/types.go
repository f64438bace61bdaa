package types

import "time"

// LineKind classifies a single line of panel text.
type LineKind int

const (
	// LineFragment is a line contributing to an item name or running description.
	LineFragment LineKind = iota
	// LinePrice is a line containing a price anywhere in its text.
	LinePrice
	// LinePriceOnly is a line that consists solely of a price.
	LinePriceOnly
	// LineNoise is a filler token ("price", "l.e", "le") carrying no data.
	LineNoise
)

// String returns a human-readable name for the line kind.
func (k LineKind) String() string {
	switch k {
	case LinePrice:
		return "price"
	case LinePriceOnly:
		return "price_only"
	case LineNoise:
		return "noise"
	default:
		return "fragment"
	}
}

// ClassifiedLine is a panel text line tagged with its kind.
// Amount holds the extracted digit group for price kinds, without currency suffix.
type ClassifiedLine struct {
	Text   string
	Kind   LineKind
	Amount string
}

// MenuItem is a finalized menu record. Items are only emitted once a price
// has been attached; Name and Price are never empty.
type MenuItem struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// CategoryPanel is one menu category region: a title plus the body's
// non-empty trimmed text lines in document order.
type CategoryPanel struct {
	Title string
	Lines []string
}

// SegmentAnomalies counts lines the segmenter dropped rather than emitted.
type SegmentAnomalies struct {
	// OrphanPrices counts price lines consumed with no pending item to attach to.
	OrphanPrices int
	// IncompleteItems counts pending items discarded at end of panel without a price.
	IncompleteItems int
}

// Add accumulates counts from another anomaly set.
func (a *SegmentAnomalies) Add(other SegmentAnomalies) {
	a.OrphanPrices += other.OrphanPrices
	a.IncompleteItems += other.IncompleteItems
}

// FetchResult is the outcome of fetching one page, by either fetch mode.
type FetchResult struct {
	URL        string
	FinalURL   string
	StatusCode int
	Body       []byte
	Success    bool
	Mode       string // FetchModeHTTP or FetchModeRender
	Duration   time.Duration
}

// Fetch modes reported in FetchResult and metrics labels.
const (
	FetchModeHTTP   = "http"
	FetchModeRender = "render"
)

// CrawlResult is the accumulated output of one pagination crawl.
type CrawlResult struct {
	Items        []MenuItem
	PagesVisited int
	Anomalies    SegmentAnomalies
}

// CrawlabilityFacts are the inputs to the crawlability score.
// Immutable once computed.
type CrawlabilityFacts struct {
	HasRobots   bool
	CrawlDelays []string
	Sitemaps    []string
	JSHeavy     bool
}

// AgentAccess records whether a given user agent may crawl the site root
// according to robots.txt.
type AgentAccess struct {
	UserAgent string
	Allowed   bool
}

// SiteDiscovery lists machine-readable entry points found on the homepage.
type SiteDiscovery struct {
	RSSFeeds     []string
	APIEndpoints []string
}

// CategoryCount pairs a category with its item count, for report summaries.
type CategoryCount struct {
	Category string
	Count    int
}

// ScanReport aggregates everything a scan produced for the report layer.
// Components below the report layer never write output themselves.
type ScanReport struct {
	ScanID          string
	SiteURL         string
	StartURL        string
	Items           []MenuItem
	PagesVisited    int
	Anomalies       SegmentAnomalies
	Facts           CrawlabilityFacts
	Score           int
	Recommendations []string
	AgentAccess     []AgentAccess
	Discovery       SiteDiscovery
	TopCategories   []CategoryCount
	TopPriced       []MenuItem
	Duration        time.Duration
}
