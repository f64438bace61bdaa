// Package testhelpers builds fixture restaurant sites for acceptance tests.
package testhelpers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
)

// PanelFixture is one accordion panel on a fixture menu page.
type PanelFixture struct {
	Title string
	Lines []string
}

// PageFixture is one page of the paginated fixture menu.
type PageFixture struct {
	Panels []PanelFixture
	// NextPath links the pagination anchor; empty means last page.
	NextPath string
}

// SiteFixture describes a complete fixture restaurant site.
type SiteFixture struct {
	// Robots is served at /robots.txt when non-empty.
	Robots string
	// HomepageExtra is injected into the homepage head and body,
	// for RSS links and API anchors.
	HomepageExtra string
	// Pages maps request paths to menu pages.
	Pages map[string]PageFixture
	// ScriptHeavyPaths render their page with enough script tags to
	// trip the JS-heaviness check.
	ScriptHeavyPaths map[string]bool
}

// Server wraps an httptest server serving a SiteFixture.
type Server struct {
	*httptest.Server
	fixture  SiteFixture
	requests []string
}

// NewServer starts a fixture site server. Callers own Close.
func NewServer(fixture SiteFixture) *Server {
	s := &Server{fixture: fixture}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Requests returns every path requested so far, in order.
func (s *Server) Requests() []string {
	return s.requests
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.requests = append(s.requests, r.URL.Path)

	switch {
	case r.URL.Path == "/robots.txt":
		if s.fixture.Robots == "" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, s.fixture.Robots)

	case r.URL.Path == "/":
		fmt.Fprint(w, s.homepage())

	default:
		page, ok := s.fixture.Pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, s.menuPage(page, s.fixture.ScriptHeavyPaths[r.URL.Path]))
	}
}

func (s *Server) homepage() string {
	return fmt.Sprintf(`<html>
<head><title>Fixture Restaurant</title>%s</head>
<body>
<div><p>Welcome to the fixture restaurant.</p></div>
<span>Open daily.</span>
</body>
</html>`, s.fixture.HomepageExtra)
}

func (s *Server) menuPage(page PageFixture, scriptHeavy bool) string {
	var b strings.Builder
	b.WriteString("<html><head><title>Menu</title></head><body>\n")

	if scriptHeavy {
		for i := 0; i < 12; i++ {
			fmt.Fprintf(&b, "<script>var fixture%d = %d;</script>\n", i, i)
		}
	}

	for _, panel := range page.Panels {
		b.WriteString(`<div class="vc_tta-panel">`)
		b.WriteString(`<div class="vc_tta-panel-heading"><span class="vc_tta-title-text">`)
		b.WriteString(panel.Title)
		b.WriteString(`</span></div>`)
		b.WriteString(`<div class="vc_tta-panel-body">`)
		for _, line := range panel.Lines {
			b.WriteString("<p>" + line + "</p>")
		}
		b.WriteString(`</div></div>` + "\n")
	}

	if page.NextPath != "" {
		fmt.Fprintf(&b, `<a class="next" href="%s">Next</a>`+"\n", page.NextPath)
	}

	b.WriteString("</body></html>")
	return b.String()
}
