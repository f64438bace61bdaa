// Package config loads and validates the scanner configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/crawlbite/menuscan/internal/common/yamlutil"
	"github.com/crawlbite/menuscan/internal/snapshot"
	"github.com/crawlbite/menuscan/pkg/types"
)

// ScanConfig is the root configuration for one scan run.
type ScanConfig struct {
	// SiteURL is the site root analyzed for robots/feeds ("https://host").
	SiteURL string `yaml:"site_url"`
	// MenuPath is the path of the paginated menu page, joined to SiteURL.
	MenuPath string `yaml:"menu_path"`

	Fetch    FetchConfig    `yaml:"fetch"`
	Render   RenderConfig   `yaml:"render"`
	Crawl    CrawlConfig    `yaml:"crawl"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Report   ReportConfig   `yaml:"report"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// FetchConfig tunes the plain HTTP fetcher.
type FetchConfig struct {
	Timeout        types.Duration `yaml:"timeout"`
	Retries        int            `yaml:"retries"`
	BackoffInitial types.Duration `yaml:"backoff_initial"`
	UserAgent      string         `yaml:"user_agent"`
}

// RenderConfig tunes the Chrome rendering fetcher. Force and Disable
// override the JS-heaviness verdict in either direction.
type RenderConfig struct {
	Force             bool           `yaml:"force"`
	Disable           bool           `yaml:"disable"`
	PoolSize          string         `yaml:"pool_size"`
	NavTimeout        types.Duration `yaml:"nav_timeout"`
	SettleTimeout     types.Duration `yaml:"settle_timeout"`
	SettleInterval    types.Duration `yaml:"settle_interval"`
	RestartAfterCount int            `yaml:"restart_after_count"`
}

// CrawlConfig bounds the pagination crawl.
type CrawlConfig struct {
	MaxPages int `yaml:"max_pages"`
}

// SnapshotConfig enables per-page body dumps when Dir is set.
type SnapshotConfig struct {
	Dir         string `yaml:"dir"`
	Compression string `yaml:"compression"`
}

// ReportConfig controls report output. Empty Output writes to stdout.
type ReportConfig struct {
	Output string `yaml:"output"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Listen    string `yaml:"listen"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// LogConfig configures the zap logger outputs.
type LogConfig struct {
	Level   string           `yaml:"level"`
	Console ConsoleLogConfig `yaml:"console"`
	File    FileLogConfig    `yaml:"file"`
}

type ConsoleLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

type FileLogConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Level    string         `yaml:"level"`
	Path     string         `yaml:"path"`
	Format   string         `yaml:"format"`
	Rotation RotationConfig `yaml:"rotation"`
}

type RotationConfig struct {
	MaxSize    int  `yaml:"max_size"`
	MaxAge     int  `yaml:"max_age"`
	MaxBackups int  `yaml:"max_backups"`
	Compress   bool `yaml:"compress"`
}

// Log levels and formats accepted by LogConfig.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	LogFormatConsole = "console"
	LogFormatText    = "text"
	LogFormatJSON    = "json"
)

// Default returns a ScanConfig with every field at its default.
func Default() *ScanConfig {
	return &ScanConfig{
		MenuPath: "/menu-m/",
		Fetch: FetchConfig{
			Timeout:        types.Duration(10 * time.Second),
			Retries:        3,
			BackoffInitial: types.Duration(1 * time.Second),
			UserAgent:      "menuscan/1.0 (+https://github.com/crawlbite/menuscan)",
		},
		Render: RenderConfig{
			PoolSize:          "auto",
			NavTimeout:        types.Duration(30 * time.Second),
			SettleTimeout:     types.Duration(3 * time.Second),
			SettleInterval:    types.Duration(250 * time.Millisecond),
			RestartAfterCount: 100,
		},
		Crawl: CrawlConfig{MaxPages: 50},
		Snapshot: SnapshotConfig{
			Compression: snapshot.CompressionSnappy,
		},
		Metrics: MetricsConfig{
			Listen:    ":9234",
			Path:      "/metrics",
			Namespace: "menuscan",
		},
		Log: LogConfig{
			Level: LogLevelInfo,
			Console: ConsoleLogConfig{
				Enabled: true,
				Format:  LogFormatConsole,
			},
		},
	}
}

// Load reads a YAML config file over the defaults and validates it.
func Load(path string) (*ScanConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks cross-field consistency and required values.
func (c *ScanConfig) Validate() error {
	parsed, err := url.Parse(c.SiteURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("site_url must be an absolute URL, got %q", c.SiteURL)
	}
	if c.MenuPath == "" {
		return fmt.Errorf("menu_path must not be empty")
	}

	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if c.Fetch.Retries < 0 {
		return fmt.Errorf("fetch.retries must not be negative")
	}
	if c.Fetch.BackoffInitial <= 0 {
		return fmt.Errorf("fetch.backoff_initial must be positive")
	}

	if c.Render.Force && c.Render.Disable {
		return fmt.Errorf("render.force and render.disable are mutually exclusive")
	}

	if c.Crawl.MaxPages <= 0 {
		return fmt.Errorf("crawl.max_pages must be positive")
	}

	if c.Snapshot.Dir != "" {
		switch c.Snapshot.Compression {
		case snapshot.CompressionNone, snapshot.CompressionSnappy, snapshot.CompressionLZ4:
		default:
			return fmt.Errorf("snapshot.compression must be one of none, snappy, lz4; got %q", c.Snapshot.Compression)
		}
	}

	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen must be set when metrics are enabled")
	}

	return nil
}

// MenuURL joins the site root and menu path.
func (c *ScanConfig) MenuURL() string {
	site := c.SiteURL
	for len(site) > 0 && site[len(site)-1] == '/' {
		site = site[:len(site)-1]
	}
	return site + c.MenuPath
}
