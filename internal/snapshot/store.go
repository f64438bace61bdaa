// Package snapshot dumps fetched page bodies to disk for offline
// debugging of extraction issues. Snapshots are per-run diagnostics,
// not a cache: nothing reads them back.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/crawlbite/menuscan/internal/common/urlutil"
)

// Store writes one file per fetched page under a configured directory.
type Store struct {
	dir       string
	algorithm string
	logger    *zap.Logger
}

// NewStore creates the snapshot directory and returns a Store.
func NewStore(dir, algorithm string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir %s: %w", dir, err)
	}
	return &Store{dir: dir, algorithm: algorithm, logger: logger}, nil
}

// Save writes one page body, named by the URL's hash. Best effort: failures
// are logged, never propagated into the crawl.
func (s *Store) Save(pageURL string, body []byte) {
	data, ext, err := compress(body, s.algorithm)
	if err != nil {
		s.logger.Warn("Snapshot compression failed",
			zap.String("url", pageURL),
			zap.Error(err))
		return
	}

	name := fmt.Sprintf("%016x.html%s", urlutil.HashURL(pageURL), ext)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Warn("Snapshot write failed",
			zap.String("url", pageURL),
			zap.String("path", path),
			zap.Error(err))
		return
	}

	s.logger.Debug("Snapshot written",
		zap.String("url", pageURL),
		zap.String("path", path),
		zap.Int("raw_bytes", len(body)),
		zap.Int("stored_bytes", len(data)))
}
