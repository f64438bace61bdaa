package snapshot

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/snappy"
	"github.com/pierrec/lz4/v4"
)

// Compression algorithms for stored page snapshots.
const (
	CompressionNone   = "none"
	CompressionSnappy = "snappy"
	CompressionLZ4    = "lz4"

	ExtSnappy = ".sz"
	ExtLZ4    = ".lz4"
)

// compressionMinSize is the body size below which compression is skipped.
const compressionMinSize = 1024

// compress compresses a page body using the specified algorithm.
// Returns the bytes to store and the file extension to append.
// Small bodies and unknown algorithms are stored raw.
func compress(body []byte, algorithm string) ([]byte, string, error) {
	if len(body) < compressionMinSize {
		return body, "", nil
	}

	switch algorithm {
	case CompressionSnappy:
		return snappy.Encode(nil, body), ExtSnappy, nil

	case CompressionLZ4:
		// Stream format embeds size information.
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(body); err != nil {
			w.Close()
			return nil, "", fmt.Errorf("lz4 compression failed: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("lz4 compression close failed: %w", err)
		}
		return buf.Bytes(), ExtLZ4, nil

	default:
		return body, "", nil
	}
}
