package snapshot

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/snappy"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStoreSaveRaw(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, CompressionNone, zap.NewNop())
	require.NoError(t, err)

	store.Save("https://example.com/menu/", []byte("<html>menu</html>"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".html"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "<html>menu</html>", string(data))
}

func TestStoreSaveSnappy(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, CompressionSnappy, zap.NewNop())
	require.NoError(t, err)

	body := bytes.Repeat([]byte("<p>menu line</p>\n"), 200)
	store.Save("https://example.com/menu/", body)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, strings.HasSuffix(entries[0].Name(), ExtSnappy))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	decoded, err := snappy.Decode(nil, data)
	require.NoError(t, err)
	assert.Equal(t, body, decoded)
}

func TestCompressSmallBodyStoredRaw(t *testing.T) {
	body := []byte("tiny")
	data, ext, err := compress(body, CompressionLZ4)
	require.NoError(t, err)
	assert.Empty(t, ext)
	assert.Equal(t, body, data)
}

func TestCompressLZ4RoundTrips(t *testing.T) {
	body := bytes.Repeat([]byte("menu item 120 L.E\n"), 100)
	data, ext, err := compress(body, CompressionLZ4)
	require.NoError(t, err)
	assert.Equal(t, ExtLZ4, ext)

	decoded, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	require.NoError(t, err)
	assert.Equal(t, body, decoded)
}
