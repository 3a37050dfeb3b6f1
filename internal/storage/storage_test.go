package storage

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes produces a tiny valid PNG payload
func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadStoresUnderPrefixedTimestampPath(t *testing.T) {
	dir := t.TempDir()
	b := NewBucket(dir, "")

	url, err := b.Upload(PrefixArticles, "la hẹ.png", pngBytes(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"), "no base URL falls back to file://")

	entries, err := os.ReadDir(filepath.Join(dir, PrefixArticles))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	name := entries[0].Name()
	assert.Regexp(t, `^\d+_la_hẹ\.png$`, name, "timestamp prefix and sanitized filename")
}

func TestUploadResolvesAgainstBaseURL(t *testing.T) {
	b := NewBucket(t.TempDir(), "https://cdn.example.com/herb/")

	url, err := b.Upload(PrefixCategories, "cat.png", pngBytes(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/herb/"+PrefixCategories+"/"))
	assert.Contains(t, url, "cat.png")
}

func TestUploadRejectsOversizedPayload(t *testing.T) {
	b := NewBucket(t.TempDir(), "")
	big := make([]byte, MaxUploadSize+1)

	_, err := b.Upload(PrefixArticles, "big.png", big)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestUploadRejectsNonImage(t *testing.T) {
	b := NewBucket(t.TempDir(), "")

	_, err := b.Upload(PrefixArticles, "notes.txt", []byte("just some text"))
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestUploadValidationPrecedesWrite(t *testing.T) {
	dir := t.TempDir()
	b := NewBucket(dir, "")

	_, err := b.Upload(PrefixArticles, "bad.txt", []byte("nope"))
	require.Error(t, err)

	// Nothing was written, not even the prefix directory
	_, statErr := os.Stat(filepath.Join(dir, PrefixArticles))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUploadFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(src, pngBytes(t), 0o644))

	b := NewBucket(filepath.Join(dir, "bucket"), "")
	url, err := b.UploadFile(PrefixArticles, src)
	require.NoError(t, err)
	assert.Contains(t, url, "photo.png")
}

func TestUploadFileMissing(t *testing.T) {
	b := NewBucket(t.TempDir(), "")
	_, err := b.UploadFile(PrefixArticles, filepath.Join(t.TempDir(), "ghost.png"))
	assert.Error(t, err)
}

func TestSanitizeStripsPathComponents(t *testing.T) {
	assert.Equal(t, "evil.png", sanitize("../../evil.png"))
	assert.Equal(t, "a_b.png", sanitize("a b.png"))
	assert.Equal(t, "upload", sanitize(""))
}
