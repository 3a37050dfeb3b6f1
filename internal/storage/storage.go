// Package storage is the object-storage collaborator: it accepts image
// uploads under a generated path and hands back a publicly resolvable URL.
package storage

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxUploadSize is the upload cap enforced before anything touches the
// bucket.
const MaxUploadSize = 5 * 1024 * 1024

// Upload prefixes, one per kind of image the console stores.
const (
	PrefixArticles   = "herb_images"
	PrefixCategories = "herb_categories"
)

var (
	// ErrTooLarge is returned for files over MaxUploadSize.
	ErrTooLarge = errors.New("file exceeds 5MB upload limit")
	// ErrNotImage is returned when the payload is not an image.
	ErrNotImage = errors.New("file is not an image")
)

// Bucket stores objects under a local directory and resolves them against a
// base URL. When the base URL is empty, file:// URLs are returned so the app
// still renders something clickable.
type Bucket struct {
	root    string
	baseURL string
	now     func() time.Time
}

// NewBucket returns a bucket rooted at dir.
func NewBucket(dir, baseURL string) *Bucket {
	return &Bucket{root: dir, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

// Upload validates and stores data under <prefix>/<timestamp>_<filename>,
// returning the object's resolvable URL. Validation happens before any write:
// the payload must sniff as image/* and fit under MaxUploadSize.
func (b *Bucket) Upload(prefix, filename string, data []byte) (string, error) {
	if len(data) > MaxUploadSize {
		return "", ErrTooLarge
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return "", ErrNotImage
	}

	name := fmt.Sprintf("%d_%s", b.now().UnixMilli(), sanitize(filename))
	dir := filepath.Join(b.root, prefix)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create bucket prefix %s: %w", prefix, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store object: %w", err)
	}
	return b.resolve(prefix, name), nil
}

// UploadFile reads a local file and uploads it under prefix.
func (b *Bucket) UploadFile(prefix, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if info.Size() > MaxUploadSize {
		return "", ErrTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	return b.Upload(prefix, filepath.Base(path), data)
}

func (b *Bucket) resolve(prefix, name string) string {
	if b.baseURL != "" {
		return b.baseURL + "/" + prefix + "/" + url.PathEscape(name)
	}
	abs, err := filepath.Abs(filepath.Join(b.root, prefix, name))
	if err != nil {
		abs = filepath.Join(b.root, prefix, name)
	}
	return "file://" + filepath.ToSlash(abs)
}

// sanitize strips path separators and whitespace out of an original filename
// so it cannot escape the bucket prefix.
func sanitize(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', '\t':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}
