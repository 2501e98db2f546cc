// Package assets fetches and decodes the images drawn on the widget.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp"

	"github.com/anomredux/slt-usage/internal/domain"
)

// DefaultLogoURL is the operator logo shown on every variant.
const DefaultLogoURL = "https://i.ibb.co/BC5Tn8N/IMG-4078.png"

const (
	defaultCacheSize = 8
	fetchTimeout     = 30 * time.Second
	maxImageBytes    = 8 << 20
)

// Loader decodes images from http(s) URLs, file:// URLs or plain paths.
// Decoded images are kept in an LRU so repeated runs in one process (watch,
// schedule) fetch the logo once.
type Loader struct {
	http  *http.Client
	cache *lru.Cache[string, image.Image]
	log   *logrus.Logger
}

func NewLoader(httpClient *http.Client, cacheSize int, log *logrus.Logger) (*Loader, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fetchTimeout}
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	if log == nil {
		log = logrus.New()
	}
	cache, err := lru.New[string, image.Image](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create image cache: %w", err)
	}
	return &Loader{http: httpClient, cache: cache, log: log}, nil
}

// Image returns the decoded image at src.
func (l *Loader) Image(ctx context.Context, src string) (image.Image, error) {
	if img, ok := l.cache.Get(src); ok {
		return img, nil
	}

	data, err := l.read(ctx, src)
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", src, err)
	}
	l.log.WithFields(logrus.Fields{"src": src, "format": format}).Debug("image loaded")
	l.cache.Add(src, img)
	return img, nil
}

// Purge drops every cached image.
func (l *Loader) Purge() { l.cache.Purge() }

func (l *Loader) read(ctx context.Context, src string) ([]byte, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse image url: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		return l.fetch(ctx, src)
	case "file":
		return os.ReadFile(u.Path)
	case "":
		return os.ReadFile(src)
	}
	return nil, fmt.Errorf("unsupported image url scheme %q", u.Scheme)
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: "fetch image", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.NetworkError{Op: "fetch image", Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, &domain.NetworkError{Op: "read image", Err: err}
	}
	return data, nil
}
