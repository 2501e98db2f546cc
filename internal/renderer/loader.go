package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anomredux/slt-usage/internal/artifact"
	"github.com/anomredux/slt-usage/internal/domain"
)

const (
	fetchTimeout     = 30 * time.Second
	maxArtifactBytes = 1 << 20
)

// Loader fetches renderer artifacts into slots and compiles them.
//
// An artifact is downloaded the first time a name is seen and reused on every
// later run. It is never checked against the remote copy again unless the
// caller forces a refresh.
type Loader struct {
	slots artifact.Store
	http  *http.Client
	log   *logrus.Logger
	now   func() time.Time
}

// NewLoader returns a Loader. A nil httpClient gets a client with the fetch timeout.
func NewLoader(slots artifact.Store, httpClient *http.Client, log *logrus.Logger) *Loader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fetchTimeout}
	}
	if log == nil {
		log = logrus.New()
	}
	return &Loader{slots: slots, http: httpClient, log: log, now: time.Now}
}

// Load returns the renderer cached under name, downloading it from url when
// the slot is empty or force is set. A failed or invalid download is fatal
// and leaves the slot untouched; a failed freshen of an existing slot is not.
func (l *Loader) Load(ctx context.Context, name, url string, force bool) (Handle, error) {
	log := l.log.WithField("renderer", name)

	exists, err := l.slots.Exists(ctx, name)
	if err != nil {
		log.WithError(err).Warn("could not check renderer slot, downloading")
		exists = false
	}

	if !exists || force {
		data, err := l.fetch(ctx, url)
		if err != nil {
			return nil, &domain.RendererUnavailableError{Name: name, Err: err}
		}
		// An artifact that does not compile is never cached.
		if _, err := Compile(name, data); err != nil {
			return nil, &domain.RendererUnavailableError{Name: name, Err: err}
		}
		meta := artifact.Meta{URL: url, DownloadedAt: l.now().UTC()}
		if err := l.slots.Write(ctx, name, data, meta); err != nil {
			return nil, &domain.RendererUnavailableError{Name: name, Err: fmt.Errorf("cache artifact: %w", err)}
		}
		log.WithField("bytes", len(data)).Info("renderer downloaded")
	} else if err := l.slots.Materialize(ctx, name); err != nil {
		log.WithError(err).Warn("could not freshen cached renderer, using local copy")
	}

	data, _, err := l.slots.Read(ctx, name)
	if err != nil {
		return nil, &domain.RendererUnavailableError{Name: name, Err: err}
	}
	h, err := Compile(name, data)
	if err != nil {
		return nil, &domain.RendererUnavailableError{Name: name, Err: err}
	}
	return h, nil
}

// Slots lists the cached artifacts.
func (l *Loader) Slots(ctx context.Context) ([]artifact.Meta, error) {
	return l.slots.List(ctx)
}

// fetch downloads the whole artifact before anything is written, so an
// interrupted transfer never reaches the slot.
func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, errors.New("no renderer url configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Op: "fetch renderer", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch renderer: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactBytes+1))
	if err != nil {
		return nil, &domain.NetworkError{Op: "read renderer", Err: err}
	}
	if len(data) > maxArtifactBytes {
		return nil, fmt.Errorf("renderer artifact exceeds %d bytes", maxArtifactBytes)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("renderer artifact is empty")
	}
	return data, nil
}
