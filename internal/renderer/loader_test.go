package renderer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anomredux/slt-usage/internal/artifact"
	"github.com/anomredux/slt-usage/internal/domain"
)

type artifactServer struct {
	*httptest.Server
	hits   atomic.Int32
	status atomic.Int32
	body   atomic.Value
}

func newArtifactServer(t *testing.T, body string) *artifactServer {
	t.Helper()
	s := &artifactServer{}
	s.status.Store(http.StatusOK)
	s.body.Store(body)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		w.WriteHeader(int(s.status.Load()))
		_, _ = io.WriteString(w, s.body.Load().(string))
	}))
	t.Cleanup(s.Close)
	return s
}

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestLoader_DownloadsOnceThenUsesCache(t *testing.T) {
	ctx := context.Background()
	srv := newArtifactServer(t, circleDef)
	slots := artifact.NewFileStore(t.TempDir())
	l := NewLoader(slots, srv.Client(), quiet())

	h, err := l.Load(ctx, "ProgressCircle", srv.URL, false)
	require.NoError(t, err)
	assert.Equal(t, "ProgressCircle", h.Name())
	assert.EqualValues(t, 1, srv.hits.Load())

	ok, err := slots.Exists(ctx, "ProgressCircle")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = l.Load(ctx, "ProgressCircle", srv.URL, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, srv.hits.Load(), "cached slot must not be refetched")

	data, meta, err := slots.Read(ctx, "ProgressCircle")
	require.NoError(t, err)
	assert.Equal(t, circleDef, string(data))
	assert.Equal(t, srv.URL, meta.URL)
	assert.False(t, meta.DownloadedAt.IsZero())
}

func TestLoader_ForceRefresh(t *testing.T) {
	ctx := context.Background()
	srv := newArtifactServer(t, circleDef)
	l := NewLoader(artifact.NewFileStore(t.TempDir()), srv.Client(), quiet())

	_, err := l.Load(ctx, "ProgressCircle", srv.URL, false)
	require.NoError(t, err)
	_, err = l.Load(ctx, "ProgressCircle", srv.URL, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, srv.hits.Load())
}

func TestLoader_CachedCopyIgnoresBrokenRemote(t *testing.T) {
	ctx := context.Background()
	srv := newArtifactServer(t, circleDef)
	l := NewLoader(artifact.NewFileStore(t.TempDir()), srv.Client(), quiet())

	_, err := l.Load(ctx, "ProgressCircle", srv.URL, false)
	require.NoError(t, err)

	srv.status.Store(http.StatusInternalServerError)
	_, err = l.Load(ctx, "ProgressCircle", srv.URL, false)
	assert.NoError(t, err)

	_, err = l.Load(ctx, "ProgressCircle", srv.URL, true)
	var unavailable *domain.RendererUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestLoader_FetchFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, circleDef},
		{"not found", http.StatusNotFound, ""},
		{"empty body", http.StatusOK, "  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			srv := newArtifactServer(t, tt.body)
			srv.status.Store(int32(tt.status))
			slots := artifact.NewFileStore(t.TempDir())
			l := NewLoader(slots, srv.Client(), quiet())

			_, err := l.Load(ctx, "ProgressCircle", srv.URL, false)
			var unavailable *domain.RendererUnavailableError
			require.ErrorAs(t, err, &unavailable)
			assert.Equal(t, "ProgressCircle", unavailable.Name)

			ok, err := slots.Exists(ctx, "ProgressCircle")
			require.NoError(t, err)
			assert.False(t, ok, "failed download must not populate the slot")
		})
	}
}

func TestLoader_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	l := NewLoader(artifact.NewFileStore(t.TempDir()), nil, quiet())
	_, err := l.Load(context.Background(), "ProgressCircle", url, false)
	var netErr *domain.NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestLoader_BadArtifactIsUnavailable(t *testing.T) {
	srv := newArtifactServer(t, "kind: sparkline\n")
	l := NewLoader(artifact.NewFileStore(t.TempDir()), srv.Client(), quiet())

	_, err := l.Load(context.Background(), "ProgressCircle", srv.URL, false)
	var unavailable *domain.RendererUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestLoader_OversizedDefinitionIsUnavailable(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"huge resolution", "kind: progress-circle\nresolution: 200000\n"},
		{"huge diameter", "kind: progress-circle\ndiameter: 100000\n"},
		{"nan diameter", "kind: progress-circle\ndiameter: .nan\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			srv := newArtifactServer(t, tt.body)
			slots := artifact.NewFileStore(t.TempDir())
			l := NewLoader(slots, srv.Client(), quiet())

			_, err := l.Load(ctx, "ProgressCircle", srv.URL, false)
			var unavailable *domain.RendererUnavailableError
			require.ErrorAs(t, err, &unavailable)

			ok, err := slots.Exists(ctx, "ProgressCircle")
			require.NoError(t, err)
			assert.False(t, ok, "invalid artifact must not be cached")
		})
	}
}

func TestLoader_ForcedBadDownloadKeepsCachedCopy(t *testing.T) {
	ctx := context.Background()
	srv := newArtifactServer(t, circleDef)
	slots := artifact.NewFileStore(t.TempDir())
	l := NewLoader(slots, srv.Client(), quiet())

	_, err := l.Load(ctx, "ProgressCircle", srv.URL, false)
	require.NoError(t, err)

	srv.body.Store("kind: progress-circle\nresolution: 200000\n")
	_, err = l.Load(ctx, "ProgressCircle", srv.URL, true)
	var unavailable *domain.RendererUnavailableError
	require.ErrorAs(t, err, &unavailable)

	h, err := l.Load(ctx, "ProgressCircle", srv.URL, false)
	require.NoError(t, err)
	assert.NotNil(t, h)
}

// flakyStore fails Materialize but otherwise behaves like its FileStore.
type flakyStore struct {
	*artifact.FileStore
	materializeCalls int
}

func (f *flakyStore) Materialize(context.Context, string) error {
	f.materializeCalls++
	return errors.New("mirror offline")
}

func TestLoader_FreshenFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{FileStore: artifact.NewFileStore(t.TempDir())}
	require.NoError(t, store.Write(ctx, "ProgressCircle", []byte(circleDef), artifact.Meta{}))

	l := NewLoader(store, http.DefaultClient, quiet())
	h, err := l.Load(ctx, "ProgressCircle", "http://127.0.0.1:0/unused", false)
	require.NoError(t, err)
	assert.NotNil(t, h)
	assert.Equal(t, 1, store.materializeCalls)
}

func TestLoader_Slots(t *testing.T) {
	ctx := context.Background()
	srv := newArtifactServer(t, circleDef)
	l := NewLoader(artifact.NewFileStore(t.TempDir()), srv.Client(), quiet())
	_, err := l.Load(ctx, "ProgressCircle", srv.URL, false)
	require.NoError(t, err)

	slots, err := l.Slots(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "ProgressCircle", slots[0].Name)
}
