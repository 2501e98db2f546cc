package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anomredux/slt-usage/internal/artifact"
	"github.com/anomredux/slt-usage/internal/config"
	"github.com/anomredux/slt-usage/internal/logging"
	"github.com/anomredux/slt-usage/internal/theme"
	"github.com/anomredux/slt-usage/internal/views"
	"github.com/anomredux/slt-usage/internal/widget"
)

func testConfig(t *testing.T) config.Config {
	cfg := config.DefaultConfig()
	cfg.Keychain.Backend = "memory"
	cfg.Renderer.CacheDir = t.TempDir()
	cfg.General.Appearance = "light"
	return cfg
}

func TestNew(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), Options{Log: logging.Discard()})
	require.NoError(t, err)

	assert.IsType(t, &artifact.FileStore{}, a.Slots)
	assert.NotNil(t, a.Creds)
	assert.NotNil(t, a.API)
	assert.NotNil(t, a.Loader)
	assert.Equal(t, widget.ImageHalfBlock, a.ImageMode())

	p := a.Pipeline(nil)
	assert.Nil(t, p.Host)
	assert.Same(t, a.Creds, p.Creds)
}

func TestNew_FileKeychainNeedsPassphrase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Keychain.Backend = "file"
	cfg.Keychain.Path = t.TempDir() + "/kc.json"
	t.Setenv(config.PassphraseEnv, "")

	_, err := New(context.Background(), cfg, Options{Log: logging.Discard()})
	assert.ErrorContains(t, err, config.PassphraseEnv)

	t.Setenv(config.PassphraseEnv, "hunter2")
	_, err = New(context.Background(), cfg, Options{Log: logging.Discard()})
	assert.NoError(t, err)
}

func TestSettings(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), Options{Log: logging.Discard()})
	require.NoError(t, err)

	s, err := a.Settings("", false)
	require.NoError(t, err)
	assert.Equal(t, views.VariantHome, s.Variant)
	assert.Equal(t, 30*time.Minute, s.Refresh)
	assert.Equal(t, theme.Light, s.Palette)
	assert.Equal(t, "ProgressCircle", s.RendererName)
	assert.False(t, s.ForceRefresh)

	s, err = a.Settings("lock", true)
	require.NoError(t, err)
	assert.Equal(t, views.VariantLock, s.Variant)
	assert.True(t, s.ForceRefresh)

	_, err = a.Settings("watch", false)
	assert.Error(t, err)
}
