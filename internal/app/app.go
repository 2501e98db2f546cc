// Package app wires the pipeline components from configuration.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/anomredux/slt-usage/internal/api"
	"github.com/anomredux/slt-usage/internal/artifact"
	"github.com/anomredux/slt-usage/internal/assets"
	"github.com/anomredux/slt-usage/internal/config"
	"github.com/anomredux/slt-usage/internal/credentials"
	"github.com/anomredux/slt-usage/internal/i18n"
	"github.com/anomredux/slt-usage/internal/keychain"
	"github.com/anomredux/slt-usage/internal/pipeline"
	"github.com/anomredux/slt-usage/internal/renderer"
	"github.com/anomredux/slt-usage/internal/theme"
	"github.com/anomredux/slt-usage/internal/views"
	"github.com/anomredux/slt-usage/internal/widget"
)

// App holds the long-lived components of one process.
type App struct {
	Config   config.Config
	Log      *logrus.Logger
	Keychain keychain.Keychain
	Creds    *credentials.Store
	API      *api.Client
	Slots    artifact.Store
	Loader   *renderer.Loader
	Images   *assets.Loader
}

// Options are the process-level collaborators that do not come from config.
type Options struct {
	Prompter credentials.Prompter // nil disables interactive login
	Log      *logrus.Logger
	HTTP     *http.Client
	Keychain keychain.Keychain // overrides the configured backend
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}
	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.General.Timeout()}
	}
	i18n.SetLanguage(cfg.General.Language)

	kc := opts.Keychain
	if kc == nil {
		var err error
		kc, err = keychain.Open(keychain.Options{
			Backend:    cfg.Keychain.Backend,
			Service:    cfg.Keychain.Service,
			Path:       cfg.Keychain.Path,
			Passphrase: os.Getenv(config.PassphraseEnv),
		})
		if err != nil {
			return nil, fmt.Errorf("open keychain (file backend needs %s): %w", config.PassphraseEnv, err)
		}
	}
	creds := credentials.New(kc, opts.Prompter, log)

	client := api.NewClient(api.Endpoints{
		LoginURL:       cfg.Endpoints.LoginURL,
		UsageURL:       cfg.Endpoints.UsageURL,
		ClientID:       cfg.Endpoints.ClientID,
		ClientIDHeader: cfg.Endpoints.ClientIDHeader,
		ChannelID:      cfg.Endpoints.ChannelID,
	}, httpClient, creds, log)

	slots, err := openSlots(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	images, err := assets.NewLoader(httpClient, 0, log)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		Log:      log,
		Keychain: kc,
		Creds:    creds,
		API:      client,
		Slots:    slots,
		Loader:   renderer.NewLoader(slots, httpClient, log),
		Images:   images,
	}, nil
}

func openSlots(ctx context.Context, cfg config.Config, log *logrus.Logger) (artifact.Store, error) {
	local := artifact.NewFileStore(cfg.Renderer.CacheDir)
	if cfg.Mirror.Bucket == "" {
		return local, nil
	}
	mirror, err := artifact.NewS3Mirror(ctx, local, artifact.MirrorConfig{
		Bucket:   cfg.Mirror.Bucket,
		Region:   cfg.Mirror.Region,
		Prefix:   cfg.Mirror.Prefix,
		Endpoint: cfg.Mirror.Endpoint,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("open renderer mirror: %w", err)
	}
	return mirror, nil
}

// Pipeline returns a pipeline presenting to host (nil for none).
func (a *App) Pipeline(host widget.Host) *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Creds:     a.Creds,
		API:       a.API,
		Renderers: a.Loader,
		Images:    a.Images,
		Host:      host,
		Log:       a.Log,
	}
}

// Settings resolves the run settings. A non-empty variant overrides config.
func (a *App) Settings(variant string, forceRefresh bool) (pipeline.Settings, error) {
	if variant == "" {
		variant = a.Config.General.Variant
	}
	v, err := views.ParseVariant(variant)
	if err != nil {
		return pipeline.Settings{}, err
	}
	return pipeline.Settings{
		Variant:      v,
		LogoURL:      a.Config.Endpoints.LogoURL,
		RendererName: a.Config.Renderer.Name,
		RendererURL:  a.Config.Renderer.URL,
		ForceRefresh: forceRefresh || a.Config.Renderer.ForceRefresh,
		Refresh:      a.Config.General.Refresh(),
		Palette:      theme.ForAppearance(a.Config.General.Appearance),
	}, nil
}

// ImageMode returns the configured terminal image mode.
func (a *App) ImageMode() widget.ImageMode {
	return widget.ImageMode(a.Config.Display.ImageMode)
}
