// Package pipeline runs one widget refresh: credentials, login, usage,
// gauge and presentation.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anomredux/slt-usage/internal/domain"
	"github.com/anomredux/slt-usage/internal/renderer"
	"github.com/anomredux/slt-usage/internal/theme"
	"github.com/anomredux/slt-usage/internal/views"
	"github.com/anomredux/slt-usage/internal/widget"
)

// CredentialSource yields the stored login, asking for it when missing.
type CredentialSource interface {
	LoadOrPrompt(ctx context.Context) (domain.Credentials, error)
}

// UsageClient talks to the SLT backend.
type UsageClient interface {
	Authenticate(ctx context.Context, username, password string) (domain.Session, error)
	FetchUsage(ctx context.Context, session domain.Session, subscriberID string) (domain.UsageSummary, error)
}

// RendererLoader returns a compiled gauge renderer by name.
type RendererLoader interface {
	Load(ctx context.Context, name, url string, force bool) (renderer.Handle, error)
}

// ImageSource fetches remote images such as the operator logo.
type ImageSource interface {
	Image(ctx context.Context, src string) (image.Image, error)
}

// Settings are the per-run knobs, resolved from config and flags.
type Settings struct {
	Variant      views.Variant
	LogoURL      string
	RendererName string
	RendererURL  string
	ForceRefresh bool
	Refresh      time.Duration
	Palette      theme.Palette
}

// Pipeline holds the collaborators of a run. Host may be nil when the caller
// presents the returned widget itself.
type Pipeline struct {
	Creds     CredentialSource
	API       UsageClient
	Renderers RendererLoader
	Images    ImageSource
	Host      widget.Host
	Log       *logrus.Logger
	Now       func() time.Time
}

// Result is a successful run.
type Result struct {
	RunID  string
	Usage  domain.UsageSummary
	Widget *widget.Widget
}

// Run executes one refresh. Any failure is logged once and returned; the
// host is only called when the widget is complete.
func (p *Pipeline) Run(ctx context.Context, s Settings) (*Result, error) {
	runID := uuid.NewString()
	log := p.logger().WithFields(logrus.Fields{
		"run_id":  runID,
		"variant": s.Variant,
	})
	log.Debug("run started")

	res, err := p.run(ctx, s)
	if err != nil {
		log.WithError(err).
			WithField("credentials_cleared", domain.ClearsCredentials(err)).
			Error("run failed")
		return nil, err
	}
	res.RunID = runID

	log.WithFields(logrus.Fields{
		"used":    res.Usage.Used,
		"limit":   res.Usage.Limit,
		"percent": fmt.Sprintf("%.1f", res.Usage.Percent()),
	}).Info("run complete")
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, s Settings) (*Result, error) {
	creds, err := p.Creds.LoadOrPrompt(ctx)
	if err != nil {
		return nil, err
	}
	if !creds.Complete() {
		return nil, domain.ErrIncompleteCredentials
	}

	session, err := p.API.Authenticate(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, err
	}
	usage, err := p.API.FetchUsage(ctx, session, creds.SubscriberID)
	if err != nil {
		return nil, err
	}

	data := views.Data{
		Usage:   usage,
		Palette: s.Palette,
		Now:     p.now(),
		Refresh: s.Refresh,
	}
	if s.LogoURL != "" {
		if data.Logo, err = p.Images.Image(ctx, s.LogoURL); err != nil {
			return nil, fmt.Errorf("load logo: %w", err)
		}
	}

	w, err := p.compose(ctx, s, data)
	if err != nil {
		return nil, err
	}
	if p.Host != nil {
		if err := p.Host.Present(ctx, w); err != nil {
			return nil, fmt.Errorf("present widget: %w", err)
		}
	}
	return &Result{Usage: usage, Widget: w}, nil
}

func (p *Pipeline) compose(ctx context.Context, s Settings, data views.Data) (*widget.Widget, error) {
	switch s.Variant {
	case views.VariantLock:
		h, err := p.Renderers.Load(ctx, s.RendererName, s.RendererURL, s.ForceRefresh)
		if err != nil {
			return nil, err
		}
		return views.Lock(data, h)
	case views.VariantDefault:
		return views.Default(data)
	case views.VariantHome, "":
		return views.Home(data)
	}
	return nil, fmt.Errorf("unknown variant %q", s.Variant)
}

func (p *Pipeline) logger() *logrus.Logger {
	if p.Log == nil {
		p.Log = logrus.New()
	}
	return p.Log
}

func (p *Pipeline) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
