package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anomredux/slt-usage/internal/config"
	"github.com/anomredux/slt-usage/internal/logging"
	"github.com/anomredux/slt-usage/internal/pipeline"
	"github.com/anomredux/slt-usage/internal/prompt"
	"github.com/anomredux/slt-usage/internal/watcher"
	"github.com/anomredux/slt-usage/internal/widget"
)

// scheduler re-runs the pipeline every refresh_minutes and swaps its job
// when the config changes.
type scheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	entry    cron.EntryID
	variant  string
	pngPath  string
	pipeline *pipeline.Pipeline
	settings pipeline.Settings
}

func scheduleCmd() *cobra.Command {
	var (
		variant string
		pngPath string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Refresh in the background every refresh_minutes",
		Long: "Runs headless: each refresh writes the widget to --png (or display.png_path)\n" +
			"and otherwise prints it. The config and .env files are reloaded when they change.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// Without a PNG target the widget is printed, so logs stay on
			// stderr; otherwise nothing watches the terminal and logs go to a file.
			if cfg.Log.File == "" && (pngPath != "" || cfg.Display.PNGPath != "") {
				l, err := logging.New(logging.Options{Level: cfg.Log.Level, File: config.DefaultLogPath()})
				if err != nil {
					return err
				}
				log = l
			}

			s := &scheduler{
				cron: cron.New(cron.WithChain(
					cron.Recover(cron.PrintfLogger(log)),
					cron.SkipIfStillRunning(cron.PrintfLogger(log)),
				)),
				variant: variant,
				pngPath: pngPath,
			}
			if err := s.apply(ctx, cfg, cmd); err != nil {
				return err
			}

			w := watcher.New([]string{configPath, envFile}, 5*time.Second, func(changed []string) {
				next, err := reload()
				if err != nil {
					log.WithError(err).Warn("config reload failed, keeping previous schedule")
					return
				}
				if err := s.apply(ctx, next, cmd); err != nil {
					log.WithError(err).Warn("config reload failed, keeping previous schedule")
					return
				}
				log.WithField("files", changed).Info("config reloaded")
			})
			if err := w.Start(); err != nil {
				log.WithError(err).Warn("config watcher unavailable")
			} else {
				defer w.Stop()
			}

			s.runOnce(ctx)
			s.cron.Start()
			log.Info("scheduler started")

			<-ctx.Done()
			log.Info("shutting down")
			<-s.cron.Stop().Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "widget variant: home, lock or default (default from config)")
	cmd.Flags().StringVar(&pngPath, "png", "", "write each refresh to this PNG file")
	return cmd
}

// apply builds the pipeline for c and (re)schedules the refresh job.
func (s *scheduler) apply(ctx context.Context, c config.Config, cmd *cobra.Command) error {
	a, err := appFor(ctx, c, prompt.Disabled{})
	if err != nil {
		return err
	}
	settings, err := a.Settings(s.variant, false)
	if err != nil {
		return err
	}

	var host widget.Host = widget.TerminalHost{Out: cmd.OutOrStdout(), Mode: a.ImageMode()}
	png := s.pngPath
	if png == "" {
		png = c.Display.PNGPath
	}
	if png != "" {
		host = widget.PNGHost{Path: png}
	}

	spec := fmt.Sprintf("@every %dm", c.General.RefreshMinutes)
	entry, err := s.cron.AddFunc(spec, func() { s.runOnce(ctx) })
	if err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}

	s.mu.Lock()
	old := s.entry
	s.entry = entry
	s.pipeline = a.Pipeline(host)
	s.settings = settings
	s.mu.Unlock()

	if old != 0 {
		s.cron.Remove(old)
	}
	log.WithFields(logrus.Fields{
		"schedule": spec,
		"variant":  settings.Variant,
		"png":      png,
	}).Info("refresh scheduled")
	return nil
}

// runOnce performs one refresh. Failures are already logged by the pipeline
// and the next tick is the retry.
func (s *scheduler) runOnce(ctx context.Context) {
	s.mu.Lock()
	p, settings := s.pipeline, s.settings
	s.mu.Unlock()
	_, _ = p.Run(ctx, settings)
}
