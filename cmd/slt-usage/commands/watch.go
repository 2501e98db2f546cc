package commands

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/anomredux/slt-usage/internal/config"
	"github.com/anomredux/slt-usage/internal/credentials"
	"github.com/anomredux/slt-usage/internal/logging"
	"github.com/anomredux/slt-usage/internal/prompt"
	"github.com/anomredux/slt-usage/internal/ui"
	"github.com/anomredux/slt-usage/internal/watcher"
)

func watchCmd() *cobra.Command {
	var (
		variant string
		bell    bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the widget full screen and keep it refreshed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// The alternate screen owns the terminal, so logs go to a file.
			if cfg.Log.File == "" {
				l, err := logging.New(logging.Options{Level: cfg.Log.Level, File: config.DefaultLogPath()})
				if err != nil {
					return err
				}
				log = l
			}

			// Runs inside the TUI never prompt; a missing login is asked for
			// before the full-screen program starts.
			a, err := newApp(ctx, prompt.Disabled{})
			if err != nil {
				return err
			}
			if _, err := credentials.New(a.Keychain, prompter(), log).LoadOrPrompt(ctx); err != nil {
				return err
			}

			settings, err := a.Settings(variant, false)
			if err != nil {
				return err
			}
			model := ui.NewApp(ctx, a.Pipeline(nil), settings, ui.Options{
				Mode: a.ImageMode(),
				Bell: bell,
			})
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

			w := watcher.New([]string{configPath, envFile}, 2*time.Second, func(changed []string) {
				next, err := reload()
				if err != nil {
					log.WithError(err).Warn("config reload failed, keeping previous settings")
					return
				}
				na, err := appFor(ctx, next, prompt.Disabled{})
				if err != nil {
					log.WithError(err).Warn("config reload failed, keeping previous settings")
					return
				}
				s, err := na.Settings(variant, false)
				if err != nil {
					log.WithError(err).Warn("config reload failed, keeping previous settings")
					return
				}
				log.WithField("files", changed).Info("config reloaded")
				p.Send(ui.ConfigReloadedMsg{Runner: na.Pipeline(nil), Settings: s, Mode: na.ImageMode()})
			})
			if err := w.Start(); err != nil {
				log.WithError(err).Warn("config watcher unavailable")
			} else {
				defer w.Stop()
			}

			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "widget variant: home, lock or default (default from config)")
	cmd.Flags().BoolVar(&bell, "bell", false, "ring the terminal bell on notifications")
	return cmd
}

// reload re-reads the dotenv file and the config from disk.
func reload() (config.Config, error) {
	if err := loadEnv(envFile, true); err != nil {
		return config.Config{}, err
	}
	return config.Load(configPath)
}
