// Package commands is the slt-usage command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anomredux/slt-usage/internal/app"
	"github.com/anomredux/slt-usage/internal/config"
	"github.com/anomredux/slt-usage/internal/credentials"
	"github.com/anomredux/slt-usage/internal/logging"
	"github.com/anomredux/slt-usage/internal/prompt"
)

var (
	configPath string
	envFile    string
	logLevel   string

	cfg     config.Config
	log     *logrus.Logger
	version = "dev"
)

func Execute(v string) error {
	version = v
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "slt-usage",
		Short:         "SLT mobile data usage widget",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnv(envFile, false); err != nil {
				return err
			}
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				c.Log.Level = logLevel
			}
			l, err := logging.New(logging.Options{Level: c.Log.Level, File: c.Log.File})
			if err != nil {
				return err
			}
			cfg, log = c, l
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file path")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(
		runCmd(),
		watchCmd(),
		scheduleCmd(),
		loginCmd(),
		logoutCmd(),
		rendererCmd(),
		versionCmd(),
	)

	return root
}

// loadEnv reads a dotenv file. A missing file is not an error. overload
// replaces variables already set, which reloads need.
func loadEnv(path string, overload bool) error {
	if path == "" {
		return nil
	}
	load := godotenv.Load
	if overload {
		load = godotenv.Overload
	}
	if err := load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// interactive reports whether a login form can be shown.
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// prompter returns the terminal login form when attached to a terminal.
func prompter() credentials.Prompter {
	if interactive() {
		return prompt.NewTerminal()
	}
	return prompt.Disabled{}
}

func newApp(ctx context.Context, p credentials.Prompter) (*app.App, error) {
	return appFor(ctx, cfg, p)
}

func appFor(ctx context.Context, c config.Config, p credentials.Prompter) (*app.App, error) {
	return app.New(ctx, c, app.Options{Prompter: p, Log: log})
}
