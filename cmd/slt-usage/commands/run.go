package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anomredux/slt-usage/internal/widget"
)

func runCmd() *cobra.Command {
	var (
		variant      string
		forceRefresh bool
		pngPath      string
		framed       bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Refresh once and print the widget",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, prompter())
			if err != nil {
				return err
			}
			settings, err := a.Settings(variant, forceRefresh)
			if err != nil {
				return err
			}

			term := widget.TerminalHost{Out: cmd.OutOrStdout(), Mode: a.ImageMode()}
			if framed {
				term.Title = string(settings.Variant)
			}
			hosts := widget.Hosts{term}
			if pngPath == "" {
				pngPath = cfg.Display.PNGPath
			}
			if pngPath != "" {
				hosts = append(hosts, widget.PNGHost{Path: pngPath})
			}

			res, err := a.Pipeline(hosts).Run(ctx, settings)
			if err != nil {
				return err
			}
			if pngPath != "" {
				fmt.Fprintf(os.Stderr, "wrote %s\n", pngPath)
			}
			log.WithField("run_id", res.RunID).Debug("widget presented")
			return nil
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "widget variant: home, lock or default (default from config)")
	cmd.Flags().BoolVar(&forceRefresh, "force-refresh", false, "download the renderer again even if cached")
	cmd.Flags().StringVar(&pngPath, "png", "", "also write the widget as a PNG file")
	cmd.Flags().BoolVar(&framed, "frame", true, "draw a border around the widget")
	return cmd
}
