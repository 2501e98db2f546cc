package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/anomredux/slt-usage/internal/renderer"
	"github.com/anomredux/slt-usage/internal/theme"
)

func rendererCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renderer",
		Short: "Manage the cached gauge renderer",
	}
	cmd.AddCommand(rendererRefreshCmd(), rendererStatusCmd())
	return cmd
}

func rendererRefreshCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "refresh [name]",
		Short: "Download the renderer again, replacing the cached copy",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, nil)
			if err != nil {
				return err
			}
			name := cfg.Renderer.Name
			if len(args) == 1 {
				name = args[0]
			}
			if url == "" {
				url = cfg.Renderer.URL
			}
			if _, err := a.Loader.Load(ctx, name, url, true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renderer %s refreshed from %s.\n", name, url)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "artifact URL (default renderer.url)")
	return cmd
}

func rendererStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List cached renderers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, nil)
			if err != nil {
				return err
			}
			slots, err := a.Loader.Slots(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(slots) == 0 {
				fmt.Fprintf(out, "No renderers cached in %s.\n", cfg.Renderer.CacheDir)
				return nil
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
				Headers("NAME", "STATUS", "SIZE", "DOWNLOADED", "CHECKSUM", "URL")
			for _, m := range slots {
				status := "ok"
				if data, _, err := a.Slots.Read(ctx, m.Name); err != nil {
					status = "unreadable"
				} else if _, err := renderer.Compile(m.Name, data); err != nil {
					status = "invalid"
				}
				sum := m.Checksum
				if len(sum) > 12 {
					sum = sum[:12]
				}
				t.Row(m.Name, status, strconv.FormatInt(m.Size, 10),
					m.DownloadedAt.Local().Format(time.DateTime), sum, m.URL)
			}
			_, err = fmt.Fprintln(out, t.String())
			return err
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// No config needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "slt-usage", version)
		},
	}
}
