// Package ui is the interactive watch screen: it re-runs the widget pipeline
// on the widget's own refresh schedule and paints the result in the terminal.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anomredux/slt-usage/internal/pipeline"
	"github.com/anomredux/slt-usage/internal/widget"
)

// Runner executes one refresh. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, s pipeline.Settings) (*pipeline.Result, error)
}

// TickMsg drives the countdown and the scheduled refresh.
type TickMsg time.Time

// ConfigReloadedMsg replaces the run settings, typically after the config
// file changed on disk. A nil Runner keeps the current one. A refresh
// follows immediately.
type ConfigReloadedMsg struct {
	Runner   Runner
	Settings pipeline.Settings
	Mode     widget.ImageMode
}

// runDoneMsg carries the outcome of one pipeline run.
type runDoneMsg struct {
	result *pipeline.Result
	err    error
}

type App struct {
	ctx      context.Context
	runner   Runner
	settings pipeline.Settings
	mode     widget.ImageMode
	now      func() time.Time

	// Last good widget stays on screen when a later run fails.
	widget  *widget.Widget
	result  *pipeline.Result
	err     error
	lastRun time.Time
	nextRun time.Time

	notifications *NotificationManager
	helpOpen      bool

	width   int
	height  int
	loading bool
	ready   bool
}

// Options configure NewApp. Zero values are usable.
type Options struct {
	Mode widget.ImageMode
	Bell bool
	Now  func() time.Time
}

func NewApp(ctx context.Context, runner Runner, settings pipeline.Settings, opts Options) App {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	mode := opts.Mode
	if mode == "" {
		mode = widget.ImageHalfBlock
	}
	return App{
		ctx:           ctx,
		runner:        runner,
		settings:      settings,
		mode:          mode,
		now:           now,
		notifications: NewNotificationManager(opts.Bell, now),
		loading:       true,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("slt-usage"),
		a.refresh(false),
		doTick(time.Second),
	)
}

// refresh runs the pipeline off the UI goroutine. force re-downloads the
// renderer artifact for this run only.
func (a App) refresh(force bool) tea.Cmd {
	ctx, runner, s := a.ctx, a.runner, a.settings
	if force {
		s.ForceRefresh = true
	}
	return func() tea.Msg {
		res, err := runner.Run(ctx, s)
		return runDoneMsg{result: res, err: err}
	}
}

func doTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
