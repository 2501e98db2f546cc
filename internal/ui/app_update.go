package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anomredux/slt-usage/internal/domain"
	"github.com/anomredux/slt-usage/internal/i18n"
	"github.com/anomredux/slt-usage/internal/views"
)

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		if a.helpOpen {
			switch msg.String() {
			case "esc", "?":
				a.helpOpen = false
			case "ctrl+c":
				return a, tea.Quit
			}
			return a, nil
		}
		return a.handleKey(msg)

	case TickMsg:
		a.notifications.Expire()
		if a.due() {
			a.loading = true
			return a, tea.Batch(a.refresh(false), doTick(time.Second))
		}
		return a, doTick(time.Second)

	case runDoneMsg:
		return a.finishRun(msg), nil

	case ConfigReloadedMsg:
		a.settings = msg.Settings
		if msg.Runner != nil {
			a.runner = msg.Runner
		}
		if msg.Mode != "" {
			a.mode = msg.Mode
		}
		a.notifications.SetMessage(i18n.T("watch_config_hint"))
		if a.loading {
			return a, nil
		}
		a.loading = true
		return a, a.refresh(false)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "?":
		a.helpOpen = true
	case "r", "f":
		if a.loading {
			return a, nil
		}
		a.loading = true
		return a, a.refresh(msg.String() == "f")
	}
	return a, nil
}

func (a App) finishRun(msg runDoneMsg) App {
	now := a.now()
	a.loading = false
	a.lastRun = now

	if msg.err != nil {
		a.err = msg.err
		a.nextRun = now.Add(a.retryInterval())
		if domain.ClearsCredentials(msg.err) {
			a.notifications.SetMessage(i18n.T("watch_login_hint"))
		}
		return a
	}

	a.err = nil
	a.result = msg.result
	a.widget = msg.result.Widget
	a.nextRun = a.widget.RefreshAfter
	if a.nextRun.IsZero() || !a.nextRun.After(now) {
		a.nextRun = now.Add(a.retryInterval())
	}
	return a
}

func (a App) due() bool {
	return !a.loading && !a.nextRun.IsZero() && !a.now().Before(a.nextRun)
}

func (a App) retryInterval() time.Duration {
	if a.settings.Refresh > 0 {
		return a.settings.Refresh
	}
	return views.DefaultRefresh
}
