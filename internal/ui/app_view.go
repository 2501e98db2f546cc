package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anomredux/slt-usage/internal/domain"
	"github.com/anomredux/slt-usage/internal/i18n"
	"github.com/anomredux/slt-usage/internal/theme"
	"github.com/anomredux/slt-usage/internal/widget"
)

func (a App) View() string {
	if !a.ready {
		return i18n.T("watch_loading")
	}

	if a.helpOpen {
		return lipgloss.Place(a.width, a.height,
			lipgloss.Center, lipgloss.Center,
			renderHelp(a.width),
		)
	}

	stops := theme.ProgressGradient
	sections := []string{
		theme.GradientText(i18n.T("watch_title"), stops[0], stops[len(stops)-1]),
		"",
		a.renderWidget(),
		"",
		a.renderStatus(),
	}
	if a.err != nil {
		sections = append(sections, theme.ErrorStyle.Render(i18n.Tf("watch_error", a.err.Error())))
	}

	if banner := a.notifications.RenderBanner(a.width); banner != "" {
		sections = append(sections, banner)
	} else {
		sections = append(sections, theme.MutedStyle.Render(i18n.T("watch_help")))
	}
	return strings.Join(sections, "\n")
}

func (a App) renderWidget() string {
	if a.widget == nil {
		key := "watch_waiting"
		if a.loading {
			key = "watch_loading"
		}
		return theme.MutedStyle.Render(i18n.T(key))
	}
	return widget.Frame(string(a.settings.Variant), widget.Lines(a.widget, a.mode))
}

func (a App) renderStatus() string {
	var parts []string
	if a.loading {
		parts = append(parts, i18n.T("watch_loading"))
	} else if !a.lastRun.IsZero() {
		parts = append(parts, i18n.Tf("watch_last_run", a.lastRun.Format("15:04:05")))
	}
	if !a.loading && !a.nextRun.IsZero() {
		parts = append(parts, i18n.Tf("watch_next_run", FormatDuration(a.nextRun.Sub(a.now()))))
	}
	if a.result != nil && a.err == nil {
		u := a.result.Usage
		parts = append(parts, u.FormatAmount(u.Used)+" / "+u.FormatAmount(u.Limit)+
			" ("+domain.FormatQuantity(u.Percent())+"%)")
	}
	return theme.BodyStyle.Render(strings.Join(parts, "  ·  "))
}
