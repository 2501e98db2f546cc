package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anomredux/slt-usage/internal/i18n"
	"github.com/anomredux/slt-usage/internal/theme"
	"github.com/anomredux/slt-usage/internal/widget"
)

func renderHelp(width int) string {
	bindings := []struct {
		key  string
		desc string
	}{
		{"r", i18n.T("help_refresh")},
		{"f", i18n.T("help_force")},
		{"?", i18n.T("help_toggle_help")},
		{"q / Ctrl+C", i18n.T("help_quit")},
	}

	maxKeyLen := 0
	for _, b := range bindings {
		maxKeyLen = max(maxKeyLen, len(b.key))
	}

	keyStyle := lipgloss.NewStyle().Foreground(theme.ColorGold).Bold(true)

	rows := make([]string, 0, len(bindings)+2)
	for _, b := range bindings {
		padded := fmt.Sprintf("%-*s", maxKeyLen, b.key)
		rows = append(rows, keyStyle.Render(padded)+theme.BodyStyle.Render("  "+b.desc))
	}
	rows = append(rows, "", theme.MutedStyle.Render(i18n.T("help_close")))

	box := widget.Frame(i18n.T("help_title"), rows)
	if width > 0 && lipgloss.Width(box) > width {
		return strings.Join(rows, "\n")
	}
	return box
}
