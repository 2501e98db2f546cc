package widget

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/anomredux/slt-usage/internal/theme"
)

// Frame wraps pre-rendered lines in a rounded border with a title in the
// top edge.
func Frame(title string, lines []string) string {
	bs := lipgloss.NewStyle().Foreground(theme.ColorBorder)

	contentWidth := 0
	for _, l := range lines {
		contentWidth = max(contentWidth, lipgloss.Width(l))
	}
	titlePart := ""
	if title != "" {
		titlePart = " " + theme.HeaderStyle.Render(title) + " "
	}
	contentWidth = max(contentWidth, lipgloss.Width(titlePart)+1)
	innerWidth := contentWidth + 2

	// ╭─ Title ────╮
	dashes := innerWidth - 1 - lipgloss.Width(titlePart)
	top := bs.Render("╭─") + titlePart + bs.Render(strings.Repeat("─", max(dashes, 0))+"╮")

	body := make([]string, 0, len(lines))
	for _, l := range lines {
		pad := contentWidth - lipgloss.Width(l)
		body = append(body, bs.Render("│")+" "+l+strings.Repeat(" ", max(pad, 0))+" "+bs.Render("│"))
	}

	bottom := bs.Render("╰" + strings.Repeat("─", innerWidth) + "╯")
	return top + "\n" + strings.Join(body, "\n") + "\n" + bottom
}
