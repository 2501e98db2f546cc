// Package prompt asks for the operator login with a small terminal form.
package prompt

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/anomredux/slt-usage/internal/domain"
	"github.com/anomredux/slt-usage/internal/i18n"
	"github.com/anomredux/slt-usage/internal/theme"
)

type field struct {
	label  string
	value  []rune
	secret bool
}

// Form is the bubbletea model of the login prompt: username, password
// (masked) and subscriber ID.
type Form struct {
	fields    []field
	cursor    int
	submitted bool
	cancelled bool
	warning   string
}

func NewForm() Form {
	return Form{
		fields: []field{
			{label: i18n.T("login_username")},
			{label: i18n.T("login_password"), secret: true},
			{label: i18n.T("login_subscriber")},
		},
	}
}

func (f Form) Init() tea.Cmd { return nil }

func (f Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		f.cancelled = true
		return f, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		f.cursor = (f.cursor + 1) % len(f.fields)
	case tea.KeyShiftTab, tea.KeyUp:
		f.cursor = (f.cursor - 1 + len(f.fields)) % len(f.fields)
	case tea.KeyEnter:
		if f.cursor < len(f.fields)-1 {
			f.cursor++
			return f, nil
		}
		if !f.Credentials().Complete() {
			f.warning = i18n.T("login_missing_fields")
			return f, nil
		}
		f.submitted = true
		return f, tea.Quit
	case tea.KeyBackspace:
		v := f.fields[f.cursor].value
		if len(v) > 0 {
			f.fields[f.cursor].value = v[:len(v)-1]
		}
	case tea.KeyCtrlU:
		f.fields[f.cursor].value = nil
	case tea.KeyRunes, tea.KeySpace:
		// Copy before appending so earlier model values never share a backing array.
		v := append([]rune(nil), f.fields[f.cursor].value...)
		f.fields[f.cursor].value = append(v, key.Runes...)
		f.warning = ""
	}
	return f, nil
}

// Credentials returns the current field values.
func (f Form) Credentials() domain.Credentials {
	return domain.Credentials{
		Username:     strings.TrimSpace(string(f.fields[0].value)),
		Password:     string(f.fields[1].value),
		SubscriberID: strings.TrimSpace(string(f.fields[2].value)),
	}
}

// Submitted reports whether the user confirmed the form.
func (f Form) Submitted() bool { return f.submitted }

// Cancelled reports whether the user dismissed the form.
func (f Form) Cancelled() bool { return f.cancelled }

var (
	labelStyle  = lipgloss.NewStyle().Foreground(theme.ColorBodyText)
	activeStyle = lipgloss.NewStyle().Foreground(theme.ColorGold).Bold(true)
	valueStyle  = lipgloss.NewStyle().Foreground(theme.ColorBrightText)
)

func (f Form) View() string {
	var sb strings.Builder
	sb.WriteString(theme.HeaderStyle.Render(i18n.T("login_title")))
	sb.WriteString("\n")
	sb.WriteString(theme.MutedStyle.Render(i18n.T("login_message")))
	sb.WriteString("\n\n")

	for i, fl := range f.fields {
		arrow, style := "  ", labelStyle
		if i == f.cursor {
			arrow, style = activeStyle.Render("> "), activeStyle
		}
		value := string(fl.value)
		if fl.secret {
			value = strings.Repeat("•", len(fl.value))
		}
		if i == f.cursor {
			value += "▏"
		}
		sb.WriteString(arrow + style.Render(fl.label) + "\n")
		sb.WriteString("    " + valueStyle.Render(value) + "\n")
	}

	if f.warning != "" {
		sb.WriteString("\n" + theme.ErrorStyle.Render(f.warning) + "\n")
	}
	sb.WriteString("\n" + theme.MutedStyle.Render(i18n.T("login_help")) + "\n")
	return sb.String()
}
