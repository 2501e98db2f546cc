package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anomredux/slt-usage/internal/domain"
)

// Terminal runs the login form on the controlling terminal.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

// NewTerminal prompts on stdin and draws on stderr, leaving stdout for the widget.
func NewTerminal() *Terminal {
	return &Terminal{In: os.Stdin, Out: os.Stderr}
}

func (t *Terminal) Prompt(ctx context.Context) (domain.Credentials, error) {
	p := tea.NewProgram(NewForm(),
		tea.WithContext(ctx),
		tea.WithInput(t.In),
		tea.WithOutput(t.Out),
	)
	final, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
		return domain.Credentials{}, domain.ErrUserCancelled
	}
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("run login prompt: %w", err)
	}
	form, ok := final.(Form)
	if !ok || !form.Submitted() {
		return domain.Credentials{}, domain.ErrUserCancelled
	}
	return form.Credentials(), nil
}

// Disabled never prompts. It is used when no terminal is attached, such as
// scheduled refreshes.
type Disabled struct{}

func (Disabled) Prompt(context.Context) (domain.Credentials, error) {
	return domain.Credentials{}, fmt.Errorf("%w: no stored login and no terminal to ask for one (run `slt-usage login`)", domain.ErrUserCancelled)
}
