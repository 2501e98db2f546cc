package prompt

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anomredux/slt-usage/internal/domain"
)

func typeText(f Form, s string) Form {
	m, _ := f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m.(Form)
}

func press(f Form, k tea.KeyType) (Form, tea.Cmd) {
	m, cmd := f.Update(tea.KeyMsg{Type: k})
	return m.(Form), cmd
}

func TestForm_Submit(t *testing.T) {
	f := NewForm()
	f = typeText(f, "john@mail.com")
	f, _ = press(f, tea.KeyTab)
	f = typeText(f, "s3cret")
	f, _ = press(f, tea.KeyEnter) // advances to subscriber field
	f = typeText(f, "94812232278")

	f, cmd := press(f, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, f.Submitted())
	assert.Equal(t, domain.Credentials{
		Username:     "john@mail.com",
		Password:     "s3cret",
		SubscriberID: "94812232278",
	}, f.Credentials())
}

func TestForm_PasswordIsMasked(t *testing.T) {
	f := NewForm()
	f, _ = press(f, tea.KeyTab)
	f = typeText(f, "s3cret")

	view := f.View()
	assert.NotContains(t, view, "s3cret")
	assert.Contains(t, view, "••••••")
}

func TestForm_IncompleteDoesNotSubmit(t *testing.T) {
	f := NewForm()
	f = typeText(f, "john@mail.com")
	f, _ = press(f, tea.KeyShiftTab) // wraps to subscriber field

	f, cmd := press(f, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.False(t, f.Submitted())
	assert.Contains(t, f.View(), "required")
}

func TestForm_Backspace(t *testing.T) {
	f := typeText(NewForm(), "johnx")
	f, _ = press(f, tea.KeyBackspace)
	assert.Equal(t, "john", f.Credentials().Username)
}

func TestForm_Cancel(t *testing.T) {
	f, cmd := press(NewForm(), tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.True(t, f.Cancelled())
	assert.False(t, f.Submitted())
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Prompt(context.Background())
	assert.ErrorIs(t, err, domain.ErrUserCancelled)
}
