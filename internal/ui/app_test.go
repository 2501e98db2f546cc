package ui

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anomredux/slt-usage/internal/domain"
	"github.com/anomredux/slt-usage/internal/pipeline"
	"github.com/anomredux/slt-usage/internal/theme"
	"github.com/anomredux/slt-usage/internal/views"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string { return ansiRe.ReplaceAllString(s, "") }

type fakeRunner struct {
	mu    sync.Mutex
	calls []pipeline.Settings
	err   error
	usage domain.UsageSummary
	now   time.Time
}

func (r *fakeRunner) Run(_ context.Context, s pipeline.Settings) (*pipeline.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, s)
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	w, err := views.Home(views.Data{
		Usage:   r.usage,
		Palette: theme.Dark,
		Now:     r.now,
		Refresh: s.Refresh,
	})
	if err != nil {
		return nil, err
	}
	return &pipeline.Result{RunID: "run-1", Usage: r.usage, Widget: w}, nil
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newTestApp(r *fakeRunner, c *clock) App {
	a := NewApp(context.Background(), r, pipeline.Settings{
		Variant: views.VariantHome,
		Refresh: 30 * time.Minute,
	}, Options{Now: c.Now})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m.(App)
}

// exec runs a command that is expected to produce a single pipeline result
// and feeds it back into the model.
func exec(t *testing.T, a App, cmd tea.Cmd) App {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	done, ok := msg.(runDoneMsg)
	require.True(t, ok, "expected runDoneMsg, got %T", msg)
	m, _ := a.Update(done)
	return m.(App)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_RefreshShowsWidget(t *testing.T) {
	c := &clock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	r := &fakeRunner{usage: domain.UsageSummary{Limit: 24, Used: 9.6, VolumeUnit: "GB"}, now: c.t}
	a := newTestApp(r, c)

	a = exec(t, a, a.refresh(false))

	assert.False(t, a.loading)
	assert.NoError(t, a.err)
	require.NotNil(t, a.widget)
	assert.Equal(t, c.t.Add(30*time.Minute), a.nextRun)

	view := stripANSI(a.View())
	assert.Contains(t, view, "SLT Usage")
	assert.Contains(t, view, "Limit: 24 GB")
	assert.Contains(t, view, "Updated 09:00:00")
	assert.Contains(t, view, "next refresh in 30m 0s")
	assert.Contains(t, view, "9.6 GB / 24 GB (40%)")
}

func TestApp_RefreshKey(t *testing.T) {
	c := &clock{t: time.Now()}
	r := &fakeRunner{usage: domain.UsageSummary{Limit: 10, Used: 1}, now: c.t}
	a := newTestApp(r, c)
	a = exec(t, a, a.refresh(false))

	m, cmd := a.Update(key("r"))
	a = m.(App)
	assert.True(t, a.loading)
	a = exec(t, a, cmd)
	assert.Len(t, r.calls, 2)
	assert.False(t, r.calls[1].ForceRefresh)

	// Refresh while a run is in flight is ignored.
	a.loading = true
	_, cmd = a.Update(key("r"))
	assert.Nil(t, cmd)
}

func TestApp_ForceKeyReloadsRenderer(t *testing.T) {
	c := &clock{t: time.Now()}
	r := &fakeRunner{usage: domain.UsageSummary{Limit: 10, Used: 1}, now: c.t}
	a := newTestApp(r, c)
	a.loading = false

	m, cmd := a.Update(key("f"))
	a = exec(t, m.(App), cmd)

	require.Len(t, r.calls, 1)
	assert.True(t, r.calls[0].ForceRefresh)
	assert.False(t, a.settings.ForceRefresh, "force applies to one run only")
}

func TestApp_FailureKeepsLastWidget(t *testing.T) {
	c := &clock{t: time.Now()}
	r := &fakeRunner{usage: domain.UsageSummary{Limit: 10, Used: 5}, now: c.t}
	a := newTestApp(r, c)
	a = exec(t, a, a.refresh(false))
	good := a.widget

	r.err = &domain.BackendError{Status: 503, Message: "maintenance"}
	c.t = c.t.Add(time.Minute)
	a = exec(t, a, a.refresh(false))

	assert.Same(t, good, a.widget)
	assert.Equal(t, c.t.Add(30*time.Minute), a.nextRun)
	view := stripANSI(a.View())
	assert.Contains(t, view, "Refresh failed:")
	assert.Contains(t, view, "maintenance")
	assert.NotContains(t, view, "slt-usage login")
}

func TestApp_CredentialFailureShowsLoginHint(t *testing.T) {
	c := &clock{t: time.Now()}
	r := &fakeRunner{err: &domain.AuthError{Message: "Invalid username or password"}}
	a := newTestApp(r, c)
	a = exec(t, a, a.refresh(false))

	assert.Nil(t, a.widget)
	view := stripANSI(a.View())
	assert.Contains(t, view, "Invalid username or password")
	assert.Contains(t, view, "slt-usage login")
}

func TestApp_TickTriggersScheduledRefresh(t *testing.T) {
	c := &clock{t: time.Now()}
	r := &fakeRunner{usage: domain.UsageSummary{Limit: 10, Used: 1}, now: c.t}
	a := newTestApp(r, c)
	a = exec(t, a, a.refresh(false))

	m, _ := a.Update(TickMsg(c.t))
	a = m.(App)
	assert.False(t, a.loading, "not due yet")

	c.t = a.nextRun
	m, _ = a.Update(TickMsg(c.t))
	a = m.(App)
	assert.True(t, a.loading)
}

func TestApp_ConfigReload(t *testing.T) {
	c := &clock{t: time.Now()}
	r := &fakeRunner{usage: domain.UsageSummary{Limit: 10, Used: 1}, now: c.t}
	a := newTestApp(r, c)
	a.loading = false

	m, cmd := a.Update(ConfigReloadedMsg{Settings: pipeline.Settings{
		Variant: views.VariantDefault,
		Refresh: 5 * time.Minute,
	}})
	a = m.(App)
	assert.Equal(t, views.VariantDefault, a.settings.Variant)
	assert.Contains(t, stripANSI(a.View()), "Config reloaded")

	a = exec(t, a, cmd)
	require.Len(t, r.calls, 1)
	assert.Equal(t, 5*time.Minute, r.calls[0].Refresh)
}

func TestApp_HelpOverlay(t *testing.T) {
	c := &clock{t: time.Now()}
	a := newTestApp(&fakeRunner{}, c)

	m, _ := a.Update(key("?"))
	a = m.(App)
	assert.Contains(t, stripANSI(a.View()), "Keyboard shortcuts")

	// Keys other than close are swallowed while help is open.
	m, cmd := a.Update(key("r"))
	a = m.(App)
	assert.Nil(t, cmd)
	assert.True(t, a.helpOpen)

	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.(App).helpOpen)
}

func TestApp_Quit(t *testing.T) {
	a := newTestApp(&fakeRunner{}, &clock{t: time.Now()})
	_, cmd := a.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_IdleWithoutWidget(t *testing.T) {
	a := newTestApp(&fakeRunner{err: errors.New("boom")}, &clock{t: time.Now()})
	a.loading = false
	assert.Contains(t, stripANSI(a.View()), "Waiting for first refresh")
}
