package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/messages"
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

func newTestApp(t *testing.T) (*App, *testEnv) {
	t.Helper()
	env := newTestPorts(t)
	app, err := NewApp(env.ports)
	require.NoError(t, err)
	app.SetDimensions(120, 60)
	return app, env
}

// openForm drives the app from an open request to the form view.
func openForm(t *testing.T, app *App, key, equipment string) {
	t.Helper()
	_, cmd := app.Update(messages.OpenRequested{Key: key, Equipment: equipment})
	require.NotNil(t, cmd)
	app.Update(cmd())
	require.Equal(t, messages.ViewForm, app.CurrentView())
}

func TestNewApp_Success(t *testing.T) {
	env := newTestPorts(t)

	app, err := NewApp(env.ports)

	require.NoError(t, err)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.Equal(t, DefaultReportID, app.ReportID())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingCatalogService)
	assert.Nil(t, app)
}

func TestApp_WithReportID(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Same(t, app, app.WithReportID("r7"))
	assert.Equal(t, "r7", app.ReportID())
	assert.Contains(t, app.View(), "report r7")

	app.WithReportID("")
	assert.Equal(t, DefaultReportID, app.ReportID())
}

func TestApp_WithContext(t *testing.T) {
	app, _ := newTestApp(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, app, app.WithContext(ctx))
}

func TestApp_Init(t *testing.T) {
	app, _ := newTestApp(t)

	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	env := newTestPorts(t)
	app, err := NewApp(env.ports)
	require.NoError(t, err)

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "New inspection")
}

func TestApp_HelpToggle(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Help")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_ViewChanged(t *testing.T) {
	tests := []struct {
		view    messages.ViewType
		want    string
		wantCmd bool
	}{
		{messages.ViewEquipment, "New inspection", false},
		{messages.ViewDrafts, "Drafts", true},
		{messages.ViewSettings, "Settings", true},
		{messages.ViewHelp, "Help", false},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			app, _ := newTestApp(t)

			_, cmd := app.Update(messages.ViewChanged{View: tt.view})

			assert.Equal(t, tt.view, app.CurrentView())
			assert.Equal(t, tt.wantCmd, cmd != nil)
			if cmd != nil {
				app.Update(cmd())
			}
			assert.Contains(t, app.View(), tt.want)
		})
	}
}

func TestApp_NewInspectionFlow(t *testing.T) {
	app, env := newTestApp(t)
	app.WithReportID("r1")
	app.Update(messages.ViewChanged{View: messages.ViewEquipment})

	// pick fan, accept an empty instance name
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, cmd = app.Update(cmd())
	require.NotNil(t, cmd)
	app.Update(cmd())

	require.Equal(t, messages.ViewForm, app.CurrentView())
	require.NotNil(t, app.Session())
	assert.Equal(t, "r1/fan", app.Session().Key())
	assert.Contains(t, env.scheduler.tracked, "r1/fan")
	assert.Contains(t, app.View(), "Manufacturer")
}

func TestApp_FormEditAndClose(t *testing.T) {
	app, env := newTestApp(t)
	openForm(t, app, "r1/fan", "fan")

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Acme")})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.Nil(t, app.Session())
	assert.NoError(t, app.Err())
	assert.Equal(t, []string{"r1/fan"}, env.scheduler.untracked)

	raw, err := env.store.Load(context.Background(), "r1/fan")
	require.NoError(t, err)
	assert.Contains(t, string(raw.Data), "Acme")
}

func TestApp_OpenFailure(t *testing.T) {
	env := newTestPorts(t)
	env.ports.Sessions = &MockSessionService{err: errors.New("boom")}
	app, err := NewApp(env.ports)
	require.NoError(t, err)
	app.SetDimensions(80, 24)

	_, cmd := app.Update(messages.OpenRequested{Key: "r1/fan", Equipment: "fan"})
	app.Update(cmd())

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.EqualError(t, app.Err(), "boom")
	assert.Contains(t, app.View(), "Error: boom")
}

func TestApp_SessionClosedWithFailure(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.SessionClosed{Key: "r1/fan", Result: domain.Result{Error: "disk full"}})

	require.Error(t, app.Err())
	assert.Contains(t, app.Err().Error(), "disk full")
}

func TestApp_CtrlCClosesSession(t *testing.T) {
	app, env := newTestApp(t)
	openForm(t, app, "r1/pump", "pump")
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("P-1")})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Nil(t, app.Session())
	raw, err := env.store.Load(context.Background(), "r1/pump")
	require.NoError(t, err)
	assert.Contains(t, string(raw.Data), "P-1")
}

func TestApp_DraftsFlow(t *testing.T) {
	app, _ := newTestApp(t)
	app.WithReportID("r1")
	openForm(t, app, "r1/fan/east", "fan")
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Acme")})
	app.Update(messages.Quit{})

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewDrafts})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Contains(t, app.View(), "fan/east")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, cmd = app.Update(cmd())
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewForm, app.CurrentView())
	assert.Equal(t, "r1/fan/east", app.Session().Key())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("bad")})

	assert.EqualError(t, app.Err(), "bad")
}
