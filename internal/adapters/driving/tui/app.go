package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/messages"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/styles"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/views/drafts"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/views/equipment"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/views/form"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/views/menu"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/views/settings"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
	"github.com/enplussmartenergy/erp-sub001/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView      *menu.View
	equipmentView *equipment.View
	draftsView    *drafts.View
	formView      *form.View
	settingsView  *settings.View

	// session is the open form session, nil when no form is open.
	session driving.FormSession

	// reportID groups the drafts created in this run.
	reportID string

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// DefaultReportID is used when no report id is given.
const DefaultReportID = "draft"

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	a := &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		equipmentView: equipment.NewView(s, ports.Catalog),
		draftsView:    drafts.NewView(s, ports.Drafts),
		formView:      form.NewView(s),
		settingsView:  settings.NewView(s, ports.Settings),
		currentView:   messages.ViewMenu, // Start with menu
	}
	a.WithReportID(DefaultReportID)
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.draftsView.WithContext(ctx)
	a.formView.WithContext(ctx)
	return a
}

// WithReportID sets the report new drafts are filed under.
func (a *App) WithReportID(id string) *App {
	if id == "" {
		id = DefaultReportID
	}
	a.reportID = id
	a.menuView.SetReportID(id)
	a.equipmentView.SetReportID(id)
	a.draftsView.SetReportID(id)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("reportdraft - "+a.reportID),
	)
}

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			a.closeSession()
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewMenu:
			if msg.String() == "?" {
				a.currentView = messages.ViewHelp
				return a, nil
			}
			a.menuView, cmd = a.menuView.Update(msg)
		case messages.ViewEquipment:
			a.equipmentView, cmd = a.equipmentView.Update(msg)
		case messages.ViewDrafts:
			a.draftsView, cmd = a.draftsView.Update(msg)
		case messages.ViewForm:
			a.formView, cmd = a.formView.Update(msg)
		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "?" {
				a.currentView = messages.ViewMenu
			}
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		a.err = nil
		switch msg.View {
		case messages.ViewEquipment:
			a.equipmentView.Reset()
			return a, a.equipmentView.Init()
		case messages.ViewDrafts:
			return a, a.draftsView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewForm, messages.ViewHelp:
			// Other views don't need special initialisation
		}
		return a, nil

	case messages.OpenRequested:
		return a, a.openSession(msg)

	case messages.SessionOpened:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		a.closeSession()
		a.session = msg.Session
		if a.ports.Scheduler != nil {
			a.ports.Scheduler.Track(msg.Session)
		}
		a.currentView = messages.ViewForm
		return a, a.formView.SetSession(msg.Session)

	case messages.SettleDue:
		a.formView, cmd = a.formView.Update(msg)
		return a, cmd

	case messages.SessionClosed:
		a.untrack(msg.Key)
		a.formView.Clear()
		a.session = nil
		a.currentView = messages.ViewMenu
		if !msg.Result.OK {
			a.err = fmt.Errorf("saving %s: %s", msg.Key, msg.Result.Error)
		}
		return a, nil

	case messages.DraftsLoaded, messages.DraftCleared:
		a.draftsView, cmd = a.draftsView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		a.closeSession()
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewEquipment:
		a.equipmentView, cmd = a.equipmentView.Update(msg)
	case messages.ViewDrafts:
		a.draftsView, cmd = a.draftsView.Update(msg)
	case messages.ViewForm:
		a.formView, cmd = a.formView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

func (a *App) openSession(req messages.OpenRequested) tea.Cmd {
	ctx, sessions := a.ctx, a.ports.Sessions
	return func() tea.Msg {
		session, err := sessions.Open(ctx, req.Key, req.Equipment)
		return messages.SessionOpened{Session: session, Err: err}
	}
}

// closeSession flushes and closes the open session, if any.
func (a *App) closeSession() {
	if a.session == nil {
		return
	}
	key := a.session.Key()
	if res := a.session.Close(a.ctx); !res.OK {
		logger.Warn("closing %s: %s", key, res.Error)
		a.err = errors.New(res.Error)
	}
	a.untrack(key)
	a.formView.Clear()
	a.session = nil
}

func (a *App) untrack(key string) {
	if a.ports.Scheduler != nil {
		a.ports.Scheduler.Untrack(key)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var out string
	switch a.currentView {
	case messages.ViewEquipment:
		out = a.equipmentView.View()
	case messages.ViewDrafts:
		out = a.draftsView.View()
	case messages.ViewForm:
		out = a.formView.View()
	case messages.ViewSettings:
		out = a.settingsView.View()
	case messages.ViewHelp:
		out = a.viewHelp()
	default:
		out = a.menuView.View()
	}

	if a.err != nil {
		out += "\n\n" + a.styles.Error.Render(fmt.Sprintf("Error: %v", a.err))
	}
	return out
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back (closes and saves an open form)
  ctrl+c      Quit

Menu and lists:
  j/k, ↑/↓    Navigate
  enter       Select
  d           Delete draft (drafts list)
  q           Quit

Form:
  (type)      Edit the focused field
  tab         Next field, commits the edit
  shift+tab   Previous field
  enter       Commit the field
  ctrl+s      Save now

Edits are autosaved after each commit.

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	a.closeSession()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Session returns the open form session, nil when none.
func (a *App) Session() driving.FormSession {
	return a.session
}

// ReportID returns the report new drafts are filed under.
func (a *App) ReportID() string {
	return a.reportID
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.equipmentView.SetDimensions(width, height)
	a.draftsView.SetDimensions(width, height)
	a.formView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
