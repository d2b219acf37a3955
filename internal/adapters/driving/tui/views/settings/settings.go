// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/components/input"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/components/list"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/messages"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/styles"
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
)

// View lists every config key with its value and edits one at a time.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	keys     *list.List
	field    *input.Field
	editing  bool
	err      error
	warning  error
	notice   string

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		settingsService: settingsService,
		keys:            list.New(s, "Settings", "No settings available."),
		field:           input.NewField(s, ""),
		width:           80,
		height:          24,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	service := v.settingsService
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := service.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Reset leaves edit mode and clears notices.
func (v *View) Reset() {
	v.editing = false
	v.notice = ""
	v.err = nil
	v.field.Reset()
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		v.err = nil
		v.warning = v.settingsService.Validate()
		v.populate()
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved"
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.updateEditing(msg)
		}
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case "enter":
		item := v.keys.SelectedItem()
		if item == nil || v.settings == nil {
			return v, nil
		}
		value, _ := v.settings.Value(item.ID)
		v.editing = true
		v.notice = ""
		v.field.SetValue(value)
		v.field.Focus()
		return v, v.field.Init()
	}
	v.keys, _ = v.keys.Update(msg)
	return v, nil
}

func (v *View) updateEditing(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.editing = false
		return v, nil
	case "enter":
		item := v.keys.SelectedItem()
		v.editing = false
		if item == nil {
			return v, nil
		}
		service, key, value := v.settingsService, item.ID, v.field.Value()
		return v, func() tea.Msg {
			return messages.SettingsSaved{Err: service.Set(key, value)}
		}
	}
	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

// populate refreshes the key list, keeping the selection.
func (v *View) populate() {
	selected := v.keys.Selected()
	keys := v.settingsService.Keys()
	items := make([]list.Item, len(keys))
	for i, key := range keys {
		value, _ := v.settings.Value(key)
		items[i] = list.Item{ID: key, Title: key, Detail: display(key, value)}
	}
	v.keys.SetItems(items)
	v.keys.SetSelected(selected)
}

func display(key, value string) string {
	if value == "" {
		return "(not set)"
	}
	if strings.Contains(key, "password") {
		return "********"
	}
	return value
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.settings == nil && v.err == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	b.WriteString(v.keys.View())
	b.WriteString("\n\n")

	if v.editing {
		if item := v.keys.SelectedItem(); item != nil {
			b.WriteString(v.styles.Label.Render(item.ID))
		}
		b.WriteString(v.field.View())
		b.WriteString("\n\n")
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n")
	}
	if v.warning != nil {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %v", v.warning)))
		b.WriteString("\n")
	}
	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	if v.editing {
		b.WriteString(v.styles.Help.Render("[Enter] Save  [Esc] Cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Edit  [Esc] Menu"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.keys.SetDimensions(width, height-8)
	v.field.SetWidth(width - 28)
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}
