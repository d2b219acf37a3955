// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewEquipment picks the equipment type of a new draft.
	ViewEquipment
	// ViewDrafts lists the stored drafts of the current report.
	ViewDrafts
	// ViewForm edits one equipment instance.
	ViewForm
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewEquipment:
		return "equipment"
	case ViewDrafts:
		return "drafts"
	case ViewForm:
		return "form"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// OpenRequested asks the app to open a form session for a draft.
type OpenRequested struct {
	Key       string
	Equipment string
}

// SessionOpened carries a freshly opened form session.
type SessionOpened struct {
	Session driving.FormSession
	Err     error
}

// SettleDue fires when the deferred commit of a keystroke is due. Seq
// identifies the keystroke that scheduled it.
type SettleDue struct {
	Key string
	Seq int
}

// SessionClosed signals the form session was flushed and closed.
type SessionClosed struct {
	Key    string
	Result domain.Result
}

// DraftsLoaded carries the stored draft keys of a report.
type DraftsLoaded struct {
	ReportID string
	Keys     []string
	Err      error
}

// DraftCleared signals a stored draft was deleted.
type DraftCleared struct {
	Key    string
	Result domain.Result
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}
