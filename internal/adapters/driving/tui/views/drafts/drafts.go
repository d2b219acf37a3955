// Package drafts provides the stored drafts view for the TUI.
package drafts

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/components/list"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/messages"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/styles"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
)

// View lists the drafts stored under the current report.
type View struct {
	ctx      context.Context
	styles   *styles.Styles
	drafts   driving.DraftService
	list     *list.List
	reportID string
	loading  bool
	err      error
	notice   string
	width    int
	height   int
}

// NewView creates a new drafts view.
func NewView(s *styles.Styles, drafts driving.DraftService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		ctx:    context.Background(),
		styles: s,
		drafts: drafts,
		list:   list.New(s, "Drafts", "No drafts stored for this report."),
		width:  80,
		height: 24,
	}
}

// WithContext sets the context used for storage calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetReportID sets the report whose drafts are listed.
func (v *View) SetReportID(id string) {
	v.reportID = id
}

// Init loads the draft keys.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.err = nil
	return v.load()
}

func (v *View) load() tea.Cmd {
	ctx, drafts, reportID := v.ctx, v.drafts, v.reportID
	return func() tea.Msg {
		if drafts == nil {
			return messages.DraftsLoaded{ReportID: reportID, Err: fmt.Errorf("draft service not available")}
		}
		keys, err := drafts.List(ctx, reportID+"/")
		return messages.DraftsLoaded{ReportID: reportID, Keys: keys, Err: err}
	}
}

// Update handles messages for the drafts view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.DraftsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.setKeys(msg.Keys)
		}
		return v, nil

	case messages.DraftCleared:
		if !msg.Result.OK {
			v.err = fmt.Errorf("clearing %s: %s", msg.Key, msg.Result.Error)
			return v, nil
		}
		v.notice = "Cleared " + msg.Key
		return v, v.load()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }

	case "enter":
		item := v.list.SelectedItem()
		if item == nil {
			return v, nil
		}
		req := messages.OpenRequested{Key: item.ID, Equipment: equipmentOf(item.ID)}
		return v, func() tea.Msg { return req }

	case "d":
		item := v.list.SelectedItem()
		if item == nil || v.drafts == nil {
			return v, nil
		}
		ctx, drafts, key := v.ctx, v.drafts, item.ID
		return v, func() tea.Msg {
			return messages.DraftCleared{Key: key, Result: drafts.Clear(ctx, key)}
		}

	case "r":
		v.notice = ""
		return v, v.Init()
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) setKeys(keys []string) {
	items := make([]list.Item, len(keys))
	for i, key := range keys {
		items[i] = list.Item{
			ID:     key,
			Title:  strings.TrimPrefix(key, v.reportID+"/"),
			Detail: equipmentOf(key),
		}
	}
	v.list.SetItems(items)
}

// equipmentOf returns the equipment segment of a draft key
// (reportID/equipment[/instance]).
func equipmentOf(key string) string {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// View renders the drafts list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Drafts"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Report " + v.reportID))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading drafts..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
	default:
		b.WriteString(v.list.View())
	}
	b.WriteString("\n\n")

	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Open  [d] Delete  [r] Reload  [Esc] Menu"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-6)
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Count returns the number of listed drafts.
func (v *View) Count() int {
	return v.list.Count()
}
