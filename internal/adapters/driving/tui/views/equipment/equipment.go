// Package equipment provides the view that starts a new inspection draft.
package equipment

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

// View picks an equipment type and names the instance to inspect.
type View struct {
	styles   *styles.Styles
	catalog  driving.CatalogService
	list     *list.List
	name     *input.Field
	naming   bool
	reportID string
	width    int
	height   int
}

// NewView creates a new equipment picker.
func NewView(s *styles.Styles, catalog driving.CatalogService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	name := input.NewField(s, "Instance")
	name.SetPlaceholder("optional, e.g. east or 2F")

	return &View{
		styles:  s,
		catalog: catalog,
		list:    list.New(s, "Equipment", "No equipment schemas loaded"),
		name:    name,
		width:   80,
		height:  24,
	}
}

// Init loads the schemas into the list.
func (v *View) Init() tea.Cmd {
	if v.catalog == nil {
		return nil
	}
	schemas := v.catalog.List()
	items := make([]list.Item, len(schemas))
	for i := range schemas {
		items[i] = list.Item{
			ID:     schemas[i].Key,
			Title:  schemas[i].Label,
			Detail: describe(&schemas[i]),
		}
	}
	v.list.SetItems(items)
	return nil
}

func describe(s *domain.Schema) string {
	parts := []string{string(s.Mode)}
	if s.Unit != nil {
		kinds := make([]string, len(s.Unit.Kinds))
		for i, k := range s.Unit.Kinds {
			kinds[i] = k.Key
		}
		parts = append(parts, "units: "+strings.Join(kinds, "/"))
	}
	if n := len(s.Photos); n > 0 {
		parts = append(parts, fmt.Sprintf("%d photo slots", n))
	}
	return strings.Join(parts, ", ")
}

// Reset returns to the schema list.
func (v *View) Reset() {
	v.naming = false
	v.name.Reset()
}

// SetReportID sets the report new drafts are filed under.
func (v *View) SetReportID(id string) {
	v.reportID = id
}

// Update handles messages for the equipment view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if v.naming {
			var cmd tea.Cmd
			v.name, cmd = v.name.Update(msg)
			return v, cmd
		}
		return v, nil
	}

	if v.naming {
		return v.updateNaming(keyMsg)
	}

	switch keyMsg.String() {
	case "esc":
		return v, changeView(messages.ViewMenu)
	case "enter":
		if v.list.SelectedItem() == nil {
			return v, nil
		}
		v.naming = true
		v.name.Reset()
		v.name.Focus()
		return v, v.name.Init()
	}

	v.list, _ = v.list.Update(keyMsg)
	return v, nil
}

func (v *View) updateNaming(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.naming = false
		return v, nil
	case "enter":
		item := v.list.SelectedItem()
		if item == nil {
			return v, nil
		}
		req := messages.OpenRequested{
			Key:       domain.DraftKey(v.reportID, item.ID, v.name.Value()),
			Equipment: item.ID,
		}
		v.naming = false
		return v, func() tea.Msg { return req }
	}

	var cmd tea.Cmd
	v.name, cmd = v.name.Update(msg)
	return v, cmd
}

// View renders the picker.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("New inspection"))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	b.WriteString("\n\n")

	if v.naming {
		if item := v.list.SelectedItem(); item != nil {
			b.WriteString(v.styles.Subtitle.Render(item.Title))
			b.WriteString("\n")
		}
		b.WriteString(v.name.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[Enter] Open  [Esc] Back"))
		return b.String()
	}

	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [Esc] Menu"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, height-6)
	v.name.SetWidth(width)
}

// Naming reports whether the instance name prompt is shown.
func (v *View) Naming() bool {
	return v.naming
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}
