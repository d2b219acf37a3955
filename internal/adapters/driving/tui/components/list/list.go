// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/styles"
)

// Item is one selectable row. ID is returned to callers on selection.
type Item struct {
	ID     string
	Title  string
	Detail string
}

// List displays items in a navigable, scrolling list.
type List struct {
	title    string
	empty    string
	items    []Item
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// New creates a list with a header title and a placeholder shown when empty.
func New(s *styles.Styles, title, empty string) *List {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &List{
		title:  title,
		empty:  empty,
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *List) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "home", "g":
			l.selected = 0
		case "end", "G":
			if len(l.items) > 0 {
				l.selected = len(l.items) - 1
			}
		}
	}
	return l, nil
}

// View renders the list.
func (l *List) View() string {
	if len(l.items) == 0 {
		return l.styles.Muted.Render(l.empty)
	}

	lines := make([]string, 0, len(l.items)+2)
	if l.title != "" {
		lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", l.title, len(l.items))), "")
	}

	// Each item takes one line plus the header
	visibleCount := l.height - 4
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.items) {
		end = len(l.items)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderItem(i, &l.items[i]))
	}

	return strings.Join(lines, "\n")
}

func (l *List) renderItem(index int, item *Item) string {
	maxTitleLen := l.width / 2
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title := item.Title
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	if index == l.selected {
		return l.styles.Selected.Render(fmt.Sprintf("> %-*s  %s", maxTitleLen, title, item.Detail))
	}
	return l.styles.Normal.Render(fmt.Sprintf("  %-*s  ", maxTitleLen, title)) +
		l.styles.Muted.Render(item.Detail)
}

// SetItems replaces the items and resets the selection.
func (l *List) SetItems(items []Item) {
	l.items = items
	l.selected = 0
}

// Items returns the current items.
func (l *List) Items() []Item {
	return l.items
}

// Selected returns the index of the selected item.
func (l *List) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *List) SetSelected(index int) {
	if index >= 0 && index < len(l.items) {
		l.selected = index
	}
}

// SelectedItem returns the currently selected item, or nil if none.
func (l *List) SelectedItem() *Item {
	if len(l.items) == 0 || l.selected < 0 || l.selected >= len(l.items) {
		return nil
	}
	return &l.items[l.selected]
}

// MoveUp moves selection up.
func (l *List) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *List) MoveDown() {
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *List) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of items.
func (l *List) Count() int {
	return len(l.items)
}
