// Package form provides the equipment form editor view for the TUI.
package form

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/components/input"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/components/status"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/keymap"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/messages"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driving/tui/styles"
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
)

// View edits the document of one form session. Typing goes through
// Keystroke; leaving a field, enter and ctrl+s commit.
type View struct {
	ctx     context.Context
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	session driving.FormSession
	rows    []row
	focus   int
	field   *input.Field
	bar     *status.Bar
	seq     int
	closing bool
	width   int
	height  int
}

// NewView creates an empty form view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		ctx:    context.Background(),
		styles: s,
		keymap: km,
		field:  input.NewField(s, ""),
		bar:    status.NewBar(s, km),
		width:  80,
		height: 24,
	}
}

// WithContext sets the context used for saves.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetSession starts editing session. The first field gets focus.
func (v *View) SetSession(session driving.FormSession) tea.Cmd {
	v.session = session
	v.seq++
	v.focus = 0
	v.closing = false
	v.bar.Clear()
	v.bar.SetState(status.StateEditing)
	v.refresh("")
	return v.field.Init()
}

// Session returns the session being edited, nil when none.
func (v *View) Session() driving.FormSession {
	return v.session
}

// Clear detaches the session.
func (v *View) Clear() {
	v.session = nil
	v.rows = nil
	v.focus = 0
	v.closing = false
	v.field.Reset()
	v.bar.Clear()
}

// Init implements the view lifecycle.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the form view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if v.session == nil {
		return v, nil
	}

	switch msg := msg.(type) {
	case messages.SettleDue:
		if msg.Key != v.session.Key() || msg.Seq != v.seq {
			return v, nil
		}
		v.session.Settle()
		v.afterCommit()
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.closing {
		return v, nil
	}
	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		return v, v.close()

	case keymap.Matches(msg.String(), v.keymap.Next):
		v.session.Blur()
		v.move(1)
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Prev):
		v.session.Blur()
		v.move(-1)
		return v, nil

	case msg.Type == tea.KeyDown:
		v.session.Blur()
		v.move(1)
		return v, nil

	case msg.Type == tea.KeyUp:
		v.session.Blur()
		v.move(-1)
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Commit):
		v.session.Enter()
		v.afterCommit()
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Save):
		res := v.session.Flush(v.ctx)
		v.refresh(v.currentPath())
		v.bar.SetSave(res, v.session.Dirty())
		return v, nil
	}

	return v.edit(msg)
}

// edit forwards msg to the input and writes a changed value through
// Keystroke, scheduling the deferred commit when asked to.
func (v *View) edit(msg tea.KeyMsg) (*View, tea.Cmd) {
	r, ok := v.current()
	if !ok {
		return v, nil
	}
	before := v.field.Value()
	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	after := v.field.Value()
	if after == before {
		return v, cmd
	}

	scheduled, err := v.session.Keystroke(r.path, parseInput(r.typ, after))
	if err != nil {
		v.bar.SetState(status.StateError)
		v.bar.SetMessage(err.Error())
		return v, cmd
	}
	v.bar.SetState(status.StateEditing)
	v.bar.SetMessage("")
	v.bar.SetDirty(v.session.Dirty())
	if !scheduled {
		return v, cmd
	}

	due := messages.SettleDue{Key: v.session.Key(), Seq: v.seq}
	return v, tea.Batch(cmd, func() tea.Msg { return due })
}

func (v *View) close() tea.Cmd {
	v.closing = true
	ctx, session := v.ctx, v.session
	return func() tea.Msg {
		return messages.SessionClosed{Key: session.Key(), Result: session.Close(ctx)}
	}
}

// afterCommit reloads rows, which may have changed with a unit resync,
// and shows the save state.
func (v *View) afterCommit() {
	v.refresh(v.currentPath())
	v.bar.SetSave(v.session.LastSave(), v.session.Dirty())
}

// refresh rebuilds the rows from the live draft and keeps focus on path
// when it still exists.
func (v *View) refresh(path string) {
	draft := v.session.Draft()
	v.rows = buildRows(v.session.Schema(), &draft)
	if i := indexOf(v.rows, path); i >= 0 {
		v.focus = i
	}
	if v.focus >= len(v.rows) {
		v.focus = len(v.rows) - 1
	}
	if v.focus < 0 {
		v.focus = 0
	}
	v.loadField(&draft)
}

func (v *View) move(delta int) {
	if len(v.rows) == 0 {
		return
	}
	path := v.currentPath()
	draft := v.session.Draft()
	v.rows = buildRows(v.session.Schema(), &draft)
	if i := indexOf(v.rows, path); i >= 0 {
		v.focus = i
	}
	v.focus = (v.focus + delta + len(v.rows)) % len(v.rows)
	v.loadField(&draft)
	v.bar.SetSave(v.session.LastSave(), v.session.Dirty())
}

func (v *View) loadField(draft *domain.Document) {
	r, ok := v.current()
	if !ok {
		v.field.Reset()
		return
	}
	value, _ := draft.Get(r.path)
	v.field.SetValue(domain.StringValue(value))
}

func (v *View) current() (row, bool) {
	if v.focus < 0 || v.focus >= len(v.rows) {
		return row{}, false
	}
	return v.rows[v.focus], true
}

func (v *View) currentPath() string {
	r, _ := v.current()
	return r.path
}

// View renders the form.
func (v *View) View() string {
	if v.session == nil {
		return v.styles.Muted.Render("No form open.")
	}
	schema := v.session.Schema()
	draft := v.session.Draft()

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(schema.Label))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render(v.session.Key()))
	b.WriteString("\n\n")

	b.WriteString(v.renderRows(&draft))
	b.WriteString("\n")

	if panel := v.renderDerived(); panel != "" {
		b.WriteString(panel)
		b.WriteString("\n")
	}
	if photos := v.renderPhotos(schema, &draft); photos != "" {
		b.WriteString(photos)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.bar.View())
	return b.String()
}

func (v *View) renderRows(draft *domain.Document) string {
	if len(v.rows) == 0 {
		return v.styles.Muted.Render("This form has no editable fields.")
	}

	visible := v.height - 14
	if visible < 5 {
		visible = 5
	}
	start := 0
	if v.focus >= visible {
		start = v.focus - visible + 1
	}
	end := start + visible
	if end > len(v.rows) {
		end = len(v.rows)
	}

	var b strings.Builder
	group := ""
	if start > 0 {
		group = v.rows[start-1].group
	}
	for i := start; i < end; i++ {
		r := v.rows[i]
		if r.group != group {
			group = r.group
			b.WriteString(v.styles.Subtitle.Render(group))
			b.WriteString("\n")
		}
		if i == v.focus {
			b.WriteString(v.styles.Label.Render("> "+r.label) + v.field.View())
		} else {
			label := v.styles.Label.Render("  " + r.label)
			value, _ := draft.Get(r.path)
			b.WriteString(label + v.styles.Value.Render(domain.StringValue(value)))
		}
		b.WriteString("\n")
	}
	if end < len(v.rows) {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  … %d more", len(v.rows)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderDerived() string {
	values := v.session.Derived()
	if len(values) == 0 {
		return ""
	}
	lines := make([]string, 0, len(values))
	for _, d := range values {
		text := "-"
		if d.OK {
			text = strings.TrimSpace(d.Text + " " + d.Unit)
		}
		lines = append(lines, v.styles.Label.Render(d.Label)+v.styles.Value.Render(text))
	}
	return v.styles.Derived.Render(strings.Join(lines, "\n"))
}

func (v *View) renderPhotos(schema *domain.Schema, draft *domain.Document) string {
	if len(schema.Photos) == 0 {
		return ""
	}
	parts := make([]string, 0, len(schema.Photos))
	for _, slot := range schema.Photos {
		parts = append(parts, fmt.Sprintf("%s %d", slot.Label, len(draft.PhotoSlots[slot.ID])))
	}
	return v.styles.Muted.Render("Photos: " + strings.Join(parts, " · "))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.bar.SetWidth(width)
	v.field.SetWidth(width - 28)
}

// Focused returns the document path of the focused field.
func (v *View) Focused() string {
	return v.currentPath()
}

// Rows returns the number of editable fields.
func (v *View) Rows() int {
	return len(v.rows)
}

// Status returns the status bar.
func (v *View) Status() *status.Bar {
	return v.bar
}
