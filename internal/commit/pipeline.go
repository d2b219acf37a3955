// Package commit implements the edit buffer that sits between form inputs
// and the document sink.
//
// Edits land in a local draft immediately. Outside an IME composition each
// edit schedules one deferred commit, which the caller runs with Settle
// once the current batch of events is done. Blur, Enter and explicit
// commits flush at once, even mid-composition. While the draft holds
// uncommitted edits, documents pushed from outside are ignored.
//
// A Pipeline is not safe for concurrent use; drive it from one goroutine.
package commit

import (
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// State is the pipeline's scheduling state.
type State int

const (
	// Idle has no scheduled commit.
	Idle State = iota

	// Composing suppresses scheduled commits until the composition ends.
	Composing

	// PendingFlush has a deferred commit waiting for Settle.
	PendingFlush
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Composing:
		return "composing"
	case PendingFlush:
		return "pending"
	default:
		return "unknown"
	}
}

// NormaliseFunc turns a raw tree into a canonical document.
type NormaliseFunc func(raw map[string]any) domain.Document

// Sink receives every committed document. It gets its own copy.
type Sink func(doc domain.Document)

// Hook runs after every draft write, with the path written ("" for edits
// made through Edit). It may modify the draft.
type Hook func(path string, draft *domain.Document)

// Pipeline is the draft buffer of one form.
type Pipeline struct {
	normalise NormaliseFunc
	sink      Sink
	hook      Hook

	draft    domain.Document
	state    State
	dirty    bool
	pending  bool
	disposed bool
	commits  int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHook installs a hook that runs after each draft write.
func WithHook(h Hook) Option {
	return func(p *Pipeline) {
		p.hook = h
	}
}

// New creates a pipeline whose draft starts as normalise(initial).
func New(normalise NormaliseFunc, sink Sink, initial map[string]any, opts ...Option) *Pipeline {
	p := &Pipeline{
		normalise: normalise,
		sink:      sink,
		state:     Idle,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.draft = normalise(initial)
	return p
}

// State returns the scheduling state.
func (p *Pipeline) State() State {
	return p.state
}

// Dirty reports whether the draft holds uncommitted edits.
func (p *Pipeline) Dirty() bool {
	return p.dirty
}

// Disposed reports whether Dispose has been called.
func (p *Pipeline) Disposed() bool {
	return p.disposed
}

// Commits returns how many documents reached the sink.
func (p *Pipeline) Commits() int {
	return p.commits
}

// Draft returns a copy of the current draft.
func (p *Pipeline) Draft() domain.Document {
	return p.draft.Clone()
}

// Keystroke writes value at path. Outside a composition the first write
// of a batch schedules a deferred commit and returns true; the caller must
// then call Settle. Later writes before Settle coalesce into that commit.
func (p *Pipeline) Keystroke(path string, value any) (bool, error) {
	if p.disposed {
		return false, nil
	}
	if err := p.write(path, value); err != nil {
		return false, err
	}
	if p.state != Idle {
		return false, nil
	}
	p.state = PendingFlush
	p.pending = true
	return true, nil
}

// CompositionStart opens a composition. Scheduled commits are held back
// until it ends.
func (p *Pipeline) CompositionStart() {
	if p.disposed {
		return
	}
	p.state = Composing
}

// CompositionUpdate writes intermediate composed text without scheduling.
func (p *Pipeline) CompositionUpdate(path string, value any) error {
	if p.disposed {
		return nil
	}
	if p.state != Composing {
		p.state = Composing
	}
	return p.write(path, value)
}

// CompositionEnd writes the final composed text and commits at once.
func (p *Pipeline) CompositionEnd(path string, value any) error {
	if p.disposed {
		return nil
	}
	err := p.write(path, value)
	p.flush()
	return err
}

// Blur commits at once, ending any composition.
func (p *Pipeline) Blur() {
	p.force()
}

// Enter commits at once, ending any composition.
func (p *Pipeline) Enter() {
	p.force()
}

// Commit commits at once, ending any composition.
func (p *Pipeline) Commit() {
	p.force()
}

// Settle runs the deferred commit scheduled by Keystroke. It does nothing
// when no commit is pending or a composition is open.
func (p *Pipeline) Settle() {
	if p.disposed || !p.pending {
		return
	}
	p.pending = false
	if p.state == Composing {
		return
	}
	p.flush()
}

// External replaces the draft with normalise(raw) unless local edits are
// pending. Returns true when the draft was replaced.
func (p *Pipeline) External(raw map[string]any) bool {
	if p.disposed || p.dirty {
		return false
	}
	p.draft = p.normalise(raw)
	return true
}

// Edit applies fn to the draft and commits at once. Used for discrete
// edits such as attaching photos or toggling a checkbox.
func (p *Pipeline) Edit(fn func(draft *domain.Document) error) error {
	if p.disposed {
		return nil
	}
	if err := fn(&p.draft); err != nil {
		return err
	}
	p.dirty = true
	if p.hook != nil {
		p.hook("", &p.draft)
	}
	p.flush()
	return nil
}

// Dispose discards pending work. Every later event is a no-op.
func (p *Pipeline) Dispose() {
	p.disposed = true
	p.pending = false
	p.state = Idle
}

func (p *Pipeline) write(path string, value any) error {
	if err := p.draft.Set(path, value); err != nil {
		return err
	}
	p.dirty = true
	if p.hook != nil {
		p.hook(path, &p.draft)
	}
	return nil
}

func (p *Pipeline) force() {
	if p.disposed {
		return
	}
	p.flush()
}

func (p *Pipeline) flush() {
	doc := p.normalise(p.draft.Raw())
	p.dirty = false
	p.pending = false
	p.state = Idle
	p.commits++
	if p.sink != nil {
		p.sink(doc.Clone())
	}
}
