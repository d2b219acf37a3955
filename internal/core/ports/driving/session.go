package driving

import (
	"context"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
)

// SessionService opens form sessions.
type SessionService interface {
	// Open loads the draft under key and returns a session owning it.
	Open(ctx context.Context, key, equipment string) (FormSession, error)
}

// FormSession owns the document of one active equipment instance.
// All editing methods must be called from a single goroutine; after Close
// they are no-ops.
type FormSession interface {
	// Key returns the draft key.
	Key() string

	// Schema returns the equipment schema.
	Schema() *domain.Schema

	// Document returns a copy of the last committed document.
	Document() domain.Document

	// Draft returns a copy of the edit buffer.
	Draft() domain.Document

	// Dirty reports whether the buffer holds uncommitted edits.
	Dirty() bool

	// Keystroke writes value at path. Returns true when a deferred commit
	// was scheduled and the caller must eventually call Settle.
	Keystroke(path string, value any) (bool, error)

	// CompositionStart opens an IME composition session.
	CompositionStart()

	// CompositionUpdate records intermediate composed text.
	CompositionUpdate(path string, value any) error

	// CompositionEnd records the final composed text and commits.
	CompositionEnd(path string, value any) error

	// Blur commits regardless of composition state.
	Blur()

	// Enter commits regardless of composition state.
	Enter()

	// Commit commits explicitly.
	Commit()

	// Settle runs a scheduled deferred commit, if any.
	Settle()

	// External offers a document computed outside the form. It is ignored
	// while the buffer is dirty.
	External(raw map[string]any)

	// AddPhotos reads files and appends them to slot in selection order.
	AddPhotos(ctx context.Context, slot string, files []domain.FileHandle) error

	// RemovePhoto deletes the photo at index from slot.
	RemovePhoto(slot string, index int) error

	// Derived computes the read-only values of the current buffer.
	Derived() []domain.DerivedValue

	// Flush saves the committed document immediately, bypassing autosave throttling.
	Flush(ctx context.Context) domain.Result

	// SavePending writes a save deferred by the autosave throttle once the
	// throttle allows it. Returns true when a save was attempted.
	SavePending(ctx context.Context) bool

	// LastSave returns the result of the most recent save attempt.
	LastSave() domain.Result

	// Close commits pending edits, saves and disposes the session.
	Close(ctx context.Context) domain.Result
}

// PendingSaver is a session whose autosave may have been deferred.
type PendingSaver interface {
	Key() string
	SavePending(ctx context.Context) bool
}

// AutosaveScheduler retries deferred autosaves of open sessions in the
// background.
type AutosaveScheduler interface {
	Track(s PendingSaver)
	Untrack(key string)
	Start(ctx context.Context)
	Stop()
}
