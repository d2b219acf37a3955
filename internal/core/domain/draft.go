package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Draft is a persisted, not-yet-submitted snapshot of a document.
type Draft struct {
	// Key identifies the draft in the store.
	Key string `json:"key"`

	// SavedAt is when the draft was written.
	SavedAt time.Time `json:"savedAt"`

	// Data is the raw JSON of the document.
	Data json.RawMessage `json:"data"`
}

// Result is the envelope every fallible store or sink operation returns
// across the core boundary. Failures are reported, never thrown.
type Result struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// OKResult is the successful result.
func OKResult() Result {
	return Result{OK: true}
}

// FailResult wraps err in a failed result.
func FailResult(err error) Result {
	if err == nil {
		return Result{OK: false}
	}
	return Result{OK: false, Error: err.Error()}
}

// LoadResult is the envelope returned by draft loads. Draft is nil when no
// draft exists under the key.
type LoadResult struct {
	Result
	Draft *Draft `json:"draft"`
}

// DraftKey builds the store key of one equipment instance in a report.
func DraftKey(reportID, equipment, instance string) string {
	parts := []string{strings.TrimSpace(reportID), strings.TrimSpace(equipment)}
	if s := strings.TrimSpace(instance); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "/")
}
