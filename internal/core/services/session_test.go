package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
)

type sessionFixture struct {
	store   *flakyStore
	drafts  *DraftService
	photos  *fakePhotos
	service *SessionService
}

func newSessionFixture(t *testing.T, opts ...SessionOption) *sessionFixture {
	t.Helper()
	cat := newTestCatalog(t)
	store := newFlakyStore()
	drafts := NewDraftService(store, cat, nil)
	photos := newFakePhotos()
	n := 0
	opts = append([]SessionOption{
		WithAutosave(domain.AutosaveSettings{Burst: 1}),
		WithUnitIDs(func() string {
			n++
			return fmt.Sprintf("u%d", n)
		}),
	}, opts...)
	return &sessionFixture{
		store:   store,
		drafts:  drafts,
		photos:  photos,
		service: NewSessionService(drafts, cat, newTestRegistry(), photos, opts...),
	}
}

func (f *sessionFixture) open(t *testing.T, key, equipment string) driving.FormSession {
	t.Helper()
	s, err := f.service.Open(context.Background(), key, equipment)
	require.NoError(t, err)
	return s
}

func (f *sessionFixture) stored(t *testing.T, key, equipment string) domain.Document {
	t.Helper()
	doc, res := f.drafts.Load(context.Background(), key, equipment)
	require.True(t, res.OK, res.Error)
	return doc
}

func TestSessionService_Open_Unsupported(t *testing.T) {
	f := newSessionFixture(t)

	_, err := f.service.Open(context.Background(), "r1/boiler", "boiler")

	assert.ErrorIs(t, err, domain.ErrUnsupportedEquipment)
}

func TestSessionService_Open_LoadsStoredDraft(t *testing.T) {
	f := newSessionFixture(t)
	doc, _ := f.drafts.Load(context.Background(), "r1/fan", "fan")
	require.NoError(t, doc.Set("rated.model", "AX-400"))
	require.True(t, f.drafts.Save(context.Background(), "r1/fan", "fan", doc).OK)

	s := f.open(t, "r1/fan", "fan")

	assert.Equal(t, "r1/fan", s.Key())
	assert.Equal(t, "fan", s.Schema().Key)
	assert.Equal(t, "AX-400", s.Document().Containers["rated"]["model"])
}

func TestFormSession_KeystrokeSettleAutosaves(t *testing.T) {
	f := newSessionFixture(t)
	s := f.open(t, "r1/fan", "fan")

	scheduled, err := s.Keystroke("rated.model", "A")
	require.NoError(t, err)
	assert.True(t, scheduled)

	scheduled, err = s.Keystroke("rated.model", "AX")
	require.NoError(t, err)
	assert.False(t, scheduled)
	assert.True(t, s.Dirty())
	assert.Equal(t, "", s.Document().Containers["rated"]["model"])

	s.Settle()

	assert.False(t, s.Dirty())
	assert.Equal(t, "AX", s.Document().Containers["rated"]["model"])
	assert.True(t, s.LastSave().OK)
	assert.Equal(t, "AX", f.stored(t, "r1/fan", "fan").Containers["rated"]["model"])
}

func TestFormSession_InvalidPath(t *testing.T) {
	f := newSessionFixture(t)
	s := f.open(t, "r1/fan", "fan")

	_, err := s.Keystroke("boiler.model", "x")

	assert.ErrorIs(t, err, domain.ErrInvalidPath)
}

func TestFormSession_CompositionCommitsOnEnd(t *testing.T) {
	f := newSessionFixture(t)
	s := f.open(t, "r1/fan", "fan")

	s.CompositionStart()
	require.NoError(t, s.CompositionUpdate("notes.general", "ㅎ"))
	s.Settle()
	assert.Equal(t, "", s.Document().Notes["general"])

	require.NoError(t, s.CompositionEnd("notes.general", "한"))

	assert.Equal(t, "한", s.Document().Notes["general"])
	assert.Equal(t, "한", f.stored(t, "r1/fan", "fan").Notes["general"])
}

func TestFormSession_AutosaveThrottled(t *testing.T) {
	f := newSessionFixture(t, WithAutosave(domain.AutosaveSettings{Interval: time.Hour, Burst: 1}))
	s := f.open(t, "r1/fan", "fan")

	_, err := s.Keystroke("rated.model", "first")
	require.NoError(t, err)
	s.Blur()
	_, err = s.Keystroke("rated.model", "second")
	require.NoError(t, err)
	s.Enter()

	assert.Equal(t, "second", s.Document().Containers["rated"]["model"])
	assert.Equal(t, "first", f.stored(t, "r1/fan", "fan").Containers["rated"]["model"])

	res := s.Flush(context.Background())

	assert.True(t, res.OK)
	assert.Equal(t, "second", f.stored(t, "r1/fan", "fan").Containers["rated"]["model"])
}

func TestFormSession_AutosaveFailureReported(t *testing.T) {
	f := newSessionFixture(t)
	s := f.open(t, "r1/fan", "fan")
	f.store.setFailing(true)

	_, err := s.Keystroke("rated.model", "AX")
	require.NoError(t, err)
	s.Commit()

	assert.False(t, s.LastSave().OK)
	assert.Contains(t, s.LastSave().Error, "disk full")

	f.store.setFailing(false)
	assert.True(t, s.Flush(context.Background()).OK)
	assert.Equal(t, "AX", f.stored(t, "r1/fan", "fan").Containers["rated"]["model"])
}

func TestFormSession_ConfigChangeResyncsUnits(t *testing.T) {
	f := newSessionFixture(t)
	s := f.open(t, "r1/hotel_noise", "hotel_noise")

	_, err := s.Keystroke("config.roomCount", "2")
	require.NoError(t, err)

	draft := s.Draft()
	require.Len(t, draft.Units, 2)
	assert.Equal(t, "101", draft.Units[0].No)
	assert.Equal(t, "102", draft.Units[1].No)

	require.NoError(t, func() error {
		_, err := s.Keystroke("units."+draft.Units[1].ID+".fields.noiseDb", "42")
		return err
	}())
	s.Settle()

	doc := s.Document()
	require.Len(t, doc.Units, 2)
	assert.Equal(t, "42", doc.Units[1].Fields["noiseDb"])

	_, err = s.Keystroke("config.numbering.start", "201")
	require.NoError(t, err)
	s.Settle()

	doc = s.Document()
	require.Len(t, doc.Units, 2)
	assert.Equal(t, "201", doc.Units[0].No)
	assert.Equal(t, "202", doc.Units[1].No)
}

func TestFormSession_HugeRoomCountIsCapped(t *testing.T) {
	f := newSessionFixture(t)
	s := f.open(t, "r1/hotel_noise", "hotel_noise")

	scheduled, err := s.Keystroke("config.roomCount", "1e18")
	require.NoError(t, err)
	assert.True(t, scheduled)
	s.Settle()

	doc := s.Document()
	require.NotNil(t, doc.Config)
	assert.Equal(t, domain.MaxUnits, doc.Config.RoomCount)
	assert.Len(t, doc.Units, domain.MaxUnits)
}

func TestFormSession_External(t *testing.T) {
	f := newSessionFixture(t)
	s := f.open(t, "r1/fan", "fan")

	s.External(map[string]any{"rated": map[string]any{"model": "remote"}})
	assert.Equal(t, "remote", s.Draft().Containers["rated"]["model"])
	assert.Equal(t, "remote", s.Document().Containers["rated"]["model"])

	_, err := s.Keystroke("rated.model", "local")
	require.NoError(t, err)
	s.External(map[string]any{"rated": map[string]any{"model": "ignored"}})

	assert.Equal(t, "local", s.Draft().Containers["rated"]["model"])
}

func TestFormSession_AddPhotos_KeepsSelectionOrder(t *testing.T) {
	f := newSessionFixture(t)
	s := f.open(t, "r1/fan", "fan")
	first := f.photos.gate("a.png")

	done := make(chan error, 1)
	go func() {
		done <- s.AddPhotos(context.Background(), "overview", []domain.FileHandle{
			{Path: "a.png"}, {Path: "b.png"}, {Path: "c.png"},
		})
	}()

	// b and c complete before a is released.
	for range 3 {
		<-f.photos.started
	}
	close(first)
	require.NoError(t, <-done)

	refs := s.Document().PhotoSlots["overview"]
	require.Len(t, refs, 3)
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, []string{refs[0].Name, refs[1].Name, refs[2].Name})
	assert.Len(t, f.stored(t, "r1/fan", "fan").PhotoSlots["overview"], 3)
}

func TestFormSession_AddPhotos_AppendsToExisting(t *testing.T) {
	f := newSessionFixture(t)
	s := f.open(t, "r1/fan", "fan")
	ctx := context.Background()

	require.NoError(t, s.AddPhotos(ctx, "nameplate", []domain.FileHandle{{Path: "1.png"}}))
	require.NoError(t, s.AddPhotos(ctx, "nameplate", []domain.FileHandle{{Path: "2.png"}}))

	refs := s.Document().PhotoSlots["nameplate"]
	require.Len(t, refs, 2)
	assert.Equal(t, "1.png", refs[0].Name)
	assert.Equal(t, "2.png", refs[1].Name)
}

func TestFormSession_AddPhotos_Errors(t *testing.T) {
	f := newSessionFixture(t)
	s := f.open(t, "r1/fan", "fan")
	f.photos.fail["bad.txt"] = true

	err := s.AddPhotos(context.Background(), "nowhere", []domain.FileHandle{{Path: "a.png"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = s.AddPhotos(context.Background(), "overview", []domain.FileHandle{{Path: "a.png"}, {Path: "bad.txt"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, s.Document().PhotoSlots["overview"])
}

func TestFormSession_AddPhotos_DroppedAfterClose(t *testing.T) {
	f := newSessionFixture(t)
	s := f.open(t, "r1/fan", "fan")
	gate := f.photos.gate("late.png")

	done := make(chan error, 1)
	go func() {
		done <- s.AddPhotos(context.Background(), "overview", []domain.FileHandle{{Path: "late.png"}})
	}()
	<-f.photos.started

	require.True(t, s.Close(context.Background()).OK)
	close(gate)
	require.NoError(t, <-done)

	assert.Empty(t, s.Document().PhotoSlots["overview"])
	assert.Empty(t, f.stored(t, "r1/fan", "fan").PhotoSlots["overview"])
}

func TestFormSession_RemovePhoto(t *testing.T) {
	f := newSessionFixture(t)
	s := f.open(t, "r1/fan", "fan")
	require.NoError(t, s.AddPhotos(context.Background(), "overview", []domain.FileHandle{{Path: "a.png"}, {Path: "b.png"}}))

	require.NoError(t, s.RemovePhoto("overview", 0))
	assert.ErrorIs(t, s.RemovePhoto("overview", 5), domain.ErrInvalidInput)

	refs := s.Document().PhotoSlots["overview"]
	require.Len(t, refs, 1)
	assert.Equal(t, "b.png", refs[0].Name)
}

func TestFormSession_Derived(t *testing.T) {
	f := newSessionFixture(t)
	s := f.open(t, "r1/fan", "fan")
	_, err := s.Keystroke("measured.voltage", "380")
	require.NoError(t, err)
	_, err = s.Keystroke("measured.current", "10")
	require.NoError(t, err)
	s.Blur()

	var load *domain.DerivedValue
	for _, d := range s.Derived() {
		if d.Key == "loadKW" {
			load = &d
		}
	}
	require.NotNil(t, load)
	assert.True(t, load.OK)
	assert.Equal(t, "5.92", load.Text)
}

func TestFormSession_Close(t *testing.T) {
	f := newSessionFixture(t, WithAutosave(domain.AutosaveSettings{Interval: time.Hour, Burst: 1}))
	s := f.open(t, "r1/fan", "fan")
	s.Commit()
	_, err := s.Keystroke("rated.model", "pending")
	require.NoError(t, err)

	res := s.Close(context.Background())

	require.True(t, res.OK)
	assert.Equal(t, "pending", f.stored(t, "r1/fan", "fan").Containers["rated"]["model"])

	scheduled, err := s.Keystroke("rated.model", "after close")
	assert.NoError(t, err)
	assert.False(t, scheduled)
	assert.NoError(t, s.RemovePhoto("overview", 0))
	assert.Equal(t, res, s.Close(context.Background()))
	assert.Equal(t, "pending", s.Document().Containers["rated"]["model"])
}

func TestSessionService_NewSessionPerTab(t *testing.T) {
	f := newSessionFixture(t)
	one := f.open(t, "r1/fan/1", "fan")
	two := f.open(t, "r1/fan/2", "fan")

	_, err := one.Keystroke("rated.model", "one")
	require.NoError(t, err)
	one.Settle()
	require.True(t, one.Close(context.Background()).OK)

	assert.Equal(t, "", two.Document().Containers["rated"]["model"])
	keys, err := f.drafts.List(context.Background(), "r1/")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1/fan/1"}, keys)
}
