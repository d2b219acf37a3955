package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/enplussmartenergy/erp-sub001/internal/calculators"
	"github.com/enplussmartenergy/erp-sub001/internal/commit"
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
	"github.com/enplussmartenergy/erp-sub001/internal/logger"
	"github.com/enplussmartenergy/erp-sub001/internal/normalisers/document"
	"github.com/enplussmartenergy/erp-sub001/internal/units"
)

// Ensure SessionService and FormSession implement the interfaces.
var (
	_ driving.SessionService = (*SessionService)(nil)
	_ driving.FormSession    = (*FormSession)(nil)
)

// maxPhotoReads bounds concurrent photo reads in one AddPhotos batch.
const maxPhotoReads = 4

// SessionService opens form sessions over persisted drafts.
type SessionService struct {
	drafts     driving.DraftService
	catalog    driven.SchemaCatalog
	registry   *calculators.Registry
	photos     driven.PhotoReader
	normaliser *document.Normaliser
	autosave   domain.AutosaveSettings
	newUnitID  func() string
}

// SessionOption configures a SessionService.
type SessionOption func(*SessionService)

// WithAutosave sets the autosave throttle of new sessions.
func WithAutosave(a domain.AutosaveSettings) SessionOption {
	return func(s *SessionService) {
		s.autosave = a
	}
}

// WithNormaliser sets the normaliser used by the commit pipeline.
func WithNormaliser(n *document.Normaliser) SessionOption {
	return func(s *SessionService) {
		if n != nil {
			s.normaliser = n
		}
	}
}

// WithUnitIDs sets the id generator for units created by resyncs.
func WithUnitIDs(f func() string) SessionOption {
	return func(s *SessionService) {
		s.newUnitID = f
	}
}

// NewSessionService creates a new session service.
func NewSessionService(
	drafts driving.DraftService,
	catalog driven.SchemaCatalog,
	registry *calculators.Registry,
	photos driven.PhotoReader,
	opts ...SessionOption,
) *SessionService {
	s := &SessionService{
		drafts:     drafts,
		catalog:    catalog,
		registry:   registry,
		photos:     photos,
		normaliser: document.New(),
		autosave:   domain.DefaultAppSettings().Autosave,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the draft under key and returns a session editing it.
func (s *SessionService) Open(ctx context.Context, key, equipment string) (driving.FormSession, error) {
	schema, ok := s.catalog.Get(equipment)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedEquipment, equipment)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: empty draft key", domain.ErrInvalidInput)
	}

	doc, res := s.drafts.Load(ctx, key, equipment)
	if !res.OK {
		return nil, fmt.Errorf("%w: open %s: %s", domain.ErrStorage, key, res.Error)
	}

	limit := rate.Inf
	if s.autosave.Interval > 0 {
		limit = rate.Every(s.autosave.Interval)
	}
	burst := s.autosave.Burst
	if burst < 1 {
		burst = 1
	}

	f := &FormSession{
		ctx:       context.WithoutCancel(ctx),
		key:       key,
		equipment: equipment,
		schema:    schema,
		drafts:    s.drafts,
		registry:  s.registry,
		photos:    s.photos,
		limiter:   rate.NewLimiter(limit, burst),
		sync:      units.NewSynchronizer(s.newUnitID),
		lastSave:  domain.OKResult(),
	}
	f.sync.Apply(schema, &doc)

	normalise := func(raw map[string]any) domain.Document {
		return s.normaliser.Normalise(schema, raw)
	}
	f.pipeline = commit.New(normalise, f.committed, doc.Raw(), commit.WithHook(f.resync))
	f.doc = f.pipeline.Draft()

	logger.Debug("session %s opened (%s)", key, equipment)
	return f, nil
}

// FormSession edits one equipment instance. Edits go through a commit
// pipeline; committed documents are autosaved, throttled by a rate limiter.
// Once closed every event is a no-op.
type FormSession struct {
	mu sync.Mutex

	ctx       context.Context
	key       string
	equipment string
	schema    *domain.Schema

	drafts   driving.DraftService
	registry *calculators.Registry
	photos   driven.PhotoReader
	limiter  *rate.Limiter
	sync     *units.Synchronizer
	pipeline *commit.Pipeline

	doc      domain.Document
	unsaved  bool
	lastSave domain.Result
	closed   bool
}

// Key returns the draft key.
func (f *FormSession) Key() string {
	return f.key
}

// Schema returns the equipment schema.
func (f *FormSession) Schema() *domain.Schema {
	return f.schema
}

// Document returns the last committed document.
func (f *FormSession) Document() domain.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc.Clone()
}

// Draft returns the live draft, including uncommitted edits.
func (f *FormSession) Draft() domain.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pipeline.Draft()
}

// Dirty reports whether the draft holds uncommitted edits.
func (f *FormSession) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pipeline.Dirty()
}

// Keystroke writes value at path. It returns true when the caller must
// schedule a Settle.
func (f *FormSession) Keystroke(path string, value any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false, nil
	}
	return f.pipeline.Keystroke(path, value)
}

func (f *FormSession) CompositionStart() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pipeline.CompositionStart()
}

func (f *FormSession) CompositionUpdate(path string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pipeline.CompositionUpdate(path, value)
}

func (f *FormSession) CompositionEnd(path string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pipeline.CompositionEnd(path, value)
}

func (f *FormSession) Blur() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pipeline.Blur()
}

func (f *FormSession) Enter() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pipeline.Enter()
}

func (f *FormSession) Commit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pipeline.Commit()
}

// Settle runs the commit scheduled by Keystroke.
func (f *FormSession) Settle() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pipeline.Settle()
}

// External replaces the draft with a document that changed elsewhere,
// unless local edits are pending.
func (f *FormSession) External(raw map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pipeline.External(raw) {
		f.sync.Reset()
		f.doc = f.pipeline.Draft()
	}
}

// AddPhotos reads files concurrently and appends them to slot in the order
// given, then commits. Results that arrive after Close are dropped.
func (f *FormSession) AddPhotos(ctx context.Context, slot string, files []domain.FileHandle) error {
	if !slices.Contains(f.schema.PhotoIDs(), slot) {
		return fmt.Errorf("%w: unknown photo slot %q", domain.ErrInvalidInput, slot)
	}
	if len(files) == 0 || f.isClosed() {
		return nil
	}

	refs := make([]domain.PhotoRef, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxPhotoReads)
	for i, file := range files {
		g.Go(func() error {
			ref, err := f.photos.Read(gctx, file)
			if err != nil {
				return fmt.Errorf("read photo %s: %w", file.Path, err)
			}
			refs[i] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		logger.Debug("session %s closed, dropping %d photos", f.key, len(refs))
		return nil
	}
	return f.pipeline.Edit(func(d *domain.Document) error {
		d.SetPhotos(slot, append(slices.Clone(d.PhotoSlots[slot]), refs...))
		return nil
	})
}

// RemovePhoto deletes the photo at index from slot and commits.
func (f *FormSession) RemovePhoto(slot string, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	return f.pipeline.Edit(func(d *domain.Document) error {
		refs := d.PhotoSlots[slot]
		if index < 0 || index >= len(refs) {
			return fmt.Errorf("%w: slot %q has no photo %d", domain.ErrInvalidInput, slot, index)
		}
		d.SetPhotos(slot, slices.Delete(slices.Clone(refs), index, index+1))
		return nil
	})
}

// Derived computes the schema's derived values from the committed document.
func (f *FormSession) Derived() []domain.DerivedValue {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registry == nil {
		return nil
	}
	return f.registry.Derive(f.schema, f.doc)
}

// Flush commits pending edits and saves, bypassing the autosave throttle.
func (f *FormSession) Flush(ctx context.Context) domain.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return f.lastSave
	}
	return f.flush(ctx)
}

// SavePending writes a save deferred by the autosave throttle once the
// throttle allows it.
func (f *FormSession) SavePending(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || !f.unsaved || !f.limiter.Allow() {
		return false
	}
	f.save(ctx)
	return true
}

// LastSave returns the result of the most recent save attempt.
func (f *FormSession) LastSave() domain.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSave
}

// Close flushes the session and disposes its pipeline.
func (f *FormSession) Close(ctx context.Context) domain.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return f.lastSave
	}
	res := f.flush(ctx)
	f.pipeline.Dispose()
	f.closed = true
	logger.Debug("session %s closed", f.key)
	return res
}

func (f *FormSession) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// flush must be called with mu held.
func (f *FormSession) flush(ctx context.Context) domain.Result {
	f.pipeline.Commit()
	if f.unsaved {
		f.save(ctx)
	}
	return f.lastSave
}

// committed is the pipeline sink. It runs with mu held.
func (f *FormSession) committed(doc domain.Document) {
	f.doc = doc
	f.unsaved = true
	if !f.limiter.Allow() {
		logger.Debug("session %s: autosave deferred", f.key)
		return
	}
	f.save(f.ctx)
}

func (f *FormSession) save(ctx context.Context) {
	start := time.Now()
	f.lastSave = f.drafts.Save(ctx, f.key, f.equipment, f.doc)
	if f.lastSave.OK {
		f.unsaved = false
		logger.Debug("session %s: saved in %s", f.key, time.Since(start))
		return
	}
	logger.Warn("session %s: autosave failed: %s", f.key, f.lastSave.Error)
}

// resync keeps units in line with the unit config after each draft write.
func (f *FormSession) resync(_ string, draft *domain.Document) {
	if f.sync.Apply(f.schema, draft) {
		logger.Debug("session %s: units resynchronised (%d)", f.key, len(draft.Units))
	}
}
