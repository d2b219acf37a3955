package services

import (
	"context"
	"sync"
	"time"

	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driving"
	"github.com/enplussmartenergy/erp-sub001/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.AutosaveScheduler = (*Scheduler)(nil)

// Scheduler retries deferred autosaves of tracked sessions in the
// background, so an edit is not left unsaved until the next commit.
type Scheduler struct {
	interval time.Duration

	mu       sync.Mutex
	sessions map[string]driving.PendingSaver
	running  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler that checks sessions every interval.
// A non-positive interval uses one second.
func NewScheduler(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Second
	}
	return &Scheduler{
		interval: interval,
		sessions: make(map[string]driving.PendingSaver),
	}
}

// Track adds a session. A session with the same key replaces the old one.
func (s *Scheduler) Track(p driving.PendingSaver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[p.Key()] = p
}

// Untrack removes the session stored under key.
func (s *Scheduler) Untrack(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// Start runs the scheduler loop in the background. Calling Start on a
// running scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx, s.stopCh)
	}()
}

// Stop ends the loop and waits for an in-flight pass to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce gives every tracked session one chance to save. Returns the
// number of saves attempted.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	s.mu.Lock()
	sessions := make([]driving.PendingSaver, 0, len(s.sessions))
	for _, p := range s.sessions {
		sessions = append(sessions, p)
	}
	s.mu.Unlock()

	saved := 0
	for _, p := range sessions {
		if p.SavePending(ctx) {
			saved++
		}
	}
	if saved > 0 {
		logger.Debug("scheduler: %d deferred autosaves written", saved)
	}
	return saved
}
