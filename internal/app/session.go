package app

import (
	"context"
	"errors"
	"sync"

	"digicreative/internal/content"
)

var ErrBusy = errors.New("a generation is already in progress")

// Session is the transient state of one open module: the latest outcome and
// whether a request is in flight. It is never persisted.
type Session struct {
	studio *Studio
	kind   content.Kind

	mu      sync.Mutex
	busy    bool
	epoch   int
	outcome *Outcome
}

func NewSession(studio *Studio, kind content.Kind) *Session {
	return &Session{studio: studio, kind: kind}
}

func (s *Session) Kind() content.Kind { return s.kind }

// Run replaces the session state with a fresh generation. Prior state is
// cleared up front, so a failed run leaves the session empty.
func (s *Session) Run(ctx context.Context, prompt string) (*Outcome, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.busy = true
	s.outcome = nil
	epoch := s.epoch
	s.mu.Unlock()

	outcome, err := s.studio.Generate(ctx, content.Request{Kind: s.kind, Prompt: prompt})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	// A Reset while in flight discards the late result.
	if err == nil && epoch == s.epoch {
		s.outcome = outcome
	}
	return outcome, err
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Session) Outcome() *Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Reset is "Start Over".
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcome = nil
	s.epoch++
}

func (s *Session) Save(ctx context.Context, status content.Status) (string, error) {
	return s.studio.SaveDraft(ctx, s.Outcome(), status)
}
