package generator

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrNoDraft is returned by actions that need an existing draft.
	ErrNoDraft = errors.New("no draft generated yet")
	// ErrBusy is returned when another action is already running on the session.
	ErrBusy = errors.New("another action is in progress for this session")
)

// Session holds one user's generation state. Actions run one at a time; a failed action
// leaves the previous state untouched.
type Session struct {
	ID string

	busy sync.Mutex
	mu   sync.RWMutex

	spec     Spec
	draft    Draft
	adapted  string
	variants *Variants
	critique string
	history  []Turn
	agent    *Agent
}

// Snapshot is a consistent copy of session state for display.
type Snapshot struct {
	ID       string    `json:"session_id"`
	Spec     Spec      `json:"spec"`
	Draft    Draft     `json:"draft"`
	Adapted  string    `json:"adapted,omitempty"`
	Variants *Variants `json:"variants,omitempty"`
	Critique string    `json:"critique,omitempty"`
	History  []Turn    `json:"history"`
}

// NewSession creates a session; no draft is generated yet.
func NewSession(id string, spec Spec, agent *Agent) *Session {
	return &Session{
		ID:    id,
		spec:  spec,
		agent: agent,
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]Turn, len(s.history))
	copy(history, s.history)
	return Snapshot{
		ID:       s.ID,
		Spec:     s.spec,
		Draft:    s.draft,
		Adapted:  s.adapted,
		Variants: s.variants,
		Critique: s.critique,
		History:  history,
	}
}

// Draft returns the current draft.
func (s *Session) Draft() Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft
}

// Adapted returns the latest locale-adapted copy.
func (s *Session) Adapted() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adapted
}

func (s *Session) begin() error {
	if !s.busy.TryLock() {
		return ErrBusy
	}
	return nil
}

func (s *Session) end() { s.busy.Unlock() }

// Propose generates the first draft from the session spec.
func (s *Session) Propose(ctx context.Context) (Draft, error) {
	if err := s.begin(); err != nil {
		return Draft{}, err
	}
	defer s.end()

	s.mu.RLock()
	spec := s.spec
	s.mu.RUnlock()

	draft, err := s.agent.Generate(ctx, spec, "")
	if err != nil {
		return Draft{}, err
	}
	s.mu.Lock()
	s.draft = draft
	s.variants = nil
	s.critique = ""
	s.appendTurn("generate", draft, "first draft")
	s.mu.Unlock()
	return draft, nil
}

// Update regenerates the copy against spec, using the current draft as the edit anchor.
func (s *Session) Update(ctx context.Context, spec Spec) (Draft, error) {
	if err := s.begin(); err != nil {
		return Draft{}, err
	}
	defer s.end()

	s.mu.RLock()
	prior := s.draft
	s.mu.RUnlock()
	if prior.Empty() {
		return Draft{}, ErrNoDraft
	}

	draft, err := s.agent.Generate(ctx, spec, prior.Copy)
	if err != nil {
		return Draft{}, err
	}
	s.mu.Lock()
	s.spec = spec
	s.draft = draft
	s.variants = nil
	s.critique = ""
	s.appendTurn("update", draft, "regenerated with new inputs")
	s.mu.Unlock()
	return draft, nil
}

// Spec returns the inputs of the current draft.
func (s *Session) Spec() Spec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spec
}

// Variants generates alternative headlines and CTAs for the current draft.
func (s *Session) Variants(ctx context.Context, n int) (Variants, error) {
	if err := s.begin(); err != nil {
		return Variants{}, err
	}
	defer s.end()

	draft := s.Draft()
	if draft.Empty() {
		return Variants{}, ErrNoDraft
	}
	v, err := s.agent.Variants(ctx, draft.Copy, n)
	if err != nil {
		return Variants{}, err
	}
	s.mu.Lock()
	s.variants = &v
	s.mu.Unlock()
	return v, nil
}

// Critique asks for feedback on the current draft.
func (s *Session) Critique(ctx context.Context) (string, error) {
	if err := s.begin(); err != nil {
		return "", err
	}
	defer s.end()

	draft := s.Draft()
	if draft.Empty() {
		return "", ErrNoDraft
	}
	c, err := s.agent.Critique(ctx, draft.Copy)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.critique = c
	s.mu.Unlock()
	return c, nil
}

// Adapt rewrites text (or the current draft when text is blank) for another market.
func (s *Session) Adapt(ctx context.Context, text string, source, target Country) (string, error) {
	if err := s.begin(); err != nil {
		return "", err
	}
	defer s.end()

	if text == "" {
		text = s.Draft().Copy
	}
	out, err := s.agent.Adapt(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.adapted = out
	s.appendTurn("adapt", Draft{Copy: out}, string(source)+" -> "+string(target))
	s.mu.Unlock()
	return out, nil
}

// Clear drops generated and adapted copy but keeps the spec.
func (s *Session) Clear() error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = Draft{}
	s.adapted = ""
	s.variants = nil
	s.critique = ""
	return nil
}

func (s *Session) appendTurn(action string, draft Draft, summary string) {
	s.history = append(s.history, Turn{
		Action:    action,
		Draft:     draft,
		Summary:   summary,
		CreatedAt: time.Now(),
	})
}
