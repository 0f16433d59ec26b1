package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vilaca/profile-dashboard/internal/domain"
)

// Phase is the state of a Session.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseAuthenticating Phase = "authenticating"
	PhaseFetching       Phase = "fetching"
	PhaseDisplaying     Phase = "displaying"
	PhaseFailed         Phase = "failed"
)

// InFlight returns true while a workflow invocation is running.
func (p Phase) InFlight() bool {
	return p == PhaseAuthenticating || p == PhaseFetching
}

// IsTerminal returns true if the phase holds a result waiting for Reset.
func (p Phase) IsTerminal() bool {
	return p == PhaseDisplaying || p == PhaseFailed
}

var (
	// ErrWorkflowInFlight is returned by Submit while an invocation is running.
	ErrWorkflowInFlight = errors.New("a workflow is already in progress")
	// ErrResetRequired is returned by Submit when a result is still displayed.
	ErrResetRequired = errors.New("reset the current result before submitting again")
)

// Runner executes one workflow invocation.
type Runner interface {
	RunObserved(ctx context.Context, username, password string, onAuthenticated func(domain.Token)) domain.Result
}

// State is an immutable snapshot of a Session for rendering.
// It never carries the password or the bearer token.
type State struct {
	Phase        Phase            `json:"phase"`
	Username     string           `json:"username,omitempty"`
	Profiles     []domain.Profile `json:"profiles"`
	Error        string           `json:"error,omitempty"`
	Generation   uint64           `json:"generation"`
	InvocationID string           `json:"invocation_id,omitempty"`
	StartedAt    time.Time        `json:"started_at,omitempty"`
	FinishedAt   time.Time        `json:"finished_at,omitempty"`
}

// Session is the workflow state machine for one UI session:
//
//	Idle -> Authenticating -> Fetching -> Displaying
//	             |               |
//	             +----> Failed <-+
//
// Displaying and Failed return to Idle through Reset. Stage completions are
// applied only if their generation is still current, so a completion that
// arrives after Reset never touches the new state.
type Session struct {
	runner Runner
	logger Logger
	now    func() time.Time

	mu           sync.Mutex
	phase        Phase
	credential   domain.Credential
	token        domain.Token
	profiles     []domain.Profile
	errMsg       string
	generation   uint64
	invocationID string
	startedAt    time.Time
	finishedAt   time.Time
	lastActive   time.Time
}

// NewSession creates a new idle session.
func NewSession(runner Runner, logger Logger) *Session {
	s := &Session{
		runner: runner,
		logger: logger,
		now:    time.Now,
		phase:  PhaseIdle,
	}
	s.lastActive = s.now()
	return s
}

// Submit starts a workflow invocation and returns immediately.
// The returned channel is closed once the invocation has finished, whether or
// not its result was applied. The invocation is not cancelled when ctx is.
func (s *Session) Submit(ctx context.Context, username, password string) (<-chan struct{}, error) {
	s.mu.Lock()
	switch {
	case s.phase.InFlight():
		s.mu.Unlock()
		return nil, ErrWorkflowInFlight
	case s.phase.IsTerminal():
		s.mu.Unlock()
		return nil, ErrResetRequired
	}

	s.generation++
	gen := s.generation
	s.phase = PhaseAuthenticating
	s.credential = domain.Credential{Username: username, Password: password}
	s.token = ""
	s.profiles = nil
	s.errMsg = ""
	s.invocationID = uuid.NewString()
	s.startedAt = s.now()
	s.finishedAt = time.Time{}
	s.lastActive = s.startedAt
	invocationID := s.invocationID
	runner := s.runner
	s.mu.Unlock()

	s.logger.Printf("Session: invocation %s (generation %d) started", invocationID, gen)

	done := make(chan struct{})
	runCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		result := runner.RunObserved(runCtx, username, password, func(token domain.Token) {
			s.authenticated(gen, token)
		})
		s.complete(gen, invocationID, result)
	}()

	return done, nil
}

// authenticated moves Authenticating to Fetching for the current generation.
func (s *Session) authenticated(gen uint64, token domain.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}
	s.phase = PhaseFetching
	s.token = token
	s.lastActive = s.now()
}

// complete applies an invocation result if it still belongs to the current generation.
func (s *Session) complete(gen uint64, invocationID string, result domain.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Printf("Session: dropping stale result of invocation %s (generation %d, current %d)",
			invocationID, gen, s.generation)
		return
	}

	// The token and password are discarded as soon as the fetch stage ends.
	s.token = ""
	s.credential.Password = ""
	s.finishedAt = s.now()
	s.lastActive = s.finishedAt

	if result.IsSuccess() {
		s.phase = PhaseDisplaying
		s.profiles = result.Profiles()
		s.logger.Printf("Session: invocation %s displaying %d profiles", invocationID, len(s.profiles))
		return
	}

	s.phase = PhaseFailed
	s.errMsg = result.Error()
	s.logger.Printf("Session: invocation %s failed: %s", invocationID, s.errMsg)
}

// Reset returns the session to Idle and clears credentials, token, profiles and error.
// Resetting while an invocation is running abandons it: the invocation still
// runs to completion but its result is dropped.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.InFlight() {
		s.logger.Printf("Session: abandoning invocation %s (generation %d)", s.invocationID, s.generation)
	}

	s.generation++
	s.phase = PhaseIdle
	s.credential = domain.Credential{}
	s.token = ""
	s.profiles = nil
	s.errMsg = ""
	s.invocationID = ""
	s.startedAt = time.Time{}
	s.finishedAt = time.Time{}
	s.lastActive = s.now()
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	var profiles []domain.Profile
	if s.profiles != nil {
		profiles = make([]domain.Profile, len(s.profiles))
		copy(profiles, s.profiles)
	}

	return State{
		Phase:        s.phase,
		Username:     s.credential.Username,
		Profiles:     profiles,
		Error:        s.errMsg,
		Generation:   s.generation,
		InvocationID: s.invocationID,
		StartedAt:    s.startedAt,
		FinishedAt:   s.finishedAt,
	}
}

// idleSince reports whether the session is not running and when it was last touched.
func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive, !s.phase.InFlight()
}
