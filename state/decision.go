// state/decision.go
package state

import (
	"errors"
	"sync"

	"github.com/wfunc/monopoly/game"
)

// Phase 房间决策阶段
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingConfirmation
)

func (p Phase) String() string {
	if p == PhaseAwaitingConfirmation {
		return "awaiting_confirmation"
	}
	return "idle"
}

var (
	// ErrNoPendingDecision is returned by Take when the slot is empty.
	ErrNoPendingDecision = errors.New("no pending decision")
	// ErrDecisionPending is returned by Set while an earlier decision is
	// still unresolved. A new roll is not allowed until it is answered.
	ErrDecisionPending = errors.New("decision still pending")
	// ErrInvalidConfirmTarget is returned when a confirm reaches a result
	// kind that does not support confirmation.
	ErrInvalidConfirmTarget = errors.New("result kind cannot be confirmed")
	// ErrDecisionResolved is returned on a second Resolve of the same
	// pending decision.
	ErrDecisionResolved = errors.New("decision already resolved")
)

// PendingDecision wraps an option result awaiting the player's answer.
type PendingDecision struct {
	Outcome  *game.MoveResult
	resolved bool
}

// Resolve records the answer exactly once and forwards it to the outcome.
func (d *PendingDecision) Resolve(accepted bool) error {
	if d.resolved {
		return ErrDecisionResolved
	}
	if err := d.Outcome.SetDecision(accepted); err != nil {
		return ErrDecisionResolved
	}
	d.resolved = true
	return nil
}

// DecisionSlot holds at most one pending decision for a room. The slot is
// the coordination point between a roll that produced an option and the
// confirm or cancel that answers it; its phase mirrors the slot contents.
type DecisionSlot struct {
	mu      sync.Mutex
	phase   Phase
	pending *PendingDecision
}

func NewDecisionSlot() *DecisionSlot {
	return &DecisionSlot{phase: PhaseIdle}
}

func (s *DecisionSlot) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Set installs a new pending decision. Only option results may be stored,
// and never over an unresolved one.
func (s *DecisionSlot) Set(outcome *game.MoveResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !outcome.Kind.IsOption() {
		return ErrInvalidConfirmTarget
	}
	if s.pending != nil {
		return ErrDecisionPending
	}
	s.pending = &PendingDecision{Outcome: outcome}
	s.phase = PhaseAwaitingConfirmation
	return nil
}

// Take removes and returns the pending decision, returning the slot to
// idle. The caller resolves and (for a confirm) applies it.
func (s *DecisionSlot) Take() (*PendingDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return nil, ErrNoPendingDecision
	}
	d := s.pending
	s.pending = nil
	s.phase = PhaseIdle
	return d, nil
}
