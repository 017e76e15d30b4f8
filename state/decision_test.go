package state

import (
	"testing"

	"github.com/wfunc/monopoly/game"
)

func optionResult() *game.MoveResult {
	return &game.MoveResult{
		Kind: game.ResultBuyLandOption,
		Land: &game.Land{TileID: 12, Price: 120},
	}
}

func TestDecisionSlot_SetAndTake(t *testing.T) {
	slot := NewDecisionSlot()

	if slot.Phase() != PhaseIdle {
		t.Fatalf("new slot should be idle, got %v", slot.Phase())
	}

	outcome := optionResult()
	if err := slot.Set(outcome); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if slot.Phase() != PhaseAwaitingConfirmation {
		t.Errorf("expected awaiting_confirmation, got %v", slot.Phase())
	}

	d, err := slot.Take()
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if d.Outcome != outcome {
		t.Error("Take should return the stored outcome")
	}
	if slot.Phase() != PhaseIdle {
		t.Errorf("slot should be idle after Take, got %v", slot.Phase())
	}
}

func TestDecisionSlot_TakeEmpty(t *testing.T) {
	slot := NewDecisionSlot()

	if _, err := slot.Take(); err != ErrNoPendingDecision {
		t.Errorf("expected ErrNoPendingDecision, got %v", err)
	}
}

func TestDecisionSlot_SetWhilePending(t *testing.T) {
	slot := NewDecisionSlot()

	if err := slot.Set(optionResult()); err != nil {
		t.Fatalf("first Set failed: %v", err)
	}

	if err := slot.Set(optionResult()); err != ErrDecisionPending {
		t.Errorf("expected ErrDecisionPending on second Set, got %v", err)
	}
}

func TestDecisionSlot_SetNonOption(t *testing.T) {
	slot := NewDecisionSlot()

	res := &game.MoveResult{Kind: game.ResultPayment}
	if err := slot.Set(res); err != ErrInvalidConfirmTarget {
		t.Errorf("expected ErrInvalidConfirmTarget, got %v", err)
	}
	if slot.Phase() != PhaseIdle {
		t.Errorf("slot should stay idle after rejected Set, got %v", slot.Phase())
	}
}

func TestPendingDecision_ResolveOnce(t *testing.T) {
	slot := NewDecisionSlot()
	if err := slot.Set(optionResult()); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	d, err := slot.Take()
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	if err := d.Resolve(true); err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}

	accepted, decided := d.Outcome.Decision()
	if !decided || !accepted {
		t.Errorf("outcome should carry accepted=true, got accepted=%v decided=%v", accepted, decided)
	}

	if err := d.Resolve(false); err != ErrDecisionResolved {
		t.Errorf("expected ErrDecisionResolved on second Resolve, got %v", err)
	}

	// the slot was cleared by Take, so a second confirm finds nothing
	if _, err := slot.Take(); err != ErrNoPendingDecision {
		t.Errorf("expected ErrNoPendingDecision after Take, got %v", err)
	}
}
