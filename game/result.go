// game/result.go
package game

import (
	"errors"
)

// MoveResultKind 走子结果类型
type MoveResultKind int

const (
	ResultNothing MoveResultKind = iota
	ResultBuyLandOption
	ResultConstructionOption
	ResultPayment
	ResultReward
	ResultOther
)

// IsOption reports whether the result requires an explicit player decision
// before it may be applied to the game state.
func (k MoveResultKind) IsOption() bool {
	return k == ResultBuyLandOption || k == ResultConstructionOption
}

func (k MoveResultKind) String() string {
	switch k {
	case ResultNothing:
		return "nothing"
	case ResultBuyLandOption:
		return "buy_land_option"
	case ResultConstructionOption:
		return "construction_option"
	case ResultPayment:
		return "payment"
	case ResultReward:
		return "reward"
	default:
		return "other"
	}
}

// ErrDecisionSet is returned when a decision is recorded on a result that
// already carries one. The flag is write-once.
var ErrDecisionSet = errors.New("decision already set on move result")

// Land 选项结果指向的地块
type Land struct {
	TileID     int
	Price      int64
	BuildLevel int
}

// MoveResult is what a dice roll produced, classified into a closed set of
// kinds. Option kinds carry the land involved; the decision flag stays unset
// until the player confirms or cancels.
type MoveResult struct {
	Kind        MoveResultKind
	Steps       int
	Description string
	Land        *Land

	// engine-internal application data
	player string
	amount int64
	payee  string

	decided  bool
	accepted bool
}

// SetDecision records the player's answer to an option result. It may be
// called exactly once.
func (r *MoveResult) SetDecision(accepted bool) error {
	if r.decided {
		return ErrDecisionSet
	}
	r.decided = true
	r.accepted = accepted
	return nil
}

// Decision returns the recorded answer and whether one has been recorded.
func (r *MoveResult) Decision() (accepted bool, decided bool) {
	return r.accepted, r.decided
}

func (r *MoveResult) String() string {
	return r.Description
}
