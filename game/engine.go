// game/engine.go
package game

import (
	"errors"
)

var (
	ErrGameFull      = errors.New("game is full")
	ErrAlreadySeated = errors.New("player already seated")
	ErrNoPlayers     = errors.New("no players seated")
	ErrUndecided     = errors.New("option result has no decision")
	ErrUnknownPlayer = errors.New("unknown player")
)

// Engine 游戏引擎接口
//
// The engine owns authoritative board state for one room. Roll moves the
// current player and classifies the landing, without touching cash,
// ownership or turn order; Apply commits a result and advances the turn.
// Callers must not cache CurrentPlayer across an Apply.
type Engine interface {
	AddPlayer(name string) error
	Players() []string
	CurrentPlayer() string
	Cash(name string) int64
	Position(name string) int
	Roll() (steps int, result *MoveResult, err error)
	Apply(result *MoveResult) (*MoveResult, error)
}

// Factory creates a fresh engine for a newly opened room.
type Factory func() Engine
