// dispatch/dispatch.go
package dispatch

import (
	"errors"

	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/protocol"
	"github.com/wfunc/monopoly/room"
	"github.com/wfunc/monopoly/state"
)

// ErrUnknownEvent is returned for inbound actions outside the protocol.
var ErrUnknownEvent = errors.New("unknown event action")

// Broadcaster delivers one payload to every connection of a room.
// Defined here to keep the dispatcher decoupled from the transport.
type Broadcaster interface {
	BroadcastToRoom(roomID string, data []byte) error
}

// ProfileResolver turns a username into a roster entry for the init
// message. Implementations degrade on lookup failure instead of erroring;
// a missing profile must never block a game.
type ProfileResolver interface {
	RosterEntry(username string) protocol.PlayerEntry
}

// Dispatcher 事件分发器
//
// Dispatcher applies inbound room events (connect, roll, confirm, cancel)
// against the room's engine and decision slot, then emits exactly one
// broadcast per committed transition. All engine/slot access runs inside
// the room's critical section; the broadcast itself happens after the
// transition is committed and its failure is never rolled back.
type Dispatcher struct {
	rooms       *room.Manager
	profiles    ProfileResolver
	broadcaster Broadcaster
}

func New(rooms *room.Manager, profiles ProfileResolver, broadcaster Broadcaster) *Dispatcher {
	return &Dispatcher{
		rooms:       rooms,
		profiles:    profiles,
		broadcaster: broadcaster,
	}
}

// HandleEvent routes one inbound client event to its handler.
func (d *Dispatcher) HandleEvent(roomID, action string) error {
	switch action {
	case protocol.EventRoll:
		return d.Roll(roomID)
	case protocol.EventConfirmDecision:
		return d.Confirm(roomID)
	case protocol.EventCancelDecision:
		return d.Cancel(roomID)
	default:
		return ErrUnknownEvent
	}
}

// Connect assembles the seated roster and broadcasts init to the room.
// Decision state is untouched.
func (d *Dispatcher) Connect(roomID string) error {
	r, err := d.rooms.Get(roomID)
	if err != nil {
		return err
	}

	var payload []byte
	err = r.WithLock(func() error {
		players := r.Engine.Players()
		roster := make([]protocol.PlayerEntry, 0, len(players))
		for _, name := range players {
			roster = append(roster, d.profiles.RosterEntry(name))
		}
		curr := r.Engine.CurrentPlayer()

		var buildErr error
		payload, buildErr = protocol.BuildInitMsg(roster, r.Engine.Cash(curr), curr)
		return buildErr
	})
	if err != nil {
		return err
	}

	d.send(roomID, payload)
	return nil
}

// Roll advances the current player and broadcasts the result. An
// option-producing roll parks the outcome in the decision slot without
// applying it; everything else is applied immediately and advances the
// turn. A roll is rejected while a decision is still pending.
func (d *Dispatcher) Roll(roomID string) error {
	r, err := d.rooms.Get(roomID)
	if err != nil {
		return err
	}

	var payload []byte
	err = r.WithLock(func() error {
		if r.Decision.Phase() == state.PhaseAwaitingConfirmation {
			return state.ErrDecisionPending
		}

		steps, res, rollErr := r.Engine.Roll()
		if rollErr != nil {
			return rollErr
		}

		curr := r.Engine.CurrentPlayer()
		newPos := r.Engine.Position(curr)
		isOption := false
		isCashChange := false
		newEvent := true
		next := curr
		var currCash []int64

		switch {
		case res.Kind.IsOption():
			if setErr := r.Decision.Set(res); setErr != nil {
				return setErr
			}
			isOption = true
		case res.Kind == game.ResultPayment || res.Kind == game.ResultReward:
			if _, applyErr := r.Engine.Apply(res); applyErr != nil {
				return applyErr
			}
			next = r.Engine.CurrentPlayer()
			isCashChange = true
			currCash = cashSnapshot(r.Engine)
		case res.Kind == game.ResultNothing:
			if _, applyErr := r.Engine.Apply(res); applyErr != nil {
				return applyErr
			}
			next = r.Engine.CurrentPlayer()
			newEvent = false
		default:
			if _, applyErr := r.Engine.Apply(res); applyErr != nil {
				return applyErr
			}
			next = r.Engine.CurrentPlayer()
		}

		var buildErr error
		payload, buildErr = protocol.BuildRollResMsg(curr, steps, res.Description,
			isOption, isCashChange, newEvent, newPos, currCash, next)
		return buildErr
	})
	if err != nil {
		return err
	}

	d.send(roomID, payload)
	return nil
}

// Confirm resolves the pending decision as accepted, applies it and
// broadcasts buy_land or construct depending on the stored outcome.
func (d *Dispatcher) Confirm(roomID string) error {
	r, err := d.rooms.Get(roomID)
	if err != nil {
		return err
	}

	var payload []byte
	err = r.WithLock(func() error {
		pd, takeErr := r.Decision.Take()
		if takeErr != nil {
			return takeErr
		}

		curr := r.Engine.CurrentPlayer()
		if resolveErr := pd.Resolve(true); resolveErr != nil {
			return resolveErr
		}

		applied, applyErr := r.Engine.Apply(pd.Outcome)
		if applyErr != nil {
			return applyErr
		}

		next := r.Engine.CurrentPlayer()
		cash := cashSnapshot(r.Engine)

		var buildErr error
		switch applied.Kind {
		case game.ResultBuyLandOption:
			payload, buildErr = protocol.BuildBuyLandMsg(curr, cash, applied.Land.TileID, next)
		case game.ResultConstructionOption:
			payload, buildErr = protocol.BuildConstructMsg(cash, applied.Land.TileID, applied.Land.BuildLevel, next)
		default:
			return state.ErrInvalidConfirmTarget
		}
		return buildErr
	})
	if err != nil {
		return err
	}

	d.send(roomID, payload)
	return nil
}

// Cancel resolves the pending decision as rejected without applying it.
// Engine state stays exactly as it was after the original roll, and the
// turn does not advance.
func (d *Dispatcher) Cancel(roomID string) error {
	r, err := d.rooms.Get(roomID)
	if err != nil {
		return err
	}

	var payload []byte
	err = r.WithLock(func() error {
		pd, takeErr := r.Decision.Take()
		if takeErr != nil {
			return takeErr
		}
		if resolveErr := pd.Resolve(false); resolveErr != nil {
			return resolveErr
		}

		var buildErr error
		payload, buildErr = protocol.BuildCancelDecisionMsg(r.Engine.CurrentPlayer())
		return buildErr
	})
	if err != nil {
		return err
	}

	d.send(roomID, payload)
	return nil
}

// send fans the payload out to the room. The transition is already
// committed, so a delivery failure is logged and not propagated.
func (d *Dispatcher) send(roomID string, payload []byte) {
	if err := d.broadcaster.BroadcastToRoom(roomID, payload); err != nil {
		logger.Log.Warnf("broadcast to room %s failed: %v", roomID, err)
	}
}

func cashSnapshot(e game.Engine) []int64 {
	players := e.Players()
	cash := make([]int64, 0, len(players))
	for _, name := range players {
		cash = append(cash, e.Cash(name))
	}
	return cash
}
