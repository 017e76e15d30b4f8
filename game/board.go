// game/board.go
package game

import (
	"fmt"
	"math/rand"
	"time"
)

const maxBuildLevel = 3

type tileKind int

const (
	tileCorner tileKind = iota
	tileLand
	tileReward
	tilePenalty
)

type tile struct {
	kind   tileKind
	name   string
	price  int64
	rent   int64
	amount int64 // reward/penalty value
	level  int
	owner  string
}

type boardPlayer struct {
	name string
	cash int64
	pos  int
}

// BoardEngine 参考引擎实现：环形棋盘 + 双骰子
type BoardEngine struct {
	tiles      []tile
	players    []*boardPlayer
	turn       int
	maxPlayers int
	startCash  int64
	rng        *rand.Rand
}

func NewBoardEngine(boardSize, maxPlayers int, startingCash int64) *BoardEngine {
	return NewBoardEngineWithSeed(boardSize, maxPlayers, startingCash, time.Now().UnixNano())
}

// NewBoardEngineWithSeed builds a deterministic engine, used by tests.
func NewBoardEngineWithSeed(boardSize, maxPlayers int, startingCash int64, seed int64) *BoardEngine {
	if boardSize < 8 {
		boardSize = 8
	}
	return &BoardEngine{
		tiles:      buildBoard(boardSize),
		maxPlayers: maxPlayers,
		startCash:  startingCash,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// buildBoard 生成环形棋盘
func buildBoard(size int) []tile {
	tiles := make([]tile, size)
	for i := range tiles {
		switch {
		case i%10 == 0:
			tiles[i] = tile{kind: tileCorner, name: fmt.Sprintf("corner %d", i)}
		case i%8 == 3:
			tiles[i] = tile{kind: tileReward, name: fmt.Sprintf("chance %d", i), amount: 100}
		case i%8 == 6:
			tiles[i] = tile{kind: tilePenalty, name: fmt.Sprintf("tax %d", i), amount: 80}
		default:
			price := int64(60 + i*10)
			tiles[i] = tile{kind: tileLand, name: fmt.Sprintf("land %d", i), price: price, rent: price / 5}
		}
	}
	return tiles
}

func (e *BoardEngine) AddPlayer(name string) error {
	if e.find(name) != nil {
		return ErrAlreadySeated
	}
	if len(e.players) >= e.maxPlayers {
		return ErrGameFull
	}
	e.players = append(e.players, &boardPlayer{name: name, cash: e.startCash})
	return nil
}

func (e *BoardEngine) Players() []string {
	names := make([]string, 0, len(e.players))
	for _, p := range e.players {
		names = append(names, p.name)
	}
	return names
}

func (e *BoardEngine) CurrentPlayer() string {
	if len(e.players) == 0 {
		return ""
	}
	return e.players[e.turn].name
}

func (e *BoardEngine) Cash(name string) int64 {
	if p := e.find(name); p != nil {
		return p.cash
	}
	return 0
}

func (e *BoardEngine) Position(name string) int {
	if p := e.find(name); p != nil {
		return p.pos
	}
	return 0
}

// Roll moves the current player and classifies the landing tile. Cash,
// ownership and turn order are untouched until Apply.
func (e *BoardEngine) Roll() (int, *MoveResult, error) {
	if len(e.players) == 0 {
		return 0, nil, ErrNoPlayers
	}
	p := e.players[e.turn]
	steps := e.rng.Intn(6) + e.rng.Intn(6) + 2
	p.pos = (p.pos + steps) % len(e.tiles)
	t := &e.tiles[p.pos]

	res := &MoveResult{Steps: steps, player: p.name}
	switch t.kind {
	case tileCorner:
		res.Kind = ResultNothing
		res.Description = fmt.Sprintf("%s rests at %s", p.name, t.name)
	case tileReward:
		res.Kind = ResultReward
		res.amount = t.amount
		res.Description = fmt.Sprintf("%s collects %d at %s", p.name, t.amount, t.name)
	case tilePenalty:
		res.Kind = ResultPayment
		res.amount = t.amount
		res.Description = fmt.Sprintf("%s pays %d at %s", p.name, t.amount, t.name)
	case tileLand:
		e.classifyLand(p, t, res)
	}
	return steps, res, nil
}

func (e *BoardEngine) classifyLand(p *boardPlayer, t *tile, res *MoveResult) {
	switch {
	case t.owner == "" && p.cash >= t.price:
		res.Kind = ResultBuyLandOption
		res.Land = &Land{TileID: p.pos, Price: t.price}
		res.Description = fmt.Sprintf("%s may buy %s for %d", p.name, t.name, t.price)
	case t.owner == "":
		res.Kind = ResultOther
		res.Description = fmt.Sprintf("%s cannot afford %s", p.name, t.name)
	case t.owner == p.name && t.level < maxBuildLevel && p.cash >= t.price:
		res.Kind = ResultConstructionOption
		res.Land = &Land{TileID: p.pos, Price: t.price, BuildLevel: t.level + 1}
		res.Description = fmt.Sprintf("%s may build on %s for %d", p.name, t.name, t.price)
	case t.owner == p.name:
		res.Kind = ResultOther
		res.Description = fmt.Sprintf("%s visits own %s", p.name, t.name)
	default:
		rent := t.rent * int64(t.level+1)
		res.Kind = ResultPayment
		res.amount = rent
		res.payee = t.owner
		res.Description = fmt.Sprintf("%s pays %d rent to %s", p.name, rent, t.owner)
	}
}

// Apply commits a roll result. Option results need a recorded decision; an
// accepted option mutates ownership and cash, a rejected one is a no-op.
// Every applied result advances the turn to the next seat.
func (e *BoardEngine) Apply(result *MoveResult) (*MoveResult, error) {
	p := e.find(result.player)
	if p == nil {
		return nil, ErrUnknownPlayer
	}

	switch result.Kind {
	case ResultBuyLandOption, ResultConstructionOption:
		accepted, decided := result.Decision()
		if !decided {
			return nil, ErrUndecided
		}
		if accepted {
			t := &e.tiles[result.Land.TileID]
			p.cash -= result.Land.Price
			if result.Kind == ResultBuyLandOption {
				t.owner = p.name
			} else {
				t.level = result.Land.BuildLevel
			}
		}
	case ResultPayment:
		p.cash -= result.amount
		if owner := e.find(result.payee); owner != nil {
			owner.cash += result.amount
		}
	case ResultReward:
		p.cash += result.amount
	}

	e.turn = (e.turn + 1) % len(e.players)
	return result, nil
}

func (e *BoardEngine) find(name string) *boardPlayer {
	for _, p := range e.players {
		if p.name == name {
			return p
		}
	}
	return nil
}
