// protocol/protocol.go
package protocol

import (
	"encoding/json"
	"strconv"
)

// 出站消息 action
const (
	ActionInit           = "init"
	ActionRollRes        = "roll_res"
	ActionBuyLand        = "buy_land"
	ActionConstruct      = "construct"
	ActionCancelDecision = "cancel_decision"
)

// 入站事件 action
const (
	EventRoll            = "roll"
	EventConfirmDecision = "confirm_decision"
	EventCancelDecision  = "cancel_decision"
)

// PlayerEntry 玩家名册条目
type PlayerEntry struct {
	FullName string `json:"fullName"`
	UserName string `json:"userName"`
	Avatar   string `json:"avatar"`
}

type InitMsg struct {
	Action     string        `json:"action"`
	Players    []PlayerEntry `json:"players"`
	ChangeCash int64         `json:"changeCash"`
	NextPlayer string        `json:"nextPlayer"`
}

// RollResMsg carries the outcome of a dice roll. The boolean fields are
// serialized as "true"/"false" strings for compatibility with the client;
// callers pass real booleans to BuildRollResMsg.
type RollResMsg struct {
	Action       string  `json:"action"`
	CurrPlayer   string  `json:"curr_player"`
	Steps        int     `json:"steps"`
	Result       string  `json:"result"`
	IsOption     string  `json:"is_option"`
	IsCashChange string  `json:"is_cash_change"`
	NewEvent     string  `json:"new_event"`
	NewPos       int     `json:"new_pos"`
	CurrCash     []int64 `json:"curr_cash"`
	NextPlayer   string  `json:"next_player"`
}

type BuyLandMsg struct {
	Action     string  `json:"action"`
	CurrPlayer string  `json:"curr_player"`
	CurrCash   []int64 `json:"curr_cash"`
	TileID     int     `json:"tile_id"`
	NextPlayer string  `json:"next_player"`
}

type ConstructMsg struct {
	Action     string  `json:"action"`
	CurrCash   []int64 `json:"curr_cash"`
	TileID     int     `json:"tile_id"`
	BuildType  int     `json:"build_type"`
	NextPlayer string  `json:"next_player"`
}

type CancelDecisionMsg struct {
	Action     string `json:"action"`
	NextPlayer string `json:"next_player"`
}

func BuildInitMsg(players []PlayerEntry, changeCash int64, nextPlayer string) ([]byte, error) {
	if players == nil {
		players = []PlayerEntry{}
	}
	return json.Marshal(&InitMsg{
		Action:     ActionInit,
		Players:    players,
		ChangeCash: changeCash,
		NextPlayer: nextPlayer,
	})
}

func BuildRollResMsg(currPlayer string, steps int, result string, isOption, isCashChange, newEvent bool,
	newPos int, currCash []int64, nextPlayer string) ([]byte, error) {
	return json.Marshal(&RollResMsg{
		Action:       ActionRollRes,
		CurrPlayer:   currPlayer,
		Steps:        steps,
		Result:       result,
		IsOption:     strconv.FormatBool(isOption),
		IsCashChange: strconv.FormatBool(isCashChange),
		NewEvent:     strconv.FormatBool(newEvent),
		NewPos:       newPos,
		CurrCash:     cashList(currCash),
		NextPlayer:   nextPlayer,
	})
}

func BuildBuyLandMsg(currPlayer string, currCash []int64, tileID int, nextPlayer string) ([]byte, error) {
	return json.Marshal(&BuyLandMsg{
		Action:     ActionBuyLand,
		CurrPlayer: currPlayer,
		CurrCash:   cashList(currCash),
		TileID:     tileID,
		NextPlayer: nextPlayer,
	})
}

func BuildConstructMsg(currCash []int64, tileID, buildType int, nextPlayer string) ([]byte, error) {
	return json.Marshal(&ConstructMsg{
		Action:     ActionConstruct,
		CurrCash:   cashList(currCash),
		TileID:     tileID,
		BuildType:  buildType,
		NextPlayer: nextPlayer,
	})
}

func BuildCancelDecisionMsg(nextPlayer string) ([]byte, error) {
	return json.Marshal(&CancelDecisionMsg{
		Action:     ActionCancelDecision,
		NextPlayer: nextPlayer,
	})
}

// cashList keeps curr_cash a JSON array even when no cash change happened.
func cashList(cash []int64) []int64 {
	if cash == nil {
		return []int64{}
	}
	return cash
}
