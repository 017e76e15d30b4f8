package protocol

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("message is not valid JSON: %v", err)
	}
	return m
}

func TestBuildInitMsg(t *testing.T) {
	players := []PlayerEntry{
		{FullName: "Alice A", UserName: "alice", Avatar: "/a.png"},
		{FullName: "Bob B", UserName: "bob", Avatar: ""},
	}

	data, err := BuildInitMsg(players, 1500, "alice")
	if err != nil {
		t.Fatalf("BuildInitMsg failed: %v", err)
	}

	m := decode(t, data)
	if m["action"] != "init" {
		t.Errorf("expected action init, got %v", m["action"])
	}
	if m["changeCash"] != float64(1500) {
		t.Errorf("expected changeCash 1500, got %v", m["changeCash"])
	}
	if m["nextPlayer"] != "alice" {
		t.Errorf("expected nextPlayer alice, got %v", m["nextPlayer"])
	}
	list, ok := m["players"].([]interface{})
	if !ok || len(list) != 2 {
		t.Fatalf("expected 2 roster entries, got %v", m["players"])
	}
	first := list[0].(map[string]interface{})
	if first["userName"] != "alice" || first["fullName"] != "Alice A" {
		t.Errorf("unexpected roster entry: %v", first)
	}
}

func TestBuildRollResMsg_StringlyBooleans(t *testing.T) {
	data, err := BuildRollResMsg("alice", 7, "alice may buy land 12 for 120",
		true, false, true, 12, nil, "alice")
	if err != nil {
		t.Fatalf("BuildRollResMsg failed: %v", err)
	}

	m := decode(t, data)
	if m["is_option"] != "true" {
		t.Errorf("is_option must be the string \"true\", got %v", m["is_option"])
	}
	if m["is_cash_change"] != "false" {
		t.Errorf("is_cash_change must be the string \"false\", got %v", m["is_cash_change"])
	}
	if m["new_event"] != "true" {
		t.Errorf("new_event must be the string \"true\", got %v", m["new_event"])
	}
	if m["curr_player"] != "alice" || m["next_player"] != "alice" {
		t.Errorf("option roll must not change the current player: %v", m)
	}

	// no cash change: curr_cash is present but empty
	cash, ok := m["curr_cash"].([]interface{})
	if !ok {
		t.Fatalf("curr_cash must always be a JSON array, got %v", m["curr_cash"])
	}
	if len(cash) != 0 {
		t.Errorf("expected empty curr_cash, got %v", cash)
	}
}

func TestBuildRollResMsg_CashChange(t *testing.T) {
	data, err := BuildRollResMsg("alice", 5, "alice pays 80 at tax 6",
		false, true, true, 6, []int64{1420, 1500}, "bob")
	if err != nil {
		t.Fatalf("BuildRollResMsg failed: %v", err)
	}

	m := decode(t, data)
	cash := m["curr_cash"].([]interface{})
	if len(cash) != 2 || cash[0] != float64(1420) || cash[1] != float64(1500) {
		t.Errorf("unexpected curr_cash: %v", cash)
	}
	if m["next_player"] != "bob" {
		t.Errorf("expected turn to advance to bob, got %v", m["next_player"])
	}
}

func TestBuildBuyLandMsg(t *testing.T) {
	data, err := BuildBuyLandMsg("alice", []int64{1380, 1500}, 12, "bob")
	if err != nil {
		t.Fatalf("BuildBuyLandMsg failed: %v", err)
	}

	m := decode(t, data)
	if m["action"] != "buy_land" {
		t.Errorf("expected action buy_land, got %v", m["action"])
	}
	if m["tile_id"] != float64(12) {
		t.Errorf("expected tile_id 12, got %v", m["tile_id"])
	}
	if m["next_player"] != "bob" {
		t.Errorf("expected next_player bob, got %v", m["next_player"])
	}
}

func TestBuildConstructMsg(t *testing.T) {
	data, err := BuildConstructMsg([]int64{1280, 1500}, 14, 2, "bob")
	if err != nil {
		t.Fatalf("BuildConstructMsg failed: %v", err)
	}

	m := decode(t, data)
	if m["action"] != "construct" {
		t.Errorf("expected action construct, got %v", m["action"])
	}
	if m["build_type"] != float64(2) {
		t.Errorf("expected build_type 2, got %v", m["build_type"])
	}
}

func TestBuildCancelDecisionMsg(t *testing.T) {
	data, err := BuildCancelDecisionMsg("alice")
	if err != nil {
		t.Fatalf("BuildCancelDecisionMsg failed: %v", err)
	}

	m := decode(t, data)
	if m["action"] != "cancel_decision" {
		t.Errorf("expected action cancel_decision, got %v", m["action"])
	}
	if m["next_player"] != "alice" {
		t.Errorf("expected next_player alice, got %v", m["next_player"])
	}
}
