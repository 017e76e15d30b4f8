package room

import (
	"net"
	"testing"
	"time"

	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/network"
	"github.com/wfunc/monopoly/session"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(data []byte) error              { return nil }
func (m *MockConnection) Close() error                        { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration) {}
func (m *MockConnection) ReadEvent() (*network.Event, error)  { return nil, nil }

func newTestSession(id, username string) *session.Session {
	return session.NewSession(id, username, &MockConnection{})
}

func newTestEngine() game.Engine {
	return game.NewBoardEngineWithSeed(40, 4, 1500, 1)
}

func TestManager_CreateAndGet(t *testing.T) {
	manager := NewRoomManager()

	roomID := "test_room_1"
	room := manager.Create(roomID, newTestEngine())

	if room == nil {
		t.Fatal("Create should not return nil")
	}
	if room.ID != roomID {
		t.Errorf("Expected room ID %s, got %s", roomID, room.ID)
	}

	retrieved, err := manager.Get(roomID)
	if err != nil {
		t.Fatalf("Get should find the created room, got %v", err)
	}
	if retrieved != room {
		t.Error("Get should return the same room instance")
	}
}

func TestManager_GetUnknownRoom(t *testing.T) {
	manager := NewRoomManager()

	if _, err := manager.Get("never_created"); err != ErrRoomNotFound {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}
}

func TestManager_GetOrCreate(t *testing.T) {
	manager := NewRoomManager()
	factory := func() game.Engine { return newTestEngine() }

	first := manager.GetOrCreate("r1", factory)
	second := manager.GetOrCreate("r1", factory)

	if first != second {
		t.Error("GetOrCreate should return the existing room on second call")
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 room, got %d", manager.Count())
	}
}

func TestRoom_AddRemoveSession(t *testing.T) {
	room := NewRoom("test_room_2", newTestEngine())

	s1 := newTestSession("session1", "alice")
	s2 := newTestSession("session2", "bob")

	room.AddSession(s1)
	room.AddSession(s2)

	if room.SessionCount() != 2 {
		t.Fatalf("Expected 2 sessions, got %d", room.SessionCount())
	}
	if s1.RoomID != room.ID {
		t.Error("AddSession should record the room id on the session")
	}

	if empty := room.RemoveSession("session1"); empty {
		t.Error("room should not report empty with one session left")
	}
	if empty := room.RemoveSession("session2"); !empty {
		t.Error("room should report empty after the last session leaves")
	}
	if room.SessionCount() != 0 {
		t.Errorf("Expected 0 sessions, got %d", room.SessionCount())
	}
}

func TestRoom_IdleSince(t *testing.T) {
	room := NewRoom("test_room_3", newTestEngine())

	s := newTestSession("session1", "alice")
	room.AddSession(s)

	if room.IdleSince() != 0 {
		t.Error("occupied room should not report idle time")
	}

	room.RemoveSession("session1")
	if room.IdleSince() < 0 {
		t.Error("empty room should report a non-negative idle duration")
	}
}
