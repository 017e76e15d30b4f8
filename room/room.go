// room/room.go
package room

import (
	"errors"
	"sync"
	"time"

	"github.com/wfunc/monopoly/game"
	"github.com/wfunc/monopoly/session"
	"github.com/wfunc/monopoly/state"
)

// ErrRoomNotFound is returned for a room id that was never initialized.
var ErrRoomNotFound = errors.New("room not found")

// Room 一局游戏：引擎句柄、决策槽和房间内的连接
//
// The room's mutex is the per-room critical section: every
// read-modify-write of the engine and the decision slot (roll, confirm,
// cancel, the init snapshot) runs under WithLock, so no two events for the
// same room interleave. Independent rooms share nothing.
type Room struct {
	ID        string
	Engine    game.Engine
	Decision  *state.DecisionSlot
	CreatedAt time.Time

	mu sync.Mutex

	sessions  map[string]*session.Session // sessionID -> session
	sessMutex sync.RWMutex
	lastEmpty time.Time
}

// NewRoom 创建一个新房间
func NewRoom(id string, engine game.Engine) *Room {
	return &Room{
		ID:        id,
		Engine:    engine,
		Decision:  state.NewDecisionSlot(),
		CreatedAt: time.Now(),
		sessions:  make(map[string]*session.Session),
		lastEmpty: time.Now(),
	}
}

// WithLock runs fn inside the room's exclusive critical section.
func (r *Room) WithLock(fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn()
}

// AddSession 把一条连接加入房间
func (r *Room) AddSession(s *session.Session) {
	r.sessMutex.Lock()
	defer r.sessMutex.Unlock()

	r.sessions[s.ID] = s
	s.RoomID = r.ID
}

// RemoveSession removes a connection and reports whether the room is now
// empty.
func (r *Room) RemoveSession(sessionID string) bool {
	r.sessMutex.Lock()
	defer r.sessMutex.Unlock()

	if s, exists := r.sessions[sessionID]; exists {
		s.RoomID = ""
		delete(r.sessions, sessionID)
	}
	if len(r.sessions) == 0 {
		r.lastEmpty = time.Now()
		return true
	}
	return false
}

// GetSessions returns a copy of all sessions in the room (thread-safe).
func (r *Room) GetSessions() []*session.Session {
	r.sessMutex.RLock()
	defer r.sessMutex.RUnlock()

	sessions := make([]*session.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// SessionCount 房间内的连接数
func (r *Room) SessionCount() int {
	r.sessMutex.RLock()
	defer r.sessMutex.RUnlock()
	return len(r.sessions)
}

// IdleSince reports how long the room has been without connections. Zero
// while occupied.
func (r *Room) IdleSince() time.Duration {
	r.sessMutex.RLock()
	defer r.sessMutex.RUnlock()

	if len(r.sessions) > 0 {
		return 0
	}
	return time.Since(r.lastEmpty)
}

// --- 房间注册表 ---

// Manager 管理所有房间
type Manager struct {
	rooms map[string]*Room
	mutex sync.RWMutex
}

func NewRoomManager() *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
	}
}

// Create 创建一个房间并注册
func (m *Manager) Create(id string, engine game.Engine) *Room {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room := NewRoom(id, engine)
	m.rooms[id] = room
	return room
}

// GetOrCreate returns the room for id, creating it with a fresh engine on
// first connect.
func (m *Manager) GetOrCreate(id string, factory game.Factory) *Room {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, exists := m.rooms[id]; exists {
		return room
	}
	room := NewRoom(id, factory())
	m.rooms[id] = room
	return room
}

// Get 查找房间；未初始化的房间返回 ErrRoomNotFound
func (m *Manager) Get(id string) (*Room, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	if !exists {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Remove 注销一个房间
func (m *Manager) Remove(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.rooms, id)
}

// Rooms returns a snapshot of all registered rooms.
func (m *Manager) Rooms() []*Room {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

// Count 房间数量
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}
