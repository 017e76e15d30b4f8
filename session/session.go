// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/wfunc/monopoly/network"
)

// Session 一条客户端连接
type Session struct {
	ID         string
	Conn       network.Connection
	Username   string
	RoomID     string
	CreatedAt  time.Time
	LastActive time.Time
}

func NewSession(id, username string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		Username:   username,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (s *Session) Send(data []byte) error {
	s.LastActive = time.Now()
	return s.Conn.Send(data)
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Session管理器
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

func (m *Manager) GetByUsername(username string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if session.Username == username {
			result = append(result, session)
		}
	}
	return result
}

// Count returns the number of live sessions, for monitoring.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
