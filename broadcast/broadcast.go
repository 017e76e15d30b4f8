// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/room"
)

// 广播接口
type Broadcaster interface {
	BroadcastToRoom(roomID string, data []byte) error
}

// 基于房间的广播器
type RoomBroadcaster struct {
	roomManager *room.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		roomManager: roomManager,
	}
}

// BroadcastToRoom delivers one message to every connection in the room. A
// failed send to one connection never blocks delivery to the rest.
func (b *RoomBroadcaster) BroadcastToRoom(roomID string, data []byte) error {
	r, err := b.roomManager.Get(roomID)
	if err != nil {
		return err
	}

	// Get a thread-safe copy of the sessions
	sessions := r.GetSessions()

	for _, s := range sessions {
		if err := s.Send(data); err != nil {
			logger.Log.Warnf("broadcast to session %s in room %s failed: %v", s.GetID(), roomID, err)
			continue
		}
	}

	return nil
}
