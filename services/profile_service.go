// services/profile_service.go
package services

import (
	"github.com/wfunc/monopoly/logger"
	"github.com/wfunc/monopoly/models"
	"github.com/wfunc/monopoly/persistence"
	"github.com/wfunc/monopoly/protocol"
)

// ProfileService 玩家档案查询
type ProfileService struct {
	db persistence.Database
}

func NewProfileService(db persistence.Database) *ProfileService {
	return &ProfileService{db: db}
}

// RosterEntry resolves a username into an init-message roster entry. A
// failed lookup degrades to the bare username with an empty avatar; it is
// cosmetic and must never block the game.
func (s *ProfileService) RosterEntry(username string) protocol.PlayerEntry {
	profile, err := s.db.GetProfile(username)
	if err != nil {
		if err != persistence.ErrRecordNotFound {
			logger.Log.Warnf("profile lookup for %s failed: %v", username, err)
		}
		return protocol.PlayerEntry{FullName: username, UserName: username, Avatar: ""}
	}
	return protocol.PlayerEntry{
		FullName: profile.FullName,
		UserName: profile.Username,
		Avatar:   profile.Avatar,
	}
}

// PlayerStats 查询玩家胜负统计
func (s *ProfileService) PlayerStats(username string) (*models.PlayerStats, error) {
	return s.db.GetPlayerStats(username)
}

// RecordGame archives a finished game. The richest seat is recorded as
// winner.
func (s *ProfileService) RecordGame(roomID string, players []string, finalCash map[string]int64) error {
	winner := ""
	best := int64(0)
	for _, name := range players {
		if cash, ok := finalCash[name]; ok && (winner == "" || cash > best) {
			winner = name
			best = cash
		}
	}

	return s.db.SaveGameRecord(&models.GameRecord{
		RoomID:    roomID,
		Players:   players,
		FinalCash: finalCash,
		Winner:    winner,
	})
}
