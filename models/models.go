// models/models.go
package models

import (
	"time"
)

// Profile 玩家档案（身份信息，游戏核心之外维护）
type Profile struct {
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameRecord 一局结束后的存档
type GameRecord struct {
	RoomID    string           `json:"room_id"`
	Players   []string         `json:"players"`
	FinalCash map[string]int64 `json:"final_cash"`
	Winner    string           `json:"winner"`
	CreatedAt time.Time        `json:"created_at"`
}

// PlayerStats 玩家统计信息
type PlayerStats struct {
	TotalGames int `json:"total_games"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
}
