// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormProfile 玩家档案模型
type GormProfile struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null"`
	FullName string `gorm:"not null"`
	Avatar   string
}

// GormGameRecord 对局记录模型
type GormGameRecord struct {
	gorm.Model
	RoomID    string                 `gorm:"index;not null"`
	Players   map[string]interface{} `gorm:"type:jsonb;not null"`
	FinalCash map[string]interface{} `gorm:"type:jsonb"`
	Winner    string                 `gorm:"index"`
}
