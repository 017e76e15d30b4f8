// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/monopoly/models"
)

// Database 数据库接口
type Database interface {
	GetProfile(username string) (*models.Profile, error)
	SaveProfile(profile *models.Profile) error
	SaveGameRecord(record *models.GameRecord) error
	GetPlayerStats(username string) (*models.PlayerStats, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
