// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/monopoly/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// 获取通用数据库对象 sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := db.AutoMigrate(&models.GormProfile{}, &models.GormGameRecord{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// GetProfile 按用户名加载档案
func (p *GormPostgreSQL) GetProfile(username string) (*models.Profile, error) {
	var row models.GormProfile
	if err := p.db.Where("username = ?", username).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &models.Profile{
		Username:  row.Username,
		FullName:  row.FullName,
		Avatar:    row.Avatar,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// SaveProfile 保存档案（UPSERT）
func (p *GormPostgreSQL) SaveProfile(profile *models.Profile) error {
	var row models.GormProfile
	result := p.db.Where("username = ?", profile.Username).First(&row)

	if result.Error == gorm.ErrRecordNotFound {
		row = models.GormProfile{
			Username: profile.Username,
			FullName: profile.FullName,
			Avatar:   profile.Avatar,
		}
		return p.db.Create(&row).Error
	} else if result.Error != nil {
		return result.Error
	}

	row.FullName = profile.FullName
	row.Avatar = profile.Avatar
	return p.db.Save(&row).Error
}

// SaveGameRecord 保存对局记录
func (p *GormPostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	players := make(map[string]interface{}, len(record.Players))
	for i, name := range record.Players {
		players[name] = i // seat order
	}
	cash := make(map[string]interface{}, len(record.FinalCash))
	for name, amount := range record.FinalCash {
		cash[name] = amount
	}

	row := models.GormGameRecord{
		RoomID:    record.RoomID,
		Players:   players,
		FinalCash: cash,
		Winner:    record.Winner,
	}
	return p.db.Create(&row).Error
}

// GetPlayerStats 查询玩家胜负统计
func (p *GormPostgreSQL) GetPlayerStats(username string) (*models.PlayerStats, error) {
	stats := &models.PlayerStats{}

	err := p.db.Raw(
		`
        SELECT
            COUNT(*) AS total_games,
            SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END) AS wins,
            SUM(CASE WHEN winner <> '' AND winner <> ? THEN 1 ELSE 0 END) AS losses
        FROM gorm_game_records
        WHERE jsonb_exists(players, ?)`,
		username, username, username,
	).Scan(stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// 添加事务支持
func (p *GormPostgreSQL) Transaction(fn func(tx *gorm.DB) error) error {
	return p.db.Transaction(fn)
}
