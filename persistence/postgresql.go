// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/monopoly/models"
)

// PostgreSQL 数据库实现
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化表结构
	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	// 创建档案表
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS profiles (
            id SERIAL PRIMARY KEY,
            username VARCHAR(255) UNIQUE NOT NULL,
            full_name VARCHAR(255) NOT NULL,
            avatar TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建对局记录表
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) NOT NULL,
            players JSONB NOT NULL,
            final_cash JSONB NOT NULL,
            winner VARCHAR(255) NOT NULL DEFAULT '',
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建索引以提高查询性能
	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_profiles_username ON profiles(username);
        CREATE INDEX IF NOT EXISTS idx_game_records_room_id ON game_records(room_id);
        CREATE INDEX IF NOT EXISTS idx_game_records_winner ON game_records(winner);
    `)

	return err
}

// GetProfile 按用户名加载档案
func (p *PostgreSQL) GetProfile(username string) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	profile := &models.Profile{}
	query := `SELECT username, full_name, avatar, created_at, updated_at FROM profiles WHERE username = $1`
	err := p.db.QueryRowContext(ctx, query, username).Scan(
		&profile.Username, &profile.FullName, &profile.Avatar,
		&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return profile, nil
}

// SaveProfile 保存档案
func (p *PostgreSQL) SaveProfile(profile *models.Profile) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 使用 UPSERT 操作 (PostgreSQL 9.5+)
	query := `
        INSERT INTO profiles (username, full_name, avatar)
        VALUES ($1, $2, $3)
        ON CONFLICT (username)
        DO UPDATE SET full_name = $2, avatar = $3, updated_at = CURRENT_TIMESTAMP
    `

	_, err := p.db.ExecContext(ctx, query, profile.Username, profile.FullName, profile.Avatar)
	return err
}

// SaveGameRecord 保存对局记录
func (p *PostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	playersJSON, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}
	cashJSON, err := json.Marshal(record.FinalCash)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO game_records (room_id, players, final_cash, winner)
        VALUES ($1, $2, $3, $4)
    `

	_, err = p.db.ExecContext(ctx, query, record.RoomID, playersJSON, cashJSON, record.Winner)
	return err
}

// GetPlayerStats 查询玩家胜负统计
func (p *PostgreSQL) GetPlayerStats(username string) (*models.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats := &models.PlayerStats{}
	query := `
        SELECT
            COUNT(*) AS total_games,
            COUNT(*) FILTER (WHERE winner = $1) AS wins,
            COUNT(*) FILTER (WHERE winner <> '' AND winner <> $1) AS losses
        FROM game_records
        WHERE players @> to_jsonb($1::text)
    `
	err := p.db.QueryRowContext(ctx, query, username).Scan(
		&stats.TotalGames, &stats.Wins, &stats.Losses)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
