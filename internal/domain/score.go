package domain

import (
	"context"
	"time"
)

const (
	PostReward = 100
	VoteReward = 50
)

// Score 每用户一行，user_id 唯一
type Score struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"uniqueIndex;size:36;not null" json:"userId"`
	Score     int64     `gorm:"not null;default:0" json:"score"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Score) TableName() string { return "scores" }

type ScoreRepository interface {
	// Add 原子 upsert：不存在则以 delta 创建，存在则累加；返回累加后的分数
	Add(ctx context.Context, userID string, delta int64) (int64, error)
	FindByUser(ctx context.Context, userID string) (*Score, error)
	Top(ctx context.Context, limit int) ([]Score, error)
}

// Models AutoMigrate 用
func Models() []any {
	return []any{&User{}, &Notification{}, &WishlistItem{}, &Post{}, &Score{}}
}
