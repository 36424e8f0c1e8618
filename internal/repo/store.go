package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"wishcircle-api/internal/domain"
)

type Store struct{ db *gorm.DB }

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Users() domain.UserRepository                 { return &UserRepo{db: s.db} }
func (s *Store) Notifications() domain.NotificationRepository { return &NotificationRepo{db: s.db} }
func (s *Store) Wishlists() domain.WishlistRepository         { return &WishlistRepo{db: s.db} }
func (s *Store) Posts() domain.PostRepository                 { return &PostRepo{db: s.db} }
func (s *Store) Scores() domain.ScoreRepository               { return &ScoreRepo{db: s.db} }

// Transaction fn 返回 error 即整体回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Migrate 建表（users 先建，user_friends 连接表随之生成）
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey（需开启 TranslateError），按驱动报错文本兜底
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
