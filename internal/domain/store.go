package domain

import (
	"context"
	"errors"
)

// ErrDuplicate 唯一键冲突（邮箱重复等）
var ErrDuplicate = errors.New("duplicate record")

// Store 聚合各仓储；Transaction 内的 Store 共享同一个事务
type Store interface {
	Users() UserRepository
	Notifications() NotificationRepository
	Wishlists() WishlistRepository
	Posts() PostRepository
	Scores() ScoreRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
