package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wishcircle-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// userFriend 直接写 many2many 连接表 user_friends
type userFriend struct {
	UserID   string `gorm:"primaryKey;size:36"`
	FriendID string `gorm:"primaryKey;size:36"`
}

func (userFriend) TableName() string { return "user_friends" }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Omit("Friends").Create(u).Error; err != nil {
		if isDupKey(err) {
			return fmt.Errorf("create user %s: %w", u.Email, domain.ErrDuplicate)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *UserRepo) FindByIDWithFriends(ctx context.Context, id string) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx).Preload("Friends"), "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx), "email = ?", email)
}

func (r *UserRepo) first(q *gorm.DB, cond string, arg any) (*domain.User, error) {
	var u domain.User
	err := q.First(&u, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// LinkFriends 双向写入同一条语句；已是好友则忽略
func (r *UserRepo) LinkFriends(ctx context.Context, a, b *domain.User) error {
	rows := []userFriend{
		{UserID: a.ID, FriendID: b.ID},
		{UserID: b.ID, FriendID: a.ID},
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("link friends: %w", err)
	}
	return nil
}

func (r *UserRepo) Search(ctx context.Context, q string, limit int) ([]domain.UserSummary, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{}).
		Select("users.id, users.email, users.name, users.role, users.created_at, " +
			"(SELECT COUNT(*) FROM user_friends uf WHERE uf.user_id = users.id) AS friend_count")
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("users.email LIKE ? OR users.name LIKE ?", like, like)
	}
	out := make([]domain.UserSummary, 0)
	if err := tx.Order("users.created_at DESC").Limit(limit).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return out, nil
}
