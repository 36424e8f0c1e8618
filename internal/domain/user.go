package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Phone        string    `gorm:"size:32" json:"phone,omitempty"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	Friends      []*User   `gorm:"many2many:user_friends" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// UserSummary 后台列表行
type UserSummary struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	FriendCount int64     `json:"friendCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserRepository 查不到统一返回 (nil, nil)
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByIDWithFriends(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	LinkFriends(ctx context.Context, a, b *User) error
	Search(ctx context.Context, q string, limit int) ([]UserSummary, error)
}
