package domain

import (
	"context"
	"time"
)

// Notification 好友加心愿单时的扇出记录，只增不改
type Notification struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"index;size:36;not null" json:"userId"`
	Email        string    `gorm:"size:191;not null" json:"email"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	ProductName  string    `gorm:"size:255;not null" json:"productName"`
	ProductPrice string    `gorm:"size:64;not null" json:"productPrice"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
