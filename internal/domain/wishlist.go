package domain

import (
	"context"
	"time"
)

type WishlistItem struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"index;size:36;not null" json:"userId"`
	Email        string    `gorm:"size:191;not null" json:"email"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	ProductName  string    `gorm:"size:255;not null" json:"productName"`
	ProductPrice string    `gorm:"size:64;not null" json:"productPrice"` // 原样字符串，不做货币语义
	CreatedAt    time.Time `json:"createdAt"`
}

func (WishlistItem) TableName() string { return "wishlists" }

type WishlistRepository interface {
	Create(ctx context.Context, w *WishlistItem) error
}
