package domain

import (
	"context"
	"time"
)

type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:36;not null" json:"userId"`
	Theme     string    `gorm:"size:255;not null" json:"theme"`
	Image     string    `gorm:"type:text" json:"image,omitempty"` // base64
	CreatedAt time.Time `json:"createdAt"`
}

func (Post) TableName() string { return "posts" }

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
}
