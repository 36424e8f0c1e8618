package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"wishcircle-api/internal/domain"
)

type WishlistRepo struct{ db *gorm.DB }

func (r *WishlistRepo) Create(ctx context.Context, w *domain.WishlistItem) error {
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		return fmt.Errorf("create wishlist item: %w", err)
	}
	return nil
}

type PostRepo struct{ db *gorm.DB }

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}
