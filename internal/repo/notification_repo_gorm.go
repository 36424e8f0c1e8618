package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"wishcircle-api/internal/domain"
)

type NotificationRepo struct{ db *gorm.DB }

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification for %s: %w", n.UserID, err)
	}
	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	out := make([]domain.Notification, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (r *NotificationRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Notification{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete notifications: %w", res.Error)
	}
	return res.RowsAffected, nil
}
