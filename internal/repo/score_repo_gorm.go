package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wishcircle-api/internal/domain"
	"wishcircle-api/pkg/utils"
)

type ScoreRepo struct{ db *gorm.DB }

func (r *ScoreRepo) Add(ctx context.Context, userID string, delta int64) (int64, error) {
	db := r.db.WithContext(ctx)
	row := domain.Score{ID: utils.NewID(), UserID: userID, Score: delta}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"score":      gorm.Expr("scores.score + ?", delta),
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
	if err != nil {
		return 0, fmt.Errorf("upsert score: %w", err)
	}

	var s domain.Score
	if err := db.First(&s, "user_id = ?", userID).Error; err != nil {
		return 0, fmt.Errorf("reload score: %w", err)
	}
	return s.Score, nil
}

func (r *ScoreRepo) FindByUser(ctx context.Context, userID string) (*domain.Score, error) {
	var s domain.Score
	err := r.db.WithContext(ctx).First(&s, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find score: %w", err)
	}
	return &s, nil
}

func (r *ScoreRepo) Top(ctx context.Context, limit int) ([]domain.Score, error) {
	out := make([]domain.Score, 0, limit)
	if err := r.db.WithContext(ctx).Order("score DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}
	return out, nil
}
