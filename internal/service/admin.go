package service

import (
	"context"

	"wishcircle-api/internal/apperr"
	"wishcircle-api/internal/domain"
)

const maxListLimit = 100

type AdminService struct {
	store domain.Store
}

func NewAdminService(store domain.Store) *AdminService { return &AdminService{store: store} }

func clampLimit(n, def int) int {
	if n <= 0 || n > maxListLimit {
		return def
	}
	return n
}

func (s *AdminService) ListUsers(ctx context.Context, q string, limit int) ([]domain.UserSummary, error) {
	rows, err := s.store.Users().Search(ctx, q, clampLimit(limit, maxListLimit))
	if err != nil {
		return nil, apperr.Internal("list users failed", err)
	}
	return rows, nil
}

func (s *AdminService) TopScores(ctx context.Context, limit int) ([]domain.Score, error) {
	rows, err := s.store.Scores().Top(ctx, clampLimit(limit, 10))
	if err != nil {
		return nil, apperr.Internal("list scores failed", err)
	}
	return rows, nil
}

// PurgeNotifications 通知无删除路径，后台手动清理
func (s *AdminService) PurgeNotifications(ctx context.Context, userID string) (int64, error) {
	u, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return 0, apperr.Internal("purge notifications failed", err)
	}
	if u == nil {
		return 0, apperr.NotFound("user not found")
	}
	n, err := s.store.Notifications().DeleteByUser(ctx, userID)
	if err != nil {
		return 0, apperr.Internal("purge notifications failed", err)
	}
	return n, nil
}
