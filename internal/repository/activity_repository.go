package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"redrose-ai/internal/model"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("create activity failed: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListRecentByUserID(ctx context.Context, userID uint, limit int) ([]model.Activity, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	list := []model.Activity{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list activities failed: %w", err)
	}
	return list, nil
}
