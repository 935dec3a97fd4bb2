package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"redrose-ai/internal/model"
)

type GeneratedContentRepository struct {
	db *gorm.DB
}

func NewGeneratedContentRepository(db *gorm.DB) *GeneratedContentRepository {
	return &GeneratedContentRepository{db: db}
}

func (r *GeneratedContentRepository) Create(ctx context.Context, content *model.GeneratedContent) error {
	if err := r.db.WithContext(ctx).Create(content).Error; err != nil {
		return fmt.Errorf("create generated content failed: %w", err)
	}
	return nil
}

func (r *GeneratedContentRepository) ListByUserID(ctx context.Context, userID uint) ([]model.GeneratedContent, error) {
	list := []model.GeneratedContent{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list generated content failed: %w", err)
	}
	return list, nil
}

func (r *GeneratedContentRepository) GetByIDAndUserID(ctx context.Context, id, userID uint) (*model.GeneratedContent, error) {
	var content model.GeneratedContent
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get generated content failed: %w", err)
	}
	return &content, nil
}
