package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"redrose-ai/internal/model"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *model.FileRecord) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("create file record failed: %w", err)
	}
	return nil
}

func (r *FileRepository) ListByUserID(ctx context.Context, userID uint) ([]model.FileRecord, error) {
	files := []model.FileRecord{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list file records failed: %w", err)
	}
	return files, nil
}

func (r *FileRepository) GetByIDAndUserID(ctx context.Context, id, userID uint) (*model.FileRecord, error) {
	var file model.FileRecord
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get file record failed: %w", err)
	}
	return &file, nil
}

// DeleteByIDAndUserID returns the number of rows removed; zero is not an error.
func (r *FileRepository) DeleteByIDAndUserID(ctx context.Context, id, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.FileRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete file record failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}
