package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"redrose-ai/internal/model"
	"redrose-ai/internal/repository"
)

type FileService struct {
	fileRepo *repository.FileRepository
	maxBytes int64
	activity activityRecorder
	logger   *zap.Logger
}

type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type IngestResult struct {
	Analysis  string
	FileID    uint // 0 when the record could not be stored
	Category  model.FileCategory
	Processed bool
}

func NewFileService(fileRepo *repository.FileRepository, maxBytes int64, publisher ActivityPublisher, logger *zap.Logger) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileService{
		fileRepo: fileRepo,
		maxBytes: maxBytes,
		activity: activityRecorder{publisher: publisher, logger: logger},
		logger:   logger,
	}
}

// Ingest renders the canned analysis for an upload and stores the file. A
// storage failure is logged and the analysis is still returned.
func (s *FileService) Ingest(ctx context.Context, userID uint, file UploadedFile) (*IngestResult, error) {
	if userID == 0 || file.Filename == "" {
		return nil, ErrInvalidInput
	}
	if s.maxBytes > 0 && int64(len(file.Data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	analysis := analyzeFile(file)
	result := &IngestResult{
		Analysis:  analysis.text,
		Category:  analysis.category,
		Processed: true,
	}

	record := &model.FileRecord{
		UserID:         userID,
		Filename:       file.Filename,
		FileType:       file.ContentType,
		FileSize:       int64(len(file.Data)),
		FileURL:        dataURI(file.ContentType, file.Data),
		Processed:      true,
		AnalysisResult: model.NewFileAnalysis(analysis.variant),
	}
	if err := s.fileRepo.Create(ctx, record); err != nil {
		s.logger.Error("store file record failed",
			zap.Uint("user_id", userID),
			zap.String("filename", file.Filename),
			zap.Error(err),
		)
		return result, nil
	}

	result.FileID = record.ID
	s.activity.record(ctx, userID, model.ActivityFileIngested, record.ID, fmt.Sprintf("%s (%s)", file.Filename, analysis.category))
	return result, nil
}

func (s *FileService) List(ctx context.Context, userID uint) ([]model.FileRecord, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.fileRepo.ListByUserID(ctx, userID)
}

func (s *FileService) Get(ctx context.Context, userID, fileID uint) (*model.FileRecord, error) {
	if userID == 0 || fileID == 0 {
		return nil, ErrInvalidInput
	}
	file, err := s.fileRepo.GetByIDAndUserID(ctx, fileID, userID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, ErrFileNotFound
	}
	return file, nil
}

// Delete is idempotent: removing a missing or foreign file affects zero rows.
func (s *FileService) Delete(ctx context.Context, userID, fileID uint) (int64, error) {
	if userID == 0 || fileID == 0 {
		return 0, ErrInvalidInput
	}
	affected, err := s.fileRepo.DeleteByIDAndUserID(ctx, fileID, userID)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.activity.record(ctx, userID, model.ActivityFileDeleted, fileID, "")
	}
	return affected, nil
}
