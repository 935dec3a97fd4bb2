package app

import (
	"context"

	"go.uber.org/zap"

	"redrose-ai/internal/model"
	"redrose-ai/internal/repository"
)

// ActivityPublisher ships activity events to the background worker.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity model.Activity) error
}

// activityRecorder publishes best-effort events; a nil publisher drops them.
type activityRecorder struct {
	publisher ActivityPublisher
	logger    *zap.Logger
}

func (r activityRecorder) record(ctx context.Context, userID uint, kind string, subjectID uint, detail string) {
	if r.publisher == nil {
		return
	}
	err := r.publisher.Publish(ctx, model.Activity{
		UserID:    userID,
		Kind:      kind,
		SubjectID: subjectID,
		Detail:    detail,
	})
	if err != nil {
		r.logger.Warn("publish activity failed",
			zap.String("kind", kind),
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}
}

type ActivityService struct {
	repo *repository.ActivityRepository
}

func NewActivityService(repo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

func (s *ActivityService) ListRecent(ctx context.Context, userID uint) ([]model.Activity, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.ListRecentByUserID(ctx, userID, 100)
}
