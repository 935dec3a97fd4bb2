package app

import (
	"context"
	"strings"
	"time"

	"redrose-ai/internal/model"
	"redrose-ai/internal/repository"
)

type ConversationService struct {
	repo *repository.ConversationRepository
	now  func() time.Time
}

func NewConversationService(repo *repository.ConversationRepository) *ConversationService {
	return &ConversationService{repo: repo, now: time.Now}
}

func (s *ConversationService) Create(ctx context.Context, userID uint, title string) (*model.Conversation, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = model.DefaultConversationTitle
	}

	conversation := &model.Conversation{
		UserID: userID,
		Title:  title,
	}
	if err := s.repo.Create(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *ConversationService) List(ctx context.Context, userID uint) ([]model.Conversation, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUserID(ctx, userID)
}

// Get returns nil, nil when the conversation is absent or owned by someone else.
func (s *ConversationService) Get(ctx context.Context, userID, conversationID uint) (*model.Conversation, error) {
	if userID == 0 || conversationID == 0 {
		return nil, nil
	}
	return s.repo.GetByIDAndUserID(ctx, conversationID, userID)
}

func (s *ConversationService) Touch(ctx context.Context, userID, conversationID uint) error {
	return s.repo.Touch(ctx, conversationID, userID, s.now())
}
