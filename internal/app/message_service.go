package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"redrose-ai/internal/model"
	"redrose-ai/internal/repository"
)

// Completer produces the assistant reply. Implementations absorb upstream
// failures and always return some text.
type Completer interface {
	Complete(ctx context.Context, latestUserContent string) string
}

type HistoryCache interface {
	GetHistory(ctx context.Context, userID, conversationID uint) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, userID, conversationID uint, messages []model.Message) error
	DeleteHistory(ctx context.Context, userID, conversationID uint) error
	MarkDirty(ctx context.Context, userID, conversationID uint) error
	IsDirty(ctx context.Context, userID, conversationID uint) (bool, error)
}

type MessageService struct {
	conversations *ConversationService
	messageRepo   *repository.MessageRepository
	completer     Completer
	historyCache  HistoryCache
	activity      activityRecorder
	logger        *zap.Logger
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatInput struct {
	UserID         uint
	ConversationID uint // 0 means reply without persisting
	Messages       []ChatMessage
}

type ChatResult struct {
	Message          string
	UserMessage      *model.Message
	AssistantMessage *model.Message
}

func NewMessageService(
	conversations *ConversationService,
	messageRepo *repository.MessageRepository,
	completer Completer,
	historyCache HistoryCache,
	publisher ActivityPublisher,
	logger *zap.Logger,
) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{
		conversations: conversations,
		messageRepo:   messageRepo,
		completer:     completer,
		historyCache:  historyCache,
		activity:      activityRecorder{publisher: publisher, logger: logger},
		logger:        logger,
	}
}

func (s *MessageService) Append(ctx context.Context, conversationID, userID uint, role, content string) (*model.Message, error) {
	if conversationID == 0 || userID == 0 || !model.ValidRole(role) {
		return nil, ErrInvalidInput
	}
	if content == "" {
		return nil, ErrMessageEmpty
	}

	message := &model.Message{
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		Content:        content,
	}
	// mark before the insert so a concurrent List that read the old rows
	// does not cache them
	if s.historyCache != nil {
		if err := s.historyCache.MarkDirty(ctx, userID, conversationID); err != nil {
			s.logger.Warn("mark history dirty failed", zap.Uint("conversation_id", conversationID), zap.Error(err))
		}
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if err := s.historyCache.DeleteHistory(ctx, userID, conversationID); err != nil {
			s.logger.Warn("invalidate history cache failed", zap.Uint("conversation_id", conversationID), zap.Error(err))
		}
	}
	return message, nil
}

// List returns an empty slice for conversations the caller does not own.
func (s *MessageService) List(ctx context.Context, conversationID, userID uint) ([]model.Message, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	if conversationID == 0 {
		return []model.Message{}, nil
	}

	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, userID, conversationID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, userID, conversationID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.messageRepo.ListByConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil && len(messages) > 0 {
		if dirty, err := s.historyCache.IsDirty(ctx, userID, conversationID); err == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, userID, conversationID, messages)
		}
	}
	return messages, nil
}

// Chat runs one turn: store the user message, ask the completer, store the
// reply, bump the conversation. The two inserts are independent writes.
func (s *MessageService) Chat(ctx context.Context, input ChatInput) (*ChatResult, error) {
	if input.UserID == 0 || len(input.Messages) == 0 {
		return nil, ErrInvalidInput
	}
	latest := input.Messages[len(input.Messages)-1].Content
	if strings.TrimSpace(latest) == "" {
		return nil, ErrMessageEmpty
	}

	if input.ConversationID == 0 {
		return &ChatResult{Message: s.completer.Complete(ctx, latest)}, nil
	}

	conversation, err := s.conversations.Get(ctx, input.UserID, input.ConversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	userMessage, err := s.Append(ctx, conversation.ID, input.UserID, model.RoleUser, latest)
	if err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}

	reply := s.completer.Complete(ctx, latest)

	result := &ChatResult{Message: reply, UserMessage: userMessage}
	assistantMessage, err := s.Append(ctx, conversation.ID, input.UserID, model.RoleAssistant, reply)
	if err != nil {
		s.logger.Error("store assistant message failed",
			zap.Uint("conversation_id", conversation.ID),
			zap.Error(err),
		)
	} else {
		result.AssistantMessage = assistantMessage
	}

	if err := s.conversations.Touch(ctx, input.UserID, conversation.ID); err != nil {
		s.logger.Warn("touch conversation failed", zap.Uint("conversation_id", conversation.ID), zap.Error(err))
	}

	s.activity.record(ctx, input.UserID, model.ActivityChatTurn, conversation.ID, "")
	return result, nil
}
