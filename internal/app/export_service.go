package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"redrose-ai/internal/model"
	"redrose-ai/internal/repository"
)

const (
	FormatText = "txt"
	FormatHTML = "html"
	FormatJSON = "json"
)

// GeneratedByHeader is attached to every export download.
const GeneratedByHeader = exportedBy

// Document is a rendered export ready to be sent as an attachment.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

type ExportService struct {
	conversationRepo *repository.ConversationRepository
	messageRepo      *repository.MessageRepository
	fileRepo         *repository.FileRepository
	contentRepo      *repository.GeneratedContentRepository
	userRepo         *repository.UserRepository
	activity         activityRecorder
	logger           *zap.Logger
	now              func() time.Time
}

func NewExportService(
	conversationRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
	fileRepo *repository.FileRepository,
	contentRepo *repository.GeneratedContentRepository,
	userRepo *repository.UserRepository,
	publisher ActivityPublisher,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		fileRepo:         fileRepo,
		contentRepo:      contentRepo,
		userRepo:         userRepo,
		activity:         activityRecorder{publisher: publisher, logger: logger},
		logger:           logger,
		now:              time.Now,
	}
}

// NormalizeFormat maps anything other than html or json to plain text.
func NormalizeFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatHTML:
		return FormatHTML
	case FormatJSON:
		return FormatJSON
	default:
		return FormatText
	}
}

type chatExportJSON struct {
	Conversation *model.Conversation `json:"conversation"`
	Messages     []model.Message     `json:"messages"`
	ExportedBy   string              `json:"exported_by"`
	ExportDate   time.Time           `json:"export_date"`
}

func (s *ExportService) ExportConversation(ctx context.Context, userID, conversationID uint, format string) (*Document, error) {
	if userID == 0 || conversationID == 0 {
		return nil, ErrInvalidInput
	}

	conversation, err := s.conversationRepo.GetByIDAndUserID(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}

	messages, err := s.messageRepo.ListByConversation(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	format = NormalizeFormat(format)
	doc := &Document{Filename: fmt.Sprintf("red-rose-ai-chat-%d.%s", conversationID, format)}

	switch format {
	case FormatJSON:
		doc.ContentType = "application/json"
		doc.Body, err = json.MarshalIndent(chatExportJSON{
			Conversation: conversation,
			Messages:     messages,
			ExportedBy:   exportedBy,
			ExportDate:   now.UTC(),
		}, "", "  ")
	case FormatHTML:
		doc.ContentType = "text/html; charset=utf-8"
		doc.Body, err = render(func(buf *bytes.Buffer) error {
			return chatHTMLTemplate.Execute(buf, chatExportView{Conversation: conversation, Messages: messages, ExportedAt: now})
		})
	default:
		doc.ContentType = "text/plain; charset=utf-8"
		doc.Body, err = render(func(buf *bytes.Buffer) error {
			return chatTextTemplate.Execute(buf, chatExportView{Conversation: conversation, Messages: messages, ExportedAt: now})
		})
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export failed: %w", format, err)
	}

	s.activity.record(ctx, userID, model.ActivityExportGenerated, conversationID, doc.Filename)
	return doc, nil
}

type exportInfo struct {
	ExportedBy            string    `json:"exported_by"`
	ExportDate            time.Time `json:"export_date"`
	UserID                uint      `json:"user_id"`
	UserEmail             string    `json:"user_email"`
	TotalConversations    int       `json:"total_conversations"`
	TotalMessages         int       `json:"total_messages"`
	TotalFiles            int       `json:"total_files"`
	TotalGeneratedContent int       `json:"total_generated_content"`
}

type platformInfo struct {
	Platform string   `json:"platform"`
	Cost     string   `json:"cost"`
	Features []string `json:"features"`
	Message  string   `json:"message"`
}

type AccountExport struct {
	ExportInfo       exportInfo               `json:"export_info"`
	Conversations    []model.Conversation     `json:"conversations"`
	Messages         []model.Message          `json:"messages"`
	Files            []model.FileRecord       `json:"files"`
	GeneratedContent []model.GeneratedContent `json:"generated_content"`
	RedRoseAIInfo    platformInfo             `json:"red_rose_ai_info"`
}

var redRoseInfo = platformInfo{
	Platform: "Red Rose AI",
	Cost:     "$0.00 - Completely FREE",
	Features: []string{
		"Unlimited AI chat",
		"Free file processing",
		"Free content generation",
		"Free data export",
		"More powerful than paid alternatives",
	},
	Message: "Thank you for using Red Rose AI - the most powerful FREE AI platform!",
}

// ExportAllData loads the caller's four record kinds in parallel. A failed
// read is logged and exported as an empty list.
func (s *ExportService) ExportAllData(ctx context.Context, userID uint) (*Document, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	out := AccountExport{
		Conversations:    []model.Conversation{},
		Messages:         []model.Message{},
		Files:            []model.FileRecord{},
		GeneratedContent: []model.GeneratedContent{},
		RedRoseAIInfo:    redRoseInfo,
	}
	var email string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if list, err := s.conversationRepo.ListByUserIDCreated(gctx, userID); err != nil {
			s.logger.Warn("export conversations failed", zap.Uint("user_id", userID), zap.Error(err))
		} else {
			out.Conversations = list
		}
		return nil
	})
	g.Go(func() error {
		if list, err := s.messageRepo.ListByUserID(gctx, userID); err != nil {
			s.logger.Warn("export messages failed", zap.Uint("user_id", userID), zap.Error(err))
		} else {
			out.Messages = list
		}
		return nil
	})
	g.Go(func() error {
		if list, err := s.fileRepo.ListByUserID(gctx, userID); err != nil {
			s.logger.Warn("export files failed", zap.Uint("user_id", userID), zap.Error(err))
		} else {
			out.Files = list
		}
		return nil
	})
	g.Go(func() error {
		if list, err := s.contentRepo.ListByUserID(gctx, userID); err != nil {
			s.logger.Warn("export generated content failed", zap.Uint("user_id", userID), zap.Error(err))
		} else {
			out.GeneratedContent = list
		}
		return nil
	})
	g.Go(func() error {
		if user, err := s.userRepo.GetByID(gctx, userID); err != nil {
			s.logger.Warn("export user lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		} else if user != nil {
			email = user.Email
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	out.ExportInfo = exportInfo{
		ExportedBy:            exportedBy,
		ExportDate:            now.UTC(),
		UserID:                userID,
		UserEmail:             email,
		TotalConversations:    len(out.Conversations),
		TotalMessages:         len(out.Messages),
		TotalFiles:            len(out.Files),
		TotalGeneratedContent: len(out.GeneratedContent),
	}

	body, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal account export failed: %w", err)
	}

	doc := &Document{
		Filename:    fmt.Sprintf("red-rose-ai-complete-export-%s.json", now.UTC().Format("2006-01-02")),
		ContentType: "application/json",
		Body:        body,
	}
	s.activity.record(ctx, userID, model.ActivityExportGenerated, 0, doc.Filename)
	return doc, nil
}

func (s *ExportService) ExportContent(ctx context.Context, userID, contentID uint, format string) (*Document, error) {
	if userID == 0 || contentID == 0 {
		return nil, ErrInvalidInput
	}
	content, err := s.contentRepo.GetByIDAndUserID(ctx, contentID, userID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrContentNotFound
	}

	now := s.now()
	doc := &Document{}
	if NormalizeFormat(format) == FormatJSON {
		doc.Filename = fmt.Sprintf("red-rose-ai-%s-%d.json", content.ContentType, content.ID)
		doc.ContentType = "application/json"
		doc.Body, err = json.MarshalIndent(map[string]any{
			"content":     content,
			"exported_by": exportedBy,
			"export_date": now.UTC(),
		}, "", "  ")
	} else {
		doc.Filename = fmt.Sprintf("red-rose-ai-%s-%d.txt", content.ContentType, content.ID)
		doc.ContentType = "text/plain; charset=utf-8"
		doc.Body, err = render(func(buf *bytes.Buffer) error {
			return contentTextTemplate.Execute(buf, contentExportView{Content: content, ExportedAt: now})
		})
	}
	if err != nil {
		return nil, fmt.Errorf("render content export failed: %w", err)
	}
	s.activity.record(ctx, userID, model.ActivityExportGenerated, content.ID, doc.Filename)
	return doc, nil
}

func render(execute func(buf *bytes.Buffer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := execute(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
