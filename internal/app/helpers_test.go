package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"redrose-ai/internal/model"
	"redrose-ai/internal/repository"
)

var dbSeq atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:app_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

type stubCompleter struct {
	reply string
	calls []string
}

func (c *stubCompleter) Complete(_ context.Context, latest string) string {
	c.calls = append(c.calls, latest)
	return c.reply
}

type memoryPublisher struct {
	mu     sync.Mutex
	events []model.Activity
}

func (p *memoryPublisher) Publish(_ context.Context, activity model.Activity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, activity)
	return nil
}

func (p *memoryPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

// memoryHistory mirrors the redis cache, including dirty markers that expire
// after dirtyTTL on a manual clock.
type memoryHistory struct {
	entries    map[string][]model.Message
	dirtyUntil map[string]time.Time
	now        time.Time
	dirtyTTL   time.Duration
	deletes    int
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{
		entries:    map[string][]model.Message{},
		dirtyUntil: map[string]time.Time{},
		now:        time.Unix(0, 0),
		dirtyTTL:   5 * time.Second,
	}
}

func historyKey(userID, conversationID uint) string {
	return fmt.Sprintf("%d:%d", userID, conversationID)
}

func (h *memoryHistory) advance(d time.Duration) {
	h.now = h.now.Add(d)
}

func (h *memoryHistory) GetHistory(_ context.Context, userID, conversationID uint) ([]model.Message, bool, error) {
	m, ok := h.entries[historyKey(userID, conversationID)]
	return m, ok, nil
}

func (h *memoryHistory) SetHistory(ctx context.Context, userID, conversationID uint, messages []model.Message) error {
	if dirty, _ := h.IsDirty(ctx, userID, conversationID); dirty {
		return nil
	}
	h.entries[historyKey(userID, conversationID)] = messages
	return nil
}

func (h *memoryHistory) DeleteHistory(_ context.Context, userID, conversationID uint) error {
	h.deletes++
	delete(h.entries, historyKey(userID, conversationID))
	return nil
}

func (h *memoryHistory) MarkDirty(_ context.Context, userID, conversationID uint) error {
	h.dirtyUntil[historyKey(userID, conversationID)] = h.now.Add(h.dirtyTTL)
	return nil
}

func (h *memoryHistory) IsDirty(_ context.Context, userID, conversationID uint) (bool, error) {
	until, ok := h.dirtyUntil[historyKey(userID, conversationID)]
	return ok && h.now.Before(until), nil
}

// fixture wires every service against one database.
type fixture struct {
	db            *gorm.DB
	publisher     *memoryPublisher
	completer     *stubCompleter
	conversations *ConversationService
	messages      *MessageService
	files         *FileService
	exports       *ExportService
	content       *ContentService
	users         *repository.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	publisher := &memoryPublisher{}
	completer := &stubCompleter{reply: "Hello"}
	log := zap.NewNop()

	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	fileRepo := repository.NewFileRepository(db)
	contentRepo := repository.NewGeneratedContentRepository(db)
	userRepo := repository.NewUserRepository(db)

	conversations := NewConversationService(conversationRepo)
	return &fixture{
		db:            db,
		publisher:     publisher,
		completer:     completer,
		conversations: conversations,
		messages:      NewMessageService(conversations, messageRepo, completer, nil, publisher, log),
		files:         NewFileService(fileRepo, 1<<20, publisher, log),
		exports:       NewExportService(conversationRepo, messageRepo, fileRepo, contentRepo, userRepo, publisher, log),
		content:       NewContentService(contentRepo, publisher, log),
		users:         userRepo,
	}
}

// chatTurns runs n user/assistant exchanges in the given conversation.
func (f *fixture) chatTurns(t *testing.T, userID, conversationID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := f.messages.Chat(context.Background(), ChatInput{
			UserID:         userID,
			ConversationID: conversationID,
			Messages:       []ChatMessage{{Role: model.RoleUser, Content: fmt.Sprintf("question %d", i)}},
		})
		require.NoError(t, err)
	}
}
