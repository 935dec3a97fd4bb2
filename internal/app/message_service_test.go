package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"redrose-ai/internal/ai"
	"redrose-ai/internal/model"
	"redrose-ai/internal/repository"
)

func TestChatPersistsTurn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	conversation, err := f.conversations.Create(ctx, 1, "")
	require.NoError(t, err)

	result, err := f.messages.Chat(ctx, ChatInput{
		UserID:         1,
		ConversationID: conversation.ID,
		Messages: []ChatMessage{
			{Role: model.RoleUser, Content: "earlier"},
			{Role: model.RoleAssistant, Content: "earlier reply"},
			{Role: model.RoleUser, Content: "Hi"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", result.Message)
	assert.Equal(t, []string{"Hi"}, f.completer.calls)

	messages, err := f.messages.List(ctx, conversation.ID, 1)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, "Hi", messages[0].Content)
	assert.Equal(t, model.RoleAssistant, messages[1].Role)
	assert.Equal(t, "Hello", messages[1].Content)

	assert.Equal(t, []string{model.ActivityChatTurn}, f.publisher.kinds())
}

func TestChatWithoutConversationDoesNotPersist(t *testing.T) {
	f := newFixture(t)

	result, err := f.messages.Chat(context.Background(), ChatInput{
		UserID:   1,
		Messages: []ChatMessage{{Role: model.RoleUser, Content: "Hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", result.Message)
	assert.Nil(t, result.UserMessage)

	var count int64
	require.NoError(t, f.db.Model(&model.Message{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, f.publisher.kinds())
}

func TestChatRejectsForeignConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	conversation, err := f.conversations.Create(ctx, 1, "")
	require.NoError(t, err)

	_, err = f.messages.Chat(ctx, ChatInput{
		UserID:         2,
		ConversationID: conversation.ID,
		Messages:       []ChatMessage{{Role: model.RoleUser, Content: "Hi"}},
	})
	assert.ErrorIs(t, err, ErrConversationNotFound)
	assert.Empty(t, f.completer.calls)

	var count int64
	require.NoError(t, f.db.Model(&model.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestChatValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.messages.Chat(context.Background(), ChatInput{UserID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.messages.Chat(context.Background(), ChatInput{
		UserID:   1,
		Messages: []ChatMessage{{Role: model.RoleUser, Content: "  "}},
	})
	assert.ErrorIs(t, err, ErrMessageEmpty)
}

func TestChatFallsBackWhenInferenceIsDown(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	backend := ai.NewHuggingFaceBackend(url, "", ai.SamplingParams{Temperature: 0.7, MaxLength: 1000})
	gateway := ai.NewGateway(backend, 2*time.Second, zap.NewNop())

	conversations := NewConversationService(repository.NewConversationRepository(db))
	messages := NewMessageService(conversations, repository.NewMessageRepository(db), gateway, nil, nil, zap.NewNop())

	conversation, err := conversations.Create(ctx, 1, "")
	require.NoError(t, err)

	result, err := messages.Chat(ctx, ChatInput{
		UserID:         1,
		ConversationID: conversation.ID,
		Messages:       []ChatMessage{{Role: model.RoleUser, Content: "Hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, ai.FallbackReply, result.Message)

	stored, err := messages.List(ctx, conversation.ID, 1)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, ai.FallbackReply, stored[1].Content)
}

func TestAppendValidatesRoleAndContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.messages.Append(ctx, 1, 1, "system", "hi")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.messages.Append(ctx, 1, 1, model.RoleUser, "")
	assert.ErrorIs(t, err, ErrMessageEmpty)
}

func TestListIsEmptyForForeignConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	conversation, err := f.conversations.Create(ctx, 1, "")
	require.NoError(t, err)
	f.chatTurns(t, 1, conversation.ID, 2)

	messages, err := f.messages.List(ctx, conversation.ID, 2)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestListUsesHistoryCache(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	history := newMemoryHistory()

	conversations := NewConversationService(repository.NewConversationRepository(db))
	messages := NewMessageService(conversations, repository.NewMessageRepository(db), &stubCompleter{reply: "ok"}, history, nil, zap.NewNop())

	conversation, err := conversations.Create(ctx, 1, "")
	require.NoError(t, err)
	_, err = messages.Append(ctx, conversation.ID, 1, model.RoleUser, "one")
	require.NoError(t, err)

	// fresh writes keep the list out of the cache until the marker expires
	_, err = messages.List(ctx, conversation.ID, 1)
	require.NoError(t, err)
	assert.NotContains(t, history.entries, historyKey(1, conversation.ID))

	history.advance(6 * time.Second)
	first, err := messages.List(ctx, conversation.ID, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Contains(t, history.entries, historyKey(1, conversation.ID))

	_, err = messages.Append(ctx, conversation.ID, 1, model.RoleAssistant, "two")
	require.NoError(t, err)
	assert.NotContains(t, history.entries, historyKey(1, conversation.ID))

	second, err := messages.List(ctx, conversation.ID, 1)
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

// appendOnSetHistory lands one Append after List has read the database but
// before the cache write goes through.
type appendOnSetHistory struct {
	*memoryHistory
	svc   *MessageService
	fired bool
}

func (h *appendOnSetHistory) SetHistory(ctx context.Context, userID, conversationID uint, messages []model.Message) error {
	if !h.fired {
		h.fired = true
		if _, err := h.svc.Append(ctx, conversationID, userID, model.RoleAssistant, "late reply"); err != nil {
			return err
		}
	}
	return h.memoryHistory.SetHistory(ctx, userID, conversationID, messages)
}

func TestListDoesNotCacheStaleHistoryAfterConcurrentAppend(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	history := &appendOnSetHistory{memoryHistory: newMemoryHistory()}

	conversations := NewConversationService(repository.NewConversationRepository(db))
	messages := NewMessageService(conversations, repository.NewMessageRepository(db), &stubCompleter{reply: "ok"}, history, nil, zap.NewNop())
	history.svc = messages

	conversation, err := conversations.Create(ctx, 1, "")
	require.NoError(t, err)
	_, err = messages.Append(ctx, conversation.ID, 1, model.RoleUser, "hello")
	require.NoError(t, err)
	history.advance(6 * time.Second)

	first, err := messages.List(ctx, conversation.ID, 1)
	require.NoError(t, err)
	assert.Len(t, first, 1)
	require.True(t, history.fired)
	assert.NotContains(t, history.entries, historyKey(1, conversation.ID))

	second, err := messages.List(ctx, conversation.ID, 1)
	require.NoError(t, err)
	assert.Len(t, second, 2)

	history.advance(6 * time.Second)
	third, err := messages.List(ctx, conversation.ID, 1)
	require.NoError(t, err)
	assert.Len(t, third, 2)
}
