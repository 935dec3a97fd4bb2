package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"redrose-ai/internal/model"
)

type memoryStore struct {
	saved []model.Activity
	err   error
}

func (s *memoryStore) Create(_ context.Context, activity *model.Activity) error {
	if s.err != nil {
		return s.err
	}
	activity.ID = uint(len(s.saved) + 1)
	s.saved = append(s.saved, *activity)
	return nil
}

func TestHandlePersistsActivity(t *testing.T) {
	store := &memoryStore{}
	w := NewActivityWorker(nil, store, "q", zap.NewNop())

	body, err := json.Marshal(model.Activity{ID: 99, UserID: 3, Kind: model.ActivityChatTurn, SubjectID: 7})
	require.NoError(t, err)
	require.NoError(t, w.handle(context.Background(), body))

	require.Len(t, store.saved, 1)
	assert.Equal(t, uint(1), store.saved[0].ID, "incoming id must be ignored")
	assert.Equal(t, uint(3), store.saved[0].UserID)
	assert.Equal(t, uint(7), store.saved[0].SubjectID)
}

func TestHandleRejectsBadPayloads(t *testing.T) {
	store := &memoryStore{}
	w := NewActivityWorker(nil, store, "q", zap.NewNop())

	assert.Error(t, w.handle(context.Background(), []byte("{")))
	assert.Error(t, w.handle(context.Background(), []byte(`{"kind":"chat.turn"}`)))
	assert.Empty(t, store.saved)

	store.err = errors.New("db down")
	assert.Error(t, w.handle(context.Background(), []byte(`{"user_id":1,"kind":"chat.turn"}`)))
}
