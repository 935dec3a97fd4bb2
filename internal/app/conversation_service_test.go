package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redrose-ai/internal/model"
)

func TestConversationServiceCreateDefaultsTitle(t *testing.T) {
	f := newFixture(t)

	conversation, err := f.conversations.Create(context.Background(), 1, "   ")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultConversationTitle, conversation.Title)
	assert.NotZero(t, conversation.ID)

	named, err := f.conversations.Create(context.Background(), 1, "Trip planning")
	require.NoError(t, err)
	assert.Equal(t, "Trip planning", named.Title)

	_, err = f.conversations.Create(context.Background(), 0, "x")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConversationServiceListOrdersByActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.conversations.Create(ctx, 1, "first")
	require.NoError(t, err)
	second, err := f.conversations.Create(ctx, 1, "second")
	require.NoError(t, err)

	f.conversations.now = func() time.Time { return time.Now().Add(time.Hour) }
	require.NoError(t, f.conversations.Touch(ctx, 1, first.ID))

	list, err := f.conversations.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestConversationServiceIsolatesUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine, err := f.conversations.Create(ctx, 1, "mine")
	require.NoError(t, err)
	_, err = f.conversations.Create(ctx, 2, "theirs")
	require.NoError(t, err)

	list, err := f.conversations.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mine", list[0].Title)

	got, err := f.conversations.Get(ctx, 2, mine.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// touching someone else's conversation is a no-op
	require.NoError(t, f.conversations.Touch(ctx, 2, mine.ID))
	got, err = f.conversations.Get(ctx, 1, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.UpdatedAt.Unix(), got.UpdatedAt.Unix())
}
