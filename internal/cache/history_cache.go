package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"redrose-ai/internal/model"
)

// HistoryCache keeps the ordered message list of one conversation. Keys carry
// the owner id so a cached list is never served to another user. A dirty
// marker, set around every write, keeps readers from caching a list that was
// loaded before the write landed.
type HistoryCache struct {
	client         *redisv9.Client
	historyTTL     time.Duration
	dirtyMarkerTTL time.Duration
}

func NewHistoryCache(client *redisv9.Client, historyTTL, dirtyMarkerTTL time.Duration) *HistoryCache {
	if historyTTL <= 0 {
		historyTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &HistoryCache{
		client:         client,
		historyTTL:     historyTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *HistoryCache) GetHistory(ctx context.Context, userID, conversationID uint) ([]model.Message, bool, error) {
	raw, err := c.client.Get(ctx, historyKey(userID, conversationID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get history failed: %w", err)
	}

	var messages []model.Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached history failed: %w", err)
	}
	return messages, true, nil
}

func (c *HistoryCache) SetHistory(ctx context.Context, userID, conversationID uint, messages []model.Message) error {
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal history cache failed: %w", err)
	}

	// the write is skipped while a dirty marker exists, and aborted if one
	// appears between the check and the set
	dirty := dirtyKey(userID, conversationID)
	err = c.client.Watch(ctx, func(tx *redisv9.Tx) error {
		exists, err := tx.Exists(ctx, dirty).Result()
		if err != nil {
			return err
		}
		if exists > 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
			pipe.Set(ctx, historyKey(userID, conversationID), payload, c.historyTTL)
			return nil
		})
		return err
	}, dirty)
	if errors.Is(err, redisv9.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis set history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) DeleteHistory(ctx context.Context, userID, conversationID uint) error {
	if err := c.client.Del(ctx, historyKey(userID, conversationID)).Err(); err != nil {
		return fmt.Errorf("redis delete history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) MarkDirty(ctx context.Context, userID, conversationID uint) error {
	if err := c.client.Set(ctx, dirtyKey(userID, conversationID), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) IsDirty(ctx context.Context, userID, conversationID uint) (bool, error) {
	exists, err := c.client.Exists(ctx, dirtyKey(userID, conversationID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func historyKey(userID, conversationID uint) string {
	return fmt.Sprintf("chat:history:%d:%d", userID, conversationID)
}

func dirtyKey(userID, conversationID uint) string {
	return fmt.Sprintf("chat:history:dirty:%d:%d", userID, conversationID)
}
