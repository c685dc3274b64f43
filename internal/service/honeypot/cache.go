package honeypot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"scamtrap/internal/models"
	"scamtrap/internal/redis"
)

const (
	cacheStateTTL = 30 * time.Minute
	turnLockTTL   = 2 * time.Minute
)

// stateCache keeps redis snapshots of conversations and their ordered
// histories, plus the cross-instance turn lock. All methods are
// nil-safe; without redis the service falls back to the database and
// the in-process guard.
type stateCache struct {
	client *redis.Client
}

func newStateCache(client *redis.Client) *stateCache {
	return &stateCache{client: client}
}

func (c *stateCache) cacheConversation(conv *models.Conversation) {
	if c == nil || c.client == nil || conv == nil || conv.ID == "" {
		return
	}
	ctx := context.Background()
	data, err := json.Marshal(conv)
	if err != nil {
		log.Printf("honeypot rdb conversation marshal failed: %v", err)
		return
	}
	key := fmt.Sprintf("honeypot:conversation:%s", conv.ID)
	if err := c.client.Set(ctx, key, data, cacheStateTTL); err != nil {
		log.Printf("honeypot rdb conversation failed: %v", err)
	}
}

func (c *stateCache) cacheHistory(conversationID string, history []*models.Message) {
	if c == nil || c.client == nil || conversationID == "" {
		return
	}
	ctx := context.Background()
	data, err := json.Marshal(history)
	if err != nil {
		log.Printf("honeypot rdb history marshal failed: %v", err)
		return
	}
	key := fmt.Sprintf("honeypot:history:%s", conversationID)
	if err := c.client.Set(ctx, key, data, cacheStateTTL); err != nil {
		log.Printf("honeypot rdb history failed: %v", err)
	}
}

func (c *stateCache) loadHistory(conversationID string) ([]*models.Message, bool) {
	if c == nil || c.client == nil || conversationID == "" {
		return nil, false
	}
	ctx := context.Background()
	key := fmt.Sprintf("honeypot:history:%s", conversationID)
	raw, err := c.client.Get(ctx, key)
	if err != nil {
		if err != redis.ErrCacheMiss {
			log.Printf("honeypot load history rdb failed: %v", err)
		}
		return nil, false
	}
	var history []*models.Message
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		log.Printf("honeypot decode history rdb failed: %v", err)
		return nil, false
	}
	return history, true
}

// invalidate drops the cached snapshots. A stale history would feed
// the next turn an incomplete replay, so a failed delete is retried
// once before giving up.
func (c *stateCache) invalidate(conversationID string) {
	if c == nil || c.client == nil || conversationID == "" {
		return
	}
	ctx := context.Background()
	convKey := fmt.Sprintf("honeypot:conversation:%s", conversationID)
	historyKey := fmt.Sprintf("honeypot:history:%s", conversationID)
	err := c.client.Del(ctx, convKey, historyKey)
	if err == nil || err == redis.ErrCacheMiss {
		return
	}
	log.Printf("honeypot invalidate rdb failed, retrying: %v", err)
	if err := c.client.Del(ctx, convKey, historyKey); err != nil && err != redis.ErrCacheMiss {
		log.Printf("honeypot invalidate rdb retry failed: %v", err)
	}
}

// tryLockTurn takes the cross-instance single-slot turn lock. Without
// redis (or when redis misbehaves) it reports success and leaves
// exclusion to the in-process guard.
func (c *stateCache) tryLockTurn(conversationID string) bool {
	if c == nil || c.client == nil || conversationID == "" {
		return true
	}
	key := fmt.Sprintf("honeypot:turn:%s", conversationID)
	ok, err := c.client.SetNX(context.Background(), key, 1, turnLockTTL)
	if err != nil {
		log.Printf("honeypot turn lock rdb failed: %v", err)
		return true
	}
	return ok
}

func (c *stateCache) unlockTurn(conversationID string) {
	if c == nil || c.client == nil || conversationID == "" {
		return
	}
	key := fmt.Sprintf("honeypot:turn:%s", conversationID)
	if err := c.client.Del(context.Background(), key); err != nil && err != redis.ErrCacheMiss {
		log.Printf("honeypot turn unlock rdb failed: %v", err)
	}
}
