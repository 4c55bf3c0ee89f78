package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"devtracker/internal/domain"
)

const (
	slotKeyPrefix        = "slots:"
	anonymousVersionKey  = slotKeyPrefix + "version:" + domain.AnonymousPrefix
	ownerVersionTemplate = slotKeyPrefix + "version:%s"
)

// SlotCacheRedis keys entries by the owner's version counter and the shared
// anonymous counter. Invalidation bumps a counter so stale entries are never
// read again and expire by TTL.
type SlotCacheRedis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCacheRedis {
	return &SlotCacheRedis{client: client, ttl: ttl}
}

func (c *SlotCacheRedis) Get(ctx context.Context, key string) ([]domain.Slot, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}

	var slots []domain.Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}

	return slots, true, nil
}

func (c *SlotCacheRedis) Set(ctx context.Context, key string, slots []domain.Slot) error {
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("encode slots: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	return nil
}

func (c *SlotCacheRedis) Invalidate(ctx context.Context, userID string) error {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, fmt.Sprintf(ownerVersionTemplate, userID))
	if domain.IsAnonymousUserID(userID) {
		pipe.Incr(ctx, anonymousVersionKey)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("invalidate slots for %s: %w", userID, err)
	}

	return nil
}

// Key reads the owner's and the anonymous version counters and builds the
// entry key from them.
func (c *SlotCacheRedis) Key(ctx context.Context, userID, date string, duration int) (string, error) {
	values, err := c.client.MGet(ctx, fmt.Sprintf(ownerVersionTemplate, userID), anonymousVersionKey).Result()
	if err != nil {
		return "", fmt.Errorf("read slot versions: %w", err)
	}

	return fmt.Sprintf("%s%s:v%s:%s:%s:%d",
		slotKeyPrefix, userID, version(values[0]), version(values[1]), date, duration), nil
}

func version(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "0"
}
