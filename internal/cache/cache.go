package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/catatanku/backend/internal/config"
	"github.com/catatanku/backend/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache is a read-through cache for interaction counters. All methods are
// nil-receiver safe so the app degrades to direct reads when Redis is down.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(cfg *config.Config) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis unavailable, counter cache disabled", "error", err)
		return nil
	}

	return &Cache{rdb: rdb, ttl: cfg.CounterTTL}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func counterKey(noteID uuid.UUID) string {
	return fmt.Sprintf("note:counter:%s", noteID)
}

func (c *Cache) GetCounter(ctx context.Context, noteID uuid.UUID) (*models.NoteInteractionCounter, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, counterKey(noteID)).Bytes()
	if err != nil {
		return nil, false
	}

	var counter models.NoteInteractionCounter
	if err := json.Unmarshal(raw, &counter); err != nil {
		return nil, false
	}
	return &counter, true
}

func (c *Cache) SetCounter(ctx context.Context, counter *models.NoteInteractionCounter) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(counter)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, counterKey(counter.NoteID), raw, c.ttl).Err(); err != nil {
		slog.Warn("Failed to cache counter", "note_id", counter.NoteID, "error", err)
	}
}

// InvalidateCounter drops the cached entry after a toggle so the next read
// sees the committed totals.
func (c *Cache) InvalidateCounter(ctx context.Context, noteID uuid.UUID) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, counterKey(noteID)).Err(); err != nil {
		slog.Warn("Failed to invalidate counter cache", "note_id", noteID, "error", err)
	}
}
