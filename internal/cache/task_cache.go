// Package cache keeps a short-lived redis copy of each owner's task list
// so /view-task does not hit sqlite on every poll. The database stays the
// source of truth; any cache failure degrades to a database read.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"

	"taskdeck/internal/api/models"
)

var tracer = otel.Tracer("cache.task")

const defaultTTL = 30 * time.Second

// TaskCache caches serialized task lists keyed by owner. A nil *TaskCache
// is valid and behaves as a cache that always misses, which is how the
// service runs when redis is unavailable.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache creates a redis-backed TaskCache.
func NewTaskCache(rdb *redis.Client) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: defaultTTL}
}

func key(owner string) string {
	return fmt.Sprintf("tasks:%s", owner)
}

// Get returns the cached task list for owner, or ok=false on a miss.
func (c *TaskCache) Get(ctx context.Context, owner string) ([]models.Task, bool) {
	if c == nil {
		return nil, false
	}
	ctx, span := tracer.Start(ctx, "TaskCache.Get")
	defer span.End()

	data, err := c.rdb.Get(ctx, key(owner)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("task cache read failed", "owner", owner, "err", err)
		return nil, false
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		slog.Warn("task cache entry corrupt, dropping", "owner", owner, "err", err)
		c.rdb.Del(ctx, key(owner))
		return nil, false
	}
	return tasks, true
}

// Set stores the owner's task list with the cache TTL.
func (c *TaskCache) Set(ctx context.Context, owner string, tasks []models.Task) {
	if c == nil {
		return
	}
	ctx, span := tracer.Start(ctx, "TaskCache.Set")
	defer span.End()

	data, err := json.Marshal(tasks)
	if err != nil {
		slog.Warn("task cache marshal failed", "owner", owner, "err", err)
		return
	}
	if err := c.rdb.Set(ctx, key(owner), data, c.ttl).Err(); err != nil {
		slog.Warn("task cache write failed", "owner", owner, "err", err)
	}
}

// Invalidate drops the owner's cached list. Called after every mutation.
func (c *TaskCache) Invalidate(ctx context.Context, owner string) {
	if c == nil {
		return
	}
	ctx, span := tracer.Start(ctx, "TaskCache.Invalidate")
	defer span.End()

	if err := c.rdb.Del(ctx, key(owner)).Err(); err != nil {
		slog.Warn("task cache invalidate failed", "owner", owner, "err", err)
	}
}
