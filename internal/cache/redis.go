package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"todolist/internal/config"
	"todolist/internal/metrics"
	"todolist/internal/models"
	"todolist/pkg/logger"
)

const todosCacheKey = "todos:all"

var (
	client *redis.Client
	once   sync.Once
)

// Client returns the global Redis client (initialized on first use). Nil when REDIS_URL is unset or unreachable.
func Client(ctx context.Context) *redis.Client {
	once.Do(func() {
		cfg := config.Get()
		if !cfg.CacheEnabled() {
			logger.Info(ctx, "List cache disabled (no REDIS_URL)")
			return
		}
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error(ctx, "Invalid REDIS_URL", "error", err)
			return
		}
		opts.PoolSize = cfg.RedisPoolSize
		c := redis.NewClient(opts)
		if err := c.Ping(ctx).Err(); err != nil {
			logger.Error(ctx, "Redis ping failed", "error", err)
			_ = c.Close()
			return
		}
		client = c
		logger.Info(ctx, "Redis client initialized", "pool_size", cfg.RedisPoolSize)
	})
	return client
}

// TodoCache stores the full, ordered todo list under one key.
// Every failure is logged and reported as a miss; the store stays the source of truth.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// GetTodos reads the todos list from Redis. Returns (nil, false) on miss or error.
func (c *TodoCache) GetTodos(ctx context.Context) ([]models.Todo, bool) {
	b, err := c.rdb.Get(ctx, todosCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get todos failed", "error", err)
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	var todos []models.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		logger.Debug(ctx, "Redis unmarshal todos failed", "error", err)
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return todos, true
}

// SetTodos writes the todos list to Redis with the configured TTL.
func (c *TodoCache) SetTodos(ctx context.Context, todos []models.Todo) {
	b, err := json.Marshal(todos)
	if err != nil {
		logger.Debug(ctx, "Marshal todos for cache failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, todosCacheKey, b, c.ttl).Err(); err != nil {
		logger.Debug(ctx, "Redis set todos failed", "error", err)
	}
}

// InvalidateTodos deletes the todos cache key so the next read goes to the store.
func (c *TodoCache) InvalidateTodos(ctx context.Context) {
	if err := c.rdb.Del(ctx, todosCacheKey).Err(); err != nil {
		logger.Warn(ctx, "Redis invalidate todos failed", "error", err)
	}
}

// Ping reports whether Redis is reachable.
func (c *TodoCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}
