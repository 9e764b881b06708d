// Package cache stores tailoring results keyed by prompt hash.
// L1 is an in-process map; L2 is an optional Redis instance shared between replicas.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Options configures a Cache.
type Options struct {
	RedisURL   string
	TTL        time.Duration
	MaxEntries int
}

// Cache implements L1 (memory) + L2 (Redis) caching of JSON-encodable values.
type Cache struct {
	l1         sync.Map // key -> *entry
	rdb        *redis.Client
	ttl        time.Duration
	maxEntries int
	logger     *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// New creates a cache. An empty or unreachable RedisURL disables L2.
func New(ctx context.Context, opts Options, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}

	c := &Cache{ttl: opts.TTL, maxEntries: opts.MaxEntries, logger: logger}

	if opts.RedisURL != "" {
		redisOpts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			logger.Warn("cache: invalid redis URL, L2 disabled", zap.Error(err))
		} else {
			rdb := redis.NewClient(redisOpts)
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := rdb.Ping(pingCtx).Err(); err != nil {
				logger.Warn("cache: redis unreachable, L2 disabled", zap.Error(err))
				_ = rdb.Close()
			} else {
				c.rdb = rdb
				logger.Info("cache: L2 redis connected", zap.String("addr", redisOpts.Addr))
			}
		}
	}

	logger.Info("cache: initialized",
		zap.Duration("ttl", c.ttl),
		zap.Bool("redis", c.rdb != nil),
		zap.Int("max_entries", c.maxEntries),
	)
	return c
}

// Key builds a deterministic cache key from parts.
func Key(parts ...string) string {
	joined := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("jt:%x", hash[:16])
}

// Get decodes the cached value for key into dst. It tries L1, then L2,
// populating L1 on an L2 hit.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	if c == nil {
		return false
	}

	if val, ok := c.l1.Load(key); ok {
		e := val.(*entry)
		if time.Now().Before(e.expiresAt) && json.Unmarshal(e.data, dst) == nil {
			c.hits.Add(1)
			return true
		}
		c.l1.Delete(key) // expired or corrupt
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil && json.Unmarshal(data, dst) == nil {
			c.hits.Add(1)
			c.l1.Store(key, &entry{data: data, expiresAt: time.Now().Add(c.ttl)})
			return true
		}
	}

	c.misses.Add(1)
	return false
}

// Set stores value in both tiers. Encoding or L2 failures are logged and dropped.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Debug("cache: encode failed", zap.Error(err))
		return
	}

	c.evictIfNeeded()
	c.l1.Store(key, &entry{data: data, expiresAt: time.Now().Add(c.ttl)})

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Debug("cache: L2 set failed", zap.Error(err))
		}
	}
}

// Stats returns hit/miss counters.
func (c *Cache) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}

// Close releases the Redis client, if any.
func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// evictIfNeeded keeps L1 below maxEntries: expired entries go first,
// then the entries closest to expiry.
func (c *Cache) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}

	count := 0
	c.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count < c.maxEntries {
		return
	}

	now := time.Now()
	c.l1.Range(func(key, val any) bool {
		if e, ok := val.(*entry); ok && now.After(e.expiresAt) {
			c.l1.Delete(key)
			count--
		}
		return count >= c.maxEntries
	})

	for count >= c.maxEntries {
		var oldestKey any
		var oldestAt time.Time
		c.l1.Range(func(key, val any) bool {
			if e, ok := val.(*entry); ok {
				if oldestKey == nil || e.expiresAt.Before(oldestAt) {
					oldestKey = key
					oldestAt = e.expiresAt
				}
			}
			return true
		})
		if oldestKey == nil {
			return
		}
		c.l1.Delete(oldestKey)
		count--
	}
}
