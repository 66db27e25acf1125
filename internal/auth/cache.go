package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache stores short-lived Keycloak service-account tokens.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, token string, ttl time.Duration) error
}

// CacheKey derives a fixed-size cache key from a realm URL and client id.
func CacheKey(realmURL, clientID string) string {
	hash := sha256.Sum256([]byte(realmURL + "\x00" + clientID))
	return "keycloak-token:" + hex.EncodeToString(hash[:])
}

type cacheEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryTokenCache is an in-process TokenCache. Expired entries are dropped
// on read and by a periodic sweep until Close is called.
type MemoryTokenCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryTokenCache creates a cache sweeping expired entries every
// cleanupInterval. A non-positive interval disables the sweep.
func NewMemoryTokenCache(cleanupInterval time.Duration) *MemoryTokenCache {
	c := &MemoryTokenCache{
		store: make(map[string]cacheEntry),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.cleanupLoop(cleanupInterval)
	}
	return c
}

// Get returns a cached token if present and not expired.
func (c *MemoryTokenCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || !c.now().Before(entry.expiresAt) {
		return "", false
	}
	return entry.token, true
}

// Set stores token for ttl.
func (c *MemoryTokenCache) Set(_ context.Context, key, token string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = cacheEntry{token: token, expiresAt: c.now().Add(ttl)}
	return nil
}

// Close stops the background sweep.
func (c *MemoryTokenCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *MemoryTokenCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *MemoryTokenCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.store {
		if !now.Before(entry.expiresAt) {
			delete(c.store, key)
		}
	}
}

// RedisTokenCache shares tokens between service replicas through Redis.
type RedisTokenCache struct {
	client *redis.Client
}

// NewRedisTokenCache creates a cache backed by the Redis server at addr.
func NewRedisTokenCache(addr, password string, db int) *RedisTokenCache {
	return &RedisTokenCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Get returns a cached token. Redis errors are treated as a miss.
func (r *RedisTokenCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores token with a Redis expiry of ttl.
func (r *RedisTokenCache) Set(ctx context.Context, key, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}
	return r.client.Set(ctx, key, token, ttl).Err()
}

// Ping checks connectivity to Redis.
func (r *RedisTokenCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (r *RedisTokenCache) Close() error {
	return r.client.Close()
}
