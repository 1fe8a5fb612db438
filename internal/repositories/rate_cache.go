package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

// RateCacheRepository keeps the last rate table per provider in Redis
type RateCacheRepository struct {
	client *redis.Client
	exp    time.Duration // key expiration; freshness is still judged by FetchedAt
}

// NewRateCacheRepository creates a new repository instance with the given key TTL
func NewRateCacheRepository(client *redis.Client, expiration time.Duration) *RateCacheRepository {
	return &RateCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func rateCacheKey(p models.Provider) string {
	return fmt.Sprintf("rates:%s", p)
}

// Get returns the cached entry for a provider, or nil if there is none
func (r *RateCacheRepository) Get(ctx context.Context, p models.Provider) (*models.RateCacheEntry, error) {
	key := rateCacheKey(p)

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			logger.Log.Debugw("rate cache miss", "key", key)
			return nil, nil
		}
		logger.Log.Errorw("rate cache read failed", "key", key, "error", err)
		return nil, err
	}

	var entry models.RateCacheEntry
	if err := json.Unmarshal(val, &entry); err != nil {
		logger.Log.Errorw("rate cache entry is corrupt", "key", key, "error", err)
		return nil, err
	}

	logger.Log.Debugw("rate cache hit",
		"key", key,
		"quotes", len(entry.Table),
		"fetched_at", entry.FetchedAt,
	)
	return &entry, nil
}

// Set replaces the cached entry for entry.Provider
func (r *RateCacheRepository) Set(ctx context.Context, entry models.RateCacheEntry) error {
	key := rateCacheKey(entry.Provider)

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow("rate cache updated",
		"key", key,
		"quotes", len(entry.Table),
		"error", err,
	)

	return err
}

// RateMemoryCache keeps the last rate table per provider in process memory.
// At most one entry per provider exists, so nothing is ever evicted.
type RateMemoryCache struct {
	mu      sync.RWMutex
	entries map[models.Provider]models.RateCacheEntry
}

// NewRateMemoryCache creates an empty in-memory rate cache
func NewRateMemoryCache() *RateMemoryCache {
	return &RateMemoryCache{entries: make(map[models.Provider]models.RateCacheEntry)}
}

// Get returns the cached entry for a provider, or nil if there is none
func (c *RateMemoryCache) Get(_ context.Context, p models.Provider) (*models.RateCacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[p]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Set replaces the cached entry for entry.Provider
func (c *RateMemoryCache) Set(_ context.Context, entry models.RateCacheEntry) error {
	c.mu.Lock()
	c.entries[entry.Provider] = entry
	c.mu.Unlock()
	return nil
}
