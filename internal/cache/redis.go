// server/internal/cache/redis.go

// Package cache keeps camp listing responses in Redis. Entries are keyed by
// a generation number that every camp write bumps, so a listing computed
// before a write can never be served after it.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"medcamp-api-server/config"
	"medcamp-api-server/internal/campquery"
)

const (
	keyPrefix     = "camps:list:"
	generationKey = keyPrefix + "gen"
	defaultTTL    = 60 * time.Second
)

// NewClient connects to Redis and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// ListingCache stores serialized listing responses.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache builds the cache. Superseded generations are never
// deleted and age out through ttl, so a non-positive ttl falls back to a
// minute.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ListingCache{client: client, ttl: ttl}
}

// Generation returns the current listing generation. Callers read it before
// querying the store and build their key from it.
func (c *ListingCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	return gen, nil
}

// Get returns the cached body for key. A miss is (nil, false, nil).
func (c *ListingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get from cache: %w", err)
	}
	return body, true, nil
}

func (c *ListingCache) Set(ctx context.Context, key string, body []byte) error {
	if err := c.client.Set(ctx, key, body, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in cache: %w", err)
	}
	return nil
}

// Invalidate retires every cached listing by moving to a new generation.
// A Set racing with it lands under the old generation, which no later read
// asks for.
func (c *ListingCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("failed to bump cache generation: %w", err)
	}
	return nil
}

// Key derives the cache key for a listing request within generation gen.
// Parameters are normalized first so defaulted and explicit requests share
// an entry.
func Key(gen int64, p campquery.Params) string {
	p = p.Normalized()
	raw := fmt.Sprintf("%q|%q|%q|%q|%t|%q", p.Search, p.SortBy, p.Order, p.Limit, p.IsPopular(), p.OrganizerEmail)
	sum := sha256.Sum256([]byte(raw))
	return keyPrefix + strconv.FormatInt(gen, 10) + ":" + hex.EncodeToString(sum[:])
}
