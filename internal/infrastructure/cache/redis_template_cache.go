package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	applogbook "github.com/kitchenops/backend/internal/application/logbook"
	"github.com/redis/go-redis/v9"
)

const defaultTemplateCacheTTL = 10 * time.Minute

// RedisTemplateCache caches template read models in Redis. Entries are
// invalidated by the template event stream and expire on TTL as a backstop.
type RedisTemplateCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisTemplateCache creates a new Redis-backed template cache
func NewRedisTemplateCache(client *redis.Client, ttl time.Duration) *RedisTemplateCache {
	if ttl <= 0 {
		ttl = defaultTemplateCacheTTL
	}
	return &RedisTemplateCache{
		client:    client,
		keyPrefix: "template:",
		ttl:       ttl,
	}
}

// Get returns the cached template response, or (nil, nil) on a miss
func (c *RedisTemplateCache) Get(ctx context.Context, id uuid.UUID) (*applogbook.TemplateResponse, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read template cache: %w", err)
	}

	var resp applogbook.TemplateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it
		return nil, nil
	}
	return &resp, nil
}

// Set stores a template response with the configured TTL
func (c *RedisTemplateCache) Set(ctx context.Context, resp *applogbook.TemplateResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal template for cache: %w", err)
	}
	return c.client.Set(ctx, c.keyPrefix+resp.ID.String(), data, c.ttl).Err()
}

// Invalidate drops the cached entry for a template
func (c *RedisTemplateCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, c.keyPrefix+id.String()).Err()
}

// Ensure RedisTemplateCache implements the application cache interface
var _ applogbook.TemplateCache = (*RedisTemplateCache)(nil)
