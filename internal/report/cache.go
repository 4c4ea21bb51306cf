package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const genKey = "classtrack:report:gen"

// Cache stores rendered report payloads in redis under a generation-stamped
// key. Every attendance write bumps the generation, which orphans all cached
// entries at once; the TTL reclaims them.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache creates a cache. ttl bounds how long an entry may outlive its
// generation.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) key(ctx context.Context, name string) (string, error) {
	gen, err := c.rdb.Get(ctx, genKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("classtrack:report:%d:%s", gen, name), nil
}

// Get unmarshals a cached payload into dest, reporting whether it was found.
func (c *Cache) Get(ctx context.Context, name string, dest any) (bool, error) {
	key, err := c.key(ctx, name)
	if err != nil {
		return false, err
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, json.Unmarshal(raw, dest)
}

// Set stores a payload under the current generation.
func (c *Cache) Set(ctx context.Context, name string, v any) error {
	key, err := c.key(ctx, name)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

// Invalidate bumps the generation, detaching every cached report.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, genKey).Err()
}
