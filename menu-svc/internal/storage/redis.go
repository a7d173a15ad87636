package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"noirqr/menu-svc/internal/domain"
	"noirqr/menu-svc/internal/service"

	"github.com/redis/go-redis/v9"
)

type RedisMenuCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisMenuCache(client *redis.Client, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{Client: client, TTL: ttl}
}

func (c *RedisMenuCache) MenuKey(slug string) string {
	return "menu:" + slug
}

// GetMenu reports ok=false on a cache miss.
func (c *RedisMenuCache) GetMenu(ctx context.Context, slug string) ([]domain.MenuItem, bool, error) {
	raw, err := c.Client.Get(ctx, c.MenuKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []domain.MenuItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (c *RedisMenuCache) SetMenu(ctx context.Context, slug string, items []domain.MenuItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.MenuKey(slug), payload, c.TTL).Err()
}

func (c *RedisMenuCache) Invalidate(ctx context.Context, slugs ...string) error {
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if slug != "" {
			keys = append(keys, c.MenuKey(slug))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}

var _ service.MenuCache = (*RedisMenuCache)(nil)
