// Package cache is the stale-tolerant response cache in front of the
// global feed. Entries expire by TTL only; write paths never invalidate
// them, so a page may be up to one TTL out of date. That window is a
// deliberate product decision, not an oversight.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/internal/config"
	"inkwell/internal/dbmysql"
	"inkwell/internal/pagination"
)

const indexKeyPrefix = "feed:index:"

// CachedPage is one rendered page of the global feed.
type CachedPage struct {
	Posts []dbmysql.Post  `json:"posts"`
	Page  pagination.Page `json:"page"`
}

// PageCache is the contract the feed service caches through. Keys are page
// numbers only; the global feed is identical for every viewer.
type PageCache interface {
	GetPage(ctx context.Context, number int) (*CachedPage, bool, error)
	PutPage(ctx context.Context, number int, page *CachedPage) error
	Clear(ctx context.Context) error
}

func NewRedis(c *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr(),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedisPageCache stores JSON-marshalled feed pages under feed:index:<n>.
type RedisPageCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPageCache(client *redis.Client, ttl time.Duration) *RedisPageCache {
	return &RedisPageCache{client: client, ttl: ttl}
}

func (c *RedisPageCache) GetPage(ctx context.Context, number int) (*CachedPage, bool, error) {
	raw, err := c.client.Get(ctx, c.key(number)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var page CachedPage
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		return nil, false, err
	}
	return &page, true, nil
}

func (c *RedisPageCache) PutPage(ctx context.Context, number int, page *CachedPage) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(number), raw, c.ttl).Err()
}

// Clear drops every cached index page. Operational use only (tests,
// admin tooling); it is not wired to any write path.
func (c *RedisPageCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, indexKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *RedisPageCache) key(number int) string {
	return fmt.Sprintf("%s%d", indexKeyPrefix, number)
}
