package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dom "github.com/birlikkoshan/todo-tracker/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "todo:"

// TodoCache caches list pages per owner in Redis.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// ListKey renders a normalized query as a cache key suffix. Search is
// lowercased because matching is case-insensitive.
func ListKey(q dom.ListQuery) string {
	completed := "-"
	if q.Completed != nil {
		completed = fmt.Sprint(*q.Completed)
	}
	priority := "-"
	if q.Priority != nil {
		priority = string(*q.Priority)
	}
	return fmt.Sprintf("c=%s|p=%s|q=%s|sb=%s|so=%s|pg=%d|l=%d",
		completed, priority, strings.ToLower(q.Search), q.SortBy, q.SortOrder, q.Page, q.Limit)
}

func ownerPrefix(ownerID string) string { return keyPrefix + ownerID + ":" }

func versionKey(ownerID string) string { return ownerPrefix(ownerID) + "ver" }

func listKey(ownerID string, version int64, key string) string {
	return fmt.Sprintf("%slist:v%d:%s", ownerPrefix(ownerID), version, key)
}

// Version returns the owner's current list generation. Pages are stored
// under the generation they were read at, so a page read before a write
// can never be served once the write has bumped the generation.
func (c *TodoCache) Version(ctx context.Context, ownerID string) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey(ownerID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

// GetList returns the cached page and whether it was a hit.
func (c *TodoCache) GetList(ctx context.Context, ownerID string, version int64, key string) (dom.TodoPage, bool, error) {
	b, err := c.rdb.Get(ctx, listKey(ownerID, version, key)).Bytes()
	if err == redis.Nil {
		return dom.TodoPage{}, false, nil
	}
	if err != nil {
		return dom.TodoPage{}, false, err
	}
	var page dom.TodoPage
	if err := json.Unmarshal(b, &page); err != nil {
		return dom.TodoPage{}, false, err
	}
	return page, true, nil
}

// SetList stores a page read at the given generation.
func (c *TodoCache) SetList(ctx context.Context, ownerID string, version int64, key string, page dom.TodoPage) error {
	b, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(ownerID, version, key), b, c.ttl).Err()
}

// InvalidateOwner bumps the owner's generation and then drops the pages
// already cached. The generation key has no TTL: letting it expire would
// reset the counter and revive older pages.
func (c *TodoCache) InvalidateOwner(ctx context.Context, ownerID string) error {
	if err := c.rdb.Incr(ctx, versionKey(ownerID)).Err(); err != nil {
		return err
	}

	iter := c.rdb.Scan(ctx, 0, ownerPrefix(ownerID)+"list:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
