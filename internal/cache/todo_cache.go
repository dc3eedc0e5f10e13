package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	dom "github.com/nicolaskelepuris/refactor-rails-app/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyList = "todo:list:"
	keyGen  = "todo:gen:"
)

// TodoCache caches each user's stored todos in Redis. It holds rows only;
// status is derived by the reader at query time.
//
// Lists are keyed by a per-user generation. Writes bump the generation, so a
// list read from the store before a write can only land under a key nobody
// reads any more.
type TodoCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTodoCache returns a new TodoCache.
func NewTodoCache(rdb *redis.Client, ttl time.Duration) *TodoCache {
	return &TodoCache{rdb: rdb, ttl: ttl}
}

// Generation returns the current list generation for userID. Zero when unset.
func (c *TodoCache) Generation(ctx context.Context, userID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// GetList returns the list cached for userID at gen, or nil on a miss.
func (c *TodoCache) GetList(ctx context.Context, userID, gen int64) ([]dom.Todo, error) {
	b, err := c.rdb.Get(ctx, listKey(userID, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeList(b)
}

// SetList stores the list for userID under gen.
func (c *TodoCache) SetList(ctx context.Context, userID, gen int64, list []dom.Todo) error {
	b, err := encodeList(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID, gen), b, c.ttl).Err()
}

// Invalidate moves userID to a new generation. Lists cached under older
// generations are never read again and expire with their TTL.
func (c *TodoCache) Invalidate(ctx context.Context, userID int64) error {
	return c.rdb.Incr(ctx, genKey(userID)).Err()
}

func listKey(userID, gen int64) string {
	return keyList + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(gen, 10)
}

func genKey(userID int64) string {
	return keyGen + strconv.FormatInt(userID, 10)
}

func encodeList(list []dom.Todo) ([]byte, error) {
	if list == nil {
		list = []dom.Todo{}
	}
	return json.Marshal(list)
}

func decodeList(b []byte) ([]dom.Todo, error) {
	list := []dom.Todo{}
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}
