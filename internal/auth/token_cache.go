package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix = "auth:token:"
	tokenTTL       = 5 * time.Minute
)

// TokenCache remembers which user holds a bearer token, in Redis.
type TokenCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTokenCache returns a new token cache.
func NewTokenCache(rdb *redis.Client, ttl time.Duration) *TokenCache {
	if ttl <= 0 {
		ttl = tokenTTL
	}
	return &TokenCache{rdb: rdb, ttl: ttl}
}

// Lookup returns the cached user id for token. ok is false on a miss.
func (c *TokenCache) Lookup(ctx context.Context, token string) (userID int64, ok bool, err error) {
	s, err := c.rdb.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return id, true, nil
}

// Remember stores the token owner.
func (c *TokenCache) Remember(ctx context.Context, token string, userID int64) error {
	return c.rdb.Set(ctx, tokenKey(token), strconv.FormatInt(userID, 10), c.ttl).Err()
}

func tokenKey(token string) string {
	return tokenKeyPrefix + token
}
