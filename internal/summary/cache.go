package summary

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "summary:"

// Cache is a read-through Redis cache in front of another Fetcher. Redis
// failures are logged and bypassed; they never fail a fetch.
type Cache struct {
	rdb    *redis.Client
	next   Fetcher
	ttl    time.Duration
	logger *slog.Logger
}

func NewCache(logger *slog.Logger, rdb *redis.Client, next Fetcher, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, next: next, ttl: ttl, logger: logger}
}

func (c *Cache) FetchSummary(ctx context.Context, pageURL string) (Summary, error) {
	key := cacheKeyPrefix + pageURL

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var s Summary
		if jerr := json.Unmarshal(data, &s); jerr == nil {
			return s, nil
		}
		c.logger.Warn("discarding corrupt cached summary", "key", key)
	case errors.Is(err, redis.Nil):
		// miss
	default:
		c.logger.Warn("summary cache read failed", "key", key, "error", err)
	}

	s, err := c.next.FetchSummary(ctx, pageURL)
	if err != nil {
		return Summary{}, err
	}

	data, err = json.Marshal(s)
	if err == nil {
		err = c.rdb.Set(ctx, key, data, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("summary cache write failed", "key", key, "error", err)
	}
	return s, nil
}
