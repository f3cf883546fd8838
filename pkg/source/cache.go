package source

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/leowmjw/go-temporal-chartview/pkg/timeline"
)

// CachedLoader serves a series from Redis and fills the cache from the
// wrapped loader on a miss. Cache failures never fail the load.
type CachedLoader struct {
	next   Loader
	client redis.Cmdable
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedLoader wraps next with a Redis cache entry under key
func NewCachedLoader(next Loader, client redis.Cmdable, key string, ttl time.Duration, logger *slog.Logger) *CachedLoader {
	return &CachedLoader{
		next:   next,
		client: client,
		key:    key,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedLoader) Load(ctx context.Context) (timeline.Series, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		var series timeline.Series
		if err := json.Unmarshal(data, &series); err == nil {
			c.logger.Debug("Series cache hit", "key", c.key, "points", len(series))
			return series, nil
		}
		c.logger.Warn("Discarding malformed cache entry", "key", c.key)
	case errors.Is(err, redis.Nil):
		c.logger.Debug("Series cache miss", "key", c.key)
	default:
		c.logger.Warn("Series cache read failed", "key", c.key, "error", err)
	}

	series, err := c.next.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return series, nil
	}

	payload, err := json.Marshal(series)
	if err != nil {
		c.logger.Warn("Failed to encode series for cache", "key", c.key, "error", err)
		return series, nil
	}
	if err := c.client.Set(ctx, c.key, string(payload), c.ttl).Err(); err != nil {
		c.logger.Warn("Series cache write failed", "key", c.key, "error", err)
	}
	return series, nil
}
