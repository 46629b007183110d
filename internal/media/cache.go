package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"wedding-site/internal/cache"
)

// CachedLister serves listings from the key/value cache when present.
// Cache failures never fail a listing.
type CachedLister struct {
	next Lister
	kv   cache.KV
	ttl  time.Duration
	log  zerolog.Logger
}

func NewCachedLister(next Lister, kv cache.KV, ttl time.Duration, log zerolog.Logger) *CachedLister {
	return &CachedLister{next: next, kv: kv, ttl: ttl, log: log.With().Str("component", "media-cache").Logger()}
}

func listKey(prefix string, max int) string {
	return fmt.Sprintf("media:list:%s:%d", prefix, max)
}

func (c *CachedLister) List(ctx context.Context, prefix string, max int) ([]Resource, error) {
	key := listKey(prefix, max)

	raw, err := c.kv.Get(ctx, key)
	switch {
	case err == nil:
		var res []Resource
		if jerr := json.Unmarshal([]byte(raw), &res); jerr == nil {
			return res, nil
		}
		c.log.Warn().Str("key", key).Msg("Discarding unreadable cache entry")
	case !errors.Is(err, cache.ErrMiss):
		c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}

	res, err := c.next.List(ctx, prefix, max)
	if err != nil {
		return nil, err
	}

	if data, jerr := json.Marshal(res); jerr == nil {
		if err := c.kv.Set(ctx, key, string(data), c.ttl); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		}
	}
	return res, nil
}
