package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const revealFlagKey = "settings:wrapped_visible"

var ErrCacheMiss = errors.New("cache miss")

// RevealCacheRepo caches the reveal flag so the navbar check on every page
// does not hit postgres. The flag is tiny and tolerates short staleness, so
// a TTL plus explicit invalidation on toggle is enough.
type RevealCacheRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewRevealCacheRepo(client *goredis.Client, ttl time.Duration) *RevealCacheRepo {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RevealCacheRepo{client: client, ttl: ttl}
}

func (r *RevealCacheRepo) Get(ctx context.Context) (bool, error) {
	if r.client == nil {
		return false, ErrCacheMiss
	}

	value, err := r.client.Get(ctx, revealFlagKey).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, ErrCacheMiss
		}
		return false, fmt.Errorf("get reveal flag: %w", err)
	}

	return value == "true", nil
}

func (r *RevealCacheRepo) Set(ctx context.Context, visible bool) error {
	if r.client == nil {
		return nil
	}

	value := "false"
	if visible {
		value = "true"
	}
	if err := r.client.Set(ctx, revealFlagKey, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("set reveal flag: %w", err)
	}

	return nil
}

func (r *RevealCacheRepo) Invalidate(ctx context.Context) error {
	if r.client == nil {
		return nil
	}

	if err := r.client.Del(ctx, revealFlagKey).Err(); err != nil {
		return fmt.Errorf("invalidate reveal flag: %w", err)
	}

	return nil
}
