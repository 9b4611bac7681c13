package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"burgerreview/internal/model"
)

const (
	chainsKey  = "catalog:chains"
	burgersKey = "catalog:burgers"
)

// setIfCurrent stores the listing only while its generation counter still
// holds the value the reader saw before querying the database.
var setIfCurrent = redisv9.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// ListingCache holds read-through copies of the chain, burger and per-burger
// review listings.
//
// Every listing has a generation counter. Readers take the generation before
// loading from the database and pass it to Set; writers bump it on
// Invalidate. A fill that raced with a write is therefore dropped instead of
// caching the pre-write listing.
type ListingCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewListingCache(client *redisv9.Client, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ListingCache{client: client, ttl: ttl}
}

func (c *ListingCache) GetChains(ctx context.Context) ([]model.Chain, bool, error) {
	var chains []model.Chain
	ok, err := c.get(ctx, chainsKey, &chains)
	return chains, ok, err
}

func (c *ListingCache) ChainsVersion(ctx context.Context) (int64, error) {
	return c.version(ctx, chainsKey)
}

func (c *ListingCache) SetChains(ctx context.Context, version int64, chains []model.Chain) error {
	return c.set(ctx, chainsKey, version, chains)
}

func (c *ListingCache) InvalidateChains(ctx context.Context) error {
	return c.invalidate(ctx, chainsKey)
}

func (c *ListingCache) GetBurgers(ctx context.Context) ([]model.Burger, bool, error) {
	var burgers []model.Burger
	ok, err := c.get(ctx, burgersKey, &burgers)
	return burgers, ok, err
}

func (c *ListingCache) BurgersVersion(ctx context.Context) (int64, error) {
	return c.version(ctx, burgersKey)
}

func (c *ListingCache) SetBurgers(ctx context.Context, version int64, burgers []model.Burger) error {
	return c.set(ctx, burgersKey, version, burgers)
}

func (c *ListingCache) InvalidateBurgers(ctx context.Context) error {
	return c.invalidate(ctx, burgersKey)
}

func (c *ListingCache) GetReviews(ctx context.Context, burgerID uint) ([]model.Review, bool, error) {
	var reviews []model.Review
	ok, err := c.get(ctx, reviewsKey(burgerID), &reviews)
	return reviews, ok, err
}

func (c *ListingCache) ReviewsVersion(ctx context.Context, burgerID uint) (int64, error) {
	return c.version(ctx, reviewsKey(burgerID))
}

func (c *ListingCache) SetReviews(ctx context.Context, burgerID uint, version int64, reviews []model.Review) error {
	return c.set(ctx, reviewsKey(burgerID), version, reviews)
}

func (c *ListingCache) InvalidateReviews(ctx context.Context, burgerID uint) error {
	return c.invalidate(ctx, reviewsKey(burgerID))
}

func (c *ListingCache) get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s failed: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("unmarshal cached %s failed: %w", key, err)
	}
	return true, nil
}

func (c *ListingCache) version(ctx context.Context, key string) (int64, error) {
	v, err := c.client.Get(ctx, generationKey(key)).Int64()
	if errors.Is(err, redisv9.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s generation failed: %w", key, err)
	}
	return v, nil
}

func (c *ListingCache) set(ctx context.Context, key string, version int64, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s cache failed: %w", key, err)
	}
	err = setIfCurrent.Run(ctx, c.client,
		[]string{generationKey(key), key},
		version, payload, c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("redis set %s failed: %w", key, err)
	}
	return nil
}

func (c *ListingCache) invalidate(ctx context.Context, key string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
		pipe.Incr(ctx, generationKey(key))
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate %s failed: %w", key, err)
	}
	return nil
}

func generationKey(key string) string {
	return key + ":gen"
}

func reviewsKey(burgerID uint) string {
	return fmt.Sprintf("catalog:burger:%d:reviews", burgerID)
}
