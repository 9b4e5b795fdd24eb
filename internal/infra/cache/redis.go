package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/asynclab-dev/unkey/internal/domain/keys"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when no verification result is stored for a key.
var ErrCacheMiss = errors.New("cache miss")

// ResultCache stores verification results keyed by a hash of the raw
// credential. Raw keys must never be used as cache keys.
type ResultCache interface {
	Get(ctx context.Context, keyHash string) (*keys.VerificationResult, error)
	Set(ctx context.Context, keyHash string, result *keys.VerificationResult, ttl time.Duration) error
}

type redisCache struct {
	client *redis.Client
}

func NewRedisClient(url string, poolSize int) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	opt.PoolSize = poolSize

	client := redis.NewClient(opt)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewResultCache(client *redis.Client) ResultCache {
	return &redisCache{client: client}
}

func cacheKey(keyHash string) string {
	return fmt.Sprintf("authz:rootkey:%s", keyHash)
}

func (r *redisCache) Get(ctx context.Context, keyHash string) (*keys.VerificationResult, error) {
	val, err := r.client.Get(ctx, cacheKey(keyHash)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var result keys.VerificationResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}

	return &result, nil
}

func (r *redisCache) Set(ctx context.Context, keyHash string, result *keys.VerificationResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal verification result: %w", err)
	}

	if err := r.client.Set(ctx, cacheKey(keyHash), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set redis cache: %w", err)
	}

	return nil
}
