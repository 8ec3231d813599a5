package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("key not found")

// CacheService stores raw provider payloads in redis as JSON.
type CacheService struct {
	client *redis.Client
	prefix string
}

func NewCacheService(client *redis.Client, prefix string) *CacheService {
	return &CacheService{
		client: client,
		prefix: prefix,
	}
}

// NewRedisClient parses a redis:// URL and checks the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (s *CacheService) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, s.key(key), data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

func (s *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	val, err := s.client.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cache existence: %w", err)
	}
	return val > 0, nil
}

// Ping reports whether redis is reachable, for the health endpoint.
func (s *CacheService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

// SharedCacheKeys are the payloads common to every entry.
func SharedCacheKeys() []string {
	return []string{"fpl:/bootstrap-static/", "fpl:/fixtures/", "odds:fixtures"}
}

func EntryCacheKey(entryID int) string {
	return fmt.Sprintf("fpl:/entry/%d/", entryID)
}

func PicksCacheKey(entryID, gameweek int) string {
	return fmt.Sprintf("fpl:/entry/%d/event/%d/picks/", entryID, gameweek)
}
