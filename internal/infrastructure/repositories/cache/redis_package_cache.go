package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/requpdate/internal/domain/entities"
	"github.com/rios0rios0/requpdate/internal/domain/repositories"
)

const (
	redisCacheName = "redis"
	redisKeyPrefix = "requpdate:package:"
)

// RedisPackageCache shares fetched packages between runs and machines.
type RedisPackageCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ repositories.PackageCache = (*RedisPackageCache)(nil)

// NewRedisPackageCache connects to the server described by settings.
func NewRedisPackageCache(settings entities.CacheSettings) *RedisPackageCache {
	//nolint:exhaustruct // only connection fields are configured
	client := redis.NewClient(&redis.Options{
		Addr:     settings.Address,
		Password: settings.Password,
		DB:       settings.DB,
	})
	return NewRedisPackageCacheWithClient(client, settings.TTL)
}

// NewRedisPackageCacheWithClient wraps an existing client.
func NewRedisPackageCacheWithClient(client *redis.Client, ttl time.Duration) *RedisPackageCache {
	return &RedisPackageCache{client: client, ttl: ttl}
}

func (c *RedisPackageCache) Name() string { return redisCacheName }

// Get treats every failure as a miss so a broken cache never blocks a lookup.
func (c *RedisPackageCache) Get(ctx context.Context, key string) (*entities.Package, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warnf("[cache] Redis lookup of %q failed: %v", key, err)
		}
		return nil, false
	}

	var pkg entities.Package
	if unmarshalErr := json.Unmarshal(data, &pkg); unmarshalErr != nil {
		logger.Warnf("[cache] Discarding corrupt entry %q: %v", key, unmarshalErr)
		return nil, false
	}
	return &pkg, true
}

func (c *RedisPackageCache) Set(ctx context.Context, key string, pkg *entities.Package, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	data, err := json.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("failed to encode package: %w", err)
	}
	if setErr := c.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); setErr != nil {
		return fmt.Errorf("failed to store %q in redis: %w", key, setErr)
	}
	return nil
}
