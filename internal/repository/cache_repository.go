package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SergeiKhy/alias-shortener/internal/models"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// CacheRepository кэширует записи по алиасу. Записи неизменяемы,
// поэтому инвалидация не нужна.
type CacheRepository interface {
	Get(ctx context.Context, alias string) (*models.Alias, error)
	Set(ctx context.Context, record *models.Alias, ttl time.Duration) error
}

type cacheRepository struct {
	redis *RedisDB
}

func NewCacheRepository(redis *RedisDB) CacheRepository {
	return &cacheRepository{redis: redis}
}

func (r *cacheRepository) Get(ctx context.Context, alias string) (*models.Alias, error) {
	data, err := r.redis.Client.Get(ctx, r.key(alias)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cached alias: %w", err)
	}

	var record models.Alias
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alias: %w", err)
	}

	return &record, nil
}

func (r *cacheRepository) Set(ctx context.Context, record *models.Alias, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal alias: %w", err)
	}

	return r.redis.Client.Set(ctx, r.key(record.Alias), data, ttl).Err()
}

func (r *cacheRepository) key(alias string) string {
	return "alias:" + alias
}

// NopCache используется, когда Redis не настроен
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*models.Alias, error) {
	return nil, ErrCacheMiss
}

func (NopCache) Set(context.Context, *models.Alias, time.Duration) error {
	return nil
}
