package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SergeiKhy/alias-shortener/internal/config"
	"github.com/SergeiKhy/alias-shortener/internal/models"
	"github.com/SergeiKhy/alias-shortener/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres запускает контейнер PostgreSQL и применяет миграции
func setupPostgres(t *testing.T) *repository.PostgresDB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("aliases"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, repository.RunMigrations(dsn))
	// Повторный запуск не должен падать
	require.NoError(t, repository.RunMigrations(dsn))

	db, err := repository.NewPostgresDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return db
}

// TestIntegration_AliasRepository тестирует хранилище на реальном PostgreSQL
func TestIntegration_AliasRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	db := setupPostgres(t)
	repo := repository.NewAliasRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Ping(ctx))

	t.Run("вставка и поиск", func(t *testing.T) {
		createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		record := &models.Alias{Alias: "short", OriginalURL: "https://example.com/page", CreatedAt: createdAt}

		id, err := repo.Insert(ctx, record)
		require.NoError(t, err)
		assert.Positive(t, id)
		assert.Equal(t, id, record.ID)

		found, err := repo.FindByAlias(ctx, "short")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, id, found.ID)
		assert.Equal(t, "https://example.com/page", found.OriginalURL)
		assert.True(t, createdAt.Equal(found.CreatedAt))
	})

	t.Run("промах без ошибки", func(t *testing.T) {
		found, err := repo.FindByAlias(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("регистр учитывается", func(t *testing.T) {
		found, err := repo.FindByAlias(ctx, "SHORT")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("уникальный индекс", func(t *testing.T) {
		_, err := repo.Insert(ctx, &models.Alias{Alias: "short", OriginalURL: "https://other.example", CreatedAt: time.Now()})
		assert.ErrorIs(t, err, repository.ErrAliasExists)
	})

	t.Run("параллельная вставка одного алиаса", func(t *testing.T) {
		const workers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_, err := repo.Insert(ctx, &models.Alias{
					Alias:       "race",
					OriginalURL: fmt.Sprintf("https://example.com/%d", n),
					CreatedAt:   time.Now(),
				})
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					successes++
				} else if assert.ErrorIs(t, err, repository.ErrAliasExists) {
					conflicts++
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, workers-1, conflicts)
	})
}

// TestIntegration_CacheRepository тестирует кэш на реальном Redis
func TestIntegration_CacheRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционный тест в коротком режиме")
	}

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	redisDB, err := repository.NewRedisClient(ctx, config.RedisConfig{Addr: host + ":" + port.Port()})
	require.NoError(t, err)
	t.Cleanup(func() { redisDB.Close() })

	cache := repository.NewCacheRepository(redisDB)

	_, err = cache.Get(ctx, "short")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	record := &models.Alias{ID: 7, Alias: "short", OriginalURL: "https://example.com", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, cache.Set(ctx, record, time.Minute))

	cached, err := cache.Get(ctx, "short")
	require.NoError(t, err)
	assert.Equal(t, record.ID, cached.ID)
	assert.Equal(t, record.OriginalURL, cached.OriginalURL)
	assert.True(t, record.CreatedAt.Equal(cached.CreatedAt))

	ttl, err := redisDB.Client.TTL(ctx, "alias:short").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
}

func TestNopCache(t *testing.T) {
	var cache repository.CacheRepository = repository.NopCache{}
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &models.Alias{Alias: "a"}, time.Minute))
	_, err := cache.Get(ctx, "a")
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
}
