package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SergeiKhy/alias-shortener/internal/config"
	"github.com/SergeiKhy/alias-shortener/internal/handler"
	"github.com/SergeiKhy/alias-shortener/internal/reachability"
	"github.com/SergeiKhy/alias-shortener/internal/repository"
	"github.com/SergeiKhy/alias-shortener/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Загрузка конфига
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Миграции и подключение к БД (postgres)
	if err := repository.RunMigrations(cfg.DB.URL); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	db, err := repository.NewPostgresDB(ctx, cfg.DB.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	// Подключение к Redis, если настроен
	var cacheRepo repository.CacheRepository = repository.NopCache{}
	if cfg.Redis.Addr != "" {
		redis, err := repository.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redis.Close()
		cacheRepo = repository.NewCacheRepository(redis)
		logger.Info("Connected to Redis", zap.Duration("ttl", cfg.Redis.TTL))
	} else {
		logger.Info("Redis is not configured, alias cache disabled")
	}

	aliasRepo := repository.NewAliasRepository(db)
	checker := reachability.NewHTTPChecker(cfg.Probe.Timeout, logger)
	aliasService := service.NewAliasService(aliasRepo, cacheRepo, checker, cfg.Redis.TTL, logger)

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(aliasService, cfg.App.BaseURL, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск в горутине
	go func() {
		logger.Info("Server starting",
			zap.String("port", cfg.App.Port),
			zap.String("base_url", cfg.App.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}
