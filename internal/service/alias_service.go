package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/SergeiKhy/alias-shortener/internal/models"
	"github.com/SergeiKhy/alias-shortener/internal/reachability"
	"github.com/SergeiKhy/alias-shortener/internal/repository"
	"go.uber.org/zap"
)

const defaultCacheTTL = 24 * time.Hour

// AliasService интерфейс сервиса алиасов
type AliasService interface {
	CreateAlias(ctx context.Context, alias, originalURL string, createdAt time.Time) (*models.Alias, error)
	ResolveAlias(ctx context.Context, alias string) (*models.Alias, error)
	Ping(ctx context.Context) error
}

type aliasService struct {
	aliasRepo repository.AliasRepository
	cacheRepo repository.CacheRepository
	checker   reachability.Checker
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewAliasService создаёт сервис. cacheRepo может быть nil, тогда кэш не используется.
func NewAliasService(
	aliasRepo repository.AliasRepository,
	cacheRepo repository.CacheRepository,
	checker reachability.Checker,
	cacheTTL time.Duration,
	logger *zap.Logger,
) AliasService {
	if cacheRepo == nil {
		cacheRepo = repository.NopCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &aliasService{
		aliasRepo: aliasRepo,
		cacheRepo: cacheRepo,
		checker:   checker,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// CreateAlias проверяет входные данные и сохраняет новый алиас.
// Шаги выполняются строго по порядку, первая ошибка прерывает создание.
func (s *aliasService) CreateAlias(ctx context.Context, alias, originalURL string, createdAt time.Time) (*models.Alias, error) {
	if alias == "" || originalURL == "" {
		return nil, newError(KindValidation, MsgRequired, nil)
	}
	// Алиас занимает один сегмент пути, иначе редирект его не найдёт
	if strings.Contains(alias, "/") {
		return nil, newError(KindValidation, MsgInvalidAlias, nil)
	}

	if err := validateURL(originalURL); err != nil {
		s.logger.Warn("Invalid URL", zap.String("url", originalURL), zap.Error(err))
		return nil, newError(KindValidation, MsgInvalidURL, err)
	}

	if !s.checker.IsAcceptable(ctx, originalURL) {
		s.logger.Warn("URL is not reachable", zap.String("url", originalURL))
		return nil, newError(KindValidation, MsgUnreachable, nil)
	}

	if err := s.aliasRepo.Ping(ctx); err != nil {
		s.logger.Error("Database connection failed", zap.Error(err))
		return nil, newError(KindStore, MsgConnectionFailed, err)
	}

	existing, err := s.aliasRepo.FindByAlias(ctx, alias)
	if err != nil {
		s.logger.Error("Failed to look up alias", zap.String("alias", alias), zap.Error(err))
		return nil, newError(KindStore, MsgQueryFailed, err)
	}
	if existing != nil {
		return nil, newError(KindConflict, MsgAliasTaken, nil)
	}

	record := &models.Alias{
		Alias:       alias,
		OriginalURL: originalURL,
		CreatedAt:   createdAt,
	}

	// Уникальный индекс закрывает гонку между проверкой и вставкой
	if _, err := s.aliasRepo.Insert(ctx, record); err != nil {
		if errors.Is(err, repository.ErrAliasExists) {
			return nil, newError(KindConflict, MsgAliasTaken, err)
		}
		s.logger.Error("Failed to insert alias", zap.String("alias", alias), zap.Error(err))
		return nil, newError(KindStore, MsgInsertFailed, err)
	}

	s.cache(ctx, record)

	s.logger.Info("Alias created",
		zap.String("alias", record.Alias),
		zap.Int64("id", record.ID),
	)

	return record, nil
}

// ResolveAlias ищет алиас сначала в кэше, затем в БД. Ничего не изменяет.
func (s *aliasService) ResolveAlias(ctx context.Context, alias string) (*models.Alias, error) {
	record, err := s.cacheRepo.Get(ctx, alias)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Debug("Cache lookup failed", zap.String("alias", alias), zap.Error(err))
	}

	record, err = s.aliasRepo.FindByAlias(ctx, alias)
	if err != nil {
		s.logger.Error("Failed to resolve alias", zap.String("alias", alias), zap.Error(err))
		return nil, newError(KindStore, MsgQueryFailed, err)
	}
	if record == nil {
		return nil, newError(KindNotFound, MsgAliasNotFound, nil)
	}

	s.cache(ctx, record)

	return record, nil
}

func (s *aliasService) Ping(ctx context.Context) error {
	return s.aliasRepo.Ping(ctx)
}

// cache ошибки кэша не прерывают запрос
func (s *aliasService) cache(ctx context.Context, record *models.Alias) {
	if err := s.cacheRepo.Set(ctx, record, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache alias", zap.String("alias", record.Alias), zap.Error(err))
	}
}

// validateURL требует абсолютный URL со схемой и хостом
func validateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New("url must be absolute")
	}
	return nil
}
