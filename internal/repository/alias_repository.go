package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/SergeiKhy/alias-shortener/internal/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrAliasExists = errors.New("alias already exists")

const aliasesTable = "aliases"

type AliasRepository interface {
	// FindByAlias возвращает nil, nil если алиаса нет
	FindByAlias(ctx context.Context, alias string) (*models.Alias, error)
	// Insert сохраняет запись, проставляет и возвращает ID.
	// ErrAliasExists если алиас отклонил уникальный индекс.
	Insert(ctx context.Context, record *models.Alias) (int64, error)
	Ping(ctx context.Context) error
}

type aliasRepository struct {
	db *PostgresDB
	sb squirrel.StatementBuilderType
}

func NewAliasRepository(db *PostgresDB) AliasRepository {
	return &aliasRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *aliasRepository) FindByAlias(ctx context.Context, alias string) (*models.Alias, error) {
	query, args, err := r.sb.
		Select("id", "alias", "original_url", "created_at").
		From(aliasesTable).
		Where(squirrel.Eq{"alias": alias}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	record := &models.Alias{}
	err = r.db.Pool.QueryRow(ctx, query, args...).Scan(
		&record.ID,
		&record.Alias,
		&record.OriginalURL,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find alias: %w", err)
	}

	return record, nil
}

func (r *aliasRepository) Insert(ctx context.Context, record *models.Alias) (int64, error) {
	query, args, err := r.sb.
		Insert(aliasesTable).
		Columns("alias", "original_url", "created_at").
		Values(record.Alias, record.OriginalURL, record.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	if err := r.db.Pool.QueryRow(ctx, query, args...).Scan(&record.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, ErrAliasExists
		}
		return 0, fmt.Errorf("failed to insert alias: %w", err)
	}

	return record.ID, nil
}

func (r *aliasRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
