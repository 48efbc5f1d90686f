package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mastour-id/mastour-server/internal/api/list"
	"github.com/mastour-id/mastour-server/internal/types"
)

var _ Repository = (*PostgresCategoryRepository)(nil)

type Repository interface {
	GetCategories(ctx context.Context, params types.ReadManyParams) ([]types.Category, types.PaginationInfo, error)
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*types.Category, error)
}

type PostgresCategoryRepository struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresCategoryRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{
		logger: logger,
		pgpool: pgxpool,
	}
}

var categoryColumns = []string{"id", "name", "slug", "created_at", "updated_at"}

func (r *PostgresCategoryRepository) GetCategories(ctx context.Context, params types.ReadManyParams) ([]types.Category, types.PaginationInfo, error) {
	params, err := list.Normalize(params, categoryColumns, "slug")
	if err != nil {
		return nil, types.PaginationInfo{}, err
	}

	where, args := list.Filter(params, 1)
	countQuery := `SELECT COUNT(*) FROM categories`
	query := `SELECT id, name, slug, picture, created_at, updated_at FROM categories`
	if where != "" {
		countQuery += " WHERE " + where
		query += " WHERE " + where
	}
	query += " " + list.OrderAndPage(params)

	var total int
	if err := r.pgpool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, types.PaginationInfo{}, fmt.Errorf("failed to count categories: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, types.PaginationInfo{}, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]types.Category, 0)
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Picture, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, types.PaginationInfo{}, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, types.PaginationInfo{}, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, list.Pagination(total, params.Size), nil
}

func (r *PostgresCategoryRepository) GetCategory(ctx context.Context, categoryID uuid.UUID) (*types.Category, error) {
	var c types.Category
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, name, slug, picture, created_at, updated_at FROM categories WHERE id = $1`, categoryID,
	).Scan(&c.ID, &c.Name, &c.Slug, &c.Picture, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &c, nil
}
