package city

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

var _ Repository = (*PostgresCityRepository)(nil)

type Repository interface {
	GetCities(ctx context.Context, params types.ReadManyParams) ([]types.City, types.PaginationInfo, error)
	GetCity(ctx context.Context, cityID uuid.UUID) (*types.City, error)
}

type PostgresCityRepository struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresCityRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresCityRepository {
	return &PostgresCityRepository{
		logger: logger,
		pgpool: pgxpool,
	}
}

var cityColumns = []string{"id", "name", "created_at", "updated_at"}

func (r *PostgresCityRepository) GetCities(ctx context.Context, params types.ReadManyParams) ([]types.City, types.PaginationInfo, error) {
	params, err := list.Normalize(params, cityColumns, "name")
	if err != nil {
		return nil, types.PaginationInfo{}, err
	}

	where, args := list.Filter(params, 1)
	countQuery := `SELECT COUNT(*) FROM cities`
	query := `SELECT id, name, picture, created_at, updated_at FROM cities`
	if where != "" {
		countQuery += " WHERE " + where
		query += " WHERE " + where
	}
	query += " " + list.OrderAndPage(params)

	var total int
	if err := r.pgpool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, types.PaginationInfo{}, fmt.Errorf("failed to count cities: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, types.PaginationInfo{}, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	cities := make([]types.City, 0)
	for rows.Next() {
		var c types.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Picture, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, types.PaginationInfo{}, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, types.PaginationInfo{}, fmt.Errorf("error iterating cities: %w", err)
	}
	return cities, list.Pagination(total, params.Size), nil
}

func (r *PostgresCityRepository) GetCity(ctx context.Context, cityID uuid.UUID) (*types.City, error) {
	var c types.City
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, name, picture, created_at, updated_at FROM cities WHERE id = $1`, cityID,
	).Scan(&c.ID, &c.Name, &c.Picture, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query city: %w", err)
	}
	return &c, nil
}
