package place

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

var _ Repository = (*PostgresPlaceRepository)(nil)

type Repository interface {
	GetPlaces(ctx context.Context, params types.ReadManyParams) ([]types.Place, types.PaginationInfo, error)
	GetPlace(ctx context.Context, placeID uuid.UUID) (*types.Place, error)
}

type PostgresPlaceRepository struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresPlaceRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresPlaceRepository {
	return &PostgresPlaceRepository{
		logger: logger,
		pgpool: pgxpool,
	}
}

var placeColumns = []string{"id", "name", "created_at", "updated_at"}

func (r *PostgresPlaceRepository) GetPlaces(ctx context.Context, params types.ReadManyParams) ([]types.Place, types.PaginationInfo, error) {
	params, err := list.Normalize(params, placeColumns, "name")
	if err != nil {
		return nil, types.PaginationInfo{}, err
	}

	where, args := list.Filter(params, 1)
	countQuery := `SELECT COUNT(*) FROM places`
	query := `SELECT id, name, picture, created_at, updated_at FROM places`
	if where != "" {
		countQuery += " WHERE " + where
		query += " WHERE " + where
	}
	query += " " + list.OrderAndPage(params)

	var total int
	if err := r.pgpool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, types.PaginationInfo{}, fmt.Errorf("failed to count places: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, types.PaginationInfo{}, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()

	places := make([]types.Place, 0)
	for rows.Next() {
		var p types.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Picture, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, types.PaginationInfo{}, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, types.PaginationInfo{}, fmt.Errorf("error iterating places: %w", err)
	}
	return places, list.Pagination(total, params.Size), nil
}

func (r *PostgresPlaceRepository) GetPlace(ctx context.Context, placeID uuid.UUID) (*types.Place, error) {
	var p types.Place
	err := r.pgpool.QueryRow(ctx,
		`SELECT id, name, picture, created_at, updated_at FROM places WHERE id = $1`, placeID,
	).Scan(&p.ID, &p.Name, &p.Picture, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query place: %w", err)
	}
	return &p, nil
}
