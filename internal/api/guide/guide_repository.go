package guide

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mastour-id/mastour-server/internal/api/list"
	"github.com/mastour-id/mastour-server/internal/types"
)

var _ Repository = (*PostgresGuideRepository)(nil)

type Repository interface {
	GetGuides(ctx context.Context, cityID uuid.UUID, params types.ReadManyParams) ([]types.GuideDetail, types.PaginationInfo, error)
}

// Detailer loads the full display record for one guide. The matchmaking
// repository already implements this for ranked results; the guide endpoints
// reuse it rather than keeping a second copy of the query.
type Detailer interface {
	GetGuideDetail(ctx context.Context, guideID uuid.UUID) (*types.GuideDetail, error)
}

type PostgresGuideRepository struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresGuideRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresGuideRepository {
	return &PostgresGuideRepository{
		logger: logger,
		pgpool: pgxpool,
	}
}

// Listing columns refer to the joined row, so the allowlist carries the
// table prefixes the query uses.
var guideColumns = []string{"u.name", "c.name", "g.price_per_day", "g.created_at", "g.updated_at"}

// GetGuides lists the guides of one city (or all cities when cityID is nil)
// with the owner's public profile attached. Categories and top places are
// left to the detail endpoint.
func (r *PostgresGuideRepository) GetGuides(ctx context.Context, cityID uuid.UUID, params types.ReadManyParams) ([]types.GuideDetail, types.PaginationInfo, error) {
	params, err := list.Normalize(params, guideColumns, "u.name")
	if err != nil {
		return nil, types.PaginationInfo{}, err
	}

	base := `
        FROM guides g
        JOIN users u ON u.id = g.user_id
        JOIN cities c ON c.id = g.city_id`

	var conditions []string
	var args []any
	if cityID != uuid.Nil {
		args = append(args, cityID)
		conditions = append(conditions, fmt.Sprintf("g.city_id = $%d", len(args)))
	}
	if where, filterArgs := list.Filter(params, len(args)+1); where != "" {
		args = append(args, filterArgs...)
		conditions = append(conditions, where)
	}
	for i, cond := range conditions {
		if i == 0 {
			base += " WHERE " + cond
		} else {
			base += " AND " + cond
		}
	}

	var total int
	if err := r.pgpool.QueryRow(ctx, "SELECT COUNT(*) "+base, args...).Scan(&total); err != nil {
		return nil, types.PaginationInfo{}, fmt.Errorf("failed to count guides: %w", err)
	}

	query := `
        SELECT g.id, g.user_id, g.city_id, g.detail_picture, g.description, g.price_per_day,
               g.created_at, g.updated_at,
               u.name, u.picture, u.gender, u.birth_date,
               c.name` + base + " " + list.OrderAndPage(params)

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, types.PaginationInfo{}, fmt.Errorf("failed to query guides: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	guides := make([]types.GuideDetail, 0)
	for rows.Next() {
		var d types.GuideDetail
		var birthDate int64
		err := rows.Scan(
			&d.ID, &d.UserID, &d.CityID, &d.DetailPicture, &d.Description, &d.PricePerDay,
			&d.CreatedAt, &d.UpdatedAt,
			&d.Name, &d.Picture, &d.Gender, &birthDate,
			&d.City,
		)
		if err != nil {
			return nil, types.PaginationInfo{}, fmt.Errorf("failed to scan guide: %w", err)
		}
		d.Age = ageInYears(birthDate, now)
		d.Categories = []types.Category{}
		guides = append(guides, d)
	}
	if err := rows.Err(); err != nil {
		return nil, types.PaginationInfo{}, fmt.Errorf("error iterating guides: %w", err)
	}
	return guides, list.Pagination(total, params.Size), nil
}

func ageInYears(birthDate int64, now time.Time) int {
	birth := time.UnixMilli(birthDate)
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
