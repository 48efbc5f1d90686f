package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mastour-id/mastour-server/internal/types"
)

// PgxPool is the slice of pgxpool.Pool the repository uses; narrowed so
// tests can substitute a mock pool.
type PgxPool interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ PgxPool = (*pgxpool.Pool)(nil)

var _ Repository = (*PostgresMatchmakingRepository)(nil)

// Repository is the persistence surface the matchmaking service needs.
type Repository interface {
	GetTravelerProfile(ctx context.Context, userID uuid.UUID) (*types.TravelerProfile, error)
	UpdateSurveyResult(ctx context.Context, userID uuid.UUID, answers []int, personality int) (*types.TravelerProfile, error)
	GetOrderedCategoryIDs(ctx context.Context) ([]uuid.UUID, error)
	GetCandidateGuides(ctx context.Context, cityID uuid.UUID) ([]types.CandidateGuide, error)
	GetGuideDetail(ctx context.Context, guideID uuid.UUID) (*types.GuideDetail, error)
}

type PostgresMatchmakingRepository struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewPostgresMatchmakingRepository(pgxpool PgxPool, logger *slog.Logger) *PostgresMatchmakingRepository {
	return &PostgresMatchmakingRepository{
		logger: logger,
		pgpool: pgxpool,
	}
}

const travelerColumns = `id, username, email, password, name, phone_number, gender, birth_date, picture, answers, personality, created_at, updated_at`

func scanTraveler(row pgx.Row) (*types.TravelerProfile, error) {
	var p types.TravelerProfile
	err := row.Scan(
		&p.ID, &p.Username, &p.Email, &p.Password, &p.Name, &p.PhoneNumber,
		&p.Gender, &p.BirthDate, &p.Picture, &p.Answers, &p.Personality,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan traveler profile: %w", err)
	}
	return &p, nil
}

func (r *PostgresMatchmakingRepository) GetTravelerProfile(ctx context.Context, userID uuid.UUID) (*types.TravelerProfile, error) {
	query := `SELECT ` + travelerColumns + ` FROM users WHERE id = $1`
	return scanTraveler(r.pgpool.QueryRow(ctx, query, userID))
}

// UpdateSurveyResult persists the answers and the classified personality in
// one transaction; a failed classification never reaches this method.
func (r *PostgresMatchmakingRepository) UpdateSurveyResult(ctx context.Context, userID uuid.UUID, answers []int, personality int) (*types.TravelerProfile, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        UPDATE users
        SET answers = $2, personality = $3, updated_at = $4
        WHERE id = $1
        RETURNING ` + travelerColumns
	profile, err := scanTraveler(tx.QueryRow(ctx, query, userID, answers, personality, time.Now().UnixMilli()))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return profile, nil
}

// GetOrderedCategoryIDs returns every category id in canonical (slug) order.
// The order fixes the layout of the category block in feature vectors.
func (r *PostgresMatchmakingRepository) GetOrderedCategoryIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pgpool.Query(ctx, `SELECT id FROM categories ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return ids, nil
}

// GetCandidateGuides loads every guide in the city together with the fields
// needed to encode them. Guides whose owners never completed the survey
// cannot be encoded and are excluded up front.
func (r *PostgresMatchmakingRepository) GetCandidateGuides(ctx context.Context, cityID uuid.UUID) ([]types.CandidateGuide, error) {
	query := `
        SELECT g.id, g.user_id, u.gender, u.birth_date, u.personality,
               COALESCE(array_agg(gc.category_id) FILTER (WHERE gc.category_id IS NOT NULL), '{}')
        FROM guides g
        JOIN users u ON u.id = g.user_id
        LEFT JOIN guide_categories gc ON gc.guide_id = g.id
        WHERE g.city_id = $1 AND u.personality IS NOT NULL
        GROUP BY g.id, g.user_id, u.gender, u.birth_date, u.personality
        ORDER BY g.id`
	rows, err := r.pgpool.Query(ctx, query, cityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate guides: %w", err)
	}
	defer rows.Close()

	var candidates []types.CandidateGuide
	for rows.Next() {
		var c types.CandidateGuide
		if err := rows.Scan(&c.GuideID, &c.UserID, &c.Gender, &c.BirthDate, &c.Personality, &c.CategoryIDs); err != nil {
			return nil, fmt.Errorf("failed to scan candidate guide: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidate guides: %w", err)
	}
	return candidates, nil
}

// GetGuideDetail fetches the full display record for one selected guide.
func (r *PostgresMatchmakingRepository) GetGuideDetail(ctx context.Context, guideID uuid.UUID) (*types.GuideDetail, error) {
	query := `
        SELECT g.id, g.user_id, g.city_id, g.detail_picture, g.description, g.price_per_day,
               g.created_at, g.updated_at,
               u.name, u.picture, u.gender, u.birth_date,
               c.name
        FROM guides g
        JOIN users u ON u.id = g.user_id
        JOIN cities c ON c.id = g.city_id
        WHERE g.id = $1`

	var d types.GuideDetail
	var birthDate int64
	err := r.pgpool.QueryRow(ctx, query, guideID).Scan(
		&d.ID, &d.UserID, &d.CityID, &d.DetailPicture, &d.Description, &d.PricePerDay,
		&d.CreatedAt, &d.UpdatedAt,
		&d.Name, &d.Picture, &d.Gender, &birthDate,
		&d.City,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find guide %s: %w", guideID, err)
	}
	d.Age = ageFromBirthDate(birthDate, time.Now())

	categories, err := r.guideCategories(ctx, guideID)
	if err != nil {
		return nil, err
	}
	d.Categories = categories

	places, err := r.guideTopPlaces(ctx, guideID)
	if err != nil {
		return nil, err
	}
	d.TopPlaces = places

	return &d, nil
}

func (r *PostgresMatchmakingRepository) guideCategories(ctx context.Context, guideID uuid.UUID) ([]types.Category, error) {
	query := `
        SELECT c.id, c.name, c.slug, c.picture, c.created_at, c.updated_at
        FROM guide_categories gc
        JOIN categories c ON c.id = gc.category_id
        WHERE gc.guide_id = $1
        ORDER BY c.slug`
	rows, err := r.pgpool.Query(ctx, query, guideID)
	if err != nil {
		return nil, fmt.Errorf("failed to query guide categories: %w", err)
	}
	defer rows.Close()

	categories := []types.Category{}
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Picture, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan guide category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresMatchmakingRepository) guideTopPlaces(ctx context.Context, guideID uuid.UUID) ([]types.Place, error) {
	query := `
        SELECT p.id, p.name, p.picture, p.created_at, p.updated_at
        FROM guide_top_places gtp
        JOIN places p ON p.id = gtp.place_id
        WHERE gtp.guide_id = $1`
	rows, err := r.pgpool.Query(ctx, query, guideID)
	if err != nil {
		return nil, fmt.Errorf("failed to query guide top places: %w", err)
	}
	defer rows.Close()

	places := []types.Place{}
	for rows.Next() {
		var p types.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Picture, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan guide top place: %w", err)
		}
		places = append(places, p)
	}
	return places, rows.Err()
}
