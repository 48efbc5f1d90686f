package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mastour-id/mastour-server/internal/types"
)

var _ Repository = (*PostgresProfileRepository)(nil)

type Repository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.TravelerProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.TravelerProfile, error)
}

type PostgresProfileRepository struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresProfileRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresProfileRepository {
	return &PostgresProfileRepository{
		logger: logger,
		pgpool: pgxpool,
	}
}

const profileColumns = `id, username, email, password, name, phone_number, gender, birth_date, picture, answers, personality, created_at, updated_at`

func scanProfile(row pgx.Row) (*types.TravelerProfile, error) {
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

func (r *PostgresProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*types.TravelerProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, profileColumns)
	return scanProfile(r.pgpool.QueryRow(ctx, query, userID))
}

// UpdateProfile applies only the provided fields. Answers and personality
// never pass through here.
func (r *PostgresProfileRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.TravelerProfile, error) {
	sets := []string{"updated_at = (EXTRACT(EPOCH FROM NOW()) * 1000)"}
	args := []any{userID}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if params.Username != nil {
		addSet("username", *params.Username)
	}
	if params.Email != nil {
		addSet("email", *params.Email)
	}
	if params.Name != nil {
		addSet("name", *params.Name)
	}
	if params.PhoneNumber != nil {
		addSet("phone_number", *params.PhoneNumber)
	}
	if params.Gender != nil {
		addSet("gender", *params.Gender)
	}
	if params.BirthDate != nil {
		addSet("birth_date", *params.BirthDate)
	}
	if params.Picture != nil {
		addSet("picture", *params.Picture)
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), profileColumns)

	p, err := scanProfile(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, types.ErrConflict
		}
		return nil, err
	}
	return p, nil
}
