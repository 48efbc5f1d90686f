package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/mastour-id/mastour-server/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	Register(ctx context.Context, req types.RegisterRequest) (uuid.UUID, error)
	ValidateCredentials(ctx context.Context, email, password string) (*types.TravelerProfile, error)
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, expiresAt time.Time) (string, error)
	ConsumeRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.TravelerProfile, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresAuthRepo(pgxpool *pgxpool.Pool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pgxpool,
	}
}

// Register inserts a new traveler with a hashed password.
func (r *PostgresAuthRepo) Register(ctx context.Context, req types.RegisterRequest) (uuid.UUID, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
        INSERT INTO users (username, email, password, name, phone_number, gender, birth_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
	var id uuid.UUID
	err = r.pgpool.QueryRow(ctx, query,
		req.Username, req.Email, string(hashed), req.Name, req.PhoneNumber, req.Gender, req.BirthDate,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, types.ErrConflict
		}
		return uuid.Nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

// ValidateCredentials checks email/password and returns the matching profile.
func (r *PostgresAuthRepo) ValidateCredentials(ctx context.Context, email, password string) (*types.TravelerProfile, error) {
	query := `
        SELECT id, username, email, password, name, phone_number, gender, birth_date, picture, answers, personality, created_at, updated_at
        FROM users WHERE email = $1`
	var p types.TravelerProfile
	err := r.pgpool.QueryRow(ctx, query, email).Scan(
		&p.ID, &p.Username, &p.Email, &p.Password, &p.Name, &p.PhoneNumber,
		&p.Gender, &p.BirthDate, &p.Picture, &p.Answers, &p.Personality,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(password)); err != nil {
		return nil, types.ErrUnauthenticated
	}
	return &p, nil
}

// CreateRefreshToken stores a new refresh token for the user.
func (r *PostgresAuthRepo) CreateRefreshToken(ctx context.Context, userID uuid.UUID, expiresAt time.Time) (string, error) {
	query := `
        INSERT INTO refresh_tokens (user_id, expires_at)
        VALUES ($1, $2)
        RETURNING token`
	var token uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query, userID, expiresAt.UnixMilli()).Scan(&token); err != nil {
		return "", fmt.Errorf("failed to create refresh token: %w", err)
	}
	return token.String(), nil
}

// ConsumeRefreshToken validates a refresh token and rotates it out.
func (r *PostgresAuthRepo) ConsumeRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	tokenID, err := uuid.Parse(token)
	if err != nil {
		return uuid.Nil, types.ErrUnauthenticated
	}

	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        UPDATE refresh_tokens
        SET revoked = true
        WHERE token = $1 AND NOT revoked AND expires_at > $2
        RETURNING user_id`
	var userID uuid.UUID
	err = tx.QueryRow(ctx, query, tokenID, time.Now().UnixMilli()).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, types.ErrUnauthenticated
		}
		return uuid.Nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return userID, nil
}

// RevokeRefreshToken invalidates a refresh token at logout.
func (r *PostgresAuthRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	tokenID, err := uuid.Parse(token)
	if err != nil {
		return types.ErrUnauthenticated
	}
	_, err = r.pgpool.Exec(ctx, `UPDATE refresh_tokens SET revoked = true WHERE token = $1`, tokenID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.TravelerProfile, error) {
	query := `
        SELECT id, username, email, password, name, phone_number, gender, birth_date, picture, answers, personality, created_at, updated_at
        FROM users WHERE id = $1`
	var p types.TravelerProfile
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.Username, &p.Email, &p.Password, &p.Name, &p.PhoneNumber,
		&p.Gender, &p.BirthDate, &p.Picture, &p.Answers, &p.Personality,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &p, nil
}
