package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/mastour-id/mastour-server/config"
	"github.com/mastour-id/mastour-server/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract for authentication.
type AuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (*types.TokenResponse, error)
	RefreshSession(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	cfg    config.JWTConfig
}

func NewAuthService(repo AuthRepo, cfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		cfg:    cfg,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req types.RegisterRequest) (uuid.UUID, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()

	l := s.logger.With(slog.String("method", "Register"), slog.String("email", req.Email))
	l.DebugContext(ctx, "Registering traveler")

	id, err := s.repo.Register(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to register traveler", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to register traveler")
		return uuid.Nil, fmt.Errorf("error registering traveler: %w", err)
	}

	l.InfoContext(ctx, "Traveler registered successfully", slog.String("userID", id.String()))
	span.SetStatus(codes.Ok, "Traveler registered successfully")
	return id, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	l := s.logger.With(slog.String("method", "Login"), slog.String("email", email))

	profile, err := s.repo.ValidateCredentials(ctx, email, password)
	if err != nil {
		l.WarnContext(ctx, "Credential validation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Credential validation failed")
		return nil, fmt.Errorf("error validating credentials: %w", err)
	}

	tokens, err := s.issueTokens(ctx, profile)
	if err != nil {
		l.ErrorContext(ctx, "Failed to issue tokens", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue tokens")
		return nil, err
	}

	l.InfoContext(ctx, "Login successful", slog.String("userID", profile.ID.String()))
	span.SetStatus(codes.Ok, "Login successful")
	return tokens, nil
}

func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "RefreshSession")
	defer span.End()

	l := s.logger.With(slog.String("method", "RefreshSession"))

	userID, err := s.repo.ConsumeRefreshToken(ctx, refreshToken)
	if err != nil {
		l.WarnContext(ctx, "Refresh token rejected", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Refresh token rejected")
		return nil, fmt.Errorf("error refreshing session: %w", err)
	}

	profile, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to load user for refresh", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load user for refresh")
		return nil, fmt.Errorf("error refreshing session: %w", err)
	}

	tokens, err := s.issueTokens(ctx, profile)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to issue tokens")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Session refreshed")
	return tokens, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Logout")
	defer span.End()

	if err := s.repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to revoke refresh token")
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	span.SetStatus(codes.Ok, "Logged out")
	return nil
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, profile *types.TravelerProfile) (*types.TokenResponse, error) {
	now := time.Now()
	claims := types.Claims{
		UserID:   profile.ID.String(),
		Username: profile.Username,
		Email:    profile.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.ID.String(),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("error signing access token: %w", err)
	}

	refreshToken, err := s.repo.CreateRefreshToken(ctx, profile.ID, now.Add(s.cfg.RefreshTokenTTL))
	if err != nil {
		return nil, fmt.Errorf("error creating refresh token: %w", err)
	}

	return &types.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
