package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/mastour-id/mastour-server/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.TravelerProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.TravelerProfile, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewProfileService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*types.TravelerProfile, error) {
	ctx, span := otel.Tracer("ProfileService").Start(ctx, "GetProfile")
	defer span.End()

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch profile")
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}
	span.SetStatus(codes.Ok, "Profile fetched")
	return profile, nil
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.TravelerProfile, error) {
	ctx, span := otel.Tracer("ProfileService").Start(ctx, "UpdateProfile")
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID.String()))

	if params.Gender != nil && *params.Gender != types.GenderMale && *params.Gender != types.GenderFemale {
		return nil, fmt.Errorf("%w: gender must be male or female", types.ErrBadRequest)
	}

	profile, err := s.repo.UpdateProfile(ctx, userID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update profile")
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	l.InfoContext(ctx, "Profile updated successfully")
	span.SetStatus(codes.Ok, "Profile updated")
	return profile, nil
}
