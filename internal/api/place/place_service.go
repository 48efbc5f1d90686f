package place

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
	GetPlaces(ctx context.Context, params types.ReadManyParams) ([]types.Place, types.PaginationInfo, error)
	GetPlace(ctx context.Context, placeID uuid.UUID) (*types.Place, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewPlaceService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) GetPlaces(ctx context.Context, params types.ReadManyParams) ([]types.Place, types.PaginationInfo, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "GetPlaces")
	defer span.End()

	places, pagination, err := s.repo.GetPlaces(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list places")
		return nil, types.PaginationInfo{}, fmt.Errorf("error listing places: %w", err)
	}
	span.SetStatus(codes.Ok, "Places listed")
	return places, pagination, nil
}

func (s *ServiceImpl) GetPlace(ctx context.Context, placeID uuid.UUID) (*types.Place, error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "GetPlace")
	defer span.End()

	p, err := s.repo.GetPlace(ctx, placeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch place")
		return nil, fmt.Errorf("error fetching place: %w", err)
	}
	span.SetStatus(codes.Ok, "Place fetched")
	return p, nil
}
