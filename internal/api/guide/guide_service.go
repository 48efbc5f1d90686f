package guide

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
	GetGuides(ctx context.Context, cityID uuid.UUID, params types.ReadManyParams) ([]types.GuideDetail, types.PaginationInfo, error)
	GetGuide(ctx context.Context, guideID uuid.UUID) (*types.GuideDetail, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	repo     Repository
	detailer Detailer
}

func NewGuideService(repo Repository, detailer Detailer, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		repo:     repo,
		detailer: detailer,
	}
}

func (s *ServiceImpl) GetGuides(ctx context.Context, cityID uuid.UUID, params types.ReadManyParams) ([]types.GuideDetail, types.PaginationInfo, error) {
	ctx, span := otel.Tracer("GuideService").Start(ctx, "GetGuides")
	defer span.End()

	guides, pagination, err := s.repo.GetGuides(ctx, cityID, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list guides")
		return nil, types.PaginationInfo{}, fmt.Errorf("error listing guides: %w", err)
	}
	span.SetStatus(codes.Ok, "Guides listed")
	return guides, pagination, nil
}

func (s *ServiceImpl) GetGuide(ctx context.Context, guideID uuid.UUID) (*types.GuideDetail, error) {
	ctx, span := otel.Tracer("GuideService").Start(ctx, "GetGuide")
	defer span.End()

	detail, err := s.detailer.GetGuideDetail(ctx, guideID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch guide")
		return nil, fmt.Errorf("error fetching guide: %w", err)
	}
	span.SetStatus(codes.Ok, "Guide fetched")
	return detail, nil
}
