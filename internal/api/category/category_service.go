package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/mastour-id/mastour-server/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetCategories(ctx context.Context, params types.ReadManyParams) ([]types.Category, types.PaginationInfo, error)
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*types.Category, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Cache
}

func NewCategoryService(repo Repository, c *cache.Cache, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  c,
	}
}

func (s *ServiceImpl) GetCategories(ctx context.Context, params types.ReadManyParams) ([]types.Category, types.PaginationInfo, error) {
	ctx, span := otel.Tracer("CategoryService").Start(ctx, "GetCategories")
	defer span.End()

	categories, pagination, err := s.repo.GetCategories(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list categories")
		return nil, types.PaginationInfo{}, fmt.Errorf("error listing categories: %w", err)
	}
	span.SetStatus(codes.Ok, "Categories listed")
	return categories, pagination, nil
}

func (s *ServiceImpl) GetCategory(ctx context.Context, categoryID uuid.UUID) (*types.Category, error) {
	ctx, span := otel.Tracer("CategoryService").Start(ctx, "GetCategory")
	defer span.End()

	cacheKey := "category:" + categoryID.String()
	if cached, found := s.cache.Get(cacheKey); found {
		if c, ok := cached.(*types.Category); ok {
			span.SetStatus(codes.Ok, "Category served from cache")
			return c, nil
		}
	}

	c, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch category")
		return nil, fmt.Errorf("error fetching category: %w", err)
	}

	s.cache.Set(cacheKey, c, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "Category fetched")
	return c, nil
}
