package city

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
	GetCities(ctx context.Context, params types.ReadManyParams) ([]types.City, types.PaginationInfo, error)
	GetCity(ctx context.Context, cityID uuid.UUID) (*types.City, error)
}

// ServiceImpl serves cities with a short-lived in-memory cache on single
// lookups. Cities change rarely; listing stays uncached because the search
// and pagination combinations don't repeat enough to be worth keying.
type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Cache
}

func NewCityService(repo Repository, c *cache.Cache, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  c,
	}
}

func (s *ServiceImpl) GetCities(ctx context.Context, params types.ReadManyParams) ([]types.City, types.PaginationInfo, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetCities")
	defer span.End()

	cities, pagination, err := s.repo.GetCities(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list cities")
		return nil, types.PaginationInfo{}, fmt.Errorf("error listing cities: %w", err)
	}
	span.SetStatus(codes.Ok, "Cities listed")
	return cities, pagination, nil
}

func (s *ServiceImpl) GetCity(ctx context.Context, cityID uuid.UUID) (*types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetCity")
	defer span.End()

	cacheKey := "city:" + cityID.String()
	if cached, found := s.cache.Get(cacheKey); found {
		if c, ok := cached.(*types.City); ok {
			span.SetStatus(codes.Ok, "City served from cache")
			return c, nil
		}
	}

	c, err := s.repo.GetCity(ctx, cityID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch city")
		return nil, fmt.Errorf("error fetching city: %w", err)
	}

	s.cache.Set(cacheKey, c, cache.DefaultExpiration)
	span.SetStatus(codes.Ok, "City fetched")
	return c, nil
}
