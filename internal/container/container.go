package container

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	gocache "github.com/patrickmn/go-cache"

	database "github.com/mastour-id/mastour-server/app/db"
	"github.com/mastour-id/mastour-server/config"
	"github.com/mastour-id/mastour-server/internal/api/auth"
	"github.com/mastour-id/mastour-server/internal/api/booking"
	"github.com/mastour-id/mastour-server/internal/api/category"
	"github.com/mastour-id/mastour-server/internal/api/city"
	"github.com/mastour-id/mastour-server/internal/api/guide"
	"github.com/mastour-id/mastour-server/internal/api/matchmaking"
	"github.com/mastour-id/mastour-server/internal/api/place"
	"github.com/mastour-id/mastour-server/internal/api/profile"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool

	AuthHandler        *auth.AuthHandler
	ProfileHandler     *profile.ProfileHandler
	MatchmakingHandler *matchmaking.MatchmakingHandler
	CityHandler        *city.CityHandler
	CategoryHandler    *category.CategoryHandler
	PlaceHandler       *place.PlaceHandler
	GuideHandler       *guide.GuideHandler
	BookingHandler     *booking.BookingHandler
}

// NewContainer initializes the dependency container: database pool, model
// adapters and the handler stack for every route group.
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	// One HTTP client for both inference endpoints; per-call deadlines come
	// from the configured model timeout.
	modelClient := &http.Client{Timeout: cfg.Models.Timeout}
	classifier := matchmaking.NewModelClassifier(modelClient, cfg.Models.PersonalityURL, cfg.Models.Timeout, logger)
	projector := matchmaking.NewModelProjector(modelClient, cfg.Models.ProjectionURL, cfg.Models.Timeout, logger)

	referenceCache := gocache.New(5*time.Minute, 10*time.Minute)

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg.JWT, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	profileRepo := profile.NewPostgresProfileRepository(pool, logger)
	profileService := profile.NewProfileService(profileRepo, logger)
	profileHandler := profile.NewProfileHandler(profileService, logger)

	matchmakingRepo := matchmaking.NewPostgresMatchmakingRepository(pool, logger)
	matchmakingService := matchmaking.NewMatchmakingService(matchmakingRepo, classifier, projector, logger)
	matchmakingHandler := matchmaking.NewMatchmakingHandler(matchmakingService, logger)

	cityRepo := city.NewPostgresCityRepository(pool, logger)
	cityService := city.NewCityService(cityRepo, referenceCache, logger)
	cityHandler := city.NewCityHandler(cityService, logger)

	categoryRepo := category.NewPostgresCategoryRepository(pool, logger)
	categoryService := category.NewCategoryService(categoryRepo, referenceCache, logger)
	categoryHandler := category.NewCategoryHandler(categoryService, logger)

	placeRepo := place.NewPostgresPlaceRepository(pool, logger)
	placeService := place.NewPlaceService(placeRepo, logger)
	placeHandler := place.NewPlaceHandler(placeService, logger)

	guideRepo := guide.NewPostgresGuideRepository(pool, logger)
	guideService := guide.NewGuideService(guideRepo, matchmakingRepo, logger)
	guideHandler := guide.NewGuideHandler(guideService, logger)

	bookingRepo := booking.NewPostgresBookingRepository(pool, logger)
	bookingService := booking.NewBookingService(bookingRepo, logger)
	bookingHandler := booking.NewBookingHandler(bookingService, logger)

	return &Container{
		Config: cfg,
		Logger: logger,
		Pool:   pool,

		AuthHandler:        authHandler,
		ProfileHandler:     profileHandler,
		MatchmakingHandler: matchmakingHandler,
		CityHandler:        cityHandler,
		CategoryHandler:    categoryHandler,
		PlaceHandler:       placeHandler,
		GuideHandler:       guideHandler,
		BookingHandler:     bookingHandler,
	}, nil
}

// Close releases all resources held by the container.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready.
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations runs database migrations.
func (c *Container) RunMigrations(connectionURL string) error {
	return database.RunMigrations(connectionURL, c.Logger)
}
