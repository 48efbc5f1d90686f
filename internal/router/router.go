package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mastour-id/mastour-server/internal/api/auth"
	"github.com/mastour-id/mastour-server/internal/container"
)

// SetupRouter wires every route group onto one chi router. Server-wide
// middleware (request id, logger, recoverer) is applied in main.go before
// this router is mounted.
func SetupRouter(c *container.Container) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	authenticate := auth.Authenticate(c.Logger, c.Config.JWT)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", c.AuthHandler.Register)
			r.Post("/auth/login", c.AuthHandler.Login)
			r.Post("/auth/refresh", c.AuthHandler.RefreshSession)

			r.Get("/cities", c.CityHandler.GetCities)
			r.Get("/cities/{cityID}", c.CityHandler.GetCity)
			r.Get("/categories", c.CategoryHandler.GetCategories)
			r.Get("/categories/{categoryID}", c.CategoryHandler.GetCategory)
			r.Get("/places", c.PlaceHandler.GetPlaces)
			r.Get("/places/{placeID}", c.PlaceHandler.GetPlace)
			r.Get("/guides", c.GuideHandler.GetGuides)
			r.Get("/guides/{guideID}", c.GuideHandler.GetGuide)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/auth/logout", c.AuthHandler.Logout)

			r.Get("/profile", c.ProfileHandler.GetProfile)
			r.Put("/profile", c.ProfileHandler.UpdateProfile)

			r.Post("/matchmaking/survey", c.MatchmakingHandler.SubmitSurvey)
			r.Post("/matchmaking/search", c.MatchmakingHandler.Search)

			r.Post("/guides/{guideID}/book", c.BookingHandler.BookGuide)
			r.Get("/bookings", c.BookingHandler.GetBookingHistory)
		})
	})

	return r
}
