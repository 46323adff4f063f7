package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/FACorreiaa/go-lunch-roulette/docs"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/category"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/roulette"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/settings"
)

const defaultSearchRateLimit = 30

// Config contains dependencies needed for the router setup
type Config struct {
	RouletteHandler        *roulette.Handler
	SettingsHandler        *settings.SettingsHandler
	CategoryHandler        *category.Handler
	AuthenticateMiddleware func(http.Handler) http.Handler
	AllowedOrigins         []string
	// SearchRateLimit caps quota-consuming requests per client IP per minute.
	SearchRateLimit int
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, request id, recoverer) is applied in main.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Accept-Language"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	limit := cfg.SearchRateLimit
	if limit <= 0 {
		limit = defaultSearchRateLimit
	}
	searchLimiter := httprate.LimitByIP(limit, time.Minute)

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Get("/categories", cfg.CategoryHandler.ListCategories)

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/settings", cfg.SettingsHandler.GetSettings)
			r.Put("/settings", cfg.SettingsHandler.UpdateSettings)

			r.Route("/roulette", func(r chi.Router) {
				// Each of these spends places provider quota.
				r.With(searchLimiter).Post("/search", cfg.RouletteHandler.Search)
				r.With(searchLimiter).Get("/share", cfg.RouletteHandler.Share)
				r.Post("/{sessionID}/reroll", cfg.RouletteHandler.Reroll)
			})
		})
	})

	return r
}
