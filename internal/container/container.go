package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	database "github.com/FACorreiaa/go-lunch-roulette/app/db"
	appMiddleware "github.com/FACorreiaa/go-lunch-roulette/app/middleware"
	"github.com/FACorreiaa/go-lunch-roulette/app/observability/metrics"
	"github.com/FACorreiaa/go-lunch-roulette/config"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/availability"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/category"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/details"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/filter"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/geolocation"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/kvstore"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/places"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/roulette"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/search"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/settings"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/travel"
	api "github.com/FACorreiaa/go-lunch-roulette/internal/router"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

// Providers are the outbound clients the search depends on.
type Providers struct {
	Nearby  search.NearbySearcher
	Details details.Fetcher
	// Live is optional; without it open status comes from schedules only.
	Live availability.LiveChecker
	// Travel is optional; without it every duration is unknown.
	Travel filter.TravelTimer
}

// Container holds all application dependencies
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Store   kvstore.Store
	Metrics *metrics.AppMetrics

	Matcher         *category.Matcher
	Sessions        *roulette.SessionStore
	RouletteService *roulette.ServiceImpl
	SettingsService *settings.SettingsServiceImpl

	RouletteHandler *roulette.Handler
	SettingsHandler *settings.SettingsHandler
	CategoryHandler *category.Handler
}

// NewContainer opens the configured store, builds the provider clients and
// wires every service.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.AppMetrics) (*Container, error) {
	c := &Container{}
	store, err := c.openStore(ctx, cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	providers, err := NewProviders(cfg, m, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	wired := Wire(cfg, logger, m, store, providers)
	wired.Pool, wired.Redis = c.Pool, c.Redis
	return wired, nil
}

// NewProviders builds the places and travel clients from configuration.
func NewProviders(cfg *config.Config, m *metrics.AppMetrics, logger *slog.Logger) (Providers, error) {
	if cfg.Places.APIKey == "" {
		logger.Warn("Places API key is empty, every provider call will fail")
	}
	placesClient := places.NewClient(places.Config{
		APIKey:   cfg.Places.APIKey,
		BaseURL:  cfg.Places.BaseURL,
		Timeout:  cfg.Places.Timeout,
		Language: cfg.Places.Language,
		Placeholders: places.Placeholders{
			Name:    cfg.Places.PlaceholderName,
			Address: cfg.Places.PlaceholderAddress,
		},
	}, logger)

	p := Providers{Nearby: placesClient, Details: placesClient}
	if cfg.Places.LiveOpenCheck {
		p.Live = placesClient
	}

	travelKey := cfg.Travel.APIKey
	if travelKey == "" {
		travelKey = cfg.Places.APIKey
	}
	if travelKey == "" {
		logger.Warn("No travel API key, walking durations will be unknown")
		return p, nil
	}
	tc, err := travel.NewClient(travel.Config{
		APIKey:   travelKey,
		BaseURL:  cfg.Travel.BaseURL,
		Timeout:  cfg.Travel.Timeout,
		Language: cfg.Travel.Language,
	}, m, logger)
	if err != nil {
		return Providers{}, fmt.Errorf("failed to create travel client: %w", err)
	}
	p.Travel = tc
	return p, nil
}

// Wire builds services and handlers over an already open store.
func Wire(cfg *config.Config, logger *slog.Logger, m *metrics.AppMetrics, store kvstore.Store, p Providers) *Container {
	matcher := category.NewDefaultMatcher()

	planner := search.NewPlanner(search.PlannerConfig{
		CornerOffsetFactor: cfg.Search.CornerOffsetFactor,
		CornerMinRadius:    cfg.Search.CornerMinRadius,
		MaxTypesPerCall:    cfg.Search.MaxTypesPerCall,
	}, matcher)
	runner := search.NewRunner(p.Nearby, search.RunnerConfig{
		MaxCandidates:     cfg.Search.MaxCandidates,
		MaxResultsPerCall: cfg.Search.MaxResultsPerCall,
		RankBy:            types.RankBy(cfg.Search.RankBy),
		Language:          cfg.Places.Language,
	}, m, logger)

	resolver := availability.NewResolver(p.Live, logger)
	pipeline := filter.NewPipeline(resolver, p.Travel, matcher, filter.Config{
		FallbackKeep: cfg.Search.FallbackKeep,
		Concurrency:  cfg.Places.ResolverConcurrency,
	}, logger)

	detailCache := details.NewCache(store, cfg.Details.TTL, cfg.Details.SweepInterval, logger)
	detailService := details.NewServiceImpl(detailCache, p.Details, m, logger)

	settingsRepo := settings.NewKVSettingsRepo(store, logger)
	settingsService := settings.NewSettingsService(settingsRepo, matcher, logger)

	sessions := roulette.NewSessionStore(cfg.Session.TTL)
	rouletteService := roulette.NewServiceImpl(planner, runner, pipeline, detailService, settingsService, sessions,
		roulette.Config{
			ShareBaseURL: cfg.Session.ShareBaseURL,
			Radius: search.RadiusConfig{
				WalkSpeedMetersPerMinute: cfg.Search.WalkSpeedMetersPerMinute,
				MinRadius:                cfg.Search.MinRadius,
				MaxRadius:                cfg.Search.MaxRadius,
			},
			Geolocation: geolocation.Options{
				Timeout: cfg.Geolocation.Timeout,
				MaxAge:  cfg.Geolocation.MaxAge,
			},
		}, m, logger)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Store:           store,
		Metrics:         m,
		Matcher:         matcher,
		Sessions:        sessions,
		RouletteService: rouletteService,
		SettingsService: settingsService,
		RouletteHandler: roulette.NewHandler(rouletteService, logger),
		SettingsHandler: settings.NewSettingsHandler(settingsService, logger),
		CategoryHandler: category.NewHandler(matcher, logger),
	}
}

// Router mounts every API route behind the configured JWT authentication.
func (c *Container) Router() chi.Router {
	return api.SetupRouter(&api.Config{
		RouletteHandler:        c.RouletteHandler,
		SettingsHandler:        c.SettingsHandler,
		CategoryHandler:        c.CategoryHandler,
		AuthenticateMiddleware: appMiddleware.Authenticate(c.Logger, c.Config.Auth),
		AllowedOrigins:         c.Config.Server.AllowedOrigins,
		SearchRateLimit:        c.Config.Server.SearchRateLimit,
	})
}

func (c *Container) openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (kvstore.Store, error) {
	backend := cfg.Store.Backend
	if backend == "" {
		backend = kvstore.BackendMemory
	}
	if err := kvstore.ValidateBackend(backend); err != nil {
		return nil, err
	}
	logger.Info("Opening key-value store", slog.String("backend", backend))

	switch backend {
	case kvstore.BackendPostgres:
		pool, err := database.Open(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		c.Pool = pool
		return kvstore.NewPostgresStore(pool, logger), nil

	case kvstore.BackendRedis:
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.Repositories.Redis.Addr,
			Password: cfg.Repositories.Redis.Password,
			DB:       cfg.Repositories.Redis.DB,
		})
		c.Redis = rc
		if err := rc.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Repositories.Redis.Addr, err)
		}
		return kvstore.NewRedisStore(rc, cfg.Repositories.Redis.Namespace), nil

	default:
		return kvstore.NewMemoryStore(), nil
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil && c.Logger != nil {
			c.Logger.Warn("Error closing redis client", slog.Any("error", err))
		}
	}
}
