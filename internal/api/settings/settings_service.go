package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

var _ SettingsService = (*SettingsServiceImpl)(nil)

// Catalogue tells which category ids exist.
type Catalogue interface {
	Known(id string) bool
}

type SettingsService interface {
	// GetSettings returns the owner's config, or the defaults when none was saved.
	GetSettings(ctx context.Context, owner uuid.UUID) (types.SearchConfig, error)

	// UpdateSettings applies a partial update, validates and saves the result.
	UpdateSettings(ctx context.Context, owner uuid.UUID, params types.UpdateSearchConfigParams) (types.SearchConfig, error)

	// Resolve returns override once validated, or the stored config when override is nil.
	Resolve(ctx context.Context, owner uuid.UUID, override *types.SearchConfig) (types.SearchConfig, error)
}

type SettingsServiceImpl struct {
	logger    *slog.Logger
	repo      SettingsRepository
	catalogue Catalogue
}

func NewSettingsService(repo SettingsRepository, catalogue Catalogue, logger *slog.Logger) *SettingsServiceImpl {
	return &SettingsServiceImpl{
		logger:    logger,
		repo:      repo,
		catalogue: catalogue,
	}
}

func (s *SettingsServiceImpl) GetSettings(ctx context.Context, owner uuid.UUID) (types.SearchConfig, error) {
	ctx, span := otel.Tracer("SettingsService").Start(ctx, "GetSettings", trace.WithAttributes(
		attribute.String("owner.id", owner.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetSettings"), slog.String("owner", owner.String()))
	l.DebugContext(ctx, "Fetching settings")

	cfg, err := s.repo.Get(ctx, owner)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			span.SetStatus(codes.Ok, "Defaults")
			return types.DefaultSearchConfig(), nil
		}
		l.ErrorContext(ctx, "Failed to fetch settings", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch settings")
		return types.SearchConfig{}, fmt.Errorf("error fetching settings: %w", err)
	}

	span.SetStatus(codes.Ok, "Settings fetched")
	return normalize(*cfg), nil
}

func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, owner uuid.UUID, params types.UpdateSearchConfigParams) (types.SearchConfig, error) {
	ctx, span := otel.Tracer("SettingsService").Start(ctx, "UpdateSettings", trace.WithAttributes(
		attribute.String("owner.id", owner.String()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "UpdateSettings"), slog.String("owner", owner.String()))

	current, err := s.GetSettings(ctx, owner)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch settings")
		return types.SearchConfig{}, err
	}
	if params.Empty() {
		l.InfoContext(ctx, "No fields provided for settings update")
		span.SetStatus(codes.Ok, "No changes")
		return current, nil
	}

	updated := normalize(params.Apply(current))
	if err := s.Validate(updated); err != nil {
		l.WarnContext(ctx, "Rejected settings update", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid settings")
		return types.SearchConfig{}, err
	}

	if err := s.repo.Save(ctx, owner, updated); err != nil {
		l.ErrorContext(ctx, "Failed to save settings", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save settings")
		return types.SearchConfig{}, fmt.Errorf("error updating settings: %w", err)
	}

	l.InfoContext(ctx, "Settings updated")
	span.SetStatus(codes.Ok, "Settings updated")
	return updated, nil
}

func (s *SettingsServiceImpl) Resolve(ctx context.Context, owner uuid.UUID, override *types.SearchConfig) (types.SearchConfig, error) {
	if override == nil {
		return s.GetSettings(ctx, owner)
	}
	cfg := normalize(*override)
	if err := s.Validate(cfg); err != nil {
		return types.SearchConfig{}, err
	}
	return cfg, nil
}

// Validate checks the walking budget, filter mode, category ids and price tiers.
func (s *SettingsServiceImpl) Validate(cfg types.SearchConfig) error {
	if cfg.WalkMinutes < types.MinWalkMinutes || cfg.WalkMinutes > types.MaxWalkMinutes {
		return fmt.Errorf("%w: walk_minutes must be between %d and %d", types.ErrInvalidConfig, types.MinWalkMinutes, types.MaxWalkMinutes)
	}
	if !cfg.FilterMode.Valid() {
		return fmt.Errorf("%w: unknown filter_mode %q", types.ErrInvalidConfig, cfg.FilterMode)
	}
	for _, id := range cfg.Categories {
		if s.catalogue != nil && !s.catalogue.Known(id) {
			return fmt.Errorf("%w: unknown category %q", types.ErrInvalidConfig, id)
		}
	}
	for _, p := range cfg.PriceLevels {
		if !p.Valid() {
			return fmt.Errorf("%w: unknown price level %d", types.ErrInvalidConfig, p)
		}
	}
	return nil
}

// normalize fills an unset filter mode and drops duplicate selections.
func normalize(cfg types.SearchConfig) types.SearchConfig {
	if cfg.FilterMode == "" {
		cfg.FilterMode = types.FilterModeBlacklist
	}
	cfg.Categories = dedupe(cfg.Categories)
	cfg.PriceLevels = dedupe(cfg.PriceLevels)
	return cfg
}

func dedupe[T comparable](in []T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
