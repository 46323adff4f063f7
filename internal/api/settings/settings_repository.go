package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-lunch-roulette/internal/api/kvstore"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

const keyPrefix = "settings:"

var _ SettingsRepository = (*KVSettingsRepo)(nil)

type SettingsRepository interface {
	// Get retrieves the stored search config of an owner.
	// Returns types.ErrNotFound if nothing was saved yet.
	Get(ctx context.Context, owner uuid.UUID) (*types.SearchConfig, error)

	// Save replaces the owner's search config.
	Save(ctx context.Context, owner uuid.UUID, cfg types.SearchConfig) error
}

// KVSettingsRepo stores one JSON document per owner under "settings:<owner>".
type KVSettingsRepo struct {
	logger *slog.Logger
	store  kvstore.Store
	now    func() time.Time
}

func NewKVSettingsRepo(store kvstore.Store, logger *slog.Logger) *KVSettingsRepo {
	return &KVSettingsRepo{
		logger: logger,
		store:  store,
		now:    time.Now,
	}
}

func key(owner uuid.UUID) string {
	return keyPrefix + owner.String()
}

func (r *KVSettingsRepo) Get(ctx context.Context, owner uuid.UUID) (*types.SearchConfig, error) {
	ctx, span := otel.Tracer("SettingsRepo").Start(ctx, "Get", trace.WithAttributes(
		attribute.String("owner.id", owner.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Get"), slog.String("owner", owner.String()))

	entry, err := r.store.Get(ctx, key(owner))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.DebugContext(ctx, "No settings stored")
			span.SetStatus(codes.Ok, "Not found")
			return nil, types.ErrNotFound
		}
		l.ErrorContext(ctx, "Failed to read settings", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Store read failed")
		return nil, fmt.Errorf("error reading settings: %w", err)
	}

	var cfg types.SearchConfig
	if err := json.Unmarshal(entry.Value, &cfg); err != nil {
		l.ErrorContext(ctx, "Stored settings are corrupt", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Decode failed")
		return nil, fmt.Errorf("error decoding settings: %w", err)
	}

	span.SetStatus(codes.Ok, "Settings loaded")
	return &cfg, nil
}

func (r *KVSettingsRepo) Save(ctx context.Context, owner uuid.UUID, cfg types.SearchConfig) error {
	ctx, span := otel.Tracer("SettingsRepo").Start(ctx, "Save", trace.WithAttributes(
		attribute.String("owner.id", owner.String()),
	))
	defer span.End()

	value, err := json.Marshal(cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Encode failed")
		return fmt.Errorf("error encoding settings: %w", err)
	}

	if err := r.store.Set(ctx, key(owner), kvstore.Entry{Value: value, WrittenAt: r.now()}); err != nil {
		r.logger.ErrorContext(ctx, "Failed to write settings", slog.String("owner", owner.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Store write failed")
		return fmt.Errorf("error writing settings: %w", err)
	}

	span.SetStatus(codes.Ok, "Settings saved")
	return nil
}
