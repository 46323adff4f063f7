package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/go-lunch-roulette/app/middleware"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

type SettingsHandler struct {
	settingsService SettingsService
	logger          *slog.Logger
}

func NewSettingsHandler(settingsService SettingsService, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		panic("PANIC: Attempting to create SettingsHandler with nil logger!")
	}
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetSettings godoc
// @Summary      Get search settings
// @Description  Retrieves the authenticated owner's search config, or the defaults.
// @Tags         Settings
// @Produce      json
// @Success      200 {object} types.SearchConfig
// @Failure      401 {object} api.Response "Unauthorized"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /settings [get]
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SettingsHandler").Start(r.Context(), "GetSettings", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/settings"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetSettings"))

	owner, ok := appMiddleware.GetOwnerIDFromContext(ctx)
	if !ok {
		l.ErrorContext(ctx, "Owner ID not found in context")
		span.SetStatus(codes.Error, "Owner ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	cfg, err := h.settingsService.GetSettings(ctx, owner)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get settings", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get settings")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to retrieve settings")
		return
	}

	span.SetStatus(codes.Ok, "Settings retrieved")
	api.WriteJSONResponse(w, r, http.StatusOK, cfg)
}

// UpdateSettings godoc
// @Summary      Update search settings
// @Description  Applies a partial update to the owner's search config.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        settings body types.UpdateSearchConfigParams true "Fields to change"
// @Success      200 {object} types.SearchConfig
// @Failure      400 {object} api.Response "Invalid settings"
// @Failure      401 {object} api.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /settings [put]
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SettingsHandler").Start(r.Context(), "UpdateSettings", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/settings"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "UpdateSettings"))

	owner, ok := appMiddleware.GetOwnerIDFromContext(ctx)
	if !ok {
		l.WarnContext(ctx, "Owner ID not found in context")
		span.SetStatus(codes.Error, "Authentication required")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var params types.UpdateSearchConfigParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid request format: %s", err.Error()))
		return
	}

	cfg, err := h.settingsService.UpdateSettings(ctx, owner, params)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, types.ErrInvalidConfig) {
			span.SetStatus(codes.Error, "Invalid settings")
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		l.ErrorContext(ctx, "Failed to update settings", slog.Any("error", err))
		span.SetStatus(codes.Error, "Failed to update settings")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	span.SetStatus(codes.Ok, "Settings updated")
	api.WriteJSONResponse(w, r, http.StatusOK, cfg)
}
