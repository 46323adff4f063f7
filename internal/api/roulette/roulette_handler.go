package roulette

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	appMiddleware "github.com/FACorreiaa/go-lunch-roulette/app/middleware"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

// MatchResponse is the JSON shape of a search, reroll or restore.
type MatchResponse struct {
	SessionID      *uuid.UUID        `json:"session_id,omitempty"`
	Winner         *types.Restaurant `json:"winner,omitempty"`
	CandidateCount int               `json:"candidate_count"`
	Empty          bool              `json:"empty"`
	Reason         types.EmptyReason `json:"reason,omitempty"`
	Stats          types.FilterStats `json:"stats"`
	ShareLink      string            `json:"share_link,omitempty"`
}

func newMatchResponse(res *types.MatchResult) MatchResponse {
	resp := MatchResponse{
		Winner:         res.Winner,
		CandidateCount: len(res.Candidates),
		Empty:          res.Empty,
		Reason:         res.EmptyReason,
		Stats:          res.Stats,
		ShareLink:      res.ShareLink,
	}
	if res.SessionID != uuid.Nil {
		id := res.SessionID
		resp.SessionID = &id
	}
	return resp
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Search godoc
// @Summary      Find a lunch spot
// @Description  Discovers restaurants around the reported location, filters them with the owner's settings and draws a winner.
// @Tags         Roulette
// @Accept       json
// @Produce      json
// @Param        request body types.SearchRequest true "Location and optional config override"
// @Success      200 {object} roulette.MatchResponse
// @Failure      400 {object} api.Response "Bad location or config"
// @Failure      403 {object} api.Response "Location permission denied"
// @Failure      409 {object} api.Response "Superseded by a newer search"
// @Security     BearerAuth
// @Router       /roulette/search [post]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouletteHandler").Start(r.Context(), "Search", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/roulette/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Search"))

	owner, ok := appMiddleware.GetOwnerIDFromContext(ctx)
	if !ok {
		l.WarnContext(ctx, "Owner ID not found in context")
		span.SetStatus(codes.Error, "Authentication required")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req types.SearchRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid request format: %s", err.Error()))
		return
	}

	res, err := h.service.FindBestMatch(ctx, owner, req)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Search completed")
	api.WriteJSONResponse(w, r, http.StatusOK, newMatchResponse(res))
}

// Reroll godoc
// @Summary      Draw again
// @Description  Draws another winner from the session's eligible candidates without repeats until all were shown.
// @Tags         Roulette
// @Produce      json
// @Param        sessionID path string true "Session ID"
// @Success      200 {object} roulette.MatchResponse
// @Failure      404 {object} api.Response "Session not found"
// @Security     BearerAuth
// @Router       /roulette/{sessionID}/reroll [post]
func (h *Handler) Reroll(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouletteHandler").Start(r.Context(), "Reroll", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/roulette/{sessionID}/reroll"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Reroll"))

	owner, ok := appMiddleware.GetOwnerIDFromContext(ctx)
	if !ok {
		l.WarnContext(ctx, "Owner ID not found in context")
		span.SetStatus(codes.Error, "Authentication required")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	sessionIDStr := chi.URLParam(r, "sessionID")
	sessionID, err := uuid.Parse(sessionIDStr)
	if err != nil {
		l.WarnContext(ctx, "Invalid session ID format in URL path", slog.String("session_id_str", sessionIDStr), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid session ID format")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid session ID format in URL")
		return
	}
	span.SetAttributes(attribute.String("session.id", sessionID.String()))

	res, err := h.service.Reroll(ctx, owner, sessionID)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Rerolled")
	api.WriteJSONResponse(w, r, http.StatusOK, newMatchResponse(res))
}

// Share godoc
// @Summary      Open a share link
// @Description  Restores a session around the shared restaurant. lat/lng, when present, are the search origin.
// @Tags         Roulette
// @Produce      json
// @Param        resId query string true "Restaurant ID"
// @Param        lat query number false "Origin latitude"
// @Param        lng query number false "Origin longitude"
// @Success      200 {object} roulette.MatchResponse
// @Failure      400 {object} api.Response "Invalid share link"
// @Failure      404 {object} api.Response "Restaurant not found"
// @Security     BearerAuth
// @Router       /roulette/share [get]
func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RouletteHandler").Start(r.Context(), "Share", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/roulette/share"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "Share"))

	owner, ok := appMiddleware.GetOwnerIDFromContext(ctx)
	if !ok {
		l.WarnContext(ctx, "Owner ID not found in context")
		span.SetStatus(codes.Error, "Authentication required")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	target, err := ShareTargetFromValues(r.URL.Query())
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, l, err)
		return
	}

	res, err := h.service.RestoreFromShareLink(ctx, owner, target, nil)
	if err != nil {
		h.fail(w, r.WithContext(ctx), span, l, err)
		return
	}

	span.SetStatus(codes.Ok, "Restored")
	api.WriteJSONResponse(w, r, http.StatusOK, newMatchResponse(res))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, span trace.Span, l *slog.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "Request failed", slog.Any("error", err))
	} else {
		l.WarnContext(r.Context(), "Request rejected", slog.Int("status", status), slog.Any("error", err))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	api.ErrorResponse(w, r, status, msg)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrLocationPermissionDenied):
		return http.StatusForbidden, "Location permission denied"
	case errors.Is(err, types.ErrLocationTimeout):
		return http.StatusBadRequest, "Location request timed out"
	case errors.Is(err, types.ErrLocationUnsupported):
		return http.StatusBadRequest, "Geolocation is not supported"
	case errors.Is(err, types.ErrLocationUnavailable):
		return http.StatusBadRequest, "Location unavailable"
	case errors.Is(err, types.ErrInvalidConfig):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, types.ErrInvalidShareLink):
		return http.StatusBadRequest, "Invalid share link"
	case errors.Is(err, types.ErrSessionNotFound):
		return http.StatusNotFound, "Session not found"
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, "Restaurant not found"
	case errors.Is(err, types.ErrSearchSuperseded):
		return http.StatusConflict, "Search superseded by a newer search"
	default:
		return http.StatusInternalServerError, "Search failed"
	}
}
