package roulette

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/FACorreiaa/go-lunch-roulette/app/middleware"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) FindBestMatch(ctx context.Context, owner uuid.UUID, req types.SearchRequest) (*types.MatchResult, error) {
	args := m.Called(ctx, owner, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MatchResult), args.Error(1)
}

func (m *MockService) Reroll(ctx context.Context, owner, sessionID uuid.UUID) (*types.MatchResult, error) {
	args := m.Called(ctx, owner, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MatchResult), args.Error(1)
}

func (m *MockService) RestoreFromShareLink(ctx context.Context, owner uuid.UUID, target ShareTarget, override *types.SearchConfig) (*types.MatchResult, error) {
	args := m.Called(ctx, owner, target, override)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MatchResult), args.Error(1)
}

func setupHandlerTest(owner uuid.UUID) (http.Handler, *MockService) {
	svc := new(MockService)
	h := NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if owner != uuid.Nil {
				req = req.WithContext(appMiddleware.WithOwnerID(req.Context(), owner))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/roulette/search", h.Search)
	r.Post("/roulette/{sessionID}/reroll", h.Reroll)
	r.Get("/roulette/share", h.Share)
	return r, svc
}

func TestHandler_Search(t *testing.T) {
	owner := uuid.New()
	sessionID := uuid.New()

	t.Run("winner", func(t *testing.T) {
		router, svc := setupHandlerTest(owner)
		winner := types.Restaurant{ID: "r1", Name: "Noodle Bar"}
		svc.On("FindBestMatch", mock.Anything, owner, mock.AnythingOfType("types.SearchRequest")).Return(&types.MatchResult{
			SessionID:  sessionID,
			Winner:     &winner,
			Candidates: []types.Restaurant{winner, {ID: "r2"}},
			ShareLink:  "https://lunch.example.com/share?resId=r1",
		}, nil).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/roulette/search",
			strings.NewReader(`{"location": {"lat": 25.03, "lng": 121.56}}`)))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp MatchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.SessionID)
		assert.Equal(t, sessionID, *resp.SessionID)
		assert.Equal(t, "r1", resp.Winner.ID)
		assert.Equal(t, 2, resp.CandidateCount)
		assert.False(t, resp.Empty)
		svc.AssertExpectations(t)
	})

	t.Run("empty result", func(t *testing.T) {
		router, svc := setupHandlerTest(owner)
		svc.On("FindBestMatch", mock.Anything, owner, mock.Anything).Return(&types.MatchResult{
			Empty:       true,
			EmptyReason: types.EmptyReasonFilteredTooStrict,
		}, nil).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/roulette/search",
			strings.NewReader(`{"location": {"lat": 25.03, "lng": 121.56}}`)))
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["empty"])
		assert.Equal(t, "filtered_too_strict", body["reason"])
		assert.NotContains(t, body, "session_id")
	})

	t.Run("bad body", func(t *testing.T) {
		router, svc := setupHandlerTest(owner)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/roulette/search", strings.NewReader(`{"where": 1}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "FindBestMatch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		router, _ := setupHandlerTest(uuid.Nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/roulette/search", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandler_ErrorMapping(t *testing.T) {
	owner := uuid.New()
	tests := []struct {
		err    error
		status int
	}{
		{types.ErrLocationPermissionDenied, http.StatusForbidden},
		{types.ErrLocationTimeout, http.StatusBadRequest},
		{types.ErrLocationUnsupported, http.StatusBadRequest},
		{fmt.Errorf("stale: %w", types.ErrLocationUnavailable), http.StatusBadRequest},
		{fmt.Errorf("%w: walk_minutes", types.ErrInvalidConfig), http.StatusBadRequest},
		{types.ErrSearchSuperseded, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			router, svc := setupHandlerTest(owner)
			svc.On("FindBestMatch", mock.Anything, owner, mock.Anything).Return(nil, tt.err).Once()

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/roulette/search", strings.NewReader(`{"location": {}}`)))
			assert.Equal(t, tt.status, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestHandler_Reroll(t *testing.T) {
	owner := uuid.New()
	sessionID := uuid.New()

	t.Run("ok", func(t *testing.T) {
		router, svc := setupHandlerTest(owner)
		winner := types.Restaurant{ID: "r2"}
		svc.On("Reroll", mock.Anything, owner, sessionID).Return(&types.MatchResult{SessionID: sessionID, Winner: &winner}, nil).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/roulette/"+sessionID.String()+"/reroll", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown session", func(t *testing.T) {
		router, svc := setupHandlerTest(owner)
		svc.On("Reroll", mock.Anything, owner, sessionID).Return(nil, types.ErrSessionNotFound).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/roulette/"+sessionID.String()+"/reroll", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		router, _ := setupHandlerTest(owner)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/roulette/not-a-uuid/reroll", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Share(t *testing.T) {
	owner := uuid.New()

	t.Run("restores", func(t *testing.T) {
		router, svc := setupHandlerTest(owner)
		want := ShareTarget{ResID: "r9", Location: &types.LatLng{Lat: 25.5, Lng: 121.25}}
		winner := types.Restaurant{ID: "r9"}
		svc.On("RestoreFromShareLink", mock.Anything, owner, want, (*types.SearchConfig)(nil)).
			Return(&types.MatchResult{SessionID: uuid.New(), Winner: &winner, Candidates: []types.Restaurant{winner}}, nil).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roulette/share?resId=r9&lat=25.5&lng=121.25", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing resId", func(t *testing.T) {
		router, svc := setupHandlerTest(owner)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roulette/share?lat=1&lng=2", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "RestoreFromShareLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown place", func(t *testing.T) {
		router, svc := setupHandlerTest(owner)
		svc.On("RestoreFromShareLink", mock.Anything, owner, ShareTarget{ResID: "gone"}, (*types.SearchConfig)(nil)).
			Return(nil, fmt.Errorf("place gone: %w", types.ErrNotFound)).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roulette/share?resId=gone", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
