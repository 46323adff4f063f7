package settings

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/FACorreiaa/go-lunch-roulette/app/middleware"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/category"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/kvstore"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

func setupSettingsHandlerTest() *SettingsHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewKVSettingsRepo(kvstore.NewMemoryStore(), logger)
	return NewSettingsHandler(NewSettingsService(repo, category.NewDefaultMatcher(), logger), logger)
}

func withOwner(r *http.Request, owner uuid.UUID) *http.Request {
	return r.WithContext(appMiddleware.WithOwnerID(r.Context(), owner))
}

func TestSettingsHandler_GetThenUpdate(t *testing.T) {
	h := setupSettingsHandlerTest()
	owner := uuid.New()

	rec := httptest.NewRecorder()
	h.GetSettings(rec, withOwner(httptest.NewRequest(http.MethodGet, "/settings", nil), owner))
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg types.SearchConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, types.DefaultSearchConfig(), cfg)

	body := `{"walk_minutes": 25, "filter_mode": "whitelist", "categories": ["japanese"]}`
	rec = httptest.NewRecorder()
	h.UpdateSettings(rec, withOwner(httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(body)), owner))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.GetSettings(rec, withOwner(httptest.NewRequest(http.MethodGet, "/settings", nil), owner))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, 25, cfg.WalkMinutes)
	assert.Equal(t, types.FilterModeWhitelist, cfg.FilterMode)
	assert.Equal(t, []string{"japanese"}, cfg.Categories)
}

func TestSettingsHandler_Errors(t *testing.T) {
	h := setupSettingsHandlerTest()
	owner := uuid.New()

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{
			name:   "no owner",
			req:    httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(`{}`)),
			status: http.StatusUnauthorized,
		},
		{
			name:   "unknown field",
			req:    withOwner(httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(`{"radius": 3}`)), owner),
			status: http.StatusBadRequest,
		},
		{
			name:   "out of range budget",
			req:    withOwner(httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(`{"walk_minutes": 0}`)), owner),
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.UpdateSettings(rec, tt.req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
