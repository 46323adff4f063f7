package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	appMiddleware "github.com/FACorreiaa/go-lunch-roulette/app/middleware"
	"github.com/FACorreiaa/go-lunch-roulette/app/observability/metrics"
	"github.com/FACorreiaa/go-lunch-roulette/config"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/kvstore"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/roulette"
	"github.com/FACorreiaa/go-lunch-roulette/internal/container"
	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

const e2eSecret = "e2e-secret"

type stubNearby struct {
	results []types.Restaurant
}

func (s stubNearby) SearchNearby(_ context.Context, _ types.NearbyRequest) ([]types.Restaurant, error) {
	return s.results, nil
}

type stubDetails map[string]types.Restaurant

func (s stubDetails) FetchDetails(_ context.Context, id string) (types.Restaurant, error) {
	r, ok := s[id]
	if !ok {
		return types.Restaurant{}, fmt.Errorf("place %s: %w", id, types.ErrNotFound)
	}
	r.WebsiteURL = "https://example.com/" + id
	return r, nil
}

type stubTravel struct{}

func (stubTravel) Durations(_ context.Context, _ types.LatLng, dests []types.LatLng) []types.Duration {
	out := make([]types.Duration, len(dests))
	for i := range dests {
		out[i] = types.Duration{Known: true, Seconds: 240, Text: "4 mins"}
	}
	return out
}

// E2ETestSuite drives the wired router over HTTP with in-memory storage and
// stubbed provider clients.
type E2ETestSuite struct {
	suite.Suite
	server *httptest.Server
	client *http.Client
	cfg    *config.Config
	owner  uuid.UUID
	token  string
}

func e2eRestaurants() []types.Restaurant {
	open := true
	var out []types.Restaurant
	for i, name := range []string{"Beef Noodle House", "Dumpling Corner", "Curry Lab"} {
		loc := types.LatLng{Lat: 25.034 + float64(i)*0.0005, Lng: 121.564}
		out = append(out, types.Restaurant{
			ID:             fmt.Sprintf("place-%d", i),
			Name:           name,
			Types:          []string{"restaurant"},
			BusinessStatus: types.BusinessStatusOperational,
			Location:       &loc,
			OpenNowHint:    &open,
		})
	}
	return out
}

func (suite *E2ETestSuite) SetupSuite() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	cfg.Auth = config.AuthConfig{JWTSecret: e2eSecret, Issuer: "go-lunch-roulette"}
	cfg.Session = config.SessionConfig{TTL: time.Hour, ShareBaseURL: "https://lunch.example.com/share"}
	cfg.Server.SearchRateLimit = 1000
	suite.cfg = cfg

	records := e2eRestaurants()
	byID := stubDetails{}
	for _, r := range records {
		byID[r.ID] = r
	}
	c := container.Wire(cfg, logger, metrics.NewNoop(), kvstore.NewMemoryStore(), container.Providers{
		Nearby:  stubNearby{results: records},
		Details: byID,
		Travel:  stubTravel{},
	})

	suite.server = httptest.NewServer(c.Router())
	suite.client = &http.Client{Timeout: 10 * time.Second}
	suite.owner = uuid.New()
	suite.token = suite.mintToken(suite.owner, cfg.Auth.Issuer, time.Hour)
}

func (suite *E2ETestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
}

func (suite *E2ETestSuite) mintToken(owner uuid.UUID, issuer string, ttl time.Duration) string {
	claims := appMiddleware.Claims{
		UserID: owner.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(e2eSecret))
	suite.Require().NoError(err)
	return signed
}

func (suite *E2ETestSuite) do(method, path, token string, body any) *http.Response {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, suite.server.URL+path, reader)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := suite.client.Do(req)
	suite.Require().NoError(err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func searchBody() map[string]any {
	return map[string]any{"location": map[string]any{"lat": 25.0339, "lng": 121.5645}}
}

func (suite *E2ETestSuite) TestPing() {
	resp := suite.do(http.MethodGet, "/ping", "", nil)
	defer resp.Body.Close()
	suite.Equal(http.StatusOK, resp.StatusCode)
}

func (suite *E2ETestSuite) TestCategoriesArePublic() {
	resp := suite.do(http.MethodGet, "/api/v1/categories?lang=en", "", nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	entries := decode[[]map[string]any](suite.T(), resp)
	suite.NotEmpty(entries)
}

func (suite *E2ETestSuite) TestAuthentication() {
	suite.Run("missing token", func() {
		resp := suite.do(http.MethodGet, "/api/v1/settings", "", nil)
		defer resp.Body.Close()
		suite.Equal(http.StatusUnauthorized, resp.StatusCode)
	})
	suite.Run("wrong issuer", func() {
		resp := suite.do(http.MethodGet, "/api/v1/settings", suite.mintToken(suite.owner, "someone-else", time.Hour), nil)
		defer resp.Body.Close()
		suite.Equal(http.StatusUnauthorized, resp.StatusCode)
	})
	suite.Run("expired", func() {
		resp := suite.do(http.MethodGet, "/api/v1/settings", suite.mintToken(suite.owner, suite.cfg.Auth.Issuer, -time.Minute), nil)
		defer resp.Body.Close()
		suite.Equal(http.StatusUnauthorized, resp.StatusCode)
	})
}

func (suite *E2ETestSuite) TestSettingsRoundTrip() {
	owner := uuid.New()
	token := suite.mintToken(owner, suite.cfg.Auth.Issuer, time.Hour)

	resp := suite.do(http.MethodGet, "/api/v1/settings", token, nil)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	defaults := decode[types.SearchConfig](suite.T(), resp)
	suite.Equal(types.DefaultWalkMinutes, defaults.WalkMinutes)

	resp = suite.do(http.MethodPut, "/api/v1/settings", token, map[string]any{"walk_minutes": 15, "categories": []string{"noodles"}})
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	updated := decode[types.SearchConfig](suite.T(), resp)
	suite.Equal(15, updated.WalkMinutes)
	suite.Equal([]string{"noodles"}, updated.Categories)

	resp = suite.do(http.MethodPut, "/api/v1/settings", token, map[string]any{"walk_minutes": 0})
	defer resp.Body.Close()
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (suite *E2ETestSuite) TestSearchRerollAndShare() {
	t := suite.T()

	resp := suite.do(http.MethodPost, "/api/v1/roulette/search", suite.token, searchBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decode[roulette.MatchResponse](t, resp)
	require.NotNil(t, first.SessionID)
	require.NotNil(t, first.Winner)
	assert.Equal(t, 3, first.CandidateCount)
	assert.Equal(t, types.FilterStats{Raw: 3, AfterOpen: 3, AfterDist: 3, AfterPrefs: 3}, first.Stats)
	assert.Equal(t, "https://example.com/"+first.Winner.ID, first.Winner.WebsiteURL)
	assert.Contains(t, first.ShareLink, "resId="+first.Winner.ID)

	seen := map[string]bool{first.Winner.ID: true}
	for range 2 {
		resp = suite.do(http.MethodPost, "/api/v1/roulette/"+first.SessionID.String()+"/reroll", suite.token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		next := decode[roulette.MatchResponse](t, resp)
		require.NotNil(t, next.Winner)
		assert.False(t, seen[next.Winner.ID], "winner %s repeated", next.Winner.ID)
		seen[next.Winner.ID] = true
	}
	assert.Len(t, seen, 3)

	other := suite.mintToken(uuid.New(), suite.cfg.Auth.Issuer, time.Hour)
	resp = suite.do(http.MethodPost, "/api/v1/roulette/"+first.SessionID.String()+"/reroll", other, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "sessions belong to their owner")

	link, err := url.Parse(first.ShareLink)
	require.NoError(t, err)
	path := "/api/v1/roulette/share?" + link.RawQuery
	resp = suite.do(http.MethodGet, path, other, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	restored := decode[roulette.MatchResponse](t, resp)
	require.NotNil(t, restored.Winner)
	assert.Equal(t, first.Winner.ID, restored.Winner.ID)
	assert.Equal(t, 3, restored.CandidateCount)
}

func (suite *E2ETestSuite) TestSearchLocationDenied() {
	resp := suite.do(http.MethodPost, "/api/v1/roulette/search", suite.token,
		map[string]any{"location": map[string]any{"error": "PERMISSION_DENIED"}})
	defer resp.Body.Close()
	suite.Equal(http.StatusForbidden, resp.StatusCode)
}

func (suite *E2ETestSuite) TestShareUnknownPlace() {
	resp := suite.do(http.MethodGet, "/api/v1/roulette/share?resId=missing", suite.token, nil)
	defer resp.Body.Close()
	suite.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestE2ETestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}
