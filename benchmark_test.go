package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	appMiddleware "github.com/FACorreiaa/go-lunch-roulette/app/middleware"
	"github.com/FACorreiaa/go-lunch-roulette/app/observability/metrics"
	"github.com/FACorreiaa/go-lunch-roulette/config"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/kvstore"
	"github.com/FACorreiaa/go-lunch-roulette/internal/api/roulette"
	"github.com/FACorreiaa/go-lunch-roulette/internal/container"
)

type benchmarkSuite struct {
	router http.Handler
	token  string
}

func setupBenchmarkSuite(b *testing.B) *benchmarkSuite {
	b.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{}
	cfg.Auth = config.AuthConfig{JWTSecret: e2eSecret}
	cfg.Session = config.SessionConfig{TTL: time.Hour, ShareBaseURL: "https://lunch.example.com/share"}
	cfg.Server.SearchRateLimit = 1 << 30

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

	claims := appMiddleware.Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(e2eSecret))
	if err != nil {
		b.Fatal(err)
	}
	return &benchmarkSuite{router: c.Router(), token: token}
}

func (s *benchmarkSuite) serve(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func BenchmarkSearch(b *testing.B) {
	s := setupBenchmarkSuite(b)
	body, _ := json.Marshal(searchBody())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if rec := s.serve(http.MethodPost, "/api/v1/roulette/search", body); rec.Code != http.StatusOK {
			b.Fatalf("search returned %d: %s", rec.Code, rec.Body.String())
		}
	}
}

func BenchmarkReroll(b *testing.B) {
	s := setupBenchmarkSuite(b)
	body, _ := json.Marshal(searchBody())
	rec := s.serve(http.MethodPost, "/api/v1/roulette/search", body)
	if rec.Code != http.StatusOK {
		b.Fatalf("search returned %d", rec.Code)
	}
	var first roulette.MatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil || first.SessionID == nil {
		b.Fatalf("no session in search response: %v", err)
	}
	path := "/api/v1/roulette/" + first.SessionID.String() + "/reroll"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if rec := s.serve(http.MethodPost, path, nil); rec.Code != http.StatusOK {
			b.Fatalf("reroll returned %d", rec.Code)
		}
	}
}

func BenchmarkConcurrentSearches(b *testing.B) {
	s := setupBenchmarkSuite(b)
	body, _ := json.Marshal(searchBody())

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			// Same owner: newer searches may supersede older ones.
			rec := s.serve(http.MethodPost, "/api/v1/roulette/search", body)
			if rec.Code != http.StatusOK && rec.Code != http.StatusConflict {
				b.Errorf("search returned %d", rec.Code)
			}
		}
	})
}
