package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/geocoder89/koinonia/internal/auth"
	"github.com/geocoder89/koinonia/internal/config"
	apphttp "github.com/geocoder89/koinonia/internal/http"
	"github.com/geocoder89/koinonia/internal/observability"
	"github.com/geocoder89/koinonia/internal/repo/memory"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func testConfig() config.Config {
	return config.Config{
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpiresIn:       time.Hour,
		CORSAllowedOrigins: []string{"*"},
		LoginRatePerMinute: 100,
		MaxBodyBytes:       1 << 20,
		OTelServiceName:    "koinonia-test",
	}
}

// memRevocations is a process-local denylist standing in for Redis.
type memRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (m *memRevocations) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]time.Time)
	}
	m.revoked[jti] = expiresAt
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

func newMemoryRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newMemoryRouterWithStore(t, memory.NewStore())
}

func newMemoryRouterWithStore(t *testing.T, store *memory.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	reg := prometheus.NewRegistry()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return apphttp.NewRouter(logger, cfg, apphttp.Deps{
		Users:       store.Users(),
		Events:      store.Events(),
		Enrollments: store.Enrollments(),
		Ping:        store.Ping,
		JWT:         auth.NewManager(cfg.SigningSecret(), cfg.JWTExpiresIn),
		Revocations: &memRevocations{},
		Prom:        observability.NewProm(reg),
		Gatherer:    reg,
	})
}

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func (c *client) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	c.t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %T: %v body=%s", out, err, rec.Body.String())
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body=%s", rec.Code, want, rec.Body.String())
	}
}
