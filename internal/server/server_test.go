package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/makansehat/backend/config"
	"github.com/makansehat/backend/internal/testhelpers"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:                config.Test,
		ServerHost:         "localhost",
		ServerPort:         "0",
		CORSOrigins:        []string{"http://localhost:3000"},
		JWTSecret:          "test-secret",
		JWTTTL:             time.Hour,
		MenuImageURLTTL:    time.Minute,
		AutoAssignSchedule: "0 15 * * FRI",
	}
}

func TestNew(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	srv, err := New(testConfig(), Dependencies{DB: db}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, srv.scheduler)

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/knowledge/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Stats struct {
			Ingredients int `json:"ingredients"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 24, body.Stats.Ingredients)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
}

func TestNewServesRateLimitStatus(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()

	srv, err := New(testConfig(), Dependencies{DB: testhelpers.SetupTestDatabase(t), Redis: client}, zap.NewNop())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rate-limit", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"enabled":false}`, w.Body.String())
}

func TestNewRejectsBadSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.AutoAssignSchedule = "sometimes"

	_, err := New(cfg, Dependencies{DB: testhelpers.SetupTestDatabase(t)}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewWithoutSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.AutoAssignSchedule = ""

	srv, err := New(cfg, Dependencies{DB: testhelpers.SetupTestDatabase(t)}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, srv.scheduler)
}
