package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func statusRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.GET("/rate-limit", rl.StatusHandler())
	return router
}

func status(t *testing.T, router *gin.Engine) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/rate-limit", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr, body
}

func hit(router *gin.Engine) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	return rr
}

func TestRateLimitDisabled(t *testing.T) {
	router := limitedRouter(NewLookupRateLimiter(nil, 1, time.Minute, zap.NewNop()))
	for i := 0; i < 3; i++ {
		rr := hit(router)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitStatusDisabled(t *testing.T) {
	rr, body := status(t, statusRouter(NewLookupRateLimiter(nil, 1, time.Minute, zap.NewNop())))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, body["enabled"])
}

func TestRateLimitFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	rr := hit(limitedRouter(NewLookupRateLimiter(client, 1, time.Minute, zap.NewNop())))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "rate limit check failed", rr.Header().Get("X-RateLimit-Error"))
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRateLimitRedis(t *testing.T) {
	client := setupRedis(t)
	rl := NewLookupRateLimiter(client, 2, time.Hour, zap.NewNop())
	router := limitedRouter(rl)

	first := hit(router)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, hit(router).Code)

	blocked := hit(router)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	// the status route sits outside the limiter and does not consume quota
	for i := 0; i < 2; i++ {
		rr, body := status(t, statusRouter(rl))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, true, body["enabled"])
		assert.Equal(t, float64(0), body["remaining"])
		assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
	}

	remaining, _, err := rl.GetRemainingRequests(context.Background(), "ip:192.0.2.1")
	require.NoError(t, err)
	assert.Zero(t, remaining)

	remaining, _, err = rl.GetRemainingRequests(context.Background(), "ip:198.51.100.7")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}
