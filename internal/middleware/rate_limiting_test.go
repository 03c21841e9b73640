package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mygymhq/adminboard/internal/middleware"
	"github.com/mygymhq/adminboard/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rateLimiterMock struct {
	allowed    int
	retryAfter time.Duration
	err        error
	calls      int
}

func (rl *rateLimiterMock) Allow(_ context.Context, _ string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	rl.calls++
	if rl.err != nil {
		return nil, rl.err
	}
	return &redis_rate.Result{
		Allowed:    rl.allowed,
		RetryAfter: rl.retryAfter,
	}, nil
}

func rateLimitedHandler(limiter *rateLimiterMock) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.RateLimit(limiter, "collections", 20, metrics.NewTestManager())(next)
}

func TestRateLimit_Allowed(t *testing.T) {
	limiter := &rateLimiterMock{allowed: 1}
	rr := httptest.NewRecorder()

	rateLimitedHandler(limiter).ServeHTTP(rr, httptest.NewRequest("GET", "/api/collections/exercises", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, limiter.calls)
}

func TestRateLimit_Exceeded(t *testing.T) {
	limiter := &rateLimiterMock{allowed: 0, retryAfter: 30 * time.Second}
	rr := httptest.NewRecorder()

	rateLimitedHandler(limiter).ServeHTTP(rr, httptest.NewRequest("GET", "/api/collections/exercises", nil))

	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "retry after")
}

func TestRateLimit_LimiterError(t *testing.T) {
	limiter := &rateLimiterMock{err: errors.New("redis gone")}
	rr := httptest.NewRecorder()

	rateLimitedHandler(limiter).ServeHTTP(rr, httptest.NewRequest("GET", "/api/collections/exercises", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
