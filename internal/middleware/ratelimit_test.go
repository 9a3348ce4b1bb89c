package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiter_BurstThenDeny(t *testing.T) {
	limiter := NewMemoryLimiter(3, 60)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, limiter.Allow(ctx, "10.0.0.1"))
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(1, 60)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "10.0.0.1"))
	assert.False(t, limiter.Allow(ctx, "10.0.0.1"))
	assert.True(t, limiter.Allow(ctx, "10.0.0.2"))
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) bool { return false }

func TestRateLimit_Rejects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/checkins", RateLimit(denyAll{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkins", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(context.Context, string) bool { return true }

func TestRateLimit_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/checkins", RateLimit(allowAllLimiter{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkins", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
