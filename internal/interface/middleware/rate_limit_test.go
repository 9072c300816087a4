package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(t *testing.T, max int, allow AllowFunc) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RealIP(), RateLimit(rdb, max, time.Minute, KeyByIP(), allow))
	r.GET("/api/v1/users", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r, mr
}

func hit(r *gin.Engine, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitBlocksAfterMax(t *testing.T) {
	r, _ := newLimitedRouter(t, 2, nil)

	w := hit(r, "/api/v1/users", "203.0.113.7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, hit(r, "/api/v1/users", "203.0.113.7").Code)

	w = hit(r, "/api/v1/users", "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// other clients have their own window
	assert.Equal(t, http.StatusOK, hit(r, "/api/v1/users", "198.51.100.1").Code)
}

func TestRateLimitWindowExpires(t *testing.T) {
	r, mr := newLimitedRouter(t, 1, nil)

	assert.Equal(t, http.StatusOK, hit(r, "/api/v1/users", "203.0.113.7").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/api/v1/users", "203.0.113.7").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit(r, "/api/v1/users", "203.0.113.7").Code)
}

func TestRateLimitAllowList(t *testing.T) {
	r, _ := newLimitedRouter(t, 1, AllowAny(AllowPrivateIP(), AllowPaths("/api/v1/health")))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "/api/v1/users", "10.0.0.5").Code)
		assert.Equal(t, http.StatusOK, hit(r, "/api/v1/health", "203.0.113.7").Code)
	}
	assert.Equal(t, http.StatusOK, hit(r, "/api/v1/users", "203.0.113.7").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/api/v1/users", "203.0.113.7").Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	r, mr := newLimitedRouter(t, 1, nil)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "/api/v1/users", "203.0.113.7").Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	const incoming = "3f1c2a9e-6a0b-4a55-9d33-2a4a1b0c9f11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not a uuid\nX-Evil: 1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not a uuid\nX-Evil: 1", w.Body.String())
}

func TestRealIPPrefersForwardedHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "203.0.113.7", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.9")
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "198.51.100.9", w.Body.String())
}
