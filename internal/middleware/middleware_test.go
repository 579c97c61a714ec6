package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSessionAndRole(t *testing.T) {
	tokens := service.NewTokenService("test-secret", nil, time.Hour, time.Hour)
	tutor := &model.Account{ID: uuid.New(), Role: model.RoleTutor, Email: "t@example.com"}
	session, err := tokens.IssueSession(tutor)
	require.NoError(t, err)
	verification, err := tokens.IssueVerification(tutor.ID, tutor.Role)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/tutor", RequireSession(tokens), RequireRole(model.RoleTutor), func(c *gin.Context) {
		p, ok := Principal(c)
		require.True(t, ok)
		c.String(http.StatusOK, p.ID.String())
	})
	r.GET("/student", RequireSession(tokens), RequireRole(model.RoleStudent), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/any", RequireSession(tokens), RequireAnyRole(model.RoleStudent, model.RoleTutor), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "no token", path: "/tutor", want: http.StatusUnauthorized},
		{name: "malformed header", path: "/tutor", header: "Token " + session, want: http.StatusUnauthorized},
		{name: "verification token is not a session", path: "/tutor", header: "Bearer " + verification, want: http.StatusUnauthorized},
		{name: "tutor session", path: "/tutor", header: "Bearer " + session, want: http.StatusOK},
		{name: "lowercase scheme", path: "/tutor", header: "bearer " + session, want: http.StatusOK},
		{name: "query token", path: "/tutor?token=" + session, want: http.StatusOK},
		{name: "wrong role", path: "/student", header: "Bearer " + session, want: http.StatusForbidden},
		{name: "any role", path: "/any", header: "Bearer " + session, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want == http.StatusOK && tt.path == "/tutor" {
				assert.Equal(t, tutor.ID.String(), w.Body.String())
			}
		})
	}
}

func TestRequireRoleWithoutSession(t *testing.T) {
	r := gin.New()
	r.GET("/", RequireRole(model.RoleTutor), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type memoryCounter struct {
	mu   sync.Mutex
	hits map[string]int64
	err  error
}

func (m *memoryCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hits == nil {
		m.hits = map[string]int64{}
	}
	m.hits[key]++
	return m.hits[key], nil
}

func TestRateLimiter(t *testing.T) {
	counter := &memoryCounter{}
	limiter := NewRateLimiter(counter, "auth", 2, time.Minute, zerolog.Nop())

	r := gin.New()
	r.POST("/login", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")

	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "10.0.0.9:1234"
	assert.Equal(t, http.StatusOK, serve(r, other).Code, "budgets are per client IP")
}

func TestRateLimiterFailsOpen(t *testing.T) {
	limiter := NewRateLimiter(&memoryCounter{err: errors.New("redis down")}, "auth", 1, time.Minute, zerolog.Nop())

	r := gin.New()
	r.POST("/login", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/login", nil)).Code)
	}
}

func TestBrotli(t *testing.T) {
	large := strings.Repeat("classroom ", 500)

	r := gin.New()
	r.Use(Brotli())
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusCreated, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusAccepted, "ok") })

	t.Run("compresses large bodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/large", nil)
		req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
		w := serve(r, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
		body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
		require.NoError(t, err)
		assert.Equal(t, large, string(body))
	})

	t.Run("leaves small bodies alone", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/small", nil)
		req.Header.Set("Accept-Encoding", "br")
		w := serve(r, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("skips clients without brotli", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/large", nil))
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, large, w.Body.String())
	})
}

func TestCacheHeaders(t *testing.T) {
	r := gin.New()
	r.GET("/static", CacheControl(60), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/private", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/static", nil))
	assert.Equal(t, "public, max-age=60", w.Header().Get("Cache-Control"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", w.Header().Get("Pragma"))
}
