package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/pageza/mealmind/backend/internal/testdb"
)

type stubValidator struct {
	userID uuid.UUID
}

func (s stubValidator) ValidateToken(token string) (*TokenClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &TokenClaims{UserID: s.userID}, nil
}

func serve(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	router := gin.New()
	router.Use(AuthMiddleware(stubValidator{userID: userID}))
	router.GET("/", func(c *gin.Context) {
		id, ok := UserID(c)
		require.True(t, ok)
		c.String(http.StatusOK, id.String())
	})

	rr := serve(router, "Bearer good")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, userID.String(), rr.Body.String())

	for _, header := range []string{"", "Token good", "Bearer", "Bearer bad"} {
		rr := serve(router, header)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, header)
	}
}

func TestRequireConfirmedAndAdmin(t *testing.T) {
	db := testdb.NewSQLite(t)

	pending := models.User{Username: "pending", Email: "p@example.com"}
	confirmed := models.User{Username: "cook", Email: "c@example.com", IsConfirmed: true}
	admin := models.User{Username: "boss", Email: "b@example.com", IsConfirmed: true, IsAdmin: true}
	for _, u := range []*models.User{&pending, &confirmed, &admin} {
		require.NoError(t, db.Create(u).Error)
	}

	build := func(userID uuid.UUID, guard gin.HandlerFunc) *gin.Engine {
		router := gin.New()
		router.Use(AuthMiddleware(stubValidator{userID: userID}), guard)
		router.GET("/", func(c *gin.Context) {
			user, ok := CurrentUser(c)
			require.True(t, ok)
			c.String(http.StatusOK, user.Username)
		})
		return router
	}

	assert.Equal(t, http.StatusForbidden, serve(build(pending.ID, RequireConfirmed(db)), "Bearer good").Code)
	assert.Equal(t, http.StatusOK, serve(build(confirmed.ID, RequireConfirmed(db)), "Bearer good").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(build(uuid.New(), RequireConfirmed(db)), "Bearer good").Code)

	assert.Equal(t, http.StatusForbidden, serve(build(confirmed.ID, RequireAdmin(db)), "Bearer good").Code)
	rr := serve(build(admin.ID, RequireAdmin(db)), "Bearer good")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "boss", rr.Body.String())
}

func TestRateLimitMiddleware_RedisDownFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewGenerationRateLimiter(client, 1, time.Minute)
	router := gin.New()
	router.Use(AuthMiddleware(stubValidator{userID: uuid.New()}), limiter.RateLimitMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := serve(router, "Bearer good")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "rate limit check failed", rr.Header().Get("X-RateLimit-Error"))
}

func TestRateLimitMiddleware_Redis(t *testing.T) {
	endpoint := testdb.NewRedis(t)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewGenerationRateLimiter(client, 2, time.Minute)
	limiter.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 30, 0, time.UTC) }
	router := gin.New()
	router.Use(AuthMiddleware(stubValidator{userID: uuid.New()}), limiter.RateLimitMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(router, "Bearer good").Code)
	rr := serve(router, "Bearer good")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, serve(router, "Bearer good").Code)
}
