package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinerozz/productivity-tracker-backend/internal/handler/common"
	"github.com/dinerozz/productivity-tracker-backend/internal/model/response/wrapper"
	"github.com/dinerozz/productivity-tracker-backend/internal/ratelimit"
	"github.com/dinerozz/productivity-tracker-backend/pkg/utils"
)

var testSecret = []byte("middleware-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(common.UserIDKey)})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthenticationMiddleware(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	valid, err := utils.GenerateToken(userID, testSecret)
	require.NoError(t, err)

	foreign, err := utils.GenerateToken(userID, []byte("other"))
	require.NoError(t, err)

	notUUID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "42",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
		status int
	}{
		{name: "bearer", header: "Bearer " + valid, status: http.StatusOK},
		{name: "lower-case scheme", header: "bearer " + valid, status: http.StatusOK},
		{name: "cookie", cookie: valid, status: http.StatusOK},
		{name: "missing", status: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreign, status: http.StatusUnauthorized},
		{name: "user id is not a uuid", header: "Bearer " + notUUID, status: http.StatusUnauthorized},
	}

	r := newRouter(AuthenticationMiddleware(testSecret))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), userID.String())
			}
		})
	}
}

func withUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(common.UserIDKey, userID)
		c.Next()
	}
}

func TestRateLimitMiddleware_Rejects(t *testing.T) {
	limiter := ratelimit.NewSlidingWindow(ratelimit.Config{MaxRequests: 2, Window: 15 * time.Minute}, nil)
	r := newRouter(withUser("user-1"), RateLimitMiddleware("tracking", limiter, quietLogger()))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "900", w.Header().Get("Retry-After"))

	var body wrapper.RateLimitWrapper
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, 900, body.RetryAfter)
	assert.NotEmpty(t, body.Message)
}

type brokenLimiter struct{}

func (brokenLimiter) Admit(context.Context, string) (bool, error) {
	return false, errors.New("boom")
}

func (brokenLimiter) RetryAfter() int { return 1 }

func TestRateLimitMiddleware_FailsOpen(t *testing.T) {
	r := newRouter(withUser("user-1"), RateLimitMiddleware("reports", brokenLimiter{}, quietLogger()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
