package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dinerozz/productivity-tracker-backend/internal/handler/common"
	"github.com/dinerozz/productivity-tracker-backend/internal/model/response/wrapper"
	"github.com/dinerozz/productivity-tracker-backend/internal/ratelimit"
	"github.com/dinerozz/productivity-tracker-backend/pkg/utils"
)

// AuthenticationMiddleware accepts a bearer token or the "token" cookie and stores the
// user_id claim on the context.
func AuthenticationMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			cookie, err := c.Cookie("token")
			if err != nil || cookie == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "Missing authentication token", Success: false})
				return
			}
			tokenString = cookie
		}

		claims, err := utils.ValidateToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "Invalid authentication token", Success: false})
			return
		}

		userID, err := utils.ClaimUserID(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "Invalid user in authentication token", Success: false})
			return
		}

		c.Set(common.UserIDKey, userID)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// RateLimitMiddleware admits each authenticated user through limiter and answers 429
// with a Retry-After hint when the window is full. Must run after authentication.
func RateLimitMiddleware(group string, limiter ratelimit.Limiter, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		userID := c.GetString(common.UserIDKey)
		if userID == "" {
			c.Next()
			return
		}

		allowed, err := limiter.Admit(c.Request.Context(), userID)
		if err != nil {
			// fail open
			logger.Error("rate limiter failed, admitting request",
				"group", group,
				"user_id", userID,
				"error", err,
			)
			c.Next()
			return
		}

		if !allowed {
			retryAfter := limiter.RetryAfter()
			logger.Warn("rate limit exceeded",
				"group", group,
				"user_id", userID,
				"path", c.FullPath(),
			)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, wrapper.RateLimitWrapper{
				Message:    "Too many requests, please try again later",
				Success:    false,
				RetryAfter: retryAfter,
			})
			return
		}

		c.Next()
	}
}
