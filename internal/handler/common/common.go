// Package common holds the request helpers shared by the tracking, sync and report handlers.
package common

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dinerozz/productivity-tracker-backend/internal/activity"
	"github.com/dinerozz/productivity-tracker-backend/internal/model/response/wrapper"
)

const UserIDKey = "user_id"

// UserID returns the authenticated user, writing 401 when the middleware did not set one.
func UserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(UserIDKey)
	userID, ok := value.(string)
	if !exists || !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, wrapper.ErrorWrapper{Message: "User ID not found", Success: false})
		return "", false
	}
	return userID, true
}

// WriteError maps validation failures to 400 and everything else to 500.
func WriteError(c *gin.Context, err error, message string) {
	var ve *activity.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: ve.Error(), Success: false})
		return
	}

	log.Printf("❌ %s: %v", message, err)
	c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{Message: message, Success: false})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{Message: message, Success: false})
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: data, Success: true})
}

// QueryInt reads an optional integer query parameter; absent means fallback.
func QueryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, activity.NewValidationError(name, "must be an integer")
	}
	return value, nil
}
