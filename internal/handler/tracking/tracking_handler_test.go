package tracking

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
	"github.com/dinerozz/productivity-tracker-backend/internal/handler/common"
	"github.com/dinerozz/productivity-tracker-backend/internal/repository"
	service "github.com/dinerozz/productivity-tracker-backend/internal/service/tracking"
)

const testUser = "0f8fad5b-d9cb-469f-a165-70867728950e"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repository.Migrate(db))

	now := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	svc := service.NewTrackingService(repository.NewTrackingRepository(db), service.Options{
		MinVisitMs:   1000,
		Location:     time.UTC,
		MaxRangeDays: 366,
		Now:          func() time.Time { return now },
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	h := NewTrackingHandler(svc)

	r := gin.New()
	api := r.Group("/api/v1/tracking")
	api.Use(func(c *gin.Context) {
		c.Set(common.UserIDKey, testUser)
		c.Next()
	})
	api.POST("/site", h.RecordSite)
	api.GET("/today", h.GetToday)
	api.GET("/date/:date", h.GetDate)
	api.GET("/range", h.GetRange)
	return r
}

type envelope[T any] struct {
	Data    T      `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecordSiteThenReadToday(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/tracking/site", map[string]interface{}{
		"domain":    "github.com",
		"timeSpent": 600000,
		"session": map[string]interface{}{
			"startTime": "2024-03-12T09:00:00Z",
			"endTime":   "2024-03-12T09:10:00Z",
			"duration":  600000,
			"idleTime":  60000,
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var recorded envelope[entity.RecordVisitResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recorded))
	assert.True(t, recorded.Success)
	assert.True(t, recorded.Data.Recorded)

	w = doJSON(r, http.MethodGet, "/api/v1/tracking/today", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var today envelope[entity.DayResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &today))
	assert.Equal(t, "2024-03-12", today.Data.Date)
	assert.Equal(t, int64(600000), today.Data.Summary.TotalTimeSpentMs)
	assert.Equal(t, int64(540000), today.Data.ActiveTimeMs)
}

func TestRecordSite_BadRequests(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "missing time", body: map[string]interface{}{"domain": "github.com"}},
		{name: "score out of range", body: map[string]interface{}{"domain": "github.com", "timeSpent": 5000, "productivityScore": 101}},
		{name: "idle exceeds duration", body: map[string]interface{}{
			"domain":    "github.com",
			"timeSpent": 5000,
			"session": map[string]interface{}{
				"startTime": "2024-03-12T09:00:00Z",
				"endTime":   "2024-03-12T09:00:05Z",
				"duration":  5000,
				"idleTime":  6000,
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/v1/tracking/site", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var resp envelope[interface{}]
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
		})
	}
}

func TestGetDate_InvalidAndRange(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/tracking/date/yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/tracking/range?startDate=2024-03-10&endDate=2024-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/tracking/range?startDate=2024-03-01&endDate=2024-03-10&limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/tracking/range?startDate=2024-03-01&endDate=2024-03-10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var days envelope[[]entity.DayResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &days))
	assert.Empty(t, days.Data)
}
