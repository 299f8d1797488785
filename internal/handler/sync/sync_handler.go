// internal/handler/sync/sync_handler.go
package sync

import (
	"github.com/gin-gonic/gin"

	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
	"github.com/dinerozz/productivity-tracker-backend/internal/handler/common"
	service "github.com/dinerozz/productivity-tracker-backend/internal/service/tracking"
)

type SyncHandler struct {
	service service.TrackingService
}

func NewSyncHandler(service service.TrackingService) *SyncHandler {
	return &SyncHandler{
		service: service,
	}
}

// Sync godoc
// @Summary      Sync extension daily stats
// @Description  Merge the extension's local dailyStats (date -> domain -> stats). Entries without time are skipped; each date succeeds or fails on its own.
// @Tags         /api/v1/sync
// @Accept       json
// @Produce      json
// @Param        payload  body      entity.SyncRequest  true  "Daily stats"
// @Success      200      {object}  wrapper.ResponseWrapper{data=entity.SyncResult}
// @Failure      400      {object}  wrapper.ErrorWrapper
// @Failure      429      {object}  wrapper.RateLimitWrapper
// @Failure      500      {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /sync [post]
func (h *SyncHandler) Sync(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	var req entity.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.Sync(c.Request.Context(), userID, req)
	if err != nil {
		common.WriteError(c, err, "Sync failed")
		return
	}

	common.OK(c, result)
}

// BulkSync godoc
// @Summary      Bulk sync several days
// @Description  With overwrite=true each listed day replaces the stored one instead of merging into it.
// @Tags         /api/v1/sync
// @Accept       json
// @Produce      json
// @Param        payload  body      entity.BulkSyncRequest  true  "Days to sync"
// @Success      200      {object}  wrapper.ResponseWrapper{data=entity.BulkSyncResult}
// @Failure      400      {object}  wrapper.ErrorWrapper
// @Failure      500      {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /sync/bulk [post]
func (h *SyncHandler) BulkSync(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	var req entity.BulkSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.BulkSync(c.Request.Context(), userID, req)
	if err != nil {
		common.WriteError(c, err, "Bulk sync failed")
		return
	}

	common.OK(c, result)
}

// FocusSession godoc
// @Summary      Sync a focus session
// @Tags         /api/v1/sync
// @Accept       json
// @Produce      json
// @Param        session  body      entity.FocusSessionRequest  true  "Focus session"
// @Success      200      {object}  wrapper.ResponseWrapper{data=entity.FocusSessionResult}
// @Failure      400      {object}  wrapper.ErrorWrapper
// @Failure      500      {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /sync/focus-session [post]
func (h *SyncHandler) FocusSession(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	var req entity.FocusSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.AddFocusSession(c.Request.Context(), userID, req)
	if err != nil {
		common.WriteError(c, err, "Failed to sync focus session")
		return
	}

	common.OK(c, result)
}

// BlockedAttempt godoc
// @Summary      Log a blocked site attempt
// @Tags         /api/v1/sync
// @Accept       json
// @Produce      json
// @Param        attempt  body      entity.BlockedAttemptRequest  true  "Blocked attempt"
// @Success      200      {object}  wrapper.ResponseWrapper{data=entity.BlockedAttemptResult}
// @Failure      400      {object}  wrapper.ErrorWrapper
// @Failure      500      {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /sync/blocked-attempt [post]
func (h *SyncHandler) BlockedAttempt(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	var req entity.BlockedAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.AddBlockedAttempt(c.Request.Context(), userID, req)
	if err != nil {
		common.WriteError(c, err, "Failed to log blocked attempt")
		return
	}

	common.OK(c, result)
}

// GetData godoc
// @Summary      Export synced data
// @Description  Returns stored days in the extension's dailyStats shape, newest first.
// @Tags         /api/v1/sync
// @Produce      json
// @Param        startDate  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        endDate    query     string  false  "End date (YYYY-MM-DD)"
// @Param        limit      query     int     false  "Maximum days (default 30)"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.SyncData}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /sync/data [get]
func (h *SyncHandler) GetData(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	limit, err := common.QueryInt(c, "limit", 0)
	if err != nil {
		common.WriteError(c, err, "Invalid limit")
		return
	}

	data, err := h.service.ExportData(c.Request.Context(), userID, c.Query("startDate"), c.Query("endDate"), limit)
	if err != nil {
		common.WriteError(c, err, "Failed to get sync data")
		return
	}

	common.OK(c, data)
}

// Status godoc
// @Summary      Get sync status
// @Tags         /api/v1/sync
// @Produce      json
// @Success      200  {object}  wrapper.ResponseWrapper{data=entity.SyncStatus}
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /sync/status [get]
func (h *SyncHandler) Status(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	status, err := h.service.GetSyncStatus(c.Request.Context(), userID)
	if err != nil {
		common.WriteError(c, err, "Failed to get sync status")
		return
	}

	common.OK(c, status)
}

// DeleteData godoc
// @Summary      Delete synced data
// @Description  Requires confirmDelete=true. Without dateRange every stored day of the user is removed.
// @Tags         /api/v1/sync
// @Accept       json
// @Produce      json
// @Param        payload  body      entity.DeleteDataRequest  true  "Deletion request"
// @Success      200      {object}  wrapper.ResponseWrapper{data=entity.DeleteResult}
// @Failure      400      {object}  wrapper.ErrorWrapper
// @Failure      500      {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /sync/data [delete]
func (h *SyncHandler) DeleteData(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	var req entity.DeleteDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.DeleteData(c.Request.Context(), userID, req)
	if err != nil {
		common.WriteError(c, err, "Failed to delete sync data")
		return
	}

	common.OK(c, result)
}
