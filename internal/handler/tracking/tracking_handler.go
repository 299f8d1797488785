// internal/handler/tracking/tracking_handler.go
package tracking

import (
	"github.com/gin-gonic/gin"

	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
	"github.com/dinerozz/productivity-tracker-backend/internal/handler/common"
	service "github.com/dinerozz/productivity-tracker-backend/internal/service/tracking"
)

type TrackingHandler struct {
	service service.TrackingService
}

func NewTrackingHandler(service service.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		service: service,
	}
}

// RecordSite godoc
// @Summary      Record site usage
// @Description  Merge one site visit into the day's aggregate. Visits shorter than the configured minimum are acknowledged but not stored.
// @Tags         /api/v1/tracking
// @Accept       json
// @Produce      json
// @Param        visit  body      entity.SiteVisitRecord  true  "Site visit"
// @Success      200    {object}  wrapper.ResponseWrapper{data=entity.RecordVisitResponse}
// @Failure      400    {object}  wrapper.ErrorWrapper
// @Failure      429    {object}  wrapper.RateLimitWrapper
// @Failure      500    {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /tracking/site [post]
func (h *TrackingHandler) RecordSite(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	var req entity.SiteVisitRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.RecordVisit(c.Request.Context(), userID, req)
	if err != nil {
		common.WriteError(c, err, "Failed to add site tracking data")
		return
	}

	common.OK(c, resp)
}

// GetToday godoc
// @Summary      Get today's tracking data
// @Tags         /api/v1/tracking
// @Produce      json
// @Success      200  {object}  wrapper.ResponseWrapper{data=entity.DayResponse}
// @Failure      500  {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /tracking/today [get]
func (h *TrackingHandler) GetToday(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	day, err := h.service.GetToday(c.Request.Context(), userID)
	if err != nil {
		common.WriteError(c, err, "Failed to get today's tracking data")
		return
	}

	common.OK(c, day)
}

// GetDate godoc
// @Summary      Get tracking data for a date
// @Tags         /api/v1/tracking
// @Produce      json
// @Param        date  path      string  true  "Date (YYYY-MM-DD)"
// @Success      200   {object}  wrapper.ResponseWrapper{data=entity.DayResponse}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Failure      500   {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /tracking/date/{date} [get]
func (h *TrackingHandler) GetDate(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	day, err := h.service.GetDay(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		common.WriteError(c, err, "Failed to get tracking data for date")
		return
	}

	common.OK(c, day)
}

// DeleteDate godoc
// @Summary      Delete tracking data for a date
// @Tags         /api/v1/tracking
// @Produce      json
// @Param        date  path      string  true  "Date (YYYY-MM-DD)"
// @Success      200   {object}  wrapper.ResponseWrapper{data=entity.DeleteResult}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Failure      500   {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /tracking/date/{date} [delete]
func (h *TrackingHandler) DeleteDate(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	result, err := h.service.DeleteDay(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		common.WriteError(c, err, "Failed to delete tracking data")
		return
	}

	common.OK(c, result)
}

// GetRange godoc
// @Summary      Get tracking data for a date range
// @Tags         /api/v1/tracking
// @Produce      json
// @Param        startDate  query     string  true   "Start date (YYYY-MM-DD)"
// @Param        endDate    query     string  true   "End date (YYYY-MM-DD)"
// @Param        limit      query     int     false  "Maximum days returned (default 30)"
// @Success      200        {object}  wrapper.ResponseWrapper{data=[]entity.DayResponse}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /tracking/range [get]
func (h *TrackingHandler) GetRange(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	limit, err := common.QueryInt(c, "limit", 0)
	if err != nil {
		common.WriteError(c, err, "Invalid limit")
		return
	}

	days, err := h.service.GetRange(c.Request.Context(), userID, c.Query("startDate"), c.Query("endDate"), limit)
	if err != nil {
		common.WriteError(c, err, "Failed to get tracking data for range")
		return
	}

	common.OK(c, days)
}

// GetWeekly godoc
// @Summary      Get weekly summary
// @Tags         /api/v1/tracking
// @Produce      json
// @Param        weekStart  path      string  true  "First day of the week (YYYY-MM-DD)"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.PeriodSummary}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /tracking/weekly/{weekStart} [get]
func (h *TrackingHandler) GetWeekly(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	summary, err := h.service.GetWeeklySummary(c.Request.Context(), userID, c.Param("weekStart"))
	if err != nil {
		common.WriteError(c, err, "Failed to get weekly summary")
		return
	}

	common.OK(c, summary)
}

// GetStats godoc
// @Summary      Get tracking statistics
// @Tags         /api/v1/tracking
// @Produce      json
// @Param        days  query     int  false  "Look-back window in days (default 30)"
// @Success      200   {object}  wrapper.ResponseWrapper{data=entity.UserStats}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Failure      500   {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /tracking/stats [get]
func (h *TrackingHandler) GetStats(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	days, err := common.QueryInt(c, "days", 0)
	if err != nil {
		common.WriteError(c, err, "Invalid days")
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), userID, days)
	if err != nil {
		common.WriteError(c, err, "Failed to get tracking statistics")
		return
	}

	common.OK(c, stats)
}

// GetCategories godoc
// @Summary      Get category breakdown
// @Description  Defaults to the last seven days when no range is given.
// @Tags         /api/v1/tracking
// @Produce      json
// @Param        startDate  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        endDate    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.CategoryReport}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /tracking/categories [get]
func (h *TrackingHandler) GetCategories(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	report, err := h.service.GetCategoryBreakdown(c.Request.Context(), userID, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		common.WriteError(c, err, "Failed to get category breakdown")
		return
	}

	common.OK(c, report)
}

// GetTopSites godoc
// @Summary      Get top sites
// @Tags         /api/v1/tracking
// @Produce      json
// @Param        startDate  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        endDate    query     string  false  "End date (YYYY-MM-DD)"
// @Param        limit      query     int     false  "Number of sites (default 10)"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.TopSitesReport}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /tracking/top-sites [get]
func (h *TrackingHandler) GetTopSites(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	limit, err := common.QueryInt(c, "limit", 0)
	if err != nil {
		common.WriteError(c, err, "Invalid limit")
		return
	}

	report, err := h.service.GetTopSites(c.Request.Context(), userID, c.Query("startDate"), c.Query("endDate"), limit)
	if err != nil {
		common.WriteError(c, err, "Failed to get top sites")
		return
	}

	common.OK(c, report)
}
