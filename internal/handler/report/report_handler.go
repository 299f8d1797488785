// internal/handler/report/report_handler.go
package report

import (
	"github.com/gin-gonic/gin"

	"github.com/dinerozz/productivity-tracker-backend/internal/handler/common"
	service "github.com/dinerozz/productivity-tracker-backend/internal/service/report"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(service service.ReportService) *ReportHandler {
	return &ReportHandler{
		service: service,
	}
}

// Daily godoc
// @Summary      Daily report
// @Tags         /api/v1/reports
// @Produce      json
// @Param        date  path      string  true  "Date (YYYY-MM-DD)"
// @Success      200   {object}  wrapper.ResponseWrapper{data=entity.DailyReport}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Failure      429   {object}  wrapper.RateLimitWrapper
// @Failure      500   {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /reports/daily/{date} [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	report, err := h.service.Daily(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		common.WriteError(c, err, "Failed to generate daily report")
		return
	}

	common.OK(c, report)
}

// Weekly godoc
// @Summary      Weekly report
// @Description  Without weekStart the current Sunday-based week is used.
// @Tags         /api/v1/reports
// @Produce      json
// @Param        weekStart  query     string  false  "First day of the week (YYYY-MM-DD)"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.WeeklyReport}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /reports/weekly [get]
func (h *ReportHandler) Weekly(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	report, err := h.service.Weekly(c.Request.Context(), userID, c.Query("weekStart"))
	if err != nil {
		common.WriteError(c, err, "Failed to generate weekly report")
		return
	}

	common.OK(c, report)
}

// Monthly godoc
// @Summary      Monthly report
// @Tags         /api/v1/reports
// @Produce      json
// @Param        year   query     int  false  "Year (default current)"
// @Param        month  query     int  false  "Month 1-12 (default current)"
// @Success      200    {object}  wrapper.ResponseWrapper{data=entity.MonthlyReport}
// @Failure      400    {object}  wrapper.ErrorWrapper
// @Failure      500    {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /reports/monthly [get]
func (h *ReportHandler) Monthly(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	year, err := common.QueryInt(c, "year", 0)
	if err != nil {
		common.WriteError(c, err, "Invalid year")
		return
	}
	month, err := common.QueryInt(c, "month", 0)
	if err != nil {
		common.WriteError(c, err, "Invalid month")
		return
	}

	report, err := h.service.Monthly(c.Request.Context(), userID, year, month)
	if err != nil {
		common.WriteError(c, err, "Failed to generate monthly report")
		return
	}

	common.OK(c, report)
}

// Custom godoc
// @Summary      Custom range report
// @Tags         /api/v1/reports
// @Produce      json
// @Param        startDate  query     string  true  "Start date (YYYY-MM-DD)"
// @Param        endDate    query     string  true  "End date (YYYY-MM-DD)"
// @Success      200        {object}  wrapper.ResponseWrapper{data=entity.CustomReport}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Failure      500        {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /reports/custom [get]
func (h *ReportHandler) Custom(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	report, err := h.service.Custom(c.Request.Context(), userID, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		common.WriteError(c, err, "Failed to generate custom report")
		return
	}

	common.OK(c, report)
}

// ProductivityTrends godoc
// @Summary      Productivity trends
// @Tags         /api/v1/reports
// @Produce      json
// @Param        days  query     int  false  "Look-back window in days (default 30)"
// @Success      200   {object}  wrapper.ResponseWrapper{data=entity.ProductivityTrendsReport}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Failure      500   {object}  wrapper.ErrorWrapper
// @Security     BearerAuth
// @Router       /reports/productivity-trends [get]
func (h *ReportHandler) ProductivityTrends(c *gin.Context) {
	userID, ok := common.UserID(c)
	if !ok {
		return
	}

	days, err := common.QueryInt(c, "days", 0)
	if err != nil {
		common.WriteError(c, err, "Invalid days")
		return
	}

	report, err := h.service.ProductivityTrends(c.Request.Context(), userID, days)
	if err != nil {
		common.WriteError(c, err, "Failed to get productivity trends")
		return
	}

	common.OK(c, report)
}
