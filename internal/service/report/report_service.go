// internal/service/report/report_service.go
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/dinerozz/productivity-tracker-backend/internal/activity"
	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
	"github.com/dinerozz/productivity-tracker-backend/internal/repository"
	"github.com/dinerozz/productivity-tracker-backend/pkg/utils"
)

const defaultTrendDays = 30

type ReportService interface {
	Daily(ctx context.Context, userID, date string) (*entity.DailyReport, error)
	Weekly(ctx context.Context, userID, weekStart string) (*entity.WeeklyReport, error)
	Monthly(ctx context.Context, userID string, year, month int) (*entity.MonthlyReport, error)
	Custom(ctx context.Context, userID, startDate, endDate string) (*entity.CustomReport, error)
	ProductivityTrends(ctx context.Context, userID string, days int) (*entity.ProductivityTrendsReport, error)
}

type Options struct {
	Location     *time.Location
	MaxRangeDays int
	Now          func() time.Time
}

type reportService struct {
	repo         repository.TrackingRepository
	loc          *time.Location
	maxRangeDays int
	now          func() time.Time
}

func NewReportService(repo repository.TrackingRepository, opts Options) ReportService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &reportService{
		repo:         repo,
		loc:          opts.Location,
		maxRangeDays: opts.MaxRangeDays,
		now:          opts.Now,
	}
}

func (s *reportService) Daily(ctx context.Context, userID, date string) (*entity.DailyReport, error) {
	if _, err := activity.ParseDate("date", date, s.loc); err != nil {
		return nil, err
	}

	stored, err := s.repo.GetDay(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get day for report: %w", err)
	}

	day := stored
	if day == nil {
		day = activity.NewDay(userID, date, s.now())
	}
	summary := day.Summary

	report := &entity.DailyReport{
		Date: date,
		Summary: entity.DailyReportSummary{
			TotalTimeSpentMs:       summary.TotalTimeSpentMs,
			TotalSitesVisited:      summary.TotalSitesVisited,
			ProductivityScore:      summary.ProductivityScore,
			FocusSessionsCompleted: completedSessions(summary.FocusSessions),
			BlockedAttempts:        len(summary.BlockedAttempts),
		},
		TopSites:          nonNilTopSites(summary.TopSites),
		CategoryBreakdown: summary.CategoryBreakdown,
		HourlyBreakdown:   hourlyBreakdown(day, s.loc),
		Insights:          []entity.Insight{},
		FocusSessions:     summary.FocusSessions,
		BlockedAttempts:   summary.BlockedAttempts,
	}
	if stored != nil {
		report.Insights = dailyInsights(summary)
	}

	return report, nil
}

func (s *reportService) Weekly(ctx context.Context, userID, weekStart string) (*entity.WeeklyReport, error) {
	var start time.Time
	if weekStart == "" {
		start = utils.StartOfWeek(s.now().In(s.loc))
	} else {
		parsed, err := activity.ParseDate("weekStart", weekStart, s.loc)
		if err != nil {
			return nil, err
		}
		start = parsed
	}
	end := start.AddDate(0, 0, 6)

	days, err := s.days(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	summary := activity.Aggregate(days)

	return &entity.WeeklyReport{
		WeekStart:         utils.DateKey(start, s.loc),
		WeekEnd:           utils.DateKey(end, s.loc),
		Summary:           summary,
		DailyBreakdown:    summary.DailyBreakdown,
		TopSites:          summary.TopSites,
		CategoryBreakdown: summary.CategoryBreakdown,
		Insights:          weeklyInsights(summary),
		Trends:            activity.SeriesTrends(summary.DailyBreakdown),
	}, nil
}

func (s *reportService) Monthly(ctx context.Context, userID string, year, month int) (*entity.MonthlyReport, error) {
	today := s.now().In(s.loc)
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = int(today.Month())
	}
	if month < 1 || month > 12 {
		return nil, activity.NewValidationError("month", "must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return nil, activity.NewValidationError("year", "must be between 1 and 9999")
	}

	start, end := utils.MonthBounds(year, time.Month(month), s.loc)
	days, err := s.days(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	summary := activity.Aggregate(days)

	return &entity.MonthlyReport{
		Year:              year,
		Month:             month,
		MonthStart:        utils.DateKey(start, s.loc),
		MonthEnd:          utils.DateKey(end, s.loc),
		Summary:           summary,
		WeeklyBreakdown:   activity.WeeklyBuckets(days, s.loc),
		TopSites:          summary.TopSites,
		CategoryBreakdown: summary.CategoryBreakdown,
		Insights:          monthlyInsights(summary),
		Trends:            activity.SeriesTrends(summary.DailyBreakdown),
	}, nil
}

func (s *reportService) Custom(ctx context.Context, userID, startDate, endDate string) (*entity.CustomReport, error) {
	start, err := activity.ParseDate("startDate", startDate, s.loc)
	if err != nil {
		return nil, err
	}
	end, err := activity.ParseDate("endDate", endDate, s.loc)
	if err != nil {
		return nil, err
	}
	if err := activity.ValidateRange(start, end, s.maxRangeDays); err != nil {
		return nil, err
	}

	days, err := s.days(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	summary := activity.Aggregate(days)

	return &entity.CustomReport{
		StartDate:         startDate,
		EndDate:           endDate,
		Period:            utils.FormatPeriod(start, end),
		DayCount:          utils.DaysInclusive(start, end),
		Summary:           summary,
		DailyBreakdown:    summary.DailyBreakdown,
		TopSites:          summary.TopSites,
		CategoryBreakdown: summary.CategoryBreakdown,
		Insights:          customInsights(summary),
		Trends:            activity.SeriesTrends(summary.DailyBreakdown),
	}, nil
}

func (s *reportService) ProductivityTrends(ctx context.Context, userID string, days int) (*entity.ProductivityTrendsReport, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	if s.maxRangeDays > 0 && days > s.maxRangeDays {
		return nil, activity.NewValidationError("days", fmt.Sprintf("must not exceed %d", s.maxRangeDays))
	}

	today := utils.StartOfDay(s.now().In(s.loc))
	stored, err := s.days(ctx, userID, today.AddDate(0, 0, -days), today)
	if err != nil {
		return nil, err
	}

	// Aggregate's daily breakdown is already in ascending date order.
	rows := activity.Aggregate(stored).DailyBreakdown

	report := &entity.ProductivityTrendsReport{
		Days:               days,
		ProductivityScores: make([]entity.ScorePoint, 0, len(rows)),
		TimeSpent:          make([]entity.TimePoint, 0, len(rows)),
		CategoryTrends:     activity.CategoryTrends(stored),
	}

	var scoreSum, timeSum float64
	for _, row := range rows {
		report.ProductivityScores = append(report.ProductivityScores, entity.ScorePoint{Date: row.Date, Score: row.ProductivityScore})
		report.TimeSpent = append(report.TimeSpent, entity.TimePoint{Date: row.Date, TimeMs: row.TotalTimeMs})
		scoreSum += float64(row.ProductivityScore)
		timeSum += float64(row.TotalTimeMs)
	}
	if n := float64(len(rows)); n > 0 {
		report.Averages = entity.TrendAverages{
			ProductivityScore: utils.RoundToTwoDecimals(scoreSum / n),
			DailyTimeMs:       utils.RoundToTwoDecimals(timeSum / n),
		}
	}

	return report, nil
}

func (s *reportService) days(ctx context.Context, userID string, start, end time.Time) ([]entity.Day, error) {
	days, err := s.repo.GetRange(ctx, userID, utils.DateKey(start, s.loc), utils.DateKey(end, s.loc), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get days for report: %w", err)
	}
	return days, nil
}

// hourlyBreakdown spreads session durations over 24 buckets by session start hour.
func hourlyBreakdown(day *entity.Day, loc *time.Location) []entity.HourlyBucket {
	buckets := make([]entity.HourlyBucket, 24)
	for hour := range buckets {
		buckets[hour] = entity.HourlyBucket{Hour: hour, Label: utils.FormatHourLabel(hour)}
	}
	for _, site := range day.Sites {
		for _, session := range site.Sessions {
			hour := session.StartTime.In(loc).Hour()
			buckets[hour].TimeMs += session.DurationMs
		}
	}
	return buckets
}

func completedSessions(sessions []entity.FocusSession) int {
	count := 0
	for _, fs := range sessions {
		if fs.Completed {
			count++
		}
	}
	return count
}

func nonNilTopSites(sites []entity.TopSite) []entity.TopSite {
	if sites == nil {
		return []entity.TopSite{}
	}
	return sites
}
