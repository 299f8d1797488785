package report

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinerozz/productivity-tracker-backend/internal/activity"
	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
)

const testUser = "user-1"

var testNow = time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

type memoryRepository struct {
	days map[string]entity.Day
}

func (m *memoryRepository) GetDay(_ context.Context, userID, date string) (*entity.Day, error) {
	day, ok := m.days[date]
	if !ok || day.UserID != userID {
		return nil, nil
	}
	return &day, nil
}

func (m *memoryRepository) SaveDay(_ context.Context, day *entity.Day) error {
	m.days[day.Date] = *day
	return nil
}

func (m *memoryRepository) GetRange(_ context.Context, userID, start, end string, limit int) ([]entity.Day, error) {
	var out []entity.Day
	for _, day := range m.days {
		if day.UserID == userID && day.Date >= start && day.Date <= end {
			out = append(out, day)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepository) GetLatestDay(context.Context, string) (*entity.Day, error) {
	return nil, nil
}

func (m *memoryRepository) DeleteDay(context.Context, string, string) (bool, error) {
	return false, nil
}

func (m *memoryRepository) DeleteRange(context.Context, string, string, string) (int64, error) {
	return 0, nil
}

func (m *memoryRepository) DeleteAll(context.Context, string) (int64, error) {
	return 0, nil
}

type seedVisit struct {
	domain  string
	ms      int64
	started time.Time
}

func seed(t *testing.T, repo *memoryRepository, date string, visits ...seedVisit) *entity.Day {
	t.Helper()
	day := activity.NewDay(testUser, date, testNow)
	for _, v := range visits {
		record := entity.SiteVisitRecord{Domain: v.domain, TimeSpentMs: ptr(v.ms)}
		if !v.started.IsZero() {
			record.Session = &entity.Session{
				StartTime:  v.started,
				EndTime:    v.started.Add(time.Duration(v.ms) * time.Millisecond),
				DurationMs: v.ms,
			}
		}
		require.NoError(t, activity.MergeVisit(day, record, testNow))
	}
	repo.days[date] = *day
	return day
}

func newTestService() (ReportService, *memoryRepository) {
	repo := &memoryRepository{days: map[string]entity.Day{}}
	return NewReportService(repo, Options{
		Location:     time.UTC,
		MaxRangeDays: 366,
		Now:          func() time.Time { return testNow },
	}), repo
}

func TestDaily_MissingDay(t *testing.T) {
	svc, _ := newTestService()

	report, err := svc.Daily(context.Background(), testUser, "2024-03-01")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", report.Date)
	assert.Zero(t, report.Summary.TotalTimeSpentMs)
	assert.Empty(t, report.TopSites)
	assert.Empty(t, report.Insights)
	assert.Len(t, report.HourlyBreakdown, 24)
}

func TestDaily_HourlyAndInsights(t *testing.T) {
	svc, repo := newTestService()
	nine := time.Date(2024, 3, 11, 9, 15, 0, 0, time.UTC)

	day := seed(t, repo, "2024-03-11",
		seedVisit{domain: "github.com", ms: 5 * 3_600_000, started: nine},
		seedVisit{domain: "stackoverflow.com", ms: 4 * 3_600_000, started: nine.Add(6 * time.Hour)},
	)
	require.NoError(t, activity.AddFocusSession(day, entity.FocusSessionRequest{
		StartTime:  nine,
		DurationMs: ptr(int64(1_500_000)),
		Completed:  true,
	}))
	repo.days[day.Date] = *day

	report, err := svc.Daily(context.Background(), testUser, "2024-03-11")
	require.NoError(t, err)

	assert.Equal(t, 100, report.Summary.ProductivityScore)
	assert.Equal(t, 1, report.Summary.FocusSessionsCompleted)
	assert.Equal(t, int64(5*3_600_000), report.HourlyBreakdown[9].TimeMs)
	assert.Equal(t, "9:00 AM", report.HourlyBreakdown[9].Label)
	assert.Equal(t, int64(4*3_600_000), report.HourlyBreakdown[15].TimeMs)

	titles := make([]string, 0, len(report.Insights))
	for _, in := range report.Insights {
		titles = append(titles, in.Title)
	}
	assert.Equal(t, []string{"Excellent Productivity!", "Great Focus!", "High Screen Time"}, titles)
	assert.Equal(t, "You completed 1 focus session today.", report.Insights[1].Message)
}

func TestDaily_InvalidDate(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Daily(context.Background(), testUser, "2024-3-1")
	assert.True(t, activity.IsValidationError(err))
}

func TestWeekly_DefaultsToCurrentWeek(t *testing.T) {
	svc, repo := newTestService()
	seed(t, repo, "2024-03-09", seedVisit{domain: "github.com", ms: 1000})
	seed(t, repo, "2024-03-10", seedVisit{domain: "github.com", ms: 1000})
	seed(t, repo, "2024-03-12", seedVisit{domain: "github.com", ms: 3000})

	report, err := svc.Weekly(context.Background(), testUser, "")
	require.NoError(t, err)

	assert.Equal(t, "2024-03-10", report.WeekStart)
	assert.Equal(t, "2024-03-16", report.WeekEnd)
	assert.Equal(t, 2, report.Summary.ActiveDays)
	assert.Equal(t, int64(4000), report.Summary.TotalTimeMs)
	require.Len(t, report.DailyBreakdown, 2)
	assert.Equal(t, "2024-03-10", report.DailyBreakdown[0].Date)
	assert.Equal(t, entity.TrendIncreasing, report.Trends.TimeSpentTrend)
	require.Len(t, report.Insights, 1)
	assert.Equal(t, "Productive Week!", report.Insights[0].Title)
}

func TestMonthly(t *testing.T) {
	svc, repo := newTestService()
	seed(t, repo, "2024-02-29", seedVisit{domain: "github.com", ms: 2 * 3_600_000})
	seed(t, repo, "2024-02-01", seedVisit{domain: "facebook.com", ms: 3_600_000})
	seed(t, repo, "2024-03-01", seedVisit{domain: "github.com", ms: 3_600_000})

	report, err := svc.Monthly(context.Background(), testUser, 2024, 2)
	require.NoError(t, err)

	assert.Equal(t, "2024-02-01", report.MonthStart)
	assert.Equal(t, "2024-02-29", report.MonthEnd)
	assert.Equal(t, 2, report.Summary.ActiveDays)
	assert.Len(t, report.WeeklyBreakdown, 2)
	require.Len(t, report.Insights, 1)
	assert.Equal(t, "You were active 2 days this month with an average of 1 hours daily.", report.Insights[0].Message)

	_, err = svc.Monthly(context.Background(), testUser, 2024, 13)
	assert.True(t, activity.IsValidationError(err))
}

func TestCustom(t *testing.T) {
	svc, repo := newTestService()
	seed(t, repo, "2024-03-02", seedVisit{domain: "github.com", ms: 1000})
	seed(t, repo, "2024-03-04", seedVisit{domain: "youtube.com", ms: 1000})

	report, err := svc.Custom(context.Background(), testUser, "2024-03-01", "2024-03-07")
	require.NoError(t, err)

	assert.Equal(t, 7, report.DayCount)
	assert.Equal(t, "2024-03-01 - 2024-03-07", report.Period)
	assert.Equal(t, 50, report.Summary.AverageProductivityScore)
	assert.Equal(t, entity.TrendDecreasing, report.Trends.ProductivityTrend)
	require.Len(t, report.Insights, 1)
	assert.Equal(t, "Over 2 days, your average productivity score was 50%.", report.Insights[0].Message)

	_, err = svc.Custom(context.Background(), testUser, "2024-03-07", "2024-03-01")
	assert.True(t, activity.IsValidationError(err))

	_, err = svc.Custom(context.Background(), testUser, "", "2024-03-01")
	assert.True(t, activity.IsValidationError(err))
}

func TestProductivityTrends(t *testing.T) {
	svc, repo := newTestService()
	seed(t, repo, "2024-03-08", seedVisit{domain: "facebook.com", ms: 1000})
	seed(t, repo, "2024-03-10", seedVisit{domain: "github.com", ms: 2000})
	seed(t, repo, "2024-03-11", seedVisit{domain: "github.com", ms: 4000})
	seed(t, repo, "2024-01-01", seedVisit{domain: "github.com", ms: 4000})

	report, err := svc.ProductivityTrends(context.Background(), testUser, 7)
	require.NoError(t, err)

	require.Len(t, report.ProductivityScores, 3)
	assert.Equal(t, "2024-03-08", report.ProductivityScores[0].Date)
	assert.Equal(t, 0, report.ProductivityScores[0].Score)
	assert.Equal(t, 66.67, report.Averages.ProductivityScore)
	assert.Equal(t, 2333.33, report.Averages.DailyTimeMs)
	assert.Equal(t, entity.TrendIncreasing, report.CategoryTrends["work"])
	assert.Equal(t, entity.TrendStable, report.CategoryTrends["news"])

	_, err = svc.ProductivityTrends(context.Background(), testUser, 1000)
	assert.True(t, activity.IsValidationError(err))
}
