package activity

import (
	"testing"
	"time"

	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDay(t *testing.T, date string, visits ...entity.SiteVisitRecord) entity.Day {
	t.Helper()
	day := NewDay("u", date, testNow)
	for _, v := range visits {
		require.NoError(t, MergeVisit(day, v, testNow))
	}
	return *day
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil)

	assert.Equal(t, int64(0), s.TotalTimeMs)
	assert.Equal(t, 0, s.AverageProductivityScore)
	assert.Empty(t, s.TopSites)
	assert.Empty(t, s.DailyBreakdown)
	assert.Equal(t, 0, s.ActiveDays)
}

func TestAggregate_SumsAndAverages(t *testing.T) {
	d1 := buildDay(t, "2024-03-11",
		visit("github.com", 3_600_000),
		visit("facebook.com", 1_800_000),
	)
	d2 := buildDay(t, "2024-03-10",
		visit("github.com", 1_000_000),
	)
	require.NoError(t, AddFocusSession(&d2, entity.FocusSessionRequest{StartTime: testNow, DurationMs: ptr(int64(1)), Completed: true}))
	require.NoError(t, AddFocusSession(&d2, entity.FocusSessionRequest{StartTime: testNow, DurationMs: ptr(int64(1))}))
	require.NoError(t, AddBlockedAttempt(&d1, "facebook.com", false, testNow))

	// d1 scores 50, d2 scores 100.
	s := Aggregate([]entity.Day{d1, d2})

	assert.Equal(t, int64(6_400_000), s.TotalTimeMs)
	assert.Equal(t, 75, s.AverageProductivityScore)
	assert.Equal(t, int64(4_600_000), s.CategoryBreakdown.Work)
	assert.Equal(t, int64(1_800_000), s.CategoryBreakdown.SocialMedia)
	assert.Equal(t, 1, s.FocusSessionsCompleted)
	assert.Equal(t, 1, s.TotalBlockedAttempts)
	assert.Equal(t, 2, s.ActiveDays)

	require.Len(t, s.DailyBreakdown, 2)
	assert.Equal(t, "2024-03-10", s.DailyBreakdown[0].Date)
	assert.Equal(t, "2024-03-11", s.DailyBreakdown[1].Date)
	assert.Equal(t, 2, s.DailyBreakdown[1].SitesVisited)

	require.Len(t, s.TopSites, 2)
	assert.Equal(t, "github.com", s.TopSites[0].Domain)
	assert.Equal(t, int64(4_600_000), s.TopSites[0].TimeSpentMs)
	assert.Equal(t, int64(2), s.TopSites[0].Visits)
}

func TestAggregate_TopSitesLimitedToTen(t *testing.T) {
	var visits []entity.SiteVisitRecord
	for i := 0; i < 15; i++ {
		visits = append(visits, visit(string(rune('a'+i))+".com", int64(100+i)))
	}
	s := Aggregate([]entity.Day{buildDay(t, "2024-03-11", visits...)})

	require.Len(t, s.TopSites, PeriodTopSites)
	assert.Equal(t, "o.com", s.TopSites[0].Domain)
	assert.Equal(t, "f.com", s.TopSites[9].Domain)
}

func TestAggregate_IndependentOfInputOrder(t *testing.T) {
	d1 := buildDay(t, "2024-03-01", visit("a.com", 10))
	d2 := buildDay(t, "2024-03-02", visit("b.com", 10))
	d3 := buildDay(t, "2024-03-03", visit("a.com", 5))

	assert.Equal(t, Aggregate([]entity.Day{d1, d2, d3}), Aggregate([]entity.Day{d3, d1, d2}))
}

func TestWeeklyBuckets(t *testing.T) {
	days := []entity.Day{
		buildDay(t, "2024-03-02", visit("github.com", 100)),   // Saturday, week of Feb 25
		buildDay(t, "2024-03-03", visit("github.com", 200)),   // Sunday
		buildDay(t, "2024-03-05", visit("facebook.com", 300)), // Tuesday
	}

	buckets := WeeklyBuckets(days, time.UTC)

	require.Len(t, buckets, 2)
	assert.Equal(t, entity.WeekBucket{WeekStart: "2024-02-25", TotalTimeMs: 100, AvgProductivity: 100, Days: 1}, buckets[0])
	assert.Equal(t, "2024-03-03", buckets[1].WeekStart)
	assert.Equal(t, int64(500), buckets[1].TotalTimeMs)
	assert.Equal(t, 2, buckets[1].Days)
	assert.Equal(t, 50, buckets[1].AvgProductivity)
}

func TestCategoryShares(t *testing.T) {
	shares := CategoryShares(entity.CategoryBreakdown{Work: 1, SocialMedia: 2})

	assert.Equal(t, 33, shares["work"])
	assert.Equal(t, 67, shares["socialMedia"])
	assert.Equal(t, 0, shares["other"])
	assert.Len(t, shares, len(entity.Categories))

	assert.Equal(t, 0, CategoryShares(entity.CategoryBreakdown{})["work"])
}
