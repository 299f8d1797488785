// entity/report.go
package entity

import "time"

type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

type DailyBreakdownRow struct {
	Date              string `json:"date"`
	TotalTimeMs       int64  `json:"totalTime"`
	ProductivityScore int    `json:"productivityScore"`
	SitesVisited      int    `json:"sitesVisited"`
}

// PeriodSummary is computed on demand and never persisted.
type PeriodSummary struct {
	TotalTimeMs              int64               `json:"totalTime"`
	AverageProductivityScore int                 `json:"averageProductivityScore"`
	CategoryBreakdown        CategoryBreakdown   `json:"categoryBreakdown"`
	TopSites                 []TopSite           `json:"topSites"`
	FocusSessionsCompleted   int                 `json:"focusSessionsCompleted"`
	TotalBlockedAttempts     int                 `json:"totalBlockedAttempts"`
	DailyBreakdown           []DailyBreakdownRow `json:"dailyBreakdown"`
	ActiveDays               int                 `json:"activeDays"`
}

type Trends struct {
	TimeSpentTrend    TrendDirection `json:"timeSpentTrend"`
	ProductivityTrend TrendDirection `json:"productivityTrend"`
}

type WeekBucket struct {
	WeekStart       string `json:"weekStart"`
	TotalTimeMs     int64  `json:"totalTime"`
	AvgProductivity int    `json:"avgProductivity"`
	Days            int    `json:"days"`
}

type Insight struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type HourlyBucket struct {
	Hour   int    `json:"hour"`
	Label  string `json:"label"`
	TimeMs int64  `json:"time"`
}

type DailyReportSummary struct {
	TotalTimeSpentMs       int64 `json:"totalTimeSpent"`
	TotalSitesVisited      int   `json:"totalSitesVisited"`
	ProductivityScore      int   `json:"productivityScore"`
	FocusSessionsCompleted int   `json:"focusSessionsCompleted"`
	BlockedAttempts        int   `json:"blockedAttempts"`
}

type DailyReport struct {
	Date              string             `json:"date"`
	Summary           DailyReportSummary `json:"summary"`
	TopSites          []TopSite          `json:"topSites"`
	CategoryBreakdown CategoryBreakdown  `json:"categoryBreakdown"`
	HourlyBreakdown   []HourlyBucket     `json:"hourlyBreakdown"`
	Insights          []Insight          `json:"insights"`
	FocusSessions     []FocusSession     `json:"focusSessions"`
	BlockedAttempts   []BlockedAttempt   `json:"blockedAttempts"`
}

type WeeklyReport struct {
	WeekStart         string              `json:"weekStart"`
	WeekEnd           string              `json:"weekEnd"`
	Summary           PeriodSummary       `json:"summary"`
	DailyBreakdown    []DailyBreakdownRow `json:"dailyBreakdown"`
	TopSites          []TopSite           `json:"topSites"`
	CategoryBreakdown CategoryBreakdown   `json:"categoryBreakdown"`
	Insights          []Insight           `json:"insights"`
	Trends            Trends              `json:"trends"`
}

type MonthlyReport struct {
	Year              int               `json:"year"`
	Month             int               `json:"month"`
	MonthStart        string            `json:"monthStart"`
	MonthEnd          string            `json:"monthEnd"`
	Summary           PeriodSummary     `json:"summary"`
	WeeklyBreakdown   []WeekBucket      `json:"weeklyBreakdown"`
	TopSites          []TopSite         `json:"topSites"`
	CategoryBreakdown CategoryBreakdown `json:"categoryBreakdown"`
	Insights          []Insight         `json:"insights"`
	Trends            Trends            `json:"trends"`
}

type CustomReport struct {
	StartDate         string              `json:"startDate"`
	EndDate           string              `json:"endDate"`
	Period            string              `json:"period"`
	DayCount          int                 `json:"dayCount"`
	Summary           PeriodSummary       `json:"summary"`
	DailyBreakdown    []DailyBreakdownRow `json:"dailyBreakdown"`
	TopSites          []TopSite           `json:"topSites"`
	CategoryBreakdown CategoryBreakdown   `json:"categoryBreakdown"`
	Insights          []Insight           `json:"insights"`
	Trends            Trends              `json:"trends"`
}

type ScorePoint struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

type TimePoint struct {
	Date   string `json:"date"`
	TimeMs int64  `json:"time"`
}

type TrendAverages struct {
	ProductivityScore float64 `json:"productivityScore"`
	DailyTimeMs       float64 `json:"dailyTime"`
}

type ProductivityTrendsReport struct {
	Days               int                       `json:"days"`
	ProductivityScores []ScorePoint              `json:"productivityScores"`
	TimeSpent          []TimePoint               `json:"timeSpent"`
	CategoryTrends     map[string]TrendDirection `json:"categoryTrends"`
	Averages           TrendAverages             `json:"averages"`
}

type CategoryReport struct {
	Breakdown   CategoryBreakdown `json:"breakdown"`
	Percentages map[string]int    `json:"percentages"`
	TotalTimeMs int64             `json:"totalTime"`
	StartDate   string            `json:"startDate"`
	EndDate     string            `json:"endDate"`
}

type SiteRanking struct {
	Domain                   string   `json:"domain"`
	TimeSpentMs              int64    `json:"timeSpent"`
	Visits                   int64    `json:"visits"`
	Category                 Category `json:"category"`
	AverageProductivityScore int      `json:"averageProductivityScore"`
}

type TopSitesReport struct {
	TopSites   []SiteRanking `json:"topSites"`
	TotalSites int           `json:"totalSites"`
	StartDate  string        `json:"startDate"`
	EndDate    string        `json:"endDate"`
}

type UserStats struct {
	Days                     int   `json:"days"`
	TotalTimeMs              int64 `json:"totalTime"`
	AverageProductivityScore int   `json:"averageProductivityScore"`
	TotalSites               int   `json:"totalSites"`
	TotalFocusSessions       int   `json:"totalFocusSessions"`
	CompletedFocusSessions   int   `json:"completedFocusSessions"`
	TotalBlockedAttempts     int   `json:"totalBlockedAttempts"`
	ActiveDays               int   `json:"activeDays"`
}

type SyncStatus struct {
	LastSyncedDate *string    `json:"lastSyncedDate"`
	LastUpdatedAt  *time.Time `json:"lastUpdatedAt"`
	ServerTime     time.Time  `json:"serverTime"`
}
