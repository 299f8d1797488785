package activity

import (
	"math"
	"sort"
	"time"

	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
)

// PeriodTopSites bounds PeriodSummary.TopSites.
const PeriodTopSites = 10

// Aggregate rolls a set of days into one summary. Weekly, monthly and custom reports
// differ only in which days they pass in.
func Aggregate(days []entity.Day) entity.PeriodSummary {
	ordered := sortedByDate(days)

	summary := entity.PeriodSummary{
		TopSites:       []entity.TopSite{},
		DailyBreakdown: make([]entity.DailyBreakdownRow, 0, len(ordered)),
		ActiveDays:     len(ordered),
	}

	var scoreSum int
	var order []string
	merged := make(map[string]*entity.TopSite)

	for _, day := range ordered {
		s := day.Summary
		summary.TotalTimeMs += s.TotalTimeSpentMs
		scoreSum += s.ProductivityScore
		summary.CategoryBreakdown.Merge(s.CategoryBreakdown)
		summary.TotalBlockedAttempts += len(s.BlockedAttempts)
		for _, fs := range s.FocusSessions {
			if fs.Completed {
				summary.FocusSessionsCompleted++
			}
		}

		for _, site := range day.Sites {
			agg, ok := merged[site.Domain]
			if !ok {
				agg = &entity.TopSite{Domain: site.Domain, Category: site.Category}
				merged[site.Domain] = agg
				order = append(order, site.Domain)
			}
			agg.TimeSpentMs += site.TimeSpentMs
			agg.Visits += site.Visits
		}

		summary.DailyBreakdown = append(summary.DailyBreakdown, entity.DailyBreakdownRow{
			Date:              day.Date,
			TotalTimeMs:       s.TotalTimeSpentMs,
			ProductivityScore: s.ProductivityScore,
			SitesVisited:      s.TotalSitesVisited,
		})
	}

	if len(ordered) > 0 {
		summary.AverageProductivityScore = int(math.Round(float64(scoreSum) / float64(len(ordered))))
	}

	for _, domain := range order {
		summary.TopSites = append(summary.TopSites, *merged[domain])
	}
	sort.SliceStable(summary.TopSites, func(i, j int) bool {
		return summary.TopSites[i].TimeSpentMs > summary.TopSites[j].TimeSpentMs
	})
	if len(summary.TopSites) > PeriodTopSites {
		summary.TopSites = summary.TopSites[:PeriodTopSites]
	}

	return summary
}

// WeeklyBuckets groups days by the Sunday that starts their week.
func WeeklyBuckets(days []entity.Day, loc *time.Location) []entity.WeekBucket {
	ordered := sortedByDate(days)

	var buckets []entity.WeekBucket
	index := make(map[string]int)
	scores := make(map[string]int)

	for _, day := range ordered {
		date, err := time.ParseInLocation(time.DateOnly, day.Date, loc)
		if err != nil {
			continue
		}
		key := date.AddDate(0, 0, -int(date.Weekday())).Format(time.DateOnly)

		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, entity.WeekBucket{WeekStart: key})
		}
		buckets[i].TotalTimeMs += day.Summary.TotalTimeSpentMs
		buckets[i].Days++
		scores[key] += day.Summary.ProductivityScore
	}

	for i := range buckets {
		b := &buckets[i]
		b.AvgProductivity = int(math.Round(float64(scores[b.WeekStart]) / float64(b.Days)))
	}
	return buckets
}

// CategoryShares returns each category's rounded share of the breakdown total in percent.
func CategoryShares(b entity.CategoryBreakdown) map[string]int {
	total := b.Total()
	shares := make(map[string]int, len(entity.Categories))
	for _, c := range entity.Categories {
		share := 0
		if total > 0 {
			share = int(math.Round(float64(b.Get(c)) / float64(total) * 100))
		}
		shares[BreakdownKey(c)] = share
	}
	return shares
}

// BreakdownKey is the JSON key a category uses inside a breakdown.
func BreakdownKey(c entity.Category) string {
	switch c {
	case entity.CategoryWork:
		return "work"
	case entity.CategorySocialMedia:
		return "socialMedia"
	case entity.CategoryEntertainment:
		return "entertainment"
	case entity.CategoryNews:
		return "news"
	case entity.CategoryShopping:
		return "shopping"
	case entity.CategoryEducation:
		return "education"
	case entity.CategoryHealth:
		return "health"
	case entity.CategoryFinance:
		return "finance"
	default:
		return "other"
	}
}

func sortedByDate(days []entity.Day) []entity.Day {
	ordered := make([]entity.Day, len(days))
	copy(ordered, days)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})
	return ordered
}
