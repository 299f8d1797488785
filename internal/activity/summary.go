package activity

import (
	"math"
	"sort"

	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
)

const (
	// DailyTopSites bounds Summary.TopSites.
	DailyTopSites = 5
	// distractingPenalty is the weight distracting time carries against productive time.
	distractingPenalty = 0.5
)

// ComputeSummary derives the summary of day from its site entries. Focus sessions and
// blocked attempts are copied through untouched.
func ComputeSummary(day *entity.Day) entity.Summary {
	var breakdown entity.CategoryBreakdown
	var total int64

	for _, site := range day.Sites {
		total += site.TimeSpentMs
		breakdown.Add(ParseCategory(string(site.Category)), site.TimeSpentMs)
	}

	return entity.Summary{
		TotalTimeSpentMs:  total,
		TotalSitesVisited: len(day.Sites),
		ProductivityScore: ProductivityScore(breakdown, total),
		CategoryBreakdown: breakdown,
		TopSites:          topSites(day.Sites, DailyTopSites),
		FocusSessions:     copyFocusSessions(day.FocusSessions),
		BlockedAttempts:   copyBlockedAttempts(day.BlockedAttempts),
	}
}

// Refresh replaces the day's summary with a freshly computed one.
func Refresh(day *entity.Day) {
	day.Summary = ComputeSummary(day)
}

// ProductivityScore is clamp(round((productive - distracting/2) / total * 100), 0, 100),
// or 0 when nothing was tracked.
func ProductivityScore(b entity.CategoryBreakdown, total int64) int {
	if total <= 0 {
		return 0
	}
	productive := float64(b.Work + b.Education)
	distracting := float64(b.SocialMedia + b.Entertainment)

	score := math.Round((productive - distracting*distractingPenalty) / float64(total) * 100)
	return int(math.Max(0, math.Min(100, score)))
}

// ActiveTime sums session time minus idle time over every site of the day.
func ActiveTime(day *entity.Day) int64 {
	var active int64
	for _, site := range day.Sites {
		for _, s := range site.Sessions {
			active += s.DurationMs - s.IdleTimeMs
		}
	}
	return active
}

func topSites(sites []entity.SiteEntry, limit int) []entity.TopSite {
	ranked := make([]entity.TopSite, 0, len(sites))
	for _, site := range sites {
		ranked = append(ranked, entity.TopSite{
			Domain:      site.Domain,
			TimeSpentMs: site.TimeSpentMs,
			Visits:      site.Visits,
			Category:    site.Category,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TimeSpentMs > ranked[j].TimeSpentMs
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func copyFocusSessions(in []entity.FocusSession) []entity.FocusSession {
	out := make([]entity.FocusSession, len(in))
	copy(out, in)
	return out
}

func copyBlockedAttempts(in []entity.BlockedAttempt) []entity.BlockedAttempt {
	out := make([]entity.BlockedAttempt, len(in))
	copy(out, in)
	return out
}
