package activity

import (
	"math"

	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
)

// TrendMethod selects how the two half-means of a series are computed.
type TrendMethod int

const (
	// TrendLegacyHalves splits at ceil(n/2) and divides both halves by ceil(n/2), so an
	// odd-length series under-weights its second half.
	TrendLegacyHalves TrendMethod = iota
	// TrendTrueHalves divides each half by its own length.
	TrendTrueHalves
	// TrendOverlappingHalves starts the second half at floor(n/2), so the middle value of an
	// odd-length series is counted in both halves. Both halves are divided by ceil(n/2).
	// Reports produced before the split was fixed used this form.
	TrendOverlappingHalves
)

// DefaultTrendMethod matches TrendOverlappingHalves on even-length series only; odd
// lengths can differ (e.g. [10,10,10] is decreasing here, stable under the overlap).
const DefaultTrendMethod = TrendLegacyHalves

// trendThreshold is the percent change beyond which a series counts as moving.
const trendThreshold = 10.0

func Trend(values []float64) entity.TrendDirection {
	return TrendWith(DefaultTrendMethod, values)
}

func TrendWith(method TrendMethod, values []float64) entity.TrendDirection {
	n := len(values)
	if n < 2 {
		return entity.TrendStable
	}

	split := (n + 1) / 2
	secondStart := split
	firstDivisor := float64(split)
	secondDivisor := float64(split)
	switch method {
	case TrendTrueHalves:
		secondDivisor = float64(n - split)
	case TrendOverlappingHalves:
		secondStart = n / 2
	}

	first := sum(values[:split]) / firstDivisor
	second := sum(values[secondStart:]) / secondDivisor
	if first == 0 {
		return entity.TrendStable
	}

	change := (second - first) / first * 100
	switch {
	case math.IsNaN(change) || math.IsInf(change, 0):
		return entity.TrendStable
	case change > trendThreshold:
		return entity.TrendIncreasing
	case change < -trendThreshold:
		return entity.TrendDecreasing
	default:
		return entity.TrendStable
	}
}

// SeriesTrends reports the time and productivity trends of a daily breakdown.
func SeriesTrends(rows []entity.DailyBreakdownRow) entity.Trends {
	times := make([]float64, len(rows))
	scores := make([]float64, len(rows))
	for i, row := range rows {
		times[i] = float64(row.TotalTimeMs)
		scores[i] = float64(row.ProductivityScore)
	}
	return entity.Trends{
		TimeSpentTrend:    Trend(times),
		ProductivityTrend: Trend(scores),
	}
}

// CategoryTrends reports a trend per breakdown key over days in date order.
func CategoryTrends(days []entity.Day) map[string]entity.TrendDirection {
	ordered := sortedByDate(days)
	trends := make(map[string]entity.TrendDirection, len(entity.Categories))
	for _, c := range entity.Categories {
		values := make([]float64, len(ordered))
		for i, day := range ordered {
			values[i] = float64(day.Summary.CategoryBreakdown.Get(c))
		}
		trends[BreakdownKey(c)] = Trend(values)
	}
	return trends
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
