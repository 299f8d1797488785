package activity

import (
	"testing"

	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestTrend(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected entity.TrendDirection
	}{
		{"empty", nil, entity.TrendStable},
		{"single", []float64{42}, entity.TrendStable},
		{"flat", []float64{10, 10, 10, 10}, entity.TrendStable},
		{"doubling", []float64{10, 10, 20, 20}, entity.TrendIncreasing},
		{"halving", []float64{20, 20, 10, 10}, entity.TrendDecreasing},
		{"within threshold", []float64{100, 109}, entity.TrendStable},
		{"zero first half", []float64{0, 0, 5, 5}, entity.TrendStable},
		{"all zero", []float64{0, 0}, entity.TrendStable},
		// Odd length: the second half [10] is divided by 2, reading as a 50% drop.
		{"odd length legacy divisor", []float64{10, 10, 10}, entity.TrendDecreasing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Trend(tt.values))
		})
	}
}

func TestTrendWith_TrueHalves(t *testing.T) {
	assert.Equal(t, entity.TrendStable, TrendWith(TrendTrueHalves, []float64{10, 10, 10}))
	assert.Equal(t, entity.TrendIncreasing, TrendWith(TrendTrueHalves, []float64{10, 10, 20}))
	assert.Equal(t, Trend([]float64{10, 10, 20, 20}), TrendWith(TrendTrueHalves, []float64{10, 10, 20, 20}))
}

func TestSeriesTrends(t *testing.T) {
	rows := []entity.DailyBreakdownRow{
		{Date: "2024-03-01", TotalTimeMs: 100, ProductivityScore: 80},
		{Date: "2024-03-02", TotalTimeMs: 100, ProductivityScore: 80},
		{Date: "2024-03-03", TotalTimeMs: 300, ProductivityScore: 40},
		{Date: "2024-03-04", TotalTimeMs: 300, ProductivityScore: 40},
	}

	trends := SeriesTrends(rows)

	assert.Equal(t, entity.TrendIncreasing, trends.TimeSpentTrend)
	assert.Equal(t, entity.TrendDecreasing, trends.ProductivityTrend)
}

func TestCategoryTrends(t *testing.T) {
	days := []entity.Day{
		buildDay(t, "2024-03-02", visit("github.com", 100)),
		buildDay(t, "2024-03-01", visit("github.com", 100)),
		buildDay(t, "2024-03-03", visit("github.com", 100), visit("youtube.com", 50)),
		buildDay(t, "2024-03-04", visit("github.com", 100), visit("youtube.com", 50)),
	}

	trends := CategoryTrends(days)

	assert.Equal(t, entity.TrendStable, trends["work"])
	assert.Equal(t, entity.TrendStable, trends["entertainment"]) // first half is zero
	assert.Len(t, trends, len(entity.Categories))
}

func TestTrendWith_OverlappingHalves(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected entity.TrendDirection
	}{
		{name: "flat odd series", values: []float64{10, 10, 10}, expected: entity.TrendStable},
		{name: "rising odd series", values: []float64{10, 10, 20}, expected: entity.TrendIncreasing},
		{name: "falling odd series", values: []float64{20, 10, 10}, expected: entity.TrendDecreasing},
		{name: "single value", values: []float64{10}, expected: entity.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TrendWith(TrendOverlappingHalves, tt.values))
		})
	}

	even := []float64{10, 12, 30, 31}
	assert.Equal(t, Trend(even), TrendWith(TrendOverlappingHalves, even))
	assert.Equal(t, entity.TrendDecreasing, Trend([]float64{10, 10, 10}))
}
