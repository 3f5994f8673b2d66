// Package posture holds the aggregation engine: pure functions that derive
// grouped counts, daily trends and weighted security scores from record sets
// already scoped to a tenant. Nothing here touches the database.
package posture

import (
	"time"
)

const dateLayout = "2006-01-02"

// DefaultTrendDays is the window used by the stats endpoints.
const DefaultTrendDays = 30

// CountBy groups items by the value returned by key and counts each group.
// Categories with zero matches are absent from the result.
func CountBy[T any](items []T, key func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}

// CountByCategories counts like CountBy but guarantees an entry for every
// supplied category, zero-filled when no item matches. Items outside the
// enumeration are still counted under their own key. Used for chart axes
// with fixed tiers (severity, status).
func CountByCategories[T any](items []T, key func(T) string, categories []string) map[string]int {
	counts := CountBy(items, key)
	for _, c := range categories {
		if _, ok := counts[c]; !ok {
			counts[c] = 0
		}
	}
	return counts
}

// TrendPoint is one calendar day in a trend series.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DailyTrend buckets items into UTC calendar days over a window of `days`
// days ending at `now` and returns exactly one point per day in ascending
// date order. Days without matching items carry a zero count; downstream
// charting relies on the fixed width.
func DailyTrend[T any](items []T, timestamp func(T) time.Time, now time.Time, days int) []TrendPoint {
	if days <= 0 {
		days = DefaultTrendDays
	}

	counts := make(map[string]int)
	for _, item := range items {
		counts[timestamp(item).UTC().Format(dateLayout)]++
	}

	end := now.UTC().Truncate(24 * time.Hour)
	points := make([]TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i).Format(dateLayout)
		points = append(points, TrendPoint{Date: day, Count: counts[day]})
	}
	return points
}

// TrendMap returns the same series as DailyTrend keyed by date. JSON object
// keys sort ascending because the dates are ISO formatted.
func TrendMap[T any](items []T, timestamp func(T) time.Time, now time.Time, days int) map[string]int {
	series := DailyTrend(items, timestamp, now, days)
	m := make(map[string]int, len(series))
	for _, p := range series {
		m[p.Date] = p.Count
	}
	return m
}

// Score computes the weighted security score for an organization:
// 100 - min(100, (10*critical + 5*high + 2*medium) / assets). An
// organization with no assets scores 100. The value is unrounded so callers
// can compose further; rounding belongs at the presentation boundary.
func Score(assets, critical, high, medium int) float64 {
	if assets <= 0 {
		return 100
	}
	penalty := float64(critical*10+high*5+medium*2) / float64(assets)
	if penalty > 100 {
		penalty = 100
	}
	return 100 - penalty
}
