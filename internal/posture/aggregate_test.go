package posture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type record struct {
	severity string
	at       time.Time
}

func TestScore(t *testing.T) {
	// No assets means nothing to score against
	assert.Equal(t, 100.0, Score(0, 5, 5, 5))

	// 10*1 + 5*2 + 2*5 = 30 spread over 10 assets
	assert.InDelta(t, 97.0, Score(10, 1, 2, 5), 0.0001)

	// Penalty is capped at 100
	assert.Equal(t, 0.0, Score(1, 50, 0, 0))

	// Clean estate scores a perfect 100
	assert.Equal(t, 100.0, Score(10, 0, 0, 0))
}

func TestScoreUnrounded(t *testing.T) {
	// 10/3 penalty should survive without rounding
	got := Score(3, 1, 0, 0)
	assert.InDelta(t, 100-10.0/3.0, got, 0.0000001)
}

func TestCountBy(t *testing.T) {
	items := []record{{severity: "high"}, {severity: "high"}, {severity: "low"}}
	counts := CountBy(items, func(r record) string { return r.severity })
	assert.Equal(t, map[string]int{"high": 2, "low": 1}, counts)
}

func TestCountByCategoriesZeroFills(t *testing.T) {
	items := []record{{severity: "critical"}}
	counts := CountByCategories(items, func(r record) string { return r.severity },
		[]string{"critical", "high", "medium", "low"})

	assert.Equal(t, 1, counts["critical"])
	assert.Equal(t, 0, counts["high"])
	assert.Equal(t, 0, counts["medium"])
	assert.Equal(t, 0, counts["low"])
}

func TestCountByCategoriesKeepsUnknownKeys(t *testing.T) {
	items := []record{{severity: "weird"}}
	counts := CountByCategories(items, func(r record) string { return r.severity }, []string{"low"})
	assert.Equal(t, 1, counts["weird"])
	assert.Equal(t, 0, counts["low"])
}

func TestDailyTrendWindowAndGapFill(t *testing.T) {
	now := time.Date(2026, 3, 15, 13, 45, 0, 0, time.UTC)
	items := []record{
		{at: now.AddDate(0, 0, -1)},
		{at: now.AddDate(0, 0, -1)},
		{at: now},
	}

	points := DailyTrend(items, func(r record) time.Time { return r.at }, now, 30)

	assert.Len(t, points, 30)
	assert.Equal(t, "2026-02-14", points[0].Date)
	assert.Equal(t, "2026-03-15", points[29].Date)

	// Ascending dates, zero counts on empty days
	for i := 1; i < len(points); i++ {
		assert.Less(t, points[i-1].Date, points[i].Date)
	}
	assert.Equal(t, 0, points[5].Count)
	assert.Equal(t, 2, points[28].Count)
	assert.Equal(t, 1, points[29].Count)
}

func TestDailyTrendIgnoresItemsOutsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	items := []record{{at: now.AddDate(0, 0, -45)}}

	points := DailyTrend(items, func(r record) time.Time { return r.at }, now, 30)
	for _, p := range points {
		assert.Equal(t, 0, p.Count)
	}
}

func TestDailyTrendDefaultsWindow(t *testing.T) {
	now := time.Now()
	points := DailyTrend(nil, func(r record) time.Time { return r.at }, now, 0)
	assert.Len(t, points, DefaultTrendDays)
}

func TestTrendMap(t *testing.T) {
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	items := []record{{at: now}}
	m := TrendMap(items, func(r record) time.Time { return r.at }, now, 7)
	assert.Len(t, m, 7)
	assert.Equal(t, 1, m["2026-03-15"])
	assert.Equal(t, 0, m["2026-03-14"])
}
