package students

import (
	"math"
	"sort"
	"time"

	"github.com/mithrel/mriynyk/pkg/api"
)

const (
	// MaxScore is the top of the 12-point grading scale.
	MaxScore = 12.0
	// DefaultRecentDays is the window of the "last month" figures.
	DefaultRecentDays = 30
)

// round rounds half up (toward +Inf) on ties, the way the web dashboard does.
func round(x float64) float64 { return math.Floor(x + 0.5) }

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// Average is the mean of the finite values rounded to one decimal, or 0.
func Average(values []float64) float64 {
	var total float64
	n := 0
	for _, v := range values {
		if finite(v) {
			total += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return round(total/float64(n)*10) / 10
}

// NumericScores returns the numeric marks in order, skipping non-numeric ones.
func NumericScores(scores []api.Score) []float64 {
	out := make([]float64, 0, len(scores))
	for _, s := range scores {
		if s.Score != nil && finite(*s.Score) {
			out = append(out, *s.Score)
		}
	}
	return out
}

// Trend compares the average of the two newest scores with the two before
// them, as a whole percentage. Fewer than four scores or a zero baseline
// yield 0.
func Trend(scores []float64) int {
	if len(scores) < 4 {
		return 0
	}
	recent := Average(scores[0:2])
	previous := Average(scores[2:4])
	if previous == 0 {
		return 0
	}
	return int(round((recent - previous) / previous * 100))
}

var dateLayouts = []string{time.DateOnly, time.RFC3339, time.DateTime}

// ParseDate parses the dates the student API returns.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FilterRecent keeps items dated within days of the newest dated item,
// inclusive. Undated items are dropped; order is preserved.
func FilterRecent[T any](items []T, date func(T) string, days int) []T {
	type dated struct {
		item T
		at   time.Time
	}
	var all []dated
	var newest time.Time
	for _, it := range items {
		t, ok := ParseDate(date(it))
		if !ok {
			continue
		}
		if len(all) == 0 || t.After(newest) {
			newest = t
		}
		all = append(all, dated{it, t})
	}
	if len(all) == 0 {
		return nil
	}
	cutoff := newest.Add(-time.Duration(days) * 24 * time.Hour)
	out := make([]T, 0, len(all))
	for _, d := range all {
		if !d.at.Before(cutoff) {
			out = append(out, d.item)
		}
	}
	return out
}

func absenceDate(a api.Absence) string { return a.Date }
func scoreDate(s api.Score) string { return s.Date }

// ScoreDates lists distinct score dates in first-seen order, keeping only
// dates with at least one numeric mark.
func ScoreDates(scores []api.Score) []string {
	numeric := map[string]bool{}
	var order []string
	for _, s := range scores {
		if s.Date == "" {
			continue
		}
		has, seen := numeric[s.Date]
		if !seen {
			order = append(order, s.Date)
		}
		numeric[s.Date] = has || (s.Score != nil && finite(*s.Score))
	}
	out := order[:0]
	for _, d := range order {
		if numeric[d] {
			out = append(out, d)
		}
	}
	return out
}

// DateNav walks score dates. Index 0 is the first (newest) date; Older
// moves toward the end of the list.
type DateNav struct {
	Dates []string
	Index int
}

// NewDateNav resets an out-of-range index to the first date.
func NewDateNav(dates []string, index int) DateNav {
	if index < 0 || index >= len(dates) {
		index = 0
	}
	return DateNav{Dates: dates, Index: index}
}

func (n DateNav) Selected() (string, bool) {
	if len(n.Dates) == 0 {
		return "", false
	}
	return n.Dates[n.Index], true
}

func (n DateNav) CanOlder() bool { return len(n.Dates) > 0 && n.Index < len(n.Dates)-1 }
func (n DateNav) CanNewer() bool { return len(n.Dates) > 0 && n.Index > 0 }

// BarPercent is the filled share of a bar for value against max, capped at
// 100. A non-positive max falls back to the largest value (at least 1).
func BarPercent(value, max float64, values []float64) int {
	if !(max > 0) || !finite(max) {
		max = 1
		for _, v := range values {
			if v > max {
				max = v
			}
		}
	}
	p := round(value / max * 100)
	if p > 100 {
		p = 100
	}
	return int(p)
}

// SortOverview orders subject averages and absence counts from highest to
// lowest without touching o.
func SortOverview(o api.Overview) api.Overview {
	out := o
	out.AverageScores = append([]api.SubjectAverage(nil), o.AverageScores...)
	out.AbsencesBySubject = append([]api.SubjectCount(nil), o.AbsencesBySubject...)
	sort.SliceStable(out.AverageScores, func(i, j int) bool {
		return out.AverageScores[i].Average > out.AverageScores[j].Average
	})
	sort.SliceStable(out.AbsencesBySubject, func(i, j int) bool {
		return out.AbsencesBySubject[i].Count > out.AbsencesBySubject[j].Count
	})
	return out
}
