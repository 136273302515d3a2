// Package metrics computes the safe aggregates behind the dashboard
// views: means, medians, top-N value counts and the per-year backlog
// series. Every function degrades to a neutral value when a column is
// absent or fully unparseable; none of them ever returns an error.
package metrics

import (
	"sort"
	"strings"

	"github.com/seres-labs/regdash/internal/table"
)

// ValueCount is one row of a value-count breakdown.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// YearAgg aggregates active and closed records for one filing year.
type YearAgg struct {
	Year   int64 `json:"year"`
	Active int64 `json:"active"`
	Closed int64 `json:"closed"`
}

// YearCount is the record volume for one filing year.
type YearCount struct {
	Year  int64 `json:"year"`
	Count int   `json:"count"`
}

// YearPct carries a percentage per filing year.
type YearPct struct {
	Year int64   `json:"year"`
	Pct  float64 `json:"pct"`
}

// MeanPct returns the mean of the numeric-coerced column times 100,
// treating it as a 0/1 proxy. Out-of-range values pass through
// numerically. Absent column, empty table or all-missing values yield
// 0.0.
func MeanPct(t *table.Table, col string) float64 {
	if col == "" || t.Empty() {
		return 0.0
	}
	var sum float64
	var n int
	for _, v := range table.Numeric(t.Col(col)) {
		if v.OK {
			sum += v.Val
			n++
		}
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n) * 100
}

// Median returns the median of the numeric-coerced, missing-dropped
// column values. ok is false when the column is absent or all missing.
func Median(t *table.Table, col string) (float64, bool) {
	if col == "" || t.Empty() {
		return 0, false
	}
	var vals []float64
	for _, v := range table.Numeric(t.Col(col)) {
		if v.OK {
			vals = append(vals, v.Val)
		}
	}
	if len(vals) == 0 {
		return 0, false
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid], true
	}
	return (vals[mid-1] + vals[mid]) / 2, true
}

// ValueCountsTop counts distinct trimmed string values of a column,
// ordered by count descending then value ascending (the deterministic
// tie-break), truncated to topN when topN > 0. When dropMissing is true
// the tokens "", "nan" and "None" are excluded; otherwise they count
// under a single empty value.
func ValueCountsTop(t *table.Table, col string, topN int, dropMissing bool) []ValueCount {
	if col == "" || t.Empty() {
		return nil
	}
	counts := make(map[string]int)
	for _, raw := range t.Col(col) {
		v := strings.TrimSpace(raw)
		switch v {
		case "", "nan", "None":
			if dropMissing {
				continue
			}
			v = ""
		}
		counts[v]++
	}

	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// VolumeByYear counts records per integer-coerced year, rows with an
// unparseable year dropped, sorted ascending by year.
func VolumeByYear(t *table.Table, yearCol string) []YearCount {
	if yearCol == "" || t.Empty() {
		return nil
	}
	counts := make(map[int64]int)
	for _, y := range table.Ints(t.Col(yearCol)) {
		if y.OK {
			counts[y.Val]++
		}
	}
	out := make([]YearCount, 0, len(counts))
	for y, c := range counts {
		out = append(out, YearCount{Year: y, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Backlog sums active and closed indicators per filing year. The active
// slice must be index-aligned with the table rows (it comes from the
// bound fact view); closed is its complement per record.
func Backlog(t *table.Table, yearCol string, active []int64) []YearAgg {
	if yearCol == "" || t.Empty() || len(active) != t.NumRows() {
		return nil
	}
	aggs := make(map[int64]*YearAgg)
	for i, y := range table.Ints(t.Col(yearCol)) {
		if !y.OK {
			continue
		}
		a, ok := aggs[y.Val]
		if !ok {
			a = &YearAgg{Year: y.Val}
			aggs[y.Val] = a
		}
		if active[i] == 1 {
			a.Active++
		} else {
			a.Closed++
		}
	}
	out := make([]YearAgg, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// ActivePctByYear returns the percentage of active records per filing
// year, sorted ascending by year.
func ActivePctByYear(t *table.Table, yearCol string, active []int64) []YearPct {
	backlog := Backlog(t, yearCol, active)
	out := make([]YearPct, 0, len(backlog))
	for _, b := range backlog {
		total := b.Active + b.Closed
		if total == 0 {
			continue
		}
		out = append(out, YearPct{Year: b.Year, Pct: float64(b.Active) / float64(total) * 100})
	}
	return out
}
