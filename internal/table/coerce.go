package table

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Float is the outcome of coercing one cell to a float. OK is false when
// the cell was empty, a sentinel token, or unparseable.
type Float struct {
	Val float64
	OK  bool
}

// Int is the outcome of coercing one cell to an integer.
type Int struct {
	Val int64
	OK  bool
}

// Date is the outcome of coercing one cell to a calendar date.
type Date struct {
	Val time.Time
	OK  bool
}

// ParseFloat coerces a single cell to a float64. Whitespace is trimmed
// and the tokens "", "nan", "None" and "NONE" are missing. When the
// string contains a comma, periods are stripped as thousands separators
// before the comma becomes the decimal point ("1.234,56" -> 1234.56);
// without a comma, periods are decimal points and stay untouched.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "nan", "None", "NONE":
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// ParseInt coerces a single cell to an int64 by numeric coercion followed
// by round-half-to-even.
func ParseInt(s string) (int64, bool) {
	v, ok := ParseFloat(s)
	if !ok {
		return 0, false
	}
	return int64(math.RoundToEven(v)), true
}

// ParseDateKey interprets a cell as an 8-digit YYYYMMDD integer and
// returns the calendar date in UTC. Integer coercion happens first, so
// 20240131, 20240131.0 and "20240131" all land on the same date. Values
// that do not form a real date are missing.
func ParseDateKey(s string) (time.Time, bool) {
	v, ok := ParseInt(s)
	if !ok || v < 10000101 || v > 99991231 {
		return time.Time{}, false
	}
	year := int(v / 10000)
	month := int(v/100) % 100
	day := int(v % 100)
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days (Feb 30 -> Mar 1); a changed
	// round-trip means the key was not a real date.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// Numeric coerces a whole column. The output is index-aligned with the
// input; an absent (nil) column yields an empty slice.
func Numeric(col []string) []Float {
	out := make([]Float, len(col))
	for i, s := range col {
		v, ok := ParseFloat(s)
		out[i] = Float{Val: v, OK: ok}
	}
	return out
}

// Ints coerces a whole column to integers, index-aligned.
func Ints(col []string) []Int {
	out := make([]Int, len(col))
	for i, s := range col {
		v, ok := ParseInt(s)
		out[i] = Int{Val: v, OK: ok}
	}
	return out
}

// DateKeys coerces a whole column of YYYYMMDD keys, index-aligned.
func DateKeys(col []string) []Date {
	out := make([]Date, len(col))
	for i, s := range col {
		v, ok := ParseDateKey(s)
		out[i] = Date{Val: v, OK: ok}
	}
	return out
}

// StringSet returns the unique non-missing trimmed values of a column,
// sorted lexicographically. The tokens "", "nan" and "None" are missing.
func StringSet(col []string) []string {
	seen := make(map[string]struct{}, len(col))
	var out []string
	for _, s := range col {
		s = strings.TrimSpace(s)
		switch s {
		case "", "nan", "None":
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// IntSet returns the unique integer-coerced values of a column, missing
// dropped, sorted ascending.
func IntSet(col []string) []int64 {
	seen := make(map[int64]struct{}, len(col))
	var out []int64
	for _, s := range col {
		v, ok := ParseInt(s)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
