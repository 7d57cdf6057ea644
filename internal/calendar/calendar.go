package calendar

import (
	"strings"
	"time"
)

// DateLayout is the ISO calendar-day layout used for every check-in key.
const DateLayout = "2006-01-02"

// maxWeeks bounds the month grid; a 31-day month starting on Sunday needs 6 rows.
const maxWeeks = 6

// NormalizeISODate returns t as "YYYY-MM-DD" in t's own location.
func NormalizeISODate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay truncates t to local midnight of its calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves t by n calendar days. AddDate keeps wall-clock midnight across DST.
func AddDays(t time.Time, n int) time.Time {
	return StartOfDay(t).AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseISODate parses a day string. Both "YYYY-MM-DD" and RFC3339 timestamps are
// accepted since the platform returns either. Timestamps are converted into loc
// before taking the calendar day. ok is false for malformed input.
func ParseISODate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, true
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return StartOfDay(t.In(loc)), true
		}
	}
	return time.Time{}, false
}

// MonthGrid is a Monday-first calendar covering one month.
type MonthGrid struct {
	Year  int
	Month time.Month
	// Weeks holds rows of exactly 7 days, Monday..Sunday. Leading and trailing
	// days belong to the neighbouring months.
	Weeks [][]time.Time
}

// InMonth reports whether day belongs to the grid's month (not padding).
func (g MonthGrid) InMonth(day time.Time) bool {
	return day.Year() == g.Year && day.Month() == g.Month
}

// Days returns every cell of the grid in row-major order.
func (g MonthGrid) Days() []time.Time {
	out := make([]time.Time, 0, len(g.Weeks)*7)
	for _, w := range g.Weeks {
		out = append(out, w...)
	}
	return out
}

// BuildMonthGrid builds the calendar for the month containing ref.
//
// The first row starts on the Monday on or before the 1st. Rows are added while
// the next row would still start inside the month, so the last row always
// contains the month's final day. Output depends only on ref's calendar day.
func BuildMonthGrid(ref time.Time) MonthGrid {
	loc := ref.Location()
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	// time.Weekday is Sunday=0; shift so Monday=0.
	offset := (int(first.Weekday()) + 6) % 7
	cur := first.AddDate(0, 0, -offset)

	var weeks [][]time.Time
	for !cur.After(last) && len(weeks) < maxWeeks {
		week := make([]time.Time, 7)
		for i := range week {
			week[i] = cur
			cur = cur.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}

	return MonthGrid{
		Year:  first.Year(),
		Month: first.Month(),
		Weeks: weeks,
	}
}

// ParseMonth parses "YYYY-MM" into the first day of that month in loc.
func ParseMonth(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
