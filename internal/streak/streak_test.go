package streak

import (
	"testing"
	"time"

	"github.com/fchimpan/kusa-learn/internal/calendar"
)

var today = time.Date(2025, 9, 26, 14, 0, 0, 0, time.UTC)

func day(offset int) time.Time { return calendar.AddDays(today, offset) }

func setOf(offsets ...int) Set {
	cs := make([]CheckIn, 0, len(offsets))
	for _, o := range offsets {
		cs = append(cs, CheckIn{Date: calendar.NormalizeISODate(day(o))})
	}
	return FromCheckIns(time.UTC, cs...)
}

func TestLength_Empty(t *testing.T) {
	t.Parallel()

	if got := Length(FromCheckIns(time.UTC), today); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestLength_ThreeConsecutiveDays(t *testing.T) {
	t.Parallel()

	if got := Length(setOf(0, -1, -2), today); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestLength_TodayMissingBreaksStreak(t *testing.T) {
	t.Parallel()

	if got := Length(setOf(-1), today); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestLength_StopsAtFirstGap(t *testing.T) {
	t.Parallel()

	if got := Length(setOf(0, -1, -3, -4), today); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestLength_CrossesMonthBoundary(t *testing.T) {
	t.Parallel()

	s := FromCheckIns(time.UTC,
		CheckIn{Date: "2025-03-01"},
		CheckIn{Date: "2025-02-28"},
		CheckIn{Date: "2025-02-27"},
	)
	if got := Length(s, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestLatestMissedDay(t *testing.T) {
	t.Parallel()

	got, ok := LatestMissedDay(setOf(-1, -2), today, DefaultLookbackDays)
	if !ok {
		t.Fatalf("expected a missed day")
	}
	if !calendar.SameDay(got, day(-3)) {
		t.Fatalf("expected %s, got %s", calendar.NormalizeISODate(day(-3)), calendar.NormalizeISODate(got))
	}
}

func TestLatestMissedDay_YesterdayFirst(t *testing.T) {
	t.Parallel()

	got, ok := LatestMissedDay(setOf(0), today, DefaultLookbackDays)
	if !ok || !calendar.SameDay(got, day(-1)) {
		t.Fatalf("expected yesterday, got %v %v", got, ok)
	}
}

func TestLatestMissedDay_IgnoresToday(t *testing.T) {
	t.Parallel()

	offsets := []int{}
	for i := 1; i <= DefaultLookbackDays; i++ {
		offsets = append(offsets, -i)
	}
	if _, ok := LatestMissedDay(setOf(offsets...), today, DefaultLookbackDays); ok {
		t.Fatalf("today must not be a restorable day")
	}
}

func TestLatestMissedDay_WindowIsFixed(t *testing.T) {
	t.Parallel()

	offsets := []int{}
	for i := 1; i <= DefaultLookbackDays; i++ {
		offsets = append(offsets, -i)
	}
	// day(-14) is missing but outside the window.
	if d, ok := LatestMissedDay(setOf(offsets...), today, 0); ok {
		t.Fatalf("expected none, got %s", calendar.NormalizeISODate(d))
	}

	got, ok := LatestMissedDay(setOf(offsets...), today, 14)
	if !ok || !calendar.SameDay(got, day(-14)) {
		t.Fatalf("expected day(-14) with a wider window, got %v %v", got, ok)
	}
}

func TestLongest(t *testing.T) {
	t.Parallel()

	if got := Longest(FromCheckIns(time.UTC)); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := Longest(setOf(0, -1, -10, -11, -12, -13, -14)); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := Longest(setOf(-7)); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestSet_MalformedDatesNeverMatch(t *testing.T) {
	t.Parallel()

	s := FromCheckIns(time.UTC, CheckIn{Date: "not-a-date"}, CheckIn{Date: "2025-09-26"}, CheckIn{Date: ""})
	if s.Len() != 1 {
		t.Fatalf("expected 1 valid day, got %d", s.Len())
	}
	if s.HasISO("not-a-date") {
		t.Fatalf("malformed string must not match")
	}
	if !s.HasISO("2025-09-26T03:00:00Z") {
		t.Fatalf("timestamp on a checked-in day should match")
	}
}

func TestSet_WithDoesNotMutateReceiver(t *testing.T) {
	t.Parallel()

	base := setOf(0)
	next := base.With(day(-1), true)

	if base.Has(day(-1)) {
		t.Fatalf("receiver was mutated")
	}
	if !next.Has(day(-1)) || !next.IsSaver(day(-1)) {
		t.Fatalf("expected restored saver day in copy")
	}
	if next.IsSaver(day(0)) {
		t.Fatalf("regular day must not be flagged as saver")
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize(setOf(0, -1, -3), today, DefaultLookbackDays, 1)
	if s.Length != 2 || s.Longest != 2 || s.SaversLeft != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.LatestMissedDay != calendar.NormalizeISODate(day(-2)) {
		t.Fatalf("unexpected missed day %q", s.LatestMissedDay)
	}
}
