package calendar

import (
	"testing"
	"time"
)

func TestNormalizeISODate_SameDayDifferentTimes(t *testing.T) {
	t.Parallel()

	morning := time.Date(2025, 3, 9, 0, 0, 1, 0, time.UTC)
	night := time.Date(2025, 3, 9, 23, 59, 59, 0, time.UTC)

	if NormalizeISODate(morning) != NormalizeISODate(night) {
		t.Fatalf("expected same key, got %q vs %q", NormalizeISODate(morning), NormalizeISODate(night))
	}
	if got := NormalizeISODate(morning); got != "2025-03-09" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestParseISODate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "2025-09-26", want: "2025-09-26", ok: true},
		{in: " 2025-09-26 ", want: "2025-09-26", ok: true},
		{in: "2025-09-26T14:08:08.705849Z", want: "2025-09-26", ok: true},
		{in: "2025-09-26T23:30:00-02:00", want: "2025-09-27", ok: true},
		{in: "", ok: false},
		{in: "26/09/2025", ok: false},
		{in: "2025-13-01", ok: false},
	}
	for _, tc := range cases {
		got, ok := ParseISODate(tc.in, time.UTC)
		if ok != tc.ok {
			t.Fatalf("ParseISODate(%q) ok=%v, want %v", tc.in, ok, tc.ok)
		}
		if ok && NormalizeISODate(got) != tc.want {
			t.Fatalf("ParseISODate(%q) = %s, want %s", tc.in, NormalizeISODate(got), tc.want)
		}
	}
}

func TestAddDays_AcrossMonthBoundary(t *testing.T) {
	t.Parallel()

	d := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	if got := NormalizeISODate(AddDays(d, -1)); got != "2025-02-28" {
		t.Fatalf("got %s", got)
	}
}

func TestBuildMonthGrid_WeeksStartMondayAndCoverMonth(t *testing.T) {
	t.Parallel()

	for year := 2024; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			ref := time.Date(year, month, 15, 10, 0, 0, 0, time.UTC)
			g := BuildMonthGrid(ref)

			if len(g.Weeks) == 0 || len(g.Weeks) > 6 {
				t.Fatalf("%d-%02d: unexpected row count %d", year, month, len(g.Weeks))
			}
			seen := map[int]bool{}
			for _, w := range g.Weeks {
				if len(w) != 7 {
					t.Fatalf("%d-%02d: week has %d days", year, month, len(w))
				}
				if w[0].Weekday() != time.Monday {
					t.Fatalf("%d-%02d: week starts on %s", year, month, w[0].Weekday())
				}
				for _, d := range w {
					if g.InMonth(d) {
						seen[d.Day()] = true
					}
				}
			}
			last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
			for day := 1; day <= last; day++ {
				if !seen[day] {
					t.Fatalf("%d-%02d: day %d missing from grid", year, month, day)
				}
			}
		}
	}
}

func TestBuildMonthGrid_SixRowsWhenMonthStartsSunday(t *testing.T) {
	t.Parallel()

	// 2025-06-01 is a Sunday and June has 30 days: 6 + 30 = 36 cells -> 6 rows.
	g := BuildMonthGrid(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
	if len(g.Weeks) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(g.Weeks))
	}
	if got := NormalizeISODate(g.Weeks[0][0]); got != "2025-05-26" {
		t.Fatalf("expected grid to start 2025-05-26, got %s", got)
	}
}

func TestBuildMonthGrid_FourRowsForAlignedFebruary(t *testing.T) {
	t.Parallel()

	// 2027-02-01 is a Monday and February 2027 has 28 days.
	g := BuildMonthGrid(time.Date(2027, 2, 3, 0, 0, 0, 0, time.UTC))
	if len(g.Weeks) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(g.Weeks))
	}
}

func TestBuildMonthGrid_DeterministicWithinDay(t *testing.T) {
	t.Parallel()

	a := BuildMonthGrid(time.Date(2025, 9, 26, 0, 0, 0, 0, time.UTC))
	b := BuildMonthGrid(time.Date(2025, 9, 26, 23, 59, 0, 0, time.UTC))
	if len(a.Weeks) != len(b.Weeks) {
		t.Fatalf("row count differs: %d vs %d", len(a.Weeks), len(b.Weeks))
	}
	for i := range a.Weeks {
		for j := range a.Weeks[i] {
			if !a.Weeks[i][j].Equal(b.Weeks[i][j]) {
				t.Fatalf("cell %d/%d differs", i, j)
			}
		}
	}
}

func TestMonthGrid_DaysRowMajor(t *testing.T) {
	t.Parallel()

	g := BuildMonthGrid(time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC))
	days := g.Days()
	if len(days) != len(g.Weeks)*7 {
		t.Fatalf("len=%d, want %d", len(days), len(g.Weeks)*7)
	}
	for i := 1; i < len(days); i++ {
		if !days[i].Equal(AddDays(days[i-1], 1)) {
			t.Fatalf("days[%d]=%s does not follow %s", i, NormalizeISODate(days[i]), NormalizeISODate(days[i-1]))
		}
	}
	if got := NormalizeISODate(days[len(days)-1]); got != "2025-10-05" {
		t.Fatalf("last cell=%s, want 2025-10-05", got)
	}
}

func TestParseMonth(t *testing.T) {
	t.Parallel()

	got, ok := ParseMonth("2025-02", time.UTC)
	if !ok || got.Month() != time.February || got.Day() != 1 {
		t.Fatalf("unexpected result %v %v", got, ok)
	}
	if _, ok := ParseMonth("Feb 2025", time.UTC); ok {
		t.Fatalf("expected parse failure")
	}
}
