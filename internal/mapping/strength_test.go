package mapping

import (
	"testing"
	"time"

	"github.com/fchimpan/kusa-learn/internal/streak"
)

func TestLevelFromRun(t *testing.T) {
	t.Parallel()

	cases := []struct {
		run, want int
	}{
		{0, 0},
		{-2, 0},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 3},
		{6, 3},
		{7, 4},
		{30, 4},
	}
	for _, tc := range cases {
		if got := LevelFromRun(tc.run); got != tc.want {
			t.Fatalf("LevelFromRun(%d)=%d, want %d", tc.run, got, tc.want)
		}
	}
}

func TestBuildMonthCells(t *testing.T) {
	t.Parallel()

	set := streak.FromCheckIns(time.UTC,
		streak.CheckIn{Date: "2025-09-22"},
		streak.CheckIn{Date: "2025-09-23", Saver: true},
		streak.CheckIn{Date: "2025-09-24"},
	)
	today := time.Date(2025, 9, 24, 15, 0, 0, 0, time.UTC)

	mc := BuildMonthCells(set, today, today)
	if len(mc.Cells) != 5 {
		t.Fatalf("weeks=%d, want 5", len(mc.Cells))
	}

	byDay := map[string]DayCell{}
	for _, w := range mc.Cells {
		if len(w) != 7 {
			t.Fatalf("week length=%d, want 7", len(w))
		}
		for _, c := range w {
			byDay[c.Day.Format("2006-01-02")] = c
		}
	}

	want := map[string]CellState{
		"2025-09-01": CellMissed,
		"2025-09-22": CellChecked,
		"2025-09-23": CellSaver,
		"2025-09-24": CellChecked,
		"2025-09-25": CellFuture,
		"2025-10-05": CellPadding,
	}
	for day, state := range want {
		if got := byDay[day].State; got != state {
			t.Fatalf("%s state=%d, want %d", day, got, state)
		}
	}

	if c := byDay["2025-09-24"]; !c.Today || c.Run != 3 || c.Level != 2 {
		t.Fatalf("today cell=%+v", c)
	}
	if c := byDay["2025-09-22"]; c.Run != 1 || c.Level != 1 {
		t.Fatalf("run start cell=%+v", c)
	}
}

func TestBuildHeatGrid(t *testing.T) {
	t.Parallel()

	// Wednesday.
	today := time.Date(2025, 9, 24, 0, 0, 0, 0, time.UTC)
	set := streak.FromCheckIns(time.UTC,
		streak.CheckIn{Date: "2025-09-15"},
		streak.CheckIn{Date: "2025-09-23"},
		streak.CheckIn{Date: "2025-09-24"},
	)

	g := BuildHeatGrid(set, today, 2, 10)
	if g.Rows != 7 || g.Cols != 2 || g.MaxRun != 2 {
		t.Fatalf("grid=%dx%d max=%d", g.Rows, g.Cols, g.MaxRun)
	}
	if c := g.Cells[0][0]; c.State != CellChecked || c.Day.Day() != 15 {
		t.Fatalf("monday of last week=%+v", c)
	}
	if c := g.Cells[2][1]; !c.Today || c.Run != 2 || c.Level != 2 {
		t.Fatalf("today=%+v", c)
	}
	if c := g.Cells[3][1]; c.State != CellFuture {
		t.Fatalf("thursday should be future, got %+v", c)
	}
	if c := g.Cells[4][0]; c.State != CellMissed {
		t.Fatalf("past friday should be missed, got %+v", c)
	}

	compressed := BuildHeatGrid(set, today, 2, 1)
	if compressed.Cols != 1 {
		t.Fatalf("cols=%d, want 1", compressed.Cols)
	}
	if c := compressed.Cells[0][0]; c.State != CellChecked || c.Run != 1 {
		t.Fatalf("compressed monday=%+v", c)
	}
	if c := compressed.Cells[2][0]; !c.Today || c.Run != 2 {
		t.Fatalf("compressed wednesday=%+v", c)
	}
}

func TestBuildHeatGridEmpty(t *testing.T) {
	t.Parallel()

	g := BuildHeatGrid(streak.Set{}, time.Now(), 0, 10)
	if g.Cols != 0 || len(g.Cells) != 7 {
		t.Fatalf("unexpected empty grid: %+v", g)
	}
}
