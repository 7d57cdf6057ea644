package mapping

import (
	"time"

	"github.com/fchimpan/kusa-learn/internal/calendar"
	"github.com/fchimpan/kusa-learn/internal/streak"
)

type CellState int

const (
	CellPadding CellState = iota // day outside the rendered month
	CellFuture
	CellMissed
	CellChecked
	CellSaver
)

type DayCell struct {
	Day   time.Time
	State CellState
	Today bool
	// Run is the length of the consecutive run ending on this day (0 when missed).
	Run   int
	Level int
}

// MonthCells is a Monday-first month grid with one DayCell per calendar slot.
type MonthCells struct {
	Grid  calendar.MonthGrid
	Cells [][]DayCell // [week][weekday]
}

// LevelFromRun maps a run length onto the 0..4 intensity scale used for
// the heat cells. A full week of consecutive days reaches the top level.
func LevelFromRun(run int) int {
	switch {
	case run <= 0:
		return 0
	case run == 1:
		return 1
	case run <= 3:
		return 2
	case run < 7:
		return 3
	default:
		return 4
	}
}

// BuildMonthCells classifies every slot of the month containing ref.
func BuildMonthCells(checkins streak.Set, ref, today time.Time) MonthCells {
	grid := calendar.BuildMonthGrid(ref)
	cells := make([][]DayCell, len(grid.Weeks))
	for wi := range cells {
		cells[wi] = make([]DayCell, 7)
	}
	for i, day := range grid.Days() {
		c := DayCell{Day: day, Today: calendar.SameDay(day, today)}
		switch {
		case !grid.InMonth(day):
			c.State = CellPadding
		case day.After(today) && !c.Today:
			c.State = CellFuture
		case checkins.IsSaver(day):
			c.State = CellSaver
		case checkins.Has(day):
			c.State = CellChecked
		default:
			c.State = CellMissed
		}
		if c.State == CellChecked || c.State == CellSaver {
			c.Run = runEndingOn(checkins, day)
			c.Level = LevelFromRun(c.Run)
		}
		cells[i/7][i%7] = c
	}
	return MonthCells{Grid: grid, Cells: cells}
}

// HeatGrid is a 7(row: weekday Monday..Sunday) x N(col) history strip.
type HeatGrid struct {
	Rows   int
	Cols   int
	MaxRun int
	Cells  [][]DayCell // [row][col]
}

// BuildHeatGrid lays out the last weeks weeks ending with today's week.
//
// For terminal constraints, weeks are compressed into up to maxCols columns by
// grouping weeks and keeping the per-weekday longest run within each group.
func BuildHeatGrid(checkins streak.Set, today time.Time, weeks, maxCols int) HeatGrid {
	if maxCols <= 0 {
		maxCols = 1
	}
	if weeks <= 0 {
		return HeatGrid{Rows: 7, Cols: 0, Cells: make([][]DayCell, 7)}
	}

	cols := weeks
	if cols > maxCols {
		cols = maxCols
	}

	cells := make([][]DayCell, 7)
	for r := 0; r < 7; r++ {
		cells[r] = make([]DayCell, cols)
	}

	today = calendar.StartOfDay(today)
	monday := calendar.AddDays(today, -((int(today.Weekday()) + 6) % 7))
	start := calendar.AddDays(monday, -7*(weeks-1))

	// Evenly distribute week indices into [0..cols-1].
	for wi := 0; wi < weeks; wi++ {
		col := (wi * cols) / weeks
		for r := 0; r < 7; r++ {
			day := calendar.AddDays(start, wi*7+r)
			cell := &cells[r][col]
			if cell.Day.IsZero() || calendar.SameDay(day, today) {
				cell.Day = day
				cell.Today = calendar.SameDay(day, today)
			}
			if day.After(today) {
				if cell.State == CellPadding {
					cell.State = CellFuture
				}
				continue
			}
			run := 0
			state := CellMissed
			if checkins.Has(day) {
				run = runEndingOn(checkins, day)
				state = CellChecked
				if checkins.IsSaver(day) {
					state = CellSaver
				}
			}
			if run > cell.Run {
				cell.Run = run
			}
			if state > cell.State {
				cell.State = state
			}
		}
	}

	maxRun := 0
	for r := 0; r < 7; r++ {
		for c := 0; c < cols; c++ {
			if cells[r][c].Run > maxRun {
				maxRun = cells[r][c].Run
			}
		}
	}

	for r := 0; r < 7; r++ {
		for c := 0; c < cols; c++ {
			cells[r][c].Level = LevelFromRun(cells[r][c].Run)
		}
	}

	return HeatGrid{
		Rows:   7,
		Cols:   cols,
		MaxRun: maxRun,
		Cells:  cells,
	}
}

func runEndingOn(checkins streak.Set, day time.Time) int {
	n := 0
	for d := calendar.StartOfDay(day); checkins.Has(d); d = calendar.AddDays(d, -1) {
		n++
	}
	return n
}
