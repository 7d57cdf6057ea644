// Package render turns progress and streak view models into terminal text.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fchimpan/kusa-learn/internal/mapping"
	"github.com/fchimpan/kusa-learn/internal/streak"
)

type StreakOptions struct {
	Now time.Time
	// Month selects the calendar month; zero means Now's month.
	Month time.Time
	// SaverPending marks a restoration in flight.
	SaverPending bool
}

var weekdayLabels = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

const (
	markChecked = "●"
	markSaver   = "◐"
	markMissed  = "·"
)

// Streak renders the streak summary followed by a Monday-first month calendar.
func Streak(sum streak.Summary, checkins streak.Set, opts StreakOptions) string {
	s := newStyles()
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	month := opts.Month
	if month.IsZero() {
		month = opts.Now
	}

	lines := []string{
		s.title.Render("Daily streak"),
		summaryLine(s, "current", days(sum.Length), sum.Length > 0),
		summaryLine(s, "longest", days(sum.Longest), false),
		summaryLine(s, "savers left", fmt.Sprintf("%d", sum.SaversLeft), false),
		missedLine(s, sum, opts.SaverPending),
		s.section.Render(Month(checkins, month, opts.Now)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Month renders the calendar grid of the month containing ref.
func Month(checkins streak.Set, ref, now time.Time) string {
	s := newStyles()
	mc := mapping.BuildMonthCells(checkins, ref, now)

	lines := make([]string, 0, len(mc.Cells)+3)
	lines = append(lines, s.value.Render(fmt.Sprintf("%s %d", mc.Grid.Month, mc.Grid.Year)))

	header := make([]string, len(weekdayLabels))
	for i, l := range weekdayLabels {
		header[i] = s.label.Render(fmt.Sprintf("%-3s", l))
	}
	lines = append(lines, strings.Join(header, " "))

	for _, week := range mc.Cells {
		row := make([]string, len(week))
		for i, c := range week {
			row[i] = dayCell(s, c)
		}
		lines = append(lines, strings.Join(row, " "))
	}

	lines = append(lines, s.dim.Render(fmt.Sprintf("%s checked  %s saver  %s missed", markChecked, markSaver, markMissed)))
	return strings.Join(lines, "\n")
}

// Heat renders a weeks-long history strip, Monday row first, compressed to fit width.
func Heat(checkins streak.Set, today time.Time, weeks, width int) string {
	g := mapping.BuildHeatGrid(checkins, today, weeks, max(width-4, 1))
	s := newStyles()

	var b strings.Builder
	for r := 0; r < g.Rows; r++ {
		b.WriteString(s.label.Render(weekdayLabels[r][:1]))
		b.WriteString(" ")
		for _, c := range g.Cells[r] {
			b.WriteString(heatCell(s, c))
		}
		if r < g.Rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func heatCell(s styles, c mapping.DayCell) string {
	switch c.State {
	case mapping.CellChecked, mapping.CellSaver:
		lvl := c.Level
		if lvl < 1 {
			lvl = 1
		}
		if lvl > len(heatLevels) {
			lvl = len(heatLevels)
		}
		st := lipgloss.NewStyle().Foreground(heatLevels[lvl-1])
		if c.State == mapping.CellSaver {
			return st.Render(markSaver)
		}
		return st.Render("■")
	case mapping.CellMissed:
		return s.dim.Render("□")
	default:
		return " "
	}
}

func dayCell(s styles, c mapping.DayCell) string {
	if c.State == mapping.CellPadding {
		return "   "
	}
	num := fmt.Sprintf("%2d", c.Day.Day())
	if c.Today {
		num = s.today.Render(num)
	}
	switch c.State {
	case mapping.CellChecked:
		return num + s.checked.Render(markChecked)
	case mapping.CellSaver:
		return num + s.saver.Render(markSaver)
	case mapping.CellMissed:
		return num + s.missed.Render(markMissed)
	default:
		return s.dim.Render(num) + " "
	}
}

func summaryLine(s styles, label, value string, highlight bool) string {
	v := s.value.Render(value)
	if highlight {
		v = s.ok.Render(value)
	}
	return s.label.Render(fmt.Sprintf("%-12s", label+":")) + v
}

func missedLine(s styles, sum streak.Summary, pending bool) string {
	label := s.label.Render(fmt.Sprintf("%-12s", "missed:"))
	switch {
	case pending:
		return label + s.warning.Render("restoring...")
	case sum.LatestMissedDay == "":
		return label + s.dim.Render("none")
	case sum.SaversLeft > 0:
		return label + s.warning.Render(sum.LatestMissedDay) + s.dim.Render(" (saver available)")
	default:
		return label + s.warning.Render(sum.LatestMissedDay) + s.dim.Render(" (no savers left)")
	}
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
