package streak

import (
	"time"

	"github.com/fchimpan/kusa-learn/internal/calendar"
)

// DefaultLookbackDays is how far back a missed day can still be restored.
const DefaultLookbackDays = 13

// Summary is the streak view model.
type Summary struct {
	Length          int
	Longest         int
	LatestMissedDay string // "" when nothing is restorable
	SaversLeft      int
}

// Length counts consecutive checked-in days walking backward from today.
// An unchecked today means a streak of 0.
func Length(checkins Set, today time.Time) int {
	n := 0
	for day := calendar.StartOfDay(today); checkins.Has(day); day = calendar.AddDays(day, -1) {
		n++
	}
	return n
}

// LatestMissedDay returns the most recent day in [today-lookbackDays, today-1]
// that is not checked in. Days older than the window are never returned.
func LatestMissedDay(checkins Set, today time.Time, lookbackDays int) (time.Time, bool) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	for i := 1; i <= lookbackDays; i++ {
		day := calendar.AddDays(today, -i)
		if !checkins.Has(day) {
			return day, true
		}
	}
	return time.Time{}, false
}

// Longest returns the longest run of consecutive days anywhere in the set.
func Longest(checkins Set) int {
	days := checkins.CheckIns()
	if len(days) == 0 {
		return 0
	}

	longest, cur := 1, 1
	prev, _ := calendar.ParseISODate(days[0].Date, checkins.location())
	for _, c := range days[1:] {
		d, _ := calendar.ParseISODate(c.Date, checkins.location())
		if calendar.SameDay(calendar.AddDays(prev, 1), d) {
			cur++
		} else {
			cur = 1
		}
		longest = max(longest, cur)
		prev = d
	}
	return longest
}

// Summarize computes the full streak view model.
func Summarize(checkins Set, today time.Time, lookbackDays, saversLeft int) Summary {
	s := Summary{
		Length:     Length(checkins, today),
		Longest:    Longest(checkins),
		SaversLeft: saversLeft,
	}
	if day, ok := LatestMissedDay(checkins, today, lookbackDays); ok {
		s.LatestMissedDay = calendar.NormalizeISODate(day)
	}
	return s
}
