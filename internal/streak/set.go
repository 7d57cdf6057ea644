package streak

import (
	"sort"
	"time"

	"github.com/fchimpan/kusa-learn/internal/calendar"
)

// CheckIn is one recorded day. Saver marks days restored by a streak saver.
type CheckIn struct {
	Date  string
	Saver bool
}

// Set is the set of checked-in calendar days, keyed by ISO day.
//
// A Set is a value: Restore and With return a new Set and never touch the
// receiver, so a Set handed to a render pass cannot change underneath it.
type Set struct {
	days map[string]bool // ISO day -> restored by saver
	loc  *time.Location
}

// NewSet builds a Set from ISO day strings. Malformed strings are dropped.
func NewSet(dates ...string) Set {
	cs := make([]CheckIn, 0, len(dates))
	for _, d := range dates {
		cs = append(cs, CheckIn{Date: d})
	}
	return FromCheckIns(time.Local, cs...)
}

// FromCheckIns builds a Set interpreting timestamps in loc.
func FromCheckIns(loc *time.Location, checkins ...CheckIn) Set {
	if loc == nil {
		loc = time.Local
	}
	s := Set{days: make(map[string]bool, len(checkins)), loc: loc}
	for _, c := range checkins {
		day, ok := calendar.ParseISODate(c.Date, loc)
		if !ok {
			continue
		}
		key := calendar.NormalizeISODate(day)
		s.days[key] = s.days[key] || c.Saver
	}
	return s
}

// Len returns the number of distinct days.
func (s Set) Len() int { return len(s.days) }

// Has reports whether day's calendar day is checked in.
func (s Set) Has(day time.Time) bool {
	_, ok := s.days[calendar.NormalizeISODate(day)]
	return ok
}

// HasISO reports whether the ISO string is checked in. Invalid input never matches.
func (s Set) HasISO(iso string) bool {
	day, ok := calendar.ParseISODate(iso, s.location())
	if !ok {
		return false
	}
	return s.Has(day)
}

// IsSaver reports whether day was restored by a streak saver.
func (s Set) IsSaver(day time.Time) bool {
	return s.days[calendar.NormalizeISODate(day)]
}

// With returns a copy of s that includes day.
func (s Set) With(day time.Time, saver bool) Set {
	out := Set{days: make(map[string]bool, len(s.days)+1), loc: s.location()}
	for k, v := range s.days {
		out.days[k] = v
	}
	key := calendar.NormalizeISODate(day)
	out.days[key] = out.days[key] || saver
	return out
}

// CheckIns returns the days in ascending order.
func (s Set) CheckIns() []CheckIn {
	out := make([]CheckIn, 0, len(s.days))
	for k, v := range s.days {
		out = append(out, CheckIn{Date: k, Saver: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (s Set) location() *time.Location {
	if s.loc == nil {
		return time.Local
	}
	return s.loc
}
