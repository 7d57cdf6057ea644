// Package session holds the learner's progress and streak state for one
// interactive session. Setters are the only way to change it; every derived
// value (chapters, tile statuses, streak) is recomputed from the current snapshot.
package session

import (
	"context"
	"time"

	"github.com/fchimpan/kusa-learn/internal/calendar"
	"github.com/fchimpan/kusa-learn/internal/progress"
	"github.com/fchimpan/kusa-learn/internal/streak"
)

type Options struct {
	LookbackDays int
	Policy       streak.ChargePolicy
	Now          func() time.Time
}

type Session struct {
	records   []progress.Record
	completed progress.CompletedSet
	courseID  string

	checkins streak.Set
	budget   int
	// gen counts external snapshot replacements.
	gen uint64

	lookback int
	saver    *streak.Controller
	now      func() time.Time
}

func New(opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = streak.DefaultLookbackDays
	}
	return &Session{
		completed: progress.NewCompletedSet(),
		checkins:  streak.FromCheckIns(opts.Now().Location()),
		lookback:  opts.LookbackDays,
		saver:     streak.NewController(opts.Policy),
		now:       opts.Now,
	}
}

// SetRecords replaces the tests tree. If no course is selected, or the
// selected course disappeared, the first course in the tree is selected.
func (s *Session) SetRecords(records []progress.Record) {
	s.records = append([]progress.Record(nil), records...)
	courses := progress.Courses(s.records)
	for _, c := range courses {
		if c.ID == s.courseID {
			return
		}
	}
	s.courseID = ""
	if len(courses) > 0 {
		s.courseID = courses[0].ID
	}
}

func (s *Session) SetCompleted(completed progress.CompletedSet) {
	if completed == nil {
		completed = progress.NewCompletedSet()
	}
	s.completed = completed
}

// SelectCourse switches the rendered course. Unknown ids are accepted and simply render nothing.
func (s *Session) SelectCourse(courseID string) { s.courseID = courseID }

// ReplaceCheckIns overwrites the check-in snapshot after an external sync.
// Restorations prepared before the call are no longer committed.
func (s *Session) ReplaceCheckIns(checkins streak.Set) {
	s.checkins = checkins
	s.gen++
}

// SetBudget overwrites the saver budget after an external sync.
func (s *Session) SetBudget(n int) {
	s.budget = n
	s.gen++
}

func (s *Session) CourseID() string                 { return s.courseID }
func (s *Session) Courses() []progress.Course       { return progress.Courses(s.records) }
func (s *Session) Records() []progress.Record       { return s.records }
func (s *Session) Completed() progress.CompletedSet { return s.completed }
func (s *Session) CheckIns() streak.Set             { return s.checkins }
func (s *Session) Budget() int                      { return s.budget }
func (s *Session) Today() time.Time                 { return s.now() }

// Chapters aggregates the selected course.
func (s *Session) Chapters() []progress.Chapter {
	return progress.Aggregate(s.records, s.courseID)
}

// View resolves tile statuses for the selected course.
func (s *Session) View() progress.View {
	return progress.BuildView(s.Chapters(), s.completed)
}

func (s *Session) Streak() streak.Summary {
	return streak.Summarize(s.checkins, s.now(), s.lookback, s.budget)
}

// LatestMissedDay is the day a streak saver would restore.
func (s *Session) LatestMissedDay() (time.Time, bool) {
	return streak.LatestMissedDay(s.checkins, s.now(), s.lookback)
}

// SaverPending reports whether a restoration is in flight.
func (s *Session) SaverPending() bool { return s.saver.Pending() }

// UseStreakSaver restores the latest missed day. remote may be nil for a
// local-only restoration. It returns the restored day.
func (s *Session) UseStreakSaver(ctx context.Context, remote streak.RemoteFunc) (time.Time, error) {
	day, ok := s.LatestMissedDay()
	if !ok {
		return time.Time{}, streak.ErrNothingToRestore
	}
	return day, s.RestoreDay(ctx, day, remote)
}

// RestoreDay restores a specific day through the saver controller.
func (s *Session) RestoreDay(ctx context.Context, day time.Time, remote streak.RemoteFunc) error {
	checkins, budget, err := s.saver.Restore(ctx, s.checkins, day, s.budget, remote)
	if err != nil {
		return err
	}
	s.checkins = checkins
	s.budget = budget
	return nil
}

// CheckIn records today locally.
func (s *Session) CheckIn() time.Time {
	today := s.now()
	s.checkins = s.checkins.With(today, false)
	return today
}

// Restoration is a streak-saver request detached from the session so the
// remote call can run off the UI goroutine. Commit applies its outcome.
type Restoration struct {
	Day time.Time

	checkins streak.Set
	budget   int
	gen      uint64
	saver    *streak.Controller

	result streak.Set
	left   int
	done   bool
}

// PrepareRestore snapshots the state needed to restore the latest missed day.
// It fails early when no saver is left.
func (s *Session) PrepareRestore() (*Restoration, error) {
	day, ok := s.LatestMissedDay()
	if !ok {
		return nil, streak.ErrNothingToRestore
	}
	if s.budget <= 0 {
		return nil, &streak.BudgetError{Day: calendar.NormalizeISODate(day), Budget: s.budget}
	}
	return &Restoration{Day: day, checkins: s.checkins, budget: s.budget, gen: s.gen, saver: s.saver}, nil
}

// Run performs the restoration. It is safe to call from any goroutine; a
// second Run while one is in flight fails with streak.ErrRestorePending.
func (r *Restoration) Run(ctx context.Context, remote streak.RemoteFunc) error {
	checkins, left, err := r.saver.Restore(ctx, r.checkins, r.Day, r.budget, remote)
	if err != nil {
		return err
	}
	r.result, r.left, r.done = checkins, left, true
	return nil
}

// Commit applies a successful Run on top of the current check-ins. It reports
// false when there is nothing to apply or when an external sync replaced the
// snapshot the restoration was prepared from; the sync wins in that case.
func (s *Session) Commit(r *Restoration) bool {
	if r == nil || !r.done || r.gen != s.gen {
		return false
	}
	if r.result.Has(r.Day) && !s.checkins.Has(r.Day) {
		s.checkins = s.checkins.With(r.Day, true)
	}
	s.budget -= r.budget - r.left
	return true
}
