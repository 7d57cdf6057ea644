package store

import (
	"sort"
	"time"

	"github.com/fchimpan/kusa-learn/internal/progress"
	"github.com/fchimpan/kusa-learn/internal/session"
	"github.com/fchimpan/kusa-learn/internal/streak"
)

// Apply seeds sess from the stored snapshot. defaultBudget is used when the
// snapshot has never recorded a saver budget.
func (st State) Apply(sess *session.Session, defaultBudget int) {
	sess.SetRecords(st.Records)
	if st.Course != "" {
		sess.SelectCourse(st.Course)
	}
	sess.SetCompleted(progress.NewCompletedSet(st.Completed...))
	sess.ReplaceCheckIns(streak.FromCheckIns(sess.Today().Location(), st.CheckIns...))

	budget := defaultBudget
	if st.Budget != nil {
		budget = *st.Budget
	}
	sess.SetBudget(budget)
}

// Capture snapshots sess for persistence.
func Capture(sess *session.Session, syncedAt time.Time) State {
	budget := sess.Budget()
	return State{
		Course:    sess.CourseID(),
		Budget:    &budget,
		SyncedAt:  syncedAt,
		Completed: sortedIDs(sess.Completed()),
		CheckIns:  sess.CheckIns().CheckIns(),
		Records:   sess.Records(),
	}
}

func sortedIDs(s progress.CompletedSet) []string {
	ids := s.IDs()
	sort.Strings(ids)
	return ids
}
