package progress

import (
	"fmt"
	"sort"
	"strings"
)

// Record is one course/chapter/test association from the tests tree.
// An empty TestID means the association has no test.
type Record struct {
	CourseID          string
	CourseTitle       string
	ChapterID         string
	ChapterTitle      string
	ChapterOrderIndex *int
	TestID            string
	TestTitle         string
	TestOrderIndex    *int
	Status            string
}

type Course struct {
	ID    string
	Title string
}

// Aggregate groups the records of courseID into chapters.
//
// Records without a test or chapter id are dropped. Chapter metadata comes from
// the first record seen for that chapter and tiles keep input order. Chapters
// are numbered by their order index, or by first-seen position when the index
// is missing, and sorted ascending with ties kept in first-seen order.
func Aggregate(records []Record, courseID string) []Chapter {
	var chapters []*Chapter
	byID := map[string]*Chapter{}

	for _, r := range records {
		if r.CourseID != courseID || r.TestID == "" || r.ChapterID == "" {
			continue
		}
		ch, ok := byID[r.ChapterID]
		if !ok {
			number := len(chapters) + 1
			if r.ChapterOrderIndex != nil {
				number = *r.ChapterOrderIndex
			}
			ch = &Chapter{ID: r.ChapterID, Number: number, Title: r.ChapterTitle}
			byID[r.ChapterID] = ch
			chapters = append(chapters, ch)
		}
		ch.Tiles = append(ch.Tiles, tileFromRecord(r))
	}

	sort.SliceStable(chapters, func(i, j int) bool { return chapters[i].Number < chapters[j].Number })

	out := make([]Chapter, len(chapters))
	for i, ch := range chapters {
		out[i] = *ch
	}
	return out
}

func tileFromRecord(r Record) Tile {
	desc := strings.TrimSpace(r.TestTitle)
	if desc == "" {
		desc = fmt.Sprintf("Lesson %s", r.TestID)
	}
	order := 0
	if r.TestOrderIndex != nil {
		order = *r.TestOrderIndex
	}
	return Tile{
		Type:           TileLesson,
		CompletableID:  r.TestID,
		OrderIndex:     order,
		Description:    desc,
		StatusOverride: r.Status,
	}
}

// Courses lists the distinct courses in first-seen order.
func Courses(records []Record) []Course {
	var out []Course
	seen := map[string]bool{}
	for _, r := range records {
		if r.CourseID == "" || seen[r.CourseID] {
			continue
		}
		seen[r.CourseID] = true
		out = append(out, Course{ID: r.CourseID, Title: r.CourseTitle})
	}
	return out
}

// Attempt is a user test attempt as reported by the platform. Pointer fields
// are nil when the platform omitted them.
type Attempt struct {
	TestID       string
	Passed       *bool
	Status       string
	Score        *float64
	PassingScore *float64
}

// Completed reports whether the attempt counts as finishing its test.
// Fields are consulted in order: passed, status, score vs passing score.
// An attempt with none of them still counts.
func (a Attempt) Completed() bool {
	switch {
	case a.Passed != nil:
		return *a.Passed
	case a.Status != "":
		return strings.EqualFold(a.Status, "complete")
	case a.Score != nil && a.PassingScore != nil:
		return *a.Score >= *a.PassingScore
	default:
		return true
	}
}

// CompletedFromAttempts collects the test ids of completed attempts.
func CompletedFromAttempts(attempts []Attempt) CompletedSet {
	ids := make([]string, 0, len(attempts))
	for _, a := range attempts {
		if a.TestID == "" || !a.Completed() {
			continue
		}
		ids = append(ids, a.TestID)
	}
	return NewCompletedSet(ids...)
}
