package platform

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/fchimpan/kusa-learn/internal/progress"
)

// id accepts both JSON numbers and strings; the platform uses integer keys.
type id string

func (i *id) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*i = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*i = id(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*i = id(n.String())
	return nil
}

// list decodes either a bare JSON array or a paginated {"results": [...]} object.
type list[T any] []T

func (l *list[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var page struct {
			Results []T `json:"results"`
		}
		if err := json.Unmarshal(b, &page); err != nil {
			return err
		}
		*l = page.Results
		return nil
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

type treeRow struct {
	Course *struct {
		CourseID id     `json:"course_id"`
		Title    string `json:"title"`
	} `json:"course"`
	Chapter *struct {
		ChapterID  id     `json:"chapter_id"`
		Title      string `json:"title"`
		OrderIndex *int   `json:"order_index"`
	} `json:"chapter"`
	Test *struct {
		TestID     id     `json:"test_id"`
		Title      string `json:"title"`
		OrderIndex *int   `json:"order_index"`
		Status     string `json:"status"`
	} `json:"test"`
	Status string `json:"status"`
}

func (r treeRow) record() progress.Record {
	var rec progress.Record
	if r.Course != nil {
		rec.CourseID = string(r.Course.CourseID)
		rec.CourseTitle = r.Course.Title
	}
	if r.Chapter != nil {
		rec.ChapterID = string(r.Chapter.ChapterID)
		rec.ChapterTitle = r.Chapter.Title
		rec.ChapterOrderIndex = r.Chapter.OrderIndex
	}
	if r.Test != nil {
		rec.TestID = string(r.Test.TestID)
		rec.TestTitle = r.Test.Title
		rec.TestOrderIndex = r.Test.OrderIndex
		rec.Status = r.Test.Status
	}
	if r.Status != "" {
		rec.Status = r.Status
	}
	return rec
}

type userTestRow struct {
	TestID id `json:"test_id"`
	Test   *struct {
		TestID id `json:"test_id"`
	} `json:"test"`
	Passed       *bool           `json:"passed"`
	Status       string          `json:"status"`
	Score        json.RawMessage `json:"score"`
	PassingScore json.RawMessage `json:"passing_score"`
}

func (r userTestRow) attempt() progress.Attempt {
	testID := string(r.TestID)
	if testID == "" && r.Test != nil {
		testID = string(r.Test.TestID)
	}
	return progress.Attempt{
		TestID:       testID,
		Passed:       r.Passed,
		Status:       r.Status,
		Score:        number(r.Score),
		PassingScore: number(r.PassingScore),
	}
}

// number reads a JSON number or numeric string; DRF serializes decimals as strings.
func number(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

type streakDay struct {
	Date          string `json:"daily_streak_date"`
	IsStreakSaver bool   `json:"is_streak_saver"`
}

// dailyStreakResponse accepts either {"streak_days": [...]} or a (paginated) list of days.
type dailyStreakResponse struct {
	Days       []streakDay
	SaversLeft *int
}

func (d *dailyStreakResponse) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			StreakDays       []streakDay `json:"streak_days"`
			StreakSaversLeft *int        `json:"streak_savers_left"`
			Results          []streakDay `json:"results"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		d.Days = obj.StreakDays
		if d.Days == nil {
			d.Days = obj.Results
		}
		d.SaversLeft = obj.StreakSaversLeft
		return nil
	}
	return json.Unmarshal(b, &d.Days)
}
