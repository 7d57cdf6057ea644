package store

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int             `toml:"version"`
	Course    string          `toml:"course,omitempty"`
	Budget    *int            `toml:"budget,omitempty"`
	SyncedAt  string          `toml:"synced_at,omitempty"`
	Completed []string        `toml:"completed"`
	CheckIns  []checkInSchema `toml:"checkins"`
	Records   []recordSchema  `toml:"records"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported state schema version %d (current %d)", s.Version, currentSchemaVersion)
	}
	return nil
}

type checkInSchema struct {
	Date  string `toml:"date"`
	Saver bool   `toml:"saver,omitempty"`
}

type recordSchema struct {
	CourseID          string `toml:"course_id"`
	CourseTitle       string `toml:"course_title,omitempty"`
	ChapterID         string `toml:"chapter_id"`
	ChapterTitle      string `toml:"chapter_title,omitempty"`
	ChapterOrderIndex *int   `toml:"chapter_order_index,omitempty"`
	TestID            string `toml:"test_id,omitempty"`
	TestTitle         string `toml:"test_title,omitempty"`
	TestOrderIndex    *int   `toml:"test_order_index,omitempty"`
	Status            string `toml:"status,omitempty"`
}
