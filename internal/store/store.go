// Package store persists the last synced learner snapshot as a TOML file so
// the CLI can render progress and streaks without hitting the platform.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/fchimpan/kusa-learn/internal/progress"
	"github.com/fchimpan/kusa-learn/internal/streak"
)

const (
	stateFileMode   = 0o600
	stateDirMode    = 0o700
	tempFilePattern = ".state-*.toml.tmp"
)

// State is everything the engine needs to render one session.
// Budget is nil until a value has been synced or spent.
type State struct {
	Course    string
	Budget    *int
	SyncedAt  time.Time
	Completed []string
	CheckIns  []streak.CheckIn
	Records   []progress.Record
}

type Store struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("state path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve state path: %w", err)
	}
	abs = filepath.Clean(abs)
	return &Store{path: abs, mu: lockForPath(abs)}, nil
}

func (s *Store) Path() string { return s.path }

// Load reads the state file. A missing file yields a zero State and found=false.
func (s *Store) Load(ctx context.Context) (State, bool, error) {
	if err := ctx.Err(); err != nil {
		return State{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, false, nil
		}
		return State{}, false, fmt.Errorf("read state file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return State{}, false, fmt.Errorf("decode state file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return State{}, false, err
	}
	file.applyDefaults()

	return fromSchema(file), true, nil
}

// Save atomically replaces the state file.
func (s *Store) Save(ctx context.Context, state State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file := toSchema(state)
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(s.path), stateDirMode); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tempFile.Chmod(stateFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp state file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	cleanup = false

	return nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}
	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(state State) fileSchema {
	file := fileSchema{
		Course:    state.Course,
		Budget:    state.Budget,
		SyncedAt:  formatTime(state.SyncedAt),
		Completed: append([]string{}, state.Completed...),
		CheckIns:  make([]checkInSchema, 0, len(state.CheckIns)),
		Records:   make([]recordSchema, 0, len(state.Records)),
	}
	for _, c := range state.CheckIns {
		file.CheckIns = append(file.CheckIns, checkInSchema{Date: c.Date, Saver: c.Saver})
	}
	for _, r := range state.Records {
		file.Records = append(file.Records, recordSchema{
			CourseID:          r.CourseID,
			CourseTitle:       r.CourseTitle,
			ChapterID:         r.ChapterID,
			ChapterTitle:      r.ChapterTitle,
			ChapterOrderIndex: r.ChapterOrderIndex,
			TestID:            r.TestID,
			TestTitle:         r.TestTitle,
			TestOrderIndex:    r.TestOrderIndex,
			Status:            r.Status,
		})
	}
	return file
}

func fromSchema(file fileSchema) State {
	state := State{
		Course:    file.Course,
		Budget:    file.Budget,
		SyncedAt:  parseTime(file.SyncedAt),
		Completed: file.Completed,
	}
	for _, c := range file.CheckIns {
		state.CheckIns = append(state.CheckIns, streak.CheckIn{Date: c.Date, Saver: c.Saver})
	}
	for _, r := range file.Records {
		state.Records = append(state.Records, progress.Record{
			CourseID:          r.CourseID,
			CourseTitle:       r.CourseTitle,
			ChapterID:         r.ChapterID,
			ChapterTitle:      r.ChapterTitle,
			ChapterOrderIndex: r.ChapterOrderIndex,
			TestID:            r.TestID,
			TestTitle:         r.TestTitle,
			TestOrderIndex:    r.TestOrderIndex,
			Status:            r.Status,
		})
	}
	return state
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(time.RFC3339)
}
