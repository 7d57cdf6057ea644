package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fchimpan/kusa-learn/internal/progress"
	"github.com/fchimpan/kusa-learn/internal/session"
	"github.com/fchimpan/kusa-learn/internal/streak"
)

func intp(v int) *int { return &v }

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	st, err := Open(filepath.Join(t.TempDir(), "nested", "state.toml"))
	require.NoError(t, err)

	syncedAt := time.Date(2025, 9, 26, 8, 30, 0, 0, time.UTC)
	want := State{
		Course:    "1",
		Budget:    intp(1),
		SyncedAt:  syncedAt,
		Completed: []string{"100", "101"},
		CheckIns: []streak.CheckIn{
			{Date: "2025-09-25", Saver: true},
			{Date: "2025-09-26"},
		},
		Records: []progress.Record{
			{CourseID: "1", CourseTitle: "Ethics", ChapterID: "10", ChapterTitle: "Intro", ChapterOrderIndex: intp(1), TestID: "100", TestTitle: "Basics", TestOrderIndex: intp(1)},
			{CourseID: "1", ChapterID: "10", TestID: "101", Status: "passed"},
		},
	}

	require.NoError(t, st.Save(context.Background(), want))

	info, err := os.Stat(st.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, found, err := st.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, syncedAt.Equal(got.SyncedAt))

	got.SyncedAt, want.SyncedAt = time.Time{}, time.Time{}
	assert.Equal(t, want, got)
}

func TestStoreLoadMissingFile(t *testing.T) {
	t.Parallel()

	st, err := Open(filepath.Join(t.TempDir(), "state.toml"))
	require.NoError(t, err)

	got, found, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got.Budget)
}

func TestStoreRejectsNewerSchema(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 99\n"), 0o600))

	st, err := Open(path)
	require.NoError(t, err)
	_, _, err = st.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported state schema version")
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	st, err := Open(filepath.Join(t.TempDir(), "state.toml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, st.Save(ctx, State{}), context.Canceled)
	_, _, err = st.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenEmptyPath(t *testing.T) {
	t.Parallel()

	_, err := Open("")
	assert.Error(t, err)
}

func TestApplyAndCapture(t *testing.T) {
	t.Parallel()

	now := func() time.Time { return time.Date(2025, 9, 26, 9, 0, 0, 0, time.UTC) }
	state := State{
		Course:    "2",
		Completed: []string{"b", "a"},
		CheckIns:  []streak.CheckIn{{Date: "2025-09-26"}, {Date: "2025-09-25"}},
		Records: []progress.Record{
			{CourseID: "1", ChapterID: "x", TestID: "a"},
			{CourseID: "2", ChapterID: "y", TestID: "b"},
		},
	}

	sess := session.New(session.Options{Now: now})
	state.Apply(sess, 1)

	assert.Equal(t, "2", sess.CourseID())
	assert.Equal(t, 1, sess.Budget(), "default budget applies when none was stored")
	assert.Equal(t, 2, sess.Streak().Length)

	captured := Capture(sess, now())
	require.NotNil(t, captured.Budget)
	assert.Equal(t, 1, *captured.Budget)
	assert.Equal(t, []string{"a", "b"}, captured.Completed)
	assert.Equal(t, []streak.CheckIn{{Date: "2025-09-25"}, {Date: "2025-09-26"}}, captured.CheckIns)

	state.Budget = intp(0)
	state.Apply(sess, 1)
	assert.Equal(t, 0, sess.Budget())
}
