package persist

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/curioloop/internal/learning"
	"github.com/abhisek/curioloop/internal/store"
)

func openTestAdapter(t *testing.T) (*Adapter, store.RecordRepo) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s.RecordRepo(), nil), s.RecordRepo()
}

var now = time.Date(2026, 5, 12, 9, 30, 0, 0, time.Local)

func TestLoad_EmptyStore(t *testing.T) {
	a, records := openTestAdapter(t)

	got, err := a.Load(t.Context(), now)
	require.NoError(t, err)

	assert.Empty(t, got.Paths)
	assert.NotNil(t, got.Paths)
	assert.Equal(t, 1, got.Stats.StreakDays)
	assert.Zero(t, got.Stats.TotalXP)
	assert.True(t, got.Stats.LastLoginDate.Equal(now))

	// Default stats are written so the next launch can roll them over.
	rec, err := records.Get(t.Context(), KeyStats)
	require.NoError(t, err)
	require.NotNil(t, rec)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	a, _ := openTestAdapter(t)
	ctx := t.Context()

	plan, err := learning.MaterializePlan(learning.LearningPlan{
		EstimatedLevel: "Beginner",
		Chapters:       []learning.Chapter{{Title: "One"}, {Title: "Two"}},
	})
	require.NoError(t, err)
	path := learning.NewPath(learning.UserProfile{Topic: "Rust", Level: learning.LevelBeginner, Goal: "CLI tools"}, plan, now.Add(-time.Hour))
	path.CompleteChapter(1, 67, now.Add(-time.Minute))

	require.NoError(t, a.SavePaths(ctx, []learning.LearningPath{path}))
	stats := learning.DailyStats{StreakDays: 3, ChaptersCompletedToday: 1, TotalXP: 670, LastLoginDate: now.Add(-time.Minute)}
	require.NoError(t, a.SaveStats(ctx, stats))

	got, err := a.Load(ctx, now)
	require.NoError(t, err)
	assert.False(t, got.RolledOver)
	require.Len(t, got.Paths, 1)

	opt := cmp.Comparer(func(x, y time.Time) bool { return x.Equal(y) })
	if diff := cmp.Diff(path, got.Paths[0], opt); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(stats, got.Stats, opt); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_RolloverIsWrittenBack(t *testing.T) {
	a, _ := openTestAdapter(t)
	ctx := t.Context()

	yesterday := now.AddDate(0, 0, -1)
	require.NoError(t, a.SaveStats(ctx, learning.DailyStats{StreakDays: 4, ChaptersCompletedToday: 2, TotalXP: 100, LastLoginDate: yesterday}))

	got, err := a.Load(ctx, now)
	require.NoError(t, err)
	assert.True(t, got.RolledOver)
	assert.Equal(t, 5, got.Stats.StreakDays)
	assert.Zero(t, got.Stats.ChaptersCompletedToday)

	// A second load on the same day sees the persisted rollover.
	again, err := a.Load(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, again.RolledOver)
	assert.Equal(t, 5, again.Stats.StreakDays)
}

func TestLoad_MalformedRecords(t *testing.T) {
	a, records := openTestAdapter(t)
	ctx := t.Context()

	require.NoError(t, records.Put(ctx, KeyPaths, []byte(`{not json`)))
	require.NoError(t, records.Put(ctx, KeyStats, []byte(`[1,2,3]`)))

	got, err := a.Load(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, got.Paths)
	assert.Equal(t, 1, got.Stats.StreakDays)
}

func TestLoad_ReadsLegacyShape(t *testing.T) {
	a, records := openTestAdapter(t)
	ctx := t.Context()

	legacy := `[{
		"id": "abc",
		"topic": "Photosynthesis",
		"createdAt": "2026-05-01T10:00:00Z",
		"lastAccessedAt": "2026-05-02T10:00:00Z",
		"userProfile": {"topic": "Photosynthesis", "level": "Beginner", "goal": "exam"},
		"plan": {
			"estimated_level": "Beginner",
			"strengths": [],
			"weaknesses": ["light reactions"],
			"learning_plan": [
				{"chapter_id": 1, "title": "Light", "objective": "o", "estimated_time_minutes": 10, "difficulty": "easy", "topics": [], "status": "completed", "score": 100},
				{"chapter_id": 2, "title": "Dark", "objective": "o", "estimated_time_minutes": 10, "difficulty": "medium", "topics": [], "status": "unlocked"}
			]
		},
		"progress": 50
	}]`
	require.NoError(t, records.Put(ctx, KeyPaths, []byte(legacy)))

	got, err := a.Load(ctx, now)
	require.NoError(t, err)
	require.Len(t, got.Paths, 1)

	p := got.Paths[0]
	assert.Equal(t, "abc", p.ID)
	assert.Equal(t, 50, p.ProgressPercent)
	require.NotNil(t, p.Plan.Chapters[0].Score)
	assert.Equal(t, 100, *p.Plan.Chapters[0].Score)
	assert.Equal(t, learning.StatusUnlocked, p.Plan.Chapters[1].Status)
}

func TestLoad_RepairsStats(t *testing.T) {
	a, records := openTestAdapter(t)
	ctx := t.Context()

	require.NoError(t, records.Put(ctx, KeyStats, []byte(`{"streakDays":0,"chaptersCompletedToday":-1,"totalXp":50,"lastLoginDate":"`+now.Format(time.RFC3339)+`"}`)))

	got, err := a.Load(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stats.StreakDays)
	assert.Zero(t, got.Stats.ChaptersCompletedToday)
	assert.Equal(t, 50, got.Stats.TotalXP)
}

type failingRecords struct{ err error }

func (f failingRecords) Get(context.Context, string) (*store.Record, error) { return nil, f.err }
func (f failingRecords) Put(context.Context, string, []byte) error         { return f.err }

func TestStorageErrors(t *testing.T) {
	boom := errors.New("disk full")
	a := New(failingRecords{err: boom}, nil)

	err := a.SavePaths(t.Context(), nil)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "save", se.Op)
	assert.Equal(t, KeyPaths, se.Key)
	assert.ErrorIs(t, err, boom)

	got, err := a.Load(t.Context(), now)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "load", se.Op)
	assert.Empty(t, got.Paths)
	assert.Equal(t, 1, got.Stats.StreakDays)
}

// flakyRecords fails the first getFailures reads of any key and records
// every write.
type flakyRecords struct {
	store.RecordRepo
	getFailures int
	puts        []string
}

func (f *flakyRecords) Get(ctx context.Context, key string) (*store.Record, error) {
	if f.getFailures > 0 {
		f.getFailures--
		return nil, errors.New("database is locked")
	}
	return f.RecordRepo.Get(ctx, key)
}

func (f *flakyRecords) Put(ctx context.Context, key string, value []byte) error {
	f.puts = append(f.puts, key)
	return f.RecordRepo.Put(ctx, key, value)
}

func TestLoad_ReadErrorDoesNotOverwriteStats(t *testing.T) {
	_, records := openTestAdapter(t)
	ctx := t.Context()
	stored := `{"streakDays":42,"chaptersCompletedToday":2,"totalXp":99000,"lastLoginDate":"` + now.Format(time.RFC3339) + `"}`
	require.NoError(t, records.Put(ctx, KeyStats, []byte(stored)))

	// Both the paths and stats reads fail once.
	flaky := &flakyRecords{RecordRepo: records, getFailures: 2}
	a := New(flaky, nil)

	got, err := a.Load(ctx, now)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "load", se.Op)
	assert.Equal(t, 1, got.Stats.StreakDays, "defaults are still usable in memory")
	assert.Empty(t, flaky.puts, "nothing is written after a failed read")

	rec, err := records.Get(ctx, KeyStats)
	require.NoError(t, err)
	assert.JSONEq(t, stored, string(rec.Value))

	got, err = a.Load(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Stats.StreakDays)
	assert.Equal(t, 99000, got.Stats.TotalXP)
	assert.Empty(t, flaky.puts, "same-day stats need no write back")
}
