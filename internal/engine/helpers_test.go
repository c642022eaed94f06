package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/curioloop/internal/gateway"
	"github.com/abhisek/curioloop/internal/learning"
	"github.com/abhisek/curioloop/internal/llm"
)

var testNow = time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC)

const questionTmpl = `{"id":"%s","type":"mcq","question":"Pick one","options":["a","b","c","d"],"correctIndex":%d,"explanation":"because"}`

func question(id string, correct int) string {
	return fmt.Sprintf(questionTmpl, id, correct)
}

func diagnosticResponse() llm.MockResponse {
	qs := []string{question("q1", 0), question("q2", 1), question("q3", 2), question("q4", 3), question("q5", 0)}
	return llm.MockResponse{Content: json.RawMessage(`{"topic":"Go","quiz":[` + strings.Join(qs, ",") + `]}`)}
}

func planResponse(n int) llm.MockResponse {
	chapters := make([]string, n)
	for i := range chapters {
		chapters[i] = fmt.Sprintf(`{"chapter_id":%d,"title":"Chapter %d","objective":"o","estimated_time_minutes":15,"difficulty":"medium","topics":["t"]}`, i+1, i+1)
	}
	return llm.MockResponse{Content: json.RawMessage(`{"estimated_level":"Beginner","strengths":[],"weaknesses":["channels"],"learning_plan":[` + strings.Join(chapters, ",") + `]}`)}
}

// chapterResponse carries a 3-question quiz whose correct answers are 1, 0, 2.
func chapterResponse(summary string) llm.MockResponse {
	qs := []string{question("c1", 1), question("c2", 0), question("c3", 2)}
	return llm.MockResponse{Content: json.RawMessage(`{
		"chapter_id": 1,
		"title": "Chapter",
		"summary": "` + summary + `",
		"key_points": [],
		"example": "e",
		"analogy": "a",
		"diagram_prompt": "d",
		"external_resources": {"videos": [], "blogs": [], "docs": []},
		"chapter_quiz": [` + strings.Join(qs, ",") + `]
	}`)}
}

func adaptResponse(feedback string) llm.MockResponse {
	return llm.MockResponse{Content: json.RawMessage(`{
		"chapter_id": 1,
		"chapter_score": 0,
		"feedback": "` + feedback + `",
		"adjustments": {"difficulty_change": "same", "added_remedial_content": [], "skipped_future_topics": [], "added_advanced_topics": []},
		"updated_plan": []
	}`)}
}

type memSaver struct {
	mu         sync.Mutex
	pathSaves  [][]learning.LearningPath
	statsSaves []learning.DailyStats
	err        error
}

func (s *memSaver) SavePaths(_ context.Context, paths []learning.LearningPath) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pathSaves = append(s.pathSaves, paths)
	return s.err
}

func (s *memSaver) SaveStats(_ context.Context, stats learning.DailyStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsSaves = append(s.statsSaves, stats)
	return s.err
}

func (s *memSaver) lastPaths() []learning.LearningPath {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pathSaves) == 0 {
		return nil
	}
	return s.pathSaves[len(s.pathSaves)-1]
}

func (s *memSaver) saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pathSaves)
}

type harness struct {
	e     *Engine
	mock  *llm.MockProvider
	saver *memSaver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mock := llm.NewMockProvider()
	saver := &memSaver{}
	stats := learning.DailyStats{StreakDays: 3, LastLoginDate: testNow}
	e := New(gateway.New(mock, gateway.DefaultConfig(), nil), saver, nil, stats,
		WithClock(func() time.Time { return testNow }))
	return &harness{e: e, mock: mock, saver: saver}
}

func (h *harness) toDiagnostic(t *testing.T) {
	t.Helper()
	if err := h.e.NewPath(); err != nil {
		t.Fatalf("NewPath: %v", err)
	}
	h.mock.AddResponse(diagnosticResponse())
	if _, err := h.e.SubmitProfile(t.Context(), learning.UserProfile{Topic: "Go", Level: learning.LevelBeginner, Goal: "ship a CLI"}); err != nil {
		t.Fatalf("SubmitProfile: %v", err)
	}
}

func (h *harness) toDashboard(t *testing.T, chapters int) learning.LearningPath {
	t.Helper()
	h.toDiagnostic(t)
	h.mock.AddResponse(planResponse(chapters))
	path, err := h.e.CompleteDiagnostic(t.Context(), []int{0, 1, 0, 0, 0})
	if err != nil {
		t.Fatalf("CompleteDiagnostic: %v", err)
	}
	return *path
}

func (h *harness) toQuiz(t *testing.T, chapterID int) {
	t.Helper()
	h.mock.AddResponse(chapterResponse("Lesson body"))
	if _, err := h.e.OpenChapter(t.Context(), chapterID); err != nil {
		t.Fatalf("OpenChapter(%d): %v", chapterID, err)
	}
	if err := h.e.StartChapterQuiz(); err != nil {
		t.Fatalf("StartChapterQuiz: %v", err)
	}
}

func waitForCalls(t *testing.T, mock *llm.MockProvider, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if mock.CallCount() >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d provider calls, got %d", n, mock.CallCount())
}
