// Package enginetest provides an in-memory generator and saver for driving
// an engine.Engine from UI tests without a model provider.
package enginetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/curioloop/internal/engine"
	"github.com/abhisek/curioloop/internal/learning"
)

// Now is the fixed clock used by engines built with New.
var Now = time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC)

// Generator returns canned content. Setting Err makes every call fail.
type Generator struct {
	mu    sync.Mutex
	Err   error
	Calls []string

	Feedback string
	Chapters int
}

var _ engine.Generator = (*Generator)(nil)

func (g *Generator) record(op string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls = append(g.Calls, op)
	return g.Err
}

func (g *Generator) GenerateDiagnosticQuiz(_ context.Context, topic string, _ learning.Level, _ string) (*learning.DiagnosticQuiz, error) {
	if err := g.record("diagnostic"); err != nil {
		return nil, err
	}
	return &learning.DiagnosticQuiz{Topic: topic, Questions: Questions("q", 3)}, nil
}

func (g *Generator) EvaluateAndPlan(_ context.Context, _ string, _ []learning.QuizResult, _ string) (*learning.LearningPlan, error) {
	if err := g.record("plan"); err != nil {
		return nil, err
	}
	n := g.Chapters
	if n == 0 {
		n = 3
	}
	plan, err := learning.MaterializePlan(Plan(n))
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (g *Generator) GenerateChapter(_ context.Context, _ string, ch learning.Chapter, style string) (*learning.ChapterContent, error) {
	if err := g.record("chapter:" + style); err != nil {
		return nil, err
	}
	return &learning.ChapterContent{
		ChapterID: ch.ChapterID,
		Title:     ch.Title,
		Summary:   fmt.Sprintf("%s in %s style", ch.Title, style),
		KeyPoints: []string{"first point"},
		Example:   "example",
		Analogy:   "analogy",
		Resources: learning.Resources{
			Videos: []learning.Resource{{Title: "Intro video", URL: "https://www.youtube.com/results?search_query=intro"}},
		},
		Quiz: Questions("c", 2),
	}, nil
}

func (g *Generator) AdaptPlan(_ context.Context, _ learning.LearningPlan, chapterID, score int) (*learning.AdaptiveUpdate, error) {
	if err := g.record("adapt"); err != nil {
		return nil, err
	}
	fb := g.Feedback
	if fb == "" {
		fb = "Keep going."
	}
	return &learning.AdaptiveUpdate{ChapterID: chapterID, Score: score, Feedback: fb}, nil
}

func (g *Generator) ExtractContext(context.Context, []byte) (string, error) {
	if err := g.record("extract"); err != nil {
		return "", err
	}
	return "notes", nil
}

// Questions builds n questions whose correct answer is always option 0.
func Questions(prefix string, n int) []learning.Question {
	qs := make([]learning.Question, n)
	for i := range qs {
		qs[i] = learning.Question{
			ID:           fmt.Sprintf("%s%d", prefix, i+1),
			Kind:         learning.QuestionKindMCQ,
			Prompt:       fmt.Sprintf("Question %d", i+1),
			Options:      []string{"right", "wrong", "wrong", "wrong"},
			CorrectIndex: 0,
			Explanation:  "because",
		}
	}
	return qs
}

// Plan builds an unmaterialized plan with n chapters.
func Plan(n int) learning.LearningPlan {
	plan := learning.LearningPlan{EstimatedLevel: "Beginner", Weaknesses: []string{"basics"}}
	for i := range n {
		plan.Chapters = append(plan.Chapters, learning.Chapter{
			Title:            fmt.Sprintf("Chapter %d", i+1),
			Objective:        "learn",
			EstimatedMinutes: 10,
			Difficulty:       learning.DifficultyEasy,
		})
	}
	return plan
}

// Saver discards everything.
type Saver struct{}

func (Saver) SavePaths(context.Context, []learning.LearningPath) error { return nil }
func (Saver) SaveStats(context.Context, learning.DailyStats) error     { return nil }

// New builds an engine at home over gen with a fixed clock.
func New(gen *Generator, paths ...learning.LearningPath) *engine.Engine {
	stats := learning.DailyStats{StreakDays: 2, TotalXP: 150, LastLoginDate: Now}
	return engine.New(gen, Saver{}, paths, stats, engine.WithClock(func() time.Time { return Now }))
}

// AtDashboard drives e from home to the dashboard of a new path.
func AtDashboard(t testing.TB, e *engine.Engine) learning.LearningPath {
	t.Helper()
	ctx := context.Background()
	if err := e.NewPath(); err != nil {
		t.Fatalf("NewPath: %v", err)
	}
	if _, err := e.SubmitProfile(ctx, learning.UserProfile{Topic: "Go", Level: learning.LevelBeginner}); err != nil {
		t.Fatalf("SubmitProfile: %v", err)
	}
	path, err := e.CompleteDiagnostic(ctx, []int{0, 0, 0})
	if err != nil {
		t.Fatalf("CompleteDiagnostic: %v", err)
	}
	return *path
}

// AtChapter drives e from the dashboard into chapterID.
func AtChapter(t testing.TB, e *engine.Engine, chapterID int) {
	t.Helper()
	if _, err := e.OpenChapter(context.Background(), chapterID); err != nil {
		t.Fatalf("OpenChapter: %v", err)
	}
}
