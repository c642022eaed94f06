package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/curioloop/internal/learning"
	"github.com/abhisek/curioloop/internal/llm"
)

const question = `{"id":"%s","type":"mcq","question":"What is a goroutine?","options":["A thread","A lightweight concurrent function","A channel","A mutex"],"correctIndex":%d,"explanation":"Goroutines are functions scheduled by the Go runtime."}`

func q(id string, correct int) string {
	return fmt.Sprintf(question, id, correct)
}

func diagnosticJSON(questions ...string) json.RawMessage {
	return json.RawMessage(`{"topic":"Go","quiz":[` + strings.Join(questions, ",") + `]}`)
}

func chapterJSON(n int) string {
	return `{"chapter_id":` + strconv.Itoa(n) + `,"title":"Chapter ` + strconv.Itoa(n) + `","objective":"Learn it","estimated_time_minutes":20,"difficulty":"easy","topics":["a","b"]}`
}

func planJSON(chapters ...string) json.RawMessage {
	return json.RawMessage(`{"estimated_level":"Beginner","strengths":["syntax"],"weaknesses":["concurrency"],"learning_plan":[` + strings.Join(chapters, ",") + `]}`)
}

func contentJSON(summary string, questions ...string) json.RawMessage {
	return json.RawMessage(`{
		"chapter_id": 99,
		"title": "Goroutines",
		"summary": "` + summary + `",
		"key_points": ["cheap", "scheduled by runtime"],
		"example": "go f()",
		"analogy": "Like hiring extra cooks",
		"diagram_prompt": "Threads multiplexing goroutines",
		"external_resources": {
			"videos": [{"title":"Goroutines","url":"https://www.youtube.com/results?search_query=go+goroutines","description":"Search"}],
			"blogs": [],
			"docs": [{"title":"Go","url":"https://go.dev/doc/","description":"Docs"}]
		},
		"chapter_quiz": [` + strings.Join(questions, ",") + `]
	}`)
}

const adaptJSON = `{
	"chapter_id": 2,
	"chapter_score": 80,
	"feedback": "Great work!",
	"adjustments": {
		"difficulty_change": "harder",
		"added_remedial_content": [],
		"skipped_future_topics": ["basics"],
		"added_advanced_topics": ["scheduler internals"]
	},
	"updated_plan": []
}`

func newGateway(responses ...llm.MockResponse) (*Gateway, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return New(mock, DefaultConfig(), nil), mock
}

func requireGenerationError(t *testing.T, err error, op string) *GenerationError {
	t.Helper()
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GenerationError, got %T (%v)", err, err)
	}
	if ge.Op != op {
		t.Fatalf("Op = %q, want %q", ge.Op, op)
	}
	return ge
}

func TestGenerateDiagnosticQuiz(t *testing.T) {
	g, mock := newGateway(llm.MockResponse{
		Content: diagnosticJSON(q("q1", 1), q("q2", 0), q("q3", 2), q("q4", 3), q("q5", 1)),
	})

	quiz, err := g.GenerateDiagnosticQuiz(t.Context(), "Go concurrency", learning.LevelBeginner, "")
	require.NoError(t, err)

	assert.Equal(t, "Go concurrency", quiz.Topic)
	assert.Len(t, quiz.Questions, 5)
	assert.Equal(t, 1, quiz.Questions[0].CorrectIndex)

	call := mock.Calls[0]
	assert.Equal(t, llm.ClassFast, call.Class)
	assert.Equal(t, DiagnosticQuizSchema, call.Schema)
	assert.Contains(t, call.Messages[0].Content, "5 questions total")
	assert.NotContains(t, call.Messages[0].Content, "extracted context")
}

func TestGenerateDiagnosticQuiz_AppendsExtractedContext(t *testing.T) {
	g, mock := newGateway(llm.MockResponse{Content: diagnosticJSON(q("q1", 0))})

	_, err := g.GenerateDiagnosticQuiz(t.Context(), "Biology", learning.LevelIntermediate, "mitochondria, ATP")
	require.NoError(t, err)

	msg := mock.Calls[0].Messages[0].Content
	assert.Contains(t, msg, "Also consider this extracted context from the user's notes")
	assert.Contains(t, msg, "mitochondria, ATP")
}

func TestGenerateDiagnosticQuiz_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content json.RawMessage
	}{
		{"correct index out of range", diagnosticJSON(q("q1", 4))},
		{"duplicate question ids", diagnosticJSON(q("q1", 0), q("q1", 1))},
		{"missing required field", json.RawMessage(`{"topic":"Go"}`)},
		{"not json", json.RawMessage(`Sure! Here is your quiz.`)},
		{"fenced but invalid", json.RawMessage("```json\n{\"topic\":\"Go\",\"quiz\":[]}\n```")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newGateway(llm.MockResponse{Content: tt.content})
			quiz, err := g.GenerateDiagnosticQuiz(t.Context(), "Go", learning.LevelBeginner, "")
			if quiz != nil {
				t.Fatalf("expected no quiz, got %+v", quiz)
			}
			requireGenerationError(t, err, OpDiagnosticQuiz)
		})
	}
}

func TestGenerateDiagnosticQuiz_AcceptsFencedJSON(t *testing.T) {
	fenced := "```json\n" + string(diagnosticJSON(q("q1", 0))) + "\n```"
	g, _ := newGateway(llm.MockResponse{Content: json.RawMessage(fenced)})

	quiz, err := g.GenerateDiagnosticQuiz(t.Context(), "Go", learning.LevelBeginner, "")
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 1)
}

func TestGenerateDiagnosticQuiz_ProviderError(t *testing.T) {
	g, _ := newGateway(llm.MockResponse{Err: &llm.ErrRateLimit{}})

	_, err := g.GenerateDiagnosticQuiz(t.Context(), "Go", learning.LevelBeginner, "")
	requireGenerationError(t, err, OpDiagnosticQuiz)

	var rl *llm.ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected the provider error to be reachable, got %v", err)
	}
}

func TestEvaluateAndPlan(t *testing.T) {
	g, mock := newGateway(llm.MockResponse{
		Content: planJSON(chapterJSON(7), chapterJSON(3), chapterJSON(3)),
	})

	results := []learning.QuizResult{{QuestionID: "q1", Correct: true}, {QuestionID: "q2", Correct: false}}
	plan, err := g.EvaluateAndPlan(t.Context(), "Go", results, "build a web server")
	require.NoError(t, err)

	require.Len(t, plan.Chapters, 3)
	for i, ch := range plan.Chapters {
		assert.Equal(t, i+1, ch.ChapterID)
		assert.Nil(t, ch.Score)
	}
	assert.Equal(t, learning.StatusUnlocked, plan.Chapters[0].Status)
	assert.Equal(t, learning.StatusLocked, plan.Chapters[1].Status)
	assert.Equal(t, learning.StatusLocked, plan.Chapters[2].Status)

	call := mock.Calls[0]
	assert.Equal(t, llm.ClassReasoning, call.Class)
	assert.InDelta(t, 0.2, call.Temperature, 1e-9)
	assert.Contains(t, call.Messages[0].Content, "User Goal: build a web server")
	assert.Contains(t, call.Messages[0].Content, `"questionId":"q2","correct":false`)
}

func TestEvaluateAndPlan_EmptyPlan(t *testing.T) {
	g, _ := newGateway(llm.MockResponse{
		Content: json.RawMessage(`{"estimated_level":"Beginner","strengths":[],"weaknesses":[],"learning_plan":[]}`),
	})

	_, err := g.EvaluateAndPlan(t.Context(), "Go", nil, "")
	requireGenerationError(t, err, OpEvaluatePlan)
}

func TestEvaluateAndPlan_BadDifficulty(t *testing.T) {
	bad := strings.Replace(chapterJSON(1), `"easy"`, `"trivial"`, 1)
	g, _ := newGateway(llm.MockResponse{Content: planJSON(bad)})

	_, err := g.EvaluateAndPlan(t.Context(), "Go", nil, "")
	ge := requireGenerationError(t, err, OpEvaluatePlan)

	var inv *llm.ErrInvalidResponse
	assert.True(t, errors.As(ge, &inv), "expected schema violation, got %v", ge.Err)
}

func TestEvaluateAndPlan_MinimalChaptersWithStatuses(t *testing.T) {
	g, _ := newGateway(llm.MockResponse{Content: json.RawMessage(`{
		"estimated_level": "Intermediate",
		"learning_plan": [
			{"chapter_id": 1, "title": "Basics", "objective": "Recap", "difficulty": "easy", "status": "completed"},
			{"chapter_id": 2, "title": "Channels", "objective": "Communicate", "difficulty": "medium", "status": "unlocked"},
			{"chapter_id": 3, "title": "Select", "objective": "Multiplex", "difficulty": "hard", "status": "in_progress"}
		]
	}`)})

	plan, err := g.EvaluateAndPlan(t.Context(), "Go", nil, "")
	require.NoError(t, err)

	require.Len(t, plan.Chapters, 3)
	assert.Equal(t, "Intermediate", plan.EstimatedLevel)
	assert.Empty(t, plan.Strengths)
	assert.Equal(t, learning.StatusUnlocked, plan.Chapters[0].Status)
	assert.Equal(t, learning.StatusLocked, plan.Chapters[1].Status)
	assert.Equal(t, learning.StatusLocked, plan.Chapters[2].Status)
	assert.Empty(t, plan.Chapters[0].Topics)
}

func TestGenerateChapter(t *testing.T) {
	g, mock := newGateway(llm.MockResponse{
		Content: contentJSON("Goroutines are cheap.", q("c1", 1), q("c2", 0), q("c3", 2)),
	})

	ch := learning.Chapter{ChapterID: 2, Title: "Goroutines", Objective: "Run things concurrently", Topics: []string{"go keyword"}}
	content, err := g.GenerateChapter(t.Context(), "Go", ch, "")
	require.NoError(t, err)

	assert.Equal(t, 2, content.ChapterID, "chapter id comes from the request, not the model")
	assert.Len(t, content.Quiz, 3)
	assert.Equal(t, "https://www.youtube.com/results?search_query=go+goroutines", content.Resources.Videos[0].URL)
	assert.Empty(t, content.Resources.Blogs)

	msg := mock.Calls[0].Messages[0].Content
	assert.Contains(t, msg, "Explanation style: Default")
	assert.Contains(t, msg, "DO NOT generate specific deep links")
	assert.Contains(t, msg, "https://www.youtube.com/results?search_query=")
}

func TestGenerateChapter_StylePassedThrough(t *testing.T) {
	g, mock := newGateway(llm.MockResponse{Content: contentJSON("Imagine...", q("c1", 0))})

	_, err := g.GenerateChapter(t.Context(), "Go", learning.Chapter{ChapterID: 1, Title: "Intro"}, "Like I'm 5")
	require.NoError(t, err)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "Explanation style: Like I'm 5")
}

func TestGenerateChapter_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content json.RawMessage
	}{
		{"empty summary", contentJSON("  ", q("c1", 0))},
		{"bad correct index", contentJSON("ok", q("c1", 9))},
		{"no quiz", contentJSON("ok")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newGateway(llm.MockResponse{Content: tt.content})
			_, err := g.GenerateChapter(t.Context(), "Go", learning.Chapter{ChapterID: 1, Title: "Intro"}, "")
			requireGenerationError(t, err, OpChapter)
		})
	}
}

func TestAdaptPlan(t *testing.T) {
	g, mock := newGateway(llm.MockResponse{Content: json.RawMessage(adaptJSON)})

	plan := learning.LearningPlan{Chapters: []learning.Chapter{
		{ChapterID: 1, Title: "Basics", Objective: "secret objective"},
		{ChapterID: 2, Title: "Goroutines"},
	}}
	update, err := g.AdaptPlan(t.Context(), plan, 2, 80)
	require.NoError(t, err)

	assert.Equal(t, "Great work!", update.Feedback)
	assert.Equal(t, learning.ChangeHarder, update.Adjustments.DifficultyChange)
	assert.Equal(t, []string{"scheduler internals"}, update.Adjustments.AdvancedTopicsAdded)
	assert.Empty(t, update.RevisedChapters)

	msg := mock.Calls[0].Messages[0].Content
	assert.Contains(t, msg, "User scored 80% on Chapter 2.")
	assert.Contains(t, msg, "1. Basics")
	assert.NotContains(t, msg, "secret objective")
}

func TestAdaptPlan_ForcesRequestedChapterAndScore(t *testing.T) {
	g, _ := newGateway(llm.MockResponse{Content: json.RawMessage(adaptJSON)})

	update, err := g.AdaptPlan(t.Context(), learning.LearningPlan{}, 4, 33)
	require.NoError(t, err)
	assert.Equal(t, 4, update.ChapterID)
	assert.Equal(t, 33, update.Score)
}

func TestAdaptPlan_WithoutUpdatedPlan(t *testing.T) {
	g, _ := newGateway(llm.MockResponse{Content: json.RawMessage(`{
		"feedback": "Keep going.",
		"adjustments": {}
	}`)})

	update, err := g.AdaptPlan(t.Context(), learning.LearningPlan{}, 1, 60)
	require.NoError(t, err)

	assert.Equal(t, "Keep going.", update.Feedback)
	assert.Equal(t, learning.ChangeSame, update.Adjustments.DifficultyChange)
	assert.Nil(t, update.RevisedChapters)
	assert.Equal(t, 1, update.ChapterID)
	assert.Equal(t, 60, update.Score)
}

func TestAdaptPlan_FractionalScoreEcho(t *testing.T) {
	g, _ := newGateway(llm.MockResponse{Content: json.RawMessage(`{
		"chapter_score": 66.67,
		"feedback": "Nearly there.",
		"adjustments": {"difficulty_change": "easier"}
	}`)})

	update, err := g.AdaptPlan(t.Context(), learning.LearningPlan{}, 3, 67)
	require.NoError(t, err)
	assert.Equal(t, 67, update.Score)
	assert.Equal(t, learning.ChangeEasier, update.Adjustments.DifficultyChange)
}

func TestAdaptPlan_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing feedback", `{"adjustments":{}}`},
		{"missing adjustments", `{"feedback":"ok"}`},
		{"unknown difficulty change", `{"feedback":"ok","adjustments":{"difficulty_change":"sideways"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newGateway(llm.MockResponse{Content: json.RawMessage(tt.content)})
			_, err := g.AdaptPlan(t.Context(), learning.LearningPlan{}, 1, 50)
			requireGenerationError(t, err, OpAdaptPlan)
		})
	}
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestExtractContext(t *testing.T) {
	g, mock := newGateway(llm.MockResponse{Content: json.RawMessage("  Key concepts: cells, ATP.\n")})

	text, err := g.ExtractContext(t.Context(), pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "Key concepts: cells, ATP.", text)

	call := mock.Calls[0]
	assert.Equal(t, llm.ClassMultimodal, call.Class)
	assert.Nil(t, call.Schema)
	require.Len(t, call.Messages[0].Images, 1)
	assert.Equal(t, "image/png", call.Messages[0].Images[0].MIMEType)
}

func TestExtractContext_Rejects(t *testing.T) {
	t.Run("empty response", func(t *testing.T) {
		g, _ := newGateway(llm.MockResponse{Content: json.RawMessage("   ")})
		_, err := g.ExtractContext(t.Context(), pngHeader)
		requireGenerationError(t, err, OpExtractContext)
	})

	t.Run("not an image", func(t *testing.T) {
		g, mock := newGateway()
		_, err := g.ExtractContext(t.Context(), []byte("plain text notes"))
		requireGenerationError(t, err, OpExtractContext)
		assert.Equal(t, 0, mock.CallCount())
	})

	t.Run("no bytes", func(t *testing.T) {
		g, _ := newGateway()
		_, err := g.ExtractContext(t.Context(), nil)
		requireGenerationError(t, err, OpExtractContext)
	})
}

func TestPurposesAreTagged(t *testing.T) {
	var purposes []string
	rec := &purposeRecorder{inner: llm.NewMockProvider(
		llm.MockResponse{Content: diagnosticJSON(q("q1", 0))},
		llm.MockResponse{Content: planJSON(chapterJSON(1))},
	), seen: &purposes}
	g := New(rec, DefaultConfig(), nil)

	_, err := g.GenerateDiagnosticQuiz(t.Context(), "Go", learning.LevelBeginner, "")
	require.NoError(t, err)
	_, err = g.EvaluateAndPlan(t.Context(), "Go", nil, "")
	require.NoError(t, err)

	assert.Equal(t, []string{PurposeDiagnostic, PurposePlan}, purposes)
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{Plan: OpConfig{MaxTokens: 100, Temperature: 0}}.WithDefaults()

	assert.Equal(t, 100, cfg.Plan.MaxTokens)
	assert.Zero(t, cfg.Plan.Temperature)
	assert.Equal(t, DefaultConfig().Chapter, cfg.Chapter)
}
