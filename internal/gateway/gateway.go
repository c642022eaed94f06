// Package gateway turns learning requests into structured content by
// calling an llm.Provider. Every operation is a single round-trip with no
// local retry; output that fails the schema or a domain invariant is
// rejected whole.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/curioloop/internal/learning"
	"github.com/abhisek/curioloop/internal/llm"
)

// Purposes recorded on each LLM request event.
const (
	PurposeDiagnostic = "diagnostic-quiz"
	PurposePlan       = "plan"
	PurposeChapter    = "chapter"
	PurposeAdapt      = "adapt"
	PurposeExtract    = "extract-context"
)

// Gateway generates learning content.
type Gateway struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// New creates a Gateway. A nil logger discards output.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{provider: provider, cfg: cfg.WithDefaults(), log: log.Named("gateway")}
}

// GenerateDiagnosticQuiz produces a short quiz gauging the learner's
// knowledge of topic. extracted is optional context read from the
// learner's notes and is appended to the prompt when non-empty.
func (g *Gateway) GenerateDiagnosticQuiz(ctx context.Context, topic string, level learning.Level, extracted string) (*learning.DiagnosticQuiz, error) {
	ctx = llm.WithPurpose(ctx, PurposeDiagnostic)

	var quiz learning.DiagnosticQuiz
	err := g.generateJSON(ctx, OpDiagnosticQuiz, llm.Request{
		Class:  llm.ClassFast,
		System: curriculumSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildDiagnosticUserMessage(topic, level, extracted)},
		},
		Schema:      DiagnosticQuizSchema,
		MaxTokens:   g.cfg.Diagnostic.MaxTokens,
		Temperature: g.cfg.Diagnostic.Temperature,
	}, &quiz)
	if err != nil {
		return nil, err
	}

	if err := learning.ValidateQuestions(quiz.Questions); err != nil {
		return nil, g.reject(OpDiagnosticQuiz, err)
	}
	// The quiz is about what the learner asked for, whatever the model echoed.
	quiz.Topic = topic
	return &quiz, nil
}

// EvaluateAndPlan estimates proficiency from diagnostic results and
// returns a materialized plan: chapters numbered 1..n with only the first
// unlocked.
func (g *Gateway) EvaluateAndPlan(ctx context.Context, topic string, results []learning.QuizResult, goal string) (*learning.LearningPlan, error) {
	ctx = llm.WithPurpose(ctx, PurposePlan)

	var raw learning.LearningPlan
	err := g.generateJSON(ctx, OpEvaluatePlan, llm.Request{
		Class:  llm.ClassReasoning,
		System: curriculumSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPlanUserMessage(topic, results, goal)},
		},
		Schema:      LearningPlanSchema,
		MaxTokens:   g.cfg.Plan.MaxTokens,
		Temperature: g.cfg.Plan.Temperature,
	}, &raw)
	if err != nil {
		return nil, err
	}

	for i, ch := range raw.Chapters {
		if strings.TrimSpace(ch.Title) == "" {
			return nil, g.reject(OpEvaluatePlan, fmt.Errorf("chapter %d has no title", i+1))
		}
	}

	plan, err := learning.MaterializePlan(raw)
	if err != nil {
		return nil, g.reject(OpEvaluatePlan, err)
	}
	return &plan, nil
}

// GenerateChapter produces lesson content for ch in the given style. An
// empty style means learning.DefaultStyle. Resource URLs are passed
// through as returned.
func (g *Gateway) GenerateChapter(ctx context.Context, topic string, ch learning.Chapter, style string) (*learning.ChapterContent, error) {
	ctx = llm.WithPurpose(ctx, PurposeChapter)
	if style == "" {
		style = learning.DefaultStyle
	}

	var content learning.ChapterContent
	err := g.generateJSON(ctx, OpChapter, llm.Request{
		Class:  llm.ClassFast,
		System: tutorSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildChapterUserMessage(topic, ch, style)},
		},
		Schema:      ChapterContentSchema,
		MaxTokens:   g.cfg.Chapter.MaxTokens,
		Temperature: g.cfg.Chapter.Temperature,
	}, &content)
	if err != nil {
		return nil, err
	}

	if err := learning.ValidateQuestions(content.Quiz); err != nil {
		return nil, g.reject(OpChapter, err)
	}
	if strings.TrimSpace(content.Summary) == "" {
		return nil, g.reject(OpChapter, errors.New("empty summary"))
	}

	content.ChapterID = ch.ChapterID
	if content.Title == "" {
		content.Title = ch.Title
	}
	return &content, nil
}

// AdaptPlan asks how the curriculum should react to a chapter quiz score.
// Only chapter titles of plan are sent.
func (g *Gateway) AdaptPlan(ctx context.Context, plan learning.LearningPlan, chapterID, score int) (*learning.AdaptiveUpdate, error) {
	ctx = llm.WithPurpose(ctx, PurposeAdapt)

	var resp adaptResponse
	err := g.generateJSON(ctx, OpAdaptPlan, llm.Request{
		Class:  llm.ClassReasoning,
		System: curriculumSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildAdaptUserMessage(plan, chapterID, score)},
		},
		Schema:      AdaptiveUpdateSchema,
		MaxTokens:   g.cfg.Adapt.MaxTokens,
		Temperature: g.cfg.Adapt.Temperature,
	}, &resp)
	if err != nil {
		return nil, err
	}

	update := resp.AdaptiveUpdate
	if resp.Score != nil && math.Round(*resp.Score) != float64(score) {
		g.log.Debug("adaptive update echoed a different score",
			zap.Int("chapter_id", chapterID), zap.Int("score", score), zap.Float64("echoed_score", *resp.Score))
	}
	if update.Adjustments.DifficultyChange == "" {
		update.Adjustments.DifficultyChange = learning.ChangeSame
	}
	update.ChapterID = chapterID
	update.Score = score
	return &update, nil
}

// adaptResponse decodes chapter_score as a number; providers may echo a
// fractional percentage. The outer field shadows AdaptiveUpdate.Score.
type adaptResponse struct {
	learning.AdaptiveUpdate
	Score *float64 `json:"chapter_score"`
}

// ExtractContext reads an image of study material and returns a plain
// text summary of its key concepts.
func (g *Gateway) ExtractContext(ctx context.Context, image []byte) (string, error) {
	ctx = llm.WithPurpose(ctx, PurposeExtract)

	if len(image) == 0 {
		return "", genErr(OpExtractContext, errors.New("empty image"))
	}
	mime := http.DetectContentType(image)
	if !strings.HasPrefix(mime, "image/") {
		return "", genErr(OpExtractContext, fmt.Errorf("unsupported image type %q", mime))
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		Class:  llm.ClassMultimodal,
		System: extractSystemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: extractInstruction,
			Images:  []llm.Image{{MIMEType: mime, Data: image}},
		}},
		MaxTokens:   g.cfg.Extract.MaxTokens,
		Temperature: g.cfg.Extract.Temperature,
	})
	if err != nil {
		return "", genErr(OpExtractContext, err)
	}

	text := strings.TrimSpace(string(resp.Content))
	if text == "" {
		return "", g.reject(OpExtractContext, errors.New("empty response"))
	}
	return text, nil
}

// generateJSON performs one schema-constrained call and decodes the
// validated content into out.
func (g *Gateway) generateJSON(ctx context.Context, op string, req llm.Request, out any) error {
	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return genErr(op, err)
	}
	if err := json.Unmarshal(resp.Content, out); err != nil {
		return g.reject(op, fmt.Errorf("parse response: %w", err))
	}
	return nil
}

// reject wraps a post-validation failure. The provider accepted the call
// so the llm layer has not logged anything about it.
func (g *Gateway) reject(op string, err error) error {
	g.log.Warn("rejected generated content", zap.String("op", op), zap.Error(err))
	return genErr(op, err)
}
