package engine

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/abhisek/curioloop/internal/learning"
	"github.com/abhisek/curioloop/internal/streak"
)

// QuizOutcome is the result of a submitted chapter quiz.
type QuizOutcome struct {
	ChapterID int
	Score     int
	Correct   int
	Total     int
	Results   []learning.QuizResult

	// Unlocked is the chapter unlocked by this completion, or 0.
	Unlocked int

	// Update is the adaptive reaction. Only its feedback is applied.
	Update learning.AdaptiveUpdate
}

// SubmitChapterQuiz scores the chapter quiz, asks for an adaptive update
// and records the completion: the chapter is completed with its score, the
// next chapter is unlocked, progress and daily stats are updated and both
// are persisted. The path change is applied all-or-nothing.
func (e *Engine) SubmitChapterQuiz(ctx context.Context, answers []int) (*QuizOutcome, error) {
	var (
		pathID    string
		chapterID int
		questions []learning.Question
		plan      learning.LearningPlan
	)

	e.mu.Lock()
	target := fmt.Sprintf("complete:%s:%d", e.activeID, e.chapterID)
	e.mu.Unlock()

	start := func() error {
		if e.state != StateQuizWithinChapter || e.content == nil {
			return &TransitionError{From: e.state, Op: "SubmitChapterQuiz"}
		}
		p := e.activeLocked()
		if p == nil {
			return ErrNoActivePath
		}
		pathID = p.ID
		chapterID = e.chapterID
		questions = slices.Clone(e.content.Quiz)
		plan = p.Plan.Clone()
		return nil
	}

	v, err := e.run(ctx, "SubmitChapterQuiz", target, start, func(ctx context.Context, f *flight) (any, error) {
		results, correct := learning.GradeQuiz(questions, answers)
		score := learning.Score(correct, len(questions))

		update, err := e.gen.AdaptPlan(ctx, plan, chapterID, score)
		if err != nil {
			return nil, e.fail(f, err, StateQuizWithinChapter)
		}

		out := &QuizOutcome{
			ChapterID: chapterID,
			Score:     score,
			Correct:   correct,
			Total:     len(questions),
			Results:   results,
			Update:    *update,
		}
		if err := e.complete(f, pathID, out); err != nil {
			return nil, err
		}
		e.persist(ctx)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*QuizOutcome), nil
}

// complete applies the chapter completion under the state lock. The path
// is mutated on a copy that replaces the original only once every step
// has succeeded.
func (e *Engine) complete(f *flight, pathID string, out *QuizOutcome) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.currentLocked(f) {
		return ErrSuperseded
	}

	i := learning.FindPath(e.paths, pathID)
	if i < 0 {
		e.log.Error("active path missing during chapter completion",
			zap.String("path_id", pathID),
			zap.Int("chapter_id", out.ChapterID))
		err := fmt.Errorf("complete chapter %d: %w", out.ChapterID, learning.ErrPathNotFound)
		e.lastErr = err
		e.state = StateQuizWithinChapter
		return err
	}

	updated := e.paths[i].Clone()
	before, _ := updated.Plan.FrontierChapter()
	if updated.CompleteChapter(out.ChapterID, out.Score, e.now()) {
		if after, ok := updated.Plan.FrontierChapter(); ok && after.ChapterID != before.ChapterID {
			out.Unlocked = after.ChapterID
		}
		paths := slices.Clone(e.paths)
		paths[i] = updated
		e.paths = paths
		e.stats = streak.AwardChapter(e.stats, out.Score)

		e.log.Info("chapter completed",
			zap.String("path_id", pathID),
			zap.Int("chapter_id", out.ChapterID),
			zap.Int("score", out.Score),
			zap.Int("progress", updated.ProgressPercent))
	} else {
		e.log.Warn("completed chapter not in plan",
			zap.String("path_id", pathID),
			zap.Int("chapter_id", out.ChapterID))
	}

	e.feedback = fmt.Sprintf("Score: %d%%. %s", out.Score, out.Update.Feedback)
	e.content = nil
	e.chapterID = 0
	e.style = ""
	e.moveLocked(StatePathDashboard)
	return nil
}
