package engine

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/abhisek/curioloop/internal/learning"
)

// NewPath starts creating a path.
func (e *Engine) NewPath() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inflight != nil {
		return ErrBusy
	}
	if e.state != StateHome {
		return &TransitionError{From: e.state, Op: "NewPath"}
	}
	e.resetLocked()
	e.moveLocked(StateCreatingPath)
	return nil
}

// OpenPath makes the path with id active and shows its dashboard.
func (e *Engine) OpenPath(ctx context.Context, id string) error {
	e.mu.Lock()
	if e.inflight != nil {
		e.mu.Unlock()
		return ErrBusy
	}
	if e.state != StateHome {
		e.mu.Unlock()
		return &TransitionError{From: e.state, Op: "OpenPath"}
	}
	i := learning.FindPath(e.paths, id)
	if i < 0 {
		e.mu.Unlock()
		return fmt.Errorf("open path %q: %w", id, learning.ErrPathNotFound)
	}

	e.resetLocked()
	paths := slices.Clone(e.paths)
	paths[i].LastAccessedAt = e.now()
	e.paths = paths
	e.activeID = id
	e.moveLocked(StatePathDashboard)
	e.mu.Unlock()

	e.persist(ctx)
	return nil
}

// SubmitProfile validates the profile, extracts context from its image
// when one is attached and generates the diagnostic quiz.
func (e *Engine) SubmitProfile(ctx context.Context, profile learning.UserProfile) (*learning.DiagnosticQuiz, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	start := func() error {
		if e.state != StateCreatingPath {
			return &TransitionError{From: e.state, Op: "SubmitProfile"}
		}
		return nil
	}

	v, err := e.run(ctx, "SubmitProfile", "diagnostic", start, func(ctx context.Context, f *flight) (any, error) {
		p := profile.Clone()

		var extracted string
		if len(p.ContextImage) > 0 {
			text, err := e.gen.ExtractContext(ctx, p.ContextImage)
			if err != nil {
				return nil, e.fail(f, err, StateCreatingPath)
			}
			extracted = text
		}

		quiz, err := e.gen.GenerateDiagnosticQuiz(ctx, p.Topic, p.Level, extracted)
		if err != nil {
			return nil, e.fail(f, err, StateCreatingPath)
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.currentLocked(f) {
			return nil, ErrSuperseded
		}
		stored := quiz.Clone()
		e.profile = &p
		e.diagnostic = &stored
		e.moveLocked(StateDiagnostic)
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	out := v.(*learning.DiagnosticQuiz).Clone()
	return &out, nil
}

// CompleteDiagnostic grades the diagnostic answers (chosen option index
// per question, -1 for skipped), asks for a plan and creates the path.
func (e *Engine) CompleteDiagnostic(ctx context.Context, answers []int) (*learning.LearningPath, error) {
	var (
		quiz    learning.DiagnosticQuiz
		profile learning.UserProfile
	)
	start := func() error {
		if e.state != StateDiagnostic || e.diagnostic == nil || e.profile == nil {
			return &TransitionError{From: e.state, Op: "CompleteDiagnostic"}
		}
		quiz = e.diagnostic.Clone()
		profile = e.profile.Clone()
		e.state = StatePlanning
		return nil
	}

	v, err := e.run(ctx, "CompleteDiagnostic", "plan", start, func(ctx context.Context, f *flight) (any, error) {
		results, correct := learning.GradeQuiz(quiz.Questions, answers)
		e.log.Debug("diagnostic graded",
			zap.String("topic", profile.Topic),
			zap.Int("correct", correct),
			zap.Int("total", len(quiz.Questions)))

		plan, err := e.gen.EvaluateAndPlan(ctx, profile.Topic, results, profile.Goal)
		if err != nil {
			return nil, e.fail(f, err, StateDiagnostic)
		}

		e.mu.Lock()
		if !e.currentLocked(f) {
			e.mu.Unlock()
			return nil, ErrSuperseded
		}
		path := learning.NewPath(profile, *plan, e.now())
		paths := slices.Clone(e.paths)
		e.paths = append(paths, path)
		e.activeID = path.ID
		e.profile = nil
		e.diagnostic = nil
		e.feedback = ""
		e.moveLocked(StatePathDashboard)
		e.mu.Unlock()

		e.log.Info("path created",
			zap.String("path_id", path.ID),
			zap.String("topic", path.Topic),
			zap.Int("chapters", len(path.Plan.Chapters)))

		e.persist(ctx)
		return &path, nil
	})
	if err != nil {
		return nil, err
	}
	out := v.(*learning.LearningPath).Clone()
	return &out, nil
}

// OpenChapter generates content for an unlocked or completed chapter of
// the active path in the default style.
func (e *Engine) OpenChapter(ctx context.Context, chapterID int) (*learning.ChapterContent, error) {
	var (
		topic   string
		chapter learning.Chapter
	)
	start := func() error {
		if e.state != StatePathDashboard {
			return &TransitionError{From: e.state, Op: "OpenChapter"}
		}
		p := e.activeLocked()
		if p == nil {
			return ErrNoActivePath
		}
		ch, ok := p.Plan.Chapter(chapterID)
		if !ok {
			return fmt.Errorf("open chapter %d: %w", chapterID, learning.ErrChapterNotFound)
		}
		if !ch.Status.Accessible() {
			return ErrChapterLocked
		}
		topic = p.Topic
		chapter = ch.Clone()
		return nil
	}

	target := chapterTarget(chapterID, learning.DefaultStyle)
	v, err := e.run(ctx, "OpenChapter", target, start, func(ctx context.Context, f *flight) (any, error) {
		content, err := e.gen.GenerateChapter(ctx, topic, chapter, learning.DefaultStyle)
		if err != nil {
			return nil, e.fail(f, err, StatePathDashboard)
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.currentLocked(f) {
			return nil, ErrSuperseded
		}
		stored := content.Clone()
		e.chapterID = chapterID
		e.style = learning.DefaultStyle
		e.content = &stored
		e.moveLocked(StateChapter)
		return content, nil
	})
	if err != nil {
		return nil, err
	}
	out := v.(*learning.ChapterContent).Clone()
	return &out, nil
}

// ChangeStyle discards the current chapter content and regenerates it in
// style. The plan and progress are untouched.
func (e *Engine) ChangeStyle(ctx context.Context, style string) (*learning.ChapterContent, error) {
	if !slices.Contains(learning.Styles, style) {
		return nil, fmt.Errorf("unknown style %q", style)
	}

	var (
		topic   string
		chapter learning.Chapter
	)
	e.mu.Lock()
	chapterID := e.chapterID
	e.mu.Unlock()

	start := func() error {
		if e.state != StateChapter {
			return &TransitionError{From: e.state, Op: "ChangeStyle"}
		}
		p := e.activeLocked()
		if p == nil {
			return ErrNoActivePath
		}
		ch, ok := p.Plan.Chapter(e.chapterID)
		if !ok || e.chapterID != chapterID {
			return fmt.Errorf("change style of chapter %d: %w", e.chapterID, learning.ErrChapterNotFound)
		}
		topic = p.Topic
		chapter = ch.Clone()
		e.content = nil
		e.style = style
		return nil
	}

	v, err := e.run(ctx, "ChangeStyle", chapterTarget(chapterID, style), start, func(ctx context.Context, f *flight) (any, error) {
		content, err := e.gen.GenerateChapter(ctx, topic, chapter, style)
		if err != nil {
			return nil, e.fail(f, err, StateChapter)
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.currentLocked(f) {
			return nil, ErrSuperseded
		}
		stored := content.Clone()
		e.content = &stored
		e.moveLocked(StateChapter)
		return content, nil
	})
	if err != nil {
		return nil, err
	}
	out := v.(*learning.ChapterContent).Clone()
	return &out, nil
}

// StartChapterQuiz moves from the chapter content to its quiz.
func (e *Engine) StartChapterQuiz() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inflight != nil {
		return ErrBusy
	}
	if e.state != StateChapter || e.content == nil || len(e.content.Quiz) == 0 {
		return &TransitionError{From: e.state, Op: "StartChapterQuiz"}
	}
	e.moveLocked(StateQuizWithinChapter)
	return nil
}

// BackToDashboard leaves the chapter, dropping its content. A request in
// flight for the chapter is abandoned.
func (e *Engine) BackToDashboard() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateChapter && e.state != StateQuizWithinChapter {
		return &TransitionError{From: e.state, Op: "BackToDashboard"}
	}
	e.inflight = nil
	e.content = nil
	e.chapterID = 0
	e.style = ""
	e.lastErr = nil
	e.moveLocked(StatePathDashboard)
	return nil
}

// GoHome returns to the path list from any state. A request in flight is
// abandoned and its result discarded.
func (e *Engine) GoHome() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.inflight = nil
	e.resetLocked()
	e.moveLocked(StateHome)
}

func (e *Engine) resetLocked() {
	e.activeID = ""
	e.profile = nil
	e.diagnostic = nil
	e.chapterID = 0
	e.style = ""
	e.content = nil
	e.feedback = ""
	e.lastErr = nil
}

func chapterTarget(chapterID int, style string) string {
	return fmt.Sprintf("chapter:%d:%s", chapterID, style)
}
