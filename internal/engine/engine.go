// Package engine drives the learning path state machine. It owns the
// path collection and daily stats in memory, calls the content generator
// for every transition that needs new material and persists after each
// mutation.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/curioloop/internal/learning"
)

// Generator produces learning content. *gateway.Gateway implements it.
type Generator interface {
	GenerateDiagnosticQuiz(ctx context.Context, topic string, level learning.Level, extracted string) (*learning.DiagnosticQuiz, error)
	EvaluateAndPlan(ctx context.Context, topic string, results []learning.QuizResult, goal string) (*learning.LearningPlan, error)
	GenerateChapter(ctx context.Context, topic string, ch learning.Chapter, style string) (*learning.ChapterContent, error)
	AdaptPlan(ctx context.Context, plan learning.LearningPlan, chapterID, score int) (*learning.AdaptiveUpdate, error)
	ExtractContext(ctx context.Context, image []byte) (string, error)
}

// Saver persists the path collection and the daily stats.
// *persist.Adapter implements it.
type Saver interface {
	SavePaths(ctx context.Context, paths []learning.LearningPath) error
	SaveStats(ctx context.Context, stats learning.DailyStats) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// Engine is safe for concurrent use. Generation runs without holding the
// state lock; results are applied under it.
type Engine struct {
	gen   Generator
	saver Saver
	log   *zap.Logger
	now   func() time.Time

	flights singleflight.Group
	saveMu  sync.Mutex

	mu       sync.Mutex
	state    State
	epoch    uint64
	inflight *flight

	paths []learning.LearningPath
	stats learning.DailyStats

	activeID   string
	profile    *learning.UserProfile
	diagnostic *learning.DiagnosticQuiz
	chapterID  int
	style      string
	content    *learning.ChapterContent
	feedback   string
	lastErr    error
}

// New creates an Engine in StateHome over previously loaded data.
func New(gen Generator, saver Saver, paths []learning.LearningPath, stats learning.DailyStats, opts ...Option) *Engine {
	e := &Engine{
		gen:   gen,
		saver: saver,
		log:   zap.NewNop(),
		now:   time.Now,
		state: StateHome,
		paths: learning.ClonePaths(paths),
		stats: stats,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.Named("engine")
	if e.paths == nil {
		e.paths = []learning.LearningPath{}
	}
	return e
}

// Snapshot is a consistent, deep-copied view of the engine.
type Snapshot struct {
	State      State
	Loading    string // target of the in-flight request, empty when idle
	Paths      []learning.LearningPath
	Stats      learning.DailyStats
	Active     *learning.LearningPath
	Diagnostic *learning.DiagnosticQuiz
	ChapterID  int
	Style      string
	Content    *learning.ChapterContent
	Feedback   string
	Err        error
}

// Snapshot returns the current view.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		State:     e.state,
		Paths:     learning.ClonePaths(e.paths),
		Stats:     e.stats,
		ChapterID: e.chapterID,
		Style:     e.style,
		Feedback:  e.feedback,
		Err:       e.lastErr,
	}
	if e.inflight != nil {
		s.Loading = e.inflight.target
	}
	if p := e.activeLocked(); p != nil {
		c := p.Clone()
		s.Active = &c
	}
	if e.diagnostic != nil {
		d := e.diagnostic.Clone()
		s.Diagnostic = &d
	}
	if e.content != nil {
		c := e.content.Clone()
		s.Content = &c
	}
	return s
}

// State returns the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Loading reports whether a generation request is in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inflight != nil
}

// LastError returns the error of the most recent failed request, cleared
// when the next request starts or on navigation.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Paths returns a copy of all learning paths.
func (e *Engine) Paths() []learning.LearningPath {
	e.mu.Lock()
	defer e.mu.Unlock()
	return learning.ClonePaths(e.paths)
}

// Stats returns the daily stats.
func (e *Engine) Stats() learning.DailyStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// ActivePath returns a copy of the open path.
func (e *Engine) ActivePath() (learning.LearningPath, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.activeLocked(); p != nil {
		return p.Clone(), true
	}
	return learning.LearningPath{}, false
}

// Diagnostic returns a copy of the pending diagnostic quiz.
func (e *Engine) Diagnostic() (learning.DiagnosticQuiz, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.diagnostic == nil {
		return learning.DiagnosticQuiz{}, false
	}
	return e.diagnostic.Clone(), true
}

// ChapterContent returns a copy of the loaded chapter content.
func (e *Engine) ChapterContent() (learning.ChapterContent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.content == nil {
		return learning.ChapterContent{}, false
	}
	return e.content.Clone(), true
}

// Feedback returns the banner from the last chapter quiz.
func (e *Engine) Feedback() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.feedback
}

func (e *Engine) activeLocked() *learning.LearningPath {
	if e.activeID == "" {
		return nil
	}
	if i := learning.FindPath(e.paths, e.activeID); i >= 0 {
		return &e.paths[i]
	}
	return nil
}

// persist writes the path collection then the stats. Failures are logged
// and not surfaced; the in-memory state stays authoritative.
func (e *Engine) persist(ctx context.Context) {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.mu.Lock()
	paths := learning.ClonePaths(e.paths)
	stats := e.stats
	e.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	if err := e.saver.SavePaths(ctx, paths); err != nil {
		e.log.Error("save paths", zap.Int("count", len(paths)), zap.Error(err))
	}
	if err := e.saver.SaveStats(ctx, stats); err != nil {
		e.log.Error("save stats", zap.Error(err))
	}
}
