// Package learning holds the domain model for adaptive learning paths and
// the pure mutations applied to it.
package learning

import (
	"fmt"
	"slices"
	"time"
)

// Level is the learner's self-reported proficiency.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// AllLevels returns the levels in display order.
func AllLevels() []Level {
	return []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	return slices.Contains(AllLevels(), l)
}

// Difficulty rates a chapter.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ChapterStatus is the progression state of a single chapter.
type ChapterStatus string

const (
	StatusLocked    ChapterStatus = "locked"
	StatusUnlocked  ChapterStatus = "unlocked"
	StatusCompleted ChapterStatus = "completed"
)

// Accessible reports whether a chapter in this status may be opened.
func (s ChapterStatus) Accessible() bool {
	return s == StatusUnlocked || s == StatusCompleted
}

// DifficultyChange is the adaptive recommendation for upcoming chapters.
type DifficultyChange string

const (
	ChangeEasier DifficultyChange = "easier"
	ChangeSame   DifficultyChange = "same"
	ChangeHarder DifficultyChange = "harder"
)

// QuestionKindMCQ is the only question kind produced today.
const QuestionKindMCQ = "mcq"

// Styles lists the presentation styles offered for chapter content.
// The first entry is used when a chapter is opened.
var Styles = []string{"Default", "Like I'm 5", "Technical", "Analogy Heavy"}

// DefaultStyle is the style used on first load of a chapter.
const DefaultStyle = "Default"

// UserProfile is what the learner submits when creating a path.
// It is immutable once the path exists.
type UserProfile struct {
	Topic        string `json:"topic"`
	Level        Level  `json:"level"`
	Goal         string `json:"goal"`
	ContextImage []byte `json:"contextImage,omitempty"`
}

// Validate checks the fields the learner must provide.
func (p UserProfile) Validate() error {
	if p.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if !p.Level.Valid() {
		return fmt.Errorf("unknown level %q", p.Level)
	}
	return nil
}

// Question is a single multiple-choice question.
type Question struct {
	ID           string   `json:"id"`
	Kind         string   `json:"type"`
	Prompt       string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

// DiagnosticQuiz gauges the learner before a plan exists. Never persisted.
type DiagnosticQuiz struct {
	Topic     string     `json:"topic"`
	Questions []Question `json:"quiz"`
}

// QuizResult is the per-question outcome sent to plan evaluation.
type QuizResult struct {
	QuestionID string `json:"questionId"`
	Correct    bool   `json:"correct"`
}

// Chapter is one unit of a learning plan.
type Chapter struct {
	ChapterID        int           `json:"chapter_id"`
	Title            string        `json:"title"`
	Objective        string        `json:"objective"`
	EstimatedMinutes int           `json:"estimated_time_minutes"`
	Difficulty       Difficulty    `json:"difficulty"`
	Topics           []string      `json:"topics"`
	Status           ChapterStatus `json:"status"`
	Score            *int          `json:"score,omitempty"`
}

// LearningPlan is the evaluated curriculum for one path.
type LearningPlan struct {
	EstimatedLevel string    `json:"estimated_level"`
	Strengths      []string  `json:"strengths"`
	Weaknesses     []string  `json:"weaknesses"`
	Chapters       []Chapter `json:"learning_plan"`
}

// Resource is an external link suggested alongside chapter content.
type Resource struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Resources groups suggested links by medium.
type Resources struct {
	Videos []Resource `json:"videos"`
	Blogs  []Resource `json:"blogs"`
	Docs   []Resource `json:"docs"`
}

// ChapterContent is the generated lesson for one chapter. It is never
// persisted and is regenerated on every load or style change.
type ChapterContent struct {
	ChapterID     int        `json:"chapter_id"`
	Title         string     `json:"title"`
	Summary       string     `json:"summary"`
	KeyPoints     []string   `json:"key_points"`
	Example       string     `json:"example"`
	Analogy       string     `json:"analogy"`
	DiagramPrompt string     `json:"diagram_prompt"`
	Resources     Resources  `json:"external_resources"`
	Quiz          []Question `json:"chapter_quiz"`
}

// Adjustments describes how the curriculum should shift after a quiz.
type Adjustments struct {
	DifficultyChange    DifficultyChange `json:"difficulty_change"`
	RemedialTopicsAdded []string         `json:"added_remedial_content"`
	FutureTopicsSkipped []string         `json:"skipped_future_topics"`
	AdvancedTopicsAdded []string         `json:"added_advanced_topics"`
}

// AdaptiveUpdate is the provider's reaction to a chapter quiz score.
// Only Feedback is acted on; Adjustments and RevisedChapters are kept
// for display and logging.
type AdaptiveUpdate struct {
	ChapterID       int         `json:"chapter_id"`
	Score           int         `json:"chapter_score"`
	Feedback        string      `json:"feedback"`
	Adjustments     Adjustments `json:"adjustments"`
	RevisedChapters []Chapter   `json:"updated_plan,omitempty"`
}

// LearningPath is the persisted aggregate for one topic.
type LearningPath struct {
	ID              string       `json:"id"`
	Topic           string       `json:"topic"`
	CreatedAt       time.Time    `json:"createdAt"`
	LastAccessedAt  time.Time    `json:"lastAccessedAt"`
	UserProfile     UserProfile  `json:"userProfile"`
	Plan            LearningPlan `json:"plan"`
	ProgressPercent int          `json:"progress"`
}

// DailyStats are the process-wide gamification counters.
type DailyStats struct {
	StreakDays             int       `json:"streakDays"`
	ChaptersCompletedToday int       `json:"chaptersCompletedToday"`
	TotalXP                int       `json:"totalXp"`
	LastLoginDate          time.Time `json:"lastLoginDate"`
}
