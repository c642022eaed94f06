// Package quiz runs a multiple-choice quiz, either the diagnostic that
// precedes a plan or the quiz at the end of a chapter.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/curioloop/internal/engine"
	"github.com/abhisek/curioloop/internal/learning"
	"github.com/abhisek/curioloop/internal/screen"
	"github.com/abhisek/curioloop/internal/ui/components"
	"github.com/abhisek/curioloop/internal/ui/layout"
	"github.com/abhisek/curioloop/internal/ui/theme"
)

// Mode selects which quiz is being taken.
type Mode int

const (
	ModeDiagnostic Mode = iota
	ModeChapter
)

const (
	opSubmit = "submit-quiz"
	opLeave  = "leave-quiz"
)

// skipped is the answer recorded for a skipped question.
const skipped = -1

// QuizScreen shows one question at a time, then a review of every answer.
// Answers are submitted only when the review is confirmed.
type QuizScreen struct {
	ctx  context.Context
	eng  *engine.Engine
	mode Mode

	heading   string
	questions []learning.Question
	current   int
	answers   []int
	choice    components.MultiChoice

	busy bool
	err  error
}

var _ screen.Screen = (*QuizScreen)(nil)

// NewDiagnostic shows the pending diagnostic quiz.
func NewDiagnostic(ctx context.Context, eng *engine.Engine) *QuizScreen {
	snap := eng.Snapshot()
	q := &QuizScreen{ctx: ctx, eng: eng, mode: ModeDiagnostic}
	if snap.Diagnostic != nil {
		q.heading = "Diagnostic: " + snap.Diagnostic.Topic
		q.questions = snap.Diagnostic.Questions
	}
	// Rebuilt while the plan is being generated.
	q.busy = snap.State == engine.StatePlanning
	q.reset()
	return q
}

// NewChapter shows the quiz of the open chapter.
func NewChapter(ctx context.Context, eng *engine.Engine) *QuizScreen {
	snap := eng.Snapshot()
	q := &QuizScreen{ctx: ctx, eng: eng, mode: ModeChapter}
	if snap.Content != nil {
		q.heading = "Chapter quiz: " + snap.Content.Title
		q.questions = snap.Content.Quiz
	}
	q.busy = snap.Loading != ""
	q.reset()
	return q
}

func (q *QuizScreen) reset() {
	q.current = 0
	q.answers = make([]int, 0, len(q.questions))
	q.loadChoice()
}

func (q *QuizScreen) loadChoice() {
	if q.current >= len(q.questions) {
		return
	}
	cur := q.questions[q.current]
	q.choice = components.NewMultiChoice(cur.Prompt, cur.Options, cur.CorrectIndex)
	q.choice.Reveal = q.mode == ModeChapter
}

// Answers returns the answers recorded so far.
func (q *QuizScreen) Answers() []int {
	return append([]int(nil), q.answers...)
}

func (q *QuizScreen) finished() bool {
	return q.current >= len(q.questions)
}

func (q *QuizScreen) Init() tea.Cmd {
	return nil
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.EngineMsg:
		if msg.Op == opSubmit {
			q.busy = false
			if !errors.Is(msg.Err, engine.ErrSuperseded) {
				q.err = msg.Err
			}
		}
		return q, nil

	case tea.KeyPressMsg:
		key := msg.String()
		if key == "esc" {
			return q, q.leave()
		}
		if q.busy {
			return q, nil
		}
		if q.finished() {
			if key == "enter" || (q.err != nil && key == "r") {
				return q, q.submit()
			}
			return q, nil
		}

		switch {
		case key == "s" && !q.choice.Submitted:
			return q, q.record(skipped)
		case key == "enter" && q.choice.Submitted:
			return q, q.record(q.choice.ChosenIndex)
		}

		q.choice, _ = q.choice.Update(msg)
		if q.choice.Submitted && !q.choice.Reveal {
			return q, q.record(q.choice.ChosenIndex)
		}
	}
	return q, nil
}

func (q *QuizScreen) record(answer int) tea.Cmd {
	q.answers = append(q.answers, answer)
	q.current++
	q.loadChoice()
	return nil
}

func (q *QuizScreen) submit() tea.Cmd {
	q.busy = true
	q.err = nil
	answers := q.Answers()
	if q.mode == ModeDiagnostic {
		return screen.Do(opSubmit, func() error {
			_, err := q.eng.CompleteDiagnostic(q.ctx, answers)
			return err
		})
	}
	return screen.Do(opSubmit, func() error {
		_, err := q.eng.SubmitChapterQuiz(q.ctx, answers)
		return err
	})
}

func (q *QuizScreen) leave() tea.Cmd {
	if q.mode == ModeChapter {
		return screen.Do(opLeave, q.eng.BackToDashboard)
	}
	return screen.Do(opLeave, func() error { q.eng.GoHome(); return nil })
}

func (q *QuizScreen) View(width, height int) string {
	if q.busy {
		msg := "Evaluating your answers and building a learning plan..."
		if q.mode == ModeChapter {
			msg = "Scoring your quiz and adapting your plan..."
		}
		return layout.Centered(msg, width, height, theme.Subtitle)
	}
	if len(q.questions) == 0 {
		return layout.Centered("No questions to show.", width, height, theme.Subtitle)
	}

	w := min(width-4, 76)
	var sections []string
	sections = append(sections, theme.Title.Render(q.heading))

	if q.finished() {
		sections = append(sections, q.review(w)...)
		if q.err != nil {
			sections = append(sections,
				theme.ErrorText.Render("Error: "+q.err.Error()),
				theme.Hint.Render("Press Enter to try again or Esc to leave."))
		} else {
			sections = append(sections, theme.Hint.Render("Press Enter to submit your answers."))
		}
	} else {
		pct := q.current * 100 / len(q.questions)
		sections = append(sections,
			components.NewProgressBar(fmt.Sprintf("Question %d of %d", q.current+1, len(q.questions)), pct, w).View(),
			lipgloss.NewStyle().Width(w).Render(q.choice.View()))
		if q.choice.Submitted && q.choice.Reveal {
			verdict := theme.Incorrect.Render("Not quite.")
			if q.choice.IsCorrect() {
				verdict = theme.Correct.Render("Correct!")
			}
			sections = append(sections, verdict+" "+theme.Body.Render(q.questions[q.current].Explanation))
		}
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// review lists every question with its verdict, the correct option and
// the explanation. A skipped question counts as wrong.
func (q *QuizScreen) review(width int) []string {
	correct := 0
	var rows []string
	for i, question := range q.questions {
		answer := skipped
		if i < len(q.answers) {
			answer = q.answers[i]
		}

		mark := theme.Incorrect.Render("✗")
		if answer == question.CorrectIndex {
			mark = theme.Correct.Render("✓")
			correct++
		}

		given := "Skipped"
		if answer >= 0 && answer < len(question.Options) {
			given = question.Options[answer]
		}
		lines := []string{
			mark + " " + theme.Body.Render(fmt.Sprintf("%d. %s", i+1, question.Prompt)),
			theme.Muted.Render("   Your answer: " + given),
		}
		if answer != question.CorrectIndex && question.CorrectIndex < len(question.Options) {
			lines = append(lines, theme.Muted.Render("   Correct: "+question.Options[question.CorrectIndex]))
		}
		if question.Explanation != "" {
			lines = append(lines, theme.Body.Render("   "+question.Explanation))
		}
		rows = append(rows, lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n")))
	}

	summary := theme.Subtitle.Render(fmt.Sprintf("Review: %d of %d correct", correct, len(q.questions)))
	return append([]string{summary}, rows...)
}

func (q *QuizScreen) Title() string {
	if q.mode == ModeChapter {
		return "Chapter Quiz"
	}
	return "Diagnostic"
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	if q.finished() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Leave"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓/A-D", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "S", Description: "Skip"},
		{Key: "Esc", Description: "Leave"},
	}
}
