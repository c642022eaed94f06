package learning

import (
	"fmt"
	"math"
)

// Percent returns round(100*part/total), or 0 when total is zero.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// Score is the chapter quiz score for correct answers out of total.
func Score(correct, total int) int {
	return Percent(correct, total)
}

// GradeQuiz compares answers (chosen option index per question, -1 for
// unanswered) against the questions and returns per-question results and
// the number answered correctly. Missing answers count as wrong.
func GradeQuiz(questions []Question, answers []int) ([]QuizResult, int) {
	results := make([]QuizResult, len(questions))
	correct := 0
	for i, q := range questions {
		ok := i < len(answers) && answers[i] == q.CorrectIndex
		if ok {
			correct++
		}
		results[i] = QuizResult{QuestionID: q.ID, Correct: ok}
	}
	return results, correct
}

// ValidateQuestions checks the invariants a generated quiz must satisfy:
// at least one question, unique IDs, at least two options and a correct
// index within the options.
func ValidateQuestions(qs []Question) error {
	if len(qs) == 0 {
		return fmt.Errorf("quiz has no questions")
	}
	seen := make(map[string]bool, len(qs))
	for i, q := range qs {
		if q.ID == "" {
			return fmt.Errorf("question %d: missing id", i+1)
		}
		if seen[q.ID] {
			return fmt.Errorf("question %d: duplicate id %q", i+1, q.ID)
		}
		seen[q.ID] = true
		if q.Kind != QuestionKindMCQ {
			return fmt.Errorf("question %q: unsupported type %q", q.ID, q.Kind)
		}
		if q.Prompt == "" {
			return fmt.Errorf("question %q: empty prompt", q.ID)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("question %q: needs at least 2 options, got %d", q.ID, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("question %q: correctIndex %d out of range [0,%d)", q.ID, q.CorrectIndex, len(q.Options))
		}
	}
	return nil
}
