package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/curioloop/internal/learning"
)

const curriculumSystemPrompt = `You are an expert curriculum designer. Output strict JSON only.`

const tutorSystemPrompt = `You are an expert tutor who writes clear, accurate lessons for self-directed learners. Output strict JSON only.`

const extractSystemPrompt = `You read photos of study material such as notes, slides and textbook pages.`

const extractInstruction = `Extract key concepts, topics, and vocabulary from this study material. Summarize it concisely for a learning algorithm.`

func buildDiagnosticUserMessage(topic string, level learning.Level, extracted string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a diagnostic quiz for a learner who wants to study %q.\n", topic)
	fmt.Fprintf(&b, "Self-reported level: %s\n", level)

	b.WriteString(`
Instructions:
1. Write 5 questions total.
2. Mix conceptual and practical questions, ordered from basic to advanced.
3. Every question is multiple choice ("type": "mcq") with 4 options and exactly one correct option.
4. Give each question a unique id (q1, q2, ...).
5. Explain the correct answer in one or two sentences.
Return STRICT JSON.`)

	if extracted != "" {
		b.WriteString("\n\nAlso consider this extracted context from the user's notes:\n")
		b.WriteString(extracted)
	}

	return b.String()
}

func buildPlanUserMessage(topic string, results []learning.QuizResult, goal string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze these quiz results for the topic %q.\n", topic)
	if goal != "" {
		fmt.Fprintf(&b, "User Goal: %s\n", goal)
	} else {
		b.WriteString("User Goal: general understanding\n")
	}

	raw, _ := json.Marshal(results)
	fmt.Fprintf(&b, "Results: %s\n", raw)

	b.WriteString(`
Instructions:
1. Estimate the learner's proficiency level.
2. List their strengths and weaknesses.
3. Build a structured 5-chapter learning plan, numbered from 1 in the order they should be studied.
4. Adapt the plan: if they failed the basics, start with fundamentals. If they aced the quiz, focus on advanced material.
5. Give each chapter a clear objective, an estimated time in minutes, a difficulty (easy, medium or hard) and the topics it covers.`)

	return b.String()
}

func buildChapterUserMessage(topic string, ch learning.Chapter, style string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Chapter %d: %s\n", ch.ChapterID, ch.Title)
	if ch.Objective != "" {
		fmt.Fprintf(&b, "Objective: %s\n", ch.Objective)
	}
	if len(ch.Topics) > 0 {
		fmt.Fprintf(&b, "Covers: %s\n", strings.Join(ch.Topics, ", "))
	}
	if ch.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", ch.Difficulty)
	}
	fmt.Fprintf(&b, "Explanation style: %s\n", style)

	b.WriteString(`
Instructions:
1. Write a summary that teaches the chapter in the requested style. Markdown is allowed.
2. List 3-5 key points.
3. Give one concrete example and one analogy.
4. Write a diagram prompt describing an illustration that would help.
5. Suggest external resources. DO NOT generate specific deep links.
   - Videos: use a YouTube search URL of the form https://www.youtube.com/results?search_query=<terms>
   - Docs: link the main documentation homepage of the technology or a stable Wikipedia article.
   - Blogs: link well-known, stable pages only.
6. Write a 3-question multiple choice quiz ("type": "mcq") with unique ids, 4 options each and one correct option.`)
	fmt.Fprintf(&b, "\nUse chapter_id %d in the response.", ch.ChapterID)

	return b.String()
}

func buildAdaptUserMessage(plan learning.LearningPlan, chapterID, score int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "User scored %d%% on Chapter %d.\n", score, chapterID)
	b.WriteString("Current Plan Context:\n")
	for i, title := range plan.Titles() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
	}

	b.WriteString(`
Instructions:
Determine whether the upcoming chapters should get harder, easier or stay the same.
If the score is low, add remedial content. If the score is high, consider skipping future topics the learner has already mastered or adding advanced topics.
Write short, encouraging feedback addressed to the learner.
Return the adjustments and, only if a revision is needed, the revised remaining chapters in updated_plan (otherwise an empty array).`)
	fmt.Fprintf(&b, "\nUse chapter_id %d and chapter_score %d in the response.", chapterID, score)

	return b.String()
}
