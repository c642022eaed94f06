package gateway

import "github.com/abhisek/curioloop/internal/llm"

func questionItemSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type":        "string",
				"description": "Identifier unique within this quiz, e.g. q1",
			},
			"type": map[string]any{
				"type": "string",
				"enum": []any{"mcq"},
			},
			"question": map[string]any{
				"type":        "string",
				"description": "The question prompt",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    2,
				"description": "Answer options, usually 4",
			},
			"correctIndex": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"description": "Zero-based index of the correct option",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the correct option is right",
			},
		},
		"required": []any{"id", "type", "question", "options", "correctIndex", "explanation"},
	}
}

func chapterItemSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"chapter_id": map[string]any{
				"type":        "integer",
				"description": "1-based position of the chapter in the plan",
			},
			"title": map[string]any{"type": "string"},
			"objective": map[string]any{
				"type":        "string",
				"description": "What the learner can do after this chapter",
			},
			"estimated_time_minutes": map[string]any{
				"type":    "integer",
				"minimum": 1,
			},
			"difficulty": map[string]any{
				"type": "string",
				"enum": []any{"easy", "medium", "hard"},
			},
			"topics": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		// Extra keys such as status are tolerated; MaterializePlan
		// overwrites them.
		"required": []any{"chapter_id", "title", "objective", "difficulty"},
	}
}

func resourceListSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":       map[string]any{"type": "string"},
				"url":         map[string]any{"type": "string"},
				"description": map[string]any{"type": "string"},
			},
			"required": []any{"title", "url", "description"},
		},
	}
}

func stringList(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

// DiagnosticQuizSchema is the response shape for GenerateDiagnosticQuiz.
var DiagnosticQuizSchema = &llm.Schema{
	Name:        "diagnostic-quiz",
	Description: "A short multiple-choice quiz gauging the learner's current knowledge of a topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{"type": "string"},
			"quiz": map[string]any{
				"type":     "array",
				"items":    questionItemSchema(),
				"minItems": 1,
			},
		},
		"required": []any{"quiz"},
	},
}

// LearningPlanSchema is the response shape for EvaluateAndPlan.
var LearningPlanSchema = &llm.Schema{
	Name:        "learning-plan",
	Description: "Proficiency estimate and a structured chapter-by-chapter curriculum",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"estimated_level": map[string]any{
				"type":        "string",
				"description": "Estimated proficiency, e.g. Beginner, Intermediate, Advanced",
			},
			"strengths":  stringList("Concepts the learner already knows"),
			"weaknesses": stringList("Concepts the learner needs to work on"),
			"learning_plan": map[string]any{
				"type":     "array",
				"items":    chapterItemSchema(),
				"minItems": 1,
			},
		},
		"required": []any{"estimated_level", "learning_plan"},
	},
}

// ChapterContentSchema is the response shape for GenerateChapter.
var ChapterContentSchema = &llm.Schema{
	Name:        "chapter-content",
	Description: "Lesson content for one chapter with resources and a short quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"chapter_id":     map[string]any{"type": "integer"},
			"title":          map[string]any{"type": "string"},
			"summary":        map[string]any{"type": "string", "description": "The lesson body in markdown"},
			"key_points":     stringList("Short takeaways"),
			"example":        map[string]any{"type": "string", "description": "A concrete worked example"},
			"analogy":        map[string]any{"type": "string", "description": "An analogy that builds intuition"},
			"diagram_prompt": map[string]any{"type": "string", "description": "A prompt describing a helpful diagram"},
			"external_resources": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"videos": resourceListSchema(),
					"blogs":  resourceListSchema(),
					"docs":   resourceListSchema(),
				},
			},
			"chapter_quiz": map[string]any{
				"type":     "array",
				"items":    questionItemSchema(),
				"minItems": 1,
			},
		},
		"required": []any{"summary", "external_resources", "chapter_quiz"},
	},
}

// AdaptiveUpdateSchema is the response shape for AdaptPlan.
var AdaptiveUpdateSchema = &llm.Schema{
	Name:        "adaptive-update",
	Description: "Feedback and curriculum adjustments after a chapter quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"chapter_id":    map[string]any{"type": "integer"},
			"chapter_score": map[string]any{"type": "number"},
			"feedback": map[string]any{
				"type":        "string",
				"description": "One or two encouraging sentences for the learner",
			},
			"adjustments": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"difficulty_change": map[string]any{
						"type": "string",
						"enum": []any{"easier", "same", "harder"},
					},
					"added_remedial_content": stringList("Remedial topics to add"),
					"skipped_future_topics":  stringList("Future topics the learner can skip"),
					"added_advanced_topics":  stringList("Advanced topics to add"),
				},
			},
			"updated_plan": map[string]any{
				"type":        "array",
				"items":       chapterItemSchema(),
				"description": "Optional revised list of the remaining chapters",
			},
		},
		"required": []any{"feedback", "adjustments"},
	},
}
