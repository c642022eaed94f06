package learning

import (
	"time"

	"github.com/google/uuid"
)

// NewPath materializes a learning path from a profile and an already
// materialized plan. Progress starts at zero.
func NewPath(profile UserProfile, plan LearningPlan, now time.Time) LearningPath {
	return LearningPath{
		ID:              uuid.New().String(),
		Topic:           profile.Topic,
		CreatedAt:       now,
		LastAccessedAt:  now,
		UserProfile:     profile.Clone(),
		Plan:            plan.Clone(),
		ProgressPercent: 0,
	}
}

// Clone returns a deep copy of the path.
func (lp LearningPath) Clone() LearningPath {
	out := lp
	out.UserProfile = lp.UserProfile.Clone()
	out.Plan = lp.Plan.Clone()
	return out
}

// Clone returns a deep copy of the profile.
func (p UserProfile) Clone() UserProfile {
	out := p
	if p.ContextImage != nil {
		out.ContextImage = append([]byte(nil), p.ContextImage...)
	}
	return out
}

// ClonePaths deep-copies a path collection.
func ClonePaths(paths []LearningPath) []LearningPath {
	if paths == nil {
		return nil
	}
	out := make([]LearningPath, len(paths))
	for i, p := range paths {
		out[i] = p.Clone()
	}
	return out
}

// FindPath returns the index of the path with id, or -1.
func FindPath(paths []LearningPath, id string) int {
	for i, p := range paths {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the content.
func (c ChapterContent) Clone() ChapterContent {
	out := c
	out.KeyPoints = cloneStrings(c.KeyPoints)
	out.Resources = Resources{
		Videos: append([]Resource(nil), c.Resources.Videos...),
		Blogs:  append([]Resource(nil), c.Resources.Blogs...),
		Docs:   append([]Resource(nil), c.Resources.Docs...),
	}
	out.Quiz = cloneQuestions(c.Quiz)
	return out
}

// Clone returns a deep copy of the quiz.
func (q DiagnosticQuiz) Clone() DiagnosticQuiz {
	out := q
	out.Questions = cloneQuestions(q.Questions)
	return out
}

func cloneQuestions(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q
		out[i].Options = cloneStrings(q.Options)
	}
	return out
}
