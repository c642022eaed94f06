package learning

import "time"

// MaterializePlan normalizes a freshly generated plan: chapter IDs become
// 1..n in array order, the first chapter is unlocked and every other
// chapter is locked, and any scores the provider invented are dropped.
// Statuses in raw are ignored.
func MaterializePlan(raw LearningPlan) (LearningPlan, error) {
	if len(raw.Chapters) == 0 {
		return LearningPlan{}, ErrEmptyPlan
	}

	plan := raw.Clone()
	for i := range plan.Chapters {
		ch := &plan.Chapters[i]
		ch.ChapterID = i + 1
		ch.Score = nil
		if ch.Topics == nil {
			ch.Topics = []string{}
		}
		if i == 0 {
			ch.Status = StatusUnlocked
		} else {
			ch.Status = StatusLocked
		}
	}
	if plan.Strengths == nil {
		plan.Strengths = []string{}
	}
	if plan.Weaknesses == nil {
		plan.Weaknesses = []string{}
	}
	return plan, nil
}

// ChapterIndex returns the array index of chapterID, or -1.
func (p LearningPlan) ChapterIndex(chapterID int) int {
	for i, ch := range p.Chapters {
		if ch.ChapterID == chapterID {
			return i
		}
	}
	return -1
}

// Chapter returns the chapter with chapterID.
func (p LearningPlan) Chapter(chapterID int) (Chapter, bool) {
	if i := p.ChapterIndex(chapterID); i >= 0 {
		return p.Chapters[i], true
	}
	return Chapter{}, false
}

// CompletedCount returns the number of completed chapters.
func (p LearningPlan) CompletedCount() int {
	n := 0
	for _, ch := range p.Chapters {
		if ch.Status == StatusCompleted {
			n++
		}
	}
	return n
}

// ProgressPercent is round(100*completed/total).
func (p LearningPlan) ProgressPercent() int {
	return Percent(p.CompletedCount(), len(p.Chapters))
}

// FrontierChapter returns the unlocked chapter the learner should take
// next. It is false once every chapter is completed.
func (p LearningPlan) FrontierChapter() (Chapter, bool) {
	for _, ch := range p.Chapters {
		if ch.Status == StatusUnlocked {
			return ch, true
		}
	}
	return Chapter{}, false
}

// Titles is the projection of chapter titles sent with adaptation requests.
func (p LearningPlan) Titles() []string {
	out := make([]string, len(p.Chapters))
	for i, ch := range p.Chapters {
		out[i] = ch.Title
	}
	return out
}

// Clone returns a deep copy of the plan.
func (p LearningPlan) Clone() LearningPlan {
	out := p
	out.Strengths = cloneStrings(p.Strengths)
	out.Weaknesses = cloneStrings(p.Weaknesses)
	if p.Chapters != nil {
		out.Chapters = make([]Chapter, len(p.Chapters))
		for i, ch := range p.Chapters {
			out.Chapters[i] = ch.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the chapter.
func (c Chapter) Clone() Chapter {
	out := c
	out.Topics = cloneStrings(c.Topics)
	if c.Score != nil {
		s := *c.Score
		out.Score = &s
	}
	return out
}

// CompleteChapter records a finished chapter quiz on the path: the chapter
// becomes completed with score, the next chapter in array order is
// unlocked if it was locked, progress is recomputed and the access time
// is bumped. It returns false and leaves the path untouched when the
// chapter does not exist.
func (lp *LearningPath) CompleteChapter(chapterID, score int, now time.Time) bool {
	i := lp.Plan.ChapterIndex(chapterID)
	if i < 0 {
		return false
	}

	chapters := lp.Plan.Chapters
	s := score
	chapters[i].Status = StatusCompleted
	chapters[i].Score = &s

	if next := i + 1; next < len(chapters) && chapters[next].Status == StatusLocked {
		chapters[next].Status = StatusUnlocked
	}

	lp.ProgressPercent = lp.Plan.ProgressPercent()
	lp.LastAccessedAt = now
	return true
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
