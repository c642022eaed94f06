// Package streak implements the daily-stats rules: the once-per-launch
// day rollover, XP awards for finished chapters and streak milestones.
package streak

import (
	"time"

	"github.com/abhisek/curioloop/internal/learning"
)

// XPPerPoint is the XP earned per quiz score point.
const XPPerPoint = 10

// BaseMilestone is the first streak length worth celebrating.
const BaseMilestone = 5

// Default returns fresh stats for a first launch at now.
func Default(now time.Time) learning.DailyStats {
	return learning.DailyStats{
		StreakDays:             1,
		ChaptersCompletedToday: 0,
		TotalXP:                0,
		LastLoginDate:          now,
	}
}

// Rollover applies the day-boundary rule comparing local calendar dates of
// stats.LastLoginDate and now (in now's location):
//
//   - same day: unchanged
//   - exactly one day earlier: streak+1, today's chapters reset
//   - anything else, including a future date: streak back to 1
//
// It reports whether stats changed.
func Rollover(stats learning.DailyStats, now time.Time) (learning.DailyStats, bool) {
	switch DaysBetween(stats.LastLoginDate, now) {
	case 0:
		return stats, false
	case 1:
		stats.StreakDays++
	default:
		stats.StreakDays = 1
	}
	stats.ChaptersCompletedToday = 0
	stats.LastLoginDate = now
	return stats, true
}

// DaysBetween returns the number of calendar days from a to b, both read
// as local dates in b's location. Negative when a is after b.
func DaysBetween(a, b time.Time) int {
	loc := b.Location()
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.Date()
	// Compare at UTC midnight so DST transitions don't skew the count.
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// AwardChapter credits a completed chapter quiz.
func AwardChapter(stats learning.DailyStats, score int) learning.DailyStats {
	stats.ChaptersCompletedToday++
	stats.TotalXP += score * XPPerPoint
	return stats
}

// NextMilestone returns the next streak milestone above the current streak length.
func NextMilestone(current int) int {
	milestones := []int{5, 10, 15, 20}
	for _, m := range milestones {
		if m > current {
			return m
		}
	}
	// Beyond 20, every 5.
	return ((current / 5) + 1) * 5
}

// Sanitize repairs values a hand-edited or older record may carry so the
// stats invariants hold: streak at least 1, counters non-negative.
func Sanitize(stats learning.DailyStats, now time.Time) learning.DailyStats {
	if stats.StreakDays < 1 {
		stats.StreakDays = 1
	}
	if stats.ChaptersCompletedToday < 0 {
		stats.ChaptersCompletedToday = 0
	}
	if stats.TotalXP < 0 {
		stats.TotalXP = 0
	}
	if stats.LastLoginDate.IsZero() {
		stats.LastLoginDate = now
	}
	return stats
}
