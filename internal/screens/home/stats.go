package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/curioloop/internal/learning"
	"github.com/abhisek/curioloop/internal/router"
	"github.com/abhisek/curioloop/internal/screen"
	"github.com/abhisek/curioloop/internal/streak"
	"github.com/abhisek/curioloop/internal/ui/components"
	"github.com/abhisek/curioloop/internal/ui/theme"
)

// statsScreen shows the daily counters in detail.
type statsScreen struct {
	stats learning.DailyStats
	paths int
}

func newStatsScreen(stats learning.DailyStats, paths int) *statsScreen {
	return &statsScreen{stats: stats, paths: paths}
}

func (s *statsScreen) Init() tea.Cmd { return nil }

func (s *statsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && (k.String() == "enter" || k.String() == "q") {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *statsScreen) View(width, height int) string {
	next := streak.NextMilestone(s.stats.StreakDays)
	toGo := next - s.stats.StreakDays

	rows := []string{
		theme.Title.Render("Progress"),
		"",
		fmt.Sprintf("Streak            %d days", s.stats.StreakDays),
		fmt.Sprintf("Chapters today    %d", s.stats.ChaptersCompletedToday),
		fmt.Sprintf("Total XP          %d", s.stats.TotalXP),
		fmt.Sprintf("Learning paths    %d", s.paths),
		"",
		components.NewProgressBar("Next milestone", s.stats.StreakDays*100/next, 48).View(),
		theme.Hint.Render(fmt.Sprintf("%d more day(s) to reach a %d day streak", toGo, next)),
	}
	card := theme.Card.Render(strings.Join(rows, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *statsScreen) Title() string { return "Progress" }
