// Package home renders the list of learning paths and the daily stats.
package home

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/curioloop/internal/engine"
	"github.com/abhisek/curioloop/internal/learning"
	"github.com/abhisek/curioloop/internal/router"
	"github.com/abhisek/curioloop/internal/screen"
	"github.com/abhisek/curioloop/internal/streak"
	"github.com/abhisek/curioloop/internal/ui/components"
	"github.com/abhisek/curioloop/internal/ui/layout"
	"github.com/abhisek/curioloop/internal/ui/theme"
)

const (
	opNewPath  = "new-path"
	opOpenPath = "open-path"
)

// HomeScreen lists learning paths, most recently used first.
type HomeScreen struct {
	ctx   context.Context
	eng   *engine.Engine
	menu  components.Menu
	stats learning.DailyStats
	paths int
	err   error
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen over the engine's current paths.
func New(ctx context.Context, eng *engine.Engine) *HomeScreen {
	h := &HomeScreen{ctx: ctx, eng: eng}
	h.refresh()
	return h
}

func (h *HomeScreen) refresh() {
	snap := h.eng.Snapshot()
	h.stats = snap.Stats
	h.paths = len(snap.Paths)

	paths := snap.Paths
	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].LastAccessedAt.After(paths[j].LastAccessedAt)
	})

	items := make([]components.MenuItem, 0, len(paths)+3)
	items = append(items, components.MenuItem{
		Label: "+ New learning path",
		Action: func() tea.Cmd {
			return screen.Do(opNewPath, h.eng.NewPath)
		},
	})
	for _, p := range paths {
		id := p.ID
		items = append(items, components.MenuItem{
			Label:  p.Topic,
			Detail: fmt.Sprintf("%d%% · %s", p.ProgressPercent, p.UserProfile.Level),
			Action: func() tea.Cmd {
				return screen.Do(opOpenPath, func() error { return h.eng.OpenPath(h.ctx, id) })
			},
		})
	}
	items = append(items,
		components.MenuItem{Label: "Progress", Action: func() tea.Cmd {
			stats := h.stats
			return func() tea.Msg { return router.PushScreenMsg{Screen: newStatsScreen(stats, h.paths)} }
		}},
		components.MenuItem{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	)
	h.menu = components.NewMenu(items)
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(screen.EngineMsg); ok {
		if !errors.Is(m.Err, engine.ErrSuperseded) {
			h.err = m.Err
		}
		h.refresh()
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Render("Your learning paths"))
	sections = append(sections, renderStatsLine(h.stats))
	if h.paths == 0 {
		sections = append(sections, theme.Hint.Render("No paths yet. Start one to get a tailored plan."))
	}
	sections = append(sections, h.menu.View())
	if h.err != nil {
		sections = append(sections, theme.ErrorText.Render("Error: "+h.err.Error()))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func renderStatsLine(s learning.DailyStats) string {
	return theme.Subtitle.Render(fmt.Sprintf(
		"%d day streak · next milestone %d · %d chapters today · %d XP",
		s.StreakDays, streak.NextMilestone(s.StreakDays), s.ChaptersCompletedToday, s.TotalXP))
}
