// Package dashboard shows the plan of the open learning path.
package dashboard

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

const (
	opOpenChapter = "open-chapter"
	opHome        = "go-home"
)

// DashboardScreen lists the chapters of the active path with their
// status, and the feedback from the last chapter quiz.
type DashboardScreen struct {
	ctx context.Context
	eng *engine.Engine

	path     learning.LearningPath
	feedback string
	menu     components.Menu

	busy bool
	err  error
}

var _ screen.Screen = (*DashboardScreen)(nil)

// New creates the dashboard for the engine's active path.
func New(ctx context.Context, eng *engine.Engine) *DashboardScreen {
	d := &DashboardScreen{ctx: ctx, eng: eng}
	d.refresh()
	return d
}

func (d *DashboardScreen) refresh() {
	snap := d.eng.Snapshot()
	if snap.Active != nil {
		d.path = *snap.Active
	}
	d.feedback = snap.Feedback
	d.busy = snap.Loading != ""

	items := make([]components.MenuItem, 0, len(d.path.Plan.Chapters))
	for _, ch := range d.path.Plan.Chapters {
		id := ch.ChapterID
		items = append(items, components.MenuItem{
			Label:    fmt.Sprintf("%s %d. %s", theme.ChapterStatus(ch.Status), ch.ChapterID, ch.Title),
			Detail:   chapterDetail(ch),
			Disabled: !ch.Status.Accessible(),
			Action: func() tea.Cmd {
				return d.open(id)
			},
		})
	}
	selected := d.menu.Selected
	d.menu = components.NewMenu(items)
	if frontier, ok := d.path.Plan.FrontierChapter(); ok {
		d.menu.Selected = d.path.Plan.ChapterIndex(frontier.ChapterID)
	} else if selected < len(items) {
		d.menu.Selected = selected
	}
}

func chapterDetail(ch learning.Chapter) string {
	parts := []string{fmt.Sprintf("%d min", ch.EstimatedMinutes)}
	if ch.Difficulty != "" {
		parts = append(parts, string(ch.Difficulty))
	}
	if ch.Score != nil {
		parts = append(parts, fmt.Sprintf("scored %d%%", *ch.Score))
	}
	return strings.Join(parts, " · ")
}

func (d *DashboardScreen) open(chapterID int) tea.Cmd {
	d.busy = true
	d.err = nil
	return screen.Do(opOpenChapter, func() error {
		_, err := d.eng.OpenChapter(d.ctx, chapterID)
		return err
	})
}

func (d *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.EngineMsg:
		if msg.Op == opOpenChapter && !errors.Is(msg.Err, engine.ErrSuperseded) {
			d.err = msg.Err
		}
		d.refresh()
		return d, nil

	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			return d, screen.Do(opHome, func() error { d.eng.GoHome(); return nil })
		}
		if d.busy {
			return d, nil
		}
	}

	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) View(width, height int) string {
	if d.busy {
		return layout.Centered("Generating chapter content...", width, height, theme.Subtitle)
	}

	w := min(width-4, 80)
	plan := d.path.Plan

	var sections []string
	sections = append(sections, theme.Title.Render(d.path.Topic))
	if d.feedback != "" {
		sections = append(sections, theme.Banner.Width(w).Render(d.feedback))
	}
	sections = append(sections,
		components.NewProgressBar("Progress", d.path.ProgressPercent, w).View(),
		theme.Subtitle.Render(fmt.Sprintf("Estimated level: %s", plan.EstimatedLevel)))
	if len(plan.Strengths) > 0 {
		sections = append(sections, theme.Body.Render("Strengths: "+strings.Join(plan.Strengths, ", ")))
	}
	if len(plan.Weaknesses) > 0 {
		sections = append(sections, theme.Body.Render("Focus areas: "+strings.Join(plan.Weaknesses, ", ")))
	}
	sections = append(sections, d.menu.View())
	if _, ok := plan.FrontierChapter(); !ok && len(plan.Chapters) > 0 {
		sections = append(sections, theme.Correct.Render("Path complete. Every chapter is done."))
	}
	if d.err != nil {
		sections = append(sections, theme.ErrorText.Render("Error: "+d.err.Error()))
	}

	content := lipgloss.NewStyle().Width(w).Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func (d *DashboardScreen) Title() string {
	return "Learning Path"
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open chapter"},
		{Key: "Esc", Description: "All paths"},
	}
}
