// Package chapter shows generated chapter content and lets the learner
// switch its explanation style or move on to the quiz.
package chapter

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
	"github.com/abhisek/curioloop/internal/ui/layout"
	"github.com/abhisek/curioloop/internal/ui/theme"
)

const (
	opStyle = "change-style"
	opQuiz  = "start-quiz"
	opBack  = "back-to-dashboard"
)

// ChapterScreen renders the open chapter with scrolling.
type ChapterScreen struct {
	ctx context.Context
	eng *engine.Engine

	content *learning.ChapterContent
	style   string

	rendered      []string
	renderedWidth int
	offset        int
	pageHeight    int

	busy bool
	err  error
}

var _ screen.Screen = (*ChapterScreen)(nil)

// New creates the screen for the engine's open chapter.
func New(ctx context.Context, eng *engine.Engine) *ChapterScreen {
	c := &ChapterScreen{ctx: ctx, eng: eng, pageHeight: 10}
	c.refresh()
	return c
}

func (c *ChapterScreen) refresh() {
	snap := c.eng.Snapshot()
	c.content = snap.Content
	c.style = snap.Style
	c.busy = snap.Loading != ""
	c.rendered = nil
	c.offset = 0
}

func (c *ChapterScreen) Init() tea.Cmd {
	return nil
}

func (c *ChapterScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.EngineMsg:
		if !errors.Is(msg.Err, engine.ErrSuperseded) {
			c.err = msg.Err
		}
		c.refresh()
		return c, nil

	case tea.KeyPressMsg:
		key := msg.String()
		if key == "esc" {
			return c, screen.Do(opBack, c.eng.BackToDashboard)
		}
		if c.busy {
			return c, nil
		}
		switch key {
		case "up", "k":
			c.scroll(-1)
		case "down", "j":
			c.scroll(1)
		case "pgup", "b":
			c.scroll(-c.pageHeight)
		case "pgdown", " ":
			c.scroll(c.pageHeight)
		case "q", "enter":
			if c.content != nil {
				return c, screen.Do(opQuiz, c.eng.StartChapterQuiz)
			}
		case "1", "2", "3", "4":
			style := learning.Styles[int(key[0]-'1')]
			if style != c.style || c.content == nil {
				return c, c.changeStyle(style)
			}
		}
	}
	return c, nil
}

func (c *ChapterScreen) changeStyle(style string) tea.Cmd {
	c.busy = true
	c.err = nil
	c.style = style
	return screen.Do(opStyle, func() error {
		_, err := c.eng.ChangeStyle(c.ctx, style)
		return err
	})
}

func (c *ChapterScreen) scroll(delta int) {
	c.offset = max(0, min(c.offset+delta, len(c.rendered)-c.pageHeight))
}

func (c *ChapterScreen) View(width, height int) string {
	if c.busy {
		return layout.Centered(fmt.Sprintf("Writing this chapter in the %q style...", c.style), width, height, theme.Subtitle)
	}

	styles := c.renderStyles()
	var footer []string
	if c.err != nil {
		footer = append(footer, theme.ErrorText.Render("Error: "+c.err.Error()))
	}

	if c.content == nil {
		msg := "No content loaded. Pick a style to try again."
		return lipgloss.JoinVertical(lipgloss.Left, append([]string{styles, "", theme.Hint.Render(msg)}, footer...)...)
	}

	w := min(width-2, 100)
	if c.rendered == nil || c.renderedWidth != w {
		c.rendered = strings.Split(render(Markdown(*c.content), w), "\n")
		c.renderedWidth = w
	}
	c.pageHeight = max(height-2-len(footer), 1)
	c.scroll(0)

	end := min(c.offset+c.pageHeight, len(c.rendered))
	body := strings.Join(c.rendered[c.offset:end], "\n")

	parts := []string{styles, body}
	parts = append(parts, footer...)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (c *ChapterScreen) renderStyles() string {
	parts := make([]string, len(learning.Styles))
	for i, s := range learning.Styles {
		label := fmt.Sprintf("%d %s", i+1, s)
		if s == c.style {
			parts[i] = theme.Selected.Render("[" + label + "]")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	return " " + strings.Join(parts, " ")
}

func (c *ChapterScreen) Title() string {
	if c.content != nil {
		return c.content.Title
	}
	return "Chapter"
}

func (c *ChapterScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "1-4", Description: "Style"},
		{Key: "Q", Description: "Take quiz"},
		{Key: "Esc", Description: "Back"},
	}
}
