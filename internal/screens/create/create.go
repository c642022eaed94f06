// Package create collects the learner profile for a new path.
package create

import (
	"context"
	"errors"
	"fmt"
	"os"
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
	opSubmit = "submit-profile"
	opHome   = "go-home"
)

const (
	fieldTopic = iota
	fieldLevel
	fieldGoal
	fieldImage
	fieldCount
)

// maxImageBytes caps notes images read from disk.
const maxImageBytes = 10 << 20

// CreateScreen is the "new learning path" form.
type CreateScreen struct {
	ctx context.Context
	eng *engine.Engine

	topic components.TextInput
	goal  components.TextInput
	image components.TextInput
	level int
	focus int

	busy bool
	err  error
}

var _ screen.Screen = (*CreateScreen)(nil)

// New creates the form with the topic field focused.
func New(ctx context.Context, eng *engine.Engine) *CreateScreen {
	return &CreateScreen{
		ctx:   ctx,
		eng:   eng,
		topic: components.NewTextInput("What do you want to learn?", "e.g. Go concurrency", 120),
		goal:  components.NewTextInput("Goal (optional)", "e.g. build a web crawler", 240),
		image: components.NewTextInput("Notes image (optional)", "path to a photo of your notes", 512),
	}
}

func (c *CreateScreen) Init() tea.Cmd {
	return c.topic.Focus()
}

func (c *CreateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.EngineMsg:
		if msg.Op == opSubmit {
			c.busy = false
			if !errors.Is(msg.Err, engine.ErrSuperseded) {
				c.err = msg.Err
			}
		}
		return c, nil

	case tea.KeyPressMsg:
		if c.busy {
			if msg.String() == "esc" {
				return c, screen.Do(opHome, func() error { c.eng.GoHome(); return nil })
			}
			return c, nil
		}
		switch msg.String() {
		case "esc":
			return c, screen.Do(opHome, func() error { c.eng.GoHome(); return nil })
		case "tab", "down":
			return c, c.setFocus((c.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return c, c.setFocus((c.focus + fieldCount - 1) % fieldCount)
		case "left":
			if c.focus == fieldLevel {
				c.level = (c.level + len(learning.AllLevels()) - 1) % len(learning.AllLevels())
				return c, nil
			}
		case "right":
			if c.focus == fieldLevel {
				c.level = (c.level + 1) % len(learning.AllLevels())
				return c, nil
			}
		case "enter":
			if c.focus < fieldImage {
				return c, c.setFocus(c.focus + 1)
			}
			return c, c.submit()
		case "ctrl+s":
			return c, c.submit()
		}
	}

	var cmd tea.Cmd
	switch c.focus {
	case fieldTopic:
		c.topic, cmd = c.topic.Update(msg)
	case fieldGoal:
		c.goal, cmd = c.goal.Update(msg)
	case fieldImage:
		c.image, cmd = c.image.Update(msg)
	}
	return c, cmd
}

func (c *CreateScreen) setFocus(f int) tea.Cmd {
	c.focus = f
	c.topic.Blur()
	c.goal.Blur()
	c.image.Blur()
	switch f {
	case fieldTopic:
		return c.topic.Focus()
	case fieldGoal:
		return c.goal.Focus()
	case fieldImage:
		return c.image.Focus()
	}
	return nil
}

// Profile builds the profile from the form, reading the notes image if a
// path was given.
func (c *CreateScreen) Profile() (learning.UserProfile, error) {
	p := learning.UserProfile{
		Topic: c.topic.Value(),
		Level: learning.AllLevels()[c.level],
		Goal:  c.goal.Value(),
	}
	if path := c.image.Value(); path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return p, fmt.Errorf("notes image: %w", err)
		}
		if info.Size() > maxImageBytes {
			return p, fmt.Errorf("notes image is larger than %d MB", maxImageBytes>>20)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return p, fmt.Errorf("notes image: %w", err)
		}
		p.ContextImage = data
	}
	return p, p.Validate()
}

func (c *CreateScreen) submit() tea.Cmd {
	profile, err := c.Profile()
	if err != nil {
		c.err = err
		return nil
	}
	c.busy = true
	c.err = nil
	return screen.Do(opSubmit, func() error {
		_, err := c.eng.SubmitProfile(c.ctx, profile)
		return err
	})
}

func (c *CreateScreen) View(width, height int) string {
	if c.busy {
		msg := "Generating your diagnostic quiz..."
		if len(c.image.Value()) > 0 {
			msg = "Reading your notes and generating a diagnostic quiz..."
		}
		return layout.Centered(msg, width, height, theme.Subtitle)
	}

	sections := []string{
		theme.Title.Render("New learning path"),
		c.topic.View(),
		c.renderLevel(),
		c.goal.View(),
		c.image.View(),
	}
	if c.err != nil {
		sections = append(sections, theme.ErrorText.Render("Error: "+c.err.Error()))
	}
	content := lipgloss.NewStyle().Width(min(width-4, 72)).Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (c *CreateScreen) renderLevel() string {
	label := theme.Muted
	if c.focus == fieldLevel {
		label = theme.Selected
	}
	parts := make([]string, 0, len(learning.AllLevels()))
	for i, l := range learning.AllLevels() {
		if i == c.level {
			parts = append(parts, theme.Selected.Render("["+string(l)+"]"))
		} else {
			parts = append(parts, theme.Muted.Render(" "+string(l)+" "))
		}
	}
	return label.Render("Current level") + "\n  " + strings.Join(parts, " ")
}

func (c *CreateScreen) Title() string {
	return "New Path"
}

func (c *CreateScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "←→", Description: "Level"},
		{Key: "Ctrl+S", Description: "Start"},
		{Key: "Esc", Description: "Cancel"},
	}
}
