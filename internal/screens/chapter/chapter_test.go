package chapter

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/curioloop/internal/engine"
	"github.com/abhisek/curioloop/internal/engine/enginetest"
	"github.com/abhisek/curioloop/internal/learning"
	"github.com/abhisek/curioloop/internal/screen"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func newChapter(t *testing.T, gen *enginetest.Generator) (*ChapterScreen, *engine.Engine) {
	t.Helper()
	e := enginetest.New(gen)
	enginetest.AtDashboard(t, e)
	enginetest.AtChapter(t, e, 1)
	return New(context.Background(), e), e
}

func runCmd(t *testing.T, c *ChapterScreen, cmd tea.Cmd) screen.EngineMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(screen.EngineMsg)
	if !ok {
		t.Fatal("expected EngineMsg")
	}
	c.Update(msg)
	return msg
}

func TestMarkdown(t *testing.T) {
	md := Markdown(learning.ChapterContent{
		Title:         "Goroutines",
		Summary:       "Lightweight threads.",
		KeyPoints:     []string{"cheap to start", "scheduled by the runtime"},
		Example:       "go f()",
		Analogy:       "Waiters in a restaurant.",
		DiagramPrompt: "A scheduler juggling tasks",
		Resources: learning.Resources{
			Docs: []learning.Resource{{Title: "Effective Go", URL: "https://go.dev/doc/effective_go", Description: "official"}},
		},
	})

	for _, want := range []string{
		"# Goroutines",
		"- cheap to start",
		"## Example",
		"## Analogy",
		"> A scheduler juggling tasks",
		"**Docs**",
		"- [Effective Go](https://go.dev/doc/effective_go): official",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "**Videos**") {
		t.Error("empty resource groups must be omitted")
	}
}

func TestMarkdown_NoResources(t *testing.T) {
	md := Markdown(learning.ChapterContent{Title: "T", Summary: "S"})
	if strings.Contains(md, "Further reading") {
		t.Fatal("expected no resources section")
	}
}

func TestChapter_ViewShowsStyleBar(t *testing.T) {
	c, _ := newChapter(t, &enginetest.Generator{})
	view := c.View(100, 30)
	if !strings.Contains(view, "[1 Default]") {
		t.Fatalf("expected default style selected:\n%s", view)
	}
	if c.Title() != "Chapter 1" {
		t.Fatalf("title = %q", c.Title())
	}
}

func TestChapter_ChangeStyle(t *testing.T) {
	c, e := newChapter(t, &enginetest.Generator{})

	_, cmd := c.Update(keyPress('3'))
	if !c.busy || !strings.Contains(c.View(100, 30), "Technical") {
		t.Fatal("expected loading view for the new style")
	}
	if msg := runCmd(t, c, cmd); msg.Err != nil {
		t.Fatalf("unexpected error: %v", msg.Err)
	}

	content, ok := e.ChapterContent()
	if !ok || !strings.Contains(content.Summary, "Technical") {
		t.Fatalf("content = %+v", content)
	}
	if c.style != "Technical" || c.busy {
		t.Fatalf("style = %q busy = %v", c.style, c.busy)
	}
}

func TestChapter_SameStyleIsNoop(t *testing.T) {
	c, _ := newChapter(t, &enginetest.Generator{})
	if _, cmd := c.Update(keyPress('1')); cmd != nil {
		t.Fatal("selecting the current style should do nothing")
	}
}

func TestChapter_ChangeStyleFailureAllowsRetry(t *testing.T) {
	gen := &enginetest.Generator{}
	c, e := newChapter(t, gen)
	gen.Err = errors.New("timeout")

	_, cmd := c.Update(keyPress('2'))
	runCmd(t, c, cmd)

	if e.State() != engine.StateChapter {
		t.Fatalf("state = %s", e.State())
	}
	view := c.View(100, 30)
	if !strings.Contains(view, "timeout") || !strings.Contains(view, "No content loaded") {
		t.Fatalf("expected error and empty content:\n%s", view)
	}

	gen.Err = nil
	_, cmd = c.Update(keyPress('2'))
	if msg := runCmd(t, c, cmd); msg.Err != nil {
		t.Fatalf("retry failed: %v", msg.Err)
	}
	if c.content == nil {
		t.Fatal("expected content after retry")
	}
}

func TestChapter_StartQuiz(t *testing.T) {
	c, e := newChapter(t, &enginetest.Generator{})
	_, cmd := c.Update(keyPress('q'))
	if msg := runCmd(t, c, cmd); msg.Err != nil {
		t.Fatalf("unexpected error: %v", msg.Err)
	}
	if e.State() != engine.StateQuizWithinChapter {
		t.Fatalf("state = %s", e.State())
	}
}

func TestChapter_EscBackToDashboard(t *testing.T) {
	c, e := newChapter(t, &enginetest.Generator{})
	_, cmd := c.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	runCmd(t, c, cmd)
	if e.State() != engine.StatePathDashboard {
		t.Fatalf("state = %s", e.State())
	}
}

func TestChapter_ScrollStaysInBounds(t *testing.T) {
	c, _ := newChapter(t, &enginetest.Generator{})
	c.View(100, 8)
	for range 100 {
		c.Update(keyPress('j'))
	}
	if c.offset > max(len(c.rendered)-c.pageHeight, 0) {
		t.Fatalf("offset %d past end (%d lines, page %d)", c.offset, len(c.rendered), c.pageHeight)
	}
	c.Update(keyPress('b'))
	c.Update(keyPress('b'))
	for range 10 {
		c.Update(keyPress('k'))
	}
	if c.offset != 0 {
		t.Fatalf("offset = %d, want 0", c.offset)
	}
}
