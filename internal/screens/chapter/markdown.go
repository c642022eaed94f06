package chapter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/abhisek/curioloop/internal/learning"
)

// Markdown lays the chapter content out as a markdown document.
func Markdown(c learning.ChapterContent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", c.Title, c.Summary)

	if len(c.KeyPoints) > 0 {
		b.WriteString("## Key points\n\n")
		for _, p := range c.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}
	if c.Example != "" {
		fmt.Fprintf(&b, "## Example\n\n%s\n\n", c.Example)
	}
	if c.Analogy != "" {
		fmt.Fprintf(&b, "## Analogy\n\n%s\n\n", c.Analogy)
	}
	if c.DiagramPrompt != "" {
		fmt.Fprintf(&b, "## Picture it\n\n> %s\n\n", c.DiagramPrompt)
	}

	groups := []struct {
		name  string
		items []learning.Resource
	}{
		{"Videos", c.Resources.Videos},
		{"Articles", c.Resources.Blogs},
		{"Docs", c.Resources.Docs},
	}
	var res strings.Builder
	for _, g := range groups {
		if len(g.items) == 0 {
			continue
		}
		fmt.Fprintf(&res, "**%s**\n\n", g.name)
		for _, r := range g.items {
			fmt.Fprintf(&res, "- [%s](%s)", r.Title, r.URL)
			if r.Description != "" {
				fmt.Fprintf(&res, ": %s", r.Description)
			}
			res.WriteString("\n")
		}
		res.WriteString("\n")
	}
	if res.Len() > 0 {
		b.WriteString("## Further reading\n\n")
		b.WriteString(res.String())
	}
	return b.String()
}

// render turns markdown into styled terminal text wrapped at width. The
// raw markdown is returned if the renderer cannot be built.
func render(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
