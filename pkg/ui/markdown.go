package ui

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown for the terminal through glamour
type MarkdownRenderer struct {
	Style string // "auto", a builtin style name or a path to a style file
	Width int    // word wrap width, 0 keeps glamour's default
}

// NewMarkdownRenderer creates a renderer that picks its style from the terminal background
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{Style: "auto"}
}

// Render converts content to styled terminal output. It falls back to the
// raw markdown when glamour cannot render it.
func (r *MarkdownRenderer) Render(content string) string {
	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
