package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minMarkdownWrap keeps narrow overlays readable.
const minMarkdownWrap = 24

// markdownRenderer renders markdown for terminal views and recreates the
// glamour renderer only when the wrap width changes.
type markdownRenderer struct {
	width    int
	renderer *glamour.TermRenderer
}

func (r *markdownRenderer) render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" || r == nil {
		return markdown
	}

	wrapWidth := max(width, minMarkdownWrap)
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(rendered, "\n")
}
