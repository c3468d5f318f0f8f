package wizard

import (
	"strings"

	"charm.land/glamour/v2"
)

// renderMarkdown renders content with glamour in the given standard style.
// Falls back to plain text if rendering fails.
func renderMarkdown(content, style string, width int) string {
	if width > 100 {
		width = 100
	}
	if width < 20 {
		width = 20
	}
	if style == "" {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSuffix(rendered, "\n")
}
