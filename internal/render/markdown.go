package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

// Markdown renders editor content (markdown plus the editor's <u> markers)
// for the detail pane, picking a glamour style that matches the terminal
// background. Falls back to plain wrapped text when rendering fails.
func Markdown(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	style := glamour.WithStandardStyle("light")
	if termenv.HasDarkBackground() {
		style = glamour.WithStandardStyle("dark")
	}
	renderer, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return Wrap(text, width)
	}
	out, err := renderer.Render(text)
	if err != nil {
		return Wrap(text, width)
	}
	return strings.TrimRight(out, "\n")
}

// Wrap word-wraps plain text for the detail pane.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}
