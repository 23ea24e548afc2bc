package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer turns assistant Markdown into terminal output.
type Renderer func(markdown string) (string, error)

// NewRenderer returns a renderer that uses glamour with automatic
// light/dark detection. If glamour cannot be initialized it falls back to
// PlainRenderer.
func NewRenderer() Renderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return PlainRenderer
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// PlainRenderer returns the Markdown unchanged.
func PlainRenderer(markdown string) (string, error) {
	return markdown + "\n", nil
}

// FormatChoices renders a numbered choice list. Choices may be answered by
// number or by text.
func FormatChoices(choices []string) string {
	if len(choices) == 0 {
		return ""
	}
	var b strings.Builder
	for i, c := range choices {
		fmt.Fprintf(&b, "  [%d] %s\n", i+1, c)
	}
	return b.String()
}

// ProgressBar renders a fixed-width progress bar.
func ProgressBar(percent int) string {
	const width = 20
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return fmt.Sprintf("[%s%s] %d%%", strings.Repeat("#", filled), strings.Repeat("-", width-filled), percent)
}
