package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders assistant replies. On a
// terminal the text is rendered as markdown with glamour; otherwise, or if
// rendering fails, it is returned unchanged.
func NewRenderer(isTerminal bool) func(string) string {
	if !isTerminal {
		return plain
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return plain
	}
	return func(text string) string {
		out, err := r.Render(text)
		if err != nil {
			return text
		}
		return strings.TrimRight(out, "\n")
	}
}

func plain(text string) string {
	return text
}
