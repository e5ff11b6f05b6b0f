package nodes

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageRunes caps the user text carried into a turn.
const MaxMessageRunes = 4000

// normalizeMessage trims surrounding whitespace and truncates overlong input.
func normalizeMessage(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxMessageRunes {
		return s
	}
	r := []rune(s)
	return string(r[:MaxMessageRunes])
}
