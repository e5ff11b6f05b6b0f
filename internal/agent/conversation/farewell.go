package conversation

import (
	"regexp"
	"strings"
)

var farewellPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)thank you`),
	regexp.MustCompile(`(?i)thanks a lot`),
	regexp.MustCompile(`(?i)many thanks`),
	regexp.MustCompile(`(?i)^\s*thanks\b`),
	regexp.MustCompile(`(?i)\bok(ay)?,?\s*thanks`),
	regexp.MustCompile(`(?i)goodbye`),
	regexp.MustCompile(`(?i)\bbye\b`),
	regexp.MustCompile(`(?i)\bsee you\b`),
	regexp.MustCompile(`(?i)that'?s all`),
	regexp.MustCompile(`(?i)that is all`),
	regexp.MustCompile(`(?i)that would be all`),
	regexp.MustCompile(`(?i)i appreciate`),
}

var shortNegative = regexp.MustCompile(`(?i)^(no|nothing|none)\.?$`)

// offer questions that turn a short "no" into a farewell
var offerQuestion = regexp.MustCompile(`(?i)\b(would you like|do you want|do you need|can i|shall i)\b`)

// IsFarewell reports whether message closes the conversation. A bare "no",
// "nothing" or "none" counts only when the last assistant message offered
// something.
func IsFarewell(message, lastAssistant string) bool {
	if shortNegative.MatchString(strings.TrimSpace(message)) && offerQuestion.MatchString(lastAssistant) {
		return true
	}
	for _, p := range farewellPatterns {
		if p.MatchString(message) {
			return true
		}
	}
	return false
}
