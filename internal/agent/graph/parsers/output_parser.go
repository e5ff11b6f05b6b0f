package parsers

import (
	"fmt"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	errx "github.com/medical-triage/server/internal/core/error"
	logx "github.com/medical-triage/server/pkg/logger"
)

// Every heuristic that detects prompt text echoed back by the completion
// service lives in this file.

// basic safety limits to avoid pathological inputs
const (
	maxContentLen  = 16 * 1024 // 16KB
	maxFragments   = 50
	maxFragmentLen = 200
	maxConditions  = 3
	minFragmentLen = 3
)

var (
	// headers the extraction prompt ends with; models sometimes repeat them
	echoMarkers = []string{"list of symptoms", "symptom list", "symptoms (comma"}
	// words that only appear in instructions, never in a symptom
	leakMarkers = []string{"list", "separated"}
)

// StripInstructionEcho drops an echoed prompt header, keeping only the text
// after its last colon.
func StripInstructionEcho(content string) string {
	lower := strings.ToLower(content)
	for _, m := range echoMarkers {
		if strings.Contains(lower, m) {
			if i := strings.LastIndex(content, ":"); i >= 0 {
				return strings.TrimSpace(content[i+1:])
			}
			break
		}
	}
	return content
}

// IsLeakedFragment reports whether s looks like instruction text rather than
// a symptom.
func IsLeakedFragment(s string) bool {
	lower := strings.ToLower(s)
	for _, m := range leakMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// DropLeakedFragments removes fragments that resemble leaked prompt
// instructions, including anything with a colon.
func DropLeakedFragments(symptoms []string) []string {
	out := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		if IsLeakedFragment(s) || strings.Contains(s, ":") {
			continue
		}
		out = append(out, s)
	}
	return out
}

// LooksLikeTemplateText reports whether a condition name is really prompt text.
func LooksLikeTemplateText(s string) bool {
	return strings.Contains(strings.ToLower(s), "symptom")
}

// ConditionsUnusable reports whether a condition list is empty or carries
// template text.
func ConditionsUnusable(conditions []string) bool {
	if len(conditions) == 0 {
		return true
	}
	for _, c := range conditions {
		if LooksLikeTemplateText(c) {
			return true
		}
	}
	return false
}

// ParseSymptomList turns the extraction reply into symptom phrases: comma
// separated, at least three characters, not numeric, no leak markers.
func ParseSymptomList(content string) (symptoms []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "symptom_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("symptom parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			symptoms = nil
		}
	}()

	content = guardLength(content, "symptom_parser")
	content = StripInstructionEcho(content)

	symptoms = []string{}
	for _, part := range strings.Split(content, ",") {
		if len(symptoms) >= maxFragments {
			logx.Warn().Str("component", "symptom_parser").Int("max_fragments", maxFragments).Msg("fragment processing capped")
			break
		}
		s := trimListMarkers(part)
		if s == "" || !utf8.ValidString(s) || len(s) > maxFragmentLen {
			continue
		}
		if IsLeakedFragment(s) {
			continue
		}
		if utf8.RuneCountInString(s) < minFragmentLen || isNumeric(s) {
			continue
		}
		symptoms = append(symptoms, s)
	}
	return symptoms, nil
}

// ParseConditionLines turns a condition-analysis reply (one name per line)
// into at most three condition names.
func ParseConditionLines(content string) (conditions []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "condition_parser").Msgf("panic recovered: %v", r)
			err = errx.New(fmt.Errorf("condition parser panic"), http.StatusInternalServerError, errx.SystemErrorMessage)
			conditions = nil
		}
	}()

	content = guardLength(content, "condition_parser")

	conditions = []string{}
	seen := map[string]struct{}{}
	for _, line := range strings.Split(content, "\n") {
		if len(conditions) >= maxConditions {
			break
		}
		c := trimListMarkers(line)
		if c == "" || !utf8.ValidString(c) || len(c) > maxFragmentLen {
			continue
		}
		if strings.HasSuffix(c, ":") || LooksLikeTemplateText(c) || IsLeakedFragment(c) {
			continue
		}
		key := strings.ToLower(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		conditions = append(conditions, c)
	}
	return conditions, nil
}

// --- helpers ---

func guardLength(content, component string) string {
	if len(content) <= maxContentLen {
		return content
	}
	logx.Warn().
		Str("component", component).
		Int("max_len", maxContentLen).
		Int("orig_len", len(content)).
		Msg("content truncated due to size limit")
	return content[:maxContentLen]
}

// trimListMarkers strips whitespace, bullets, numbering and trailing periods.
func trimListMarkers(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "-*•· \t")
	if i := strings.IndexAny(s, ".)"); i > 0 && i <= 2 && isNumeric(s[:i]) {
		s = s[i+1:]
	}
	return strings.TrimRight(strings.TrimSpace(s), ".")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
