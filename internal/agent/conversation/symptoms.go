package conversation

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/medical-triage/server/internal/agent/catalog"
	"github.com/medical-triage/server/internal/agent/graph/parsers"
	"github.com/medical-triage/server/internal/agent/model"
	logx "github.com/medical-triage/server/pkg/logger"
)

// messages at or below this length skip the keyword scan
const keywordScanMinLen = 10

var softDecline = regexp.MustCompile(`(?i)^no\.?$`)

var keywordPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(catalog.CommonSymptomWords))
	for _, w := range catalog.CommonSymptomWords {
		m[w] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\w*(?:\s+\w+){0,2}`)
	}
	return m
}()

// SymptomCollection extracts symptoms, maps them to conditions and offers
// specialist recommendations. Unclear input keeps the stage.
func (a *Agent) SymptomCollection(ctx context.Context, sess *model.Session, message string) string {
	if softDecline.MatchString(strings.TrimSpace(message)) && len(sess.LastConditions) == 0 {
		return softDeclineMessage
	}

	extracted, err := a.qa.ExtractSymptoms(ctx, message)
	if err != nil {
		logx.Warn().Err(err).Str("session_id", sess.ID).Msg("Symptom extraction failed, trying keyword scan")
	}
	symptoms := parsers.DropLeakedFragments(extracted)

	if len(symptoms) == 0 && utf8.RuneCountInString(message) > keywordScanMinLen {
		symptoms = ScanKeywords(message)
		if len(symptoms) > 0 {
			a.metrics.Fallback("keyword_scan")
		}
	}

	if len(symptoms) == 0 {
		sess.SymptomAttempts++
		if a.cfg.MaxSymptomAttempts > 0 && sess.SymptomAttempts >= a.cfg.MaxSymptomAttempts {
			sess.SymptomAttempts = 0
			return escalationMessage
		}
		return unclearSymptomsMessage
	}

	conditions := a.qa.MatchConditions(ctx, sess, symptoms)
	if parsers.ConditionsUnusable(conditions) {
		conditions = FallbackConditions(symptoms)
		sess.LastConditions = conditions
		a.metrics.Fallback("condition_table")
	}

	sess.Stage = model.StageRecommendation
	sess.AwaitingFollowUp = false
	sess.SymptomAttempts = 0

	logx.Debug().
		Str("session_id", sess.ID).
		Strs("symptoms", symptoms).
		Strs("conditions", conditions).
		Msg("Conditions matched")
	return formatConditions(conditions)
}

// ScanKeywords finds common symptom words in message, each with up to two
// trailing words.
func ScanKeywords(message string) []string {
	lower := strings.ToLower(message)
	var found []string
	for _, w := range catalog.CommonSymptomWords {
		if !strings.Contains(lower, w) {
			continue
		}
		if phrase := keywordPatterns[w].FindString(lower); phrase != "" {
			found = append(found, phrase)
		} else {
			found = append(found, w)
		}
	}
	return found
}

// FallbackConditions maps symptoms through the small fallback table. The
// result is never empty.
func FallbackConditions(symptoms []string) []string {
	var matched []string
	seen := map[string]struct{}{}
	for _, s := range symptoms {
		lower := strings.ToLower(s)
		for _, e := range catalog.FallbackSymptomConditions {
			if !strings.Contains(lower, e.Key) {
				continue
			}
			for _, c := range e.Values {
				if _, dup := seen[c]; dup {
					continue
				}
				seen[c] = struct{}{}
				matched = append(matched, c)
			}
		}
	}
	if len(matched) == 0 {
		return append([]string(nil), catalog.FallbackConditions...)
	}
	if len(matched) > maxListedConditions {
		matched = matched[:maxListedConditions]
	}
	return matched
}
