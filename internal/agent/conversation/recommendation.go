package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/medical-triage/server/internal/agent/model"
	logx "github.com/medical-triage/server/pkg/logger"
)

var (
	declinePattern     = regexp.MustCompile(`(?i)^no\.?$|^no,? thanks?`)
	affirmativePattern = regexp.MustCompile(`(?i)\b(yes|yeah|yep|sure|please|ok|okay)\b|recommend`)
	morePattern        = regexp.MustCompile(`(?i)\b(other|others|more|alternative|alternatives|different|additional|another|else)\b`)
)

// Recommendation handles replies to the specialist offer.
//
// A decline ends the flow but keeps the stage. A first affirmative reply
// starts a fresh episode; asking for more excludes what was already
// suggested. Anything else goes back to symptom collection.
func (a *Agent) Recommendation(_ context.Context, sess *model.Session, message string) string {
	msg := strings.TrimSpace(message)

	switch {
	case declinePattern.MatchString(msg):
		return declineRecommendationMessage

	case affirmativePattern.MatchString(msg) && !sess.AwaitingFollowUp:
		sess.AwaitingFollowUp = true
		a.rec.Reset(&sess.Episode)
		recs := a.rec.Recommend(&sess.Episode, sess.LastConditions, false)
		logx.Debug().Str("session_id", sess.ID).Int("count", len(recs)).Msg("Specialists recommended")
		if len(recs) == 0 {
			return generalPractitionerMessage
		}
		return formatRecommendations(recommendHeader, recs)

	case morePattern.MatchString(msg):
		sess.AwaitingFollowUp = true
		recs := a.rec.Recommend(&sess.Episode, sess.LastConditions, true)
		logx.Debug().Str("session_id", sess.ID).Int("count", len(recs)).Msg("Alternative specialists recommended")
		if len(recs) == 0 {
			a.rec.Reset(&sess.Episode)
			return noMoreRecommendationsMessage
		}
		return formatRecommendations(moreHeader, recs)

	default:
		sess.Stage = model.StageSymptomCollection
		sess.AwaitingFollowUp = false
		return askOtherSymptomsMessage
	}
}
