package conversation

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/medical-triage/server/internal/agent/model"
	"github.com/medical-triage/server/internal/agent/recommender"
	"github.com/medical-triage/server/internal/metrics"
	logx "github.com/medical-triage/server/pkg/logger"
)

// QA is the medical Q&A collaborator the agent delegates to.
type QA interface {
	ExtractSymptoms(ctx context.Context, message string) ([]string, error)
	MatchConditions(ctx context.Context, sess *model.Session, symptoms []string) []string
	Answer(ctx context.Context, question string, transcript []*schema.Message) (string, error)
}

// Route names the handler that answers a turn.
type Route string

const (
	RouteFarewell          Route = "farewell"
	RouteGreeting          Route = "greeting"
	RouteSymptomCollection Route = "symptom_collection"
	RouteRecommendation    Route = "recommendation"
	RouteGeneralQA         Route = "general_qa"
)

// Routes lists every route, in dispatch order.
var Routes = []Route{RouteFarewell, RouteGreeting, RouteSymptomCollection, RouteRecommendation, RouteGeneralQA}

type Config struct {
	// MaxSymptomAttempts bounds consecutive unclear symptom descriptions
	// before a general practitioner is suggested; 0 disables the bound.
	MaxSymptomAttempts int
}

// Agent is the stage machine. It keeps no per-session state: everything it
// mutates lives in the *model.Session passed to each call.
type Agent struct {
	qa      QA
	rec     *recommender.Recommender
	cfg     Config
	metrics *metrics.Metrics
}

func NewAgent(qa QA, rec *recommender.Recommender, cfg Config, m *metrics.Metrics) (*Agent, error) {
	if qa == nil {
		return nil, fmt.Errorf("qa collaborator is nil")
	}
	if rec == nil {
		return nil, fmt.Errorf("recommender is nil")
	}
	return &Agent{qa: qa, rec: rec, cfg: cfg, metrics: m}, nil
}

// Route classifies a turn. The user entry must already be appended, so the
// farewell lookback skips it and reads the latest assistant entry.
func (a *Agent) Route(sess *model.Session, message string) (Route, error) {
	if IsFarewell(message, sess.LastAssistant()) {
		return RouteFarewell, nil
	}
	switch sess.Stage {
	case model.StageGreeting:
		return RouteGreeting, nil
	case model.StageSymptomCollection:
		return RouteSymptomCollection, nil
	case model.StageRecommendation:
		return RouteRecommendation, nil
	case model.StageGeneralQA:
		return RouteGeneralQA, nil
	default:
		return "", fmt.Errorf("unknown stage %s", sess.Stage)
	}
}

// Respond runs the handler for route and returns the reply text.
func (a *Agent) Respond(ctx context.Context, route Route, sess *model.Session, message string) (string, error) {
	var reply string
	switch route {
	case RouteFarewell:
		reply = a.Farewell(ctx, sess)
	case RouteGreeting:
		reply = a.Greeting(ctx, sess, message)
	case RouteSymptomCollection:
		reply = a.SymptomCollection(ctx, sess, message)
	case RouteRecommendation:
		reply = a.Recommendation(ctx, sess, message)
	case RouteGeneralQA:
		reply = a.GeneralQA(ctx, sess, message)
	default:
		return "", fmt.Errorf("unknown route %q", route)
	}
	a.metrics.Turn(string(route))
	return reply, nil
}

// ProcessMessage runs one full turn on sess: it appends the user entry,
// answers it and appends the assistant entry.
func (a *Agent) ProcessMessage(ctx context.Context, sess *model.Session, message string) (string, error) {
	sess.AddUser(message)
	route, err := a.Route(sess, message)
	if err != nil {
		return "", err
	}
	reply, err := a.Respond(ctx, route, sess, message)
	if err != nil {
		return "", err
	}
	sess.AddAssistant(reply)
	return reply, nil
}

// Farewell closes the conversation: back to greeting, episode cleared.
func (a *Agent) Farewell(_ context.Context, sess *model.Session) string {
	sess.Stage = model.StageGreeting
	sess.AwaitingFollowUp = false
	sess.SymptomAttempts = 0
	a.rec.Reset(&sess.Episode)
	a.metrics.Farewell()
	logx.Debug().Str("session_id", sess.ID).Msg("Conversation closed by farewell")
	return farewellMessage
}

// Greeting advances to symptom collection on any input.
func (a *Agent) Greeting(_ context.Context, sess *model.Session, _ string) string {
	sess.Stage = model.StageSymptomCollection
	return askSymptomsMessage
}

// GeneralQA answers an open question from retrieved context and the transcript.
func (a *Agent) GeneralQA(ctx context.Context, sess *model.Session, message string) string {
	answer, err := a.qa.Answer(ctx, message, sess.Transcript)
	if err != nil {
		logx.Error().Err(err).Str("session_id", sess.ID).Msg("Medical answer failed")
		return unavailableMessage
	}
	if answer == "" {
		return unavailableMessage
	}
	return answer
}
