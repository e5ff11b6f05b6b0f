package conversation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medical-triage/server/internal/agent/catalog"
	"github.com/medical-triage/server/internal/agent/model"
	"github.com/medical-triage/server/internal/agent/qa"
	"github.com/medical-triage/server/internal/agent/recommender"
	"github.com/medical-triage/server/internal/testutil"
)

func newAgent(t *testing.T, chat *testutil.ChatModel, cfg Config) *Agent {
	t.Helper()
	svc, err := qa.New(chat, nil, qa.Config{Timeout: time.Second}, nil)
	require.NoError(t, err)
	a, err := NewAgent(svc, recommender.New(catalog.Default()), cfg, nil)
	require.NoError(t, err)
	return a
}

// stubQA returns fixed results without a model.
type stubQA struct {
	symptoms   []string
	conditions []string
	answer     string
	err        error
}

func (s *stubQA) ExtractSymptoms(context.Context, string) ([]string, error) {
	return s.symptoms, s.err
}

func (s *stubQA) MatchConditions(_ context.Context, sess *model.Session, _ []string) []string {
	sess.LastConditions = s.conditions
	return s.conditions
}

func (s *stubQA) Answer(context.Context, string, []*schema.Message) (string, error) {
	return s.answer, s.err
}

func inStage(stage model.Stage) *model.Session {
	sess := model.NewSession("test")
	sess.Stage = stage
	return sess
}

func TestGreetingAdvancesToSymptomCollection(t *testing.T) {
	a := newAgent(t, testutil.NewChatModel("unused"), Config{})
	sess := model.NewSession("s")

	reply, err := a.ProcessMessage(context.Background(), sess, "hello")
	require.NoError(t, err)
	assert.Equal(t, askSymptomsMessage, reply)
	assert.Equal(t, model.StageSymptomCollection, sess.Stage)
	require.Len(t, sess.Transcript, 2)
	assert.Equal(t, schema.User, sess.Transcript[0].Role)
	assert.Equal(t, schema.Assistant, sess.Transcript[1].Role)
}

func TestHeadacheAndFeverScenario(t *testing.T) {
	chat := testutil.NewChatModel("headache, fever")
	a := newAgent(t, chat, Config{})
	sess := inStage(model.StageSymptomCollection)

	reply, err := a.ProcessMessage(context.Background(), sess, "I have a headache and fever")
	require.NoError(t, err)
	assert.True(t, strings.Contains(reply, "Migraine") || strings.Contains(reply, "Flu"), reply)
	assert.Contains(t, reply, "Would you like me to recommend specialists")
	assert.Equal(t, model.StageRecommendation, sess.Stage)
	assert.NotEmpty(t, sess.LastConditions)
}

func TestFeverAndCoughYieldsDistinctConditions(t *testing.T) {
	a := newAgent(t, testutil.NewChatModel("fever, cough"), Config{})
	sess := inStage(model.StageSymptomCollection)

	_, err := a.ProcessMessage(context.Background(), sess, "fever and cough since monday")
	require.NoError(t, err)
	assert.Equal(t, model.StageRecommendation, sess.Stage)
	require.NotEmpty(t, sess.LastConditions)
	assert.LessOrEqual(t, len(sess.LastConditions), 3)
	seen := map[string]bool{}
	for _, c := range sess.LastConditions {
		assert.False(t, seen[c])
		seen[c] = true
	}
}

func TestFarewellResetsFromEveryStage(t *testing.T) {
	for _, stage := range []model.Stage{
		model.StageGreeting, model.StageSymptomCollection, model.StageRecommendation, model.StageGeneralQA,
	} {
		t.Run(stage.String(), func(t *testing.T) {
			chat := testutil.NewChatModel("unused")
			a := newAgent(t, chat, Config{})
			sess := inStage(stage)
			sess.AwaitingFollowUp = true
			sess.Episode.Mark("Neurology")

			reply, err := a.ProcessMessage(context.Background(), sess, "Thank you, goodbye")
			require.NoError(t, err)
			assert.Equal(t, farewellMessage, reply)
			assert.Equal(t, model.StageGreeting, sess.Stage)
			assert.Zero(t, sess.Episode.Len())
			assert.False(t, sess.AwaitingFollowUp)
			assert.Zero(t, chat.CallCount())
			assert.Len(t, sess.Transcript, 2)
		})
	}
}

func TestShortNoAfterOfferIsFarewell(t *testing.T) {
	a := newAgent(t, testutil.NewChatModel("headache"), Config{})
	sess := inStage(model.StageSymptomCollection)
	ctx := context.Background()

	_, err := a.ProcessMessage(ctx, sess, "my headache is terrible")
	require.NoError(t, err)
	require.Equal(t, model.StageRecommendation, sess.Stage)

	reply, err := a.ProcessMessage(ctx, sess, "No")
	require.NoError(t, err)
	assert.Equal(t, farewellMessage, reply)
	assert.Equal(t, model.StageGreeting, sess.Stage)
}

func TestNoThanksInRecommendationKeepsStage(t *testing.T) {
	a := newAgent(t, testutil.NewChatModel("unused"), Config{})
	sess := inStage(model.StageRecommendation)
	sess.LastConditions = []string{"Migraine"}

	reply, err := a.ProcessMessage(context.Background(), sess, "no thanks")
	require.NoError(t, err)
	assert.Equal(t, declineRecommendationMessage, reply)
	assert.Equal(t, model.StageRecommendation, sess.Stage)
}

func TestSoftDeclineInSymptomCollection(t *testing.T) {
	chat := testutil.NewChatModel("unused")
	a := newAgent(t, chat, Config{})
	sess := inStage(model.StageSymptomCollection)

	reply, err := a.ProcessMessage(context.Background(), sess, " NO ")
	require.NoError(t, err)
	assert.Equal(t, softDeclineMessage, reply)
	assert.Equal(t, model.StageSymptomCollection, sess.Stage)
	assert.Zero(t, chat.CallCount())
}

func TestKeywordFallbackWhenExtractionIsEmpty(t *testing.T) {
	a := newAgent(t, testutil.NewChatModel(""), Config{})
	sess := inStage(model.StageSymptomCollection)

	_, err := a.ProcessMessage(context.Background(), sess, "I have a lot of pain in my back")
	require.NoError(t, err)
	assert.Equal(t, model.StageRecommendation, sess.Stage)
}

func TestKeywordFallbackWhenExtractionFails(t *testing.T) {
	a := newAgent(t, &testutil.ChatModel{Err: errors.New("timeout")}, Config{})
	sess := inStage(model.StageSymptomCollection)

	reply, err := a.ProcessMessage(context.Background(), sess, "strong fever since yesterday")
	require.NoError(t, err)
	assert.Equal(t, model.StageRecommendation, sess.Stage)
	assert.Contains(t, reply, "Flu")
}

func TestScanKeywords(t *testing.T) {
	got := ScanKeywords("I have a lot of pain in my back")
	require.NotEmpty(t, got)
	assert.Contains(t, got[0], "pain")
	assert.Equal(t, "pain in my", got[0])

	assert.Equal(t, []string{"dizziness"}, ScanKeywords("Dizziness"))
	assert.Empty(t, ScanKeywords("nothing relevant here"))
}

func TestUnclearSymptomsStayInStage(t *testing.T) {
	a := newAgent(t, testutil.NewChatModel(""), Config{})
	sess := inStage(model.StageSymptomCollection)

	reply, err := a.ProcessMessage(context.Background(), sess, "hmm")
	require.NoError(t, err)
	assert.Equal(t, unclearSymptomsMessage, reply)
	assert.Equal(t, model.StageSymptomCollection, sess.Stage)
	assert.Equal(t, 1, sess.SymptomAttempts)
}

func TestSymptomAttemptLimitOffersGeneralPractitioner(t *testing.T) {
	a := newAgent(t, testutil.NewChatModel(""), Config{MaxSymptomAttempts: 2})
	sess := inStage(model.StageSymptomCollection)
	ctx := context.Background()

	first, err := a.ProcessMessage(ctx, sess, "hmm")
	require.NoError(t, err)
	assert.Equal(t, unclearSymptomsMessage, first)

	second, err := a.ProcessMessage(ctx, sess, "meh")
	require.NoError(t, err)
	assert.Equal(t, escalationMessage, second)
	assert.Zero(t, sess.SymptomAttempts)
	assert.Equal(t, model.StageSymptomCollection, sess.Stage)
}

func TestLeakedConditionsUseFallbackTable(t *testing.T) {
	stub := &stubQA{symptoms: []string{"headache"}, conditions: []string{"List of symptoms"}}
	a, err := NewAgent(stub, recommender.New(catalog.Default()), Config{}, nil)
	require.NoError(t, err)
	sess := inStage(model.StageSymptomCollection)

	reply, err := a.ProcessMessage(context.Background(), sess, "my head hurts")
	require.NoError(t, err)
	assert.Equal(t, []string{"Migraine", "Tension headache", "Sinusitis"}, sess.LastConditions)
	assert.Contains(t, reply, "- Migraine\n")
}

func TestLeakedFragmentsAreDiscarded(t *testing.T) {
	stub := &stubQA{symptoms: []string{"Symptoms: none"}, conditions: []string{"Flu"}}
	a, err := NewAgent(stub, recommender.New(catalog.Default()), Config{}, nil)
	require.NoError(t, err)
	sess := inStage(model.StageSymptomCollection)

	reply, err := a.ProcessMessage(context.Background(), sess, "ok")
	require.NoError(t, err)
	assert.Equal(t, unclearSymptomsMessage, reply)
}

func TestRecommendationFlow(t *testing.T) {
	a := newAgent(t, testutil.NewChatModel("unused"), Config{})
	sess := inStage(model.StageRecommendation)
	sess.LastConditions = []string{"Migraine", "Tension headache", "Sinusitis"}
	ctx := context.Background()

	first, err := a.ProcessMessage(ctx, sess, "yes please")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, recommendHeader))
	assert.Contains(t, first, "- Neurology:")
	assert.Contains(t, first, "- General Medicine:")
	assert.True(t, sess.AwaitingFollowUp)

	more, err := a.ProcessMessage(ctx, sess, "any other options?")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(more, moreHeader))
	assert.Contains(t, more, "- Pain Medicine:")
	assert.NotContains(t, more, "Neurology")

	// an affirmative reply already actioned goes back to symptom collection
	back, err := a.ProcessMessage(ctx, sess, "ok")
	require.NoError(t, err)
	assert.Equal(t, askOtherSymptomsMessage, back)
	assert.Equal(t, model.StageSymptomCollection, sess.Stage)
	assert.False(t, sess.AwaitingFollowUp)
}

func TestRecommendationWithEmptyCatalog(t *testing.T) {
	stub := &stubQA{}
	a, err := NewAgent(stub, recommender.New(catalog.New(nil)), Config{}, nil)
	require.NoError(t, err)
	sess := inStage(model.StageRecommendation)
	sess.LastConditions = []string{"Migraine"}
	ctx := context.Background()

	reply, err := a.ProcessMessage(ctx, sess, "sure")
	require.NoError(t, err)
	assert.Equal(t, generalPractitionerMessage, reply)

	reply, err = a.ProcessMessage(ctx, sess, "something different")
	require.NoError(t, err)
	assert.Equal(t, noMoreRecommendationsMessage, reply)
	assert.Zero(t, sess.Episode.Len())
}

func TestGeneralQA(t *testing.T) {
	chat := testutil.NewChatModel("A migraine is a recurrent headache.")
	a := newAgent(t, chat, Config{})
	sess := inStage(model.StageGeneralQA)

	reply, err := a.ProcessMessage(context.Background(), sess, "What is a migraine?")
	require.NoError(t, err)
	assert.Equal(t, "A migraine is a recurrent headache.", reply)
	assert.Contains(t, chat.LastPrompt(), "user: What is a migraine?")
	assert.Equal(t, model.StageGeneralQA, sess.Stage)
}

func TestGeneralQAServiceUnavailable(t *testing.T) {
	a := newAgent(t, &testutil.ChatModel{Err: errors.New("401")}, Config{})
	sess := inStage(model.StageGeneralQA)

	reply, err := a.ProcessMessage(context.Background(), sess, "What is a migraine?")
	require.NoError(t, err)
	assert.Equal(t, unavailableMessage, reply)
	assert.Len(t, sess.Transcript, 2)
}

func TestRouteRejectsUnknownStage(t *testing.T) {
	a := newAgent(t, testutil.NewChatModel("unused"), Config{})
	sess := inStage(model.Stage(42))

	_, err := a.Route(sess, "hello")
	assert.Error(t, err)
	_, err = a.Respond(context.Background(), Route("nope"), sess, "hello")
	assert.Error(t, err)
}
