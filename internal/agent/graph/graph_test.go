package graph

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medical-triage/server/internal/agent/catalog"
	"github.com/medical-triage/server/internal/agent/conversation"
	"github.com/medical-triage/server/internal/agent/model"
	"github.com/medical-triage/server/internal/agent/qa"
	"github.com/medical-triage/server/internal/agent/recommender"
	"github.com/medical-triage/server/internal/agent/repo"
	errx "github.com/medical-triage/server/internal/core/error"
	"github.com/medical-triage/server/internal/metrics"
	fakes "github.com/medical-triage/server/internal/testutil"
)

func newRunner(t *testing.T, chat *fakes.ChatModel) (*Runner, *repo.MemorySessionRepository, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	svc, err := qa.New(chat, &fakes.Retriever{}, qa.Config{Timeout: time.Second, TopK: 3}, m)
	require.NoError(t, err)
	agent, err := conversation.NewAgent(svc, recommender.New(catalog.Default()), conversation.Config{}, m)
	require.NoError(t, err)

	store := repo.NewMemorySessionRepository()
	r, err := NewRunner(context.Background(), Config{Agent: agent, Repo: store, Metrics: m, Observe: true})
	require.NoError(t, err)
	return r, store, m
}

func TestRunner_FullConversation(t *testing.T) {
	ctx := context.Background()
	r, store, m := newRunner(t, fakes.NewChatModel("headache, fever"))

	id, welcome, err := r.StartSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, conversation.WelcomeMessage, welcome)

	reply, err := r.ProcessMessage(ctx, id, "hello")
	require.NoError(t, err)
	assert.Contains(t, reply, "Could you describe how you")

	reply, err = r.ProcessMessage(ctx, id, "I have a headache and fever")
	require.NoError(t, err)
	assert.Contains(t, reply, "Would you like me to recommend specialists")

	reply, err = r.ProcessMessage(ctx, id, "yes please")
	require.NoError(t, err)
	assert.Contains(t, reply, "- ")

	sess, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StageRecommendation, sess.Stage)
	assert.True(t, sess.AwaitingFollowUp)
	assert.Len(t, sess.Transcript, 6)
	assert.NotEmpty(t, sess.Episode.Suggested)

	reply, err = r.ProcessMessage(ctx, id, "thank you")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)

	sess, err = store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StageGreeting, sess.Stage)
	assert.Empty(t, sess.Episode.Suggested)
	assert.Len(t, sess.Transcript, 8)

	expected := `
# HELP triage_farewells_total Turns closed by a farewell
# TYPE triage_farewells_total counter
triage_farewells_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "triage_farewells_total"))
	routes, err := testutil.GatherAndCount(m.Registry(), "triage_turn_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 4, routes)
}

func TestRunner_UnknownSessionStartsFresh(t *testing.T) {
	ctx := context.Background()
	r, store, _ := newRunner(t, fakes.NewChatModel("cough"))

	reply, err := r.ProcessMessage(ctx, "never-started", "hi")
	require.NoError(t, err)
	assert.Contains(t, reply, "Could you describe how you")

	sess, err := store.Load(ctx, "never-started")
	require.NoError(t, err)
	assert.Equal(t, model.StageSymptomCollection, sess.Stage)
}

func TestRunner_EndSession(t *testing.T) {
	ctx := context.Background()
	r, store, _ := newRunner(t, fakes.NewChatModel("cough"))

	id, _, err := r.StartSession(ctx)
	require.NoError(t, err)
	require.NoError(t, r.EndSession(ctx, id))

	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, errx.ErrSessionNotFound)
}

func TestRunner_EmptySessionID(t *testing.T) {
	r, _, _ := newRunner(t, fakes.NewChatModel("cough"))
	_, err := r.ProcessMessage(context.Background(), "", "hi")
	assert.Error(t, err)
}

func TestRunner_SerializesTurnsOfOneSession(t *testing.T) {
	ctx := context.Background()
	r, store, _ := newRunner(t, fakes.NewChatModel("cough"))

	id, _, err := r.StartSession(ctx)
	require.NoError(t, err)

	const turns = 12
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.ProcessMessage(ctx, id, "I keep coughing at night")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	sess, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, sess.Transcript, 2*turns)
	assert.Zero(t, r.sessions.ActiveLocks())
}

func TestRunner_CorruptedStageGoesToGeneralQA(t *testing.T) {
	ctx := context.Background()
	chat := fakes.NewChatModel("Drink fluids and rest.")
	r, store, _ := newRunner(t, chat)

	sess := model.NewSession("qa")
	sess.Stage = model.StageGeneralQA
	require.NoError(t, store.Save(ctx, sess))

	reply, err := r.ProcessMessage(ctx, "qa", "What helps with a cold?")
	require.NoError(t, err)
	assert.Equal(t, "Drink fluids and rest.", reply)
}
