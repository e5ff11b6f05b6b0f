package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/medical-triage/server/internal/agent/conversation"
	"github.com/medical-triage/server/internal/agent/graph/conversations"
	"github.com/medical-triage/server/internal/agent/graph/nodes"
	"github.com/medical-triage/server/internal/agent/graph/observers"
	"github.com/medical-triage/server/internal/agent/model"
	"github.com/medical-triage/server/internal/metrics"
	logx "github.com/medical-triage/server/pkg/logger"
)

// GraphConfig holds all configuration needed to build the turn graph.
type GraphConfig struct {
	Agent    *conversation.Agent
	Sessions *conversations.SessionManager
}

// GraphBuilder handles the construction of the turn graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

// BuildGraph constructs and returns the compiled turn graph:
// session_loader → branch(route) → handler → finalizer.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Agent == nil {
		return nil, fmt.Errorf("conversation agent is nil")
	}
	if config.Sessions == nil {
		return nil, fmt.Errorf("session manager is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
				return &model.TurnState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}
	return builder.compile(ctx)
}

// addNodes adds the loader, one handler per route and the finalizer.
func (b *GraphBuilder) addNodes() error {
	if err := b.graph.AddLambdaNode(nodes.NodeSessionLoader,
		nodes.NewSessionLoaderNode(b.config.Sessions),
		compose.WithStatePreHandler(nodes.NewSessionLoaderPreHandler()),
		compose.WithStatePostHandler(nodes.NewSessionLoaderPostHandler()),
	); err != nil {
		return fmt.Errorf("add session loader node: %w", err)
	}

	for _, route := range conversation.Routes {
		if err := b.graph.AddLambdaNode(nodes.HandlerNode(route),
			nodes.NewHandlerNode(b.config.Agent, route),
			compose.WithStatePreHandler(nodes.NewHandlerPreHandler(route)),
		); err != nil {
			return fmt.Errorf("add %s node: %w", route, err)
		}
	}

	if err := b.graph.AddLambdaNode(nodes.NodeFinalizer,
		nodes.NewFinalizerNode(b.config.Sessions),
	); err != nil {
		return fmt.Errorf("add finalizer node: %w", err)
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeSessionLoader},
		{nodes.NodeFinalizer, compose.END},
	}
	for _, route := range conversation.Routes {
		edges = append(edges, [2]string{nodes.HandlerNode(route), nodes.NodeFinalizer})
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("add edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches routes the loaded turn to its stage handler.
func (b *GraphBuilder) addBranches() error {
	routeBranch := compose.NewGraphBranch(
		nodes.NewRouteCondition(b.config.Agent),
		nodes.HandlerNodes(),
	)
	if err := b.graph.AddBranch(nodes.NodeSessionLoader, routeBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding route branch")
		return fmt.Errorf("error adding route branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(10))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

// Runner executes the compiled turn graph. Turns of the same session are
// serialized; different sessions run concurrently.
type Runner struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
	sessions *conversations.SessionManager
	metrics  *metrics.Metrics
	observe  bool
}

// Config holds everything needed to compose the runner end-to-end.
type Config struct {
	Agent   *conversation.Agent
	Repo    model.SessionRepository
	Metrics *metrics.Metrics
	// Observe attaches the logging callbacks to every turn.
	Observe bool
}

// NewRunner builds the turn graph and wraps it in a Runner.
func NewRunner(ctx context.Context, cfg Config) (*Runner, error) {
	if cfg.Repo == nil {
		return nil, fmt.Errorf("session repository is nil")
	}
	sm := conversations.NewSessionManager(cfg.Repo)

	runnable, err := BuildGraph(ctx, &GraphConfig{Agent: cfg.Agent, Sessions: sm})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Turn graph built successfully")
	return &Runner{runnable: runnable, sessions: sm, metrics: cfg.Metrics, observe: cfg.Observe}, nil
}

// StartSession creates a session and returns its ID with the welcome message.
// The welcome message is presentation only and is not added to the transcript.
func (r *Runner) StartSession(ctx context.Context) (string, string, error) {
	sess, err := r.sessions.Start(ctx)
	if err != nil {
		return "", "", err
	}
	return sess.ID, conversation.WelcomeMessage, nil
}

// ProcessMessage runs one turn for the session and returns the reply text.
func (r *Runner) ProcessMessage(ctx context.Context, sessionID, text string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("session id is empty")
	}

	var opts []compose.Option
	if r.observe {
		opts = append(opts, compose.WithCallbacks(observers.NewAllCallbacks()))
	}

	var out *schema.Message
	start := time.Now()
	err := r.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		out, err = r.runnable.Invoke(ctx, model.QueryInput{
			SessionID: sessionID,
			Message:   text,
		}, opts...)
		return err
	})
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("Turn failed")
		return "", err
	}
	if out == nil {
		return "", nil
	}

	route, _ := out.Extra["route"].(string)
	r.metrics.ObserveTurn(route, time.Since(start))
	ev := logx.Debug().Str("session_id", sessionID).Str("route", route).Dur("elapsed", time.Since(start))
	if cost, ok := out.Extra["usage_cost_total_usd"].(float64); ok {
		ev = ev.Float64("total_cost_usd", cost)
	}
	ev.Msg("Turn completed")
	return out.Content, nil
}

// EndSession discards the session state and transcript.
func (r *Runner) EndSession(ctx context.Context, sessionID string) error {
	return r.sessions.End(ctx, sessionID)
}
