package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/medical-triage/server/internal/agent/conversation"
	"github.com/medical-triage/server/internal/agent/graph/conversations"
	"github.com/medical-triage/server/internal/agent/model"
	logx "github.com/medical-triage/server/pkg/logger"
)

const (
	NodeSessionLoader = "session_loader"
	NodeFinalizer     = "finalizer"
)

// HandlerNode returns the node key that answers route.
func HandlerNode(route conversation.Route) string {
	return "handle_" + string(route)
}

// NewSessionLoaderPreHandler resets the per-turn state.
func NewSessionLoaderPreHandler() func(context.Context, model.QueryInput, *model.TurnState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.TurnState) (model.QueryInput, error) {
		s.SessionID = in.SessionID
		s.Session = nil
		s.Route = ""
		s.TotalCostUSD = 0
		in.Message = normalizeMessage(in.Message)
		return in, nil
	}
}

// NewSessionLoaderNode loads (or starts) the session and appends the user entry.
func NewSessionLoaderNode(sm *conversations.SessionManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.QueryInput) (model.Turn, error) {
		sess, err := sm.LoadOrCreate(ctx, in.SessionID)
		if err != nil {
			return model.Turn{}, err
		}
		sess.AddUser(in.Message)
		return model.Turn{Session: sess, Message: in.Message}, nil
	})
}

// NewSessionLoaderPostHandler keeps the session in state for the finalizer.
func NewSessionLoaderPostHandler() func(context.Context, model.Turn, *model.TurnState) (model.Turn, error) {
	return func(ctx context.Context, out model.Turn, s *model.TurnState) (model.Turn, error) {
		s.Session = out.Session
		return out, nil
	}
}

// NewRouteCondition picks the handler node for the turn. Farewell wins over
// every stage.
func NewRouteCondition(agent *conversation.Agent) func(context.Context, model.Turn) (string, error) {
	return func(ctx context.Context, t model.Turn) (string, error) {
		route, err := agent.Route(t.Session, t.Message)
		if err != nil {
			logx.Error().Err(err).Str("session_id", t.Session.ID).Msg("Cannot route turn")
			return "", err
		}
		logx.Debug().
			Str("session_id", t.Session.ID).
			Str("stage", t.Session.Stage.String()).
			Str("route", string(route)).
			Msg("Routing turn")
		return HandlerNode(route), nil
	}
}

// HandlerNodes returns the branch end nodes, one per route.
func HandlerNodes() map[string]bool {
	ends := make(map[string]bool, len(conversation.Routes))
	for _, r := range conversation.Routes {
		ends[HandlerNode(r)] = true
	}
	return ends
}

// NewHandlerPreHandler records the chosen route in state.
func NewHandlerPreHandler(route conversation.Route) func(context.Context, model.Turn, *model.TurnState) (model.Turn, error) {
	return func(ctx context.Context, t model.Turn, s *model.TurnState) (model.Turn, error) {
		s.Route = string(route)
		return t, nil
	}
}

// NewHandlerNode answers the turn through the agent handler of route.
func NewHandlerNode(agent *conversation.Agent, route conversation.Route) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, t model.Turn) (string, error) {
		return agent.Respond(ctx, route, t.Session, t.Message)
	})
}

// NewFinalizerNode appends the assistant entry and persists the session.
func NewFinalizerNode(sm *conversations.SessionManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, reply string) (*schema.Message, error) {
		var (
			sess  *model.Session
			route string
			cost  float64
		)
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			if s.Session == nil {
				return fmt.Errorf("missing session in state")
			}
			sess, route, cost = s.Session, s.Route, s.TotalCostUSD
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		sess.AddAssistant(reply)
		if err := sm.Save(ctx, sess); err != nil {
			logx.Error().Err(err).Str("session_id", sess.ID).Msg("Failed to save session")
			return nil, err
		}

		out := schema.AssistantMessage(reply, nil)
		out.Extra = map[string]any{
			"route": route,
			"stage": sess.Stage.String(),
		}
		if cost > 0 {
			out.Extra["usage_cost_total_usd"] = cost
		}
		return out, nil
	})
}
