package main

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/redis/go-redis/v9"

	"github.com/medical-triage/server/internal/agent/catalog"
	"github.com/medical-triage/server/internal/agent/conversation"
	"github.com/medical-triage/server/internal/agent/graph"
	"github.com/medical-triage/server/internal/agent/graph/nodes"
	"github.com/medical-triage/server/internal/agent/model"
	"github.com/medical-triage/server/internal/agent/qa"
	"github.com/medical-triage/server/internal/agent/recommender"
	"github.com/medical-triage/server/internal/knowledge"
	"github.com/medical-triage/server/internal/metrics"
	logx "github.com/medical-triage/server/pkg/logger"
)

// newEmbedder picks the embedding provider matching the completion provider.
func newEmbedder(ctx context.Context, cfg *AppConfig) (embedding.Embedder, error) {
	switch cfg.LLM.Provider {
	case nodes.ProviderGemini:
		client, err := nodes.NewGenAIClient(ctx, cfg.LLM.APIKey, cfg.LLM.BaseURL)
		if err != nil {
			return nil, err
		}
		return knowledge.NewGeminiEmbedder(client, cfg.Embedding.Model, cfg.Embedding.Dimension), nil
	case nodes.ProviderOpenAI:
		return knowledge.NewOpenAIEmbedder(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.Embedding.Model, cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("provider %q has no embedding support", cfg.LLM.Provider)
	}
}

func newStore(rdb redis.UniversalClient, cfg *AppConfig) *knowledge.Store {
	return knowledge.NewStore(rdb, knowledge.StoreConfig{
		Index:     cfg.Knowledge.Index,
		Prefix:    cfg.Knowledge.Prefix,
		Dimension: cfg.Embedding.Dimension,
	})
}

// newRetriever returns the knowledge retriever, or nil when the knowledge
// base is disabled or unreachable; answers then go out without context.
func newRetriever(ctx context.Context, cfg *AppConfig, rdb redis.UniversalClient) retriever.Retriever {
	if !cfg.Knowledge.Enabled {
		return nil
	}
	if rdb == nil {
		logx.Warn().Msg("Knowledge base enabled but Redis is unavailable; answering without context")
		return nil
	}
	emb, err := newEmbedder(ctx, cfg)
	if err != nil {
		logx.Warn().Err(err).Msg("Knowledge base disabled")
		return nil
	}
	r, err := knowledge.NewRetriever(newStore(rdb, cfg), emb, cfg.Knowledge.TopK)
	if err != nil {
		logx.Warn().Err(err).Msg("Knowledge base disabled")
		return nil
	}
	return r
}

// newRunner wires reference data, collaborators, the stage machine and the
// turn graph over store.
func newRunner(ctx context.Context, cfg *AppConfig, store model.SessionRepository, rdb redis.UniversalClient, m *metrics.Metrics) (*graph.Runner, error) {
	cat := catalog.Load(cfg.Catalog.Path)
	logx.Debug().Int("specialties", cat.Len()).Msg("Specialist catalog ready")

	chat, err := nodes.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	svc, err := qa.New(chat, newRetriever(ctx, cfg, rdb), qa.Config{
		ModelName:       cfg.LLM.Model,
		Timeout:         cfg.LLM.Timeout,
		MaxRetries:      cfg.LLM.MaxRetries,
		TopK:            cfg.Knowledge.TopK,
		HistoryMaxTurns: cfg.Conversation.HistoryMaxTurns,
		ModelConditions: cfg.Conversation.ModelConditions,
	}, m)
	if err != nil {
		return nil, err
	}

	agent, err := conversation.NewAgent(svc, recommender.New(cat), conversation.Config{
		MaxSymptomAttempts: cfg.Conversation.MaxSymptomAttempts,
	}, m)
	if err != nil {
		return nil, err
	}

	return graph.NewRunner(ctx, graph.Config{
		Agent:   agent,
		Repo:    store,
		Metrics: m,
		Observe: cfg.Env().Verbose(),
	})
}
