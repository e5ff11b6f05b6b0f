package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/medical-triage/server/pkg/logger"
)

// newRetrieverHandler logs similarity searches against the knowledge base.
func newRetrieverHandler() *callbackHelper.RetrieverCallbackHandler {
	return &callbackHelper.RetrieverCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *retriever.CallbackInput) context.Context {
			if input != nil {
				logx.Debug().Str("name", info.Name).Str("query", clip(input.Query)).Int("top_k", input.TopK).Msg("Retrieval start")
			}
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *retriever.CallbackOutput) context.Context {
			if output != nil {
				logx.Debug().Str("name", info.Name).Int("documents", len(output.Docs)).Msg("Retrieval end")
			}
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).Str("name", info.Name).Msg("Retrieval failed")
			return ctx
		},
	}
}

// newEmbeddingHandler logs embedding calls made by the retriever and ingest.
func newEmbeddingHandler() *callbackHelper.EmbeddingCallbackHandler {
	return &callbackHelper.EmbeddingCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *embedding.CallbackInput) context.Context {
			if input != nil {
				logx.Debug().Str("name", info.Name).Int("texts", len(input.Texts)).Msg("Embedding start")
			}
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *embedding.CallbackOutput) context.Context {
			if output != nil {
				logx.Debug().Str("name", info.Name).Int("vectors", len(output.Embeddings)).Msg("Embedding end")
			}
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().Err(err).Str("name", info.Name).Msg("Embedding failed")
			return ctx
		},
	}
}
