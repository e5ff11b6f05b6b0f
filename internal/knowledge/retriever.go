package knowledge

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
)

// searcher is the part of Store the retriever needs.
type searcher interface {
	Search(ctx context.Context, vector []float64, k int) ([]*schema.Document, error)
}

// Retriever answers similarity queries: it embeds the query and asks the
// vector index for the nearest chunks.
type Retriever struct {
	store    searcher
	embedder embedding.Embedder
	topK     int
}

var _ retriever.Retriever = (*Retriever)(nil)

func NewRetriever(store searcher, embedder embedding.Embedder, topK int) (*Retriever, error) {
	if store == nil || embedder == nil {
		return nil, fmt.Errorf("retriever needs a store and an embedder")
	}
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{store: store, embedder: embedder, topK: topK}, nil
}

func (r *Retriever) GetType() string { return "RedisKnowledge" }

func (r *Retriever) IsCallbacksEnabled() bool { return true }

func (r *Retriever) Retrieve(ctx context.Context, query string, opts ...retriever.Option) (docs []*schema.Document, err error) {
	options := retriever.GetCommonOptions(&retriever.Options{TopK: &r.topK}, opts...)
	topK := r.topK
	if options.TopK != nil && *options.TopK > 0 {
		topK = *options.TopK
	}

	ctx = callbacks.EnsureRunInfo(ctx, r.GetType(), components.ComponentOfRetriever)
	ctx = callbacks.OnStart(ctx, &retriever.CallbackInput{
		Query:          query,
		TopK:           topK,
		ScoreThreshold: options.ScoreThreshold,
	})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	vectors, err := r.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected one query vector, got %d", len(vectors))
	}

	found, err := r.store.Search(ctx, vectors[0], topK)
	if err != nil {
		return nil, err
	}

	docs = found
	if options.ScoreThreshold != nil {
		docs = docs[:0:0]
		for _, d := range found {
			if d.Score() >= *options.ScoreThreshold {
				docs = append(docs, d)
			}
		}
	}

	callbacks.OnEnd(ctx, &retriever.CallbackOutput{Docs: docs})
	return docs, nil
}
