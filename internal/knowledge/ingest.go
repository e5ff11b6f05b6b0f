package knowledge

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/schema"

	logx "github.com/medical-triage/server/pkg/logger"
)

// embedBatchSize bounds texts per embedding request.
const embedBatchSize = 32

// Index is the write side of the vector store.
type Index interface {
	EnsureIndex(ctx context.Context) error
	Populated(ctx context.Context) (bool, error)
	AddDocuments(ctx context.Context, docs []*schema.Document, vectors [][]float64) error
	MarkPopulated(ctx context.Context, chunks int) error
}

// Ingester bootstraps the knowledge base from a directory of text files.
type Ingester struct {
	Loader      document.Loader
	Transformer document.Transformer
	Embedder    embedding.Embedder
	Index       Index
}

// Ingest loads, splits, embeds and stores the files under dir. It returns the
// number of chunks stored; an index already populated is left alone unless
// force is set.
func (in *Ingester) Ingest(ctx context.Context, dir string, force bool) (int, error) {
	if err := in.Index.EnsureIndex(ctx); err != nil {
		return 0, err
	}
	if !force {
		done, err := in.Index.Populated(ctx)
		if err != nil {
			return 0, err
		}
		if done {
			logx.Info().Str("dir", dir).Msg("Knowledge base already populated; skipping ingest")
			return 0, nil
		}
	}

	docs, err := in.Loader.Load(ctx, document.Source{URI: dir})
	if err != nil {
		return 0, fmt.Errorf("load knowledge files: %w", err)
	}
	chunks, err := in.Transformer.Transform(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("split knowledge files: %w", err)
	}
	logx.Info().Int("files", len(docs)).Int("chunks", len(chunks)).Msg("Knowledge files loaded")

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		vectors, err := in.Embedder.EmbedStrings(ctx, texts)
		if err != nil {
			return start, fmt.Errorf("embed chunks %d-%d: %w", start, end, err)
		}
		if err := in.Index.AddDocuments(ctx, batch, vectors); err != nil {
			return start, err
		}
		logx.Debug().Int("stored", end).Int("total", len(chunks)).Msg("Knowledge chunks stored")
	}

	if err := in.Index.MarkPopulated(ctx, len(chunks)); err != nil {
		return len(chunks), err
	}
	return len(chunks), nil
}
