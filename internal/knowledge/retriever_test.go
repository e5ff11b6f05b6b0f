package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medical-triage/server/internal/testutil"
)

type fakeSearcher struct {
	docs   []*schema.Document
	err    error
	vector []float64
	k      int
}

func (f *fakeSearcher) Search(_ context.Context, vector []float64, k int) ([]*schema.Document, error) {
	f.vector, f.k = vector, k
	return f.docs, f.err
}

func scored(content string, score float64) *schema.Document {
	return (&schema.Document{Content: content}).WithScore(score)
}

func TestRetriever_EmbedsQueryAndSearches(t *testing.T) {
	store := &fakeSearcher{docs: []*schema.Document{scored("Flu passage", 0.9)}}
	r, err := NewRetriever(store, &testutil.Embedder{}, 3)
	require.NoError(t, err)

	docs, err := r.Retrieve(context.Background(), "what is flu")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, []float64{11, 2}, store.vector)
	assert.Equal(t, 3, store.k)
}

func TestRetriever_Options(t *testing.T) {
	store := &fakeSearcher{docs: []*schema.Document{scored("close", 0.8), scored("far", 0.2)}}
	r, err := NewRetriever(store, &testutil.Embedder{}, 3)
	require.NoError(t, err)

	docs, err := r.Retrieve(context.Background(), "q", retriever.WithTopK(5), retriever.WithScoreThreshold(0.5))
	require.NoError(t, err)
	assert.Equal(t, 5, store.k)
	require.Len(t, docs, 1)
	assert.Equal(t, "close", docs[0].Content)
}

func TestRetriever_Errors(t *testing.T) {
	_, err := NewRetriever(nil, &testutil.Embedder{}, 3)
	assert.Error(t, err)

	r, err := NewRetriever(&fakeSearcher{}, &testutil.Embedder{Err: errors.New("quota")}, 3)
	require.NoError(t, err)
	_, err = r.Retrieve(context.Background(), "q")
	assert.ErrorContains(t, err, "quota")

	r, err = NewRetriever(&fakeSearcher{err: errors.New("down")}, &testutil.Embedder{}, 3)
	require.NoError(t, err)
	_, err = r.Retrieve(context.Background(), "q")
	assert.ErrorContains(t, err, "down")
}
