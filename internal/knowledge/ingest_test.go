package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medical-triage/server/internal/testutil"
)

type memoryIndex struct {
	ensured   int
	populated bool
	docs      []*schema.Document
	vectors   [][]float64
}

func (m *memoryIndex) EnsureIndex(context.Context) error { m.ensured++; return nil }

func (m *memoryIndex) Populated(context.Context) (bool, error) { return m.populated, nil }

func (m *memoryIndex) AddDocuments(_ context.Context, docs []*schema.Document, vectors [][]float64) error {
	m.docs = append(m.docs, docs...)
	m.vectors = append(m.vectors, vectors...)
	return nil
}

func (m *memoryIndex) MarkPopulated(context.Context, int) error { m.populated = true; return nil }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func knowledgeDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "flu.txt"), "Influenza is a viral infection.\n\nRest and fluids help.")
	writeFile(t, filepath.Join(dir, "neuro", "migraine.txt"), "Migraine is a recurrent headache.")
	writeFile(t, filepath.Join(dir, "notes.md"), "ignored")
	return dir
}

func TestDirLoader(t *testing.T) {
	docs, err := DirLoader{}.Load(context.Background(), document.Source{URI: knowledgeDir(t)})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "flu.txt", docs[0].ID)
	assert.Equal(t, "neuro/migraine.txt", docs[1].ID)
	assert.Equal(t, "neuro/migraine.txt", docs[1].MetaData["source"])
}

func TestDirLoader_MissingDir(t *testing.T) {
	_, err := DirLoader{}.Load(context.Background(), document.Source{URI: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestIngester(t *testing.T) {
	ctx := context.Background()
	dir := knowledgeDir(t)
	splitter, err := NewSplitter(40, 0)
	require.NoError(t, err)
	idx := &memoryIndex{}
	emb := &testutil.Embedder{}
	in := &Ingester{Loader: DirLoader{}, Transformer: splitter, Embedder: emb, Index: idx}

	n, err := in.Ingest(ctx, dir, false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, idx.docs, 3)
	assert.Len(t, idx.vectors, 3)
	assert.True(t, idx.populated)
	assert.Equal(t, "flu.txt#0", idx.docs[0].ID)

	// already populated: skipped
	n, err = in.Ingest(ctx, dir, false)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, emb.Calls)

	n, err = in.Ingest(ctx, dir, true)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, idx.ensured)
}
