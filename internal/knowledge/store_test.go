package knowledge

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/medical-triage/server/internal/core/error"
)

func newStore(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewStore(client, StoreConfig{Index: "medical_knowledge", Prefix: "knowledge:", Dimension: 2})
}

func TestEncodeVector(t *testing.T) {
	b := EncodeVector([]float64{1.5, -2})
	require.Len(t, b, 8)
	assert.Equal(t, float32(1.5), math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])))
	assert.Equal(t, float32(-2), math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])))
}

func TestStore_AddDocumentsAndMarker(t *testing.T) {
	mr, s := newStore(t)
	ctx := context.Background()

	done, err := s.Populated(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	docs := []*schema.Document{
		{ID: "flu.txt#0", Content: "Influenza is a viral infection.", MetaData: map[string]any{"source": "flu.txt"}},
	}
	require.NoError(t, s.AddDocuments(ctx, docs, [][]float64{{0.1, 0.2}}))
	assert.Equal(t, "Influenza is a viral infection.", mr.HGet("knowledge:doc:flu.txt#0", "content"))
	assert.Equal(t, "flu.txt", mr.HGet("knowledge:doc:flu.txt#0", "source"))
	assert.Equal(t, string(EncodeVector([]float64{0.1, 0.2})), mr.HGet("knowledge:doc:flu.txt#0", "embedding"))

	require.NoError(t, s.MarkPopulated(ctx, 1))
	done, err = s.Populated(ctx)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "1", mr.HGet("knowledge:meta", "chunks"))
}

func TestStore_AddDocumentsLengthMismatch(t *testing.T) {
	_, s := newStore(t)
	err := s.AddDocuments(context.Background(), []*schema.Document{{ID: "a"}}, nil)
	assert.Error(t, err)
}

func TestStore_EnsureIndexWithoutSearchModule(t *testing.T) {
	_, s := newStore(t)
	err := s.EnsureIndex(context.Background())
	require.Error(t, err)
	assert.Equal(t, 502, errx.StatusOf(err))
}

func TestParseSearchReply_RESP2(t *testing.T) {
	reply := []any{
		int64(2),
		"knowledge:doc:flu.txt#0",
		[]any{"content", "Influenza spreads through droplets.", "source", "flu.txt", "score", "0.25"},
		"knowledge:doc:migraine.txt#1",
		[]any{"content", "Migraine is a recurrent headache.", "score", "0.5"},
	}
	docs, err := parseSearchReply(reply)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "knowledge:doc:flu.txt#0", docs[0].ID)
	assert.Equal(t, "Influenza spreads through droplets.", docs[0].Content)
	assert.Equal(t, "flu.txt", docs[0].MetaData["source"])
	assert.InDelta(t, 0.75, docs[0].Score(), 1e-9)
	assert.InDelta(t, 0.5, docs[1].Score(), 1e-9)
}

func TestParseSearchReply_RESP3(t *testing.T) {
	reply := map[any]any{
		"total_results": int64(1),
		"results": []any{
			map[any]any{
				"id": "knowledge:doc:flu.txt#0",
				"extra_attributes": map[any]any{
					"content": "Influenza spreads through droplets.",
					"score":   "0.1",
				},
				"values": []any{},
			},
		},
	}
	docs, err := parseSearchReply(reply)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Influenza spreads through droplets.", docs[0].Content)
	assert.InDelta(t, 0.9, docs[0].Score(), 1e-9)
}

func TestParseSearchReply_Unexpected(t *testing.T) {
	_, err := parseSearchReply("OK")
	assert.Error(t, err)
	_, err = parseSearchReply([]any{})
	assert.Error(t, err)
}
