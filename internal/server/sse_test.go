package server

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText(t *testing.T) {
	assert.Nil(t, ChunkText("", 10))
	assert.Equal(t, []string{"short"}, ChunkText("short", 10))
	assert.Equal(t, []string{"0123456789", "ab"}, ChunkText("0123456789ab", 10))
	assert.Equal(t, []string{"whole text"}, ChunkText("whole text", 0))
	// runes, not bytes
	assert.Equal(t, []string{"ñañ", "a"}, ChunkText("ñaña", 3))
}

func TestStream_MultiLineChunk(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, Stream(context.Background(), rec, []string{"- Neurology\n- Pain"}, 0))
	assert.Equal(t, "data: - Neurology\ndata: - Pain\n\ndata: [DONE]\n\n", rec.Body.String())
}

func TestStream_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	err := Stream(ctx, rec, []string{"a", "b"}, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "data: a\n\n", rec.Body.String())
}
