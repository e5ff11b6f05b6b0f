// Package testutil holds fakes for the external collaborators used in tests.
package testutil

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/embedding"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
)

// ChatModel is a scripted eino chat model. Replies are served in order; the
// last reply repeats once the script runs out. Reply, when set, overrides the
// script.
type ChatModel struct {
	mu      sync.Mutex
	Replies []string
	Reply   func(input []*schema.Message) (string, error)
	Err     error
	Usage   *schema.TokenUsage

	Calls [][]*schema.Message
}

var _ einomodel.BaseChatModel = (*ChatModel)(nil)

func NewChatModel(replies ...string) *ChatModel {
	return &ChatModel{Replies: replies}
}

func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, input)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}

	var content string
	switch {
	case m.Reply != nil:
		c, err := m.Reply(input)
		if err != nil {
			return nil, err
		}
		content = c
	case len(m.Replies) > 0:
		idx := len(m.Calls) - 1
		if idx >= len(m.Replies) {
			idx = len(m.Replies) - 1
		}
		content = m.Replies[idx]
	default:
		return nil, errors.New("no scripted reply")
	}

	out := schema.AssistantMessage(content, nil)
	if m.Usage != nil {
		out.ResponseMeta = &schema.ResponseMeta{Usage: m.Usage}
	}
	return out, nil
}

func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	out, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{out}), nil
}

// CallCount returns how many times Generate was invoked.
func (m *ChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// LastPrompt returns the content of the last message of the last call.
func (m *ChatModel) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return ""
	}
	call := m.Calls[len(m.Calls)-1]
	if len(call) == 0 || call[len(call)-1] == nil {
		return ""
	}
	return call[len(call)-1].Content
}

// Retriever returns fixed passages, honouring WithTopK.
type Retriever struct {
	Passages []string
	Err      error
	Queries  []string
}

var _ retriever.Retriever = (*Retriever)(nil)

func (r *Retriever) Retrieve(_ context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	r.Queries = append(r.Queries, query)
	if r.Err != nil {
		return nil, r.Err
	}
	topK := len(r.Passages)
	o := retriever.GetCommonOptions(&retriever.Options{TopK: &topK}, opts...)
	if o.TopK != nil && *o.TopK < topK {
		topK = *o.TopK
	}
	docs := make([]*schema.Document, 0, topK)
	for _, p := range r.Passages[:topK] {
		docs = append(docs, &schema.Document{Content: p})
	}
	return docs, nil
}

// Embedder maps each text to a deterministic two-dimensional vector:
// its length and the count of spaces.
type Embedder struct {
	Err   error
	Calls int
}

var _ embedding.Embedder = (*Embedder)(nil)

func (e *Embedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	e.Calls++
	if e.Err != nil {
		return nil, e.Err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = []float64{float64(len(t)), float64(strings.Count(t, " "))}
	}
	return out, nil
}
