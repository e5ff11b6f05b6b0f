package knowledge

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// GeminiEmbedder embeds text through the Gemini embedContent API.
type GeminiEmbedder struct {
	client    *genai.Client
	model     string
	dimension int
}

var _ embedding.Embedder = (*GeminiEmbedder)(nil)

func NewGeminiEmbedder(client *genai.Client, model string, dimension int) *GeminiEmbedder {
	return &GeminiEmbedder{client: client, model: model, dimension: dimension}
}

func (e *GeminiEmbedder) GetType() string { return "Gemini" }

func (e *GeminiEmbedder) IsCallbacksEnabled() bool { return true }

func (e *GeminiEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) (vectors [][]float64, err error) {
	options := embedding.GetCommonOptions(&embedding.Options{Model: &e.model}, opts...)
	conf := &embedding.Config{Model: *options.Model}

	ctx = callbacks.EnsureRunInfo(ctx, e.GetType(), components.ComponentOfEmbedding)
	ctx = callbacks.OnStart(ctx, &embedding.CallbackInput{Texts: texts, Config: conf})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
	}
	cfg := &genai.EmbedContentConfig{}
	if e.dimension > 0 {
		cfg.OutputDimensionality = genai.Ptr(int32(e.dimension))
	}

	resp, err := e.client.Models.EmbedContent(ctx, conf.Model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini embed content: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors = make([][]float64, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, errors.New("gemini returned an empty embedding")
		}
		vectors[i] = toFloat64(emb.Values)
	}

	callbacks.OnEnd(ctx, &embedding.CallbackOutput{Embeddings: vectors, Config: conf})
	return vectors, nil
}

// OpenAIEmbedder embeds text through the OpenAI embeddings endpoint.
type OpenAIEmbedder struct {
	client    *openai.Client
	model     string
	dimension int
}

var _ embedding.Embedder = (*OpenAIEmbedder)(nil)

func NewOpenAIEmbedder(apiKey, baseURL, model string, dimension int) *OpenAIEmbedder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIEmbedder{client: openai.NewClientWithConfig(cfg), model: model, dimension: dimension}
}

func (e *OpenAIEmbedder) GetType() string { return "OpenAI" }

func (e *OpenAIEmbedder) IsCallbacksEnabled() bool { return true }

func (e *OpenAIEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) (vectors [][]float64, err error) {
	options := embedding.GetCommonOptions(&embedding.Options{Model: &e.model}, opts...)
	conf := &embedding.Config{Model: *options.Model}

	ctx = callbacks.EnsureRunInfo(ctx, e.GetType(), components.ComponentOfEmbedding)
	ctx = callbacks.OnStart(ctx, &embedding.CallbackInput{Texts: texts, Config: conf})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	req := openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(conf.Model),
	}
	if e.dimension > 0 {
		req.Dimensions = e.dimension
	}
	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vectors = make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("openai returned embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = toFloat64(d.Embedding)
	}

	callbacks.OnEnd(ctx, &embedding.CallbackOutput{
		Embeddings: vectors,
		Config:     conf,
		TokenUsage: &embedding.TokenUsage{
			PromptTokens: resp.Usage.PromptTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	})
	return vectors, nil
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
