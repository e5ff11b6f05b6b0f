package nodes

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sashabaranov/go-openai"

	"github.com/medical-triage/server/internal/agent/model"
)

// OpenAIChatModel adapts go-openai chat completions to the eino chat model
// interface. It reports its own callbacks so observers see every call.
type OpenAIChatModel struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

var _ einomodel.BaseChatModel = (*OpenAIChatModel)(nil)

func NewOpenAIChatModel(cfg model.LLMConfig) *OpenAIChatModel {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIChatModel{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (m *OpenAIChatModel) GetType() string { return "OpenAI" }

func (m *OpenAIChatModel) IsCallbacksEnabled() bool { return true }

func (m *OpenAIChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (out *schema.Message, err error) {
	options := einomodel.GetCommonOptions(&einomodel.Options{
		Model:       &m.model,
		MaxTokens:   &m.maxTokens,
		Temperature: &m.temperature,
	}, opts...)
	conf := &einomodel.Config{
		Model:       *options.Model,
		MaxTokens:   *options.MaxTokens,
		Temperature: *options.Temperature,
	}

	ctx = callbacks.EnsureRunInfo(ctx, m.GetType(), components.ComponentOfChatModel)
	ctx = callbacks.OnStart(ctx, &einomodel.CallbackInput{Messages: input, Config: conf})
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       conf.Model,
		Messages:    toOpenAIMessages(input),
		MaxTokens:   conf.MaxTokens,
		Temperature: conf.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai chat completion returned no choices")
	}

	choice := resp.Choices[0]
	out = schema.AssistantMessage(choice.Message.Content, nil)
	out.ResponseMeta = &schema.ResponseMeta{
		FinishReason: string(choice.FinishReason),
		Usage: &schema.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	callbacks.OnEnd(ctx, &einomodel.CallbackOutput{
		Message: out,
		Config:  conf,
		TokenUsage: &einomodel.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	})
	return out, nil
}

// Stream serves the full completion as a single chunk.
func (m *OpenAIChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	out, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{out}), nil
}

func toOpenAIMessages(in []*schema.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(in))
	for _, msg := range in {
		if msg == nil {
			continue
		}
		role := openai.ChatMessageRoleUser
		switch msg.Role {
		case schema.System:
			role = openai.ChatMessageRoleSystem
		case schema.Assistant:
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	return out
}
