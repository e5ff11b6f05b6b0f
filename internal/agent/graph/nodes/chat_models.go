package nodes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/medical-triage/server/internal/agent/model"
	logx "github.com/medical-triage/server/pkg/logger"
)

const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderOffline = "offline"
)

// ErrModelNotConfigured is returned by the offline provider on every call.
var ErrModelNotConfigured = errors.New("language model is not configured")

// NewChatModel creates the completion model for the configured provider.
func NewChatModel(ctx context.Context, cfg model.LLMConfig) (einomodel.BaseChatModel, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderGemini:
		return newGeminiChatModel(ctx, cfg)
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires LLM_API_KEY")
		}
		return NewOpenAIChatModel(cfg), nil
	case ProviderOffline, "":
		logx.Warn().Msg("No language model configured; model-backed answers are disabled")
		return offlineChatModel{}, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

// NewGenAIClient creates the Gemini API client shared by chat and embeddings.
func NewGenAIClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}
	return client, nil
}

func newGeminiChatModel(ctx context.Context, cfg model.LLMConfig) (*gemini.ChatModel, error) {
	client, err := NewGenAIClient(ctx, cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	temperature, maxTokens := cfg.Temperature, cfg.MaxTokens
	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
		// replies are parsed as plain text, thoughts would leak into them
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(0)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Str("model", cfg.Model).Msg("Error creating Gemini chat model")
		return nil, fmt.Errorf("error creating Gemini chat model: %w", err)
	}
	return cm, nil
}

// offlineChatModel fails every call so callers take their canned fallbacks.
type offlineChatModel struct{}

func (offlineChatModel) Generate(context.Context, []*schema.Message, ...einomodel.Option) (*schema.Message, error) {
	return nil, ErrModelNotConfigured
}

func (offlineChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, ErrModelNotConfigured
}
