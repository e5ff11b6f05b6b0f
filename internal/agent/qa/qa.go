package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/medical-triage/server/internal/agent/catalog"
	"github.com/medical-triage/server/internal/agent/graph/parsers"
	"github.com/medical-triage/server/internal/agent/graph/prompts"
	"github.com/medical-triage/server/internal/agent/model"
	errx "github.com/medical-triage/server/internal/core/error"
	"github.com/medical-triage/server/internal/metrics"
	logx "github.com/medical-triage/server/pkg/logger"
)

const (
	maxConditions  = 3
	defaultTopK    = 3
	defaultTimeout = 20 * time.Second
	retryBackoff   = 250 * time.Millisecond
)

// Config tunes calls to the completion and similarity-search services.
type Config struct {
	ModelName  string
	Timeout    time.Duration
	MaxRetries int
	TopK       int
	// HistoryMaxTurns trims the chat history passed to Answer; 0 keeps all.
	HistoryMaxTurns int
	// ModelConditions lets the completion service name conditions when the
	// static table has no match.
	ModelConditions bool
}

// Service wraps the completion and similarity-search collaborators.
type Service struct {
	chat      einomodel.BaseChatModel
	retriever retriever.Retriever
	cfg       Config
	metrics   *metrics.Metrics
	symptoms  []catalog.Entry
}

// New builds the service. ret may be nil when no knowledge base is configured.
func New(chat einomodel.BaseChatModel, ret retriever.Retriever, cfg Config, m *metrics.Metrics) (*Service, error) {
	if chat == nil {
		return nil, errors.New("chat model is nil")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	return &Service{
		chat:      chat,
		retriever: ret,
		cfg:       cfg,
		metrics:   m,
		symptoms:  catalog.SymptomConditions,
	}, nil
}

// ExtractSymptoms asks the completion service for the symptoms mentioned in
// message and returns the sanitized phrases.
func (s *Service) ExtractSymptoms(ctx context.Context, message string) ([]string, error) {
	msgs, err := prompts.RenderSymptomExtraction(ctx, message)
	if err != nil {
		return nil, err
	}
	out, err := s.generate(ctx, "symptom_extraction", msgs)
	if err != nil {
		return nil, err
	}
	symptoms, err := parsers.ParseSymptomList(out.Content)
	if err != nil {
		return nil, err
	}
	logx.Debug().Strs("symptoms", symptoms).Msg("Symptoms extracted")
	return symptoms, nil
}

// MatchConditions maps symptoms to at most three candidate conditions and
// records them as the session's last conditions. The static table is tried
// first; the result is never empty.
func (s *Service) MatchConditions(ctx context.Context, sess *model.Session, symptoms []string) []string {
	conditions := s.matchStatic(symptoms)

	if len(conditions) == 0 && s.cfg.ModelConditions {
		analysed, err := s.analyseConditions(ctx, symptoms)
		if err != nil {
			logx.Warn().Err(err).Str("session_id", sess.ID).Msg("Condition analysis failed, using defaults")
		}
		conditions = analysed
	}
	if len(conditions) == 0 {
		conditions = append([]string(nil), catalog.DefaultConditions...)
	}

	sess.LastConditions = conditions
	return conditions
}

func (s *Service) matchStatic(symptoms []string) []string {
	var matched []string
	seen := map[string]struct{}{}
	for _, symptom := range symptoms {
		sym := strings.ToLower(strings.TrimSpace(symptom))
		if sym == "" {
			continue
		}
		for _, e := range s.symptoms {
			if !strings.Contains(sym, e.Key) && !strings.Contains(e.Key, sym) {
				continue
			}
			for _, c := range e.Values {
				if _, dup := seen[c]; dup {
					continue
				}
				seen[c] = struct{}{}
				matched = append(matched, c)
			}
		}
	}
	if len(matched) > maxConditions {
		matched = matched[:maxConditions]
	}
	return matched
}

func (s *Service) analyseConditions(ctx context.Context, symptoms []string) ([]string, error) {
	medicalContext, _ := s.retrieve(ctx, strings.Join(symptoms, ", "))
	msgs, err := prompts.RenderConditionAnalysis(ctx, symptoms, medicalContext)
	if err != nil {
		return nil, err
	}
	out, err := s.generate(ctx, "condition_analysis", msgs)
	if err != nil {
		return nil, err
	}
	return parsers.ParseConditionLines(out.Content)
}

// Answer responds to an open question using retrieved passages and the
// transcript. A failed retrieval degrades to an answer without context; a
// failed completion is returned as a 503 errx.Error.
func (s *Service) Answer(ctx context.Context, question string, transcript []*schema.Message) (string, error) {
	medicalContext, _ := s.retrieve(ctx, question)
	history := FormatHistory(transcript, s.cfg.HistoryMaxTurns)

	msgs, err := prompts.RenderMedicalAnswer(ctx, question, medicalContext, history)
	if err != nil {
		return "", err
	}
	out, err := s.generate(ctx, "medical_answer", msgs)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Content), nil
}

// retrieve joins the top-k passages for query. Errors are logged, counted and
// returned alongside an empty context.
func (s *Service) retrieve(ctx context.Context, query string) (string, error) {
	if s.retriever == nil {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	docs, err := s.retriever.Retrieve(ctx, query, retriever.WithTopK(s.cfg.TopK))
	if err != nil {
		s.metrics.ExternalError("retriever")
		logx.Warn().Err(err).Msg("Similarity search failed, answering without context")
		return "", errx.WrapRetriever(err)
	}
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if d != nil && strings.TrimSpace(d.Content) != "" {
			parts = append(parts, d.Content)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// generate calls the completion service with a per-attempt timeout, retrying
// up to MaxRetries times.
func (s *Service) generate(ctx context.Context, task string, msgs []*schema.Message) (*schema.Message, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, errx.WrapLLM(ctx.Err())
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
		out, err := s.chat.Generate(callCtx, msgs)
		cancel()
		if err == nil && out != nil {
			s.recordUsage(ctx, task, out)
			return out, nil
		}
		if err == nil {
			err = errors.New("empty completion")
		}
		lastErr = err
		logx.Warn().Err(err).Str("task", task).Int("attempt", attempt+1).Msg("Completion call failed")
		if ctx.Err() != nil {
			break
		}
	}
	s.metrics.ExternalError("llm")
	return nil, errx.WrapLLM(fmt.Errorf("%s: %w", task, lastErr))
}

// recordUsage logs token cost and adds it to the turn total when running
// inside the turn graph.
func (s *Service) recordUsage(ctx context.Context, task string, out *schema.Message) {
	usage := model.UsageOf(out)
	if usage == nil {
		return
	}
	inC, outC, totalC := model.ComputeCost(usage, model.ResolvePricing(s.cfg.ModelName))
	logx.Debug().
		Str("task", task).
		Str("model", s.cfg.ModelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")

	_ = compose.ProcessState(ctx, func(_ context.Context, st *model.TurnState) error {
		st.TotalCostUSD += totalC
		return nil
	})
}

// FormatHistory renders the transcript as "role: content" lines, keeping the
// last maxTurns user turns when maxTurns > 0.
func FormatHistory(transcript []*schema.Message, maxTurns int) string {
	start := 0
	if maxTurns > 0 {
		users := 0
		for i := len(transcript) - 1; i >= 0; i-- {
			if transcript[i] != nil && transcript[i].Role == schema.User {
				users++
				if users == maxTurns {
					start = i
					break
				}
			}
		}
	}

	var b strings.Builder
	for _, m := range transcript[start:] {
		if m == nil {
			continue
		}
		b.WriteString(string(m.Role))
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
