package model

import "time"

// ================ Config ================
type ConversationConfig struct {
	TTL string `envconfig:"CONVERSATION_TTL" default:"30m"`
	// HistoryMaxTurns trims the transcript passed as chat history; 0 keeps it whole.
	HistoryMaxTurns int `envconfig:"CONVERSATION_HISTORY_MAX_TURNS" default:"0"`
	// MaxSymptomAttempts bounds consecutive unclear symptom descriptions
	// before the agent suggests a general practitioner; 0 disables the bound.
	MaxSymptomAttempts int  `envconfig:"CONVERSATION_MAX_SYMPTOM_ATTEMPTS" default:"0"`
	ModelConditions    bool `envconfig:"CONVERSATION_MODEL_CONDITIONS" default:"false"`
}

// SessionTTL parses TTL; an empty value means 30 minutes.
func (c ConversationConfig) SessionTTL() (time.Duration, error) {
	if c.TTL == "" {
		return 30 * time.Minute, nil
	}
	return time.ParseDuration(c.TTL)
}

type LLMConfig struct {
	Provider    string        `envconfig:"LLM_PROVIDER" default:"gemini"`
	APIKey      string        `envconfig:"LLM_API_KEY"`
	BaseURL     string        `envconfig:"LLM_BASE_URL"`
	Model       string        `envconfig:"LLM_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int           `envconfig:"LLM_MAX_TOKENS" default:"512"`
	Temperature float32       `envconfig:"LLM_TEMPERATURE" default:"0.2"`
	Timeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"20s"`
	MaxRetries  int           `envconfig:"LLM_MAX_RETRIES" default:"1"`
}

type EmbeddingConfig struct {
	Model     string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-004"`
	Dimension int    `envconfig:"EMBEDDING_DIM" default:"768"`
}

type KnowledgeConfig struct {
	Enabled      bool   `envconfig:"KNOWLEDGE_ENABLED" default:"false"`
	Index        string `envconfig:"KNOWLEDGE_INDEX" default:"medical_knowledge"`
	Prefix       string `envconfig:"KNOWLEDGE_PREFIX" default:"knowledge:"`
	Dir          string `envconfig:"KNOWLEDGE_DIR" default:"data/medical_knowledge"`
	TopK         int    `envconfig:"KNOWLEDGE_TOP_K" default:"3"`
	ChunkSize    int    `envconfig:"KNOWLEDGE_CHUNK_SIZE" default:"1000"`
	ChunkOverlap int    `envconfig:"KNOWLEDGE_CHUNK_OVERLAP" default:"200"`
}

type CatalogConfig struct {
	Path string `envconfig:"CATALOG_PATH" default:"data/specialists.json"`
}

type ServerConfig struct {
	Addr       string        `envconfig:"SERVER_ADDR" default:":8080"`
	ChunkSize  int           `envconfig:"SERVER_CHUNK_SIZE" default:"10"`
	ChunkDelay time.Duration `envconfig:"SERVER_CHUNK_DELAY" default:"30ms"`
}
