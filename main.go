package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/medical-triage/server/internal/agent/model"
	"github.com/medical-triage/server/internal/core"
	logx "github.com/medical-triage/server/pkg/logger"
	pkgredis "github.com/medical-triage/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the triage service,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// External services
	LLM       model.LLMConfig
	Embedding model.EmbeddingConfig
	Knowledge model.KnowledgeConfig

	// Agent configs
	Conversation model.ConversationConfig
	Catalog      model.CatalogConfig

	// Transport
	Server model.ServerConfig
}

func (c *AppConfig) Env() core.Environment {
	return core.ParseEnvironment(c.Environment)
}

// loadConfig reads .env (if present) and the environment, then initialises
// the logger for the configured environment.
func loadConfig(envFile string) (*AppConfig, error) {
	dotenvErr := godotenv.Load(envFile)

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	logx.Init(logx.LoggerOpts{Environment: cfg.Env()})
	if dotenvErr != nil {
		logx.Warn().Err(dotenvErr).Str("file", envFile).Msg("Could not load env file")
	}
	return &cfg, nil
}

func main() {
	Execute()
}
