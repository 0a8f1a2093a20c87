package main

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/upl-merch/assistant/internal/agent/model"
	"github.com/upl-merch/assistant/internal/core"
	"github.com/upl-merch/assistant/internal/store"
	logx "github.com/upl-merch/assistant/pkg/logger"
	pkgredis "github.com/upl-merch/assistant/pkg/redis"
)

// AppConfig defines all configurable parameters of the assistant, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config
	Store store.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Model        model.ModelConfig
	Conversation model.ConversationConfig

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
}

func (c *AppConfig) Env() core.Environment {
	return core.ParseEnvironment(c.Environment)
}

// ConversationTTL parses CONVERSATION_TTL.
func (c *AppConfig) ConversationTTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(c.Conversation.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid CONVERSATION_TTL %q: %w", c.Conversation.TTL, err)
	}
	return ttl, nil
}

var cfg AppConfig

func loadConfig() error {
	// A missing .env is fine; the environment may already be set.
	envErr := godotenv.Load(".env")

	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("process environment config: %w", err)
	}

	logx.Init(logx.LoggerOpts{Environment: cfg.Env()})
	if envErr != nil {
		logx.Debug().Err(envErr).Msg("No .env file loaded")
	}
	return nil
}
