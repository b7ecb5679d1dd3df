package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/concierge/internal/core"
	"github.com/sandevgo/concierge/pkg/log"
)

// AIConfig is the project-level default for tenants without stored AI
// settings.
type AIConfig struct {
	Provider       string  `env:"AI_PROVIDER" envDefault:"openai"`
	Model          string  `env:"AI_MODEL" envDefault:"gpt-4o-mini"`
	Temperature    float32 `env:"AI_TEMPERATURE" envDefault:"0.3"`
	MaxTokens      int     `env:"AI_MAX_TOKENS" envDefault:"1000"`
	SystemPrompt   string  `env:"AI_SYSTEM_PROMPT"`
	PurePromptMode bool    `env:"AI_PURE_PROMPT_MODE" envDefault:"false"`

	EmbeddingProvider string `env:"AI_EMBEDDING_PROVIDER" envDefault:"openai"`
	EmbeddingModel    string `env:"AI_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
}

func NewAIConfig(ctx context.Context) *AIConfig {
	c := &AIConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse ai config")
	}
	return c
}

func (c AIConfig) TenantDefaults() core.TenantAISettings {
	return core.TenantAISettings{
		Provider:          c.Provider,
		Model:             c.Model,
		Temperature:       c.Temperature,
		MaxTokens:         c.MaxTokens,
		SystemPrompt:      c.SystemPrompt,
		PurePromptMode:    c.PurePromptMode,
		EmbeddingProvider: c.EmbeddingProvider,
		EmbeddingModel:    c.EmbeddingModel,
	}
}
