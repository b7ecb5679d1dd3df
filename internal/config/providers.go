package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/concierge/pkg/log"
)

// ProvidersConfig carries project-level provider credentials. Embeddings
// always use project keys; generation keys may be overridden per tenant by an
// external admin collaborator.
type ProvidersConfig struct {
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	DeepSeekAPIKey   string `env:"DEEPSEEK_API_KEY"`
	ProxyAPIKey      string `env:"PROXYAPI_API_KEY"`

	YandexAPIKey   string `env:"YANDEX_API_KEY"`
	YandexFolderID string `env:"YANDEX_FOLDER_ID"`

	// EmbeddingFallback is the ordered provider list tried after the tenant's
	// primary embedding provider fails.
	EmbeddingFallback []string `env:"EMBEDDING_FALLBACK_PROVIDERS" envSeparator:"," envDefault:"openai"`

	RequestTimeout time.Duration `env:"PROVIDER_REQUEST_TIMEOUT" envDefault:"60s"`
}

func NewProvidersConfig(ctx context.Context) *ProvidersConfig {
	c := &ProvidersConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse providers config")
	}
	return c
}
