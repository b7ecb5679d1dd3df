// Package ai implements the embedding and generation providers the pipeline
// can be configured with.
package ai

import (
	"context"
	"fmt"

	"github.com/sandevgo/concierge/internal/config"
	"github.com/sandevgo/concierge/internal/core"
	"github.com/sandevgo/concierge/pkg/log"
)

// NewGenerator creates the generation provider named by tenant or project
// configuration.
func NewGenerator(ctx context.Context, cfg *config.ProvidersConfig, provider, model string) (core.Generator, error) {
	log.FromCtx(ctx).Info().
		Str("provider", provider).
		Str("model", model).
		Msg("starting generation provider")

	switch provider {
	case "openai", "":
		return NewOpenAICompatible(OpenAICompatibleConfig{
			Name: "openai", BaseURL: openAIBaseURL, APIKey: cfg.OpenAIAPIKey, Model: model,
		}), nil
	case "openrouter":
		return NewOpenAICompatible(OpenAICompatibleConfig{
			Name: "openrouter", BaseURL: openRouterBaseURL, APIKey: cfg.OpenRouterAPIKey, Model: model,
		}), nil
	case "deepseek":
		return NewOpenAICompatible(OpenAICompatibleConfig{
			Name: "deepseek", BaseURL: deepSeekBaseURL, APIKey: cfg.DeepSeekAPIKey, Model: model,
		}), nil
	case "proxyapi":
		return NewOpenAICompatible(OpenAICompatibleConfig{
			Name: "proxyapi", BaseURL: proxyAPIBaseURL, APIKey: cfg.ProxyAPIKey, Model: model,
		}), nil
	case "yandex":
		return NewYandex(cfg.YandexAPIKey, cfg.YandexFolderID, model, cfg.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown generation provider: %s", provider)
	}
}

// NewEmbedder creates a single embedding provider by name.
func NewEmbedder(cfg *config.ProvidersConfig, provider, model string) (core.Embedder, error) {
	switch provider {
	case "openai", "":
		return NewOpenAICompatible(OpenAICompatibleConfig{
			Name: "openai", BaseURL: openAIBaseURL, APIKey: cfg.OpenAIAPIKey, Model: model,
		}), nil
	case "proxyapi":
		return NewOpenAICompatible(OpenAICompatibleConfig{
			Name: "proxyapi", BaseURL: proxyAPIBaseURL, APIKey: cfg.ProxyAPIKey, Model: model,
		}), nil
	case "yandex":
		return NewYandex(cfg.YandexAPIKey, cfg.YandexFolderID, model, cfg.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", provider)
	}
}

// NewEmbedderChain builds the failover embedder from the primary provider
// plus the configured fallback list. Unknown names are skipped with a
// warning so one bad entry cannot take retrieval down.
func NewEmbedderChain(ctx context.Context, cfg *config.ProvidersConfig, primary, model string) (core.Embedder, error) {
	names := make([]string, 0, len(cfg.EmbeddingFallback)+1)
	if primary != "" {
		names = append(names, primary)
	}
	for _, name := range cfg.EmbeddingFallback {
		if name != primary {
			names = append(names, name)
		}
	}

	embedders := make([]core.Embedder, 0, len(names))
	for _, name := range names {
		e, err := NewEmbedder(cfg, name, model)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Str("provider", name).Msg("skipping embedding provider")
			continue
		}
		embedders = append(embedders, e)
	}
	if len(embedders) == 0 {
		return nil, fmt.Errorf("no usable embedding providers in %v", names)
	}
	return NewFailoverEmbedder(embedders...), nil
}
