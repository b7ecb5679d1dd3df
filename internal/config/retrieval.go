package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/concierge/pkg/log"
)

// RetrievalConfig holds the operator-tunable retrieval and quality-gate
// knobs. Tenants may override top-K values per request via their settings.
type RetrievalConfig struct {
	TopKDefault  int `env:"RETRIEVAL_TOPK_DEFAULT" envDefault:"12"`
	TopKFallback int `env:"RETRIEVAL_TOPK_FALLBACK" envDefault:"15"`

	// Individual chunks below this similarity never make it into context.
	ChunkSimilarityFloor float64 `env:"RETRIEVAL_CHUNK_SIM_FLOOR" envDefault:"0.25"`

	MaxCharsPerChunk int `env:"RETRIEVAL_MAX_CHARS_PER_CHUNK" envDefault:"2200"`

	// Rolling low-overlap window: when the recent low-overlap rate crosses the
	// threshold, requests start directly at the fallback top-K.
	LowOverlapWindow        int     `env:"RETRIEVAL_LOW_OVERLAP_WINDOW" envDefault:"50"`
	LowOverlapThreshold     float64 `env:"RETRIEVAL_LOW_OVERLAP_THRESHOLD" envDefault:"0.25"`
	StartFallbackOnOverload bool    `env:"RETRIEVAL_LOW_OVERLAP_START_FALLBACK" envDefault:"true"`

	EmbedTimeout time.Duration `env:"RETRIEVAL_EMBED_TIMEOUT" envDefault:"10s"`
}

func NewRetrievalConfig(ctx context.Context) *RetrievalConfig {
	c := &RetrievalConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse retrieval config")
	}
	return c
}
