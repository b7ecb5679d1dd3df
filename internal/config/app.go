package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v9"
	"github.com/sandevgo/concierge/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"CONCIERGE_RUNTIME_PATH" envDefault:".concierge"`

	// HistoryDepth is how many turns the pipeline loads per request.
	HistoryDepth int `env:"CONCIERGE_HISTORY_DEPTH" envDefault:"10"`

	// DateLookback bounds how far back the date extractor scans.
	DateLookback int `env:"CONCIERGE_DATE_LOOKBACK" envDefault:"10"`

	// Transport flags
	EnableCLI bool `env:"CONCIERGE_ENABLE_CLI" envDefault:"true"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse app config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "concierge.db")
}
