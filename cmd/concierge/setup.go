package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/concierge/internal/config"
	"github.com/sandevgo/concierge/internal/core"
	"github.com/sandevgo/concierge/internal/providers/ai"
	"github.com/sandevgo/concierge/internal/service/dates"
	"github.com/sandevgo/concierge/internal/service/pipeline"
	"github.com/sandevgo/concierge/internal/service/retrieval"
	"github.com/sandevgo/concierge/internal/storage/sqlite"
	"github.com/sandevgo/concierge/internal/transport/cli"
	"github.com/sandevgo/concierge/pkg/log"
	"github.com/sandevgo/concierge/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)

	if err := initEnv(ctx, appCfg.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	retrievalCfg := config.NewRetrievalConfig(ctx)
	providersCfg := config.NewProvidersConfig(ctx)
	aiCfg := config.NewAIConfig(ctx)

	// 2. Storage
	db, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	// 3. Providers
	embedder, err := ai.NewEmbedderChain(ctx, providersCfg, aiCfg.EmbeddingProvider, aiCfg.EmbeddingModel)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize embedding providers")
	}

	generator, err := ai.NewGenerator(ctx, providersCfg, aiCfg.Provider, aiCfg.Model)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize generation provider")
	}

	// 4. Retrieval
	retriever := retrieval.NewRetriever(retrievalCfg, sqlite.NewChunks(db), embedder, sqlite.NewGateLog(db))

	// 5. Pipeline
	p := pipeline.NewPipeline(
		sqlite.NewHistory(db),
		sqlite.NewSessions(db),
		staticSettings{defaults: aiCfg.TenantDefaults()},
		sqlite.NewProfiles(db),
		sqlite.NewUsage(db),
		dates.NewExtractor(appCfg.DateLookback, nil),
		retriever,
		generator,
		appCfg.HistoryDepth,
	)

	// 6. Transports
	if appCfg.EnableCLI {
		rl, err := cli.NewReadLine(p, appCfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize cli transport")
		}
		services = append(services, rl)
	}

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, error) {
	return sqlite.NewDB(ctx, cfg.GetDatabasePath())
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

// staticSettings serves project-level AI defaults for every tenant until an
// admin collaborator writes per-tenant records.
type staticSettings struct {
	defaults core.TenantAISettings
}

func (s staticSettings) AISettings(_ context.Context, _ int64) (core.TenantAISettings, error) {
	return s.defaults, nil
}
