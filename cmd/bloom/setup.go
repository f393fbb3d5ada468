package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandevgo/bloombot/internal/config"
	"github.com/sandevgo/bloombot/internal/providers/embed"
	"github.com/sandevgo/bloombot/internal/providers/llm"
	"github.com/sandevgo/bloombot/internal/providers/vector"
	"github.com/sandevgo/bloombot/internal/service/bizinfo"
	"github.com/sandevgo/bloombot/internal/service/contextstore"
	"github.com/sandevgo/bloombot/internal/service/orchestrator"
	"github.com/sandevgo/bloombot/internal/service/search"
	"github.com/sandevgo/bloombot/internal/service/security"
	"github.com/sandevgo/bloombot/internal/storage/sqlite"
	"github.com/sandevgo/bloombot/internal/transport/cli"
	"github.com/sandevgo/bloombot/internal/transport/telegram"
	"github.com/sandevgo/bloombot/pkg/log"
	"github.com/sandevgo/bloombot/pkg/srv"
)

const (
	kvSweepInterval    = time.Hour
	cacheSweepInterval = 5 * time.Minute
)

// NewServices builds the full pipeline and the transports selected by
// configuration.
func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)

	appCfg, orch, services := newPipeline(ctx)

	if appCfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, orch)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	}

	if appCfg.EnableCLI {
		services = append(services, newCLI(ctx, orch, appCfg))
	}

	return services
}

// NewChatServices builds the pipeline with only the terminal transport,
// whatever the environment says.
func NewChatServices(ctx context.Context) []srv.Service {
	appCfg, orch, services := newPipeline(ctx)
	return append(services, newCLI(ctx, orch, appCfg))
}

func newPipeline(ctx context.Context) (*config.AppConfig, *orchestrator.Orchestrator, []srv.Service) {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	secCfg := config.NewSecurityConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	searchCfg := config.NewSearchConfig(ctx)
	qdrantCfg := config.NewQdrantConfig(ctx)
	embedCfg := config.NewEmbedConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	kv := sqlite.NewKV(db)
	services = append(services, srv.NewTicker(kvSweepInterval, func(ctx context.Context) {
		if n, err := kv.Sweep(ctx); err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("context sweep failed")
		} else if n > 0 {
			log.FromCtx(ctx).Debug().Int64("swept", n).Msg("expired contexts removed")
		}
	}))

	// 3. Generative chain (permit-limited, response-cached)
	chain, err := llm.NewFallbackChain(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize generative providers")
	}
	services = append(services, srv.NewTicker(cacheSweepInterval, func(context.Context) {
		chain.EvictExpired()
	}))

	// 4. Embedder
	embedder, err := embed.NewFastEmbed(embedCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize embedder")
	}
	services = append(services, srv.NewCleanup(embedder.Close))

	// 5. Vector index
	index, err := vector.NewQdrantIndex(ctx, qdrantCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize vector index")
	}
	services = append(services, srv.NewCleanup(index.Close))

	// 6. Domain services
	engine := search.NewEngine(searchCfg, embedder, index)
	services = append(services, srv.NewTicker(cacheSweepInterval, func(context.Context) {
		engine.EvictExpired()
	}))

	gate := security.NewGate(secCfg, chain)
	contexts := contextstore.NewStore(appCfg, kv)

	orch := orchestrator.New(appCfg, searchCfg, gate, contexts, engine, chain, bizinfo.New())

	return appCfg, orch, services
}

func newCLI(ctx context.Context, orch *orchestrator.Orchestrator, appCfg *config.AppConfig) srv.Service {
	rl, err := cli.NewReadLine(orch, appCfg)
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to initialize terminal chat")
	}
	return rl
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

	return nil
}
