package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/atlas/internal/config"
	"github.com/sandevgo/atlas/internal/core"
	"github.com/sandevgo/atlas/internal/knowledge"
	"github.com/sandevgo/atlas/internal/providers/llm"
	"github.com/sandevgo/atlas/internal/service/chat"
	"github.com/sandevgo/atlas/internal/service/generate"
	"github.com/sandevgo/atlas/internal/session"
	"github.com/sandevgo/atlas/internal/storage/file"
	"github.com/sandevgo/atlas/internal/storage/memory"
	"github.com/sandevgo/atlas/internal/storage/sqlite"
	"github.com/sandevgo/atlas/internal/topics"
	"github.com/sandevgo/atlas/internal/transport/httpapi"
	"github.com/sandevgo/atlas/internal/transport/telegram"
	"github.com/sandevgo/atlas/pkg/log"
	"github.com/sandevgo/atlas/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	knowCfg := config.NewKnowledgeConfig(ctx)
	genCfg := config.NewGenerateConfig(ctx)

	// 2. Storage
	docs, cleanup, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	if cleanup != nil {
		services = append(services, srv.NewCleanup(cleanup))
	}

	// 3. Knowledge base and sessions
	store, err := knowledge.NewStore(ctx, docs, knowCfg.DedupThreshold)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load knowledge base")
	}
	extractor := topics.NewExtractor()
	ranker := knowledge.NewRanker(store, extractor, knowCfg.ScoreThreshold)

	sessions, err := session.NewManager(ctx, docs, appCfg.RecentTurns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load conversations")
	}

	// 4. Generation backend
	generator, err := llm.NewGenerator(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize generator")
	}
	client := generate.NewClient(generator, genCfg)

	// 5. Chat service
	persona := chat.LoadPersona(appCfg.GetPersonaPath())
	svc := chat.NewService(knowCfg, store, ranker, sessions, extractor, client, generator, persona)

	// 6. Transports
	transports, err := initTransports(ctx, appCfg, svc, sessions)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (core.DocumentStore, func() error, error) {
	switch cfg.StorageBackend {
	case "sqlite":
		db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewStore(db), db.Close, nil
	case "memory":
		return memory.NewStore(), nil, nil
	default: // "file"
		store, err := file.NewStore(cfg.GetDataDir())
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}

func initTransports(ctx context.Context, cfg *config.AppConfig, svc *chat.Service, sessions *session.Manager) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.EnableHTTP {
		srvCfg := config.NewServerConfig(ctx)
		services = append(services, httpapi.NewServer(srvCfg, httpapi.NewHandler(svc, sessions)))
	}

	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, svc)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
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
