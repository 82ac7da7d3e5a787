package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/agents"
	"server/internal/domain"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/orchestrator"
	"server/internal/providers/vidu"
	"server/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// Database is optional; without it the history endpoints are disabled and
	// generation records are not kept.
	var generationRepo domain.GenerationRepository
	if cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		generationRepo = repo.NewGenerationRepository(dbpool)
	} else {
		logger.Warn().Msg("DATABASE_URL not set, generation history disabled")
	}

	executor, err := agents.NewExecutor(agents.Options{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize agent executor")
	}
	suite := agents.NewSuite(executor)

	videoClient, err := vidu.NewClient(vidu.Options{
		APIKey:          cfg.ViduAPIKey,
		BaseURL:         cfg.ViduBaseURL,
		HTTPClient:      &http.Client{Timeout: cfg.ViduRequestTimeout},
		Logger:          &logger,
		PollInterval:    cfg.ViduPollInterval,
		PollMaxAttempts: cfg.ViduPollMaxAttempts,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize video client")
	}

	store, err := storage.NewFileStore(cfg.AssetBasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize asset store")
	}

	pipeline, err := orchestrator.New(orchestrator.Options{
		Agents:        suite,
		Video:         videoClient,
		Store:         store,
		Repo:          generationRepo,
		Logger:        &logger,
		MaxIterations: cfg.MaxRefinementIterations,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize orchestrator")
	}

	app := handlers.NewApp(pipeline, generationRepo, &logger)
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
