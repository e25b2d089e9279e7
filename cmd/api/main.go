package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"catalogpix/internal/adapter/repo"
	"catalogpix/internal/http/handlers"
	httpapi "catalogpix/internal/http/httpapi"
	"catalogpix/internal/infra"
	"catalogpix/internal/ingest"
	"catalogpix/internal/queue"
	"catalogpix/internal/sqlinline"
	"catalogpix/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx := context.Background()
	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	if _, err := runner.Exec(ctx, sqlinline.QEnsureSchema); err != nil {
		logger.Fatal().Err(err).Msg("api: schema bootstrap failed")
	}

	storagePath := cfg.StoragePath
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	fileStore, err := storage.NewFileStore(storagePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to configure storage")
	}

	assets := repo.NewAssetRepository(runner)
	jobs := repo.NewJobRepository(runner)
	renditions := repo.NewRenditionRepository(runner)
	poison := repo.NewPoisonRepository(runner)
	metrics := repo.NewMetricsRepository(runner)

	backend := queue.Select(ctx, cfg, jobs, logger)
	ingestor := ingest.New(assets, jobs, fileStore, backend, cfg.JobMaxRetries, logger)

	app := &handlers.App{
		Logger:         logger,
		Ingest:         ingestor,
		Assets:         assets,
		Jobs:           jobs,
		Renditions:     renditions,
		Metrics:        metrics,
		Poison:         poison,
		Store:          fileStore,
		MaxUploadBytes: cfg.MaxUploadBytes,
		PurgeDays:      cfg.PurgeDays,
	}

	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
