package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"catalogpix/internal/adapter/repo"
	"catalogpix/internal/infra"
	"catalogpix/internal/queue"
	"catalogpix/internal/sqlinline"
	"catalogpix/internal/storage"
	"catalogpix/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	if _, err := runner.Exec(ctx, sqlinline.QEnsureSchema); err != nil {
		logger.Fatal().Err(err).Msg("worker: schema bootstrap failed")
	}

	storagePath := cfg.StoragePath
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	fileStore, err := storage.NewFileStore(storagePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	jobs := repo.NewJobRepository(runner)
	assets := repo.NewAssetRepository(runner)
	renditions := repo.NewRenditionRepository(runner)

	backend := queue.Select(ctx, cfg, jobs, logger)
	proc := worker.NewProcessor(jobs, assets, renditions, fileStore, backend, cfg.BackoffBase, logger)

	logger.Info().Int("workers", cfg.Workers).Msg("worker: started")

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Workers; i++ {
		wl := logger.With().Int("worker", i).Logger()
		loop := worker.NewLoop(backend, proc, cfg.DequeueTimeout, wl)
		g.Go(func() error { return loop.Run(gctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}
