package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"marketdir/internal/adapters/brandfetch"
	"marketdir/internal/adapters/gemini"
	httpadapter "marketdir/internal/adapters/http"
	pg "marketdir/internal/adapters/postgres"
	"marketdir/internal/config"
	"marketdir/internal/ratelimit"
	"marketdir/internal/services/enrich"
	"marketdir/internal/workers/populator"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("configuration invalid", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pg.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db connect error", zap.Error(err))
	}
	defer db.Close()

	generator, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("generator init error", zap.Error(err))
	}
	brands := brandfetch.New(cfg.BrandfetchBase, cfg.BrandfetchAPIKey)
	// BRAND_LOOKUP_RPS switches the inter-candidate throttle from a fixed
	// delay to a token bucket that allows short bursts.
	var gate ratelimit.Gate = ratelimit.NewFixedDelay(cfg.CandidateDelay)
	if cfg.BrandLookupRPS > 0 {
		gate = ratelimit.NewTokenBucket(cfg.BrandLookupRPS)
	}
	enricher := enrich.New(brands, gate, log)
	runner := populator.New(generator, enricher, db, cfg.BatchSize, cfg.MaxFailures, log)

	srv := httpadapter.New(runner, db, log)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	errCh := make(chan error, 1)
	go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, r) }()
	log.Info("listening", zap.String("addr", cfg.ListenAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
		time.Sleep(300 * time.Millisecond)
	case err := <-errCh:
		log.Fatal("server error", zap.Error(err))
	}
}
