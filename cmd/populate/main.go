// Command populate runs one directory-population job from the terminal,
// using the same pipeline as the server's populate endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketdir/internal/adapters/brandfetch"
	"marketdir/internal/adapters/gemini"
	pg "marketdir/internal/adapters/postgres"
	"marketdir/internal/config"
	"marketdir/internal/domain"
	"marketdir/internal/ratelimit"
	"marketdir/internal/services/enrich"
	"marketdir/internal/workers/populator"
)

func main() {
	var commodity string
	var count int

	root := &cobra.Command{
		Use:   "populate",
		Short: "Populate the market directory for a commodity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), commodity, count)
		},
	}
	root.Flags().StringVar(&commodity, "commodity", "", "commodity key, e.g. gold (required)")
	root.Flags().IntVar(&count, "count", 10, "target number of new records")
	_ = root.MarkFlagRequired("commodity")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, commodity string, count int) error {
	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync()

	if _, ok := domain.CommodityLabel(commodity); !ok {
		return fmt.Errorf("unsupported commodity %q (supported: %s)",
			commodity, strings.Join(domain.Commodities(), ", "))
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := pg.Migrate(cfg.DatabaseURL); err != nil {
		return err
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	generator, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return err
	}
	brands := brandfetch.New(cfg.BrandfetchBase, cfg.BrandfetchAPIKey)
	var gate ratelimit.Gate = ratelimit.NewFixedDelay(cfg.CandidateDelay)
	if cfg.BrandLookupRPS > 0 {
		gate = ratelimit.NewTokenBucket(cfg.BrandLookupRPS)
	}
	enricher := enrich.New(brands, gate, log)
	runner := populator.New(generator, enricher, db, cfg.BatchSize, cfg.MaxFailures, log)

	result, runErr := runner.Run(ctx, commodity, count)
	fmt.Printf("commodity=%s generated=%d enriched=%d added=%d duplicates=%d failed=%d aborted=%t\n",
		result.Commodity, result.Generated, result.Enriched, result.Added,
		result.Duplicates, result.Failed, result.Aborted)
	return runErr
}
