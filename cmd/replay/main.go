// Package main provides summary replay entry point.
// Recomputes a run batch's summary from its stored trial results and
// checks it against the persisted summary, verifying the batch is
// still reproducible from storage.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"fantasy-roster-lab/internal/config"
	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/storage"
	chstore "fantasy-roster-lab/internal/storage/clickhouse"
	pgstore "fantasy-roster-lab/internal/storage/postgres"
	"fantasy-roster-lab/internal/summary"
	"fantasy-roster-lab/internal/verification"
)

func main() {
	// Parse flags (env vars as defaults)
	runID := flag.String("run-id", "", "Run batch to replay (required)")
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration (for tier cutoffs)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[replay] ", log.LstdFlags)

	if *runID == "" {
		logger.Fatal("--run-id is required")
	}
	if *postgresDSN == "" || *clickhouseDSN == "" {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required")
	}

	ctx := context.Background()

	// Connect
	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	conn, err := chstore.NewConn(ctx, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("connect to clickhouse: %v", err)
	}
	defer conn.Close()

	resultStore := chstore.NewResultStore(conn)
	summaryStore := pgstore.NewSummaryStore(pool)

	// Fetch the stored batch and summary
	results, err := resultStore.GetByRunID(ctx, *runID)
	if err != nil {
		logger.Fatalf("fetch results for %s: %v", *runID, err)
	}
	if len(results) == 0 {
		logger.Fatalf("no trial results stored for run %s", *runID)
	}

	stored, err := summaryStore.GetByRunID(ctx, *runID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Fatalf("fetch summary for %s: %v", *runID, err)
	}

	// Check batch integrity first: trial contiguity and the seed chain.
	batchReport, err := verification.VerifyBatch(results)
	if err != nil {
		logger.Fatalf("verify batch: %v", err)
	}
	if !batchReport.Consistent {
		fmt.Printf("Run %s is internally inconsistent (%d divergences):\n",
			*runID, len(batchReport.Divergences))
		printDivergences(batchReport.Divergences)
		os.Exit(1)
	}
	fmt.Printf("Run %s: %d trials, batch integrity OK\n", *runID, batchReport.TotalTrials)

	// Recompute the summary from the trial results
	batch := make([]domain.SimulationResult, len(results))
	for i, r := range results {
		batch[i] = *r
	}

	var current domain.TierThresholds
	if stored != nil {
		current = stored.Recommendation.Current
	}

	// Suggested thresholds depend on the cutoffs the batch was run
	// with, so pick them up from the config when one is available.
	cutoffs := domain.DefaultTierCutoffs()
	if cfg, err := config.Load(*configPath); err == nil {
		cutoffs = cfg.Tiers.Cutoffs
	}

	recomputed, err := summary.Summarize(batch, current, cutoffs)
	if err != nil {
		logger.Fatalf("summarize: %v", err)
	}

	fmt.Printf("Recomputed summary: win rate %.4f, mean FP %.2f\n",
		recomputed.WinRate, recomputed.FP.Mean)

	if stored == nil {
		fmt.Println("No stored summary to compare against.")
		return
	}

	// Compare against the persisted summary
	divergences := verification.CompareSummaries(stored, recomputed)
	if len(divergences) == 0 {
		fmt.Println("Stored summary matches the recomputation.")
		return
	}

	fmt.Printf("Stored summary diverges in %d field(s):\n", len(divergences))
	printDivergences(divergences)
	os.Exit(1)
}

func printDivergences(divergences []verification.Divergence) {
	for _, d := range divergences {
		fmt.Printf("  - %s: stored %v, recomputed %v\n", d.Field, d.Expected, d.Actual)
	}
}
