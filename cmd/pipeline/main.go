// Package main provides E2E pipeline entry point.
// Executes: loading → tiering → simulation → summary → reporting
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"fantasy-roster-lab/internal/config"
	"fantasy-roster-lab/internal/orchestrator"
	"fantasy-roster-lab/internal/reporting"
	"fantasy-roster-lab/internal/storage"
	chstore "fantasy-roster-lab/internal/storage/clickhouse"
	"fantasy-roster-lab/internal/storage/memory"
	"fantasy-roster-lab/internal/storage/migrations"
	pgstore "fantasy-roster-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")
	skipPersist := flag.Bool("skip-persist", false, "Skip persisting players and game logs")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling pipeline...\n", sig)
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Create stores
	stores, cleanup, err := createStores(ctx, cfg, *useMemory)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating stores: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	seedSpec, err := cfg.SeedSpec()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building seed spec: %v\n", err)
		os.Exit(1)
	}
	rules, err := cfg.RuleSet()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building rule set: %v\n", err)
		os.Exit(1)
	}

	// Run the pipeline
	fmt.Println("=== E2E Pipeline ===")
	orch := orchestrator.New(orchestrator.Options{
		PlayerStore:       stores.playerStore,
		GameLogStore:      stores.gameLogStore,
		ResultStore:       stores.resultStore,
		SummaryStore:      stores.summaryStore,
		PlayersPath:       cfg.Data.PlayersPath,
		Filters:           cfg.DataFilters(),
		SeedSpec:          seedSpec,
		TotalRuns:         cfg.Simulation.TotalRuns,
		Workers:           cfg.Simulation.Workers,
		BenchmarkFP:       cfg.Simulation.BenchmarkFP,
		Rules:             rules,
		RosterConfigs:     cfg.Rosters,
		CurrentThresholds: cfg.Tiers.CurrentThresholds,
		SkipPersist:       *skipPersist,
		Verbose:           *verbose,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Orchestrator error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Orchestrator completed:\n")
	fmt.Printf("  Players:   %d\n", result.PlayersLoaded)
	fmt.Printf("  Game logs: %d\n", result.GameLogsLoaded)
	fmt.Printf("  Rosters:   %d\n", result.RostersSimulated)
	fmt.Printf("  Trials:    %d\n", result.TrialsExecuted)
	fmt.Printf("  Summaries: %d\n", result.SummariesComputed)
	if len(result.Errors) > 0 {
		fmt.Printf("  Errors: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}

	// Write report files
	if err := writeReports(*outputDir, result.Report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing reports: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nE2E Pipeline completed successfully:")
	fmt.Printf("  - %s/SIMULATION_REPORT.md\n", *outputDir)
	fmt.Printf("  - %s/run_summaries.csv\n", *outputDir)
}

// allStores holds the pipeline's storage backends.
type allStores struct {
	playerStore  storage.PlayerStore
	gameLogStore storage.GameLogStore
	resultStore  storage.ResultStore
	summaryStore storage.SummaryStore
}

// createStores creates memory or database-backed stores. Database mode
// runs migrations first.
func createStores(ctx context.Context, cfg *config.Config, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		return &allStores{
			playerStore:  memory.NewPlayerStore(),
			gameLogStore: memory.NewGameLogStore(),
			resultStore:  memory.NewResultStore(),
			summaryStore: memory.NewSummaryStore(),
		}, func() {}, nil
	}

	if cfg.Storage.PostgresDSN == "" || cfg.Storage.ClickhouseDSN == "" {
		return nil, nil, fmt.Errorf("postgres_dsn and clickhouse_dsn are required (use --use-memory for in-memory storage)")
	}

	pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &allStores{
		playerStore:  pgstore.NewPlayerStore(pool),
		gameLogStore: pgstore.NewGameLogStore(pool),
		summaryStore: pgstore.NewSummaryStore(pool),
		resultStore:  chstore.NewResultStore(conn),
	}
	cleanup := func() {
		conn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}

// writeReports renders the report to markdown and CSV files.
func writeReports(outputDir string, report *reporting.Report) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	md := reporting.RenderMarkdown(report)
	mdPath := filepath.Join(outputDir, "SIMULATION_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mdPath, err)
	}

	csv := reporting.RenderCSV(report.Summaries)
	csvPath := filepath.Join(outputDir, "run_summaries.csv")
	if err := os.WriteFile(csvPath, []byte(csv), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", csvPath, err)
	}

	return nil
}
