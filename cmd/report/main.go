package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"fantasy-roster-lab/internal/config"
	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/loader"
	"fantasy-roster-lab/internal/observability"
	"fantasy-roster-lab/internal/reporting"
	"fantasy-roster-lab/internal/storage"
	"fantasy-roster-lab/internal/storage/memory"
	pgstore "fantasy-roster-lab/internal/storage/postgres"
	"fantasy-roster-lab/internal/tiers"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use empty in-memory storage (report over the dataset only)")
	console := flag.Bool("console", false, "Also print the report to stdout")
	flag.Parse()

	ctx := context.Background()

	// Validate flags
	if !*useMemory && *postgresDSN == "" {
		fmt.Fprintln(os.Stderr, "Error: --postgres-dsn is required when not using --use-memory")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Create summary store
	var summaryStore storage.SummaryStore
	if *useMemory {
		summaryStore = memory.NewSummaryStore()
	} else {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to postgres: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		summaryStore = pgstore.NewSummaryStore(pool)
	}

	// Tier the current pool so the report includes player rankings.
	playerTiers, err := tierPool(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error tiering pool: %v\n", err)
		os.Exit(1)
	}

	// Generate
	report, err := reporting.NewGenerator(summaryStore).Generate(ctx, playerTiers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}
	observability.RecordReportGenerated()

	// Write files
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
		os.Exit(1)
	}
	mdPath := filepath.Join(*outputDir, "SIMULATION_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing markdown: %v\n", err)
		os.Exit(1)
	}
	csvPath := filepath.Join(*outputDir, "run_summaries.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Summaries)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
		os.Exit(1)
	}

	if *console {
		reporting.RenderConsole(os.Stdout, report)
	}

	fmt.Println("Report generated successfully:")
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
}

// tierPool loads the dataset and ranks the eligible players. A missing
// dataset is not fatal: the report then carries summaries only.
func tierPool(cfg *config.Config) ([]tiers.PlayerTier, error) {
	dataset, err := loader.Load(cfg.Data.PlayersPath, cfg.DataFilters())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	players := make([]domain.Player, len(dataset.Players))
	for i, p := range dataset.Players {
		players[i] = *p
	}
	return tiers.TierPlayers(players, dataset.Logs, cfg.DataFilters())
}
