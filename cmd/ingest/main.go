// Package main provides dataset ingestion entry point.
// Loads the processed player dataset and persists it to PostgreSQL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/loader"
	"fantasy-roster-lab/internal/observability"
	"fantasy-roster-lab/internal/storage"
	"fantasy-roster-lab/internal/storage/migrations"
	pgstore "fantasy-roster-lab/internal/storage/postgres"
)

func main() {
	// Parse flags (env vars as defaults)
	datasetPath := flag.String("dataset", "data/players.json", "Path to the processed player dataset")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	skipMigrations := flag.Bool("skip-migrations", false, "Skip running schema migrations")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[ingest] ", log.LstdFlags)

	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Connect and migrate
	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	if !*skipMigrations {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("postgres migrations: %v", err)
		}
		logger.Println("Migrations applied")
	}

	// Load the full dataset. Ingestion stores everything; eligibility
	// filters are applied later at simulation time.
	dataset, err := loader.Load(*datasetPath, domain.DataFilters{
		TierCutoffs: domain.DefaultTierCutoffs(),
	})
	if err != nil {
		logger.Fatalf("load dataset: %v", err)
	}
	logger.Printf("Loaded %d players from %s", len(dataset.Players), *datasetPath)

	// Persist
	playerStore := pgstore.NewPlayerStore(pool)
	gameLogStore := pgstore.NewGameLogStore(pool)

	players, logs, err := ingest(ctx, playerStore, gameLogStore, dataset, logger)
	if err != nil {
		logger.Fatalf("ingest: %v", err)
	}

	observability.UpdatePoolSizes(players, logs)
	fmt.Printf("Ingestion complete: %d players, %d game logs\n", players, logs)
}

// ingest persists the dataset, counting what was actually written.
// Records a previous run already stored are skipped, so reruns over
// the same dataset are safe.
func ingest(
	ctx context.Context,
	playerStore storage.PlayerStore,
	gameLogStore storage.GameLogStore,
	ds *loader.Dataset,
	logger *log.Logger,
) (int, int, error) {
	players := 0
	for _, p := range ds.Players {
		if err := playerStore.Insert(ctx, p); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			return players, 0, fmt.Errorf("insert player %s: %w", p.ID, err)
		}
		players++
	}
	logger.Printf("Inserted %d players (%d already present)", players, len(ds.Players)-players)

	logs := 0
	skipped := 0
	for playerID, playerLogs := range ds.Logs {
		for i := range playerLogs {
			if err := gameLogStore.Insert(ctx, &playerLogs[i]); err != nil {
				if errors.Is(err, storage.ErrDuplicateKey) {
					skipped++
					continue
				}
				return players, logs, fmt.Errorf("insert game log for %s: %w", playerID, err)
			}
			logs++
		}
	}
	logger.Printf("Inserted %d game logs (%d already present)", logs, skipped)

	return players, logs, nil
}
