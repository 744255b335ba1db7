package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fantasy-roster-lab/internal/achievements"
	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/loader"
	"fantasy-roster-lab/internal/resolve"
	"fantasy-roster-lab/internal/scoring"
	"fantasy-roster-lab/internal/seed"
	"fantasy-roster-lab/internal/simulation"
	"fantasy-roster-lab/internal/storage"
	chstore "fantasy-roster-lab/internal/storage/clickhouse"
	"fantasy-roster-lab/internal/storage/memory"
	pgstore "fantasy-roster-lab/internal/storage/postgres"
	"fantasy-roster-lab/internal/summary"
)

func main() {
	// Parse flags
	datasetPath := flag.String("dataset", "data/players.json", "Path to the processed player dataset")
	rosterName := flag.String("roster", "cli-roster", "Roster name for the run batch")
	playerIDs := flag.String("players", "", "Comma-separated player IDs for the roster (required)")
	captainID := flag.String("captain", "", "Player ID of the captain (optional)")

	// Run parameters
	totalRuns := flag.Int("runs", 1000, "Number of Monte Carlo trials")
	workers := flag.Int("workers", 0, "Worker goroutines (0 = NumCPU)")
	seedMode := flag.String("seed-mode", "FIXED", "Seed mode: FIXED, TIME, SESSION")
	fixedSeed := flag.Int64("fixed-seed", seed.DefaultFixedSeed, "Base seed for FIXED mode")
	sessionID := flag.String("session-id", seed.DefaultSessionID, "Session identifier for SESSION mode")
	benchmarkFP := flag.Float64("benchmark-fp", 50, "Score a trial must reach to count as won")
	minMinutes := flag.Int("min-minutes", 0, "Minimum minutes for a game log to be eligible")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", true, "Use in-memory storage")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")
	persistResult := flag.Bool("persist", false, "Persist trial results and summary to storage")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[simulate] ", log.LstdFlags)

	// Validate required flags
	if *playerIDs == "" {
		logger.Fatal("--players is required")
	}
	mode, err := seed.ParseMode(strings.ToUpper(*seedMode))
	if err != nil {
		logger.Fatalf("Invalid seed mode: %v", err)
	}
	spec := seed.Spec{
		Mode:      mode,
		FixedSeed: *fixedSeed,
		SessionID: *sessionID,
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

	// Create stores
	var resultStore storage.ResultStore = memory.NewResultStore()
	var summaryStore storage.SummaryStore = memory.NewSummaryStore()

	if !*useMemory {
		if *postgresDSN == "" {
			logger.Fatal("--postgres-dsn is required when not using --use-memory (summaries)")
		}
		if *clickhouseDSN == "" {
			logger.Fatal("--clickhouse-dsn is required when not using --use-memory (trial results)")
		}

		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()
		summaryStore = pgstore.NewSummaryStore(pool)

		conn, err := chstore.NewConn(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()
		resultStore = chstore.NewResultStore(conn)
	}

	// Load dataset
	filters := domain.DataFilters{
		MinMinutesPlayed: *minMinutes,
		TierCutoffs:      domain.DefaultTierCutoffs(),
	}
	dataset, err := loader.Load(*datasetPath, filters)
	if err != nil {
		logger.Fatalf("load dataset: %v", err)
	}

	// Build roster from flags
	roster, err := buildRoster(dataset, *rosterName, *playerIDs, *captainID)
	if err != nil {
		logger.Fatalf("build roster: %v", err)
	}

	// Create simulation runner
	rules, err := achievements.NewRuleSet(achievements.DefaultRules())
	if err != nil {
		logger.Fatalf("rule set: %v", err)
	}
	runner, err := simulation.NewRunner(simulation.Options{
		Resolver: resolve.NewEmpiricalResolver(dataset.Logs),
		Scorer:   scoring.NewFPLScorer(*benchmarkFP),
		Bonus:    rules,
		Workers:  *workers,
	})
	if err != nil {
		logger.Fatalf("create runner: %v", err)
	}

	// Run batch
	logger.Printf("Running batch: roster=%s players=%d runs=%d mode=%s",
		roster.Name, len(roster.Slots), *totalRuns, spec.Mode)

	results, err := runner.Run(ctx, roster, *totalRuns, spec)
	if err != nil {
		logger.Fatalf("batch failed: %v", err)
	}

	sum, err := summary.Summarize(results, domain.TierThresholds{}, filters.TierCutoffs)
	if err != nil {
		logger.Fatalf("summarize: %v", err)
	}

	// Persist if requested
	if *persistResult {
		rows := make([]*domain.SimulationResult, len(results))
		for i := range results {
			rows[i] = &results[i]
		}
		if err := resultStore.InsertBulk(ctx, rows); err != nil {
			logger.Fatalf("persist results: %v", err)
		}
		if err := summaryStore.Insert(ctx, sum); err != nil {
			logger.Fatalf("persist summary: %v", err)
		}
		logger.Printf("Persisted run %s (%d trials)", sum.RunID, len(results))
	}

	// Output result
	if *outputJSON {
		output, _ := json.MarshalIndent(sum, "", "  ")
		fmt.Println(string(output))
	} else {
		printSummary(sum)
	}
}

// buildRoster resolves the CLI player list against the loaded pool.
func buildRoster(ds *loader.Dataset, name, playerList, captain string) (*domain.Roster, error) {
	byID := make(map[string]domain.Player, len(ds.Players))
	for _, p := range ds.Players {
		byID[p.ID] = *p
	}

	roster := &domain.Roster{Name: name}
	for _, id := range strings.Split(playerList, ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("player %q not in the loaded pool", id)
		}
		roster.Slots = append(roster.Slots, domain.RosterSlot{
			Player:  p,
			Captain: id == captain,
		})
	}
	if len(roster.Slots) == 0 {
		return nil, fmt.Errorf("no valid players in %q", playerList)
	}
	if captain != "" && roster.Captain() == -1 {
		return nil, fmt.Errorf("captain %q is not in the roster", captain)
	}
	return roster, nil
}

// printSummary outputs a human-readable batch summary.
func printSummary(s *domain.SimulationSummary) {
	fmt.Println()
	fmt.Println("=== Simulation Summary ===")
	fmt.Printf("Run ID:             %s\n", s.RunID)
	fmt.Printf("Roster:             %s\n", s.RosterName)
	fmt.Printf("Trials:             %d\n", s.TotalRuns)
	fmt.Println()

	fmt.Println("Outcome:")
	fmt.Printf("  Wins:             %d\n", s.Wins)
	fmt.Printf("  Losses:           %d\n", s.Losses)
	fmt.Printf("  Win Rate:         %.2f%%\n", s.WinRate*100)
	fmt.Println()

	fmt.Println("Fantasy Points:")
	fmt.Printf("  Min / Max:        %.1f / %.1f\n", s.FP.Min, s.FP.Max)
	fmt.Printf("  Mean:             %.2f\n", s.FP.Mean)
	fmt.Printf("  Median:           %.2f\n", s.FP.Median)
	fmt.Printf("  P25 / P75:        %.2f / %.2f\n", s.FP.P25, s.FP.P75)
	fmt.Printf("  P90 / P95 / P99:  %.2f / %.2f / %.2f\n", s.FP.P90, s.FP.P95, s.FP.P99)
	fmt.Println()

	fmt.Println("Achievements:")
	fmt.Printf("  Avg Bonus:        %.2f\n", s.Achievements.AvgBonus)
	fmt.Printf("  Max Bonus:        %.2f\n", s.Achievements.MaxBonus)
	fmt.Printf("  Trials w/ Bonus:  %.2f%%\n", s.Achievements.PercentWithBonus*100)
	fmt.Println()

	fmt.Println("Suggested Thresholds:")
	fmt.Printf("  ORANGE:           %.1f\n", s.Recommendation.Suggested.Orange)
	fmt.Printf("  PURPLE:           %.1f\n", s.Recommendation.Suggested.Purple)
	fmt.Printf("  BLUE:             %.1f\n", s.Recommendation.Suggested.Blue)
	fmt.Printf("  GREEN:            %.1f\n", s.Recommendation.Suggested.Green)
}
