// Package orchestrator provides E2E pipeline orchestration.
// It coordinates: loading → tiering → simulation → summary → reporting
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fantasy-roster-lab/internal/achievements"
	"fantasy-roster-lab/internal/config"
	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/loader"
	"fantasy-roster-lab/internal/observability"
	"fantasy-roster-lab/internal/reporting"
	"fantasy-roster-lab/internal/resolve"
	"fantasy-roster-lab/internal/scoring"
	"fantasy-roster-lab/internal/seed"
	"fantasy-roster-lab/internal/simulation"
	"fantasy-roster-lab/internal/storage"
	"fantasy-roster-lab/internal/summary"
	"fantasy-roster-lab/internal/tiers"
)

// DefaultRosterSize is the starting-XI size used when no rosters are
// configured and the pipeline builds one from the tiered pool.
const DefaultRosterSize = 11

// Orchestrator coordinates the E2E pipeline execution.
// Flow: load dataset → tier players → simulate rosters → summarize
type Orchestrator struct {
	// Stores
	playerStore  storage.PlayerStore
	gameLogStore storage.GameLogStore
	resultStore  storage.ResultStore
	summaryStore storage.SummaryStore

	// Run parameters
	playersPath       string
	filters           domain.DataFilters
	seedSpec          seed.Spec
	totalRuns         int
	workers           int
	benchmarkFP       float64
	rules             *achievements.RuleSet
	rosterConfigs     []config.RosterConfig
	currentThresholds domain.TierThresholds

	// Options
	skipPersist bool
	verbose     bool
}

// Options for creating Orchestrator.
type Options struct {
	// Required stores
	PlayerStore  storage.PlayerStore
	GameLogStore storage.GameLogStore
	ResultStore  storage.ResultStore
	SummaryStore storage.SummaryStore

	// Run parameters
	PlayersPath       string
	Filters           domain.DataFilters
	SeedSpec          seed.Spec
	TotalRuns         int
	Workers           int
	BenchmarkFP       float64
	Rules             *achievements.RuleSet
	RosterConfigs     []config.RosterConfig
	CurrentThresholds domain.TierThresholds

	// Options
	SkipPersist bool // Skip writing players/logs (already ingested)
	Verbose     bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		playerStore:       opts.PlayerStore,
		gameLogStore:      opts.GameLogStore,
		resultStore:       opts.ResultStore,
		summaryStore:      opts.SummaryStore,
		playersPath:       opts.PlayersPath,
		filters:           opts.Filters,
		seedSpec:          opts.SeedSpec,
		totalRuns:         opts.TotalRuns,
		workers:           opts.Workers,
		benchmarkFP:       opts.BenchmarkFP,
		rules:             opts.Rules,
		rosterConfigs:     opts.RosterConfigs,
		currentThresholds: opts.CurrentThresholds,
		skipPersist:       opts.SkipPersist,
		verbose:           opts.Verbose,
	}
}

// RunResult contains results from orchestrator execution.
type RunResult struct {
	PlayersLoaded     int
	GameLogsLoaded    int
	PlayersTiered     int
	RostersSimulated  int
	TrialsExecuted    int
	SummariesComputed int
	PlayerTiers       []tiers.PlayerTier
	Report            *reporting.Report
	Errors            []string
}

// Run executes the full E2E pipeline.
// Phases:
//  1. Load the player dataset
//  2. Persist the pool (players + game logs)
//  3. Tier the player pool
//  4. Simulate each roster and summarize the batch
//  5. Generate the report
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}
	started := time.Now()

	// Phase 1: Load the dataset
	o.log("Phase 1: Loading player dataset...")
	dataset, err := o.loadDataset()
	if err != nil {
		observability.RecordPipelineRun("load", "error", time.Since(started).Seconds())
		return nil, fmt.Errorf("phase 1 (load dataset) failed: %w", err)
	}
	result.PlayersLoaded = len(dataset.Players)
	result.GameLogsLoaded = countLogs(dataset.Logs)
	observability.UpdatePoolSizes(result.PlayersLoaded, result.GameLogsLoaded)
	o.log("  Loaded %d players, %d game logs", result.PlayersLoaded, result.GameLogsLoaded)

	// Phase 2: Persist the pool
	if !o.skipPersist {
		o.log("Phase 2: Persisting player pool...")
		if err := o.persistPool(ctx, dataset); err != nil {
			return nil, fmt.Errorf("phase 2 (persist pool) failed: %w", err)
		}
		o.log("  Pool persisted")
	} else {
		o.log("Phase 2: Skipping persistence (skipPersist=true)")
	}

	// Phase 3: Tier the pool
	o.log("Phase 3: Tiering player pool...")
	playerTiers, err := o.tierPool(dataset)
	if err != nil {
		return nil, fmt.Errorf("phase 3 (tier pool) failed: %w", err)
	}
	result.PlayersTiered = len(playerTiers)
	result.PlayerTiers = playerTiers
	o.log("  Tiered %d players", len(playerTiers))

	// Phase 4: Simulate rosters
	o.log("Phase 4: Simulating rosters...")
	rosters, err := o.buildRosters(dataset, playerTiers)
	if err != nil {
		return nil, fmt.Errorf("phase 4 (build rosters) failed: %w", err)
	}
	trials, summaries, simErrors := o.runSimulations(ctx, dataset, rosters)
	result.RostersSimulated = len(rosters) - len(simErrors)
	result.TrialsExecuted = trials
	result.SummariesComputed = summaries
	result.Errors = append(result.Errors, simErrors...)
	o.log("  Simulated %d rosters, %d trials (%d errors)", result.RostersSimulated, trials, len(simErrors))

	// Phase 5: Report
	o.log("Phase 5: Generating report...")
	report, err := reporting.NewGenerator(o.summaryStore).Generate(ctx, playerTiers)
	if err != nil {
		return nil, fmt.Errorf("phase 5 (report) failed: %w", err)
	}
	result.Report = report
	observability.RecordReportGenerated()

	observability.RecordPipelineRun("full", "success", time.Since(started).Seconds())
	o.log("Pipeline completed: %d players, %d rosters, %d trials, %d summaries",
		result.PlayersLoaded, result.RostersSimulated, result.TrialsExecuted, result.SummariesComputed)

	return result, nil
}

// loadDataset reads and filters the player dataset from disk.
func (o *Orchestrator) loadDataset() (*loader.Dataset, error) {
	return loader.Load(o.playersPath, o.filters)
}

// persistPool writes the loaded players and their game logs, skipping
// anything a previous run already stored.
func (o *Orchestrator) persistPool(ctx context.Context, ds *loader.Dataset) error {
	for _, p := range ds.Players {
		if err := o.playerStore.Insert(ctx, p); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			return fmt.Errorf("persist player %s: %w", p.ID, err)
		}
	}

	for playerID, logs := range ds.Logs {
		for i := range logs {
			if err := o.gameLogStore.Insert(ctx, &logs[i]); err != nil {
				if errors.Is(err, storage.ErrDuplicateKey) {
					continue
				}
				return fmt.Errorf("persist game log for %s: %w", playerID, err)
			}
		}
	}
	return nil
}

// tierPool ranks the loaded pool and assigns tiers.
func (o *Orchestrator) tierPool(ds *loader.Dataset) ([]tiers.PlayerTier, error) {
	players := make([]domain.Player, len(ds.Players))
	for i, p := range ds.Players {
		players[i] = *p
	}
	return tiers.TierPlayers(players, ds.Logs, o.filters)
}

// buildRosters resolves configured rosters against the loaded pool, or
// assembles a default roster from the top of the tiered pool when none
// are configured.
func (o *Orchestrator) buildRosters(ds *loader.Dataset, playerTiers []tiers.PlayerTier) ([]*domain.Roster, error) {
	if len(o.rosterConfigs) == 0 {
		r, err := rosterFromTiers(playerTiers, DefaultRosterSize)
		if err != nil {
			return nil, err
		}
		return []*domain.Roster{r}, nil
	}

	byID := make(map[string]domain.Player, len(ds.Players))
	for _, p := range ds.Players {
		byID[p.ID] = *p
	}

	rosters := make([]*domain.Roster, 0, len(o.rosterConfigs))
	for _, rc := range o.rosterConfigs {
		roster := &domain.Roster{Name: rc.Name}
		for _, id := range rc.Players {
			p, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("roster %s: player %q not in the loaded pool", rc.Name, id)
			}
			roster.Slots = append(roster.Slots, domain.RosterSlot{
				Player:  p,
				Captain: id == rc.Captain,
			})
		}
		rosters = append(rosters, roster)
	}
	return rosters, nil
}

// rosterFromTiers takes the top players of the tiered pool, captaining
// the highest-ranked one. PlayerTiers arrive sorted by MeanFP
// descending, so the slice head is the strongest squad available.
func rosterFromTiers(playerTiers []tiers.PlayerTier, size int) (*domain.Roster, error) {
	if len(playerTiers) == 0 {
		return nil, errors.New("tiered pool is empty, cannot build a default roster")
	}
	if size > len(playerTiers) {
		size = len(playerTiers)
	}

	roster := &domain.Roster{Name: "tiered-xi"}
	for i := 0; i < size; i++ {
		roster.Slots = append(roster.Slots, domain.RosterSlot{
			Player:  playerTiers[i].Player,
			Captain: i == 0,
		})
	}
	return roster, nil
}

// runSimulations runs one batch per roster, summarizes it, and
// persists both the trial results and the summary.
func (o *Orchestrator) runSimulations(ctx context.Context, ds *loader.Dataset, rosters []*domain.Roster) (int, int, []string) {
	opts := simulation.Options{
		Resolver: resolve.NewEmpiricalResolver(ds.Logs),
		Scorer:   scoring.NewFPLScorer(o.benchmarkFP),
		Workers:  o.workers,
	}
	if o.rules != nil {
		opts.Bonus = o.rules
	}
	runner, err := simulation.NewRunner(opts)
	if err != nil {
		return 0, 0, []string{fmt.Sprintf("create runner: %v", err)}
	}

	var (
		trials    int
		summaries int
		errs      []string
	)

	for _, roster := range rosters {
		batchStart := time.Now()
		results, err := runner.Run(ctx, roster, o.totalRuns, o.seedSpec)
		if err != nil {
			var trialErr *simulation.TrialError
			if errors.As(err, &trialErr) {
				observability.RecordTrialFailure()
			}
			errs = append(errs, fmt.Sprintf("simulate %s: %v", roster.Name, err))
			continue
		}
		trials += len(results)
		observability.RecordTrials(len(results))
		observability.RecordRunCompleted(string(o.seedSpec.Mode), time.Since(batchStart).Seconds())

		if err := o.persistBatch(ctx, results); err != nil {
			errs = append(errs, fmt.Sprintf("persist batch %s: %v", roster.Name, err))
			continue
		}

		sum, err := summary.Summarize(results, o.currentThresholds, o.filters.TierCutoffs)
		if err != nil {
			errs = append(errs, fmt.Sprintf("summarize %s: %v", roster.Name, err))
			continue
		}
		if err := o.summaryStore.Insert(ctx, sum); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			errs = append(errs, fmt.Sprintf("persist summary %s: %v", roster.Name, err))
			continue
		}
		summaries++
		observability.RecordSummaryComputed()
	}

	return trials, summaries, errs
}

// persistBatch writes one run batch of trial results. A duplicate run
// ID means an identical batch was already stored and is not an error.
func (o *Orchestrator) persistBatch(ctx context.Context, results []domain.SimulationResult) error {
	rows := make([]*domain.SimulationResult, len(results))
	for i := range results {
		rows[i] = &results[i]
	}
	if err := o.resultStore.InsertBulk(ctx, rows); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil
		}
		return err
	}
	return nil
}

// countLogs totals the per-player log slices.
func countLogs(logs map[string][]domain.GameLog) int {
	n := 0
	for _, l := range logs {
		n += len(l)
	}
	return n
}

// log prints verbose output if enabled.
func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
