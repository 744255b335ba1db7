// Package simulation drives Monte Carlo run batches over a roster.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"fantasy-roster-lab/internal/achievements"
	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/resolve"
	"fantasy-roster-lab/internal/runid"
	"fantasy-roster-lab/internal/scoring"
	"fantasy-roster-lab/internal/seed"
)

// Runner errors
var (
	ErrInvalidRunCount = errors.New("total runs must be at least 1")
	ErrNoResolver      = errors.New("resolver is required")
	ErrNoScorer        = errors.New("scorer is required")
)

// TrialError attributes a resolver failure to its trial index. A
// failed trial aborts the whole batch: a silently dropped trial would
// skew rates and percentiles with no observable signal.
type TrialError struct {
	Trial int
	Err   error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("trial %d: %v", e.Trial, e.Err)
}

func (e *TrialError) Unwrap() error {
	return e.Err
}

// Runner executes independent trials and emits one result per trial.
type Runner struct {
	resolver resolve.Resolver
	scorer   scoring.Scorer
	bonus    achievements.Evaluator
	seeds    *seed.Deriver
	workers  int
}

// Options contains configuration for creating a Runner.
type Options struct {
	Resolver resolve.Resolver
	Scorer   scoring.Scorer

	// Bonus is optional; nil means no achievement bonuses.
	Bonus achievements.Evaluator

	// Seeds defaults to a system-clock deriver. Tests inject a fixed
	// clock here to make TIME mode reproducible.
	Seeds *seed.Deriver

	// Workers <= 0 uses runtime.NumCPU().
	Workers int
}

// NewRunner creates a simulation runner.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Resolver == nil {
		return nil, ErrNoResolver
	}
	if opts.Scorer == nil {
		return nil, ErrNoScorer
	}
	deriver := opts.Seeds
	if deriver == nil {
		deriver = seed.NewDeriver()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		resolver: opts.Resolver,
		scorer:   opts.Scorer,
		bonus:    opts.Bonus,
		seeds:    deriver,
		workers:  workers,
	}, nil
}

// Run executes totalRuns independent trials for the roster and returns
// their results ordered by trial index.
//
// The base seed is derived once from spec; per-trial seeds are
// precomputed before dispatch so result content never depends on
// worker scheduling. With FIXED or SESSION mode a rerun of the same
// batch is bit-identical per trial index; TIME mode is exempt by
// design. On any trial failure the batch is abandoned and a TrialError
// naming the failing index is returned instead of results.
func (r *Runner) Run(ctx context.Context, roster *domain.Roster, totalRuns int, spec seed.Spec) ([]domain.SimulationResult, error) {
	if totalRuns < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRunCount, totalRuns)
	}

	baseSeed, err := r.seeds.Compute(spec)
	if err != nil {
		return nil, err
	}
	run := runid.ForBatch(roster.Name, string(spec.Mode), baseSeed, totalRuns)

	// Seeds are fixed up front; workers only read them.
	trialSeeds := make([]uint32, totalRuns)
	for i := range trialSeeds {
		trialSeeds[i] = seed.ForTrial(baseSeed, i)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workCh := make(chan int)
	results := make([]domain.SimulationResult, totalRuns)

	var (
		mu       sync.Mutex
		firstErr *TrialError
	)
	fail := func(trial int, err error) {
		mu.Lock()
		defer mu.Unlock()
		// Keep the lowest failing index so the reported error does not
		// depend on completion order.
		if firstErr == nil || trial < firstErr.Trial {
			firstErr = &TrialError{Trial: trial, Err: err}
		}
		cancel()
	}

	var wg sync.WaitGroup
	workers := r.workers
	if workers > totalRuns {
		workers = totalRuns
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				if ctx.Err() != nil {
					return
				}
				res, err := r.runTrial(roster, run, i, trialSeeds[i])
				if err != nil {
					fail(i, err)
					return
				}
				// Each trial writes only its own slot.
				results[i] = res
			}
		}()
	}

feed:
	for i := 0; i < totalRuns; i++ {
		select {
		case workCh <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(workCh)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// runTrial resolves and scores one trial.
func (r *Runner) runTrial(roster *domain.Roster, run string, trial int, trialSeed uint32) (domain.SimulationResult, error) {
	resolutions, err := r.resolver.Resolve(roster, trialSeed)
	if err != nil {
		return domain.SimulationResult{}, err
	}

	teamFP := 0.0
	for _, res := range resolutions {
		teamFP += r.scorer.Points(res)
	}

	bonus := 0.0
	if r.bonus != nil {
		bonus = r.bonus.Bonus(resolutions)
	}
	teamFP += bonus

	return domain.SimulationResult{
		Trial:            trial,
		RunID:            run,
		Seed:             trialSeed,
		RosterName:       roster.Name,
		TeamFP:           teamFP,
		Won:              r.scorer.Won(teamFP, resolutions),
		AchievementBonus: bonus,
		Resolutions:      resolutions,
	}, nil
}
