// Package main provides the unified lab server:
// - Pipeline (scheduled): loading → tiering → simulation → summary
// - HTTP API: health, status, Prometheus metrics
// - WebSocket: on-demand simulation runs streamed trial by trial
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"fantasy-roster-lab/internal/achievements"
	"fantasy-roster-lab/internal/config"
	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/loader"
	"fantasy-roster-lab/internal/observability"
	"fantasy-roster-lab/internal/orchestrator"
	"fantasy-roster-lab/internal/resolve"
	"fantasy-roster-lab/internal/scoring"
	"fantasy-roster-lab/internal/seed"
	"fantasy-roster-lab/internal/simulation"
	"fantasy-roster-lab/internal/storage"
	chstore "fantasy-roster-lab/internal/storage/clickhouse"
	"fantasy-roster-lab/internal/storage/memory"
	"fantasy-roster-lab/internal/storage/migrations"
	pgstore "fantasy-roster-lab/internal/storage/postgres"
	"fantasy-roster-lab/internal/summary"
)

// Server holds all components of the unified service.
type Server struct {
	cfg              *config.Config
	stores           *allStores
	pipelineInterval time.Duration
	logger           *log.Logger
	upgrader         websocket.Upgrader

	// State
	mu              sync.Mutex
	started         time.Time
	lastPipelineRun time.Time
	pipelineRunning bool
	pipelineRuns    int
}

// allStores holds all storage implementations.
type allStores struct {
	playerStore  storage.PlayerStore
	gameLogStore storage.GameLogStore
	resultStore  storage.ResultStore
	summaryStore storage.SummaryStore
}

func main() {
	// Parse flags
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration")
	pipelineInterval := flag.Duration("pipeline-interval", 1*time.Hour, "Pipeline run interval")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")
	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Load configuration (.env overrides applied inside)
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if !*useMemory && (cfg.Storage.PostgresDSN == "" || cfg.Storage.ClickhouseDSN == "") {
		logger.Fatal("postgres_dsn and clickhouse_dsn are required (use --use-memory for in-memory storage)")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create stores
	stores, cleanup, err := createStores(ctx, cfg, *useMemory)
	if err != nil {
		logger.Fatalf("create stores: %v", err)
	}
	defer cleanup()

	server := &Server{
		cfg:              cfg,
		stores:           stores,
		pipelineInterval: *pipelineInterval,
		logger:           logger,
		started:          time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()
	}()

	if err := server.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatalf("server error: %v", err)
	}
	logger.Println("Shutdown complete")
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

// Run starts the scheduler and the HTTP server and blocks until the
// context is cancelled or a component fails.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Println("Starting unified server...")

	errCh := make(chan error, 2)

	// Pipeline scheduler
	go func() {
		if err := s.runPipelineScheduler(ctx); err != nil && err != context.Canceled {
			errCh <- fmt.Errorf("pipeline scheduler: %w", err)
		}
	}()

	// HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/ws/simulate", s.handleSimulate)

	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: mux}
	go func() {
		s.logger.Printf("Starting HTTP server on %s", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Printf("HTTP shutdown error: %v", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// runPipelineScheduler runs the pipeline on schedule.
func (s *Server) runPipelineScheduler(ctx context.Context) error {
	s.logger.Printf("Starting pipeline scheduler (interval: %v)...", s.pipelineInterval)

	// Run immediately on start
	s.runPipeline(ctx)

	ticker := time.NewTicker(s.pipelineInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runPipeline(ctx)
		}
	}
}

// runPipeline executes one orchestrated pipeline pass.
func (s *Server) runPipeline(ctx context.Context) {
	s.mu.Lock()
	if s.pipelineRunning {
		s.mu.Unlock()
		s.logger.Println("Pipeline already running, skipping...")
		return
	}
	s.pipelineRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pipelineRunning = false
		s.lastPipelineRun = time.Now()
		s.pipelineRuns++
		s.mu.Unlock()
	}()

	s.logger.Println("Running pipeline...")
	start := time.Now()

	seedSpec, err := s.cfg.SeedSpec()
	if err != nil {
		s.logger.Printf("Pipeline error: %v", err)
		return
	}
	rules, err := s.cfg.RuleSet()
	if err != nil {
		s.logger.Printf("Pipeline error: %v", err)
		return
	}

	orch := orchestrator.New(orchestrator.Options{
		PlayerStore:       s.stores.playerStore,
		GameLogStore:      s.stores.gameLogStore,
		ResultStore:       s.stores.resultStore,
		SummaryStore:      s.stores.summaryStore,
		PlayersPath:       s.cfg.Data.PlayersPath,
		Filters:           s.cfg.DataFilters(),
		SeedSpec:          seedSpec,
		TotalRuns:         s.cfg.Simulation.TotalRuns,
		Workers:           s.cfg.Simulation.Workers,
		BenchmarkFP:       s.cfg.Simulation.BenchmarkFP,
		Rules:             rules,
		RosterConfigs:     s.cfg.Rosters,
		CurrentThresholds: s.cfg.Tiers.CurrentThresholds,
		Verbose:           true,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		s.logger.Printf("Pipeline error: %v", err)
		return
	}

	s.logger.Printf("Pipeline completed in %v: %d players, %d rosters, %d trials, %d summaries",
		time.Since(start), result.PlayersLoaded, result.RostersSimulated,
		result.TrialsExecuted, result.SummariesComputed)
}

// StatusResponse is the JSON response for the /status endpoint.
type StatusResponse struct {
	Status          string    `json:"status"`
	Uptime          string    `json:"uptime"`
	LastPipelineRun time.Time `json:"last_pipeline_run,omitempty"`
	PipelineRuns    int       `json:"pipeline_runs"`
	PipelineRunning bool      `json:"pipeline_running"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := StatusResponse{
		Status:          "running",
		Uptime:          time.Since(s.started).String(),
		LastPipelineRun: s.lastPipelineRun,
		PipelineRuns:    s.pipelineRuns,
		PipelineRunning: s.pipelineRunning,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// simulateRequest is the first message a websocket client sends.
type simulateRequest struct {
	Roster    string   `json:"roster"`
	Players   []string `json:"players"`
	Captain   string   `json:"captain"`
	TotalRuns int      `json:"totalRuns"`
	SeedMode  string   `json:"seedMode"`
	FixedSeed int64    `json:"fixedSeed"`
	SessionID string   `json:"sessionId"`
}

// trialMessage streams one trial outcome to the client.
type trialMessage struct {
	Type    string  `json:"type"` // "trial"
	Trial   int     `json:"trial"`
	Seed    uint32  `json:"seed"`
	TeamFP  float64 `json:"teamFp"`
	Won     bool    `json:"won"`
	Bonus   float64 `json:"bonus"`
	OfTotal int     `json:"ofTotal"`
}

// summaryMessage closes a streamed run.
type summaryMessage struct {
	Type    string                    `json:"type"` // "summary"
	Summary *domain.SimulationSummary `json:"summary"`
}

type errorMessage struct {
	Type  string `json:"type"` // "error"
	Error string `json:"error"`
}

// handleSimulate runs one batch for a websocket client and streams the
// trial outcomes followed by the summary.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	var req simulateRequest
	if err := conn.ReadJSON(&req); err != nil {
		s.writeWSError(conn, fmt.Sprintf("read request: %v", err))
		return
	}

	results, sum, err := s.simulateForClient(r.Context(), &req)
	if err != nil {
		s.writeWSError(conn, err.Error())
		return
	}

	for i := range results {
		msg := trialMessage{
			Type:    "trial",
			Trial:   results[i].Trial,
			Seed:    results[i].Seed,
			TeamFP:  results[i].TeamFP,
			Won:     results[i].Won,
			Bonus:   results[i].AchievementBonus,
			OfTotal: len(results),
		}
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Printf("websocket write: %v", err)
			return
		}
	}
	if err := conn.WriteJSON(summaryMessage{Type: "summary", Summary: sum}); err != nil {
		s.logger.Printf("websocket write: %v", err)
	}
}

// simulateForClient builds and runs one batch from a client request.
func (s *Server) simulateForClient(ctx context.Context, req *simulateRequest) ([]domain.SimulationResult, *domain.SimulationSummary, error) {
	if len(req.Players) == 0 {
		return nil, nil, fmt.Errorf("players list is empty")
	}

	mode, err := seed.ParseMode(strings.ToUpper(defaultString(req.SeedMode, string(seed.ModeFixed))))
	if err != nil {
		return nil, nil, err
	}
	spec := seed.Spec{
		Mode:      mode,
		FixedSeed: req.FixedSeed,
		SessionID: req.SessionID,
	}
	if spec.FixedSeed == 0 {
		spec.FixedSeed = s.cfg.Simulation.FixedSeed
	}
	if spec.SessionID == "" {
		spec.SessionID = s.cfg.Simulation.SessionID
	}
	totalRuns := req.TotalRuns
	if totalRuns <= 0 {
		totalRuns = s.cfg.Simulation.TotalRuns
	}

	dataset, err := loader.Load(s.cfg.Data.PlayersPath, s.cfg.DataFilters())
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}

	byID := make(map[string]domain.Player, len(dataset.Players))
	for _, p := range dataset.Players {
		byID[p.ID] = *p
	}
	roster := &domain.Roster{Name: defaultString(req.Roster, "ws-roster")}
	for _, id := range req.Players {
		p, ok := byID[id]
		if !ok {
			return nil, nil, fmt.Errorf("player %q not in the loaded pool", id)
		}
		roster.Slots = append(roster.Slots, domain.RosterSlot{
			Player:  p,
			Captain: id == req.Captain,
		})
	}

	var rules *achievements.RuleSet
	if rules, err = s.cfg.RuleSet(); err != nil {
		return nil, nil, err
	}

	runner, err := simulation.NewRunner(simulation.Options{
		Resolver: resolve.NewEmpiricalResolver(dataset.Logs),
		Scorer:   scoring.NewFPLScorer(s.cfg.Simulation.BenchmarkFP),
		Bonus:    rules,
		Workers:  s.cfg.Simulation.Workers,
	})
	if err != nil {
		return nil, nil, err
	}

	results, err := runner.Run(ctx, roster, totalRuns, spec)
	if err != nil {
		return nil, nil, err
	}
	observability.RecordTrials(len(results))

	sum, err := summary.Summarize(results, s.cfg.Tiers.CurrentThresholds, s.cfg.DataFilters().TierCutoffs)
	if err != nil {
		return nil, nil, err
	}
	return results, sum, nil
}

func (s *Server) writeWSError(conn *websocket.Conn, msg string) {
	if err := conn.WriteJSON(errorMessage{Type: "error", Error: msg}); err != nil {
		s.logger.Printf("websocket write: %v", err)
	}
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
