// Package config loads the lab configuration from YAML with .env
// overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"fantasy-roster-lab/internal/achievements"
	"fantasy-roster-lab/internal/domain"
	"fantasy-roster-lab/internal/seed"
)

// Config is the complete lab configuration.
type Config struct {
	Simulation SimulationConfig    `yaml:"simulation"`
	Filters    FiltersConfig       `yaml:"filters"`
	Tiers      TiersConfig         `yaml:"tiers"`
	Rules      []achievements.Rule `yaml:"achievement_rules"`
	Rosters    []RosterConfig      `yaml:"rosters"`
	Data       DataConfig          `yaml:"data"`
	Storage    StorageConfig       `yaml:"storage"`
	Server     ServerConfig        `yaml:"server"`
}

// SimulationConfig controls run batches.
type SimulationConfig struct {
	TotalRuns   int     `yaml:"total_runs"`
	Workers     int     `yaml:"workers"`
	SeedMode    string  `yaml:"seed_mode"` // FIXED | TIME | SESSION
	FixedSeed   int64   `yaml:"fixed_seed"`
	SessionID   string  `yaml:"session_id"`
	BenchmarkFP float64 `yaml:"benchmark_fp"` // score a roster must reach to count a trial as won
}

// FiltersConfig gates which historical logs and players are eligible.
type FiltersConfig struct {
	MinMinutesPlayed     int      `yaml:"min_minutes_played"`
	MinMatchesPlayed     int      `yaml:"min_matches_played"`
	SeasonsIncluded      []int    `yaml:"seasons_included"`
	CompetitionsIncluded []string `yaml:"competitions_included"`
}

// TiersConfig carries cutoff fractions and the operator-set thresholds
// the recommendation engine compares against.
type TiersConfig struct {
	Cutoffs           domain.TierCutoffs    `yaml:"cutoffs"`
	CurrentThresholds domain.TierThresholds `yaml:"current_thresholds"`
}

// RosterConfig names a team to simulate. Players are IDs from the
// dataset, in roster order. An empty rosters list means the pipeline
// builds one from the top of the tiered pool instead.
type RosterConfig struct {
	Name    string   `yaml:"name"`
	Players []string `yaml:"players"`
	Captain string   `yaml:"captain"` // player ID; empty means no captain
}

// DataConfig locates the processed player dataset.
type DataConfig struct {
	PlayersPath string `yaml:"players_path"`
}

// StorageConfig holds database DSNs.
type StorageConfig struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads the YAML config at path, applies .env overrides and
// defaults, and validates the result. Env values win over YAML for the
// keys they cover.
func Load(path string) (*Config, error) {
	// Load .env if present; its absence is not an error.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config load: parse yaml: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	return &cfg, nil
}

// SeedSpec builds the seed derivation inputs from the config.
func (c *Config) SeedSpec() (seed.Spec, error) {
	mode, err := seed.ParseMode(c.Simulation.SeedMode)
	if err != nil {
		return seed.Spec{}, err
	}
	return seed.Spec{
		Mode:      mode,
		FixedSeed: c.Simulation.FixedSeed,
		SessionID: c.Simulation.SessionID,
	}, nil
}

// DataFilters builds the domain filter set from the config.
func (c *Config) DataFilters() domain.DataFilters {
	return domain.DataFilters{
		MinMinutesPlayed:     c.Filters.MinMinutesPlayed,
		MinMatchesPlayed:     c.Filters.MinMatchesPlayed,
		SeasonsIncluded:      c.Filters.SeasonsIncluded,
		CompetitionsIncluded: c.Filters.CompetitionsIncluded,
		TierCutoffs:          c.Tiers.Cutoffs,
	}
}

// RuleSet builds the validated achievement rule set.
func (c *Config) RuleSet() (*achievements.RuleSet, error) {
	return achievements.NewRuleSet(c.Rules)
}

// Validate checks cross-field consistency beyond what defaults repair.
func (c *Config) Validate() error {
	if c.Simulation.TotalRuns < 1 {
		return fmt.Errorf("simulation.total_runs must be at least 1, got %d", c.Simulation.TotalRuns)
	}
	if _, err := seed.ParseMode(c.Simulation.SeedMode); err != nil {
		return err
	}
	if err := c.Tiers.Cutoffs.Validate(); err != nil {
		return err
	}
	if _, err := achievements.NewRuleSet(c.Rules); err != nil {
		return err
	}
	for i, r := range c.Rosters {
		if r.Name == "" {
			return fmt.Errorf("rosters[%d]: name is required", i)
		}
		if len(r.Players) == 0 {
			return fmt.Errorf("rosters[%d] (%s): at least one player is required", i, r.Name)
		}
		if r.Captain != "" && !containsString(r.Players, r.Captain) {
			return fmt.Errorf("rosters[%d] (%s): captain %q is not in the player list", i, r.Name, r.Captain)
		}
	}
	return nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// applyEnvOverrides overwrites values from environment variables when present.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		cfg.Storage.ClickhouseDSN = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SEED_MODE"); v != "" {
		cfg.Simulation.SeedMode = v
	}
	if v := os.Getenv("SESSION_ID"); v != "" {
		cfg.Simulation.SessionID = v
	}
	if v := os.Getenv("TOTAL_RUNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Simulation.TotalRuns = n
		}
	}
}

// setDefaults fills required values that the YAML omitted.
func setDefaults(cfg *Config) {
	if cfg.Simulation.TotalRuns <= 0 {
		cfg.Simulation.TotalRuns = 1000
	}
	if cfg.Simulation.Workers <= 0 {
		cfg.Simulation.Workers = runtime.NumCPU()
	}
	if cfg.Simulation.SeedMode == "" {
		cfg.Simulation.SeedMode = string(seed.ModeFixed)
	}
	if cfg.Simulation.FixedSeed == 0 {
		cfg.Simulation.FixedSeed = seed.DefaultFixedSeed
	}
	if cfg.Simulation.SessionID == "" {
		cfg.Simulation.SessionID = seed.DefaultSessionID
	}
	if cfg.Simulation.BenchmarkFP <= 0 {
		cfg.Simulation.BenchmarkFP = 50
	}
	if cfg.Tiers.Cutoffs == (domain.TierCutoffs{}) {
		cfg.Tiers.Cutoffs = domain.DefaultTierCutoffs()
	}
	if len(cfg.Rules) == 0 {
		cfg.Rules = achievements.DefaultRules()
	}
	if cfg.Data.PlayersPath == "" {
		cfg.Data.PlayersPath = "data/players.json"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if len(cfg.Filters.CompetitionsIncluded) == 0 {
		cfg.Filters.CompetitionsIncluded = []string{domain.CompetitionEPL}
	}
}
