// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Data metrics
	PlayersLoaded  prometheus.Gauge
	GameLogsLoaded prometheus.Gauge

	// Simulation metrics
	TrialsSimulated    prometheus.Counter
	RunsCompleted      *prometheus.CounterVec
	RunDuration        *prometheus.HistogramVec
	TrialFailures      prometheus.Counter
	SummariesComputed  prometheus.Counter
	ReportsGenerated   prometheus.Counter

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulPipeline prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "fantasy_roster_lab"
	}

	return &Metrics{
		// Data metrics
		PlayersLoaded: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "data",
			Name:      "players_loaded",
			Help:      "Number of eligible players in the current pool",
		}),
		GameLogsLoaded: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "data",
			Name:      "game_logs_loaded",
			Help:      "Number of eligible game logs in the current pool",
		}),

		// Simulation metrics
		TrialsSimulated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trials_simulated_total",
			Help:      "Total number of Monte Carlo trials executed",
		}),
		RunsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "runs_completed_total",
			Help:      "Total number of run batches completed by seed mode",
		}, []string{"seed_mode"}),
		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "run_duration_seconds",
			Help:      "Run batch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"seed_mode"}),
		TrialFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trial_failures_total",
			Help:      "Total number of aborted run batches due to trial errors",
		}),
		SummariesComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "summaries_computed_total",
			Help:      "Total number of batch summaries computed",
		}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// Pipeline metrics
		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by phase and status",
		}, []string{"phase", "status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline phase duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulPipeline: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_pipeline_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTrials adds a completed batch's trial count.
func RecordTrials(n int) {
	DefaultMetrics.TrialsSimulated.Add(float64(n))
}

// RecordRunCompleted records one finished run batch.
func RecordRunCompleted(seedMode string, durationSeconds float64) {
	DefaultMetrics.RunsCompleted.WithLabelValues(seedMode).Inc()
	DefaultMetrics.RunDuration.WithLabelValues(seedMode).Observe(durationSeconds)
}

// RecordTrialFailure records an aborted run batch.
func RecordTrialFailure() {
	DefaultMetrics.TrialFailures.Inc()
}

// RecordSummaryComputed increments the summaries computed counter.
func RecordSummaryComputed() {
	DefaultMetrics.SummariesComputed.Inc()
}

// RecordReportGenerated increments the reports generated counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}

// UpdatePoolSizes updates the loaded players and game logs gauges.
func UpdatePoolSizes(players, gameLogs int) {
	DefaultMetrics.PlayersLoaded.Set(float64(players))
	DefaultMetrics.GameLogsLoaded.Set(float64(gameLogs))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordPipelineRun records a pipeline run.
func RecordPipelineRun(phase, status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(phase, status).Inc()
	DefaultMetrics.PipelineDuration.WithLabelValues(phase).Observe(durationSeconds)
}
