package metrics

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shredder_outcomes_total",
		Help: "Per-post outcomes by kind",
	}, []string{"outcome"})
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shredder_run_duration_seconds",
		Help:    "Deletion batch duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shredder_api_requests_total",
		Help: "API requests by endpoint and status (0 = transport error)",
	}, []string{"endpoint", "status"})
	APIRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shredder_api_retries_total",
		Help: "Total API retry attempts",
	}, []string{"endpoint"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shredder_command_runs_total",
		Help: "CLI command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shredder_command_errors_total",
		Help: "CLI command failures",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(Outcomes, RunDuration, APIRequests, APIRetries, CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, mux) }()
}

// ObserveRunDuration records a batch duration.
func ObserveRunDuration(start time.Time) {
	RunDuration.Observe(time.Since(start).Seconds())
}

func IncOutcome(outcome string) { Outcomes.WithLabelValues(outcome).Inc() }

// IncAPIRetry increments the retry counter for an endpoint.
func IncAPIRetry(endpoint string) { APIRetries.WithLabelValues(endpoint).Inc() }

func ObserveAPIRequest(endpoint string, status int) {
	APIRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
