package metrics

import (
	"database/sql"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Service holds all the Prometheus metrics for the application.
type Service struct {
	MatchesScheduled   prometheus.Counter
	MatchTransitions   *prometheus.CounterVec
	AutoStarts         prometheus.Counter
	TeamsRandomized    prometheus.Counter
	StatisticsRecorded *prometheus.CounterVec
	DomainErrors       *prometheus.CounterVec
	DuesGenerated      prometheus.Counter
	ProcessingDuration prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// store handles activity counter database operations.
type store struct {
	db *sql.DB
	mu sync.Mutex
}
