package metrics

import "context"

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncMatchesScheduled()
	IncMatchTransitions(to string)
	IncAutoStarts()
	IncTeamsRandomized()
	IncStatisticsRecorded(kind string)
	IncDomainErrors(kind string)
	IncDuesGenerated(n int)
	ObserveProcessingDuration(duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// ActivityStore keeps durable per-club counters that survive restarts,
// unlike the Prometheus series which reset with the process.
type ActivityStore interface {
	Increment(ctx context.Context, clubID, key string)
	GetAll(ctx context.Context, clubID string) (map[string]int, error)
}
