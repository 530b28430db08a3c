package processor

import (
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/notifier"
)

// Processor turns lifecycle events into announcements and activity counters.
type Processor struct {
	matches  Matches
	notifier notifier.Notifier
	metrics  metrics.Metrics
	activity metrics.ActivityStore
}

// Activity counter keys.
const (
	ActivityMatchesStarted   = "matches_started"
	ActivityMatchesCompleted = "matches_completed"
	ActivityMatchesCancelled = "matches_cancelled"
	activityStatisticPrefix  = "statistics_"
)
