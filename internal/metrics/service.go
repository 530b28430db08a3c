package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MatchesScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubhouse_matches_scheduled_total",
			Help: "The total number of matches scheduled.",
		}),
		MatchTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhouse_match_transitions_total",
			Help: "The total number of match lifecycle transitions, by target state.",
		}, []string{"to"}),
		AutoStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubhouse_match_auto_starts_total",
			Help: "The total number of matches started by recording their first statistic.",
		}),
		TeamsRandomized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubhouse_teams_randomized_total",
			Help: "The total number of random team draws.",
		}),
		StatisticsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhouse_statistics_recorded_total",
			Help: "The total number of statistic events recorded, by kind.",
		}, []string{"kind"}),
		DomainErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clubhouse_domain_errors_total",
			Help: "The total number of errors returned to callers, by kind.",
		}, []string{"kind"}),
		DuesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubhouse_dues_generated_total",
			Help: "The total number of monthly dues created.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clubhouse_event_processing_duration_seconds",
			Help:    "The duration of individual lifecycle event processing.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubhouse_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clubhouse_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clubhouse_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.MatchesScheduled,
		s.MatchTransitions,
		s.AutoStarts,
		s.TeamsRandomized,
		s.StatisticsRecorded,
		s.DomainErrors,
		s.DuesGenerated,
		s.ProcessingDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncMatchesScheduled() {
	s.MatchesScheduled.Inc()
}

func (s *Service) IncMatchTransitions(to string) {
	s.MatchTransitions.WithLabelValues(to).Inc()
}

func (s *Service) IncAutoStarts() {
	s.AutoStarts.Inc()
}

func (s *Service) IncTeamsRandomized() {
	s.TeamsRandomized.Inc()
}

func (s *Service) IncStatisticsRecorded(kind string) {
	s.StatisticsRecorded.WithLabelValues(kind).Inc()
}

func (s *Service) IncDomainErrors(kind string) {
	s.DomainErrors.WithLabelValues(kind).Inc()
}

func (s *Service) IncDuesGenerated(n int) {
	s.DuesGenerated.Add(float64(n))
}

func (s *Service) ObserveProcessingDuration(duration float64) {
	s.ProcessingDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
