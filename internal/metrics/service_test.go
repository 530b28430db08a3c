package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestServiceCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncMatchTransitions("STARTED")
	s.IncMatchTransitions("STARTED")
	s.IncMatchTransitions("COMPLETED")
	s.IncStatisticsRecorded("goal")
	s.IncDomainErrors("locked_match")
	s.IncDuesGenerated(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(s.MatchTransitions.WithLabelValues("STARTED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.MatchTransitions.WithLabelValues("COMPLETED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.StatisticsRecorded.WithLabelValues("goal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.DomainErrors.WithLabelValues("locked_match")))
	assert.Equal(t, 3.0, testutil.ToFloat64(s.DuesGenerated))
}

func TestServiceRegistersOnCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncMatchesScheduled()

	families, err := reg.Gather()
	assert.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "clubhouse_matches_scheduled_total")
}
