package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/clubhouse/internal/match"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Optional error returned by every Send method
	Err error

	// Call records
	SendTeamSheetCalls      []*match.Scoreboard
	SendScoreUpdateCalls    []*match.Scoreboard
	SendMatchResultCalls    []*match.Scoreboard
	SendMatchCancelledCalls []*match.Match
	SendLeaderboardCalls    [][]match.PlayerStats
	DryRuns                 []bool
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendTeamSheetCalls = nil
	m.SendScoreUpdateCalls = nil
	m.SendMatchResultCalls = nil
	m.SendMatchCancelledCalls = nil
	m.SendLeaderboardCalls = nil
	m.DryRuns = nil
}

func (m *Mock) SendTeamSheet(_ context.Context, sb *match.Scoreboard, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendTeamSheetCalls = append(m.SendTeamSheetCalls, sb)
	m.DryRuns = append(m.DryRuns, dryRun)
	return m.Err
}

func (m *Mock) SendScoreUpdate(_ context.Context, sb *match.Scoreboard, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendScoreUpdateCalls = append(m.SendScoreUpdateCalls, sb)
	m.DryRuns = append(m.DryRuns, dryRun)
	return m.Err
}

func (m *Mock) SendMatchResult(_ context.Context, sb *match.Scoreboard, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchResultCalls = append(m.SendMatchResultCalls, sb)
	m.DryRuns = append(m.DryRuns, dryRun)
	return m.Err
}

func (m *Mock) SendMatchCancelled(_ context.Context, mt *match.Match, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchCancelledCalls = append(m.SendMatchCancelledCalls, mt)
	m.DryRuns = append(m.DryRuns, dryRun)
	return m.Err
}

func (m *Mock) SendLeaderboard(_ context.Context, stats []match.PlayerStats, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, stats)
	m.DryRuns = append(m.DryRuns, dryRun)
	return m.Err
}
