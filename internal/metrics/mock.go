package metrics

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	matchesScheduled    int
	transitions         map[string]int
	autoStarts          int
	teamsRandomized     int
	statisticsRecorded  map[string]int
	domainErrors        map[string]int
	duesGenerated       int
	processingDurations []float64
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		transitions:         make(map[string]int),
		statisticsRecorded:  make(map[string]int),
		domainErrors:        make(map[string]int),
		processingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncMatchesScheduled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesScheduled++
}

func (m *Mock) IncMatchTransitions(to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[to]++
}

func (m *Mock) IncAutoStarts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoStarts++
}

func (m *Mock) IncTeamsRandomized() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teamsRandomized++
}

func (m *Mock) IncStatisticsRecorded(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statisticsRecorded[kind]++
}

func (m *Mock) IncDomainErrors(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.domainErrors[kind]++
}

func (m *Mock) IncDuesGenerated(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duesGenerated += n
}

func (m *Mock) ObserveProcessingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processingDurations = append(m.processingDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// MatchesScheduled returns the number of times IncMatchesScheduled was called.
func (m *Mock) MatchesScheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesScheduled
}

// Transitions returns how often IncMatchTransitions was called with to.
func (m *Mock) Transitions(to string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitions[to]
}

func (m *Mock) AutoStarts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.autoStarts
}

func (m *Mock) TeamsRandomized() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teamsRandomized
}

// StatisticsRecorded returns how often IncStatisticsRecorded was called with kind.
func (m *Mock) StatisticsRecorded(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statisticsRecorded[kind]
}

// DomainErrors returns how often IncDomainErrors was called with kind.
func (m *Mock) DomainErrors(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.domainErrors[kind]
}

func (m *Mock) DuesGenerated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duesGenerated
}

// ProcessingDurations returns every observed duration.
func (m *Mock) ProcessingDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.processingDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// MockActivityStore is an in-memory ActivityStore for testing.
type MockActivityStore struct {
	mu       sync.Mutex
	counters map[string]map[string]int
}

func NewMockActivityStore() *MockActivityStore {
	return &MockActivityStore{counters: make(map[string]map[string]int)}
}

func (m *MockActivityStore) Increment(_ context.Context, clubID, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters[clubID] == nil {
		m.counters[clubID] = make(map[string]int)
	}
	m.counters[clubID][key]++
}

func (m *MockActivityStore) GetAll(_ context.Context, clubID string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counters[clubID]))
	for k, v := range m.counters[clubID] {
		out[k] = v
	}
	return out, nil
}
