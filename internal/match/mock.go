package match

import (
	"context"
	"fmt"
	"sync"

	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/session"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use. Getters without a spy report apperr.ErrNotFound.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateMatchFunc                func(ctx context.Context, sess session.Session, m *Match) ([]Participant, error)
	GetMatchFunc                   func(ctx context.Context, sess session.Session, matchID string) (*Match, error)
	ListMatchesFunc                func(ctx context.Context, sess session.Session, state State) ([]Match, error)
	UpdateMatchStateFunc           func(ctx context.Context, sess session.Session, matchID string, from, to State) error
	CancelMatchFunc                func(ctx context.Context, sess session.Session, matchID, reason string) error
	ListParticipantsFunc           func(ctx context.Context, sess session.Session, matchID string, confirmedOnly bool) ([]Participant, error)
	ListParticipantsForMatchesFunc func(ctx context.Context, sess session.Session, matchIDs []string) ([]Participant, error)
	GetParticipantFunc             func(ctx context.Context, sess session.Session, participantID string) (*Participant, error)
	GetParticipantByPersonFunc     func(ctx context.Context, sess session.Session, matchID, personID string) (*Participant, error)
	SetConfirmationFunc            func(ctx context.Context, sess session.Session, participantID string, confirmed bool) error
	SaveTeamsFunc                  func(ctx context.Context, sess session.Session, matchID string, assignments []Assignment) error
	InsertStatisticFunc            func(ctx context.Context, sess session.Session, e *StatisticEvent, startFrom State) error
	GetStatisticFunc               func(ctx context.Context, sess session.Session, eventID string) (*StatisticEvent, error)
	DeleteStatisticFunc            func(ctx context.Context, sess session.Session, eventID string) error
	ListStatisticsFunc             func(ctx context.Context, sess session.Session, matchIDs ...string) ([]StatisticEvent, error)
	CountStatisticsFunc            func(ctx context.Context, sess session.Session, matchID string) (int, error)

	// Call records
	UpdateMatchStateCalls []StateChange
	CancelMatchCalls      []string
	SaveTeamsCalls        [][]Assignment
	InsertStatisticCalls  []StatisticEvent
	DeleteStatisticCalls  []string
}

// StateChange holds the arguments for a call to UpdateMatchState.
type StateChange struct {
	MatchID string
	From    State
	To      State
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateMatchStateCalls = nil
	m.CancelMatchCalls = nil
	m.SaveTeamsCalls = nil
	m.InsertStatisticCalls = nil
	m.DeleteStatisticCalls = nil
}

func (m *MockStore) CreateMatch(ctx context.Context, sess session.Session, match *Match) ([]Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(ctx, sess, match)
	}
	return nil, nil
}

func (m *MockStore) GetMatch(ctx context.Context, sess session.Session, matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(ctx, sess, matchID)
	}
	return nil, fmt.Errorf("match %s: %w", matchID, apperr.ErrNotFound)
}

func (m *MockStore) ListMatches(ctx context.Context, sess session.Session, state State) ([]Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(ctx, sess, state)
	}
	return nil, nil
}

func (m *MockStore) UpdateMatchState(ctx context.Context, sess session.Session, matchID string, from, to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateMatchStateCalls = append(m.UpdateMatchStateCalls, StateChange{MatchID: matchID, From: from, To: to})
	if m.UpdateMatchStateFunc != nil {
		return m.UpdateMatchStateFunc(ctx, sess, matchID, from, to)
	}
	return nil
}

func (m *MockStore) CancelMatch(ctx context.Context, sess session.Session, matchID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelMatchCalls = append(m.CancelMatchCalls, matchID)
	if m.CancelMatchFunc != nil {
		return m.CancelMatchFunc(ctx, sess, matchID, reason)
	}
	return nil
}

func (m *MockStore) ListParticipants(ctx context.Context, sess session.Session, matchID string, confirmedOnly bool) ([]Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListParticipantsFunc != nil {
		return m.ListParticipantsFunc(ctx, sess, matchID, confirmedOnly)
	}
	return nil, nil
}

func (m *MockStore) ListParticipantsForMatches(ctx context.Context, sess session.Session, matchIDs []string) ([]Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListParticipantsForMatchesFunc != nil {
		return m.ListParticipantsForMatchesFunc(ctx, sess, matchIDs)
	}
	return nil, nil
}

func (m *MockStore) GetParticipant(ctx context.Context, sess session.Session, participantID string) (*Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetParticipantFunc != nil {
		return m.GetParticipantFunc(ctx, sess, participantID)
	}
	return nil, fmt.Errorf("participant %s: %w", participantID, apperr.ErrNotFound)
}

func (m *MockStore) GetParticipantByPerson(ctx context.Context, sess session.Session, matchID, personID string) (*Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetParticipantByPersonFunc != nil {
		return m.GetParticipantByPersonFunc(ctx, sess, matchID, personID)
	}
	return nil, fmt.Errorf("member %s: %w", personID, apperr.ErrNotFound)
}

func (m *MockStore) SetConfirmation(ctx context.Context, sess session.Session, participantID string, confirmed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetConfirmationFunc != nil {
		return m.SetConfirmationFunc(ctx, sess, participantID, confirmed)
	}
	return nil
}

func (m *MockStore) SaveTeams(ctx context.Context, sess session.Session, matchID string, assignments []Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveTeamsCalls = append(m.SaveTeamsCalls, assignments)
	if m.SaveTeamsFunc != nil {
		return m.SaveTeamsFunc(ctx, sess, matchID, assignments)
	}
	return nil
}

func (m *MockStore) InsertStatistic(ctx context.Context, sess session.Session, e *StatisticEvent, startFrom State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertStatisticCalls = append(m.InsertStatisticCalls, *e)
	if m.InsertStatisticFunc != nil {
		return m.InsertStatisticFunc(ctx, sess, e, startFrom)
	}
	return nil
}

func (m *MockStore) GetStatistic(ctx context.Context, sess session.Session, eventID string) (*StatisticEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetStatisticFunc != nil {
		return m.GetStatisticFunc(ctx, sess, eventID)
	}
	return nil, fmt.Errorf("statistic %s: %w", eventID, apperr.ErrNotFound)
}

func (m *MockStore) DeleteStatistic(ctx context.Context, sess session.Session, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteStatisticCalls = append(m.DeleteStatisticCalls, eventID)
	if m.DeleteStatisticFunc != nil {
		return m.DeleteStatisticFunc(ctx, sess, eventID)
	}
	return nil
}

func (m *MockStore) ListStatistics(ctx context.Context, sess session.Session, matchIDs ...string) ([]StatisticEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListStatisticsFunc != nil {
		return m.ListStatisticsFunc(ctx, sess, matchIDs...)
	}
	return nil, nil
}

func (m *MockStore) CountStatistics(ctx context.Context, sess session.Session, matchID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CountStatisticsFunc != nil {
		return m.CountStatisticsFunc(ctx, sess, matchID)
	}
	return 0, nil
}
