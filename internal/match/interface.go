package match

import (
	"context"

	"github.com/mauv0809/clubhouse/internal/session"
)

// Store is the persistence boundary of the match domain. Implementations
// enforce row-level authorization: rows of another club are reported as
// apperr.ErrNotFound and mutations the session may not perform as
// apperr.ErrForbidden. Storage failures wrap apperr.ErrTransientIO.
type Store interface {
	// CreateMatch inserts m and one unconfirmed participant per active member.
	CreateMatch(ctx context.Context, sess session.Session, m *Match) ([]Participant, error)
	GetMatch(ctx context.Context, sess session.Session, matchID string) (*Match, error)
	// ListMatches returns the club's matches ordered by date. An empty state matches all.
	ListMatches(ctx context.Context, sess session.Session, state State) ([]Match, error)
	// UpdateMatchState moves the match from one state to another. It fails with
	// apperr.ErrValidation when the match is no longer in from.
	UpdateMatchState(ctx context.Context, sess session.Session, matchID string, from, to State) error
	// CancelMatch cancels a scheduled match and clears every confirmation and team
	// in the same transaction.
	CancelMatch(ctx context.Context, sess session.Session, matchID, reason string) error

	ListParticipants(ctx context.Context, sess session.Session, matchID string, confirmedOnly bool) ([]Participant, error)
	ListParticipantsForMatches(ctx context.Context, sess session.Session, matchIDs []string) ([]Participant, error)
	GetParticipant(ctx context.Context, sess session.Session, participantID string) (*Participant, error)
	GetParticipantByPerson(ctx context.Context, sess session.Session, matchID, personID string) (*Participant, error)
	// SetConfirmation records a member's answer. Declining clears the team.
	SetConfirmation(ctx context.Context, sess session.Session, participantID string, confirmed bool) error
	// SaveTeams writes all assignments atomically. Either every row is updated or none.
	SaveTeams(ctx context.Context, sess session.Session, matchID string, assignments []Assignment) error

	// InsertStatistic appends e to the match log. When startFrom is set the match
	// is moved from startFrom to STARTED in the same transaction, so a failed
	// insert leaves the state untouched.
	InsertStatistic(ctx context.Context, sess session.Session, e *StatisticEvent, startFrom State) error
	GetStatistic(ctx context.Context, sess session.Session, eventID string) (*StatisticEvent, error)
	DeleteStatistic(ctx context.Context, sess session.Session, eventID string) error
	// ListStatistics returns the events of the given matches in recording order.
	ListStatistics(ctx context.Context, sess session.Session, matchIDs ...string) ([]StatisticEvent, error)
	CountStatistics(ctx context.Context, sess session.Session, matchID string) (int, error)
}

// Shuffler permutes n elements. *rand.Rand from math/rand/v2 satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}
