package match

import (
	"time"
)

// State is the lifecycle state of a match.
type State string

const (
	StateScheduled State = "SCHEDULED"
	StateStarted   State = "STARTED"
	StateCompleted State = "COMPLETED"
	StateCancelled State = "CANCELLED"
)

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StateScheduled, StateStarted, StateCompleted, StateCancelled:
		return true
	}
	return false
}

// Locked reports whether team assignments are frozen.
func (s State) Locked() bool {
	return s == StateStarted || s == StateCompleted
}

// Team is a side of a match. TeamNone means unassigned.
type Team string

const (
	TeamNone Team = ""
	TeamA    Team = "A"
	TeamB    Team = "B"
)

func (t Team) Valid() bool {
	return t == TeamNone || t == TeamA || t == TeamB
}

// Opponent returns the other side. TeamNone has no opponent.
func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	}
	return TeamNone
}

// Kind is the kind of a statistic event.
type Kind string

const (
	KindGoal    Kind = "goal"
	KindOwnGoal Kind = "own_goal"
	KindSave    Kind = "save"
	KindAssist  Kind = "assist"
)

func (k Kind) Valid() bool {
	switch k {
	case KindGoal, KindOwnGoal, KindSave, KindAssist:
		return true
	}
	return false
}

// Match is a scheduled game of a club.
type Match struct {
	ID                 string    `json:"id"`
	ClubID             string    `json:"club_id"`
	ScheduledAt        time.Time `json:"scheduled_at"`
	Venue              string    `json:"venue"`
	State              State     `json:"state"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Participant is a club member's seat in one match.
type Participant struct {
	ID         string `json:"id"`
	MatchID    string `json:"match_id"`
	PersonID   string `json:"person_id"`
	PersonName string `json:"person_name"`
	// Confirmed is nil until the member responds.
	Confirmed *bool `json:"confirmed"`
	Team      Team  `json:"team"`
}

// IsConfirmed reports whether the member said they will attend.
func (p Participant) IsConfirmed() bool {
	return p.Confirmed != nil && *p.Confirmed
}

// StatisticEvent is an immutable entry of the match log.
type StatisticEvent struct {
	ID                  string    `json:"id"`
	MatchID             string    `json:"match_id"`
	ParticipantID       string    `json:"participant_id"`
	Kind                Kind      `json:"kind"`
	Team                Team      `json:"team"`
	AssistParticipantID string    `json:"assist_participant_id,omitempty"`
	RecordedAt          time.Time `json:"recorded_at"`
}

// Score is the derived score of a match.
type Score struct {
	A int `json:"a"`
	B int `json:"b"`
}

// For returns the score of team.
func (s Score) For(team Team) int {
	switch team {
	case TeamA:
		return s.A
	case TeamB:
		return s.B
	}
	return 0
}

// Transition reports a lifecycle change. Changed is false for idempotent calls.
type Transition struct {
	MatchID string `json:"match_id"`
	From    State  `json:"from"`
	To      State  `json:"to"`
	Changed bool   `json:"changed"`
}

// Assignment is one participant's team on a board.
type Assignment struct {
	ParticipantID string `json:"participant_id"`
	Team          Team   `json:"team"`
}

// RecordInput is the input for RecordStatistic.
type RecordInput struct {
	MatchID             string `json:"match_id"`
	ParticipantID       string `json:"participant_id"`
	Kind                Kind   `json:"kind"`
	AssistParticipantID string `json:"assist_participant_id,omitempty"`
}

// RecordResult is what RecordStatistic produced. When AutoStarted is true the
// match was moved to STARTED before the event was appended.
type RecordResult struct {
	Event       StatisticEvent `json:"event"`
	Score       Score          `json:"score"`
	AutoStarted bool           `json:"auto_started"`
	Transition  *Transition    `json:"transition,omitempty"`
}

// ScheduleInput is the input for ScheduleMatch. When is RFC3339 or free text
// such as "next saturday at 10am".
type ScheduleInput struct {
	When  string `json:"when"`
	Venue string `json:"venue"`
}

// Scoreboard is everything the live match screen shows.
type Scoreboard struct {
	Match      Match            `json:"match"`
	TeamA      []Participant    `json:"team_a"`
	TeamB      []Participant    `json:"team_b"`
	Unassigned []Participant    `json:"unassigned"`
	Events     []StatisticEvent `json:"events"`
	Score      Score            `json:"score"`
}

// PlayerStats is one row of the leaderboard.
type PlayerStats struct {
	PersonID    string  `json:"person_id"`
	PersonName  string  `json:"person_name"`
	Goals       int     `json:"goals"`
	OwnGoals    int     `json:"own_goals"`
	Saves       int     `json:"saves"`
	Assists     int     `json:"assists"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Draws       int     `json:"draws"`
	Losses      int     `json:"losses"`
	Points      float64 `json:"points"`
}

// LifecycleEvent is published on every transition and recorded statistic.
type LifecycleEvent struct {
	Type       string `msgpack:"type" json:"type"`
	ClubID     string `msgpack:"club_id" json:"club_id"`
	MatchID    string `msgpack:"match_id" json:"match_id"`
	From       State  `msgpack:"from,omitempty" json:"from,omitempty"`
	To         State  `msgpack:"to,omitempty" json:"to,omitempty"`
	Kind       Kind   `msgpack:"kind,omitempty" json:"kind,omitempty"`
	ScoreA     int    `msgpack:"score_a" json:"score_a"`
	ScoreB     int    `msgpack:"score_b" json:"score_b"`
	Reason     string `msgpack:"reason,omitempty" json:"reason,omitempty"`
	OccurredAt int64  `msgpack:"occurred_at" json:"occurred_at"`
}
