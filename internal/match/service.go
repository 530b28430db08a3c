package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/pubsub"
	"github.com/mauv0809/clubhouse/internal/session"
	"github.com/olebedev/when"
)

// Service runs the match workflow: scheduling, presence, team sheets,
// lifecycle transitions and the statistic log.
type Service struct {
	store    Store
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient
	parser   *when.Parser
	now      func() time.Time
	shuffler Shuffler
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithShuffler fixes the random source used by RandomizeTeams.
func WithShuffler(sh Shuffler) Option {
	return func(s *Service) { s.shuffler = sh }
}

func NewService(store Store, m metrics.Metrics, ps pubsub.PubSubClient, opts ...Option) *Service {
	s := &Service{
		store:   store,
		metrics: m,
		pubsub:  ps,
		parser:  newWhenParser(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleMatch creates a match and invites every active member.
func (s *Service) ScheduleMatch(ctx context.Context, sess session.Session, in ScheduleInput) (*Match, []Participant, error) {
	venue := strings.TrimSpace(in.Venue)
	if venue == "" {
		return nil, nil, apperr.Invalid("a venue is required")
	}
	now := s.now()
	kickoff, err := parseKickoff(s.parser, in.When, now)
	if err != nil {
		return nil, nil, err
	}

	m := &Match{
		ID:          uuid.New().String(),
		ClubID:      sess.ClubID,
		ScheduledAt: kickoff,
		Venue:       venue,
		State:       StateScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	participants, err := s.store.CreateMatch(ctx, sess, m)
	if err != nil {
		return nil, nil, fmt.Errorf("schedule match: %w", err)
	}
	s.metrics.IncMatchesScheduled()
	log.Info("Scheduled match", "match_id", m.ID, "club_id", m.ClubID, "at", kickoff, "invited", len(participants))
	return m, participants, nil
}

func (s *Service) GetMatch(ctx context.Context, sess session.Session, matchID string) (*Match, error) {
	return s.store.GetMatch(ctx, sess, matchID)
}

func (s *Service) ListMatches(ctx context.Context, sess session.Session, state State) ([]Match, error) {
	if state != "" && !state.Valid() {
		return nil, apperr.Invalid("unknown match state %q", state)
	}
	return s.store.ListMatches(ctx, sess, state)
}

// ListParticipants returns everyone invited to the match with their answer.
func (s *Service) ListParticipants(ctx context.Context, sess session.Session, matchID string) ([]Participant, error) {
	if _, err := s.store.GetMatch(ctx, sess, matchID); err != nil {
		return nil, err
	}
	return s.store.ListParticipants(ctx, sess, matchID, false)
}

// Confirm records whether personID attends. Only possible while the match is scheduled.
func (s *Service) Confirm(ctx context.Context, sess session.Session, matchID, personID string, attending bool) (*Participant, error) {
	m, err := s.store.GetMatch(ctx, sess, matchID)
	if err != nil {
		return nil, err
	}
	if err := editable(m); err != nil {
		return nil, err
	}
	p, err := s.store.GetParticipantByPerson(ctx, sess, matchID, personID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetConfirmation(ctx, sess, p.ID, attending); err != nil {
		return nil, err
	}
	p.Confirmed = &attending
	if !attending {
		p.Team = TeamNone
	}
	log.Info("Recorded presence", "match_id", matchID, "person_id", personID, "attending", attending)
	return p, nil
}

// LoadBoard returns the team sheet of the match built from persisted assignments.
func (s *Service) LoadBoard(ctx context.Context, sess session.Session, matchID string) (*Board, error) {
	m, err := s.store.GetMatch(ctx, sess, matchID)
	if err != nil {
		return nil, err
	}
	participants, err := s.store.ListParticipants(ctx, sess, matchID, true)
	if err != nil {
		return nil, err
	}
	return NewBoard(*m, participants), nil
}

// PersistBoard saves every assignment on the board as one unit. The match
// state is read again first so a match started since LoadBoard is not edited.
func (s *Service) PersistBoard(ctx context.Context, sess session.Session, b *Board) error {
	m, err := s.store.GetMatch(ctx, sess, b.match.ID)
	if err != nil {
		return err
	}
	if err := editable(m); err != nil {
		return err
	}
	if err := s.store.SaveTeams(ctx, sess, m.ID, b.Assignments()); err != nil {
		return fmt.Errorf("save teams of match %s: %w", m.ID, err)
	}
	log.Info("Saved team sheet", "match_id", m.ID, "team_a", len(b.teamA), "team_b", len(b.teamB), "unassigned", len(b.unassigned))
	return nil
}

// AssignTeam loads the board, moves one participant and persists the result.
func (s *Service) AssignTeam(ctx context.Context, sess session.Session, matchID, participantID string, team Team) (*Board, error) {
	b, err := s.LoadBoard(ctx, sess, matchID)
	if err != nil {
		return nil, err
	}
	if err := b.Assign(participantID, team); err != nil {
		return nil, err
	}
	if err := s.PersistBoard(ctx, sess, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RandomizeTeams loads the board, draws new teams and persists them.
func (s *Service) RandomizeTeams(ctx context.Context, sess session.Session, matchID string) (*Board, error) {
	b, err := s.LoadBoard(ctx, sess, matchID)
	if err != nil {
		return nil, err
	}
	if err := b.Randomize(s.shuffler); err != nil {
		return nil, err
	}
	if err := s.PersistBoard(ctx, sess, b); err != nil {
		return nil, err
	}
	s.metrics.IncTeamsRandomized()
	return b, nil
}

// Start moves a scheduled match to STARTED. Both teams need a player.
// Starting a started match is a no-op.
func (s *Service) Start(ctx context.Context, sess session.Session, matchID string) (Transition, error) {
	m, err := s.store.GetMatch(ctx, sess, matchID)
	if err != nil {
		return Transition{}, err
	}
	return s.start(ctx, sess, m)
}

func (s *Service) start(ctx context.Context, sess session.Session, m *Match) (Transition, error) {
	switch m.State {
	case StateStarted:
		return Transition{MatchID: m.ID, From: m.State, To: m.State}, nil
	case StateCompleted, StateCancelled:
		return Transition{}, apperr.Invalid("match %s is %s and cannot be started", m.ID, m.State)
	}
	if err := s.checkTeams(ctx, sess, m); err != nil {
		return Transition{}, err
	}

	if err := s.store.UpdateMatchState(ctx, sess, m.ID, StateScheduled, StateStarted); err != nil {
		if s.startedMeanwhile(ctx, sess, m.ID, err) {
			return Transition{MatchID: m.ID, From: StateStarted, To: StateStarted}, nil
		}
		return Transition{}, err
	}
	t := Transition{MatchID: m.ID, From: StateScheduled, To: StateStarted, Changed: true}
	s.transitioned(ctx, m, t, Score{}, "")
	return t, nil
}

// checkTeams fails with ErrUnbalancedTeams unless both persisted teams have a player.
func (s *Service) checkTeams(ctx context.Context, sess session.Session, m *Match) error {
	participants, err := s.store.ListParticipants(ctx, sess, m.ID, true)
	if err != nil {
		return err
	}
	b := NewBoard(*m, participants)
	if len(b.teamA) == 0 || len(b.teamB) == 0 {
		return fmt.Errorf("match %s has %d players in team A and %d in team B: %w",
			m.ID, len(b.teamA), len(b.teamB), apperr.ErrUnbalancedTeams)
	}
	return nil
}

// startedMeanwhile reports whether a guarded start failed only because another
// request started the match first.
func (s *Service) startedMeanwhile(ctx context.Context, sess session.Session, matchID string, err error) bool {
	if !errors.Is(err, apperr.ErrValidation) {
		return false
	}
	cur, gerr := s.store.GetMatch(ctx, sess, matchID)
	return gerr == nil && cur.State == StateStarted
}

// Complete finishes a match. A scheduled match may be completed directly only
// while it has no statistics. Completing a completed match is a no-op.
func (s *Service) Complete(ctx context.Context, sess session.Session, matchID string) (Transition, error) {
	m, err := s.store.GetMatch(ctx, sess, matchID)
	if err != nil {
		return Transition{}, err
	}
	switch m.State {
	case StateCompleted:
		return Transition{MatchID: m.ID, From: m.State, To: m.State}, nil
	case StateCancelled:
		return Transition{}, apperr.Invalid("match %s was cancelled and cannot be completed", m.ID)
	case StateScheduled:
		n, err := s.store.CountStatistics(ctx, sess, m.ID)
		if err != nil {
			return Transition{}, err
		}
		if n > 0 {
			return Transition{}, apperr.Invalid("match %s has %d recorded statistics; start it before completing", m.ID, n)
		}
	}

	events, err := s.store.ListStatistics(ctx, sess, m.ID)
	if err != nil {
		return Transition{}, err
	}
	if err := s.store.UpdateMatchState(ctx, sess, m.ID, m.State, StateCompleted); err != nil {
		return Transition{}, err
	}
	t := Transition{MatchID: m.ID, From: m.State, To: StateCompleted, Changed: true}
	s.transitioned(ctx, m, t, DeriveScores(events), "")
	return t, nil
}

// Cancel calls off a scheduled match. All confirmations and teams are cleared.
func (s *Service) Cancel(ctx context.Context, sess session.Session, matchID, reason string) (Transition, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Transition{}, apperr.Invalid("a cancellation reason is required for match %s", matchID)
	}
	m, err := s.store.GetMatch(ctx, sess, matchID)
	if err != nil {
		return Transition{}, err
	}
	if m.State != StateScheduled {
		return Transition{}, apperr.Invalid("match %s is %s; only scheduled matches can be cancelled", m.ID, m.State)
	}
	if err := s.store.CancelMatch(ctx, sess, m.ID, reason); err != nil {
		return Transition{}, err
	}
	t := Transition{MatchID: m.ID, From: StateScheduled, To: StateCancelled, Changed: true}
	s.transitioned(ctx, m, t, Score{}, reason)
	return t, nil
}

// RecordStatistic appends an event to the match log. Recording on a scheduled
// match starts it in the same write, which the result reports through
// AutoStarted. If the write fails the match stays scheduled.
func (s *Service) RecordStatistic(ctx context.Context, sess session.Session, in RecordInput) (RecordResult, error) {
	if !in.Kind.Valid() {
		return RecordResult{}, apperr.Invalid("unknown statistic kind %q", in.Kind)
	}
	m, err := s.store.GetMatch(ctx, sess, in.MatchID)
	if err != nil {
		return RecordResult{}, err
	}
	switch m.State {
	case StateCompleted:
		return RecordResult{}, fmt.Errorf("match %s is completed: %w", m.ID, apperr.ErrLockedMatch)
	case StateCancelled:
		return RecordResult{}, apperr.Invalid("match %s was cancelled", m.ID)
	}

	subject, err := s.matchParticipant(ctx, sess, m.ID, in.ParticipantID)
	if err != nil {
		return RecordResult{}, err
	}
	if !subject.IsConfirmed() || subject.Team == TeamNone {
		return RecordResult{}, apperr.Invalid("%s is not assigned to a team", subject.PersonName)
	}
	if in.AssistParticipantID != "" {
		if in.Kind != KindGoal {
			return RecordResult{}, apperr.Invalid("an assist can only be given on a goal")
		}
		if in.AssistParticipantID == subject.ID {
			return RecordResult{}, apperr.Invalid("a player cannot assist their own goal")
		}
		assister, err := s.matchParticipant(ctx, sess, m.ID, in.AssistParticipantID)
		if err != nil {
			return RecordResult{}, err
		}
		if assister.Team != subject.Team {
			return RecordResult{}, apperr.Invalid("%s must be in team %s to assist %s", assister.PersonName, subject.Team, subject.PersonName)
		}
	}

	var startFrom State
	if m.State == StateScheduled {
		if err := s.checkTeams(ctx, sess, m); err != nil {
			return RecordResult{}, fmt.Errorf("auto-start match %s: %w", m.ID, err)
		}
		startFrom = StateScheduled
	}

	e := StatisticEvent{
		ID:                  uuid.New().String(),
		MatchID:             m.ID,
		ParticipantID:       subject.ID,
		Kind:                in.Kind,
		Team:                subject.Team,
		AssistParticipantID: in.AssistParticipantID,
		RecordedAt:          s.now(),
	}
	err = s.store.InsertStatistic(ctx, sess, &e, startFrom)
	if startFrom != "" && s.startedMeanwhile(ctx, sess, m.ID, err) {
		startFrom = ""
		err = s.store.InsertStatistic(ctx, sess, &e, startFrom)
	}
	if err != nil {
		return RecordResult{}, fmt.Errorf("record %s: %w", e.Kind, err)
	}

	result := RecordResult{Event: e}
	if startFrom != "" {
		t := Transition{MatchID: m.ID, From: StateScheduled, To: StateStarted, Changed: true}
		result.AutoStarted = true
		result.Transition = &t
		s.metrics.IncAutoStarts()
		s.transitioned(ctx, m, t, Score{}, "")
		log.Info("Match auto-started by first statistic", "match_id", m.ID)
	}

	// The event is stored from here on; a failed read still reports it.
	events, err := s.store.ListStatistics(ctx, sess, m.ID)
	if err != nil {
		return result, err
	}
	result.Score = DeriveScores(events)

	s.metrics.IncStatisticsRecorded(string(e.Kind))
	s.publish(ctx, pubsub.EventStatisticRecorded, LifecycleEvent{
		ClubID:     m.ClubID,
		MatchID:    m.ID,
		Kind:       e.Kind,
		ScoreA:     result.Score.A,
		ScoreB:     result.Score.B,
		OccurredAt: e.RecordedAt.Unix(),
	})
	log.Info("Recorded statistic", "match_id", m.ID, "kind", e.Kind, "team", e.Team, "score_a", result.Score.A, "score_b", result.Score.B)
	return result, nil
}

// DeleteStatistic removes an event and returns the score derived from the rest.
func (s *Service) DeleteStatistic(ctx context.Context, sess session.Session, eventID string) (Score, error) {
	if !sess.IsAdmin() {
		return Score{}, fmt.Errorf("delete statistic: %w", apperr.ErrForbidden)
	}
	e, err := s.store.GetStatistic(ctx, sess, eventID)
	if err != nil {
		return Score{}, err
	}
	m, err := s.store.GetMatch(ctx, sess, e.MatchID)
	if err != nil {
		return Score{}, err
	}
	if m.State == StateCompleted {
		return Score{}, fmt.Errorf("match %s is completed: %w", m.ID, apperr.ErrLockedMatch)
	}
	if err := s.store.DeleteStatistic(ctx, sess, eventID); err != nil {
		return Score{}, err
	}
	events, err := s.store.ListStatistics(ctx, sess, m.ID)
	if err != nil {
		return Score{}, err
	}
	score := DeriveScores(events)
	log.Info("Deleted statistic", "event_id", eventID, "match_id", m.ID, "score_a", score.A, "score_b", score.B)
	return score, nil
}

// Scoreboard returns the live view of a match.
func (s *Service) Scoreboard(ctx context.Context, sess session.Session, matchID string) (*Scoreboard, error) {
	b, err := s.LoadBoard(ctx, sess, matchID)
	if err != nil {
		return nil, err
	}
	events, err := s.store.ListStatistics(ctx, sess, matchID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []StatisticEvent{}
	}
	return &Scoreboard{
		Match:      b.match,
		TeamA:      nonNil(b.TeamA()),
		TeamB:      nonNil(b.TeamB()),
		Unassigned: nonNil(b.Unassigned()),
		Events:     events,
		Score:      DeriveScores(events),
	}, nil
}

// Leaderboard aggregates player statistics over every completed match of the club.
func (s *Service) Leaderboard(ctx context.Context, sess session.Session) ([]PlayerStats, error) {
	matches, err := s.store.ListMatches(ctx, sess, StateCompleted)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []PlayerStats{}, nil
	}
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	participants, err := s.store.ListParticipantsForMatches(ctx, sess, ids)
	if err != nil {
		return nil, err
	}
	events, err := s.store.ListStatistics(ctx, sess, ids...)
	if err != nil {
		return nil, err
	}
	return AggregatePlayerStats(events, participants), nil
}

// matchParticipant loads a participant and checks it belongs to matchID.
func (s *Service) matchParticipant(ctx context.Context, sess session.Session, matchID, participantID string) (*Participant, error) {
	p, err := s.store.GetParticipant(ctx, sess, participantID)
	if err != nil {
		return nil, err
	}
	if p.MatchID != matchID {
		return nil, apperr.Invalid("participant %s does not play in match %s", participantID, matchID)
	}
	return p, nil
}

func (s *Service) transitioned(ctx context.Context, m *Match, t Transition, score Score, reason string) {
	s.metrics.IncMatchTransitions(string(t.To))
	log.Info("Match transitioned", "match_id", m.ID, "from", t.From, "to", t.To)

	var topic pubsub.EventType
	switch t.To {
	case StateStarted:
		topic = pubsub.EventMatchStarted
	case StateCompleted:
		topic = pubsub.EventMatchCompleted
	case StateCancelled:
		topic = pubsub.EventMatchCancelled
	default:
		return
	}
	s.publish(ctx, topic, LifecycleEvent{
		ClubID:     m.ClubID,
		MatchID:    m.ID,
		From:       t.From,
		To:         t.To,
		ScoreA:     score.A,
		ScoreB:     score.B,
		Reason:     reason,
		OccurredAt: s.now().Unix(),
	})
}

// publish never fails the caller; the write already happened.
func (s *Service) publish(ctx context.Context, topic pubsub.EventType, evt LifecycleEvent) {
	evt.Type = string(topic)
	if err := s.pubsub.SendMessage(ctx, topic, evt); err != nil {
		log.Error("Failed to publish lifecycle event", "topic", topic, "match_id", evt.MatchID, "error", err)
	}
}

func editable(m *Match) error {
	if m.State.Locked() {
		return fmt.Errorf("match %s is %s: %w", m.ID, m.State, apperr.ErrLockedMatch)
	}
	if m.State == StateCancelled {
		return apperr.Invalid("match %s was cancelled", m.ID)
	}
	return nil
}

func nonNil(ps []Participant) []Participant {
	if ps == nil {
		return []Participant{}
	}
	return ps
}
