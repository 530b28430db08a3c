package match

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/session"
)

// store handles all database operations for matches.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// NewStore creates a new SQL-backed Store.
func NewStore(db *sql.DB) Store {
	return &store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

const participantColumns = `
	p.id, p.match_id, p.person_id, mem.name, p.confirmed, p.team`

const participantFrom = `
	FROM participants p
	JOIN matches m ON m.id = p.match_id
	JOIN members mem ON mem.id = p.person_id`

const eventColumns = `
	e.id, e.match_id, e.participant_id, e.kind, e.team, e.assist_participant_id, e.recorded_at`

func (s *store) CreateMatch(ctx context.Context, sess session.Session, m *Match) ([]Participant, error) {
	if err := requireAdmin(sess, "schedule match"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperr.Transient("begin create match", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (id, club_id, scheduled_at, venue, state, cancellation_reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, '', ?, ?)`,
		m.ID, sess.ClubID, m.ScheduledAt.Unix(), m.Venue, string(m.State), m.CreatedAt.Unix(), m.UpdatedAt.Unix(),
	)
	if err != nil {
		return nil, apperr.Transient("insert match", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, name FROM members WHERE club_id = ? AND active = 1 ORDER BY name, id`, sess.ClubID)
	if err != nil {
		return nil, apperr.Transient("list active members", err)
	}
	var participants []Participant
	for rows.Next() {
		p := Participant{ID: uuid.New().String(), MatchID: m.ID}
		if err := rows.Scan(&p.PersonID, &p.PersonName); err != nil {
			rows.Close()
			return nil, apperr.Transient("scan member", err)
		}
		participants = append(participants, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient("list active members", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO participants (id, match_id, person_id, confirmed, team, updated_at) VALUES (?, ?, ?, NULL, NULL, ?)`)
	if err != nil {
		return nil, apperr.Transient("prepare participant insert", err)
	}
	defer stmt.Close()
	for _, p := range participants {
		if _, err := stmt.ExecContext(ctx, p.ID, p.MatchID, p.PersonID, m.CreatedAt.Unix()); err != nil {
			return nil, apperr.Transient("insert participant", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Transient("commit create match", err)
	}
	m.ClubID = sess.ClubID
	return participants, nil
}

func (s *store) GetMatch(ctx context.Context, sess session.Session, matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getMatchLocked(ctx, sess.ClubID, matchID)
}

func (s *store) getMatchLocked(ctx context.Context, clubID, matchID string) (*Match, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, club_id, scheduled_at, venue, state, cancellation_reason, created_at, updated_at
		FROM matches WHERE id = ? AND club_id = ?`, matchID, clubID)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %s: %w", matchID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, apperr.Transient("get match", err)
	}
	return m, nil
}

func (s *store) ListMatches(ctx context.Context, sess session.Session, state State) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, club_id, scheduled_at, venue, state, cancellation_reason, created_at, updated_at
		FROM matches WHERE club_id = ?`
	args := []any{sess.ClubID}
	if state != "" {
		query += ` AND state = ?`
		args = append(args, string(state))
	}
	query += ` ORDER BY scheduled_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Transient("list matches", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, apperr.Transient("scan match", err)
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient("list matches", err)
	}
	return matches, nil
}

func (s *store) UpdateMatchState(ctx context.Context, sess session.Session, matchID string, from, to State) error {
	if err := requireAdmin(sess, "change match state"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE matches SET state = ?, updated_at = ? WHERE id = ? AND club_id = ? AND state = ?`,
		string(to), s.now().Unix(), matchID, sess.ClubID, string(from))
	if err != nil {
		return apperr.Transient("update match state", err)
	}
	return checkStateUpdate(ctx, s.db, res, sess.ClubID, matchID, from)
}

func (s *store) CancelMatch(ctx context.Context, sess session.Session, matchID, reason string) error {
	if err := requireAdmin(sess, "cancel match"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Transient("begin cancel match", err)
	}
	defer tx.Rollback()

	now := s.now().Unix()
	res, err := tx.ExecContext(ctx, `
		UPDATE matches SET state = ?, cancellation_reason = ?, updated_at = ?
		WHERE id = ? AND club_id = ? AND state = ?`,
		string(StateCancelled), reason, now, matchID, sess.ClubID, string(StateScheduled))
	if err != nil {
		return apperr.Transient("cancel match", err)
	}
	if err := checkStateUpdate(ctx, tx, res, sess.ClubID, matchID, StateScheduled); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE participants SET confirmed = NULL, team = NULL, updated_at = ? WHERE match_id = ?`, now, matchID); err != nil {
		return apperr.Transient("reset participants", err)
	}
	if err := tx.Commit(); err != nil {
		return apperr.Transient("commit cancel match", err)
	}
	return nil
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// checkStateUpdate explains a guarded UPDATE that touched no row.
func checkStateUpdate(ctx context.Context, q rowQuerier, res sql.Result, clubID, matchID string, from State) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Transient("update match state", err)
	}
	if n > 0 {
		return nil
	}
	var state string
	err = q.QueryRowContext(ctx, `SELECT state FROM matches WHERE id = ? AND club_id = ?`, matchID, clubID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("match %s: %w", matchID, apperr.ErrNotFound)
	}
	if err != nil {
		return apperr.Transient("read match state", err)
	}
	return apperr.Invalid("match %s is %s, expected %s", matchID, state, from)
}

func (s *store) ListParticipants(ctx context.Context, sess session.Session, matchID string, confirmedOnly bool) ([]Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT` + participantColumns + participantFrom + ` WHERE p.match_id = ? AND m.club_id = ?`
	if confirmedOnly {
		query += ` AND p.confirmed = 1`
	}
	query += ` ORDER BY mem.name, p.id`
	return s.queryParticipants(ctx, query, matchID, sess.ClubID)
}

func (s *store) ListParticipantsForMatches(ctx context.Context, sess session.Session, matchIDs []string) ([]Participant, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT` + participantColumns + participantFrom +
		` WHERE m.club_id = ? AND p.match_id IN (` + placeholders(len(matchIDs)) + `) ORDER BY p.match_id, mem.name, p.id`
	args := append([]any{sess.ClubID}, toAny(matchIDs)...)
	return s.queryParticipants(ctx, query, args...)
}

func (s *store) GetParticipant(ctx context.Context, sess session.Session, participantID string) (*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getParticipantLocked(ctx, sess.ClubID, participantID)
}

func (s *store) GetParticipantByPerson(ctx context.Context, sess session.Session, matchID, personID string) (*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ps, err := s.queryParticipants(ctx,
		`SELECT`+participantColumns+participantFrom+` WHERE p.match_id = ? AND p.person_id = ? AND m.club_id = ?`,
		matchID, personID, sess.ClubID)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, fmt.Errorf("member %s is not invited to match %s: %w", personID, matchID, apperr.ErrNotFound)
	}
	return &ps[0], nil
}

func (s *store) SetConfirmation(ctx context.Context, sess session.Session, participantID string, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.getParticipantLocked(ctx, sess.ClubID, participantID)
	if err != nil {
		return err
	}
	if !sess.CanActFor(p.PersonID) {
		return fmt.Errorf("confirm on behalf of %s: %w", p.PersonID, apperr.ErrForbidden)
	}

	query := `UPDATE participants SET confirmed = ?, updated_at = ? WHERE id = ?`
	if !confirmed {
		query = `UPDATE participants SET confirmed = ?, team = NULL, updated_at = ? WHERE id = ?`
	}
	if _, err := s.db.ExecContext(ctx, query, confirmed, s.now().Unix(), participantID); err != nil {
		return apperr.Transient("set confirmation", err)
	}
	return nil
}

func (s *store) SaveTeams(ctx context.Context, sess session.Session, matchID string, assignments []Assignment) error {
	if err := requireAdmin(sess, "assign teams"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getMatchLocked(ctx, sess.ClubID, matchID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Transient("begin save teams", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE participants SET team = ?, updated_at = ?
		WHERE id = ? AND match_id = ? AND confirmed = 1`)
	if err != nil {
		return apperr.Transient("prepare save teams", err)
	}
	defer stmt.Close()

	now := s.now().Unix()
	for _, a := range assignments {
		res, err := stmt.ExecContext(ctx, nullTeam(a.Team), now, a.ParticipantID, matchID)
		if err != nil {
			return apperr.Transient("save team", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return apperr.Transient("save team", err)
		}
		if n == 0 {
			return apperr.Invalid("participant %s is not a confirmed player of match %s", a.ParticipantID, matchID)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Transient("commit save teams", err)
	}
	return nil
}

func (s *store) InsertStatistic(ctx context.Context, sess session.Session, e *StatisticEvent, startFrom State) error {
	if err := requireAdmin(sess, "record statistic"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getMatchLocked(ctx, sess.ClubID, e.MatchID); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Transient("begin insert statistic", err)
	}
	defer tx.Rollback()

	if startFrom != "" {
		res, err := tx.ExecContext(ctx,
			`UPDATE matches SET state = ?, updated_at = ? WHERE id = ? AND club_id = ? AND state = ?`,
			string(StateStarted), s.now().Unix(), e.MatchID, sess.ClubID, string(startFrom))
		if err != nil {
			return apperr.Transient("start match", err)
		}
		if err := checkStateUpdate(ctx, tx, res, sess.ClubID, e.MatchID, startFrom); err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO statistic_events (id, match_id, participant_id, kind, team, assist_participant_id, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.MatchID, e.ParticipantID, string(e.Kind), string(e.Team), nullString(e.AssistParticipantID), e.RecordedAt.UnixMilli(),
	)
	if err != nil {
		return apperr.Transient("insert statistic", err)
	}
	if err := tx.Commit(); err != nil {
		return apperr.Transient("commit insert statistic", err)
	}
	return nil
}

func (s *store) GetStatistic(ctx context.Context, sess session.Session, eventID string) (*StatisticEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events, err := s.queryEvents(ctx, `
		SELECT`+eventColumns+`
		FROM statistic_events e JOIN matches m ON m.id = e.match_id
		WHERE e.id = ? AND m.club_id = ?`, eventID, sess.ClubID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("statistic %s: %w", eventID, apperr.ErrNotFound)
	}
	return &events[0], nil
}

func (s *store) DeleteStatistic(ctx context.Context, sess session.Session, eventID string) error {
	if err := requireAdmin(sess, "delete statistic"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM statistic_events
		WHERE id = ? AND match_id IN (SELECT id FROM matches WHERE club_id = ?)`, eventID, sess.ClubID)
	if err != nil {
		return apperr.Transient("delete statistic", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Transient("delete statistic", err)
	}
	if n == 0 {
		return fmt.Errorf("statistic %s: %w", eventID, apperr.ErrNotFound)
	}
	log.Debug("Deleted statistic row", "event_id", eventID)
	return nil
}

func (s *store) ListStatistics(ctx context.Context, sess session.Session, matchIDs ...string) ([]StatisticEvent, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT` + eventColumns + `
		FROM statistic_events e JOIN matches m ON m.id = e.match_id
		WHERE m.club_id = ? AND e.match_id IN (` + placeholders(len(matchIDs)) + `)
		ORDER BY e.recorded_at, e.id`
	return s.queryEvents(ctx, query, append([]any{sess.ClubID}, toAny(matchIDs)...)...)
}

func (s *store) CountStatistics(ctx context.Context, sess session.Session, matchID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM statistic_events e JOIN matches m ON m.id = e.match_id
		WHERE e.match_id = ? AND m.club_id = ?`, matchID, sess.ClubID).Scan(&n)
	if err != nil {
		return 0, apperr.Transient("count statistics", err)
	}
	return n, nil
}

func (s *store) getParticipantLocked(ctx context.Context, clubID, participantID string) (*Participant, error) {
	ps, err := s.queryParticipants(ctx,
		`SELECT`+participantColumns+participantFrom+` WHERE p.id = ? AND m.club_id = ?`, participantID, clubID)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, fmt.Errorf("participant %s: %w", participantID, apperr.ErrNotFound)
	}
	return &ps[0], nil
}

func (s *store) queryParticipants(ctx context.Context, query string, args ...any) ([]Participant, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Transient("list participants", err)
	}
	defer rows.Close()

	var participants []Participant
	for rows.Next() {
		var p Participant
		var confirmed sql.NullBool
		var team sql.NullString
		if err := rows.Scan(&p.ID, &p.MatchID, &p.PersonID, &p.PersonName, &confirmed, &team); err != nil {
			return nil, apperr.Transient("scan participant", err)
		}
		if confirmed.Valid {
			c := confirmed.Bool
			p.Confirmed = &c
		}
		p.Team = Team(team.String)
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient("list participants", err)
	}
	return participants, nil
}

func (s *store) queryEvents(ctx context.Context, query string, args ...any) ([]StatisticEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Transient("list statistics", err)
	}
	defer rows.Close()

	var events []StatisticEvent
	for rows.Next() {
		var e StatisticEvent
		var kind, team string
		var assist sql.NullString
		var recordedAt int64
		if err := rows.Scan(&e.ID, &e.MatchID, &e.ParticipantID, &kind, &team, &assist, &recordedAt); err != nil {
			return nil, apperr.Transient("scan statistic", err)
		}
		e.Kind = Kind(kind)
		e.Team = Team(team)
		e.AssistParticipantID = assist.String
		e.RecordedAt = time.UnixMilli(recordedAt).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Transient("list statistics", err)
	}
	return events, nil
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	var state string
	var scheduledAt, createdAt, updatedAt int64
	err := scanner.Scan(&m.ID, &m.ClubID, &scheduledAt, &m.Venue, &state, &m.CancellationReason, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	m.State = State(state)
	m.ScheduledAt = time.Unix(scheduledAt, 0).UTC()
	m.CreatedAt = time.Unix(createdAt, 0).UTC()
	m.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &m, nil
}

func requireAdmin(sess session.Session, op string) error {
	if !sess.IsAdmin() {
		return fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}
	return nil
}

func nullTeam(t Team) any {
	if t == TeamNone {
		return nil
	}
	return string(t)
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toAny[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
