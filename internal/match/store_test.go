package match_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/match"
	"github.com/mauv0809/clubhouse/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatch(at time.Time) *match.Match {
	return &match.Match{
		ID:          uuid.New().String(),
		ScheduledAt: at,
		Venue:       "Pitch 1",
		State:       match.StateScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestStoreCreateMatchRequiresAdmin(t *testing.T) {
	f := setupService(t)
	member := session.Session{UserID: f.members["p1"].ID, ClubID: f.admin.ClubID, Role: session.RoleMember}

	_, err := f.store.CreateMatch(context.Background(), member, newMatch(now.Add(time.Hour)))
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestStoreListMatchesFiltersAndOrders(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	late := newMatch(now.Add(48 * time.Hour))
	early := newMatch(now.Add(24 * time.Hour))
	for _, m := range []*match.Match{late, early} {
		_, err := f.store.CreateMatch(ctx, f.admin, m)
		require.NoError(t, err)
	}
	require.NoError(t, f.store.UpdateMatchState(ctx, f.admin, early.ID, match.StateScheduled, match.StateCompleted))

	all, err := f.store.ListMatches(ctx, f.admin, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, early.ID, all[0].ID)
	assert.Equal(t, late.ID, all[1].ID)
	assert.Equal(t, early.ScheduledAt, all[0].ScheduledAt)

	completed, err := f.store.ListMatches(ctx, f.admin, match.StateCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, early.ID, completed[0].ID)
}

func TestStoreUpdateMatchStateIsGuarded(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	m := newMatch(now.Add(time.Hour))
	_, err := f.store.CreateMatch(ctx, f.admin, m)
	require.NoError(t, err)

	err = f.store.UpdateMatchState(ctx, f.admin, m.ID, match.StateStarted, match.StateCompleted)
	assert.ErrorIs(t, err, apperr.ErrValidation, "the match is still scheduled")

	err = f.store.UpdateMatchState(ctx, f.admin, "missing", match.StateScheduled, match.StateStarted)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := f.store.GetMatch(ctx, f.admin, m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StateScheduled, got.State)
}

func TestStoreSaveTeamsIsAtomic(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	m, seats := f.schedule(t, "p1", "p2")

	err := f.store.SaveTeams(ctx, f.admin, m.ID, []match.Assignment{
		{ParticipantID: seats["p1"], Team: match.TeamA},
		{ParticipantID: seats["p3"], Team: match.TeamB},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation, "p3 never confirmed")

	p1, err := f.store.GetParticipant(ctx, f.admin, seats["p1"])
	require.NoError(t, err)
	assert.Equal(t, match.TeamNone, p1.Team, "the first update was rolled back")

	require.NoError(t, f.store.SaveTeams(ctx, f.admin, m.ID, []match.Assignment{
		{ParticipantID: seats["p1"], Team: match.TeamA},
		{ParticipantID: seats["p2"], Team: match.TeamB},
	}))
	confirmed, err := f.store.ListParticipants(ctx, f.admin, m.ID, true)
	require.NoError(t, err)
	require.Len(t, confirmed, 2)
	assert.Equal(t, match.TeamA, confirmed[0].Team)
	assert.Equal(t, match.TeamB, confirmed[1].Team)
}

func TestStoreSetConfirmation(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	m, seats := f.schedule(t)
	p1 := session.Session{UserID: f.members["p1"].ID, ClubID: f.admin.ClubID, Role: session.RoleMember}

	require.NoError(t, f.store.SetConfirmation(ctx, p1, seats["p1"], true))
	assert.ErrorIs(t, f.store.SetConfirmation(ctx, p1, seats["p2"], true), apperr.ErrForbidden)

	got, err := f.store.GetParticipantByPerson(ctx, f.admin, m.ID, f.members["p1"].ID)
	require.NoError(t, err)
	assert.True(t, got.IsConfirmed())
	assert.Equal(t, "p1", got.PersonName)

	_, err = f.store.GetParticipantByPerson(ctx, f.admin, m.ID, "stranger")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStoreStatistics(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	first, seats1 := f.schedule(t, "p1")
	second, seats2 := f.schedule(t, "p2")

	base := time.Date(2026, 10, 20, 18, 0, 0, 0, time.UTC)
	insert := func(matchID, participantID string, kind match.Kind, at time.Time) match.StatisticEvent {
		t.Helper()
		e := match.StatisticEvent{
			ID:            uuid.New().String(),
			MatchID:       matchID,
			ParticipantID: participantID,
			Kind:          kind,
			Team:          match.TeamA,
			RecordedAt:    at,
		}
		require.NoError(t, f.store.InsertStatistic(ctx, f.admin, &e, ""))
		return e
	}
	late := insert(first.ID, seats1["p1"], match.KindSave, base.Add(1500*time.Millisecond))
	early := insert(first.ID, seats1["p1"], match.KindGoal, base.Add(500*time.Millisecond))
	other := insert(second.ID, seats2["p2"], match.KindGoal, base)

	events, err := f.store.ListStatistics(ctx, f.admin, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []match.StatisticEvent{early, late}, events, "ordered by recording time with millisecond precision")

	both, err := f.store.ListStatistics(ctx, f.admin, first.ID, second.ID)
	require.NoError(t, err)
	assert.Len(t, both, 3)
	assert.Equal(t, other.ID, both[0].ID)

	n, err := f.store.CountStatistics(ctx, f.admin, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := f.store.GetStatistic(ctx, f.admin, early.ID)
	require.NoError(t, err)
	assert.Equal(t, early, *got)

	rival := session.Session{UserID: "x", ClubID: "another-club", Role: session.RoleAdmin}
	none, err := f.store.ListStatistics(ctx, rival, first.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.ErrorIs(t, f.store.DeleteStatistic(ctx, rival, early.ID), apperr.ErrNotFound)
}

func TestStoreInsertStatisticStartsMatchInSameWrite(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	m, seats := f.schedule(t, "p1")

	goal := func() *match.StatisticEvent {
		return &match.StatisticEvent{
			ID:            uuid.New().String(),
			MatchID:       m.ID,
			ParticipantID: seats["p1"],
			Kind:          match.KindGoal,
			Team:          match.TeamA,
			RecordedAt:    now,
		}
	}
	require.NoError(t, f.store.InsertStatistic(ctx, f.admin, goal(), match.StateScheduled))

	got, err := f.store.GetMatch(ctx, f.admin, m.ID)
	require.NoError(t, err)
	assert.Equal(t, match.StateStarted, got.State)

	err = f.store.InsertStatistic(ctx, f.admin, goal(), match.StateScheduled)
	assert.ErrorIs(t, err, apperr.ErrValidation, "the match already left SCHEDULED")

	n, err := f.store.CountStatistics(ctx, f.admin, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "a failed start does not insert the event")
}
