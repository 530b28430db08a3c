package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/match"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/notifier"
	"github.com/mauv0809/clubhouse/internal/pubsub"
	"github.com/mauv0809/clubhouse/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yes() *bool {
	v := true
	return &v
}

// setup wires a Processor to a match service whose store holds one started
// match with Ana in team A and Bia in team B, and one goal by Ana.
func setup(t *testing.T) (*Processor, *match.MockStore, *notifier.Mock, *metrics.Mock, *metrics.MockActivityStore) {
	t.Helper()
	store := match.NewMock()
	store.GetMatchFunc = func(ctx context.Context, sess session.Session, matchID string) (*match.Match, error) {
		assert.Equal(t, session.RoleSystem, sess.Role)
		return &match.Match{ID: matchID, ClubID: sess.ClubID, Venue: "Park", State: match.StateCompleted, CancellationReason: "rain"}, nil
	}
	store.ListParticipantsFunc = func(ctx context.Context, sess session.Session, matchID string, confirmedOnly bool) ([]match.Participant, error) {
		return []match.Participant{
			{ID: "pa", MatchID: matchID, PersonID: "ana", PersonName: "Ana", Confirmed: yes(), Team: match.TeamA},
			{ID: "pb", MatchID: matchID, PersonID: "bia", PersonName: "Bia", Confirmed: yes(), Team: match.TeamB},
		}, nil
	}
	store.ListParticipantsForMatchesFunc = func(ctx context.Context, sess session.Session, matchIDs []string) ([]match.Participant, error) {
		return store.ListParticipantsFunc(ctx, sess, matchIDs[0], true)
	}
	store.ListStatisticsFunc = func(ctx context.Context, sess session.Session, matchIDs ...string) ([]match.StatisticEvent, error) {
		return []match.StatisticEvent{{ID: "e1", MatchID: "m1", ParticipantID: "pa", Kind: match.KindGoal, Team: match.TeamA}}, nil
	}
	store.ListMatchesFunc = func(ctx context.Context, sess session.Session, state match.State) ([]match.Match, error) {
		return []match.Match{{ID: "m1", ClubID: sess.ClubID, State: match.StateCompleted}}, nil
	}

	svc := match.NewService(store, metrics.NewMock(), pubsub.NewMock())
	notif := notifier.NewMock()
	metr := metrics.NewMock()
	activity := metrics.NewMockActivityStore()
	return New(svc, notif, metr, activity), store, notif, metr, activity
}

func event(t pubsub.EventType) match.LifecycleEvent {
	return match.LifecycleEvent{Type: string(t), ClubID: "c1", MatchID: "m1"}
}

func counters(t *testing.T, activity *metrics.MockActivityStore) map[string]int {
	t.Helper()
	all, err := activity.GetAll(context.Background(), "c1")
	require.NoError(t, err)
	return all
}

func TestHandleEvent(t *testing.T) {
	t.Run("match started sends the team sheet", func(t *testing.T) {
		p, _, notif, metr, activity := setup(t)

		require.NoError(t, p.HandleEvent(context.Background(), event(pubsub.EventMatchStarted), false))

		require.Len(t, notif.SendTeamSheetCalls, 1)
		sb := notif.SendTeamSheetCalls[0]
		assert.Equal(t, "Ana", sb.TeamA[0].PersonName)
		assert.Equal(t, "Bia", sb.TeamB[0].PersonName)
		assert.Equal(t, map[string]int{ActivityMatchesStarted: 1}, counters(t, activity))
		assert.Len(t, metr.ProcessingDurations(), 1)
	})

	t.Run("goal sends a score update", func(t *testing.T) {
		p, _, notif, _, activity := setup(t)
		evt := event(pubsub.EventStatisticRecorded)
		evt.Kind = match.KindGoal

		require.NoError(t, p.HandleEvent(context.Background(), evt, false))

		require.Len(t, notif.SendScoreUpdateCalls, 1)
		assert.Equal(t, match.Score{A: 1}, notif.SendScoreUpdateCalls[0].Score)
		assert.Equal(t, map[string]int{"statistics_goal": 1}, counters(t, activity))
	})

	t.Run("save is only counted", func(t *testing.T) {
		p, _, notif, _, activity := setup(t)
		evt := event(pubsub.EventStatisticRecorded)
		evt.Kind = match.KindSave

		require.NoError(t, p.HandleEvent(context.Background(), evt, false))

		assert.Empty(t, notif.SendScoreUpdateCalls)
		assert.Equal(t, map[string]int{"statistics_save": 1}, counters(t, activity))
	})

	t.Run("match completed sends result and leaderboard", func(t *testing.T) {
		p, _, notif, _, activity := setup(t)

		require.NoError(t, p.HandleEvent(context.Background(), event(pubsub.EventMatchCompleted), false))

		require.Len(t, notif.SendMatchResultCalls, 1)
		require.Len(t, notif.SendLeaderboardCalls, 1)
		board := notif.SendLeaderboardCalls[0]
		require.Len(t, board, 2)
		assert.Equal(t, "Ana", board[0].PersonName)
		assert.Equal(t, 1, board[0].Wins)
		assert.Equal(t, map[string]int{ActivityMatchesCompleted: 1}, counters(t, activity))
	})

	t.Run("match cancelled announces the reason", func(t *testing.T) {
		p, _, notif, _, activity := setup(t)

		require.NoError(t, p.HandleEvent(context.Background(), event(pubsub.EventMatchCancelled), false))

		require.Len(t, notif.SendMatchCancelledCalls, 1)
		assert.Equal(t, "rain", notif.SendMatchCancelledCalls[0].CancellationReason)
		assert.Equal(t, map[string]int{ActivityMatchesCancelled: 1}, counters(t, activity))
	})

	t.Run("dry run does not touch counters", func(t *testing.T) {
		p, _, notif, _, activity := setup(t)

		require.NoError(t, p.HandleEvent(context.Background(), event(pubsub.EventMatchStarted), true))

		assert.Equal(t, []bool{true}, notif.DryRuns)
		assert.Empty(t, counters(t, activity))
	})

	t.Run("read failures are returned for redelivery", func(t *testing.T) {
		p, store, notif, _, activity := setup(t)
		store.GetMatchFunc = func(ctx context.Context, sess session.Session, matchID string) (*match.Match, error) {
			return nil, apperr.Transient("get match", errors.New("database is locked"))
		}

		err := p.HandleEvent(context.Background(), event(pubsub.EventMatchCompleted), false)
		assert.ErrorIs(t, err, apperr.ErrTransientIO)
		assert.Empty(t, notif.SendMatchResultCalls)
		assert.Empty(t, counters(t, activity))
	})

	t.Run("notification failures are swallowed", func(t *testing.T) {
		p, _, notif, _, activity := setup(t)
		notif.Err = errors.New("slack is down")

		require.NoError(t, p.HandleEvent(context.Background(), event(pubsub.EventMatchCancelled), false))
		assert.Equal(t, map[string]int{ActivityMatchesCancelled: 1}, counters(t, activity))
	})

	t.Run("unknown events are acknowledged", func(t *testing.T) {
		p, _, notif, _, _ := setup(t)

		require.NoError(t, p.HandleEvent(context.Background(), event("ball-boy"), false))
		assert.Empty(t, notif.DryRuns)
	})

	t.Run("events without a club are rejected", func(t *testing.T) {
		p, _, _, _, _ := setup(t)

		err := p.HandleEvent(context.Background(), match.LifecycleEvent{Type: string(pubsub.EventMatchStarted)}, false)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}
