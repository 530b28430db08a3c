package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seat(id, matchID, personID, name string, confirmed *bool, team Team) Participant {
	return Participant{ID: id, MatchID: matchID, PersonID: personID, PersonName: name, Confirmed: confirmed, Team: team}
}

func stat(matchID, participantID string, kind Kind, team Team, assist string) StatisticEvent {
	return StatisticEvent{MatchID: matchID, ParticipantID: participantID, Kind: kind, Team: team, AssistParticipantID: assist}
}

func rowFor(t *testing.T, rows []PlayerStats, personID string) PlayerStats {
	t.Helper()
	for _, r := range rows {
		if r.PersonID == personID {
			return r
		}
	}
	require.Failf(t, "missing row", "no stats for %s", personID)
	return PlayerStats{}
}

func TestAggregatePlayerStats(t *testing.T) {
	participants := []Participant{
		// m1: Ana and Bia in A, Caio in B, Davi declined.
		seat("m1-ana", "m1", "ana", "Ana", yes(), TeamA),
		seat("m1-bia", "m1", "bia", "Bia", yes(), TeamA),
		seat("m1-caio", "m1", "caio", "Caio", yes(), TeamB),
		seat("m1-davi", "m1", "davi", "Davi", no(), TeamNone),
		// m2: Ana in B, Caio in A.
		seat("m2-ana", "m2", "ana", "Ana", yes(), TeamB),
		seat("m2-caio", "m2", "caio", "Caio", yes(), TeamA),
	}
	events := []StatisticEvent{
		// m1 ends 2-1 for A.
		stat("m1", "m1-ana", KindGoal, TeamA, "m1-bia"),
		stat("m1", "m1-ana", KindGoal, TeamA, ""),
		stat("m1", "m1-caio", KindGoal, TeamB, ""),
		stat("m1", "m1-caio", KindSave, TeamB, ""),
		// m2 ends 1-1: Caio own goal for B, Ana's standalone assist, Caio goal.
		stat("m2", "m2-caio", KindOwnGoal, TeamA, ""),
		stat("m2", "m2-ana", KindAssist, TeamB, ""),
		stat("m2", "m2-caio", KindGoal, TeamA, ""),
	}

	rows := AggregatePlayerStats(events, participants)
	require.Len(t, rows, 3, "declined participants without events get no row")

	ana := rowFor(t, rows, "ana")
	assert.Equal(t, PlayerStats{
		PersonID: "ana", PersonName: "Ana",
		Goals: 2, Assists: 1, GamesPlayed: 2, Wins: 1, Draws: 1,
		Points: 3 + 1 + 2 + 0.5,
	}, ana)

	bia := rowFor(t, rows, "bia")
	assert.Equal(t, 1, bia.Assists, "assist credited from the goal event")
	assert.Equal(t, 1, bia.Wins)
	assert.Equal(t, 3.5, bia.Points)

	caio := rowFor(t, rows, "caio")
	assert.Equal(t, 2, caio.Goals)
	assert.Equal(t, 1, caio.OwnGoals)
	assert.Equal(t, 1, caio.Saves)
	assert.Equal(t, 1, caio.Losses)
	assert.Equal(t, 1, caio.Draws)
	assert.Equal(t, 1+2+0.5-1.0, caio.Points)

	assert.Equal(t, []string{"ana", "bia", "caio"}, []string{rows[0].PersonID, rows[1].PersonID, rows[2].PersonID})
}

func TestAggregatePlayerStatsTieBreaks(t *testing.T) {
	participants := []Participant{
		seat("x", "m1", "zoe", "Zoe", yes(), TeamA),
		seat("y", "m1", "ari", "Ari", yes(), TeamB),
		seat("z", "m1", "bob", "Bob", yes(), TeamB),
	}
	// 1-1 draw: Zoe scores, Ari scores. Bob has only the draw.
	events := []StatisticEvent{
		stat("m1", "x", KindGoal, TeamA, ""),
		stat("m1", "y", KindGoal, TeamB, ""),
		stat("m1", "z", KindSave, TeamB, ""),
		stat("m1", "z", KindSave, TeamB, ""),
	}

	rows := AggregatePlayerStats(events, participants)
	require.Len(t, rows, 3)
	// Ari and Zoe: 1 draw + 1 goal = 2. Bob: 1 draw + 2 saves = 2 but fewer goals.
	assert.Equal(t, "Ari", rows[0].PersonName)
	assert.Equal(t, "Zoe", rows[1].PersonName)
	assert.Equal(t, "Bob", rows[2].PersonName)
}

func TestAggregatePlayerStatsEmpty(t *testing.T) {
	assert.Empty(t, AggregatePlayerStats(nil, nil))
}
