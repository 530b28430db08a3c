package match

import (
	"cmp"
	"slices"
)

// Leaderboard weights.
const (
	pointsPerWin     = 3.0
	pointsPerDraw    = 1.0
	pointsPerGoal    = 1.0
	pointsPerAssist  = 0.5
	pointsPerSave    = 0.5
	pointsPerOwnGoal = -1.0
)

// AggregatePlayerStats builds one leaderboard row per person from the events
// and participants of any number of matches. A game counts for a person when
// they were confirmed and assigned; its result compares their team's derived
// score with the opponent's. An assist is credited for a standalone assist
// event and for every goal naming the person as assister. Rows are sorted by
// points, then goals, both descending, then by name.
func AggregatePlayerStats(events []StatisticEvent, participants []Participant) []PlayerStats {
	byParticipant := make(map[string]Participant, len(participants))
	for _, p := range participants {
		byParticipant[p.ID] = p
	}

	rows := make(map[string]*PlayerStats)
	row := func(p Participant) *PlayerStats {
		r, ok := rows[p.PersonID]
		if !ok {
			r = &PlayerStats{PersonID: p.PersonID, PersonName: p.PersonName}
			rows[p.PersonID] = r
		}
		return r
	}

	scores := scoresByMatch(events)
	for _, p := range participants {
		if !p.IsConfirmed() || p.Team == TeamNone {
			continue
		}
		r := row(p)
		r.GamesPlayed++
		score := scores[p.MatchID]
		own, other := score.For(p.Team), score.For(p.Team.Opponent())
		switch {
		case own > other:
			r.Wins++
		case own == other:
			r.Draws++
		default:
			r.Losses++
		}
	}

	for _, e := range events {
		p, ok := byParticipant[e.ParticipantID]
		if !ok {
			continue
		}
		r := row(p)
		switch e.Kind {
		case KindGoal:
			r.Goals++
			if assister, ok := byParticipant[e.AssistParticipantID]; ok {
				row(assister).Assists++
			}
		case KindOwnGoal:
			r.OwnGoals++
		case KindSave:
			r.Saves++
		case KindAssist:
			r.Assists++
		}
	}

	out := make([]PlayerStats, 0, len(rows))
	for _, r := range rows {
		r.Points = pointsPerWin*float64(r.Wins) +
			pointsPerDraw*float64(r.Draws) +
			pointsPerGoal*float64(r.Goals) +
			pointsPerAssist*float64(r.Assists) +
			pointsPerSave*float64(r.Saves) +
			pointsPerOwnGoal*float64(r.OwnGoals)
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b PlayerStats) int {
		return cmp.Or(
			cmp.Compare(b.Points, a.Points),
			cmp.Compare(b.Goals, a.Goals),
			cmp.Compare(a.PersonName, b.PersonName),
			cmp.Compare(a.PersonID, b.PersonID),
		)
	})
	return out
}
