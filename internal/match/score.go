package match

// DeriveScores folds the event log into a score. A goal counts for the
// scorer's team and an own goal for the opposing team; saves and assists do
// not score. The result depends only on the multiset of events.
func DeriveScores(events []StatisticEvent) Score {
	var s Score
	for _, e := range events {
		var beneficiary Team
		switch e.Kind {
		case KindGoal:
			beneficiary = e.Team
		case KindOwnGoal:
			beneficiary = e.Team.Opponent()
		default:
			continue
		}
		switch beneficiary {
		case TeamA:
			s.A++
		case TeamB:
			s.B++
		}
	}
	return s
}

// scoresByMatch derives the score of every match referenced by events.
func scoresByMatch(events []StatisticEvent) map[string]Score {
	byMatch := make(map[string][]StatisticEvent)
	for _, e := range events {
		byMatch[e.MatchID] = append(byMatch[e.MatchID], e)
	}
	scores := make(map[string]Score, len(byMatch))
	for id, evs := range byMatch {
		scores[id] = DeriveScores(evs)
	}
	return scores
}
