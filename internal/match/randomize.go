package match

import "math/rand/v2"

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Randomize returns a uniformly random split of participants with
// len(teamA) = ceil(n/2) and len(teamB) = floor(n/2). The input is not
// modified. A nil shuffler uses the process-wide random source.
func Randomize(participants []Participant, shuffler Shuffler) (teamA, teamB []Participant) {
	if shuffler == nil {
		shuffler = globalShuffler{}
	}
	pool := clone(participants)
	// Fisher-Yates.
	shuffler.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	half := (len(pool) + 1) / 2
	teamA, teamB = pool[:half:half], pool[half:]
	for i := range teamA {
		teamA[i].Team = TeamA
	}
	for i := range teamB {
		teamB[i].Team = TeamB
	}
	return teamA, teamB
}
