package match

import (
	"fmt"

	"github.com/mauv0809/clubhouse/internal/apperr"
)

// Board is the in-memory team sheet of one match: the confirmed participants
// split into Team A, Team B and Unassigned. Every confirmed participant is in
// exactly one bucket. A Board is not safe for concurrent use.
type Board struct {
	match      Match
	teamA      []Participant
	teamB      []Participant
	unassigned []Participant
}

// NewBoard partitions the confirmed participants by their persisted team,
// preserving input order. Unconfirmed participants are left out.
func NewBoard(m Match, participants []Participant) *Board {
	b := &Board{match: m}
	for _, p := range participants {
		if !p.IsConfirmed() {
			continue
		}
		switch p.Team {
		case TeamA:
			b.teamA = append(b.teamA, p)
		case TeamB:
			b.teamB = append(b.teamB, p)
		default:
			p.Team = TeamNone
			b.unassigned = append(b.unassigned, p)
		}
	}
	return b
}

func (b *Board) Match() Match { return b.match }

func (b *Board) TeamA() []Participant      { return clone(b.teamA) }
func (b *Board) TeamB() []Participant      { return clone(b.teamB) }
func (b *Board) Unassigned() []Participant { return clone(b.unassigned) }

// Participants returns every participant on the board: A, then B, then Unassigned.
func (b *Board) Participants() []Participant {
	all := make([]Participant, 0, len(b.teamA)+len(b.teamB)+len(b.unassigned))
	all = append(all, b.teamA...)
	all = append(all, b.teamB...)
	return append(all, b.unassigned...)
}

// Locked reports whether the board's match no longer accepts team changes.
func (b *Board) Locked() bool { return b.match.State.Locked() }

// Assign moves a participant to team, appending it to the end of that bucket.
// TeamNone moves it to Unassigned.
func (b *Board) Assign(participantID string, team Team) error {
	if err := b.checkEditable(); err != nil {
		return err
	}
	if !team.Valid() {
		return apperr.Invalid("unknown team %q", team)
	}

	p, ok := b.remove(participantID)
	if !ok {
		return fmt.Errorf("participant %s is not confirmed for match %s: %w", participantID, b.match.ID, apperr.ErrNotFound)
	}
	p.Team = team
	*b.bucket(team) = append(*b.bucket(team), p)
	return nil
}

// Randomize discards every assignment and deals all participants into two
// teams. Team A gets the extra player when the count is odd.
func (b *Board) Randomize(shuffler Shuffler) error {
	if err := b.checkEditable(); err != nil {
		return err
	}
	b.teamA, b.teamB = Randomize(b.Participants(), shuffler)
	b.unassigned = nil
	return nil
}

// Assignments returns the team of every participant on the board.
func (b *Board) Assignments() []Assignment {
	all := b.Participants()
	out := make([]Assignment, len(all))
	for i, p := range all {
		out[i] = Assignment{ParticipantID: p.ID, Team: p.Team}
	}
	return out
}

func (b *Board) checkEditable() error {
	return editable(&b.match)
}

func (b *Board) bucket(team Team) *[]Participant {
	switch team {
	case TeamA:
		return &b.teamA
	case TeamB:
		return &b.teamB
	}
	return &b.unassigned
}

func (b *Board) remove(participantID string) (Participant, bool) {
	for _, bucket := range []*[]Participant{&b.teamA, &b.teamB, &b.unassigned} {
		for i, p := range *bucket {
			if p.ID == participantID {
				*bucket = append((*bucket)[:i:i], (*bucket)[i+1:]...)
				return p, true
			}
		}
	}
	return Participant{}, false
}

func clone(ps []Participant) []Participant {
	return append([]Participant(nil), ps...)
}
