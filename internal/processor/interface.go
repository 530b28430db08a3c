package processor

import (
	"context"

	"github.com/mauv0809/clubhouse/internal/match"
	"github.com/mauv0809/clubhouse/internal/session"
)

// Matches defines the match reads required by the processor.
// *match.Service satisfies it.
type Matches interface {
	GetMatch(ctx context.Context, sess session.Session, matchID string) (*match.Match, error)
	Scoreboard(ctx context.Context, sess session.Session, matchID string) (*match.Scoreboard, error)
	Leaderboard(ctx context.Context, sess session.Session) ([]match.PlayerStats, error)
}
