package notifier

import (
	"context"

	"github.com/mauv0809/clubhouse/internal/match"
)

// Notifier defines a high-level interface for announcing match events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// When a match starts
	SendTeamSheet(ctx context.Context, sb *match.Scoreboard, dryRun bool) error
	// After every goal or own goal
	SendScoreUpdate(ctx context.Context, sb *match.Scoreboard, dryRun bool) error
	// When a match is completed
	SendMatchResult(ctx context.Context, sb *match.Scoreboard, dryRun bool) error
	SendMatchCancelled(ctx context.Context, m *match.Match, dryRun bool) error
	SendLeaderboard(ctx context.Context, stats []match.PlayerStats, dryRun bool) error
}
