package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/apperr"
	"github.com/mauv0809/clubhouse/internal/match"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/notifier"
	"github.com/mauv0809/clubhouse/internal/pubsub"
	"github.com/mauv0809/clubhouse/internal/session"
)

// New creates a new Processor.
func New(matches Matches, notifier notifier.Notifier, metrics metrics.Metrics, activity metrics.ActivityStore) *Processor {
	return &Processor{
		matches:  matches,
		notifier: notifier,
		metrics:  metrics,
		activity: activity,
	}
}

// HandleEvent announces a lifecycle event and counts it. Read failures are
// returned so the push subscription redelivers; notification failures are
// only logged since the message may already have reached the channel.
func (p *Processor) HandleEvent(ctx context.Context, evt match.LifecycleEvent, dryRun bool) error {
	if evt.ClubID == "" || evt.MatchID == "" {
		return apperr.Invalid("event %q has no club or match", evt.Type)
	}
	startTime := time.Now()
	defer func() {
		p.metrics.ObserveProcessingDuration(float64(time.Since(startTime).Milliseconds()))
	}()

	sess := session.System(evt.ClubID)
	log.Info("Processing lifecycle event", "type", evt.Type, "club_id", evt.ClubID, "match_id", evt.MatchID)

	switch pubsub.EventType(evt.Type) {
	case pubsub.EventMatchStarted:
		sb, err := p.matches.Scoreboard(ctx, sess, evt.MatchID)
		if err != nil {
			return fmt.Errorf("load scoreboard for team sheet: %w", err)
		}
		p.notify("team sheet", evt, p.notifier.SendTeamSheet(ctx, sb, dryRun))
		p.count(ctx, evt.ClubID, ActivityMatchesStarted, dryRun)

	case pubsub.EventStatisticRecorded:
		if evt.Kind == match.KindGoal || evt.Kind == match.KindOwnGoal {
			sb, err := p.matches.Scoreboard(ctx, sess, evt.MatchID)
			if err != nil {
				return fmt.Errorf("load scoreboard for score update: %w", err)
			}
			p.notify("score update", evt, p.notifier.SendScoreUpdate(ctx, sb, dryRun))
		}
		p.count(ctx, evt.ClubID, activityStatisticPrefix+string(evt.Kind), dryRun)

	case pubsub.EventMatchCompleted:
		sb, err := p.matches.Scoreboard(ctx, sess, evt.MatchID)
		if err != nil {
			return fmt.Errorf("load scoreboard for result: %w", err)
		}
		p.notify("result", evt, p.notifier.SendMatchResult(ctx, sb, dryRun))

		stats, err := p.matches.Leaderboard(ctx, sess)
		if err != nil {
			log.Error("Failed to build leaderboard", "error", err, "club_id", evt.ClubID)
		} else {
			p.notify("leaderboard", evt, p.notifier.SendLeaderboard(ctx, stats, dryRun))
		}
		p.count(ctx, evt.ClubID, ActivityMatchesCompleted, dryRun)

	case pubsub.EventMatchCancelled:
		m, err := p.matches.GetMatch(ctx, sess, evt.MatchID)
		if err != nil {
			return fmt.Errorf("load cancelled match: %w", err)
		}
		p.notify("cancellation", evt, p.notifier.SendMatchCancelled(ctx, m, dryRun))
		p.count(ctx, evt.ClubID, ActivityMatchesCancelled, dryRun)

	default:
		log.Warn("Ignoring unknown lifecycle event", "type", evt.Type, "match_id", evt.MatchID)
	}
	return nil
}

func (p *Processor) notify(what string, evt match.LifecycleEvent, err error) {
	if err != nil {
		log.Error("Failed to send notification", "notification", what, "error", err, "match_id", evt.MatchID)
	}
}

func (p *Processor) count(ctx context.Context, clubID, key string, dryRun bool) {
	if dryRun {
		log.Info("[Dry Run] Would increment activity counter", "club_id", clubID, "key", key)
		return
	}
	p.activity.Increment(ctx, clubID, key)
}
