package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/config"
	"github.com/mauv0809/clubhouse/internal/match"
	"github.com/mauv0809/clubhouse/internal/metrics"
	"github.com/mauv0809/clubhouse/internal/notifier"
	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	limiter   *rate.Limiter
	loc       *time.Location
}

// NewNotifier creates a new Notifier. Without a token and channel every
// message is only logged, as in a dry run.
func NewNotifier(cfg config.SlackConfig, metrics metrics.Metrics) *Notifier {
	var api slackClient
	if cfg.Enabled() {
		api = slack.New(cfg.Token)
	} else {
		log.Warn("Slack is not configured, announcements will only be logged")
	}
	return NewNotifierWithAPI(api, cfg.ChannelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		// Slack accepts roughly one message per second per channel.
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
		loc:     clubLocation(),
	}
}

func clubLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun || s.api == nil {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", "", fmt.Errorf("waiting for slack rate limit: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendTeamSheet(ctx context.Context, sb *match.Scoreboard, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatTeamSheet(sb), dryRun)
	return err
}

func (s *Notifier) SendScoreUpdate(ctx context.Context, sb *match.Scoreboard, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatScoreUpdate(sb), dryRun)
	return err
}

func (s *Notifier) SendMatchResult(ctx context.Context, sb *match.Scoreboard, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatMatchResult(sb), dryRun)
	return err
}

func (s *Notifier) SendMatchCancelled(ctx context.Context, m *match.Match, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatMatchCancelled(m), dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(ctx context.Context, stats []match.PlayerStats, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatLeaderboard(stats), dryRun)
	return err
}

func (s *Notifier) kickoff(t time.Time) string {
	return t.In(s.loc).Format("Monday 02 Jan, 15:04")
}

// formatTeamSheet creates the Slack message announcing the teams at kick-off.
func (s *Notifier) formatTeamSheet(sb *match.Scoreboard) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⚽ Kick-off! ⚽", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("Venue: %s\nTime: %s", sb.Match.Venue, s.kickoff(sb.Match.ScheduledAt))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("plain_text", "Team A:\n"+bulletList(sb.TeamA), true, false),
		slack.NewTextBlockObject("plain_text", "Team B:\n"+bulletList(sb.TeamB), true, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	if len(sb.Unassigned) > 0 {
		text := fmt.Sprintf("On the bench: %s", strings.Join(names(sb.Unassigned), ", "))
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", text, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatScoreUpdate creates the Slack message for a goal.
func (s *Notifier) formatScoreUpdate(sb *match.Scoreboard) slack.Message {
	blocks := make([]slack.Block, 0)

	scoreText := fmt.Sprintf("*Team A* %d - %d *Team B*", sb.Score.A, sb.Score.B)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", scoreText, false, false), nil, nil))

	if n := len(sb.Events); n > 0 {
		if line := describeEvent(sb.Events[n-1], playerNames(sb)); line != "" {
			blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", line, true, false)))
		}
	}

	return slack.NewBlockMessage(blocks...)
}

// formatMatchResult creates the Slack message for a completed match.
func (s *Notifier) formatMatchResult(sb *match.Scoreboard) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏁 Full time! 🏁", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var verdict string
	switch {
	case sb.Score.A > sb.Score.B:
		verdict = "Team A won! 🏆"
	case sb.Score.B > sb.Score.A:
		verdict = "Team B won! 🏆"
	default:
		verdict = "It's a draw."
	}
	resultText := fmt.Sprintf("%s at %s\nTeam A %d - %d Team B\n%s",
		sb.Match.Venue, s.kickoff(sb.Match.ScheduledAt), sb.Score.A, sb.Score.B, verdict)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultText, true, false), nil, nil))

	byID := playerNames(sb)
	var lines []string
	for _, e := range sb.Events {
		if e.Kind != match.KindGoal && e.Kind != match.KindOwnGoal {
			continue
		}
		lines = append(lines, "• "+describeEvent(e, byID))
	}
	if len(lines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Goals:\n"+strings.Join(lines, "\n"), true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatMatchCancelled creates the Slack message for a called-off match.
func (s *Notifier) formatMatchCancelled(m *match.Match) slack.Message {
	text := fmt.Sprintf("The match at *%s* on %s is cancelled: %s", m.Venue, s.kickoff(m.ScheduledAt), m.CancellationReason)
	return slack.NewBlockMessage(
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "❌ Match cancelled", true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}

// formatLeaderboard creates a Slack message to display the player leaderboard.
func (s *Notifier) formatLeaderboard(stats []match.PlayerStats) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Player Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(stats) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No stats available yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, stat := range stats {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> Points: %.1f | W-D-L: %d-%d-%d | Goals: %d | Assists: %d | Saves: %d",
			rank,
			medal,
			stat.PersonName,
			stat.Points,
			stat.Wins,
			stat.Draws,
			stat.Losses,
			stat.Goals,
			stat.Assists,
			stat.Saves,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

func playerNames(sb *match.Scoreboard) map[string]string {
	byID := make(map[string]string, len(sb.TeamA)+len(sb.TeamB))
	for _, p := range sb.TeamA {
		byID[p.ID] = p.PersonName
	}
	for _, p := range sb.TeamB {
		byID[p.ID] = p.PersonName
	}
	return byID
}

func describeEvent(e match.StatisticEvent, byID map[string]string) string {
	who := byID[e.ParticipantID]
	switch e.Kind {
	case match.KindGoal:
		if assist, ok := byID[e.AssistParticipantID]; ok {
			return fmt.Sprintf("Goal by %s (assist %s)", who, assist)
		}
		return "Goal by " + who
	case match.KindOwnGoal:
		return fmt.Sprintf("Own goal by %s, point to team %s", who, e.Team.Opponent())
	}
	return ""
}

func names(ps []match.Participant) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.PersonName
	}
	return out
}

func bulletList(ps []match.Participant) string {
	if len(ps) == 0 {
		return "(nobody)"
	}
	return "• " + strings.Join(names(ps), "\n• ")
}
