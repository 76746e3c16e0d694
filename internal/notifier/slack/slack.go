package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"
	"github.com/wellball/scorekeeper/internal/game"
	"github.com/wellball/scorekeeper/internal/metrics"
	"github.com/wellball/scorekeeper/internal/notifier"
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
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendChallengeWonNotification announces a resolved challenge win.
func (s *Notifier) SendChallengeWonNotification(g *game.Game, won *game.ChallengeWon, challengeName string, dryRun bool) error {
	msg := s.formatChallengeWon(g, won, challengeName)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendGameEndedNotification announces the final score of a finished game.
func (s *Notifier) SendGameEndedNotification(g *game.Game, dryRun bool) error {
	msg := s.formatGameEnded(g)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// formatChallengeWon creates the Slack message for a challenge win using Block Kit.
func (s *Notifier) formatChallengeWon(g *game.Game, won *game.ChallengeWon, challengeName string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏀 Challenge won! 🏀", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	name := challengeName
	if name == "" {
		name = fmt.Sprintf("Challenge %d", won.AtIndex+1)
	}
	detailsText := fmt.Sprintf("Game: %s\nChallenge: %s\nWinner: Team %s (+%d points)", g.Name, name, won.Team, won.Points)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	scoreText := fmt.Sprintf("Match score: %d - %d", g.MatchScore.A, g.MatchScore.B)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", scoreText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

// formatGameEnded creates the Slack message for a finished game using Block Kit.
func (s *Notifier) formatGameEnded(g *game.Game) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏀 Game finished! 🏀", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	winner := "It's a tie!"
	if g.MatchScore.A > g.MatchScore.B {
		winner = "Team A wins!"
	} else if g.MatchScore.B > g.MatchScore.A {
		winner = "Team B wins!"
	}
	detailsText := fmt.Sprintf("%s\nFinal score: %d - %d", winner, g.MatchScore.A, g.MatchScore.B)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	rosterText := fmt.Sprintf("Team A: %s\nTeam B: %s", playerNames(g.TeamA), playerNames(g.TeamB))
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", rosterText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

func playerNames(players []game.Player) string {
	names := make([]string, 0, len(players))
	for _, p := range players {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, ", ")
}
