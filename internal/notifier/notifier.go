package notifier

import (
	"github.com/wellball/scorekeeper/internal/game"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For resolved challenge wins
	SendChallengeWonNotification(g *game.Game, won *game.ChallengeWon, challengeName string, dryRun bool) error
	// For finished games
	SendGameEndedNotification(g *game.Game, dryRun bool) error
}
