package ingest

import (
	"github.com/wellball/scorekeeper/internal/game"
	"github.com/wellball/scorekeeper/internal/scoring"
)

// Scorer is the slice of the scoring engine the coordinator drives.
type Scorer interface {
	RecordShot(gameID string, a game.Attempt) (*scoring.ShotResult, error)
}

// Publisher receives fan-out notifications for committed and queued events.
type Publisher interface {
	ScoreUpdated(gameID string)
	ReviewQueued(gameID, itemID string)
}

// NopPublisher discards all notifications.
type NopPublisher struct{}

func (NopPublisher) ScoreUpdated(gameID string)         {}
func (NopPublisher) ReviewQueued(gameID, itemID string) {}
