package pubsub

import "github.com/charmbracelet/log"

// Publisher adapts a PubSubClient to the coordinator's fan-out hooks.
// Publish failures are logged and dropped; scoring never blocks on fan-out.
type Publisher struct {
	client PubSubClient
}

func NewPublisher(client PubSubClient) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) ScoreUpdated(gameID string) {
	if err := p.client.SendMessage(string(EventScoreUpdated), ScoreUpdatedMessage{GameID: gameID}); err != nil {
		log.Error("Publishing score update failed", "gameID", gameID, "error", err)
	}
}

func (p *Publisher) ReviewQueued(gameID, itemID string) {
	if err := p.client.SendMessage(string(EventReviewQueued), ReviewQueuedMessage{GameID: gameID, ItemID: itemID}); err != nil {
		log.Error("Publishing review queued failed", "gameID", gameID, "itemID", itemID, "error", err)
	}
}
