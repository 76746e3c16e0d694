package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventScoreUpdated EventType = "score-updated"
	EventReviewQueued EventType = "review-queued"
	EventChallengeWon EventType = "challenge-won"
	EventGameEnded    EventType = "game-ended"
)

// ScoreUpdatedMessage is the payload on the score-updated topic.
type ScoreUpdatedMessage struct {
	GameID string `msgpack:"game_id"`
}

// ReviewQueuedMessage is the payload on the review-queued topic.
type ReviewQueuedMessage struct {
	GameID string `msgpack:"game_id"`
	ItemID string `msgpack:"item_id"`
}
