package game

// Store defines persistence for games, logs, auto events, review items and
// tracker presence. The sqlite implementation lives in store.go; a spy mock
// for tests lives in mock.go.
type Store interface {
	CreateGame(g *Game) error
	GetGame(id string) (*Game, error)
	ListGames() ([]*Game, error)

	// Transact runs fn against a single consistent snapshot of the game and
	// its logs. All writes commit atomically or not at all; every scoring,
	// clock and lock mutation goes through here.
	Transact(fn func(tx Tx) error) error

	ListLogs(gameID string) ([]*LogEntry, error)
	GetLog(gameID, logID string) (*LogEntry, error)

	// SubmitAutoEvent inserts a pending event. It returns false when the
	// event's dedupe key was already seen for this game, which is a silent
	// no-op for the caller.
	SubmitAutoEvent(ev *AutoEvent) (bool, error)
	// ClaimAutoEvent atomically moves pending→processing. A false return
	// means another coordinator instance won the race.
	ClaimAutoEvent(eventID string) (bool, error)
	ResolveAutoEvent(eventID string, status AutoEventStatus, reason, errMsg string) error
	GetAutoEvent(eventID string) (*AutoEvent, error)
	ListPendingAutoEvents(gameID string) ([]*AutoEvent, error)
	ListPendingGameIDs() ([]string, error)

	CreateReviewItem(item *ReviewItem) error
	GetReviewItem(id string) (*ReviewItem, error)
	ListOpenReviewItems(gameID string) ([]*ReviewItem, error)
	ResolveReviewItem(id string, resolution ReviewResolution, resolvedBy string) error
	// ReopenReviewItem clears a resolution so the item is back in the open
	// queue. Used when applying an approved item failed after the resolution
	// write.
	ReopenReviewItem(id string) error

	UpsertTracker(gameID, uid string, team TeamKey, seenAt int64) error
	DeleteTracker(gameID, uid string) error
	ListTrackers(gameID string) ([]*Tracker, error)
}

// Tx is the view of the store inside a transaction.
type Tx interface {
	GetGame(id string) (*Game, error)
	SaveGame(g *Game) error
	InsertLog(l *LogEntry) error
	DeleteLog(gameID, logID string) error
	GetLog(gameID, logID string) (*LogEntry, error)
	ListChallengeLogs(gameID string, challengeIndex int) ([]*LogEntry, error)
}
