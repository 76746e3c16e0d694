package notifier

import (
	"sync"

	"github.com/wellball/scorekeeper/internal/game"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendChallengeWonCalls []struct {
		Game *game.Game
		Won  *game.ChallengeWon
		Name string
	}
	SendGameEndedCalls []*game.Game

	SendChallengeWonFunc func(g *game.Game, won *game.ChallengeWon, challengeName string, dryRun bool) error
	SendGameEndedFunc    func(g *game.Game, dryRun bool) error
}

// NewMock creates a new mock notifier.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendChallengeWonNotification(g *game.Game, won *game.ChallengeWon, challengeName string, dryRun bool) error {
	m.mu.Lock()
	m.SendChallengeWonCalls = append(m.SendChallengeWonCalls, struct {
		Game *game.Game
		Won  *game.ChallengeWon
		Name string
	}{g, won, challengeName})
	fn := m.SendChallengeWonFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(g, won, challengeName, dryRun)
	}
	return nil
}

func (m *Mock) SendGameEndedNotification(g *game.Game, dryRun bool) error {
	m.mu.Lock()
	m.SendGameEndedCalls = append(m.SendGameEndedCalls, g)
	fn := m.SendGameEndedFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(g, dryRun)
	}
	return nil
}
