package ingest

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellball/scorekeeper/internal/game"
	"github.com/wellball/scorekeeper/internal/metrics"
	"github.com/wellball/scorekeeper/internal/scoring"
)

// spyScorer records RecordShot calls and returns a configurable result.
type spyScorer struct {
	mu    sync.Mutex
	calls []game.Attempt
	err   error
}

func (s *spyScorer) RecordShot(gameID string, a game.Attempt) (*scoring.ShotResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, a)
	if s.err != nil {
		return nil, s.err
	}
	return &scoring.ShotResult{Log: &game.LogEntry{ID: uuid.NewString(), GameID: gameID}}, nil
}

func (s *spyScorer) Calls() []game.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]game.Attempt(nil), s.calls...)
}

type spyPublisher struct {
	mu           sync.Mutex
	scoreUpdates []string
	reviewQueued []string
}

func (p *spyPublisher) ScoreUpdated(gameID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scoreUpdates = append(p.scoreUpdates, gameID)
}

func (p *spyPublisher) ReviewQueued(gameID, itemID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reviewQueued = append(p.reviewQueued, itemID)
}

func newTestCoordinator() (*Coordinator, *game.MockStore, *spyScorer, *spyPublisher) {
	store := game.NewMock()
	scorer := &spyScorer{}
	pub := &spyPublisher{}
	return NewCoordinator(store, scorer, metrics.NewMock(), pub), store, scorer, pub
}

func autoGame() *game.Game {
	startedAt := time.Now().Unix()
	return &game.Game{
		ID:        uuid.NewString(),
		Status:    game.StatusLive,
		Mode:      game.ModeFreestyle,
		CreatedBy: "operator-1",
		TeamA:     []game.Player{{ID: "p1", Name: "Alice", Jersey: 7}},
		TeamB:     []game.Player{{ID: "p2", Name: "Bob", Jersey: 12}},
		Clock:     game.ClockState{Seconds: 120, Running: true, StartedAt: &startedAt},
		Auto: game.AutoConfig{
			Enabled:         true,
			IngestThreshold: 0.85,
			ReviewThreshold: 0.65,
		},
	}
}

func pendingEvent(gameID string, confidence float64) *game.AutoEvent {
	return &game.AutoEvent{
		ID:         uuid.NewString(),
		GameID:     gameID,
		PlayerID:   "p1",
		ShotType:   game.ShotMid,
		Made:       true,
		Confidence: confidence,
		Status:     game.EventPending,
	}
}

func TestProcessEvent(t *testing.T) {
	t.Run("high confidence event is ingested", func(t *testing.T) {
		c, store, scorer, pub := newTestCoordinator()
		g := autoGame()
		store.Games[g.ID] = g
		ev := pendingEvent(g.ID, 0.92)
		store.AutoEvents[ev.ID] = ev

		require.NoError(t, c.ProcessEvent(ev.ID))

		calls := scorer.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, game.SourceAuto, calls[0].Source)
		assert.Equal(t, ev.ID, calls[0].EventID)
		assert.Equal(t, game.EventIngested, ev.Status)
		assert.Equal(t, []string{g.ID}, pub.scoreUpdates)
	})

	t.Run("mid confidence event is queued for review", func(t *testing.T) {
		c, store, scorer, pub := newTestCoordinator()
		g := autoGame()
		store.Games[g.ID] = g
		ev := pendingEvent(g.ID, 0.7)
		store.AutoEvents[ev.ID] = ev

		require.NoError(t, c.ProcessEvent(ev.ID))

		assert.Empty(t, scorer.Calls())
		assert.Equal(t, game.EventQueued, ev.Status)
		require.Len(t, store.CreateReviewItemCalls, 1)
		assert.Equal(t, game.ReasonLowConfidence, store.CreateReviewItemCalls[0].Reason)
		assert.Len(t, pub.reviewQueued, 1)
	})

	t.Run("low confidence event is ignored", func(t *testing.T) {
		c, store, scorer, _ := newTestCoordinator()
		g := autoGame()
		store.Games[g.ID] = g
		ev := pendingEvent(g.ID, 0.3)
		store.AutoEvents[ev.ID] = ev

		require.NoError(t, c.ProcessEvent(ev.ID))

		assert.Empty(t, scorer.Calls())
		assert.Equal(t, game.EventIgnored, ev.Status)
		assert.Empty(t, store.CreateReviewItemCalls)
	})

	t.Run("disabled auto mode resolves disabled", func(t *testing.T) {
		c, store, _, _ := newTestCoordinator()
		g := autoGame()
		g.Auto.Enabled = false
		store.Games[g.ID] = g
		ev := pendingEvent(g.ID, 0.95)
		store.AutoEvents[ev.ID] = ev

		require.NoError(t, c.ProcessEvent(ev.ID))
		assert.Equal(t, game.EventDisabled, ev.Status)
	})

	t.Run("clock gate blocks while stopped", func(t *testing.T) {
		c, store, _, _ := newTestCoordinator()
		g := autoGame()
		g.Auto.ClockGated = true
		g.Clock.Running = false
		store.Games[g.ID] = g
		ev := pendingEvent(g.ID, 0.95)
		store.AutoEvents[ev.ID] = ev

		require.NoError(t, c.ProcessEvent(ev.ID))
		assert.Equal(t, game.EventBlocked, ev.Status)
		assert.Empty(t, store.CreateReviewItemCalls)
	})

	t.Run("malformed event goes to review as bad shape", func(t *testing.T) {
		c, store, _, _ := newTestCoordinator()
		g := autoGame()
		store.Games[g.ID] = g
		ev := pendingEvent(g.ID, 0.95)
		ev.PlayerID = ""
		store.AutoEvents[ev.ID] = ev

		require.NoError(t, c.ProcessEvent(ev.ID))
		assert.Equal(t, game.EventQueued, ev.Status)
		require.Len(t, store.CreateReviewItemCalls, 1)
		assert.Equal(t, game.ReasonBadShape, store.CreateReviewItemCalls[0].Reason)
	})

	t.Run("scoring rejection routes to review", func(t *testing.T) {
		c, store, scorer, _ := newTestCoordinator()
		g := autoGame()
		store.Games[g.ID] = g
		ev := pendingEvent(g.ID, 0.95)
		store.AutoEvents[ev.ID] = ev
		scorer.err = game.ErrShotRuleViolation

		require.NoError(t, c.ProcessEvent(ev.ID))
		assert.Equal(t, game.EventQueued, ev.Status)
		require.Len(t, store.CreateReviewItemCalls, 1)
		assert.Equal(t, game.ReasonRuleViolation, store.CreateReviewItemCalls[0].Reason)
	})

	t.Run("infrastructure failure blocks the event", func(t *testing.T) {
		c, store, scorer, _ := newTestCoordinator()
		g := autoGame()
		store.Games[g.ID] = g
		ev := pendingEvent(g.ID, 0.95)
		store.AutoEvents[ev.ID] = ev
		scorer.err = assert.AnError

		require.NoError(t, c.ProcessEvent(ev.ID))
		assert.Equal(t, game.EventBlocked, ev.Status)
		assert.Equal(t, assert.AnError.Error(), ev.Error)
	})

	t.Run("lost claim returns already claimed", func(t *testing.T) {
		c, store, _, _ := newTestCoordinator()
		g := autoGame()
		store.Games[g.ID] = g
		ev := pendingEvent(g.ID, 0.95)
		ev.Status = game.EventProcessing
		store.AutoEvents[ev.ID] = ev

		err := c.ProcessEvent(ev.ID)
		assert.ErrorIs(t, err, game.ErrEventAlreadyClaimed)
	})
}

func TestSubmitEvent(t *testing.T) {
	t.Run("assigns id and clamps confidence", func(t *testing.T) {
		c, store, _, _ := newTestCoordinator()
		ev := &game.AutoEvent{GameID: "g1", PlayerID: "p1", ShotType: game.ShotMid, Confidence: 1.4}

		accepted, err := c.SubmitEvent(ev)
		require.NoError(t, err)
		assert.True(t, accepted)
		assert.NotEmpty(t, ev.ID)
		assert.Equal(t, 1.0, ev.Confidence)
		assert.Equal(t, game.EventPending, store.AutoEvents[ev.ID].Status)
	})

	t.Run("duplicate dedupe key is suppressed", func(t *testing.T) {
		c, _, _, _ := newTestCoordinator()
		first := &game.AutoEvent{GameID: "g1", PlayerID: "p1", ShotType: game.ShotMid, DedupeKey: "k1"}
		accepted, err := c.SubmitEvent(first)
		require.NoError(t, err)
		assert.True(t, accepted)

		dup := &game.AutoEvent{GameID: "g1", PlayerID: "p1", ShotType: game.ShotMid, DedupeKey: "k1"}
		accepted, err = c.SubmitEvent(dup)
		require.NoError(t, err)
		assert.False(t, accepted)
	})

	t.Run("missing game id rejected", func(t *testing.T) {
		c, _, _, _ := newTestCoordinator()
		_, err := c.SubmitEvent(&game.AutoEvent{PlayerID: "p1"})
		assert.ErrorIs(t, err, game.ErrBadEventShape)
	})
}

func TestSetAutoMode(t *testing.T) {
	c, store, _, _ := newTestCoordinator()
	g := autoGame()
	store.Games[g.ID] = g

	t.Run("review threshold above ingest rejected", func(t *testing.T) {
		err := c.SetAutoMode(g.ID, game.AutoConfig{Enabled: true, IngestThreshold: 0.6, ReviewThreshold: 0.9})
		assert.ErrorIs(t, err, game.ErrInvalidThreshold)
	})

	t.Run("out of range threshold rejected", func(t *testing.T) {
		err := c.SetAutoMode(g.ID, game.AutoConfig{Enabled: true, IngestThreshold: 1.2, ReviewThreshold: 0.5})
		assert.ErrorIs(t, err, game.ErrInvalidThreshold)
	})

	t.Run("valid config persists", func(t *testing.T) {
		cfg := game.AutoConfig{Enabled: true, ClockGated: true, IngestThreshold: 0.9, ReviewThreshold: 0.7}
		require.NoError(t, c.SetAutoMode(g.ID, cfg))
		assert.Equal(t, cfg, store.Games[g.ID].Auto)
	})
}

func TestProcessPending(t *testing.T) {
	c, store, scorer, _ := newTestCoordinator()
	g := autoGame()
	store.Games[g.ID] = g
	for i := 0; i < 3; i++ {
		ev := pendingEvent(g.ID, 0.9)
		store.AutoEvents[ev.ID] = ev
	}

	c.ProcessPending()

	assert.Len(t, scorer.Calls(), 3)
	for _, ev := range store.AutoEvents {
		assert.Equal(t, game.EventIngested, ev.Status)
	}
}
