package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellball/scorekeeper/internal/clock"
	"github.com/wellball/scorekeeper/internal/database"
	"github.com/wellball/scorekeeper/internal/game"
)

func newTestController(t *testing.T) (*clock.Controller, game.Store, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := game.New(db)
	teardown := func() {
		dbTeardown()
		db.Close()
	}

	return clock.NewController(store, 180, 60), store, teardown
}

func createGame(t *testing.T, store game.Store) *game.Game {
	t.Helper()
	g := &game.Game{
		ID:        "game-1",
		Name:      "Test Game",
		Status:    game.StatusLive,
		Mode:      game.ModeFreestyle,
		CreatedBy: "operator-1",
		TeamA:     []game.Player{{ID: "p1", Name: "Alice"}},
		TeamB:     []game.Player{{ID: "p2", Name: "Bob"}},
		CreatedAt: time.Now().Unix(),
	}
	require.NoError(t, store.CreateGame(g))
	return g
}

func TestControllerClockFlow(t *testing.T) {
	ctrl, store, teardown := newTestController(t)
	defer teardown()
	createGame(t, store)

	require.NoError(t, ctrl.SetSeconds("game-1", 120))
	require.NoError(t, ctrl.Start("game-1"))

	g, err := store.GetGame("game-1")
	require.NoError(t, err)
	assert.True(t, g.Clock.Running)
	rem := clock.Remaining(g.Clock, time.Now())
	assert.LessOrEqual(t, rem, 120)
	assert.Greater(t, rem, 115)

	require.NoError(t, ctrl.Stop("game-1"))
	g, err = store.GetGame("game-1")
	require.NoError(t, err)
	assert.False(t, g.Clock.Running)

	require.NoError(t, ctrl.Reset("game-1", 60))
	g, err = store.GetGame("game-1")
	require.NoError(t, err)
	assert.Equal(t, 60, g.Clock.Seconds)
	assert.False(t, g.Clock.Running)
}

func TestControllerBonusRound(t *testing.T) {
	ctrl, store, teardown := newTestController(t)
	defer teardown()
	createGame(t, store)

	require.NoError(t, ctrl.StartBonus("game-1"))
	g, err := store.GetGame("game-1")
	require.NoError(t, err)
	assert.True(t, g.BonusActive)
	assert.Equal(t, 180, g.Clock.Seconds)
	assert.False(t, g.Clock.Running, "operator starts the bonus clock explicitly")

	require.NoError(t, ctrl.EndBonus("game-1"))
	g, err = store.GetGame("game-1")
	require.NoError(t, err)
	assert.False(t, g.BonusActive)
}

func TestControllerPauseResume(t *testing.T) {
	ctrl, store, teardown := newTestController(t)
	defer teardown()
	createGame(t, store)

	require.NoError(t, ctrl.Pause("game-1", "scoring dispute"))
	g, err := store.GetGame("game-1")
	require.NoError(t, err)
	assert.True(t, g.Paused)
	assert.Equal(t, "scoring dispute", g.PauseReason)

	require.NoError(t, ctrl.Resume("game-1"))
	g, err = store.GetGame("game-1")
	require.NoError(t, err)
	assert.False(t, g.Paused)
	assert.Empty(t, g.PauseReason)
}

func TestControllerEndGame(t *testing.T) {
	ctrl, store, teardown := newTestController(t)
	defer teardown()
	createGame(t, store)

	err := ctrl.EndGame("game-1", "someone-else")
	assert.ErrorIs(t, err, game.ErrNotMainOperator)

	require.NoError(t, ctrl.EndGame("game-1", "operator-1"))
	g, err := store.GetGame("game-1")
	require.NoError(t, err)
	assert.Equal(t, game.StatusEnded, g.Status)

	// Every further mutation is rejected.
	assert.ErrorIs(t, ctrl.Start("game-1"), game.ErrGameEnded)
	assert.ErrorIs(t, ctrl.EndGame("game-1", "operator-1"), game.ErrGameEnded)
}

func TestCheckBonusExpiry(t *testing.T) {
	ctrl, store, teardown := newTestController(t)
	defer teardown()

	setup := func(t *testing.T, id string, scoreA, scoreB int, clockSeconds int) {
		g := &game.Game{
			ID:        id,
			Name:      "Bonus Game",
			Status:    game.StatusLive,
			Mode:      game.ModeFreestyle,
			CreatedBy: "operator-1",
			TeamA:     []game.Player{{ID: "p1", Name: "Alice"}},
			TeamB:     []game.Player{{ID: "p2", Name: "Bob"}},
			CreatedAt: time.Now().Unix(),
		}
		require.NoError(t, store.CreateGame(g))
		err := store.Transact(func(tx game.Tx) error {
			g, err := tx.GetGame(id)
			if err != nil {
				return err
			}
			g.BonusActive = true
			g.MatchScore = game.ScorePair{A: scoreA, B: scoreB}
			g.Clock = game.ClockState{Seconds: clockSeconds}
			return tx.SaveGame(g)
		})
		require.NoError(t, err)
	}

	t.Run("tied scores start overtime once", func(t *testing.T) {
		setup(t, "bonus-1", 10, 10, 0)

		fired, err := ctrl.CheckBonusExpiry("bonus-1", 0)
		require.NoError(t, err)
		assert.True(t, fired)

		g, err := store.GetGame("bonus-1")
		require.NoError(t, err)
		assert.Equal(t, 1, g.OvertimeCount)
		assert.Equal(t, 60, g.Clock.Seconds)

		// A second report of the same tick carries a stale count.
		fired, err = ctrl.CheckBonusExpiry("bonus-1", 0)
		require.NoError(t, err)
		assert.False(t, fired)

		g, err = store.GetGame("bonus-1")
		require.NoError(t, err)
		assert.Equal(t, 1, g.OvertimeCount)
	})

	t.Run("untied scores do nothing", func(t *testing.T) {
		setup(t, "bonus-2", 12, 10, 0)

		fired, err := ctrl.CheckBonusExpiry("bonus-2", 0)
		require.NoError(t, err)
		assert.False(t, fired)
	})

	t.Run("clock still running does nothing", func(t *testing.T) {
		setup(t, "bonus-3", 10, 10, 120)

		fired, err := ctrl.CheckBonusExpiry("bonus-3", 0)
		require.NoError(t, err)
		assert.False(t, fired)
	})

	t.Run("bonus not active does nothing", func(t *testing.T) {
		g := &game.Game{
			ID:        "bonus-4",
			Name:      "No Bonus",
			Status:    game.StatusLive,
			Mode:      game.ModeFreestyle,
			CreatedBy: "operator-1",
			CreatedAt: time.Now().Unix(),
		}
		require.NoError(t, store.CreateGame(g))

		fired, err := ctrl.CheckBonusExpiry("bonus-4", 0)
		require.NoError(t, err)
		assert.False(t, fired)
	})
}
