package clock

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/wellball/scorekeeper/internal/game"
)

// Controller applies clock and round-state transitions to a game through
// store transactions.
type Controller struct {
	store        game.Store
	bonusSeconds int
	otSeconds    int
}

// NewController creates a new clock Controller. bonusSeconds is the fixed
// bonus-round duration, otSeconds the overtime duration.
func NewController(store game.Store, bonusSeconds, otSeconds int) *Controller {
	return &Controller{store: store, bonusSeconds: bonusSeconds, otSeconds: otSeconds}
}

func (c *Controller) mutate(gameID string, fn func(g *game.Game) error) error {
	return c.store.Transact(func(tx game.Tx) error {
		g, err := tx.GetGame(gameID)
		if err != nil {
			return err
		}
		if g.Status == game.StatusEnded {
			return game.ErrGameEnded
		}
		if err := fn(g); err != nil {
			return err
		}
		return tx.SaveGame(g)
	})
}

// Start starts the shot clock.
func (c *Controller) Start(gameID string) error {
	return c.mutate(gameID, func(g *game.Game) error {
		g.Clock = Start(g.Clock, time.Now())
		return nil
	})
}

// Stop stops the shot clock, folding elapsed time into the baseline.
func (c *Controller) Stop(gameID string) error {
	return c.mutate(gameID, func(g *game.Game) error {
		g.Clock = Stop(g.Clock, time.Now())
		return nil
	})
}

// SetSeconds sets the clock baseline without changing the running state.
func (c *Controller) SetSeconds(gameID string, seconds int) error {
	return c.mutate(gameID, func(g *game.Game) error {
		g.Clock = SetSeconds(g.Clock, seconds, time.Now())
		return nil
	})
}

// Reset sets the baseline and forces the clock stopped.
func (c *Controller) Reset(gameID string, seconds int) error {
	return c.mutate(gameID, func(g *game.Game) error {
		g.Clock = Reset(seconds)
		return nil
	})
}

// StartBonus stops the clock, loads the bonus duration and marks the bonus
// round active. The operator starts the clock explicitly afterwards.
func (c *Controller) StartBonus(gameID string) error {
	return c.mutate(gameID, func(g *game.Game) error {
		g.Clock = Reset(c.bonusSeconds)
		g.BonusActive = true
		return nil
	})
}

// EndBonus clears the bonus flag and nothing else.
func (c *Controller) EndBonus(gameID string) error {
	return c.mutate(gameID, func(g *game.Game) error {
		g.BonusActive = false
		return nil
	})
}

// Pause marks the game paused for dispute or review.
func (c *Controller) Pause(gameID, reason string) error {
	return c.mutate(gameID, func(g *game.Game) error {
		g.Paused = true
		g.PauseReason = reason
		return nil
	})
}

// Resume clears the pause.
func (c *Controller) Resume(gameID string) error {
	return c.mutate(gameID, func(g *game.Game) error {
		g.Paused = false
		g.PauseReason = ""
		return nil
	})
}

// EndGame is the one-way live→ended transition. Only the session creator may
// end the game.
func (c *Controller) EndGame(gameID, callerUID string) error {
	return c.mutate(gameID, func(g *game.Game) error {
		if callerUID != g.CreatedBy {
			return game.ErrNotMainOperator
		}
		g.Status = game.StatusEnded
		g.Clock = Stop(g.Clock, time.Now())
		return nil
	})
}

// CheckBonusExpiry applies the overtime escalation if the bonus clock has
// reached zero with tied match scores. observedOT is the overtime count the
// caller saw on its last read; the persisted count guards against double
// escalation when several observers report the same tick. Returns true when
// overtime was started.
func (c *Controller) CheckBonusExpiry(gameID string, observedOT int) (bool, error) {
	fired := false
	err := c.store.Transact(func(tx game.Tx) error {
		g, err := tx.GetGame(gameID)
		if err != nil {
			return err
		}
		if g.Status == game.StatusEnded || !g.BonusActive {
			return nil
		}
		if Remaining(g.Clock, time.Now()) > 0 {
			return nil
		}
		newClock, newCount, ok := OnBonusClockZero(g.MatchScore.A, g.MatchScore.B, g.OvertimeCount, observedOT, c.otSeconds)
		if !ok {
			return nil
		}
		g.Clock = newClock
		g.OvertimeCount = newCount
		fired = true
		log.Info("Bonus clock expired with tied scores, starting overtime", "gameID", gameID, "overtime", newCount)
		return tx.SaveGame(g)
	})
	return fired, err
}
