// Package clock implements the shot-clock state machine and the bonus-round
// and overtime transitions. The transition functions are pure; Controller
// applies them through store transactions.
package clock

import (
	"time"

	"github.com/wellball/scorekeeper/internal/game"
)

// Remaining derives the effective remaining seconds. The stored Seconds value
// is only a baseline; while running, elapsed time since the authoritative
// start timestamp is subtracted. Stored remaining time is never trusted while
// the clock runs, which keeps reconnecting clients drift-free.
func Remaining(c game.ClockState, now time.Time) int {
	if !c.Running || c.StartedAt == nil {
		return c.Seconds
	}
	elapsed := int(now.Unix() - *c.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	rem := c.Seconds - elapsed
	if rem < 0 {
		return 0
	}
	return rem
}

// Start transitions Stopped→Running, stamping the start time. Starting an
// already running clock is a no-op.
func Start(c game.ClockState, now time.Time) game.ClockState {
	if c.Running {
		return c
	}
	ts := now.Unix()
	return game.ClockState{Seconds: c.Seconds, Running: true, StartedAt: &ts}
}

// Stop transitions Running→Stopped, folding the elapsed time into the
// baseline.
func Stop(c game.ClockState, now time.Time) game.ClockState {
	if !c.Running {
		return c
	}
	return game.ClockState{Seconds: Remaining(c, now), Running: false}
}

// SetSeconds replaces the baseline without changing the running state. On a
// running clock the start timestamp is re-stamped so the new baseline counts
// from now.
func SetSeconds(c game.ClockState, n int, now time.Time) game.ClockState {
	if n < 0 {
		n = 0
	}
	if !c.Running {
		return game.ClockState{Seconds: n, Running: false}
	}
	ts := now.Unix()
	return game.ClockState{Seconds: n, Running: true, StartedAt: &ts}
}

// Reset sets the baseline and forces Stopped.
func Reset(n int) game.ClockState {
	if n < 0 {
		n = 0
	}
	return game.ClockState{Seconds: n, Running: false}
}

// OnBonusClockZero is the overtime escalation transition: when the bonus
// clock reaches zero with tied match scores, the clock resets to the OT
// duration and the overtime counter increments. The observedOT guard makes
// it fire exactly once per tie no matter how many observers report the zero
// tick: whoever carries a stale counter loses.
func OnBonusClockZero(matchA, matchB, otCount, observedOT, otSeconds int) (game.ClockState, int, bool) {
	if matchA != matchB {
		return game.ClockState{}, otCount, false
	}
	if otCount != observedOT {
		return game.ClockState{}, otCount, false
	}
	return Reset(otSeconds), otCount + 1, true
}
