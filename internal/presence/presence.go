// Package presence manages operator presence and the optimistic per-team
// tracker locks. A lock is advisory until the scoring engine enforces it on
// write; presence records drive stale-lock takeover.
package presence

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wellball/scorekeeper/internal/game"
)

// Manager owns lock transitions and tracker heartbeats for all games.
type Manager struct {
	store      game.Store
	staleAfter time.Duration
}

// NewManager creates a presence manager. staleAfter is how long a tracker may
// go silent before its locks become claimable by someone else.
func NewManager(store game.Store, staleAfter time.Duration) *Manager {
	return &Manager{store: store, staleAfter: staleAfter}
}

// Claim takes the tracker lock for a team. It succeeds when the lock is
// unclaimed, already held by the caller, or held by a tracker that has gone
// stale. Any other transition is rejected.
func (m *Manager) Claim(gameID, uid string, team game.TeamKey) error {
	if !team.Valid() {
		return fmt.Errorf("invalid team %q", team)
	}
	now := time.Now()
	err := m.store.Transact(func(tx game.Tx) error {
		g, err := tx.GetGame(gameID)
		if err != nil {
			return err
		}
		if g.Status == game.StatusEnded {
			return game.ErrGameEnded
		}
		lock := g.Lock(team)
		if lock != nil && lock.UID != uid && !m.expired(lock.UpdatedAt, now) {
			return game.ErrInvalidLockTransition
		}
		if lock != nil && lock.UID != uid {
			log.Info("Taking over stale tracker lock", "gameID", gameID, "team", team, "previous", lock.UID, "uid", uid)
		}
		g.SetLock(team, &game.TrackerLock{UID: uid, UpdatedAt: now.Unix()})
		return tx.SaveGame(g)
	})
	if err != nil {
		return err
	}
	return m.store.UpsertTracker(gameID, uid, team, now.Unix())
}

// Release gives up a lock held by the caller. Releasing a lock someone else
// holds is rejected; releasing an unclaimed lock is a no-op.
func (m *Manager) Release(gameID, uid string, team game.TeamKey) error {
	if !team.Valid() {
		return fmt.Errorf("invalid team %q", team)
	}
	return m.store.Transact(func(tx game.Tx) error {
		g, err := tx.GetGame(gameID)
		if err != nil {
			return err
		}
		lock := g.Lock(team)
		if lock == nil {
			return nil
		}
		if lock.UID != uid {
			return game.ErrInvalidLockTransition
		}
		g.SetLock(team, nil)
		return tx.SaveGame(g)
	})
}

// Assign force-sets or clears a team lock. Only the session creator may
// assign; an empty uid clears the lock.
func (m *Manager) Assign(gameID, callerUID string, team game.TeamKey, uid string) error {
	if !team.Valid() {
		return fmt.Errorf("invalid team %q", team)
	}
	return m.store.Transact(func(tx game.Tx) error {
		g, err := tx.GetGame(gameID)
		if err != nil {
			return err
		}
		if callerUID != g.CreatedBy {
			return game.ErrNotMainOperator
		}
		if uid == "" {
			g.SetLock(team, nil)
		} else {
			g.SetLock(team, &game.TrackerLock{UID: uid, UpdatedAt: time.Now().Unix()})
		}
		return tx.SaveGame(g)
	})
}

// Heartbeat refreshes a tracker's presence record and the timestamp of any
// lock it holds.
func (m *Manager) Heartbeat(gameID, uid string, team game.TeamKey) error {
	now := time.Now().Unix()
	if err := m.store.UpsertTracker(gameID, uid, team, now); err != nil {
		return err
	}
	return m.store.Transact(func(tx game.Tx) error {
		g, err := tx.GetGame(gameID)
		if err != nil {
			return err
		}
		touched := false
		for _, t := range []game.TeamKey{game.TeamA, game.TeamB} {
			if lock := g.Lock(t); lock != nil && lock.UID == uid {
				lock.UpdatedAt = now
				touched = true
			}
		}
		if !touched {
			return nil
		}
		return tx.SaveGame(g)
	})
}

// Leave removes a tracker's presence record and releases every lock it holds.
func (m *Manager) Leave(gameID, uid string) error {
	if err := m.store.DeleteTracker(gameID, uid); err != nil {
		return err
	}
	return m.store.Transact(func(tx game.Tx) error {
		g, err := tx.GetGame(gameID)
		if err != nil {
			return err
		}
		touched := false
		for _, t := range []game.TeamKey{game.TeamA, game.TeamB} {
			if lock := g.Lock(t); lock != nil && lock.UID == uid {
				g.SetLock(t, nil)
				touched = true
			}
		}
		if !touched {
			return nil
		}
		return tx.SaveGame(g)
	})
}

// Trackers lists presence records for a game.
func (m *Manager) Trackers(gameID string) ([]*game.Tracker, error) {
	return m.store.ListTrackers(gameID)
}

// IsStale reports whether a tracker has gone silent past the stale window.
func (m *Manager) IsStale(t *game.Tracker, now time.Time) bool {
	return m.expired(t.LastSeenAt, now)
}

func (m *Manager) expired(seenAt int64, now time.Time) bool {
	return now.Sub(time.Unix(seenAt, 0)) > m.staleAfter
}
