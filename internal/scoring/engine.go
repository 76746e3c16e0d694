// Package scoring implements the Wellball scoring engine: shot recording,
// undo and challenge advancement. All score mutations run inside a single
// store transaction together with their log writes.
package scoring

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/wellball/scorekeeper/internal/challenges"
	"github.com/wellball/scorekeeper/internal/game"
	"github.com/wellball/scorekeeper/internal/metrics"
	"github.com/wellball/scorekeeper/internal/rules"
)

// Engine drives all score mutations for a game.
type Engine struct {
	store      game.Store
	challenges challenges.Store
	metrics    metrics.Metrics
}

// NewEngine creates a new scoring engine.
func NewEngine(store game.Store, challengeStore challenges.Store, m metrics.Metrics) *Engine {
	return &Engine{store: store, challenges: challengeStore, metrics: m}
}

// ShotResult is the outcome of a recorded attempt. Won is non-nil when the
// attempt completed the active challenge. RuleWarning carries the evaluator
// reason when a soft rule flagged the shot without rejecting it.
type ShotResult struct {
	Log         *game.LogEntry     `json:"log"`
	Won         *game.ChallengeWon `json:"won,omitempty"`
	RuleWarning string             `json:"rule_warning,omitempty"`
}

// challengeSpec is the resolved scoring parameters of one challenge slot.
type challengeSpec struct {
	target       int
	pointsForWin int
	rule         *rules.Rule
}

func (e *Engine) resolveChallenge(g *game.Game, index int) (challengeSpec, error) {
	if g.Mode == game.ModeFreestyle {
		return challengeSpec{target: g.FreestyleTarget, pointsForWin: g.FreestylePoints}, nil
	}
	if index < 0 || index >= len(g.ChallengeIDs) {
		return challengeSpec{}, fmt.Errorf("challenge index %d out of range", index)
	}
	ch, err := e.challenges.GetChallenge(g.ChallengeIDs[index])
	if err != nil {
		return challengeSpec{}, fmt.Errorf("resolving challenge %s: %w", g.ChallengeIDs[index], err)
	}
	return challengeSpec{target: ch.TargetScore, pointsForWin: ch.PointsForWin, rule: ch.ShotRule}, nil
}

// RecordShot validates and commits one attempt. Validation order is fixed:
// lifecycle, clock gating, roster, lock authorization, bonus gating,
// specialty reuse, shot rule. The attempt log, score delta, specialty flags
// and any win are written in one transaction.
func (e *Engine) RecordShot(gameID string, a game.Attempt) (*ShotResult, error) {
	if !a.ShotType.Valid() {
		return nil, fmt.Errorf("invalid shot type %q", a.ShotType)
	}
	if a.Source == "" {
		a.Source = game.SourceManual
	}
	// Moneyball only applies to mid and long shots; on any other type the
	// flag is dropped so it cannot burn the team's single use.
	if a.Moneyball && a.ShotType != game.ShotMid && a.ShotType != game.ShotLong {
		a.Moneyball = false
	}

	res := &ShotResult{}
	err := e.store.Transact(func(tx game.Tx) error {
		g, err := tx.GetGame(gameID)
		if err != nil {
			return err
		}
		if g.Status == game.StatusEnded {
			return game.ErrGameEnded
		}
		if g.ChallengeWon != nil && !a.ShotType.IsBonus() {
			return game.ErrChallengeCompleted
		}
		if a.Source == game.SourceAuto && g.Auto.ClockGated && (!g.Clock.Running || g.Paused) {
			return game.ErrClockGated
		}

		team, ok := g.TeamOf(a.PlayerID)
		if !ok {
			return game.ErrUnknownPlayer
		}
		if a.CallerUID != "" && a.CallerUID != g.CreatedBy {
			lock := g.Lock(team)
			if lock == nil || lock.UID != a.CallerUID {
				return game.ErrNotAssignedTracker
			}
		}

		if a.ShotType.IsBonus() && !g.BonusActive {
			return game.ErrBonusNotActive
		}
		if a.Moneyball && g.MoneyUsed.Get(team) {
			return game.ErrSpecialtyAlreadyUsed
		}
		if a.ShotType == game.ShotGamechanger && g.GCUsed.Get(team) {
			return game.ErrSpecialtyAlreadyUsed
		}

		spec, err := e.resolveChallenge(g, g.CurrentChallenge)
		if err != nil {
			return err
		}
		if !a.ShotType.IsBonus() {
			eval := rules.Evaluate(rules.Shot{
				Range:       a.ShotType.Range(),
				Zone:        a.Zone,
				ShotKey:     a.ShotKey,
				Gamechanger: a.ShotType == game.ShotGamechanger,
			}, spec.rule)
			if !eval.OK {
				return fmt.Errorf("%w: %s", game.ErrShotRuleViolation, eval.Reason)
			}
			if eval.Reason != "" {
				res.RuleWarning = eval.Reason
			}
		}

		// Specialty moves are consumed by the attempt, made or missed.
		if a.Moneyball {
			g.MoneyUsed.Set(team, true)
		}
		if a.ShotType == game.ShotGamechanger {
			g.GCUsed.Set(team, true)
		}

		now := time.Now().Unix()
		if a.Made {
			pts := a.ShotType.Points(a.Moneyball)
			if a.ShotType.IsBonus() {
				g.MatchScore.Add(team, pts)
			} else {
				g.ChallengeScore.Add(team, pts)
			}
		}

		if !a.ShotType.IsBonus() && spec.target > 0 && g.ChallengeScore.Get(team) >= spec.target {
			award := spec.pointsForWin
			if g.ChallengeScore.Get(team.Opponent()) == 0 {
				award *= 2
			}
			winLog := &game.LogEntry{
				ID:             uuid.NewString(),
				GameID:         g.ID,
				Type:           game.LogWin,
				Team:           team,
				ChallengeIndex: g.CurrentChallenge,
				Points:         award,
				CreatedAt:      now,
			}
			if err := tx.InsertLog(winLog); err != nil {
				return err
			}
			g.MatchScore.Add(team, award)
			g.ChallengeWon = &game.ChallengeWon{
				Team:     team,
				AtIndex:  g.CurrentChallenge,
				Points:   award,
				WinLogID: winLog.ID,
				WonAt:    now,
			}
			res.Won = g.ChallengeWon
		}

		entry := &game.LogEntry{
			ID:             uuid.NewString(),
			GameID:         g.ID,
			Type:           game.LogAttempt,
			PlayerID:       a.PlayerID,
			Team:           team,
			ShotType:       a.ShotType,
			Made:           a.Made,
			Moneyball:      a.Moneyball,
			ChallengeIndex: g.CurrentChallenge,
			Source:         a.Source,
			Confidence:     a.Confidence,
			EventID:        a.EventID,
			Zone:           a.Zone,
			ShotKey:        a.ShotKey,
			SpotID:         a.SpotID,
			CreatedAt:      now,
		}
		if err := tx.InsertLog(entry); err != nil {
			return err
		}
		res.Log = entry
		return tx.SaveGame(g)
	})
	if err != nil {
		return nil, err
	}

	e.metrics.IncShotsRecorded()
	if res.Won != nil {
		e.metrics.IncChallengesWon()
		log.Info("Challenge won", "gameID", gameID, "team", res.Won.Team, "points", res.Won.Points)
	}
	return res, nil
}

// ReverseShot undoes one attempt log: the score delta is applied in reverse,
// the log row is deleted, specialty flags are recomputed from the remaining
// logs, and a win triggered by the attempt is rolled back through its win log
// link.
func (e *Engine) ReverseShot(gameID, logID string) error {
	err := e.store.Transact(func(tx game.Tx) error {
		g, err := tx.GetGame(gameID)
		if err != nil {
			return err
		}
		if g.Status == game.StatusEnded {
			return game.ErrGameEnded
		}
		l, err := tx.GetLog(gameID, logID)
		if err != nil {
			return err
		}
		if l.Type != game.LogAttempt {
			return fmt.Errorf("log %s is not an attempt", logID)
		}
		if !l.ShotType.IsBonus() && l.ChallengeIndex != g.CurrentChallenge {
			return fmt.Errorf("log %s is not part of the active challenge", logID)
		}

		if l.Made {
			pts := l.ShotType.Points(l.Moneyball)
			if l.ShotType.IsBonus() {
				g.MatchScore.Add(l.Team, -pts)
			} else {
				g.ChallengeScore.Add(l.Team, -pts)
			}
		}

		if err := tx.DeleteLog(gameID, logID); err != nil {
			return err
		}

		// A pending win whose team dropped back below target is rolled back
		// together with its win log and match points.
		if won := g.ChallengeWon; won != nil && won.AtIndex == l.ChallengeIndex {
			spec, err := e.resolveChallenge(g, won.AtIndex)
			if err != nil {
				return err
			}
			if g.ChallengeScore.Get(won.Team) < spec.target {
				if err := tx.DeleteLog(gameID, won.WinLogID); err != nil {
					return err
				}
				g.MatchScore.Add(won.Team, -won.Points)
				g.ChallengeWon = nil
			}
		}

		remaining, err := tx.ListChallengeLogs(gameID, l.ChallengeIndex)
		if err != nil {
			return err
		}
		money, gc := false, false
		for _, r := range remaining {
			if r.Type != game.LogAttempt || r.Team != l.Team {
				continue
			}
			if r.Moneyball {
				money = true
			}
			if r.ShotType == game.ShotGamechanger {
				gc = true
			}
		}
		g.MoneyUsed.Set(l.Team, money)
		g.GCUsed.Set(l.Team, gc)

		return tx.SaveGame(g)
	})
	if err != nil {
		return err
	}
	e.metrics.IncShotsReversed()
	return nil
}

// AdvanceChallenge moves the session to the next challenge slot and resets
// all per-challenge state. Only the session creator may advance. In sequence
// mode the cursor clamps at the last challenge; freestyle advances without
// bound.
func (e *Engine) AdvanceChallenge(gameID, callerUID string) error {
	return e.store.Transact(func(tx game.Tx) error {
		g, err := tx.GetGame(gameID)
		if err != nil {
			return err
		}
		if g.Status == game.StatusEnded {
			return game.ErrGameEnded
		}
		if callerUID != g.CreatedBy {
			return game.ErrNotMainOperator
		}

		next := g.CurrentChallenge + 1
		if g.Mode == game.ModeSequence && next > len(g.ChallengeIDs)-1 {
			next = len(g.ChallengeIDs) - 1
		}
		g.CurrentChallenge = next
		g.ChallengeScore = game.ScorePair{}
		g.ChallengeWon = nil
		g.MoneyUsed = game.TeamFlags{}
		g.GCUsed = game.TeamFlags{}
		g.BonusActive = false
		g.OvertimeCount = 0

		return tx.SaveGame(g)
	})
}
