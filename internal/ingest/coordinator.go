// Package ingest implements the auto-ingest coordinator: camera proposals are
// claimed exactly once, gated, scored against the confidence thresholds and
// either committed, queued for human review, or dropped.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/wellball/scorekeeper/internal/game"
	"github.com/wellball/scorekeeper/internal/metrics"
)

// Coordinator polls pending auto events and drives them to a terminal status.
type Coordinator struct {
	store     game.Store
	scorer    Scorer
	metrics   metrics.Metrics
	publisher Publisher
}

// NewCoordinator creates a coordinator. A nil publisher disables fan-out.
func NewCoordinator(store game.Store, scorer Scorer, m metrics.Metrics, publisher Publisher) *Coordinator {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Coordinator{store: store, scorer: scorer, metrics: m, publisher: publisher}
}

// SubmitEvent accepts a camera proposal into the pending queue. It returns
// false when the event's dedupe key was already seen, which callers treat as
// a silent success.
func (c *Coordinator) SubmitEvent(ev *game.AutoEvent) (bool, error) {
	if ev.GameID == "" {
		return false, fmt.Errorf("%w: missing game id", game.ErrBadEventShape)
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	now := time.Now().Unix()
	ev.Status = game.EventPending
	ev.CreatedAt = now
	ev.UpdatedAt = now
	if ev.Confidence < 0 {
		ev.Confidence = 0
	}
	if ev.Confidence > 1 {
		ev.Confidence = 1
	}
	return c.store.SubmitAutoEvent(ev)
}

// SetAutoMode updates the per-game auto-ingest configuration. Thresholds must
// be in [0,1] and the review threshold may not exceed the ingest threshold.
func (c *Coordinator) SetAutoMode(gameID string, cfg game.AutoConfig) error {
	if cfg.IngestThreshold < 0 || cfg.IngestThreshold > 1 ||
		cfg.ReviewThreshold < 0 || cfg.ReviewThreshold > 1 ||
		cfg.ReviewThreshold > cfg.IngestThreshold {
		return game.ErrInvalidThreshold
	}
	return c.store.Transact(func(tx game.Tx) error {
		g, err := tx.GetGame(gameID)
		if err != nil {
			return err
		}
		if g.Status == game.StatusEnded {
			return game.ErrGameEnded
		}
		g.Auto = cfg
		return tx.SaveGame(g)
	})
}

// ProcessEvent claims one pending event and drives it to a terminal status.
// The claim is the exactly-once guard: losing it means another worker owns
// the event. An event is never left in processing.
func (c *Coordinator) ProcessEvent(eventID string) error {
	claimed, err := c.store.ClaimAutoEvent(eventID)
	if err != nil {
		return err
	}
	if !claimed {
		return game.ErrEventAlreadyClaimed
	}

	start := time.Now()
	defer func() {
		c.metrics.ObserveEventProcessingDuration(time.Since(start).Seconds())
	}()

	ev, err := c.store.GetAutoEvent(eventID)
	if err != nil {
		return err
	}

	status, reason, procErr := c.decide(ev)
	if procErr != nil {
		log.Error("Auto event processing failed", "eventID", eventID, "error", procErr)
		c.metrics.IncEventsBlocked()
		return c.store.ResolveAutoEvent(eventID, game.EventBlocked, string(game.ReasonBlocked), procErr.Error())
	}

	switch status {
	case game.EventIngested:
		c.metrics.IncEventsIngested()
	case game.EventQueued:
		c.metrics.IncEventsQueued()
	case game.EventIgnored:
		c.metrics.IncEventsIgnored()
	case game.EventBlocked:
		c.metrics.IncEventsBlocked()
	}
	return c.store.ResolveAutoEvent(eventID, status, reason, "")
}

// decide runs the gating and threshold routing for one claimed event.
func (c *Coordinator) decide(ev *game.AutoEvent) (game.AutoEventStatus, string, error) {
	g, err := c.store.GetGame(ev.GameID)
	if err != nil {
		return "", "", err
	}

	if !g.Auto.Enabled {
		return game.EventDisabled, "auto ingest disabled", nil
	}
	if g.Status != game.StatusLive {
		return game.EventBlocked, "game not live", nil
	}
	if g.Auto.ClockGated && (!g.Clock.Running || g.Paused) {
		return game.EventBlocked, "clock gate closed", nil
	}

	if ev.PlayerID == "" || !ev.ShotType.Valid() {
		if err := c.queueReview(ev, game.ReasonBadShape); err != nil {
			return "", "", err
		}
		return game.EventQueued, string(game.ReasonBadShape), nil
	}

	conf := ev.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}

	switch {
	case conf >= g.Auto.IngestThreshold:
		_, err := c.scorer.RecordShot(ev.GameID, game.Attempt{
			PlayerID:   ev.PlayerID,
			ShotType:   ev.ShotType,
			Made:       ev.Made,
			Moneyball:  ev.Moneyball,
			Source:     game.SourceAuto,
			Confidence: conf,
			EventID:    ev.ID,
			Zone:       ev.Zone,
			ShotKey:    ev.ShotKey,
			SpotID:     ev.SpotID,
		})
		if err == nil {
			c.publisher.ScoreUpdated(ev.GameID)
			return game.EventIngested, "", nil
		}
		reason, ok := rejectionReason(err)
		if !ok {
			return "", "", err
		}
		if qErr := c.queueReview(ev, reason); qErr != nil {
			return "", "", qErr
		}
		return game.EventQueued, string(reason), nil

	case conf >= g.Auto.ReviewThreshold:
		if err := c.queueReview(ev, game.ReasonLowConfidence); err != nil {
			return "", "", err
		}
		return game.EventQueued, string(game.ReasonLowConfidence), nil

	default:
		return game.EventIgnored, "below review threshold", nil
	}
}

// rejectionReason maps scoring rejections onto review reasons. Unknown errors
// are infrastructure failures and block the event instead.
func rejectionReason(err error) (game.ReviewReason, bool) {
	switch {
	case errors.Is(err, game.ErrShotRuleViolation),
		errors.Is(err, game.ErrSpecialtyAlreadyUsed),
		errors.Is(err, game.ErrChallengeCompleted),
		errors.Is(err, game.ErrBonusNotActive):
		return game.ReasonRuleViolation, true
	case errors.Is(err, game.ErrUnknownPlayer):
		return game.ReasonBadShape, true
	case errors.Is(err, game.ErrClockGated), errors.Is(err, game.ErrGameEnded):
		return game.ReasonBlocked, true
	}
	return "", false
}

func (c *Coordinator) queueReview(ev *game.AutoEvent, reason game.ReviewReason) error {
	item := &game.ReviewItem{
		ID:         uuid.NewString(),
		GameID:     ev.GameID,
		EventID:    ev.ID,
		Reason:     reason,
		PlayerID:   ev.PlayerID,
		Team:       ev.Team,
		ShotType:   ev.ShotType,
		Made:       ev.Made,
		Moneyball:  ev.Moneyball,
		Zone:       ev.Zone,
		ShotKey:    ev.ShotKey,
		SpotID:     ev.SpotID,
		Confidence: ev.Confidence,
		CreatedAt:  time.Now().Unix(),
	}
	if err := c.store.CreateReviewItem(item); err != nil {
		return err
	}
	c.publisher.ReviewQueued(ev.GameID, item.ID)
	return nil
}

// ProcessPending drains the pending queue for every game that has work.
func (c *Coordinator) ProcessPending() {
	gameIDs, err := c.store.ListPendingGameIDs()
	if err != nil {
		log.Error("Listing pending games failed", "error", err)
		return
	}
	for _, gameID := range gameIDs {
		events, err := c.store.ListPendingAutoEvents(gameID)
		if err != nil {
			log.Error("Listing pending events failed", "gameID", gameID, "error", err)
			continue
		}
		for _, ev := range events {
			if err := c.ProcessEvent(ev.ID); err != nil && !errors.Is(err, game.ErrEventAlreadyClaimed) {
				log.Error("Processing event failed", "eventID", ev.ID, "error", err)
			}
		}
	}
}

// Run polls for pending events until the context is cancelled.
func (c *Coordinator) Run(ctx context.Context, interval time.Duration) {
	log.Info("Auto-ingest coordinator started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Auto-ingest coordinator stopped")
			return
		case <-ticker.C:
			c.ProcessPending()
		}
	}
}
