package ingest

import (
	"github.com/charmbracelet/log"
	"github.com/wellball/scorekeeper/internal/game"
)

// ApproveReview applies a queued proposal as-is. The resolution write is the
// exactly-once guard: it fails on an already resolved item before any score
// mutation happens. When the scoring engine rejects the attempt the item is
// reopened so the operator can retry, edit or reject it.
func (c *Coordinator) ApproveReview(itemID, resolvedBy string) error {
	item, err := c.store.GetReviewItem(itemID)
	if err != nil {
		return err
	}
	if err := c.store.ResolveReviewItem(itemID, game.ReviewApproved, resolvedBy); err != nil {
		return err
	}
	if err := c.applyResolved(item, game.SourceReview); err != nil {
		c.reopen(itemID)
		return err
	}
	return nil
}

// EditAndApprove applies a queued proposal with operator corrections.
func (c *Coordinator) EditAndApprove(itemID, resolvedBy string, edit game.Attempt) error {
	item, err := c.store.GetReviewItem(itemID)
	if err != nil {
		return err
	}
	if err := c.store.ResolveReviewItem(itemID, game.ReviewApprovedEdit, resolvedBy); err != nil {
		return err
	}
	edit.Source = game.SourceReviewEdit
	edit.EventID = item.EventID
	edit.Confidence = item.Confidence
	edit.CallerUID = ""
	if _, err := c.scorer.RecordShot(item.GameID, edit); err != nil {
		c.reopen(itemID)
		return err
	}
	c.publisher.ScoreUpdated(item.GameID)
	return nil
}

// RejectReview discards a queued proposal.
func (c *Coordinator) RejectReview(itemID, resolvedBy string) error {
	return c.store.ResolveReviewItem(itemID, game.ReviewRejected, resolvedBy)
}

// reopen puts a claimed item back in the queue after a failed apply. A
// proposal must never end up terminally approved without its attempt log.
func (c *Coordinator) reopen(itemID string) {
	if err := c.store.ReopenReviewItem(itemID); err != nil {
		log.Error("Failed to reopen review item after apply failure", "itemID", itemID, "error", err)
	}
}

func (c *Coordinator) applyResolved(item *game.ReviewItem, source game.Source) error {
	_, err := c.scorer.RecordShot(item.GameID, game.Attempt{
		PlayerID:   item.PlayerID,
		ShotType:   item.ShotType,
		Made:       item.Made,
		Moneyball:  item.Moneyball,
		Source:     source,
		Confidence: item.Confidence,
		EventID:    item.EventID,
		Zone:       item.Zone,
		ShotKey:    item.ShotKey,
		SpotID:     item.SpotID,
	})
	if err != nil {
		return err
	}
	c.publisher.ScoreUpdated(item.GameID)
	return nil
}
