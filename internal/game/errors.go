package game

import "errors"

// Named rejection outcomes. These are expected results of validation, not
// crashes; callers match them with errors.Is and fall back to the review or
// alert path.
var (
	ErrGameNotFound          = errors.New("game not found")
	ErrGameEnded             = errors.New("game has ended")
	ErrChallengeCompleted    = errors.New("challenge already won, advance before recording")
	ErrClockGated            = errors.New("game not live, clock stopped or paused")
	ErrUnknownPlayer         = errors.New("player is on neither roster")
	ErrNotAssignedTracker    = errors.New("caller does not hold the team lock")
	ErrBonusNotActive        = errors.New("bonus round is not active")
	ErrSpecialtyAlreadyUsed  = errors.New("specialty move already used this challenge")
	ErrShotRuleViolation     = errors.New("shot violates the challenge shot rule")
	ErrInvalidThreshold      = errors.New("review threshold must not exceed ingest threshold")
	ErrEventAlreadyClaimed   = errors.New("auto event already claimed")
	ErrBadEventShape         = errors.New("auto event is missing required fields")
	ErrInvalidLockTransition = errors.New("team lock is held by another tracker")
	ErrLogNotFound           = errors.New("log entry not found")
	ErrEventNotFound         = errors.New("auto event not found")
	ErrReviewItemNotFound    = errors.New("review item not found")
	ErrReviewItemResolved    = errors.New("review item already resolved")
	ErrNotMainOperator       = errors.New("caller is not the session's main operator")
)
