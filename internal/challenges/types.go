package challenges

import (
	"database/sql"
	"sync"

	"github.com/wellball/scorekeeper/internal/rules"
)

// Challenge is an externally managed challenge definition: the mini-game a
// team plays toward a target score.
type Challenge struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Difficulty   string      `json:"difficulty,omitempty"`
	TargetScore  int         `json:"target_score"`
	PointsForWin int         `json:"points_for_win"`
	ShotRule     *rules.Rule `json:"shot_rule,omitempty"`
}

// Sequence is an ordered list of challenge IDs played consecutively.
type Sequence struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ChallengeIDs []string `json:"challenge_ids"`
}

// store handles all database operations for challenges and sequences.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}
