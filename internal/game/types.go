package game

// GameStatus is the lifecycle state of a game. The live→ended transition is
// one-way; scoring mutations are rejected once a game has ended.
type GameStatus string

const (
	StatusLive  GameStatus = "live"
	StatusEnded GameStatus = "ended"
)

// Mode selects how the active challenge is resolved: from an ordered sequence
// of challenge documents, or from inline freestyle target/points.
type Mode string

const (
	ModeSequence  Mode = "sequence"
	ModeFreestyle Mode = "freestyle"
)

// TeamKey identifies one of the two sides of a game.
type TeamKey string

const (
	TeamA TeamKey = "A"
	TeamB TeamKey = "B"
)

// Opponent returns the other team.
func (t TeamKey) Opponent() TeamKey {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

func (t TeamKey) Valid() bool {
	return t == TeamA || t == TeamB
}

// ShotType is a closed enum; Points is total over its variants so a new shot
// type cannot silently score zero.
type ShotType string

const (
	ShotMid         ShotType = "mid"
	ShotLong        ShotType = "long"
	ShotGamechanger ShotType = "gamechanger"
	ShotBonusMid    ShotType = "bonus_mid"
	ShotBonusLong   ShotType = "bonus_long"
	ShotBonusGC     ShotType = "bonus_gc"
	// ShotBonus is the legacy single bonus type kept for old log rows.
	ShotBonus ShotType = "bonus"
)

func (s ShotType) Valid() bool {
	switch s {
	case ShotMid, ShotLong, ShotGamechanger, ShotBonusMid, ShotBonusLong, ShotBonusGC, ShotBonus:
		return true
	}
	return false
}

// IsBonus reports whether the shot scores to the match total directly.
func (s ShotType) IsBonus() bool {
	switch s {
	case ShotBonusMid, ShotBonusLong, ShotBonusGC, ShotBonus:
		return true
	}
	return false
}

// Range returns the court range ("mid" or "long") used for rule matching.
// Gamechanger and bonus shots have no range.
func (s ShotType) Range() string {
	switch s {
	case ShotMid:
		return "mid"
	case ShotLong:
		return "long"
	}
	return ""
}

// Points returns the value of a made shot of this type.
func (s ShotType) Points(moneyball bool) int {
	switch s {
	case ShotGamechanger:
		return 5
	case ShotMid, ShotLong:
		if moneyball {
			return 2
		}
		return 1
	case ShotBonusMid, ShotBonus:
		return 1
	case ShotBonusLong:
		return 2
	case ShotBonusGC:
		return 4
	}
	return 0
}

// Source records the provenance of an attempt.
type Source string

const (
	SourceManual     Source = "manual"
	SourceAuto       Source = "auto"
	SourceReview     Source = "review"
	SourceReviewEdit Source = "review_edit"
)

// Player is a roster entry. Jersey is what the camera pipeline resolves
// against.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Jersey int    `json:"jersey"`
}

// ScorePair holds one score per team.
type ScorePair struct {
	A int `json:"a"`
	B int `json:"b"`
}

func (s ScorePair) Get(t TeamKey) int {
	if t == TeamA {
		return s.A
	}
	return s.B
}

// Add adjusts the score for a team, flooring at zero.
func (s *ScorePair) Add(t TeamKey, n int) {
	if t == TeamA {
		s.A += n
		if s.A < 0 {
			s.A = 0
		}
		return
	}
	s.B += n
	if s.B < 0 {
		s.B = 0
	}
}

// TeamFlags is a per-team boolean, used for the single-use specialty moves.
type TeamFlags struct {
	A bool `json:"a"`
	B bool `json:"b"`
}

func (f TeamFlags) Get(t TeamKey) bool {
	if t == TeamA {
		return f.A
	}
	return f.B
}

func (f *TeamFlags) Set(t TeamKey, v bool) {
	if t == TeamA {
		f.A = v
		return
	}
	f.B = v
}

// TrackerLock is the optimistic per-team write lock.
type TrackerLock struct {
	UID       string `json:"uid"`
	UpdatedAt int64  `json:"updated_at"`
}

// ChallengeWon marks a pending, unresolved challenge win. WinLogID is the
// mandatory link to the win log written in the same transaction.
type ChallengeWon struct {
	Team     TeamKey `json:"team"`
	AtIndex  int     `json:"at_index"`
	Points   int     `json:"points"`
	WinLogID string  `json:"win_log_id"`
	WonAt    int64   `json:"won_at"`
}

// ClockState is the persisted shot clock. Remaining time is always derived
// from Seconds and StartedAt, never stored while running.
type ClockState struct {
	Seconds   int    `json:"seconds"`
	Running   bool   `json:"running"`
	StartedAt *int64 `json:"started_at,omitempty"`
}

// AutoConfig is the per-game auto-ingest configuration.
type AutoConfig struct {
	Enabled         bool    `json:"enabled"`
	ClockGated      bool    `json:"clock_gated"`
	IngestThreshold float64 `json:"ingest_threshold"`
	ReviewThreshold float64 `json:"review_threshold"`
}

// Game is the root aggregate. Every score/lock/clock mutation goes through a
// store transaction that reads and writes this one document.
type Game struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    GameStatus `json:"status"`
	Mode      Mode       `json:"mode"`
	CreatedBy string     `json:"created_by"`

	TeamA []Player `json:"team_a"`
	TeamB []Player `json:"team_b"`

	ChallengeIDs    []string `json:"challenge_ids,omitempty"`
	FreestyleTarget int      `json:"freestyle_target,omitempty"`
	FreestylePoints int      `json:"freestyle_points,omitempty"`

	CurrentChallenge int           `json:"current_challenge"`
	ChallengeScore   ScorePair     `json:"challenge_score"`
	MatchScore       ScorePair     `json:"match_score"`
	ChallengeWon     *ChallengeWon `json:"challenge_won,omitempty"`

	MoneyUsed TeamFlags `json:"money_used"`
	GCUsed    TeamFlags `json:"gc_used"`

	BonusActive   bool       `json:"bonus_active"`
	OvertimeCount int        `json:"overtime_count"`
	Clock         ClockState `json:"clock"`

	Paused      bool   `json:"paused"`
	PauseReason string `json:"pause_reason,omitempty"`

	LockA *TrackerLock `json:"lock_a,omitempty"`
	LockB *TrackerLock `json:"lock_b,omitempty"`

	Auto AutoConfig `json:"auto"`

	CreatedAt int64 `json:"created_at"`
}

// TeamOf resolves a player to their team by roster membership.
func (g *Game) TeamOf(playerID string) (TeamKey, bool) {
	for _, p := range g.TeamA {
		if p.ID == playerID {
			return TeamA, true
		}
	}
	for _, p := range g.TeamB {
		if p.ID == playerID {
			return TeamB, true
		}
	}
	return "", false
}

// Lock returns the tracker lock for a team, or nil if unclaimed.
func (g *Game) Lock(t TeamKey) *TrackerLock {
	if t == TeamA {
		return g.LockA
	}
	return g.LockB
}

func (g *Game) SetLock(t TeamKey, l *TrackerLock) {
	if t == TeamA {
		g.LockA = l
		return
	}
	g.LockB = l
}

// Roster returns both teams' players.
func (g *Game) Roster() []Player {
	out := make([]Player, 0, len(g.TeamA)+len(g.TeamB))
	out = append(out, g.TeamA...)
	out = append(out, g.TeamB...)
	return out
}

// LogType discriminates attempt logs from win logs in the shared logs table.
type LogType string

const (
	LogAttempt LogType = "attempt"
	LogWin     LogType = "win"
)

// LogEntry is one row of the game log. Attempt rows are immutable once
// written except for deletion by undo; win rows are created and deleted
// atomically with the score mutations they describe.
type LogEntry struct {
	ID     string  `json:"id"`
	GameID string  `json:"game_id"`
	Type   LogType `json:"type"`

	PlayerID  string   `json:"player_id,omitempty"`
	Team      TeamKey  `json:"team"`
	ShotType  ShotType `json:"shot_type,omitempty"`
	Made      bool     `json:"made"`
	Moneyball bool     `json:"moneyball"`

	ChallengeIndex int `json:"challenge_index"`

	Source     Source  `json:"source,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	EventID    string  `json:"event_id,omitempty"`

	Zone    string `json:"zone,omitempty"`
	ShotKey string `json:"shot_key,omitempty"`
	SpotID  string `json:"spot_id,omitempty"`

	// Points is the match-score award on win rows.
	Points    int   `json:"points,omitempty"`
	CreatedAt int64 `json:"created_at"`
}

// Attempt is the input to the scoring engine.
type Attempt struct {
	PlayerID  string   `json:"player_id"`
	ShotType  ShotType `json:"shot_type"`
	Made      bool     `json:"made"`
	Moneyball bool     `json:"moneyball"`

	Source     Source  `json:"source"`
	Confidence float64 `json:"confidence,omitempty"`
	EventID    string  `json:"event_id,omitempty"`

	Zone    string `json:"zone,omitempty"`
	ShotKey string `json:"shot_key,omitempty"`
	SpotID  string `json:"spot_id,omitempty"`

	// CallerUID identifies the operator for lock authorization. Empty for
	// the coordinator, which acts as the session itself.
	CallerUID string `json:"caller_uid,omitempty"`
}

// AutoEventStatus is the per-event state machine. Every status after
// processing is terminal.
type AutoEventStatus string

const (
	EventPending    AutoEventStatus = "pending"
	EventProcessing AutoEventStatus = "processing"
	EventIngested   AutoEventStatus = "ingested"
	EventQueued     AutoEventStatus = "queued"
	EventIgnored    AutoEventStatus = "ignored"
	EventBlocked    AutoEventStatus = "blocked"
	EventDisabled   AutoEventStatus = "disabled"
)

// AutoEvent is one camera-detected candidate shot.
type AutoEvent struct {
	ID     string `json:"id"`
	GameID string `json:"game_id"`

	PlayerID  string   `json:"player_id,omitempty"`
	Team      TeamKey  `json:"team,omitempty"`
	ShotType  ShotType `json:"shot_type,omitempty"`
	Made      bool     `json:"made"`
	Moneyball bool     `json:"moneyball"`

	Confidence float64 `json:"confidence"`

	Zone     string `json:"zone,omitempty"`
	ShotKey  string `json:"shot_key,omitempty"`
	SpotID   string `json:"spot_id,omitempty"`
	CameraID string `json:"camera_id,omitempty"`

	// DedupeKey is the content-derived idempotency key attached by fusion.
	DedupeKey string `json:"dedupe_key,omitempty"`

	Status    AutoEventStatus `json:"status"`
	Reason    string          `json:"reason,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt int64           `json:"created_at"`
	UpdatedAt int64           `json:"updated_at"`
}

// ReviewReason codes why a proposal was routed to human review.
type ReviewReason string

const (
	ReasonBadShape      ReviewReason = "bad_shape"
	ReasonLowConfidence ReviewReason = "low_confidence"
	ReasonRuleViolation ReviewReason = "rule_violation"
	ReasonBlocked       ReviewReason = "blocked"
)

// ReviewResolution is the terminal state of a review item. The empty string
// means unresolved.
type ReviewResolution string

const (
	ReviewApproved     ReviewResolution = "approved"
	ReviewApprovedEdit ReviewResolution = "approved_edit"
	ReviewRejected     ReviewResolution = "rejected"
)

// ReviewItem holds a proposal awaiting human accept/edit/reject.
type ReviewItem struct {
	ID      string       `json:"id"`
	GameID  string       `json:"game_id"`
	EventID string       `json:"event_id,omitempty"`
	Reason  ReviewReason `json:"reason"`

	PlayerID  string   `json:"player_id,omitempty"`
	Team      TeamKey  `json:"team,omitempty"`
	ShotType  ShotType `json:"shot_type,omitempty"`
	Made      bool     `json:"made"`
	Moneyball bool     `json:"moneyball"`
	Zone      string   `json:"zone,omitempty"`
	ShotKey   string   `json:"shot_key,omitempty"`
	SpotID    string   `json:"spot_id,omitempty"`

	Confidence float64 `json:"confidence"`

	Resolution ReviewResolution `json:"resolution,omitempty"`
	ResolvedBy string           `json:"resolved_by,omitempty"`
	CreatedAt  int64            `json:"created_at"`
	ResolvedAt *int64           `json:"resolved_at,omitempty"`
}

// Tracker is the ephemeral presence record of one connected operator.
type Tracker struct {
	GameID     string  `json:"game_id"`
	UID        string  `json:"uid"`
	Team       TeamKey `json:"team,omitempty"`
	LastSeenAt int64   `json:"last_seen_at"`
}
