package game

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// store handles all database operations for games and their subcollections.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new game Store backed by the given database.
func New(db *sql.DB) Store {
	return &store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx so the scan/save helpers
// can be shared between direct reads and transactional code.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

const gameColumns = `id, name, status, mode, created_by, team_a_json, team_b_json,
	challenge_ids_json, freestyle_target, freestyle_points, current_challenge,
	challenge_score_a, challenge_score_b, match_score_a, match_score_b,
	challenge_won_json, money_used_a, money_used_b, gc_used_a, gc_used_b,
	bonus_active, overtime_count, clock_seconds, clock_running, clock_started_at,
	paused, pause_reason, lock_a_json, lock_b_json,
	auto_enabled, clock_gated, ingest_threshold, review_threshold, created_at`

func (s *store) CreateGame(g *Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	teamA, err := json.Marshal(g.TeamA)
	if err != nil {
		return err
	}
	teamB, err := json.Marshal(g.TeamB)
	if err != nil {
		return err
	}
	challengeIDs, err := json.Marshal(g.ChallengeIDs)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO games (`+gameColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Status, g.Mode, g.CreatedBy, string(teamA), string(teamB),
		string(challengeIDs), g.FreestyleTarget, g.FreestylePoints, g.CurrentChallenge,
		g.ChallengeScore.A, g.ChallengeScore.B, g.MatchScore.A, g.MatchScore.B,
		marshalNullable(g.ChallengeWon), g.MoneyUsed.A, g.MoneyUsed.B, g.GCUsed.A, g.GCUsed.B,
		g.BonusActive, g.OvertimeCount, g.Clock.Seconds, g.Clock.Running, g.Clock.StartedAt,
		g.Paused, g.PauseReason, marshalNullable(g.LockA), marshalNullable(g.LockB),
		g.Auto.Enabled, g.Auto.ClockGated, g.Auto.IngestThreshold, g.Auto.ReviewThreshold, g.CreatedAt,
	)
	return err
}

func (s *store) GetGame(id string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getGame(s.db, id)
}

func (s *store) ListGames() ([]*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + gameColumns + ` FROM games ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			log.Error("Failed to scan game row", "error", err)
			continue
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// Transact runs fn inside a single database transaction. Any error from fn
// rolls back every write.
func (s *store) Transact(fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(&sqlTx{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// sqlTx adapts *sql.Tx to the Tx interface.
type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) GetGame(id string) (*Game, error) {
	return getGame(t.tx, id)
}

func (t *sqlTx) SaveGame(g *Game) error {
	teamA, err := json.Marshal(g.TeamA)
	if err != nil {
		return err
	}
	teamB, err := json.Marshal(g.TeamB)
	if err != nil {
		return err
	}
	challengeIDs, err := json.Marshal(g.ChallengeIDs)
	if err != nil {
		return err
	}

	res, err := t.tx.Exec(`
		UPDATE games SET
			name = ?, status = ?, mode = ?, created_by = ?, team_a_json = ?, team_b_json = ?,
			challenge_ids_json = ?, freestyle_target = ?, freestyle_points = ?, current_challenge = ?,
			challenge_score_a = ?, challenge_score_b = ?, match_score_a = ?, match_score_b = ?,
			challenge_won_json = ?, money_used_a = ?, money_used_b = ?, gc_used_a = ?, gc_used_b = ?,
			bonus_active = ?, overtime_count = ?, clock_seconds = ?, clock_running = ?, clock_started_at = ?,
			paused = ?, pause_reason = ?, lock_a_json = ?, lock_b_json = ?,
			auto_enabled = ?, clock_gated = ?, ingest_threshold = ?, review_threshold = ?
		WHERE id = ?`,
		g.Name, g.Status, g.Mode, g.CreatedBy, string(teamA), string(teamB),
		string(challengeIDs), g.FreestyleTarget, g.FreestylePoints, g.CurrentChallenge,
		g.ChallengeScore.A, g.ChallengeScore.B, g.MatchScore.A, g.MatchScore.B,
		marshalNullable(g.ChallengeWon), g.MoneyUsed.A, g.MoneyUsed.B, g.GCUsed.A, g.GCUsed.B,
		g.BonusActive, g.OvertimeCount, g.Clock.Seconds, g.Clock.Running, g.Clock.StartedAt,
		g.Paused, g.PauseReason, marshalNullable(g.LockA), marshalNullable(g.LockB),
		g.Auto.Enabled, g.Auto.ClockGated, g.Auto.IngestThreshold, g.Auto.ReviewThreshold,
		g.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (t *sqlTx) InsertLog(l *LogEntry) error {
	_, err := t.tx.Exec(`
		INSERT INTO logs (id, game_id, type, player_id, team, shot_type, made, moneyball,
			challenge_index, source, confidence, event_id, zone, shot_key, spot_id, points, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.GameID, l.Type, l.PlayerID, l.Team, l.ShotType, l.Made, l.Moneyball,
		l.ChallengeIndex, l.Source, l.Confidence, l.EventID, l.Zone, l.ShotKey, l.SpotID, l.Points, l.CreatedAt,
	)
	return err
}

func (t *sqlTx) DeleteLog(gameID, logID string) error {
	res, err := t.tx.Exec(`DELETE FROM logs WHERE id = ? AND game_id = ?`, logID, gameID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLogNotFound
	}
	return nil
}

func (t *sqlTx) GetLog(gameID, logID string) (*LogEntry, error) {
	return getLog(t.tx, gameID, logID)
}

func (t *sqlTx) ListChallengeLogs(gameID string, challengeIndex int) ([]*LogEntry, error) {
	rows, err := t.tx.Query(`SELECT `+logColumns+` FROM logs WHERE game_id = ? AND challenge_index = ? ORDER BY created_at`, gameID, challengeIndex)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLogs(rows)
}

func (s *store) ListLogs(gameID string) ([]*LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT `+logColumns+` FROM logs WHERE game_id = ? ORDER BY created_at`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLogs(rows)
}

func (s *store) GetLog(gameID, logID string) (*LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getLog(s.db, gameID, logID)
}

func (s *store) SubmitAutoEvent(ev *AutoEvent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().Unix()
	if ev.CreatedAt == 0 {
		ev.CreatedAt = now
	}
	ev.UpdatedAt = now
	if ev.Status == "" {
		ev.Status = EventPending
	}

	res, err := s.db.Exec(`
		INSERT INTO auto_events (id, game_id, player_id, team, shot_type, made, moneyball,
			confidence, zone, shot_key, spot_id, camera_id, dedupe_key, status, reason, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		ev.ID, ev.GameID, ev.PlayerID, ev.Team, ev.ShotType, ev.Made, ev.Moneyball,
		ev.Confidence, ev.Zone, ev.ShotKey, ev.SpotID, ev.CameraID, nullString(ev.DedupeKey),
		ev.Status, ev.Reason, ev.Error, ev.CreatedAt, ev.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *store) ClaimAutoEvent(eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE auto_events SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		EventProcessing, time.Now().Unix(), eventID, EventPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *store) ResolveAutoEvent(eventID string, status AutoEventStatus, reason, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE auto_events SET status = ?, reason = ?, error = ?, updated_at = ? WHERE id = ?`,
		status, reason, errMsg, time.Now().Unix(), eventID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

const eventColumns = `id, game_id, player_id, team, shot_type, made, moneyball,
	confidence, zone, shot_key, spot_id, camera_id, dedupe_key, status, reason, error, created_at, updated_at`

func (s *store) GetAutoEvent(eventID string) (*AutoEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+eventColumns+` FROM auto_events WHERE id = ?`, eventID)
	ev, err := scanAutoEvent(row)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	return ev, err
}

func (s *store) ListPendingAutoEvents(gameID string) ([]*AutoEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT `+eventColumns+` FROM auto_events WHERE game_id = ? AND status = ? ORDER BY created_at`,
		gameID, EventPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*AutoEvent
	for rows.Next() {
		ev, err := scanAutoEvent(rows)
		if err != nil {
			log.Error("Failed to scan auto event row", "error", err)
			continue
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *store) ListPendingGameIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT DISTINCT game_id FROM auto_events WHERE status = ?`, EventPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const reviewColumns = `id, game_id, event_id, reason, player_id, team, shot_type, made, moneyball,
	zone, shot_key, spot_id, confidence, resolution, resolved_by, created_at, resolved_at`

func (s *store) CreateReviewItem(item *ReviewItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.Exec(`
		INSERT INTO review_queue (id, game_id, event_id, reason, player_id, team, shot_type, made, moneyball,
			zone, shot_key, spot_id, confidence, resolution, resolved_by, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.GameID, item.EventID, item.Reason, item.PlayerID, item.Team, item.ShotType,
		item.Made, item.Moneyball, item.Zone, item.ShotKey, item.SpotID, item.Confidence,
		item.Resolution, item.ResolvedBy, item.CreatedAt, item.ResolvedAt,
	)
	return err
}

func (s *store) GetReviewItem(id string) (*ReviewItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT `+reviewColumns+` FROM review_queue WHERE id = ?`, id)
	item, err := scanReviewItem(row)
	if err == sql.ErrNoRows {
		return nil, ErrReviewItemNotFound
	}
	return item, err
}

func (s *store) ListOpenReviewItems(gameID string) ([]*ReviewItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT `+reviewColumns+` FROM review_queue WHERE game_id = ? AND resolution = '' ORDER BY created_at`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*ReviewItem
	for rows.Next() {
		item, err := scanReviewItem(rows)
		if err != nil {
			log.Error("Failed to scan review item row", "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *store) ResolveReviewItem(id string, resolution ReviewResolution, resolvedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE review_queue SET resolution = ?, resolved_by = ?, resolved_at = ? WHERE id = ? AND resolution = ''`,
		resolution, resolvedBy, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM review_queue WHERE id = ?)`, id).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrReviewItemResolved
		}
		return ErrReviewItemNotFound
	}
	return nil
}

func (s *store) ReopenReviewItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE review_queue SET resolution = '', resolved_by = '', resolved_at = NULL WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReviewItemNotFound
	}
	return nil
}

func (s *store) UpsertTracker(gameID, uid string, team TeamKey, seenAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO trackers (game_id, uid, team, last_seen_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(game_id, uid) DO UPDATE SET team = excluded.team, last_seen_at = excluded.last_seen_at`,
		gameID, uid, team, seenAt)
	return err
}

func (s *store) DeleteTracker(gameID, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM trackers WHERE game_id = ? AND uid = ?`, gameID, uid)
	return err
}

func (s *store) ListTrackers(gameID string) ([]*Tracker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT game_id, uid, team, last_seen_at FROM trackers WHERE game_id = ? ORDER BY uid`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trackers []*Tracker
	for rows.Next() {
		var t Tracker
		var team sql.NullString
		if err := rows.Scan(&t.GameID, &t.UID, &team, &t.LastSeenAt); err != nil {
			return nil, err
		}
		t.Team = TeamKey(team.String)
		trackers = append(trackers, &t)
	}
	return trackers, rows.Err()
}

// --- scan/save helpers ---

func getGame(q querier, id string) (*Game, error) {
	row := q.QueryRow(`SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, ErrGameNotFound
	}
	return g, err
}

func scanGame(scanner interface{ Scan(...any) error }) (*Game, error) {
	var g Game
	var teamA, teamB, challengeIDs, challengeWon, pauseReason, lockA, lockB sql.NullString
	var clockStartedAt sql.NullInt64

	err := scanner.Scan(
		&g.ID, &g.Name, &g.Status, &g.Mode, &g.CreatedBy, &teamA, &teamB,
		&challengeIDs, &g.FreestyleTarget, &g.FreestylePoints, &g.CurrentChallenge,
		&g.ChallengeScore.A, &g.ChallengeScore.B, &g.MatchScore.A, &g.MatchScore.B,
		&challengeWon, &g.MoneyUsed.A, &g.MoneyUsed.B, &g.GCUsed.A, &g.GCUsed.B,
		&g.BonusActive, &g.OvertimeCount, &g.Clock.Seconds, &g.Clock.Running, &clockStartedAt,
		&g.Paused, &pauseReason, &lockA, &lockB,
		&g.Auto.Enabled, &g.Auto.ClockGated, &g.Auto.IngestThreshold, &g.Auto.ReviewThreshold, &g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.PauseReason = pauseReason.String
	if clockStartedAt.Valid {
		v := clockStartedAt.Int64
		g.Clock.StartedAt = &v
	}
	if err := unmarshalInto(teamA, &g.TeamA); err != nil {
		return nil, fmt.Errorf("bad team_a_json for game %s: %w", g.ID, err)
	}
	if err := unmarshalInto(teamB, &g.TeamB); err != nil {
		return nil, fmt.Errorf("bad team_b_json for game %s: %w", g.ID, err)
	}
	if err := unmarshalInto(challengeIDs, &g.ChallengeIDs); err != nil {
		return nil, fmt.Errorf("bad challenge_ids_json for game %s: %w", g.ID, err)
	}
	if challengeWon.Valid && challengeWon.String != "" {
		var won ChallengeWon
		if err := json.Unmarshal([]byte(challengeWon.String), &won); err != nil {
			return nil, fmt.Errorf("bad challenge_won_json for game %s: %w", g.ID, err)
		}
		g.ChallengeWon = &won
	}
	if lockA.Valid && lockA.String != "" {
		var l TrackerLock
		if err := json.Unmarshal([]byte(lockA.String), &l); err != nil {
			return nil, fmt.Errorf("bad lock_a_json for game %s: %w", g.ID, err)
		}
		g.LockA = &l
	}
	if lockB.Valid && lockB.String != "" {
		var l TrackerLock
		if err := json.Unmarshal([]byte(lockB.String), &l); err != nil {
			return nil, fmt.Errorf("bad lock_b_json for game %s: %w", g.ID, err)
		}
		g.LockB = &l
	}
	return &g, nil
}

const logColumns = `id, game_id, type, player_id, team, shot_type, made, moneyball,
	challenge_index, source, confidence, event_id, zone, shot_key, spot_id, points, created_at`

func getLog(q querier, gameID, logID string) (*LogEntry, error) {
	row := q.QueryRow(`SELECT `+logColumns+` FROM logs WHERE id = ? AND game_id = ?`, logID, gameID)
	l, err := scanLog(row)
	if err == sql.ErrNoRows {
		return nil, ErrLogNotFound
	}
	return l, err
}

func scanLog(scanner interface{ Scan(...any) error }) (*LogEntry, error) {
	var l LogEntry
	var playerID, source, eventID, zone, shotKey, spotID, shotType sql.NullString
	var confidence sql.NullFloat64

	err := scanner.Scan(
		&l.ID, &l.GameID, &l.Type, &playerID, &l.Team, &shotType, &l.Made, &l.Moneyball,
		&l.ChallengeIndex, &source, &confidence, &eventID, &zone, &shotKey, &spotID, &l.Points, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.PlayerID = playerID.String
	l.ShotType = ShotType(shotType.String)
	l.Source = Source(source.String)
	l.Confidence = confidence.Float64
	l.EventID = eventID.String
	l.Zone = zone.String
	l.ShotKey = shotKey.String
	l.SpotID = spotID.String
	return &l, nil
}

func collectLogs(rows *sql.Rows) ([]*LogEntry, error) {
	var logs []*LogEntry
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func scanAutoEvent(scanner interface{ Scan(...any) error }) (*AutoEvent, error) {
	var ev AutoEvent
	var playerID, team, shotType, zone, shotKey, spotID, cameraID, dedupeKey, reason, errMsg sql.NullString

	err := scanner.Scan(
		&ev.ID, &ev.GameID, &playerID, &team, &shotType, &ev.Made, &ev.Moneyball,
		&ev.Confidence, &zone, &shotKey, &spotID, &cameraID, &dedupeKey, &ev.Status, &reason, &errMsg,
		&ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	ev.PlayerID = playerID.String
	ev.Team = TeamKey(team.String)
	ev.ShotType = ShotType(shotType.String)
	ev.Zone = zone.String
	ev.ShotKey = shotKey.String
	ev.SpotID = spotID.String
	ev.CameraID = cameraID.String
	ev.DedupeKey = dedupeKey.String
	ev.Reason = reason.String
	ev.Error = errMsg.String
	return &ev, nil
}

func scanReviewItem(scanner interface{ Scan(...any) error }) (*ReviewItem, error) {
	var item ReviewItem
	var playerID, team, shotType, zone, shotKey, spotID, eventID, resolvedBy sql.NullString
	var resolvedAt sql.NullInt64

	err := scanner.Scan(
		&item.ID, &item.GameID, &eventID, &item.Reason, &playerID, &team, &shotType,
		&item.Made, &item.Moneyball, &zone, &shotKey, &spotID, &item.Confidence,
		&item.Resolution, &resolvedBy, &item.CreatedAt, &resolvedAt,
	)
	if err != nil {
		return nil, err
	}
	item.EventID = eventID.String
	item.PlayerID = playerID.String
	item.Team = TeamKey(team.String)
	item.ShotType = ShotType(shotType.String)
	item.Zone = zone.String
	item.ShotKey = shotKey.String
	item.SpotID = spotID.String
	item.ResolvedBy = resolvedBy.String
	if resolvedAt.Valid {
		v := resolvedAt.Int64
		item.ResolvedAt = &v
	}
	return &item, nil
}

func marshalNullable(v any) any {
	switch val := v.(type) {
	case *ChallengeWon:
		if val == nil {
			return nil
		}
	case *TrackerLock:
		if val == nil {
			return nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("Failed to marshal nullable column", "error", err)
		return nil
	}
	return string(b)
}

func unmarshalInto(s sql.NullString, dst any) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dst)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
