package challenges

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/wellball/scorekeeper/internal/rules"
)

// New creates a new challenge Store.
func New(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) GetChallenge(id string) (*Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT id, name, difficulty, target_score, points_for_win, shot_rule_json FROM challenges WHERE id = ?`, id)
	c, err := scanChallenge(row)
	if err == sql.ErrNoRows {
		return nil, ErrChallengeNotFound
	}
	return c, err
}

func (s *store) ListChallenges() ([]*Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, name, difficulty, target_score, points_for_win, shot_rule_json FROM challenges ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			log.Error("Failed to scan challenge row", "error", err)
			continue
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *store) UpsertChallenge(c *Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ruleJSON any
	if c.ShotRule != nil {
		b, err := json.Marshal(c.ShotRule)
		if err != nil {
			return err
		}
		ruleJSON = string(b)
	}

	_, err := s.db.Exec(`
		INSERT INTO challenges (id, name, difficulty, target_score, points_for_win, shot_rule_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			difficulty = excluded.difficulty,
			target_score = excluded.target_score,
			points_for_win = excluded.points_for_win,
			shot_rule_json = excluded.shot_rule_json`,
		c.ID, c.Name, c.Difficulty, c.TargetScore, c.PointsForWin, ruleJSON)
	return err
}

func (s *store) GetSequence(id string) (*Sequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var seq Sequence
	var idsJSON string
	err := s.db.QueryRow(`SELECT id, name, challenge_ids_json FROM sequences WHERE id = ?`, id).
		Scan(&seq.ID, &seq.Name, &idsJSON)
	if err == sql.ErrNoRows {
		return nil, ErrSequenceNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(idsJSON), &seq.ChallengeIDs); err != nil {
		return nil, fmt.Errorf("bad challenge_ids_json for sequence %s: %w", seq.ID, err)
	}
	return &seq, nil
}

func (s *store) ListSequences() ([]*Sequence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, name, challenge_ids_json FROM sequences ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Sequence
	for rows.Next() {
		var seq Sequence
		var idsJSON string
		if err := rows.Scan(&seq.ID, &seq.Name, &idsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(idsJSON), &seq.ChallengeIDs); err != nil {
			log.Error("Failed to unmarshal sequence challenge ids", "error", err, "sequenceID", seq.ID)
			continue
		}
		out = append(out, &seq)
	}
	return out, rows.Err()
}

func (s *store) UpsertSequence(seq *Sequence) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idsJSON, err := json.Marshal(seq.ChallengeIDs)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO sequences (id, name, challenge_ids_json)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			challenge_ids_json = excluded.challenge_ids_json`,
		seq.ID, seq.Name, string(idsJSON))
	return err
}

func scanChallenge(scanner interface{ Scan(...any) error }) (*Challenge, error) {
	var c Challenge
	var difficulty, ruleJSON sql.NullString

	if err := scanner.Scan(&c.ID, &c.Name, &difficulty, &c.TargetScore, &c.PointsForWin, &ruleJSON); err != nil {
		return nil, err
	}
	c.Difficulty = difficulty.String
	if ruleJSON.Valid && ruleJSON.String != "" {
		rule, err := rules.Normalize([]byte(ruleJSON.String))
		if err != nil {
			return nil, fmt.Errorf("bad shot_rule_json for challenge %s: %w", c.ID, err)
		}
		c.ShotRule = rule
	}
	return &c, nil
}
