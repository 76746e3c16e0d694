package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"github.com/wellball/scorekeeper/internal/game"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

type seedChallenge struct {
	id         string
	name       string
	difficulty string
	target     int
	pointsWin  int
	shotRule   string
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	catalog := []seedChallenge{
		{"around-the-world", "Around the World", "medium", 7, 10,
			`{"mode":"allow","items":["mid_left","mid_center","mid_right","long_left","long_center","long_right"],"validation":"soft"}`},
		{"money-in-the-bank", "Money in the Bank", "hard", 5, 15,
			`{"mode":"allow","items":["long_*","gamechanger"],"validation":"strict","require_range":true}`},
		{"free-for-all", "Free for All", "easy", 5, 10, ""},
		{"deep-water", "Deep Water", "hard", 3, 20,
			`{"mode":"deny","items":["mid_*"],"validation":"strict"}`},
		{"corner-pocket", "Corner Pocket", "medium", 6, 10,
			`{"mode":"allow","items":["mid_corner","long_corner"],"validation":"soft","require_zone":true}`},
	}

	for _, c := range catalog {
		var rule any
		if c.shotRule != "" {
			rule = c.shotRule
		}
		_, err := db.Exec(
			"INSERT OR IGNORE INTO challenges (id, name, difficulty, target_score, points_for_win, shot_rule_json) VALUES (?, ?, ?, ?, ?, ?)",
			c.id, c.name, c.difficulty, c.target, c.pointsWin, rule,
		)
		if err != nil {
			log.Fatalf("Failed to insert challenge %s: %s", c.name, err)
		}
	}
	log.Info("Ensured challenge catalog exists.", "challenges", len(catalog))

	sequenceIDs, _ := json.Marshal([]string{"around-the-world", "money-in-the-bank", "deep-water"})
	_, err = db.Exec(
		"INSERT OR IGNORE INTO sequences (id, name, challenge_ids_json) VALUES (?, ?, ?)",
		"standard-night", "Standard Night", string(sequenceIDs),
	)
	if err != nil {
		log.Fatalf("Failed to insert sequence: %s", err)
	}
	log.Info("Ensured standard sequence exists.")

	teamA := []game.Player{
		{ID: "seed-p1", Name: "Seeder Player A", Jersey: 7},
		{ID: "seed-p2", Name: "Seeder Player B", Jersey: 23},
	}
	teamB := []game.Player{
		{ID: "seed-p3", Name: "Seeder Player C", Jersey: 11},
		{ID: "seed-p4", Name: "Seeder Player D", Jersey: 34},
	}
	teamABlob, _ := json.Marshal(teamA)
	teamBBlob, _ := json.Marshal(teamB)
	challengeIDsBlob, _ := json.Marshal([]string{"around-the-world", "money-in-the-bank", "deep-water"})

	const batchSize = 100 // Insert 100 games at a time
	const numGames = 1000

	log.Info("Preparing to insert dummy games...", "total", numGames, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*13) // 13 columns per game

	for i := 0; i < numGames; i++ {
		gameTime := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		scoreA := rand.Intn(60)
		scoreB := rand.Intn(60)

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			fmt.Sprintf("Seeded Game %d", i+1),
			string(game.StatusEnded),
			string(game.ModeSequence),
			"seed-operator",
			string(teamABlob),
			string(teamBBlob),
			string(challengeIDsBlob),
			2, // current_challenge
			scoreA,
			scoreB,
			0, // clock_seconds
			gameTime.Unix(),
		)

		if (i+1)%batchSize == 0 || (i+1) == numGames {
			stmt := fmt.Sprintf(`
				INSERT INTO games (id, name, status, mode, created_by, team_a_json, team_b_json,
					challenge_ids_json, current_challenge, match_score_a, match_score_b,
					clock_seconds, created_at)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*13)
			log.Info("Inserted batch", "completed", i+1, "total", numGames)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy games.", "duration", duration)
}
