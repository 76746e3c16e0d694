package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	// Optional vars fall back to a default instead of failing.
	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	getEnvInt := func(key string, fallback int) int {
		raw, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn("Invalid integer env var, using default", "key", key, "value", raw, "default", fallback)
			return fallback
		}
		return v
	}

	getEnvFloat := func(key string, fallback float64) float64 {
		raw, ok := os.LookupEnv(key)
		if !ok {
			return fallback
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Warn("Invalid float env var, using default", "key", key, "value", raw, "default", fallback)
			return fallback
		}
		return v
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		Slack: SlackConfig{
			Token:     getEnvOr("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnvOr("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnvOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOr("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: getEnvOr("GCP_PROJECT", ""),
		Ingest: IngestConfig{
			PollIntervalSecs: getEnvInt("INGEST_POLL_INTERVAL_SECS", 5),
			IngestThreshold:  getEnvFloat("INGEST_THRESHOLD", 0.85),
			ReviewThreshold:  getEnvFloat("REVIEW_THRESHOLD", 0.65),
			BonusSeconds:     getEnvInt("BONUS_ROUND_SECONDS", 180),
			OvertimeSeconds:  getEnvInt("OVERTIME_SECONDS", 60),
			TrackerStaleSecs: getEnvInt("TRACKER_STALE_SECS", 20),
		},
	}
	return cfg
}
