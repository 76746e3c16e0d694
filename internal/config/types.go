package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
	Ingest        IngestConfig
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// IngestConfig carries the defaults applied to newly created games. The
// per-game values live on the game document and are changed through the
// auto-mode endpoint afterwards.
type IngestConfig struct {
	PollIntervalSecs int
	IngestThreshold  float64
	ReviewThreshold  float64
	BonusSeconds     int
	OvertimeSeconds  int
	TrackerStaleSecs int
}
