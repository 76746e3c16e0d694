package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wellball/scorekeeper/internal/challenges"
	"github.com/wellball/scorekeeper/internal/clock"
	"github.com/wellball/scorekeeper/internal/config"
	"github.com/wellball/scorekeeper/internal/database"
	"github.com/wellball/scorekeeper/internal/game"
	server "github.com/wellball/scorekeeper/internal/http"
	"github.com/wellball/scorekeeper/internal/ingest"
	"github.com/wellball/scorekeeper/internal/metrics"
	"github.com/wellball/scorekeeper/internal/notifier"
	"github.com/wellball/scorekeeper/internal/notifier/slack"
	"github.com/wellball/scorekeeper/internal/presence"
	"github.com/wellball/scorekeeper/internal/pubsub"
	"github.com/wellball/scorekeeper/internal/scoring"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	gameStore := game.New(db)
	challengeStore := challenges.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var notif notifier.Notifier
	if cfg.Slack.Token != "" {
		notif = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Warn("SLACK_BOT_TOKEN not set, notifications will not be delivered")
		notif = notifier.NewMock()
	}

	var pubsubClient pubsub.PubSubClient
	if cfg.ProjectID != "" {
		pubsubClient = pubsub.New(cfg.ProjectID)
	} else {
		log.Warn("GCP_PROJECT not set, pubsub messages will not be delivered")
		pubsubClient = pubsub.NewMock()
	}

	engine := scoring.NewEngine(gameStore, challengeStore, metricsSvc)
	clockCtrl := clock.NewController(gameStore, cfg.Ingest.BonusSeconds, cfg.Ingest.OvertimeSeconds)
	presenceMgr := presence.NewManager(gameStore, time.Duration(cfg.Ingest.TrackerStaleSecs)*time.Second)
	coordinator := ingest.NewCoordinator(gameStore, engine, metricsSvc, pubsub.NewPublisher(pubsubClient))

	s := server.NewServer(
		gameStore,
		challengeStore,
		engine,
		clockCtrl,
		presenceMgr,
		coordinator,
		notif,
		metricsSvc,
		metricsHandler,
		cfg,
		pubsubClient,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// Background processing of pending auto events.
	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	go coordinator.Run(runCtx, time.Duration(cfg.Ingest.PollIntervalSecs)*time.Second)

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)
		runCancel()

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
