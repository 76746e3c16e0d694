package http

import (
	"net/http"

	"github.com/wellball/scorekeeper/internal/challenges"
	"github.com/wellball/scorekeeper/internal/clock"
	"github.com/wellball/scorekeeper/internal/config"
	"github.com/wellball/scorekeeper/internal/fusion"
	"github.com/wellball/scorekeeper/internal/game"
	"github.com/wellball/scorekeeper/internal/ingest"
	"github.com/wellball/scorekeeper/internal/metrics"
	"github.com/wellball/scorekeeper/internal/notifier"
	"github.com/wellball/scorekeeper/internal/presence"
	"github.com/wellball/scorekeeper/internal/pubsub"
	"github.com/wellball/scorekeeper/internal/scoring"
)

func NewServer(
	store game.Store,
	challengeStore challenges.Store,
	engine *scoring.Engine,
	clockCtrl *clock.Controller,
	presenceMgr *presence.Manager,
	coordinator *ingest.Coordinator,
	notifier notifier.Notifier,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
	pubsubClient pubsub.PubSubClient,
) *Server {
	server := &Server{
		Store:          store,
		Challenges:     challengeStore,
		Engine:         engine,
		Clock:          clockCtrl,
		Presence:       presenceMgr,
		Coordinator:    coordinator,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		Hub:            NewHub(),
		pubsub:         pubsubClient,
		fusers:         make(map[string]*fusion.Fuser),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("POST /games", Chain(s.CreateGameHandler(), paramsMiddleware))
	s.Router.Handle("GET /games", Chain(s.ListGamesHandler(), paramsMiddleware))
	s.Router.Handle("GET /games/{id}", Chain(s.GetGameHandler(), paramsMiddleware))
	s.Router.Handle("GET /games/{id}/logs", Chain(s.ListLogsHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/shots", Chain(s.RecordShotHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/reverse-shot", Chain(s.ReverseShotHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/advance", Chain(s.AdvanceChallengeHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/end", Chain(s.EndGameHandler(), paramsMiddleware))

	s.Router.Handle("POST /games/{id}/clock/start", Chain(s.ClockStartHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/clock/stop", Chain(s.ClockStopHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/clock/set", Chain(s.ClockSetHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/clock/reset", Chain(s.ClockResetHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/bonus/start", Chain(s.BonusStartHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/bonus/end", Chain(s.BonusEndHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/bonus/check", Chain(s.BonusCheckHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/pause", Chain(s.PauseHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/resume", Chain(s.ResumeHandler(), paramsMiddleware))

	s.Router.Handle("POST /games/{id}/locks/claim", Chain(s.ClaimLockHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/locks/release", Chain(s.ReleaseLockHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/locks/assign", Chain(s.AssignLockHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/heartbeat", Chain(s.HeartbeatHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/leave", Chain(s.LeaveHandler(), paramsMiddleware))
	s.Router.Handle("GET /games/{id}/trackers", Chain(s.ListTrackersHandler(), paramsMiddleware))

	s.Router.Handle("POST /games/{id}/auto", Chain(s.SetAutoModeHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/events", Chain(s.SubmitEventHandler(), paramsMiddleware))
	s.Router.Handle("POST /games/{id}/signals", Chain(s.SignalsHandler(), paramsMiddleware))
	s.Router.Handle("GET /games/{id}/events/pending", Chain(s.ListPendingEventsHandler(), paramsMiddleware))
	s.Router.Handle("POST /process", Chain(s.ProcessPendingHandler(), paramsMiddleware))

	s.Router.Handle("GET /games/{id}/review", Chain(s.ListReviewItemsHandler(), paramsMiddleware))
	s.Router.Handle("POST /review/{itemID}/approve", Chain(s.ApproveReviewHandler(), paramsMiddleware))
	s.Router.Handle("POST /review/{itemID}/edit", Chain(s.EditReviewHandler(), paramsMiddleware))
	s.Router.Handle("POST /review/{itemID}/reject", Chain(s.RejectReviewHandler(), paramsMiddleware))

	s.Router.Handle("GET /challenges", Chain(s.ListChallengesHandler(), paramsMiddleware))
	s.Router.Handle("POST /challenges", Chain(s.UpsertChallengeHandler(), paramsMiddleware))
	s.Router.Handle("GET /sequences", Chain(s.ListSequencesHandler(), paramsMiddleware))
	s.Router.Handle("POST /sequences", Chain(s.UpsertSequenceHandler(), paramsMiddleware))

	s.Router.Handle("POST /pubsub/score-updated", Chain(s.ScoreUpdatedPushHandler(), paramsMiddleware))

	s.Router.Handle("GET /games/{id}/live", s.LiveHandler())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
