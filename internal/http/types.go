package http

import (
	"net/http"
	"sync"

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

type Server struct {
	Store          game.Store
	Challenges     challenges.Store
	Engine         *scoring.Engine
	Clock          *clock.Controller
	Presence       *presence.Manager
	Coordinator    *ingest.Coordinator
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	Hub            *Hub

	pubsub pubsub.PubSubClient

	fuserMu sync.Mutex
	fusers  map[string]*fusion.Fuser
}
