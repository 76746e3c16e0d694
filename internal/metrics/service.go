package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ShotsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellball_shots_recorded_total",
			Help: "The total number of shot attempts committed by the scoring engine.",
		}),
		ShotsReversed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellball_shots_reversed_total",
			Help: "The total number of shot attempts undone.",
		}),
		ChallengesWon: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellball_challenges_won_total",
			Help: "The total number of challenge wins recorded.",
		}),
		EventsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellball_auto_events_ingested_total",
			Help: "The total number of auto events committed directly by the coordinator.",
		}),
		EventsQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellball_auto_events_queued_total",
			Help: "The total number of auto events routed to the review queue.",
		}),
		EventsIgnored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellball_auto_events_ignored_total",
			Help: "The total number of auto events dropped below the review threshold.",
		}),
		EventsBlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellball_auto_events_blocked_total",
			Help: "The total number of auto events blocked by gating or errors.",
		}),
		ProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wellball_auto_event_processing_duration_seconds",
			Help:    "The duration of individual auto event processing.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellball_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wellball_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wellball_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ShotsRecorded,
		s.ShotsReversed,
		s.ChallengesWon,
		s.EventsIngested,
		s.EventsQueued,
		s.EventsIgnored,
		s.EventsBlocked,
		s.ProcessingDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncShotsRecorded() {
	s.ShotsRecorded.Inc()
}

func (s *Service) IncShotsReversed() {
	s.ShotsReversed.Inc()
}

func (s *Service) IncChallengesWon() {
	s.ChallengesWon.Inc()
}

func (s *Service) IncEventsIngested() {
	s.EventsIngested.Inc()
}

func (s *Service) IncEventsQueued() {
	s.EventsQueued.Inc()
}

func (s *Service) IncEventsIgnored() {
	s.EventsIgnored.Inc()
}

func (s *Service) IncEventsBlocked() {
	s.EventsBlocked.Inc()
}

func (s *Service) ObserveEventProcessingDuration(duration float64) {
	s.ProcessingDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
