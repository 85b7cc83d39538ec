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
		RoundsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draw_rounds_generated_total",
			Help: "The total number of committed draw rounds.",
		}),
		MatchesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draw_matches_generated_total",
			Help: "The total number of matches placed on a court.",
		}),
		CourtsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draw_courts_skipped_total",
			Help: "The total number of courts left empty while generating a round.",
		}),
		InsufficientPlayers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draw_insufficient_players_total",
			Help: "The total number of round requests rejected for having fewer than four attendees.",
		}),
		SaveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "draw_session_save_duration_seconds",
			Help:    "The duration of session saves.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draw_session_save_failures_total",
			Help: "The total number of session saves that failed.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draw_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draw_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "draw_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RoundsGenerated,
		s.MatchesGenerated,
		s.CourtsSkipped,
		s.InsufficientPlayers,
		s.SaveDuration,
		s.SaveFailures,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRoundsGenerated() {
	s.RoundsGenerated.Inc()
}

func (s *Service) AddMatchesGenerated(n int) {
	s.MatchesGenerated.Add(float64(n))
}

func (s *Service) AddCourtsSkipped(n int) {
	s.CourtsSkipped.Add(float64(n))
}

func (s *Service) IncInsufficientPlayers() {
	s.InsufficientPlayers.Inc()
}

func (s *Service) ObserveSaveDuration(duration float64) {
	s.SaveDuration.Observe(duration)
}

func (s *Service) IncSaveFailures() {
	s.SaveFailures.Inc()
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
