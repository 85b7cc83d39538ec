package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	RoundsGenerated     prometheus.Counter
	MatchesGenerated    prometheus.Counter
	CourtsSkipped       prometheus.Counter
	InsufficientPlayers prometheus.Counter
	SaveDuration        prometheus.Histogram
	SaveFailures        prometheus.Counter
	SlackNotifSent      prometheus.Counter
	SlackNotifFailed    prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
