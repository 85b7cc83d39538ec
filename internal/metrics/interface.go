package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRoundsGenerated()
	AddMatchesGenerated(n int)
	AddCourtsSkipped(n int)
	IncInsufficientPlayers()
	ObserveSaveDuration(duration float64)
	IncSaveFailures()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
