package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	roundsGenerated     int
	matchesGenerated    int
	courtsSkipped       int
	insufficientPlayers int
	saveDurations       []float64
	saveFailures        int
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		saveDurations: make([]float64, 0),
	}
}

func (m *Mock) IncRoundsGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsGenerated++
}

func (m *Mock) AddMatchesGenerated(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesGenerated += n
}

func (m *Mock) AddCourtsSkipped(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courtsSkipped += n
}

func (m *Mock) IncInsufficientPlayers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insufficientPlayers++
}

func (m *Mock) ObserveSaveDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveDurations = append(m.saveDurations, duration)
}

func (m *Mock) IncSaveFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveFailures++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RoundsGenerated returns the number of times IncRoundsGenerated was called.
func (m *Mock) RoundsGenerated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsGenerated
}

// MatchesGenerated returns the sum passed to AddMatchesGenerated.
func (m *Mock) MatchesGenerated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesGenerated
}

// CourtsSkipped returns the sum passed to AddCourtsSkipped.
func (m *Mock) CourtsSkipped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.courtsSkipped
}

// InsufficientPlayers returns the number of times IncInsufficientPlayers was called.
func (m *Mock) InsufficientPlayers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insufficientPlayers
}

// SaveCount returns the number of observed saves.
func (m *Mock) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saveDurations)
}

// SaveFailures returns the number of times IncSaveFailures was called.
func (m *Mock) SaveFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveFailures
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// StartupTime returns the last value passed to SetStartupTime.
func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
