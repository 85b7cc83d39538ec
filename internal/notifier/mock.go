package notifier

import (
	"sync"

	"github.com/mauv0809/shuttle-draw/internal/draw"
)

var _ Notifier = (*Mock)(nil)

// RoundNotificationCall holds the arguments for a call to SendRoundNotification.
type RoundNotificationCall struct {
	Date    string
	Round   int
	Matches []draw.GeneratedMatch
	DryRun  bool
}

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendRoundNotificationFunc func(date string, round int, matches []draw.GeneratedMatch, dryRun bool) error
	FormatSessionResponseFunc func(s draw.Session) (any, error)
	FormatRoundResponseFunc   func(round int, matches []draw.GeneratedMatch, skipped []draw.CourtSkip) (any, error)
	FormatErrorResponseFunc   func(text string) (any, error)

	// Call records
	SendRoundNotificationCalls []RoundNotificationCall
	FormatSessionCalls         []draw.Session
	FormatRoundCalls           []int
	FormatErrorCalls           []string
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRoundNotificationCalls = nil
	m.FormatSessionCalls = nil
	m.FormatRoundCalls = nil
	m.FormatErrorCalls = nil
}

func (m *Mock) SendRoundNotification(date string, round int, matches []draw.GeneratedMatch, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendRoundNotificationCalls = append(m.SendRoundNotificationCalls, RoundNotificationCall{date, round, matches, dryRun})
	if m.SendRoundNotificationFunc != nil {
		return m.SendRoundNotificationFunc(date, round, matches, dryRun)
	}
	return nil
}

func (m *Mock) FormatSessionResponse(s draw.Session) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatSessionCalls = append(m.FormatSessionCalls, s)
	if m.FormatSessionResponseFunc != nil {
		return m.FormatSessionResponseFunc(s)
	}
	return nil, nil
}

func (m *Mock) FormatRoundResponse(round int, matches []draw.GeneratedMatch, skipped []draw.CourtSkip) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatRoundCalls = append(m.FormatRoundCalls, round)
	if m.FormatRoundResponseFunc != nil {
		return m.FormatRoundResponseFunc(round, matches, skipped)
	}
	return nil, nil
}

func (m *Mock) FormatErrorResponse(text string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatErrorCalls = append(m.FormatErrorCalls, text)
	if m.FormatErrorResponseFunc != nil {
		return m.FormatErrorResponseFunc(text)
	}
	return nil, nil
}

// RoundNotifications returns a copy of the recorded SendRoundNotification calls.
func (m *Mock) RoundNotifications() []RoundNotificationCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RoundNotificationCall(nil), m.SendRoundNotificationCalls...)
}
