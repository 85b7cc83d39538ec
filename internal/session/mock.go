package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/mauv0809/shuttle-draw/internal/draw"
)

var _ Store = (*MockStore)(nil)

// MockStore is a mock implementation of the Store interface for testing.
// Without spies it behaves like an in-memory store.
// It is safe for concurrent use.
type MockStore struct {
	mu       sync.Mutex
	sessions map[string]draw.Session

	// Spies for method calls
	LoadSessionFunc   func(ctx context.Context, date string) (*draw.Session, error)
	SaveSessionFunc   func(ctx context.Context, s draw.Session) error
	DeleteSessionFunc func(ctx context.Context, date string) error

	// Call records
	LoadSessionCalls   []string
	SaveSessionCalls   []draw.Session
	DeleteSessionCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{sessions: make(map[string]draw.Session)}
}

func (m *MockStore) LoadSession(ctx context.Context, date string) (*draw.Session, error) {
	m.mu.Lock()
	m.LoadSessionCalls = append(m.LoadSessionCalls, date)
	fn := m.LoadSessionFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, date)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[date]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, date)
	}
	c := s.Clone()
	return &c, nil
}

// SaveSession runs outside the lock so a spy may block.
func (m *MockStore) SaveSession(ctx context.Context, s draw.Session) error {
	m.mu.Lock()
	m.SaveSessionCalls = append(m.SaveSessionCalls, s.Clone())
	fn := m.SaveSessionFunc
	m.mu.Unlock()
	if fn != nil {
		if err := fn(ctx, s); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Date] = s.Clone()
	return nil
}

func (m *MockStore) DeleteSession(ctx context.Context, date string) error {
	m.mu.Lock()
	m.DeleteSessionCalls = append(m.DeleteSessionCalls, date)
	fn := m.DeleteSessionFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, date)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, date)
	return nil
}

// Saved returns a copy of the save calls.
func (m *MockStore) Saved() []draw.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]draw.Session(nil), m.SaveSessionCalls...)
}
