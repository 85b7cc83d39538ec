package session

import (
	"database/sql"
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned when no session was saved for a date.
var ErrSessionNotFound = errors.New("session not found")

// store handles database operations for draw sessions.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// SaveStatus describes the last background save of a session.
type SaveStatus struct {
	LastSavedAt time.Time `json:"last_saved_at,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	Pending     bool      `json:"pending"`
}
