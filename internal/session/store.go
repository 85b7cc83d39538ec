package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-draw/internal/draw"
	"github.com/vmihailenco/msgpack/v5"
)

// NewStore creates a new SQL backed session store.
func NewStore(db *sql.DB) Store {
	return &store{
		db: db,
	}
}

// SaveSession writes the whole session, replacing any earlier save for the same date.
func (s *store) SaveSession(ctx context.Context, sess draw.Session) error {
	attendeesBlob, err := msgpack.Marshal(sess.Attendees)
	if err != nil {
		return fmt.Errorf("failed to marshal attendees: %w", err)
	}
	matchesBlob, err := msgpack.Marshal(sess.Matches)
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO draw_sessions (session_date, court_count, current_round, attendees_blob, matches_blob, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_date) DO UPDATE SET
			court_count = excluded.court_count,
			current_round = excluded.current_round,
			attendees_blob = excluded.attendees_blob,
			matches_blob = excluded.matches_blob,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		sess.Date,
		sess.CourtCount,
		sess.CurrentRound,
		attendeesBlob,
		matchesBlob,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", sess.Date, err)
	}

	log.Debug("Saved session", "date", sess.Date, "attendees", len(sess.Attendees), "round", sess.CurrentRound)
	return nil
}

// LoadSession reads the session saved for date.
func (s *store) LoadSession(ctx context.Context, date string) (*draw.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT session_date, court_count, current_round, attendees_blob, matches_blob
		FROM draw_sessions
		WHERE session_date = ?
	`
	var sess draw.Session
	var attendeesBlob, matchesBlob []byte
	err := s.db.QueryRowContext(ctx, query, date).Scan(
		&sess.Date,
		&sess.CourtCount,
		&sess.CurrentRound,
		&attendeesBlob,
		&matchesBlob,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, date)
		}
		return nil, fmt.Errorf("failed to load session %s: %w", date, err)
	}

	if len(attendeesBlob) > 0 {
		if err := msgpack.Unmarshal(attendeesBlob, &sess.Attendees); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attendees: %w", err)
		}
	}
	if len(matchesBlob) > 0 {
		if err := msgpack.Unmarshal(matchesBlob, &sess.Matches); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matches: %w", err)
		}
	}
	if sess.Attendees == nil {
		sess.Attendees = []draw.Attendee{}
	}
	if sess.Matches == nil {
		sess.Matches = []draw.GeneratedMatch{}
	}
	return &sess, nil
}

// DeleteSession removes the session saved for date. Deleting a missing session is not an error.
func (s *store) DeleteSession(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM draw_sessions WHERE session_date = ?", date); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", date, err)
	}
	log.Info("Deleted session", "date", date)
	return nil
}
