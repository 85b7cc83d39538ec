package club

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new MemberStore.
func New(db *sql.DB) MemberStore {
	return &store{
		db: db,
	}
}

const upsertMemberSQL = `
	INSERT INTO members (id, name, nickname, gender, status, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		nickname = excluded.nickname,
		gender = excluded.gender,
		status = excluded.status,
		updated_at = excluded.updated_at;
`

// UpsertMember inserts a new member or updates an existing one.
func (s *store) UpsertMember(member Member) error {
	return s.UpsertMembers([]Member{member})
}

// UpsertMembers writes all members in one transaction.
func (s *store) UpsertMembers(members []Member) error {
	if len(members) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertMemberSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare member upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, m := range members {
		if m.Status == "" {
			m.Status = StatusActive
		}
		if _, err := stmt.Exec(m.ID, m.Name, m.Nickname, string(m.Gender), string(m.Status), now, now); err != nil {
			return fmt.Errorf("failed to upsert member %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit member upsert: %w", err)
	}
	log.Info("Upserted members", "count", len(members))
	return nil
}

// scanMember is a helper function to scan a single member row.
func scanMember(scanner interface{ Scan(...any) error }) (Member, error) {
	var m Member
	var nickname sql.NullString
	var gender, status string
	if err := scanner.Scan(&m.ID, &m.Name, &nickname, &gender, &status); err != nil {
		return Member{}, err
	}
	if nickname.Valid {
		n := nickname.String
		m.Nickname = &n
	}
	m.Gender = drawGender(gender)
	m.Status = MemberStatus(status)
	return m, nil
}

// GetMember retrieves a member by id.
func (s *store) GetMember(memberID string) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT id, name, nickname, gender, status FROM members WHERE id = ?", memberID)
	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &m, nil
}

// GetActiveMembers returns the members that can be added to a draw, ordered by name.
func (s *store) GetActiveMembers() ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, name, nickname, gender, status FROM members WHERE status = ? ORDER BY name",
		string(StatusActive),
	)
	if err != nil {
		log.Error("Failed to query active members", "error", err)
		return nil, err
	}
	defer rows.Close()

	return collectMembers(rows, nil)
}

// SearchMembers returns active members whose name or nickname contains term,
// leaving out excludeIDs (typically the attendees already in the draw).
func (s *store) SearchMembers(term string, excludeIDs []string) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pattern := "%" + strings.TrimSpace(term) + "%"
	rows, err := s.db.Query(`
		SELECT id, name, nickname, gender, status
		FROM members
		WHERE status = ? AND (name LIKE ? OR COALESCE(nickname, '') LIKE ?)
		ORDER BY name
	`, string(StatusActive), pattern, pattern)
	if err != nil {
		log.Error("Failed to search members", "error", err, "term", term)
		return nil, err
	}
	defer rows.Close()

	exclude := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		exclude[id] = true
	}
	return collectMembers(rows, exclude)
}

func collectMembers(rows *sql.Rows, exclude map[string]bool) ([]Member, error) {
	members := []Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			log.Error("Failed to scan member row", "error", err)
			continue
		}
		if exclude[m.ID] {
			continue
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// SetMemberStatus changes the membership state of a member.
func (s *store) SetMemberStatus(memberID string, status MemberStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE members SET status = ?, updated_at = ? WHERE id = ?", string(status), time.Now().Unix(), memberID)
	if err != nil {
		return fmt.Errorf("failed to update member status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrMemberNotFound, memberID)
	}
	log.Info("Updated member status", "memberID", memberID, "status", status)
	return nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM members"); err != nil {
		log.Error("Failed to clear members table", "error", err)
	}
}
