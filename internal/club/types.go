package club

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/mauv0809/shuttle-draw/internal/draw"
)

// store handles all database operations for the member roster.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// ErrMemberNotFound is returned when no member has the requested id.
var ErrMemberNotFound = errors.New("member not found")

// MemberStatus is the membership state of a member.
type MemberStatus string

const (
	StatusActive MemberStatus = "active"
	StatusLeft   MemberStatus = "left"
	StatusKicked MemberStatus = "kicked"
)

// Member represents a club member in the store.
type Member struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Nickname *string      `json:"nickname,omitempty"`
	Gender   draw.Gender  `json:"gender,omitempty"`
	Status   MemberStatus `json:"status"`
}

// Attendee converts the member into a fresh draw attendee.
func (m Member) Attendee() draw.Attendee {
	return draw.NewMemberAttendee(m.ID, m.Name, m.Nickname, m.Gender)
}

// drawGender maps a stored gender to the draw type. Unknown values stay empty.
func drawGender(s string) draw.Gender {
	switch g := draw.Gender(s); g {
	case draw.Male, draw.Female:
		return g
	}
	return ""
}
