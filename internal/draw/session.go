package draw

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultCourtCount is used for a session that has not been configured yet.
const DefaultCourtCount = 2

// Session is the full state of one day's draw.
type Session struct {
	Date         string           `json:"date" msgpack:"date"`
	CourtCount   int              `json:"court_count" msgpack:"court_count"`
	Attendees    []Attendee       `json:"attendees" msgpack:"attendees"`
	Matches      []GeneratedMatch `json:"matches" msgpack:"matches"`
	CurrentRound int              `json:"current_round" msgpack:"current_round"`
}

// NewSession returns an empty session for the given date.
func NewSession(date string, courtCount int) Session {
	s := Session{Date: date, Attendees: []Attendee{}, Matches: []GeneratedMatch{}}
	s.SetCourtCount(courtCount)
	return s
}

// Clone returns a deep copy so that mutations never leak into the receiver.
func (s Session) Clone() Session {
	c := s
	c.Attendees = make([]Attendee, len(s.Attendees))
	for i, a := range s.Attendees {
		c.Attendees[i] = a.clone()
	}
	c.Matches = make([]GeneratedMatch, len(s.Matches))
	for i, m := range s.Matches {
		for j := range m.Team1 {
			m.Team1[j] = m.Team1[j].clone()
			m.Team2[j] = m.Team2[j].clone()
		}
		c.Matches[i] = m
	}
	return c
}

func (a Attendee) clone() Attendee {
	if a.Nickname != nil {
		n := *a.Nickname
		a.Nickname = &n
	}
	return a
}

func (s *Session) indexOf(id string) int {
	for i, a := range s.Attendees {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// Attendee looks up an attendee by id.
func (s Session) Attendee(id string) (Attendee, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return Attendee{}, false
	}
	return s.Attendees[i], true
}

// rerank rewrites ranks as 1..N in slice order.
func (s *Session) rerank() {
	for i := range s.Attendees {
		s.Attendees[i].Rank = i + 1
	}
}

// AddMember appends a member at the bottom of the ranking. It returns false
// when an attendee with the same id is already present.
func (s *Session) AddMember(a Attendee) bool {
	if s.indexOf(a.ID) >= 0 {
		return false
	}
	a.Kind = KindMember
	s.appendAttendee(a)
	return true
}

// AddGuest appends a walk-in with a generated id.
func (s *Session) AddGuest(name string, gender Gender) (Attendee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Attendee{}, ErrEmptyGuestName
	}
	if gender != Female {
		gender = Male
	}
	a := Attendee{
		ID:             "guest_" + uuid.NewString(),
		Kind:           KindGuest,
		Name:           name,
		Gender:         gender,
		LastMatchRound: NoRound,
	}
	s.appendAttendee(a)
	return s.Attendees[len(s.Attendees)-1], nil
}

func (s *Session) appendAttendee(a Attendee) {
	a.Rank = len(s.Attendees) + 1
	if a.IsLate {
		a.GamesPlayed = a.GamesBeforeArrival
	}
	s.Attendees = append(s.Attendees, a)
}

// Remove deletes the attendee and closes the gap in the ranking.
func (s *Session) Remove(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.Attendees = append(s.Attendees[:i], s.Attendees[i+1:]...)
	s.rerank()
	return true
}

// SetRank moves the attendee to newRank, clamped to [1, N].
func (s *Session) SetRank(id string, newRank int) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	newRank = max(1, min(newRank, len(s.Attendees)))
	if newRank == i+1 {
		return false
	}
	a := s.Attendees[i]
	rest := append(s.Attendees[:i:i], s.Attendees[i+1:]...)
	reordered := make([]Attendee, 0, len(s.Attendees))
	reordered = append(reordered, rest[:newRank-1]...)
	reordered = append(reordered, a)
	reordered = append(reordered, rest[newRank-1:]...)
	s.Attendees = reordered
	s.rerank()
	return true
}

// Direction is used by MoveRank.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// MoveRank swaps the attendee with its neighbour. Moving past either end is a no-op.
func (s *Session) MoveRank(id string, dir Direction) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	j := i
	switch dir {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	}
	if j == i || j < 0 || j >= len(s.Attendees) {
		return false
	}
	s.Attendees[i], s.Attendees[j] = s.Attendees[j], s.Attendees[i]
	s.rerank()
	return true
}

// SetLate marks the attendee late and credits them with games already played.
// Both the baseline and the live counter are set.
func (s *Session) SetLate(id string, gamesAlreadyPlayed int) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	gamesAlreadyPlayed = max(0, gamesAlreadyPlayed)
	a := &s.Attendees[i]
	a.IsLate = true
	a.GamesBeforeArrival = gamesAlreadyPlayed
	a.GamesPlayed = gamesAlreadyPlayed
	return true
}

// ClearLate drops late status. The games counter goes back to zero, including
// games played since the attendee was marked late.
func (s *Session) ClearLate(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	a := &s.Attendees[i]
	a.IsLate = false
	a.GamesBeforeArrival = 0
	a.GamesPlayed = 0
	return true
}

// ResetCounters restores every attendee to its late-credit baseline.
func (s *Session) ResetCounters() {
	for i := range s.Attendees {
		a := &s.Attendees[i]
		a.GamesPlayed = 0
		if a.IsLate {
			a.GamesPlayed = a.GamesBeforeArrival
		}
		a.MenDoubles = 0
		a.WomenDoubles = 0
		a.MixedDoubles = 0
		a.LastMatchRound = NoRound
	}
}

// Reset restarts the draw: counters, matches and the round number are cleared,
// the roster is kept.
func (s *Session) Reset() {
	s.ResetCounters()
	s.Matches = []GeneratedMatch{}
	s.CurrentRound = 0
}

// SetCourtCount sets the number of courts, never below one.
func (s *Session) SetCourtCount(n int) bool {
	n = max(1, n)
	if s.CourtCount == n {
		return false
	}
	s.CourtCount = n
	return true
}

// Rounds groups the matches by round number in ascending order.
func (s Session) Rounds() []Round {
	var rounds []Round
	for _, m := range s.Matches {
		if len(rounds) == 0 || rounds[len(rounds)-1].Number != m.Round {
			rounds = append(rounds, Round{Number: m.Round})
		}
		rounds[len(rounds)-1].Matches = append(rounds[len(rounds)-1].Matches, m)
	}
	return rounds
}

// GenderCounts returns the number of male and female attendees.
func (s Session) GenderCounts() (males, females int) {
	for _, a := range s.Attendees {
		if a.Gender == Female {
			females++
		} else {
			males++
		}
	}
	return males, females
}
