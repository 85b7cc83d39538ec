package draw

// Gender decides which match types an attendee can be placed in.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// MatchType is the doubles format played on a court.
type MatchType string

const (
	MatchTypeMen   MatchType = "men"
	MatchTypeWomen MatchType = "women"
	MatchTypeMixed MatchType = "mixed"
)

// AttendeeKind tells members of the club apart from walk-in guests.
type AttendeeKind string

const (
	KindMember AttendeeKind = "member"
	KindGuest  AttendeeKind = "guest"
)

// NoRound is the last-match sentinel for attendees that have not played yet.
const NoRound = -999

// MinPlayers is the smallest roster a round can be drawn from.
const MinPlayers = 4

// Attendee is a participant of a draw session.
type Attendee struct {
	ID       string       `json:"id" msgpack:"id"`
	Kind     AttendeeKind `json:"kind" msgpack:"kind"`
	Name     string       `json:"name" msgpack:"name"`
	Nickname *string      `json:"nickname,omitempty" msgpack:"nickname"`
	Gender   Gender       `json:"gender" msgpack:"gender"`
	// Rank is 1 for the strongest attendee.
	Rank               int  `json:"rank" msgpack:"rank"`
	IsLate             bool `json:"is_late" msgpack:"is_late"`
	GamesBeforeArrival int  `json:"games_before_arrival" msgpack:"games_before_arrival"`
	GamesPlayed        int  `json:"games_played" msgpack:"games_played"`
	MenDoubles         int  `json:"men_doubles" msgpack:"men_doubles"`
	WomenDoubles       int  `json:"women_doubles" msgpack:"women_doubles"`
	MixedDoubles       int  `json:"mixed_doubles" msgpack:"mixed_doubles"`
	LastMatchRound     int  `json:"last_match_round" msgpack:"last_match_round"`
}

// NewMemberAttendee builds a fresh attendee for a club member. Members without
// a recorded gender are drawn as male.
func NewMemberAttendee(memberID, name string, nickname *string, gender Gender) Attendee {
	if gender != Female {
		gender = Male
	}
	return Attendee{
		ID:             memberID,
		Kind:           KindMember,
		Name:           name,
		Nickname:       nickname,
		Gender:         gender,
		LastMatchRound: NoRound,
	}
}

// IsGuest reports whether the attendee is a walk-in.
func (a Attendee) IsGuest() bool {
	return a.Kind == KindGuest
}

// MemberID returns the club member id behind the attendee. Guests have none.
func (a Attendee) MemberID() (string, bool) {
	switch a.Kind {
	case KindMember:
		return a.ID, true
	case KindGuest:
		return "", false
	default:
		return "", false
	}
}

// DisplayName prefers the nickname when one is set.
func (a Attendee) DisplayName() string {
	if a.Nickname != nil && *a.Nickname != "" {
		return *a.Nickname
	}
	return a.Name
}

func (a *Attendee) countMatch(t MatchType) {
	switch t {
	case MatchTypeMen:
		a.MenDoubles++
	case MatchTypeWomen:
		a.WomenDoubles++
	case MatchTypeMixed:
		a.MixedDoubles++
	}
}

// GeneratedMatch is one court assignment within a round.
type GeneratedMatch struct {
	Round int         `json:"round" msgpack:"round"`
	Court int         `json:"court" msgpack:"court"`
	Team1 [2]Attendee `json:"team1" msgpack:"team1"`
	Team2 [2]Attendee `json:"team2" msgpack:"team2"`
	Type  MatchType   `json:"match_type" msgpack:"match_type"`
}

// Players returns the four participants, team 1 first.
func (m GeneratedMatch) Players() []Attendee {
	return []Attendee{m.Team1[0], m.Team1[1], m.Team2[0], m.Team2[1]}
}

// Contains reports whether the attendee plays in the match.
func (m GeneratedMatch) Contains(id string) bool {
	for _, p := range m.Players() {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Round groups the matches drawn in one generation cycle.
type Round struct {
	Number  int              `json:"number"`
	Matches []GeneratedMatch `json:"matches"`
}

// SkipReason explains why a court got no match.
type SkipReason string

const (
	SkipNotEnoughPlayers  SkipReason = "not_enough_players"
	SkipNoMatchType       SkipReason = "no_match_type"
	SkipDuplicateSelected SkipReason = "duplicate_selected"
)

// CourtSkip records a court left empty in a round.
type CourtSkip struct {
	Court  int        `json:"court"`
	Reason SkipReason `json:"reason"`
}

// Diagnostics describes the outcome of one round generation.
type Diagnostics struct {
	Round     int              `json:"round"`
	Committed bool             `json:"committed"`
	Matches   []GeneratedMatch `json:"matches"`
	Skipped   []CourtSkip      `json:"skipped,omitempty"`
}
