package matchmaking

import (
	"errors"
	"sync"
	"time"

	"github.com/mauv0809/shuttle-draw/internal/club"
	"github.com/mauv0809/shuttle-draw/internal/draw"
	"github.com/mauv0809/shuttle-draw/internal/metrics"
	"github.com/mauv0809/shuttle-draw/internal/pubsub"
	"github.com/mauv0809/shuttle-draw/internal/session"
)

var (
	// ErrPersistence wraps failures to load a saved session.
	ErrPersistence = errors.New("session persistence failed")
	// ErrAttendeeNotFound is returned for ids that are not in today's roster.
	ErrAttendeeNotFound = errors.New("attendee not found")
	// ErrAlreadyAttending is returned when a member is added twice.
	ErrAlreadyAttending = errors.New("member is already attending")
	// ErrMemberInactive is returned for members that left or were removed from the club.
	ErrMemberInactive = errors.New("member is not active")
)

// Options configures a Service.
type Options struct {
	DefaultCourtCount int
	Location          *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service is the DrawService implementation. Every read-modify-write of a
// session runs under that session's mutex.
type Service struct {
	members  club.MemberStore
	sessions session.Store
	saver    Saver
	pubsub   pubsub.PubSubClient
	metrics  metrics.Metrics

	defaultCourts int
	location      *time.Location
	now           func() time.Time

	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	loaded map[string]draw.Session
}

// SessionView is a session together with values derived from it.
type SessionView struct {
	Session draw.Session       `json:"session"`
	Rounds  []draw.Round       `json:"rounds"`
	Males   int                `json:"males"`
	Females int                `json:"females"`
	Save    session.SaveStatus `json:"save"`
}
