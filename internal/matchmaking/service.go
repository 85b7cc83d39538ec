package matchmaking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/shuttle-draw/internal/club"
	"github.com/mauv0809/shuttle-draw/internal/draw"
	"github.com/mauv0809/shuttle-draw/internal/metrics"
	"github.com/mauv0809/shuttle-draw/internal/pubsub"
	"github.com/mauv0809/shuttle-draw/internal/session"
)

var _ DrawService = (*Service)(nil)

// NewService creates a new draw service.
func NewService(members club.MemberStore, sessions session.Store, saver Saver, pubsub pubsub.PubSubClient, metrics metrics.Metrics, opts Options) *Service {
	if opts.DefaultCourtCount < 1 {
		opts.DefaultCourtCount = draw.DefaultCourtCount
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		members:       members,
		sessions:      sessions,
		saver:         saver,
		pubsub:        pubsub,
		metrics:       metrics,
		defaultCourts: opts.DefaultCourtCount,
		location:      opts.Location,
		now:           opts.Now,
		locks:         make(map[string]*sync.Mutex),
		loaded:        make(map[string]draw.Session),
	}
}

func (s *Service) today() string {
	return s.now().In(s.location).Format("2006-01-02")
}

// lock acquires the mutex of date and returns its unlock func.
func (s *Service) lock(date string) func() {
	s.mu.Lock()
	l, ok := s.locks[date]
	if !ok {
		l = &sync.Mutex{}
		s.locks[date] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// load returns the committed session of date. The caller must hold its lock.
func (s *Service) load(ctx context.Context, date string) (draw.Session, error) {
	s.mu.Lock()
	sess, ok := s.loaded[date]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	saved, err := s.sessions.LoadSession(ctx, date)
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		log.Info("No saved session, starting an empty draw", "date", date)
		sess = draw.NewSession(date, s.defaultCourts)
	case err != nil:
		log.Error("Failed to load session", "date", date, "error", err)
		return draw.Session{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	default:
		log.Info("Loaded saved session", "date", date, "attendees", len(saved.Attendees), "round", saved.CurrentRound)
		sess = *saved
	}

	s.mu.Lock()
	// Sessions of earlier days are never touched again.
	for d := range s.loaded {
		if d < date {
			delete(s.loaded, d)
		}
	}
	s.loaded[date] = sess
	s.mu.Unlock()
	return sess, nil
}

// commit makes next the current session and hands it to the saver. The caller must hold its lock.
func (s *Service) commit(next draw.Session) {
	s.mu.Lock()
	s.loaded[next.Date] = next
	s.mu.Unlock()
	s.saver.Notify(next)
}

func (s *Service) view(sess draw.Session) SessionView {
	males, females := sess.GenderCounts()
	rounds := sess.Rounds()
	if rounds == nil {
		rounds = []draw.Round{}
	}
	return SessionView{
		Session: sess,
		Rounds:  rounds,
		Males:   males,
		Females: females,
		Save:    s.saver.Status(sess.Date),
	}
}

// mutate applies fn to a copy of today's session and commits the copy when fn reports a change.
func (s *Service) mutate(ctx context.Context, op string, fn func(sess *draw.Session) (bool, error)) (SessionView, error) {
	date := s.today()
	unlock := s.lock(date)
	defer unlock()

	cur, err := s.load(ctx, date)
	if err != nil {
		return SessionView{}, err
	}

	next := cur.Clone()
	changed, err := fn(&next)
	if err != nil {
		log.Warn("Rejected session change", "op", op, "date", date, "error", err)
		return s.view(cur), err
	}
	if !changed {
		log.Debug("Session change was a no-op", "op", op, "date", date)
		return s.view(cur), nil
	}

	s.commit(next)
	log.Info("Committed session change", "op", op, "date", date, "attendees", len(next.Attendees))
	return s.view(next), nil
}

func requireAttendee(sess *draw.Session, id string) error {
	if _, ok := sess.Attendee(id); !ok {
		return fmt.Errorf("%w: %s", ErrAttendeeNotFound, id)
	}
	return nil
}

func (s *Service) Today(ctx context.Context) (SessionView, error) {
	date := s.today()
	unlock := s.lock(date)
	defer unlock()

	sess, err := s.load(ctx, date)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(sess), nil
}

func (s *Service) SearchMembers(ctx context.Context, term string) ([]club.Member, error) {
	view, err := s.Today(ctx)
	if err != nil {
		return nil, err
	}
	exclude := make([]string, 0, len(view.Session.Attendees))
	for _, a := range view.Session.Attendees {
		if id, ok := a.MemberID(); ok {
			exclude = append(exclude, id)
		}
	}
	return s.members.SearchMembers(term, exclude)
}

func (s *Service) AddMember(ctx context.Context, memberID string) (SessionView, error) {
	member, err := s.members.GetMember(memberID)
	if err != nil {
		return SessionView{}, err
	}
	if member.Status != club.StatusActive {
		return SessionView{}, fmt.Errorf("%w: %s is %s", ErrMemberInactive, member.Name, member.Status)
	}
	return s.mutate(ctx, "add-member", func(sess *draw.Session) (bool, error) {
		if _, ok := sess.Attendee(memberID); ok {
			return false, fmt.Errorf("%w: %s", ErrAlreadyAttending, member.Name)
		}
		return sess.AddMember(member.Attendee()), nil
	})
}

func (s *Service) AddGuest(ctx context.Context, name string, gender draw.Gender) (SessionView, error) {
	return s.mutate(ctx, "add-guest", func(sess *draw.Session) (bool, error) {
		if _, err := sess.AddGuest(name, gender); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (s *Service) RemoveAttendee(ctx context.Context, attendeeID string) (SessionView, error) {
	return s.mutate(ctx, "remove", func(sess *draw.Session) (bool, error) {
		if err := requireAttendee(sess, attendeeID); err != nil {
			return false, err
		}
		return sess.Remove(attendeeID), nil
	})
}

func (s *Service) SetRank(ctx context.Context, attendeeID string, rank int) (SessionView, error) {
	return s.mutate(ctx, "set-rank", func(sess *draw.Session) (bool, error) {
		if err := requireAttendee(sess, attendeeID); err != nil {
			return false, err
		}
		return sess.SetRank(attendeeID, rank), nil
	})
}

func (s *Service) MoveRank(ctx context.Context, attendeeID string, dir draw.Direction) (SessionView, error) {
	return s.mutate(ctx, "move-rank", func(sess *draw.Session) (bool, error) {
		if err := requireAttendee(sess, attendeeID); err != nil {
			return false, err
		}
		return sess.MoveRank(attendeeID, dir), nil
	})
}

func (s *Service) SetLate(ctx context.Context, attendeeID string, gamesAlreadyPlayed int) (SessionView, error) {
	return s.mutate(ctx, "set-late", func(sess *draw.Session) (bool, error) {
		if err := requireAttendee(sess, attendeeID); err != nil {
			return false, err
		}
		return sess.SetLate(attendeeID, gamesAlreadyPlayed), nil
	})
}

func (s *Service) ClearLate(ctx context.Context, attendeeID string) (SessionView, error) {
	return s.mutate(ctx, "clear-late", func(sess *draw.Session) (bool, error) {
		if err := requireAttendee(sess, attendeeID); err != nil {
			return false, err
		}
		return sess.ClearLate(attendeeID), nil
	})
}

func (s *Service) SetCourtCount(ctx context.Context, courts int) (SessionView, error) {
	return s.mutate(ctx, "set-courts", func(sess *draw.Session) (bool, error) {
		return sess.SetCourtCount(courts), nil
	})
}

func (s *Service) Reset(ctx context.Context) (SessionView, error) {
	return s.mutate(ctx, "reset", func(sess *draw.Session) (bool, error) {
		sess.Reset()
		return true, nil
	})
}

func (s *Service) GenerateNextRound(ctx context.Context, dryRun bool) (SessionView, draw.Diagnostics, error) {
	date := s.today()
	unlock := s.lock(date)
	defer unlock()

	cur, err := s.load(ctx, date)
	if err != nil {
		return SessionView{}, draw.Diagnostics{}, err
	}

	next, diag, err := draw.GenerateNextRound(cur)
	if err != nil {
		if errors.Is(err, draw.ErrInsufficientPlayers) {
			s.metrics.IncInsufficientPlayers()
		}
		log.Warn("Could not generate round", "date", date, "attendees", len(cur.Attendees), "error", err)
		return s.view(cur), diag, err
	}

	s.metrics.AddCourtsSkipped(len(diag.Skipped))
	for _, skip := range diag.Skipped {
		log.Info("Court left empty", "date", date, "round", diag.Round, "court", skip.Court, "reason", skip.Reason)
	}
	if !diag.Committed {
		log.Warn("No match could be drawn, round not committed", "date", date, "round", diag.Round)
		return s.view(cur), diag, nil
	}

	s.commit(next)
	s.metrics.IncRoundsGenerated()
	s.metrics.AddMatchesGenerated(len(diag.Matches))
	log.Info("Generated round", "date", date, "round", diag.Round, "matches", len(diag.Matches), "dry_run", dryRun)

	if dryRun {
		log.Info("[Dry Run] Would have published round event", "round", diag.Round)
	} else {
		event := pubsub.RoundGeneratedEvent{Date: date, Round: diag.Round, Matches: diag.Matches}
		if err := s.pubsub.SendMessage(pubsub.EventRoundGenerated, event); err != nil {
			log.Error("Failed to publish round event", "error", err, "round", diag.Round)
		}
	}
	return s.view(next), diag, nil
}
