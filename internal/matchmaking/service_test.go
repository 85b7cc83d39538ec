package matchmaking_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mauv0809/shuttle-draw/internal/club"
	"github.com/mauv0809/shuttle-draw/internal/draw"
	"github.com/mauv0809/shuttle-draw/internal/matchmaking"
	"github.com/mauv0809/shuttle-draw/internal/metrics"
	"github.com/mauv0809/shuttle-draw/internal/pubsub"
	"github.com/mauv0809/shuttle-draw/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSaver keeps every committed session instead of saving it.
type recordingSaver struct {
	mu       sync.Mutex
	notified []draw.Session
}

func (r *recordingSaver) Notify(s draw.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notified = append(r.notified, s)
}

func (r *recordingSaver) Status(date string) session.SaveStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return session.SaveStatus{Pending: len(r.notified) > 0}
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notified)
}

func (r *recordingSaver) last() draw.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notified[len(r.notified)-1]
}

type fixture struct {
	svc      *matchmaking.Service
	members  *club.MockStore
	sessions *session.MockStore
	saver    *recordingSaver
	pubsub   *pubsub.MockPubSubClient
	metrics  *metrics.Mock
	now      time.Time
}

// kst is used instead of a tz database lookup.
var kst = time.FixedZone("KST", 9*60*60)

// 19:00 UTC on the 4th is already the 5th in Seoul.
const today = "2024-05-05"

func setup(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		members:  club.NewMock(),
		sessions: session.NewMock(),
		saver:    &recordingSaver{},
		pubsub:   pubsub.NewMock("TEST"),
		metrics:  metrics.NewMock(),
		now:      time.Date(2024, 5, 4, 19, 0, 0, 0, time.UTC),
	}
	roster := map[string]club.Member{
		"m1": {ID: "m1", Name: "Kim", Gender: draw.Male, Status: club.StatusActive},
		"m2": {ID: "m2", Name: "Park", Gender: draw.Female, Status: club.StatusActive},
		"m3": {ID: "m3", Name: "Lee", Status: club.StatusActive},
		"m9": {ID: "m9", Name: "Gone", Status: club.StatusLeft},
	}
	f.members.GetMemberFunc = func(id string) (*club.Member, error) {
		m, ok := roster[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", club.ErrMemberNotFound, id)
		}
		return &m, nil
	}
	f.svc = matchmaking.NewService(f.members, f.sessions, f.saver, f.pubsub, f.metrics, matchmaking.Options{
		DefaultCourtCount: 2,
		Location:          kst,
		Now:               func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) addGuests(t *testing.T, genders ...draw.Gender) {
	t.Helper()
	for i, g := range genders {
		_, err := f.svc.AddGuest(context.Background(), fmt.Sprintf("Guest %d", i+1), g)
		require.NoError(t, err)
	}
}

func TestToday_EmptySessionWhenNothingSaved(t *testing.T) {
	f := setup(t)

	view, err := f.svc.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, today, view.Session.Date)
	assert.Equal(t, 2, view.Session.CourtCount)
	assert.Empty(t, view.Session.Attendees)
	assert.NotNil(t, view.Rounds)
	assert.Equal(t, 0, f.saver.count(), "an untouched session is not saved")
}

func TestToday_LoadsSavedSessionOnce(t *testing.T) {
	f := setup(t)
	saved := draw.NewSession(today, 3)
	saved.AddMember(draw.NewMemberAttendee("m1", "Kim", nil, draw.Male))
	require.NoError(t, f.sessions.SaveSession(context.Background(), saved))

	for i := 0; i < 2; i++ {
		view, err := f.svc.Today(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, view.Session.CourtCount)
		require.Len(t, view.Session.Attendees, 1)
		assert.Equal(t, 1, view.Males)
	}
	assert.Equal(t, []string{today}, f.sessions.LoadSessionCalls)
}

func TestToday_LoadFailureIsNotCached(t *testing.T) {
	f := setup(t)
	f.sessions.LoadSessionFunc = func(ctx context.Context, date string) (*draw.Session, error) {
		return nil, errors.New("connection refused")
	}

	_, err := f.svc.Today(context.Background())
	assert.ErrorIs(t, err, matchmaking.ErrPersistence)

	_, err = f.svc.AddGuest(context.Background(), "Walk In", draw.Male)
	assert.ErrorIs(t, err, matchmaking.ErrPersistence)
	assert.Equal(t, 0, f.saver.count())

	f.sessions.LoadSessionFunc = nil
	view, err := f.svc.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, today, view.Session.Date)
}

func TestToday_DayRollover(t *testing.T) {
	f := setup(t)
	f.addGuests(t, draw.Male)

	f.now = f.now.Add(24 * time.Hour)
	view, err := f.svc.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06", view.Session.Date)
	assert.Empty(t, view.Session.Attendees)
}

func TestAddMember(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	view, err := f.svc.AddMember(ctx, "m3")
	require.NoError(t, err)
	require.Len(t, view.Session.Attendees, 1)
	a := view.Session.Attendees[0]
	assert.Equal(t, "m3", a.ID)
	assert.Equal(t, 1, a.Rank)
	assert.Equal(t, draw.Male, a.Gender, "members without gender are drawn as male")
	assert.Equal(t, 1, f.saver.count())

	_, err = f.svc.AddMember(ctx, "m3")
	assert.ErrorIs(t, err, matchmaking.ErrAlreadyAttending)

	_, err = f.svc.AddMember(ctx, "nobody")
	assert.ErrorIs(t, err, club.ErrMemberNotFound)

	_, err = f.svc.AddMember(ctx, "m9")
	assert.ErrorIs(t, err, matchmaking.ErrMemberInactive)

	assert.Equal(t, 1, f.saver.count(), "rejected changes are not saved")
}

func TestAddGuest_EmptyName(t *testing.T) {
	f := setup(t)

	_, err := f.svc.AddGuest(context.Background(), "   ", draw.Female)
	assert.ErrorIs(t, err, draw.ErrEmptyGuestName)
	assert.Equal(t, 0, f.saver.count())
}

func TestRosterEdits_UnknownAttendee(t *testing.T) {
	f := setup(t)
	f.addGuests(t, draw.Male)
	ctx := context.Background()

	tests := []struct {
		name string
		op   func() (matchmaking.SessionView, error)
	}{
		{"remove", func() (matchmaking.SessionView, error) { return f.svc.RemoveAttendee(ctx, "ghost") }},
		{"set rank", func() (matchmaking.SessionView, error) { return f.svc.SetRank(ctx, "ghost", 1) }},
		{"move rank", func() (matchmaking.SessionView, error) { return f.svc.MoveRank(ctx, "ghost", draw.Up) }},
		{"set late", func() (matchmaking.SessionView, error) { return f.svc.SetLate(ctx, "ghost", 2) }},
		{"clear late", func() (matchmaking.SessionView, error) { return f.svc.ClearLate(ctx, "ghost") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := tt.op()
			assert.ErrorIs(t, err, matchmaking.ErrAttendeeNotFound)
			assert.Len(t, view.Session.Attendees, 1, "the current session is still returned")
		})
	}
	assert.Equal(t, 1, f.saver.count())
}

func TestRosterEdits(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.svc.AddMember(ctx, "m1")
	require.NoError(t, err)
	_, err = f.svc.AddMember(ctx, "m2")
	require.NoError(t, err)
	_, err = f.svc.AddMember(ctx, "m3")
	require.NoError(t, err)
	saves := f.saver.count()

	view, err := f.svc.SetRank(ctx, "m3", 1)
	require.NoError(t, err)
	assert.Equal(t, "m3", view.Session.Attendees[0].ID)

	_, err = f.svc.SetRank(ctx, "m3", 1)
	require.NoError(t, err)
	assert.Equal(t, saves+1, f.saver.count(), "a no-op is not saved")

	view, err = f.svc.MoveRank(ctx, "m1", draw.Down)
	require.NoError(t, err)
	assert.Equal(t, []string{"m3", "m2", "m1"}, []string{view.Session.Attendees[0].ID, view.Session.Attendees[1].ID, view.Session.Attendees[2].ID})

	view, err = f.svc.SetLate(ctx, "m2", 3)
	require.NoError(t, err)
	late, _ := view.Session.Attendee("m2")
	assert.True(t, late.IsLate)
	assert.Equal(t, 3, late.GamesPlayed)

	view, err = f.svc.ClearLate(ctx, "m2")
	require.NoError(t, err)
	late, _ = view.Session.Attendee("m2")
	assert.False(t, late.IsLate)
	assert.Equal(t, 0, late.GamesPlayed)

	view, err = f.svc.SetCourtCount(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Session.CourtCount)

	view, err = f.svc.RemoveAttendee(ctx, "m3")
	require.NoError(t, err)
	require.Len(t, view.Session.Attendees, 2)
	assert.Equal(t, 1, view.Session.Attendees[0].Rank)
	assert.Equal(t, 2, view.Session.Attendees[1].Rank)

	assert.Equal(t, view.Session, f.saver.last(), "the last committed session was handed to the saver")
}

func TestSearchMembers_ExcludesAttendingMembers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.svc.AddMember(ctx, "m1")
	require.NoError(t, err)
	f.addGuests(t, draw.Female)

	f.members.SearchMembersFunc = func(term string, excludeIDs []string) ([]club.Member, error) {
		return []club.Member{{ID: "m2", Name: "Park"}}, nil
	}
	members, err := f.svc.SearchMembers(ctx, "pa")
	require.NoError(t, err)
	require.Len(t, members, 1)

	require.Len(t, f.members.SearchMembersCalls, 1)
	assert.Equal(t, "pa", f.members.SearchMembersCalls[0].Term)
	assert.Equal(t, []string{"m1"}, f.members.SearchMembersCalls[0].ExcludeIDs, "guests have no member id")
}

func TestGenerateNextRound_CommitsPublishesAndRecordsMetrics(t *testing.T) {
	f := setup(t)
	f.addGuests(t, draw.Male, draw.Male, draw.Male, draw.Male, draw.Male)
	saves := f.saver.count()

	view, diag, err := f.svc.GenerateNextRound(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, diag.Committed)
	assert.Equal(t, 1, view.Session.CurrentRound)
	require.Len(t, view.Rounds, 1)
	assert.Len(t, view.Rounds[0].Matches, 1)

	assert.Equal(t, saves+1, f.saver.count())
	assert.Equal(t, 1, f.saver.last().CurrentRound)

	sent := f.pubsub.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, pubsub.EventRoundGenerated, sent[0].Topic)
	event, ok := sent[0].Data.(pubsub.RoundGeneratedEvent)
	require.True(t, ok)
	assert.Equal(t, today, event.Date)
	assert.Equal(t, 1, event.Round)
	assert.Equal(t, diag.Matches, event.Matches)

	assert.Equal(t, 1, f.metrics.RoundsGenerated())
	assert.Equal(t, 1, f.metrics.MatchesGenerated())
	assert.Equal(t, 1, f.metrics.CourtsSkipped(), "five players fill one of two courts")
}

func TestGenerateNextRound_DryRunIsNotPublished(t *testing.T) {
	f := setup(t)
	f.addGuests(t, draw.Male, draw.Female, draw.Male, draw.Female)

	view, diag, err := f.svc.GenerateNextRound(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, diag.Committed)
	assert.Equal(t, 1, view.Session.CurrentRound)
	assert.Empty(t, f.pubsub.Sent())
}

func TestGenerateNextRound_PublishFailureKeepsRound(t *testing.T) {
	f := setup(t)
	f.addGuests(t, draw.Male, draw.Male, draw.Male, draw.Male)
	f.pubsub.SendMessageFunc = func(topic pubsub.EventType, data any) error {
		return errors.New("topic not found")
	}

	view, _, err := f.svc.GenerateNextRound(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Session.CurrentRound)
}

func TestGenerateNextRound_InsufficientPlayers(t *testing.T) {
	f := setup(t)
	f.addGuests(t, draw.Male, draw.Male, draw.Male)
	saves := f.saver.count()

	view, diag, err := f.svc.GenerateNextRound(context.Background(), false)
	assert.ErrorIs(t, err, draw.ErrInsufficientPlayers)
	assert.False(t, diag.Committed)
	assert.Equal(t, 0, view.Session.CurrentRound)
	assert.Len(t, view.Session.Attendees, 3)
	assert.Equal(t, saves, f.saver.count())
	assert.Equal(t, 1, f.metrics.InsufficientPlayers())
	assert.Empty(t, f.pubsub.Sent())
}

func TestGenerateNextRound_NothingDrawnIsNotCommitted(t *testing.T) {
	f := setup(t)
	_, err := f.svc.SetCourtCount(context.Background(), 1)
	require.NoError(t, err)
	f.addGuests(t, draw.Female, draw.Female, draw.Female, draw.Male)
	saves := f.saver.count()

	view, diag, err := f.svc.GenerateNextRound(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, diag.Committed)
	require.Len(t, diag.Skipped, 1)
	assert.Equal(t, draw.SkipNoMatchType, diag.Skipped[0].Reason)
	assert.Equal(t, 0, view.Session.CurrentRound)
	assert.Equal(t, saves, f.saver.count())
	assert.Empty(t, f.pubsub.Sent())
	assert.Equal(t, 0, f.metrics.RoundsGenerated())
}

func TestReset(t *testing.T) {
	f := setup(t)
	f.addGuests(t, draw.Male, draw.Male, draw.Male, draw.Male)
	_, _, err := f.svc.GenerateNextRound(context.Background(), false)
	require.NoError(t, err)

	view, err := f.svc.Reset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, view.Session.CurrentRound)
	assert.Empty(t, view.Session.Matches)
	assert.Empty(t, view.Rounds)
	for _, a := range view.Session.Attendees {
		assert.Equal(t, 0, a.GamesPlayed)
		assert.Equal(t, draw.NoRound, a.LastMatchRound)
	}
	assert.Len(t, view.Session.Attendees, 4)
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g := draw.Male
			if i%2 == 0 {
				g = draw.Female
			}
			_, err := f.svc.AddGuest(ctx, fmt.Sprintf("Guest %d", i), g)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.svc.GenerateNextRound(ctx, true)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	view, err := f.svc.Today(ctx)
	require.NoError(t, err)
	require.Len(t, view.Session.Attendees, 40)
	for i, a := range view.Session.Attendees {
		assert.Equal(t, i+1, a.Rank)
	}

	assert.Equal(t, 10, view.Session.CurrentRound)
	require.Len(t, view.Rounds, 10)
	for i, r := range view.Rounds {
		assert.Equal(t, i+1, r.Number)
		seen := map[string]bool{}
		for _, m := range r.Matches {
			for _, p := range m.Players() {
				assert.False(t, seen[p.ID], "player %s twice in round %d", p.ID, r.Number)
				seen[p.ID] = true
			}
		}
	}
}
