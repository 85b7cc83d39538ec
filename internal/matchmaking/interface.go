package matchmaking

import (
	"context"

	"github.com/mauv0809/shuttle-draw/internal/club"
	"github.com/mauv0809/shuttle-draw/internal/draw"
	"github.com/mauv0809/shuttle-draw/internal/session"
)

// DrawService runs today's draw: roster edits and round generation.
type DrawService interface {
	// Today returns the current session, creating an empty one if nothing was saved yet.
	Today(ctx context.Context) (SessionView, error)

	// SearchMembers finds active members that are not attending yet.
	SearchMembers(ctx context.Context, term string) ([]club.Member, error)

	AddMember(ctx context.Context, memberID string) (SessionView, error)
	AddGuest(ctx context.Context, name string, gender draw.Gender) (SessionView, error)
	RemoveAttendee(ctx context.Context, attendeeID string) (SessionView, error)
	SetRank(ctx context.Context, attendeeID string, rank int) (SessionView, error)
	MoveRank(ctx context.Context, attendeeID string, dir draw.Direction) (SessionView, error)
	SetLate(ctx context.Context, attendeeID string, gamesAlreadyPlayed int) (SessionView, error)
	ClearLate(ctx context.Context, attendeeID string) (SessionView, error)
	SetCourtCount(ctx context.Context, courts int) (SessionView, error)

	// GenerateNextRound draws the next round. With dryRun the round is
	// committed but not announced.
	GenerateNextRound(ctx context.Context, dryRun bool) (SessionView, draw.Diagnostics, error)

	// Reset clears matches, counters and the round number but keeps the roster.
	Reset(ctx context.Context) (SessionView, error)
}

// Saver is the background persistence the service hands committed sessions to.
type Saver interface {
	Notify(s draw.Session)
	Status(date string) session.SaveStatus
}
