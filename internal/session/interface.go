package session

import (
	"context"

	"github.com/mauv0809/shuttle-draw/internal/draw"
)

// Store persists one draw session per day.
type Store interface {
	// LoadSession returns ErrSessionNotFound when nothing was saved for date.
	LoadSession(ctx context.Context, date string) (*draw.Session, error)
	SaveSession(ctx context.Context, s draw.Session) error
	DeleteSession(ctx context.Context, date string) error
}
