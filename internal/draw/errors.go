package draw

import "errors"

var (
	// ErrInsufficientPlayers is returned when a round is requested for fewer than MinPlayers attendees.
	ErrInsufficientPlayers = errors.New("at least 4 attendees are needed to draw a round")
	// ErrEmptyGuestName is returned when a guest is added without a name.
	ErrEmptyGuestName = errors.New("guest name must not be empty")
)
