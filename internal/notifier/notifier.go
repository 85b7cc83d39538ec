package notifier

import (
	"github.com/mauv0809/shuttle-draw/internal/draw"
)

// Notifier defines a high-level interface for sending notifications about draw events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For committed rounds
	SendRoundNotification(date string, round int, matches []draw.GeneratedMatch, dryRun bool) error

	// For formatting responses for slash commands
	FormatSessionResponse(s draw.Session) (any, error)
	FormatRoundResponse(round int, matches []draw.GeneratedMatch, skipped []draw.CourtSkip) (any, error)
	FormatErrorResponse(text string) (any, error)
}
