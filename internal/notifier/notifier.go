package notifier

import "github.com/mauv0809/club-ladder/internal/ladder"

// Notifier defines a high-level interface for sending notifications about ladder events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For challenge and match events
	SendLadderEvent(event ladder.Event, dryRun bool) error

	// For formatting responses for slash commands
	FormatStandingsResponse(players []ladder.Player) (any, error)
	FormatPlayerResponse(player ladder.Player) (any, error)
	FormatPlayerNotFoundResponse(query string) (any, error)
}
