package processor

import (
	"context"

	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/ladder"
	"github.com/mauv0809/club-ladder/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	FetchPlayers(ctx context.Context) ([]ladder.Player, error)
	FetchChallenges(ctx context.Context) ([]ladder.Challenge, error)
	FetchMatches(ctx context.Context) ([]ladder.Match, error)
	UpdatePlayer(ctx context.Context, player ladder.Player) error
	UpdatePlayersBatch(ctx context.Context, players []ladder.Player) error
	CreateChallenge(ctx context.Context, challenge ladder.Challenge) error
	UpdateChallenge(ctx context.Context, challenge ladder.Challenge) error
	CreateMatch(ctx context.Context, match ladder.Match) error
	UpdatePlayerRanks(ctx context.Context, updates []club.RankUpdate) error
}

// Notifier defines the notification operations required by the processor.
// This is now an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
