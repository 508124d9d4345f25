package club

import (
	"context"

	"github.com/mauv0809/club-ladder/internal/ladder"
)

// ClubStore defines the interface for interacting with the ladder's data.
// Writes are last-write-wins upserts keyed by record id.
type ClubStore interface {
	FetchPlayers(ctx context.Context) ([]ladder.Player, error)
	FetchChallenges(ctx context.Context) ([]ladder.Challenge, error)
	FetchMatches(ctx context.Context) ([]ladder.Match, error)
	UpdatePlayer(ctx context.Context, player ladder.Player) error
	UpdatePlayersBatch(ctx context.Context, players []ladder.Player) error
	CreateChallenge(ctx context.Context, challenge ladder.Challenge) error
	UpdateChallenge(ctx context.Context, challenge ladder.Challenge) error
	CreateMatch(ctx context.Context, match ladder.Match) error
	SeedPlayers(ctx context.Context, players []ladder.Player) error
	UpdatePlayerRanks(ctx context.Context, updates []RankUpdate) error
}
