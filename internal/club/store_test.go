package club_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/database"
	"github.com/mauv0809/club-ladder/internal/ladder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (club.ClubStore, *sql.DB) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	return club.New(db), db
}

var seasonStart = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

func seedRoster(t *testing.T, store club.ClubStore) []ladder.Player {
	t.Helper()
	players := []ladder.Player{
		{ID: "p1", Name: "Marius", Rank: 4.0, Position: 1, Lives: 2, Password: "CAKE", UpdatedAt: seasonStart},
		{ID: "p2", Name: "Hank", Rank: 4.0, Position: 2, Lives: 2, Password: "BLUE", UpdatedAt: seasonStart},
		{ID: "p3", Name: "Simon", Rank: 4.0, Position: 3, Lives: 2, Password: "DUCK", UpdatedAt: seasonStart},
	}
	require.NoError(t, store.SeedPlayers(context.Background(), players))
	return players
}

func TestSeedAndFetchPlayers(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	want := seedRoster(t, store)

	players, err := store.FetchPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, players)

	// Reseeding starts a new season.
	require.NoError(t, store.SeedPlayers(ctx, want[:1]))
	players, err = store.FetchPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 1)
}

func TestUpdatePlayersBatchSwapsPositions(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	players := seedRoster(t, store)

	played := seasonStart.Add(72 * time.Hour)
	response := ladder.ResponseAccepted
	defender, challenger := players[1], players[2]
	defender.Position, challenger.Position = 3, 2
	defender.Lives = 3
	defender.MatchesLost = 1
	defender.CurrentStreak = -1
	defender.LastMatchDate = &played
	defender.LastChallengeResponse = &response
	challenger.MatchesWon = 1
	challenger.CurrentStreak = 1
	challenger.LastMatchDate = &played

	require.NoError(t, store.UpdatePlayersBatch(ctx, []ladder.Player{defender, challenger}))

	got, err := store.FetchPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "p3", got[1].ID)
	assert.Equal(t, "p2", got[2].ID)
	assert.Equal(t, defender, got[2])
	assert.Equal(t, challenger, got[1])
}

func TestChallengeLifecycle(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	seedRoster(t, store)

	c := ladder.Challenge{
		ID:               "c1",
		ChallengerID:     "p3",
		DefenderID:       "p2",
		Status:           ladder.StatusPending,
		Date:             seasonStart,
		ResponseDeadline: seasonStart.Add(24 * time.Hour),
		UpdatedAt:        seasonStart,
	}
	require.NoError(t, store.CreateChallenge(ctx, c))
	assert.Error(t, store.CreateChallenge(ctx, c), "duplicate ids are rejected")

	reason := ladder.DeclineReasonTimeout
	c.Status = ladder.StatusDeclined
	c.DeclineReason = &reason
	c.UpdatedAt = seasonStart.Add(25 * time.Hour)
	require.NoError(t, store.UpdateChallenge(ctx, c))

	challenges, err := store.FetchChallenges(ctx)
	require.NoError(t, err)
	require.Len(t, challenges, 1)
	assert.Equal(t, c, challenges[0])

	missing := c
	missing.ID = "nope"
	assert.ErrorIs(t, store.UpdateChallenge(ctx, missing), sql.ErrNoRows)
}

func TestCreateAndFetchMatches(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	seedRoster(t, store)

	older := ladder.Match{ID: "m1", ChallengerID: "p3", DefenderID: "p2", Date: seasonStart, Completed: true, WinnerID: "p2", Score: "6-4, 7-5"}
	newer := ladder.Match{ID: "m2", ChallengerID: "p2", DefenderID: "p1", Date: seasonStart.Add(time.Hour), Completed: true, WinnerID: "p2", Score: "6-3, 6-3"}
	require.NoError(t, store.CreateMatch(ctx, older))
	require.NoError(t, store.CreateMatch(ctx, newer))

	matches, err := store.FetchMatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ladder.Match{newer, older}, matches)
}

func TestUpdatePlayerRanks(t *testing.T) {
	store, _ := setupTestDB(t)
	ctx := context.Background()
	players := seedRoster(t, store)

	playtomicID := "pt-42"
	later := seasonStart.Add(time.Hour)
	require.NoError(t, store.UpdatePlayerRanks(ctx, []club.RankUpdate{
		{PlayerID: "p1", Rank: 4.25, PlaytomicID: &playtomicID, UpdatedAt: later},
		{PlayerID: "p2", Rank: 3.9, UpdatedAt: later},
	}))

	got, err := store.FetchPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4.25, got[0].Rank)
	require.NotNil(t, got[0].PlaytomicID)
	assert.Equal(t, "pt-42", *got[0].PlaytomicID)
	assert.Equal(t, 3.9, got[1].Rank)
	assert.Nil(t, got[1].PlaytomicID)
	assert.Equal(t, players[2], got[2])
}
