package ladder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesInRange(t *testing.T) {
	defender := DefaultRules()
	challenger := DefaultRules()
	challenger.RangeBasis = RangeBasisChallenger

	tests := []struct {
		name          string
		challengerPos int
		defenderPos   int
		byDefender    bool
		byChallenger  bool
	}{
		{"top tier two up", 5, 3, true, true},
		{"top tier three up", 4, 1, false, false},
		{"boundary six to three", 6, 3, false, true},
		{"boundary seven to five", 7, 5, true, true},
		{"boundary eight to five", 8, 5, false, true},
		{"lower tier three up", 9, 6, true, true},
		{"lower tier four up", 10, 6, false, false},
		{"same position", 4, 4, false, false},
		{"downwards", 3, 4, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.byDefender, defender.InRange(tt.challengerPos, tt.defenderPos))
			assert.Equal(t, tt.byChallenger, challenger.InRange(tt.challengerPos, tt.defenderPos))
		})
	}
}

func TestRulesValidate(t *testing.T) {
	assert.NoError(t, DefaultRules().Validate())

	r := DefaultRules()
	r.RangeBasis = "sideways"
	assert.Error(t, r.Validate())

	r = DefaultRules()
	r.ResponseWindow = 0
	assert.Error(t, r.Validate())

	r = DefaultRules()
	r.Span = 0
	assert.Error(t, r.Validate())
}

func TestStateViews(t *testing.T) {
	s := seedState(6)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.Challenges["a"] = Challenge{ID: "a", ChallengerID: "p5", DefenderID: "p3", Status: StatusPending, Date: now}
	s.Challenges["b"] = Challenge{ID: "b", ChallengerID: "p6", DefenderID: "p4", Status: StatusAccepted, Date: now.Add(-time.Hour)}
	s.Challenges["c"] = Challenge{ID: "c", ChallengerID: "p2", DefenderID: "p1", Status: StatusDeclined, Date: now}
	s.Challenges["d"] = Challenge{ID: "d", ChallengerID: "p3", DefenderID: "p2", Status: StatusCompleted, Date: now}

	t.Run("sorted players", func(t *testing.T) {
		players := s.SortedPlayers()
		require.Len(t, players, 6)
		for i, p := range players {
			assert.Equal(t, i+1, p.Position)
		}
	})

	t.Run("active challenges", func(t *testing.T) {
		active := s.ActiveChallenges()
		require.Len(t, active, 2)
		assert.Equal(t, "b", active[0].ID)
		assert.Equal(t, "a", active[1].ID)
	})

	t.Run("challengeable players", func(t *testing.T) {
		players, err := s.ChallengeablePlayers("p5", DefaultRules())
		require.NoError(t, err)
		// p3 is excluded by the active challenge.
		require.Len(t, players, 1)
		assert.Equal(t, "p4", players[0].ID)

		players, err = s.ChallengeablePlayers("p1", DefaultRules())
		require.NoError(t, err)
		assert.Empty(t, players)

		_, err = s.ChallengeablePlayers("ghost", DefaultRules())
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})

	t.Run("players with a pending challenge are not challengeable", func(t *testing.T) {
		busy := seedState(6)
		busy.Challenges["e"] = Challenge{ID: "e", ChallengerID: "p4", DefenderID: "p2", Status: StatusPending, Date: now}

		players, err := busy.ChallengeablePlayers("p3", DefaultRules())
		require.NoError(t, err)
		require.Len(t, players, 1)
		assert.Equal(t, "p1", players[0].ID)

		// p4 is tied up as the challenger.
		players, err = busy.ChallengeablePlayers("p5", DefaultRules())
		require.NoError(t, err)
		require.Len(t, players, 1)
		assert.Equal(t, "p3", players[0].ID)
	})

	t.Run("recent matches", func(t *testing.T) {
		ms := NewState(nil, nil, []Match{
			{ID: "old", Date: now.Add(-48 * time.Hour)},
			{ID: "new", Date: now},
			{ID: "mid", Date: now.Add(-24 * time.Hour)},
		})
		recent := ms.RecentMatches(2)
		require.Len(t, recent, 2)
		assert.Equal(t, "new", recent[0].ID)
		assert.Equal(t, "mid", recent[1].ID)
		assert.Len(t, ms.RecentMatches(10), 3)
		assert.Len(t, ms.RecentMatches(0), 3)
	})
}

func TestValidatePositions(t *testing.T) {
	s := seedState(4)
	assert.NoError(t, s.ValidatePositions())

	p := s.Players["p4"]
	p.Position = 2
	s.Players["p4"] = p
	assert.ErrorIs(t, s.ValidatePositions(), ErrInvalidPositions)

	p.Position = 7
	s.Players["p4"] = p
	assert.ErrorIs(t, s.ValidatePositions(), ErrInvalidPositions)
}

func TestCloneIsIndependent(t *testing.T) {
	s := seedState(3)
	c := s.Clone()
	p := c.Players["p1"]
	p.Lives = 0
	c.Players["p1"] = p
	c.Matches = append(c.Matches, Match{ID: "m"})

	assert.Equal(t, 2, s.Players["p1"].Lives)
	assert.Empty(t, s.Matches)
}
