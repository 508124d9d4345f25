package ladder

import (
	"fmt"
	"slices"
	"sort"
)

func NewState(players []Player, challenges []Challenge, matches []Match) *State {
	s := &State{
		Players:    make(map[string]Player, len(players)),
		Challenges: make(map[string]Challenge, len(challenges)),
		Matches:    slices.Clone(matches),
	}
	for _, p := range players {
		s.Players[p.ID] = p
	}
	for _, c := range challenges {
		s.Challenges[c.ID] = c
	}
	sort.SliceStable(s.Matches, func(i, j int) bool {
		return s.Matches[i].Date.After(s.Matches[j].Date)
	})
	return s
}

// Clone returns a copy that shares no maps or slices with s.
func (s *State) Clone() *State {
	out := &State{
		Version:    s.Version,
		Players:    make(map[string]Player, len(s.Players)),
		Challenges: make(map[string]Challenge, len(s.Challenges)),
		Matches:    slices.Clone(s.Matches),
	}
	for id, p := range s.Players {
		out.Players[id] = p
	}
	for id, c := range s.Challenges {
		out.Challenges[id] = c
	}
	return out
}

// SortedPlayers returns the ladder ordered by position ascending.
func (s *State) SortedPlayers() []Player {
	players := make([]Player, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].Position < players[j].Position
	})
	return players
}

// ActiveChallenges returns pending and accepted challenges, oldest first.
func (s *State) ActiveChallenges() []Challenge {
	var active []Challenge
	for _, c := range s.Challenges {
		if c.Status.Active() {
			active = append(active, c)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].Date.Equal(active[j].Date) {
			return active[i].ID < active[j].ID
		}
		return active[i].Date.Before(active[j].Date)
	})
	return active
}

// RecentMatches returns at most limit matches, newest first.
func (s *State) RecentMatches(limit int) []Match {
	if limit <= 0 || limit > len(s.Matches) {
		limit = len(s.Matches)
	}
	return slices.Clone(s.Matches[:limit])
}

// ChallengeablePlayers lists the players playerID may challenge right now,
// ordered by position. Defenders playerID already has an active challenge
// against are excluded, as is anyone with a pending challenge in either role.
func (s *State) ChallengeablePlayers(playerID string, rules Rules) ([]Player, error) {
	challenger, ok := s.Players[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	var out []Player
	for _, p := range s.SortedPlayers() {
		if p.ID == playerID || !rules.InRange(challenger.Position, p.Position) {
			continue
		}
		if s.hasActiveChallenge(playerID, p.ID) || s.hasPendingChallenge(p.ID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// hasActiveChallenge checks the ordered pair challenger -> defender.
func (s *State) hasActiveChallenge(challengerID, defenderID string) bool {
	for _, c := range s.Challenges {
		if c.Status.Active() && c.ChallengerID == challengerID && c.DefenderID == defenderID {
			return true
		}
	}
	return false
}

// hasPendingChallenge reports whether playerID is the challenger or defender of
// a challenge still waiting for an answer.
func (s *State) hasPendingChallenge(playerID string) bool {
	for _, c := range s.Challenges {
		if c.Status == StatusPending && (c.ChallengerID == playerID || c.DefenderID == playerID) {
			return true
		}
	}
	return false
}

// ValidatePositions checks that positions form the permutation 1..N.
func (s *State) ValidatePositions() error {
	seen := make(map[int]bool, len(s.Players))
	for _, p := range s.Players {
		if p.Position < 1 || p.Position > len(s.Players) || seen[p.Position] {
			return fmt.Errorf("%w: player %s at position %d", ErrInvalidPositions, p.ID, p.Position)
		}
		seen[p.Position] = true
	}
	return nil
}
