package club

import (
	"context"
	"sync"

	"github.com/mauv0809/club-ladder/internal/ladder"
)

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	FetchPlayersFunc       func(ctx context.Context) ([]ladder.Player, error)
	FetchChallengesFunc    func(ctx context.Context) ([]ladder.Challenge, error)
	FetchMatchesFunc       func(ctx context.Context) ([]ladder.Match, error)
	UpdatePlayerFunc       func(ctx context.Context, player ladder.Player) error
	UpdatePlayersBatchFunc func(ctx context.Context, players []ladder.Player) error
	CreateChallengeFunc    func(ctx context.Context, challenge ladder.Challenge) error
	UpdateChallengeFunc    func(ctx context.Context, challenge ladder.Challenge) error
	CreateMatchFunc        func(ctx context.Context, match ladder.Match) error
	SeedPlayersFunc        func(ctx context.Context, players []ladder.Player) error
	UpdatePlayerRanksFunc  func(ctx context.Context, updates []RankUpdate) error

	// Call records
	UpdatePlayerCalls       []ladder.Player
	UpdatePlayersBatchCalls [][]ladder.Player
	CreateChallengeCalls    []ladder.Challenge
	UpdateChallengeCalls    []ladder.Challenge
	CreateMatchCalls        []ladder.Match
	SeedPlayersCalls        [][]ladder.Player
	UpdatePlayerRanksCalls  [][]RankUpdate
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

var _ ClubStore = (*MockStore)(nil)

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayerCalls = nil
	m.UpdatePlayersBatchCalls = nil
	m.CreateChallengeCalls = nil
	m.UpdateChallengeCalls = nil
	m.CreateMatchCalls = nil
	m.SeedPlayersCalls = nil
	m.UpdatePlayerRanksCalls = nil
}

func (m *MockStore) FetchPlayers(ctx context.Context) ([]ladder.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchPlayersFunc != nil {
		return m.FetchPlayersFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) FetchChallenges(ctx context.Context) ([]ladder.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchChallengesFunc != nil {
		return m.FetchChallengesFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) FetchMatches(ctx context.Context) ([]ladder.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchMatchesFunc != nil {
		return m.FetchMatchesFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) UpdatePlayer(ctx context.Context, player ladder.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayerCalls = append(m.UpdatePlayerCalls, player)
	if m.UpdatePlayerFunc != nil {
		return m.UpdatePlayerFunc(ctx, player)
	}
	return nil
}

func (m *MockStore) UpdatePlayersBatch(ctx context.Context, players []ladder.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayersBatchCalls = append(m.UpdatePlayersBatchCalls, players)
	if m.UpdatePlayersBatchFunc != nil {
		return m.UpdatePlayersBatchFunc(ctx, players)
	}
	return nil
}

func (m *MockStore) CreateChallenge(ctx context.Context, challenge ladder.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateChallengeCalls = append(m.CreateChallengeCalls, challenge)
	if m.CreateChallengeFunc != nil {
		return m.CreateChallengeFunc(ctx, challenge)
	}
	return nil
}

func (m *MockStore) UpdateChallenge(ctx context.Context, challenge ladder.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateChallengeCalls = append(m.UpdateChallengeCalls, challenge)
	if m.UpdateChallengeFunc != nil {
		return m.UpdateChallengeFunc(ctx, challenge)
	}
	return nil
}

func (m *MockStore) CreateMatch(ctx context.Context, match ladder.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, match)
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(ctx, match)
	}
	return nil
}

func (m *MockStore) SeedPlayers(ctx context.Context, players []ladder.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SeedPlayersCalls = append(m.SeedPlayersCalls, players)
	if m.SeedPlayersFunc != nil {
		return m.SeedPlayersFunc(ctx, players)
	}
	return nil
}

func (m *MockStore) UpdatePlayerRanks(ctx context.Context, updates []RankUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayerRanksCalls = append(m.UpdatePlayerRanksCalls, updates)
	if m.UpdatePlayerRanksFunc != nil {
		return m.UpdatePlayerRanksFunc(ctx, updates)
	}
	return nil
}
