package playtomic

import "sync"

// MockClient is a mock implementation of the PlaytomicClient interface for testing.
// It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Spies for method calls
	GetMatchesFunc      func(params *SearchMatchesParams) ([]MatchSummary, error)
	GetMatchPlayersFunc func(matchID string) ([]Player, error)

	// Call records
	GetMatchesCalls      []*SearchMatchesParams
	GetMatchPlayersCalls []string
}

// NewMockClient creates a new mock instance.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var _ PlaytomicClient = (*MockClient)(nil)

// Reset clears all call records.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMatchesCalls = nil
	m.GetMatchPlayersCalls = nil
}

func (m *MockClient) GetMatches(params *SearchMatchesParams) ([]MatchSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMatchesCalls = append(m.GetMatchesCalls, params)
	if m.GetMatchesFunc != nil {
		return m.GetMatchesFunc(params)
	}
	return []MatchSummary{}, nil
}

func (m *MockClient) GetMatchPlayers(matchID string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetMatchPlayersCalls = append(m.GetMatchPlayersCalls, matchID)
	if m.GetMatchPlayersFunc != nil {
		return m.GetMatchPlayersFunc(matchID)
	}
	return nil, nil
}
