package notifier

import (
	"sync"

	"github.com/mauv0809/club-ladder/internal/ladder"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendLadderEventCalls []ladder.Event

	// Spies
	SendLadderEventFunc              func(event ladder.Event, dryRun bool) error
	FormatStandingsResponseFunc      func(players []ladder.Player) (any, error)
	FormatPlayerResponseFunc         func(player ladder.Player) (any, error)
	FormatPlayerNotFoundResponseFunc func(query string) (any, error)

	// Call records for format functions
	LastStandingsResponse      any
	LastPlayerResponse         any
	LastPlayerNotFoundResponse any
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendLadderEvent(event ladder.Event, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLadderEventCalls = append(m.SendLadderEventCalls, event)
	if m.SendLadderEventFunc != nil {
		return m.SendLadderEventFunc(event, dryRun)
	}
	return nil
}

func (m *Mock) FormatStandingsResponse(players []ladder.Player) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatStandingsResponseFunc != nil {
		resp, err := m.FormatStandingsResponseFunc(players)
		m.LastStandingsResponse = resp
		return resp, err
	}
	m.LastStandingsResponse = players
	return players, nil
}

func (m *Mock) FormatPlayerResponse(player ladder.Player) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerResponseFunc != nil {
		resp, err := m.FormatPlayerResponseFunc(player)
		m.LastPlayerResponse = resp
		return resp, err
	}
	m.LastPlayerResponse = player
	return player, nil
}

func (m *Mock) FormatPlayerNotFoundResponse(query string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatPlayerNotFoundResponseFunc != nil {
		resp, err := m.FormatPlayerNotFoundResponseFunc(query)
		m.LastPlayerNotFoundResponse = resp
		return resp, err
	}
	m.LastPlayerNotFoundResponse = query
	return query, nil
}

// Events returns a copy of the events sent so far.
func (m *Mock) Events() []ladder.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ladder.Event(nil), m.SendLadderEventCalls...)
}
