package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	challengesIssued    int
	challengeResponses  map[string]int
	challengesExpired   int
	matchesCompleted    int
	persistenceFailures map[string]int
	authFailures        map[string]int
	sweepDurations      []float64
	notifSent           int
	notifFailed         int
	startupTime         float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		challengeResponses:  make(map[string]int),
		persistenceFailures: make(map[string]int),
		authFailures:        make(map[string]int),
		sweepDurations:      make([]float64, 0),
	}
}

func (m *Mock) IncChallengesIssued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challengesIssued++
}

func (m *Mock) IncChallengeResponses(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challengeResponses[outcome]++
}

func (m *Mock) IncChallengesExpired(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challengesExpired += n
}

func (m *Mock) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesCompleted++
}

func (m *Mock) IncPersistenceFailures(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistenceFailures[operation]++
}

func (m *Mock) IncAuthFailures(purpose string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authFailures[purpose]++
}

func (m *Mock) ObserveSweepDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepDurations = append(m.sweepDurations, duration)
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ChallengesIssued returns the number of times IncChallengesIssued was called.
func (m *Mock) ChallengesIssued() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.challengesIssued
}

// ChallengeResponses returns the recorded responses for outcome.
func (m *Mock) ChallengeResponses(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.challengeResponses[outcome]
}

func (m *Mock) ChallengesExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.challengesExpired
}

func (m *Mock) MatchesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesCompleted
}

// PersistenceFailures returns the total failures across all operations.
func (m *Mock) PersistenceFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.persistenceFailures {
		total += n
	}
	return total
}

func (m *Mock) AuthFailures(purpose string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authFailures[purpose]
}

func (m *Mock) SweepDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.sweepDurations...)
}

func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}

func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
