package ladder

import "time"

// MaxLives is the upper bound on a player's lives.
const MaxLives = 5

type ChallengeStatus string

const (
	StatusPending   ChallengeStatus = "pending"
	StatusAccepted  ChallengeStatus = "accepted"
	StatusDeclined  ChallengeStatus = "declined"
	StatusCompleted ChallengeStatus = "completed"
)

// Active reports whether the challenge still blocks a new one between the same pair.
func (s ChallengeStatus) Active() bool {
	return s == StatusPending || s == StatusAccepted
}

const (
	ResponseAccepted = "accepted"
	ResponseDeclined = "declined"

	DeclineReasonTimeout = "timeout"
)

// Player is a ladder participant.
type Player struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Rank                  float64    `json:"rank"`
	Position              int        `json:"position"`
	MatchesWon            int        `json:"matchesWon"`
	MatchesLost           int        `json:"matchesLost"`
	CurrentStreak         int        `json:"currentStreak"`
	ChallengesDeclined    int        `json:"challengesDeclined"`
	Lives                 int        `json:"lives"`
	Password              string     `json:"-"`
	LastMatchDate         *time.Time `json:"lastMatchDate,omitempty"`
	LastChallengeResponse *string    `json:"lastChallengeResponse,omitempty"`
	PlaytomicID           *string    `json:"playtomicId,omitempty"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// Challenge is a request from a lower-ranked player to play a higher-ranked one.
type Challenge struct {
	ID               string          `json:"id"`
	ChallengerID     string          `json:"challengerId"`
	DefenderID       string          `json:"defenderId"`
	Status           ChallengeStatus `json:"status"`
	Date             time.Time       `json:"date"`
	ResponseDeadline time.Time       `json:"responseDeadline"`
	DeclineReason    *string         `json:"declineReason,omitempty"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Match is the immutable result of a completed challenge.
type Match struct {
	ID           string    `json:"id"`
	ChallengerID string    `json:"challengerId"`
	DefenderID   string    `json:"defenderId"`
	Date         time.Time `json:"date"`
	Completed    bool      `json:"completed"`
	WinnerID     string    `json:"winnerId"`
	Score        string    `json:"score"`
}

// State is a versioned snapshot of the whole ladder.
type State struct {
	Version    int64
	Players    map[string]Player
	Challenges map[string]Challenge
	// Matches are kept newest first.
	Matches []Match
}

type EventType string

const (
	EventChallengeIssued   EventType = "challenge_issued"
	EventChallengeAccepted EventType = "challenge_accepted"
	EventChallengeDeclined EventType = "challenge_declined"
	EventChallengeExpired  EventType = "challenge_expired"
	EventMatchCompleted    EventType = "match_completed"
)

// Event is a human-readable notification produced by a transition.
type Event struct {
	Type        EventType `json:"type"`
	Message     string    `json:"message"`
	ChallengeID string    `json:"challengeId"`
	At          time.Time `json:"timestamp"`
}

type CommandKind string

const (
	CmdUpdatePlayer       CommandKind = "update_player"
	CmdUpdatePlayersBatch CommandKind = "update_players_batch"
	CmdCreateChallenge    CommandKind = "create_challenge"
	CmdUpdateChallenge    CommandKind = "update_challenge"
	CmdCreateMatch        CommandKind = "create_match"
)

// Command is a persistence instruction emitted by the engine. Only the fields
// relevant to Kind are set.
type Command struct {
	Kind      CommandKind
	Players   []Player
	Challenge *Challenge
	Match     *Match
}

// Outcome is the result of a transition: the next state plus its side effects.
type Outcome struct {
	State    *State
	Events   []Event
	Commands []Command
}
