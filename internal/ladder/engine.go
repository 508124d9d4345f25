package ladder

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Engine applies the ladder rules. It never mutates the state it is given:
// every transition returns a fresh State together with the events and
// persistence commands it produced.
type Engine struct {
	rules Rules
	newID func() string
}

// NewEngine creates an engine. A nil ids function defaults to random UUIDs.
func NewEngine(rules Rules, ids func() string) *Engine {
	if ids == nil {
		ids = uuid.NewString
	}
	return &Engine{rules: rules, newID: ids}
}

func (e *Engine) Rules() Rules {
	return e.rules
}

// IssueChallenge creates a pending challenge from challengerID to defenderID and
// spends one of the challenger's lives.
func (e *Engine) IssueChallenge(s *State, challengerID, defenderID string, now time.Time) (Outcome, error) {
	if challengerID == defenderID {
		return Outcome{}, ErrSelfChallenge
	}
	challenger, ok := s.Players[challengerID]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: challenger %s", ErrPlayerNotFound, challengerID)
	}
	defender, ok := s.Players[defenderID]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: defender %s", ErrPlayerNotFound, defenderID)
	}
	if challenger.Lives <= 0 {
		return Outcome{}, ErrNoLives
	}
	if !e.rules.InRange(challenger.Position, defender.Position) {
		return Outcome{}, fmt.Errorf("%w: #%d cannot challenge #%d", ErrOutOfRange, challenger.Position, defender.Position)
	}
	if s.hasActiveChallenge(challengerID, defenderID) {
		return Outcome{}, ErrActiveChallengeExists
	}
	if s.hasPendingChallenge(defenderID) {
		return Outcome{}, fmt.Errorf("%w: %s", ErrDefenderBusy, defender.Name)
	}

	next := s.Clone()
	next.Version++

	challenger.Lives--
	challenger.UpdatedAt = now
	next.Players[challenger.ID] = challenger

	challenge := Challenge{
		ID:               e.newID(),
		ChallengerID:     challengerID,
		DefenderID:       defenderID,
		Status:           StatusPending,
		Date:             now,
		ResponseDeadline: now.Add(e.rules.ResponseWindow),
		UpdatedAt:        now,
	}
	next.Challenges[challenge.ID] = challenge

	return Outcome{
		State: next,
		Events: []Event{{
			Type:        EventChallengeIssued,
			Message:     fmt.Sprintf("%s has challenged %s for position #%d!", challenger.Name, defender.Name, defender.Position),
			ChallengeID: challenge.ID,
			At:          now,
		}},
		Commands: []Command{
			{Kind: CmdUpdatePlayer, Players: []Player{challenger}},
			{Kind: CmdCreateChallenge, Challenge: &challenge},
		},
	}, nil
}

// RespondToChallenge records the defender's answer to a pending challenge.
func (e *Engine) RespondToChallenge(s *State, challengeID string, accept bool, now time.Time) (Outcome, error) {
	challenge, ok := s.Challenges[challengeID]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrChallengeNotFound, challengeID)
	}
	if challenge.Status != StatusPending {
		return Outcome{}, fmt.Errorf("%w: cannot respond to a %s challenge", ErrInvalidTransition, challenge.Status)
	}
	challenger, defender, err := participants(s, challenge)
	if err != nil {
		return Outcome{}, err
	}

	next := s.Clone()
	next.Version++

	response := ResponseDeclined
	ev := Event{ChallengeID: challengeID, At: now}
	if accept {
		response = ResponseAccepted
		challenge.Status = StatusAccepted
		if e.rules.AcceptanceGrantsLife {
			defender.Lives = min(MaxLives, defender.Lives+1)
		}
		ev.Type = EventChallengeAccepted
		ev.Message = fmt.Sprintf("%s accepted %s's challenge!", defender.Name, challenger.Name)
	} else {
		challenge.Status = StatusDeclined
		defender.ChallengesDeclined++
		ev.Type = EventChallengeDeclined
		ev.Message = fmt.Sprintf("%s declined %s's challenge!", defender.Name, challenger.Name)
	}
	defender.LastChallengeResponse = &response
	defender.UpdatedAt = now
	challenge.UpdatedAt = now
	next.Players[defender.ID] = defender
	next.Challenges[challenge.ID] = challenge

	return Outcome{
		State:  next,
		Events: []Event{ev},
		Commands: []Command{
			{Kind: CmdUpdatePlayer, Players: []Player{defender}},
			{Kind: CmdUpdateChallenge, Challenge: &challenge},
		},
	}, nil
}

// CompleteMatch resolves an accepted challenge into a match result.
func (e *Engine) CompleteMatch(s *State, challengeID, winnerID, score string, now time.Time) (Outcome, error) {
	challenge, ok := s.Challenges[challengeID]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrChallengeNotFound, challengeID)
	}
	if challenge.Status != StatusAccepted {
		return Outcome{}, fmt.Errorf("%w: cannot complete a %s challenge", ErrInvalidTransition, challenge.Status)
	}
	score = strings.TrimSpace(score)
	if score == "" {
		return Outcome{}, ErrEmptyScore
	}
	if winnerID != challenge.ChallengerID && winnerID != challenge.DefenderID {
		return Outcome{}, fmt.Errorf("%w: %s", ErrInvalidWinner, winnerID)
	}
	challenger, defender, err := participants(s, challenge)
	if err != nil {
		return Outcome{}, err
	}

	next := s.Clone()
	next.Version++

	match := Match{
		ID:           e.newID(),
		ChallengerID: challenge.ChallengerID,
		DefenderID:   challenge.DefenderID,
		Date:         now,
		Completed:    true,
		WinnerID:     winnerID,
		Score:        score,
	}

	// The defender gains a life whatever the result.
	defender.Lives = min(MaxLives, defender.Lives+1)
	defenderPosition := defender.Position

	var msg string
	if winnerID == defender.ID {
		defender.MatchesWon++
		challenger.MatchesLost++
		defender.CurrentStreak = extendWin(defender.CurrentStreak)
		challenger.CurrentStreak = extendLoss(challenger.CurrentStreak)
		msg = fmt.Sprintf("%s successfully defended position #%d against %s! %s gained 1 life (now has %d).",
			defender.Name, defenderPosition, challenger.Name, defender.Name, defender.Lives)
	} else {
		challenger.Lives = max(1, challenger.Lives)
		challenger.MatchesWon++
		defender.MatchesLost++
		challenger.CurrentStreak = extendWin(challenger.CurrentStreak)
		defender.CurrentStreak = extendLoss(defender.CurrentStreak)
		// Positions can move between issue and result; a challenger who has
		// since climbed above the defender keeps their place.
		if challenger.Position > defender.Position {
			challenger.Position, defender.Position = defender.Position, challenger.Position
			msg = fmt.Sprintf("%s defeated %s to take position #%d! %s gained 1 life (now has %d).",
				challenger.Name, defender.Name, defenderPosition, defender.Name, defender.Lives)
		} else {
			msg = fmt.Sprintf("%s defeated %s and holds position #%d! %s gained 1 life (now has %d).",
				challenger.Name, defender.Name, challenger.Position, defender.Name, defender.Lives)
		}
	}

	matchDate := now
	defender.LastMatchDate = &matchDate
	challenger.LastMatchDate = &matchDate
	defender.UpdatedAt = now
	challenger.UpdatedAt = now
	next.Players[defender.ID] = defender
	next.Players[challenger.ID] = challenger

	if err := next.ValidatePositions(); err != nil {
		return Outcome{}, err
	}

	challenge.Status = StatusCompleted
	challenge.UpdatedAt = now
	next.Challenges[challenge.ID] = challenge
	next.Matches = append([]Match{match}, next.Matches...)

	return Outcome{
		State: next,
		Events: []Event{{
			Type:        EventMatchCompleted,
			Message:     msg,
			ChallengeID: challenge.ID,
			At:          now,
		}},
		Commands: []Command{
			{Kind: CmdCreateMatch, Match: &match},
			{Kind: CmdUpdatePlayersBatch, Players: []Player{defender, challenger}},
			{Kind: CmdUpdateChallenge, Challenge: &challenge},
		},
	}, nil
}

// ExpireChallenges declines every pending challenge whose response deadline has
// passed. When nothing expires the returned outcome carries s unchanged.
func (e *Engine) ExpireChallenges(s *State, now time.Time) Outcome {
	var expired []Challenge
	for _, c := range s.Challenges {
		if c.Status == StatusPending && now.After(c.ResponseDeadline) {
			expired = append(expired, c)
		}
	}
	if len(expired) == 0 {
		return Outcome{State: s}
	}
	sort.Slice(expired, func(i, j int) bool {
		if expired[i].ResponseDeadline.Equal(expired[j].ResponseDeadline) {
			return expired[i].ID < expired[j].ID
		}
		return expired[i].ResponseDeadline.Before(expired[j].ResponseDeadline)
	})

	next := s.Clone()
	next.Version++

	out := Outcome{State: next}
	for _, c := range expired {
		defender, defOK := next.Players[c.DefenderID]
		challenger, chOK := next.Players[c.ChallengerID]

		reason := DeclineReasonTimeout
		c.Status = StatusDeclined
		c.DeclineReason = &reason
		c.UpdatedAt = now
		next.Challenges[c.ID] = c

		if defOK {
			defender.ChallengesDeclined++
			defender.UpdatedAt = now
			next.Players[defender.ID] = defender
			out.Commands = append(out.Commands, Command{Kind: CmdUpdatePlayer, Players: []Player{defender}})
		}
		out.Commands = append(out.Commands, Command{Kind: CmdUpdateChallenge, Challenge: &c})

		defenderName, challengerName := c.DefenderID, c.ChallengerID
		if defOK {
			defenderName = defender.Name
		}
		if chOK {
			challengerName = challenger.Name
		}
		out.Events = append(out.Events, Event{
			Type:        EventChallengeExpired,
			Message:     fmt.Sprintf("%s did not respond to %s's challenge in time!", defenderName, challengerName),
			ChallengeID: c.ID,
			At:          now,
		})
	}
	return out
}

func participants(s *State, c Challenge) (challenger, defender Player, err error) {
	challenger, ok := s.Players[c.ChallengerID]
	if !ok {
		return Player{}, Player{}, fmt.Errorf("%w: challenger %s", ErrPlayerNotFound, c.ChallengerID)
	}
	defender, ok = s.Players[c.DefenderID]
	if !ok {
		return Player{}, Player{}, fmt.Errorf("%w: defender %s", ErrPlayerNotFound, c.DefenderID)
	}
	return challenger, defender, nil
}

func extendWin(streak int) int {
	if streak < 0 {
		return 1
	}
	return streak + 1
}

func extendLoss(streak int) int {
	if streak > 0 {
		return -1
	}
	return streak - 1
}
