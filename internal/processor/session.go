package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/club-ladder/internal/auth"
	"github.com/mauv0809/club-ladder/internal/ladder"
	"github.com/mauv0809/club-ladder/internal/session"
)

// Session returns the session with the given id, or a new one when the id is
// empty or unknown.
func (p *Processor) Session(ctx context.Context, id string) (*session.Session, error) {
	if id != "" {
		s, err := p.sessions.Get(ctx, id)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, session.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}
	s := &session.Session{ID: uuid.NewString()}
	if err := p.saveSession(ctx, s); err != nil {
		return nil, err
	}
	log.Debug("Created session", "session", s.ID)
	return s, nil
}

func (p *Processor) saveSession(ctx context.Context, s *session.Session) error {
	s.UpdatedAt = p.clock.Now()
	if err := p.sessions.Save(ctx, s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (p *Processor) queue(ctx context.Context, sessionID string, action auth.PendingAction) (*session.Session, error) {
	s, err := p.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.Gate.Begin(action)
	if err := p.saveSession(ctx, s); err != nil {
		return nil, err
	}
	log.Debug("Queued action for authentication", "session", s.ID, "purpose", action.Purpose)
	return s, nil
}

// Login queues a login as playerID. It completes once the player's secret is
// supplied to Authenticate.
func (p *Processor) Login(ctx context.Context, sessionID, playerID string) (*session.Session, error) {
	if _, err := p.Player(playerID); err != nil {
		return nil, err
	}
	return p.queue(ctx, sessionID, auth.PendingAction{Purpose: auth.PurposeLogin, PlayerID: playerID})
}

// InitiateChallenge issues a challenge from the session's logged in player.
// The created challenge is returned even when persisting it failed.
func (p *Processor) InitiateChallenge(ctx context.Context, sessionID, defenderID string) (ladder.Challenge, error) {
	s, err := p.Session(ctx, sessionID)
	if err != nil {
		return ladder.Challenge{}, err
	}
	if s.Gate.CurrentUserID == "" {
		return ladder.Challenge{}, ladder.ErrNotLoggedIn
	}

	p.mu.Lock()
	defer p.unlock()

	out, err := p.engine.IssueChallenge(p.state, s.Gate.CurrentUserID, defenderID, p.clock.Now())
	if err != nil {
		return ladder.Challenge{}, err
	}
	p.metrics.IncChallengesIssued()
	log.Info("Challenge issued", "challenger", s.Gate.CurrentUserID, "defender", defenderID)

	var created ladder.Challenge
	for _, cmd := range out.Commands {
		if cmd.Kind == ladder.CmdCreateChallenge {
			created = *cmd.Challenge
		}
	}
	return created, p.apply(ctx, "issue_challenge", out)
}

// RespondToChallenge queues the defender's answer to a pending challenge.
// Nothing changes until the defender's secret is supplied.
func (p *Processor) RespondToChallenge(ctx context.Context, sessionID, challengeID string, accept bool) (*session.Session, error) {
	p.mu.RLock()
	// The reducer is pure, so a trial run validates without side effects.
	_, err := p.engine.RespondToChallenge(p.state, challengeID, accept, p.clock.Now())
	defenderID := p.state.Challenges[challengeID].DefenderID
	p.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return p.queue(ctx, sessionID, auth.PendingAction{
		Purpose:     auth.PurposeRespond,
		PlayerID:    defenderID,
		ChallengeID: challengeID,
		Accept:      accept,
	})
}

// CompleteMatch queues a result for an accepted challenge. It is recorded once
// the admin secret is supplied.
func (p *Processor) CompleteMatch(ctx context.Context, sessionID, challengeID, winnerID, score string) (*session.Session, error) {
	p.mu.RLock()
	_, err := p.engine.CompleteMatch(p.state, challengeID, winnerID, score, p.clock.Now())
	p.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return p.queue(ctx, sessionID, auth.PendingAction{
		Purpose:     auth.PurposeAdmin,
		ChallengeID: challengeID,
		WinnerID:    winnerID,
		Score:       score,
	})
}

// Authenticate checks secret against the session's pending action and runs the
// action on success. A failed attempt leaves the action pending.
func (p *Processor) Authenticate(ctx context.Context, sessionID, secret string) (AuthResult, error) {
	s, err := p.Session(ctx, sessionID)
	if err != nil {
		return AuthResult{}, err
	}
	result := AuthResult{Session: s}
	if s.Gate.Pending == nil {
		return result, auth.ErrNoPendingAction
	}
	result.Purpose = s.Gate.Pending.Purpose

	expected, err := p.expectedSecret(*s.Gate.Pending)
	if err != nil {
		// The subject is gone; retrying cannot succeed.
		s.Gate.Cancel()
		if serr := p.saveSession(ctx, s); serr != nil {
			log.Error("Failed to clear stale pending action", "error", serr, "session", s.ID)
		}
		return result, err
	}

	action, err := s.Gate.Verify(secret, expected)
	if err != nil {
		p.metrics.IncAuthFailures(string(result.Purpose))
		log.Warn("Authentication failed", "session", s.ID, "purpose", result.Purpose)
		return result, err
	}
	if action.Purpose == auth.PurposeLogin {
		s.Gate.CurrentUserID = action.PlayerID
	}
	if err := p.saveSession(ctx, s); err != nil {
		return result, err
	}

	switch action.Purpose {
	case auth.PurposeLogin:
		log.Info("Player logged in", "session", s.ID, "playerID", action.PlayerID)
	case auth.PurposeRespond:
		c, err := p.respond(ctx, action.ChallengeID, action.Accept)
		if c.ID != "" {
			result.Challenge = &c
		}
		return result, err
	case auth.PurposeAdmin:
		m, err := p.complete(ctx, action.ChallengeID, action.WinnerID, action.Score)
		if m.ID != "" {
			result.Match = &m
		}
		return result, err
	}
	return result, nil
}

func (p *Processor) expectedSecret(action auth.PendingAction) (string, error) {
	if action.Purpose == auth.PurposeAdmin {
		return p.adminSecret, nil
	}
	player, err := p.Player(action.PlayerID)
	if err != nil {
		return "", err
	}
	return player.Password, nil
}

func (p *Processor) respond(ctx context.Context, challengeID string, accept bool) (ladder.Challenge, error) {
	p.mu.Lock()
	defer p.unlock()

	out, err := p.engine.RespondToChallenge(p.state, challengeID, accept, p.clock.Now())
	if err != nil {
		return ladder.Challenge{}, err
	}
	response := ladder.ResponseDeclined
	if accept {
		response = ladder.ResponseAccepted
	}
	p.metrics.IncChallengeResponses(response)
	log.Info("Challenge answered", "challengeID", challengeID, "response", response)
	return out.State.Challenges[challengeID], p.apply(ctx, "respond_challenge", out)
}

func (p *Processor) complete(ctx context.Context, challengeID, winnerID, score string) (ladder.Match, error) {
	p.mu.Lock()
	defer p.unlock()

	out, err := p.engine.CompleteMatch(p.state, challengeID, winnerID, score, p.clock.Now())
	if err != nil {
		return ladder.Match{}, err
	}
	var match ladder.Match
	for _, cmd := range out.Commands {
		if cmd.Kind == ladder.CmdCreateMatch {
			match = *cmd.Match
		}
	}
	p.metrics.IncMatchesCompleted()
	log.Info("Match completed", "challengeID", challengeID, "matchID", match.ID, "winnerID", winnerID, "score", match.Score)
	return match, p.apply(ctx, "complete_match", out)
}

// Cancel drops the session's pending action.
func (p *Processor) Cancel(ctx context.Context, sessionID string) (*session.Session, error) {
	s, err := p.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.Gate.Cancel()
	return s, p.saveSession(ctx, s)
}

func (p *Processor) Logout(ctx context.Context, sessionID string) (*session.Session, error) {
	s, err := p.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.Gate.Logout()
	return s, p.saveSession(ctx, s)
}
