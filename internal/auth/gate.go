package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

// The gate guards against accidental actions on a shared club device. It is
// not a security boundary: secrets are short plaintext PINs.

var (
	ErrAuthFailed      = errors.New("authentication failed")
	ErrNoPendingAction = errors.New("no action awaiting authentication")
)

type Purpose string

const (
	PurposeLogin   Purpose = "login"
	PurposeRespond Purpose = "respond"
	PurposeAdmin   Purpose = "admin"
)

// PendingAction is an operation queued until the matching secret is supplied.
type PendingAction struct {
	Purpose     Purpose `json:"purpose"`
	PlayerID    string  `json:"playerId,omitempty"`
	ChallengeID string  `json:"challengeId,omitempty"`
	Accept      bool    `json:"accept,omitempty"`
	WinnerID    string  `json:"winnerId,omitempty"`
	Score       string  `json:"score,omitempty"`
}

// Gate is the per-session authentication state.
type Gate struct {
	CurrentUserID string         `json:"currentUserId,omitempty"`
	Pending       *PendingAction `json:"pending,omitempty"`
}

// Begin queues an action, replacing any previously pending one.
func (g *Gate) Begin(action PendingAction) {
	a := action
	g.Pending = &a
}

// Verify checks secret against expected for the pending action. On success
// the action is removed from the gate and returned; on failure the gate is
// left untouched so the caller can retry.
func (g *Gate) Verify(secret, expected string) (PendingAction, error) {
	if g.Pending == nil {
		return PendingAction{}, ErrNoPendingAction
	}
	if !SecretsMatch(secret, expected) {
		return PendingAction{}, ErrAuthFailed
	}
	action := *g.Pending
	g.Pending = nil
	return action, nil
}

// Cancel drops the pending action, if any.
func (g *Gate) Cancel() {
	g.Pending = nil
}

// Logout clears the logged in user along with anything pending.
func (g *Gate) Logout() {
	g.CurrentUserID = ""
	g.Pending = nil
}

// SecretsMatch compares an entered secret with the stored one. Input is
// upper-cased, so stored secrets are expected in upper case.
func SecretsMatch(input, stored string) bool {
	if stored == "" {
		return false
	}
	in := strings.ToUpper(strings.TrimSpace(input))
	return subtle.ConstantTimeCompare([]byte(in), []byte(strings.ToUpper(stored))) == 1
}
