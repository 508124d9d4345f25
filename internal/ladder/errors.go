package ladder

import "errors"

// ErrValidation is the parent of every rule violation. No state is mutated when
// an operation returns an error matching it.
var ErrValidation = errors.New("validation failed")

var (
	ErrNoLives               = validationError("challenger has no lives left")
	ErrOutOfRange            = validationError("defender is not within challenge range")
	ErrSelfChallenge         = validationError("a player cannot challenge themselves")
	ErrActiveChallengeExists = validationError("an active challenge already exists between these players")
	ErrDefenderBusy          = validationError("defender already has a pending challenge")
	ErrEmptyScore            = validationError("score is required")
	ErrInvalidWinner         = validationError("winner must be one of the participants")
	ErrInvalidTransition     = validationError("challenge is not in a state that allows this action")
	ErrPlayerNotFound        = validationError("player not found")
	ErrChallengeNotFound     = validationError("challenge not found")
	ErrNotLoggedIn           = validationError("no user is logged in")
	ErrInvalidPositions      = validationError("positions are not a permutation of 1..N")
)

type ruleError struct {
	msg string
}

func validationError(msg string) error {
	return &ruleError{msg: msg}
}

func (e *ruleError) Error() string { return e.msg }

func (e *ruleError) Is(target error) bool {
	return target == ErrValidation
}
