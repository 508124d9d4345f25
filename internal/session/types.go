package session

import (
	"errors"
	"time"

	"github.com/mauv0809/club-ladder/internal/auth"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one browser or device talking to the ladder.
type Session struct {
	ID        string    `json:"id"`
	Gate      auth.Gate `json:"gate"`
	UpdatedAt time.Time `json:"updatedAt"`
}
