package processor

import (
	"errors"
	"sync"

	"github.com/mauv0809/club-ladder/internal/auth"
	"github.com/mauv0809/club-ladder/internal/clock"
	"github.com/mauv0809/club-ladder/internal/ladder"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"github.com/mauv0809/club-ladder/internal/notifier"
	"github.com/mauv0809/club-ladder/internal/pubsub"
	"github.com/mauv0809/club-ladder/internal/reconcile"
	"github.com/mauv0809/club-ladder/internal/session"
)

// ErrPersistence is returned when the ladder changed in memory but the store
// rejected at least one write. The in-memory change is not rolled back.
var ErrPersistence = errors.New("failed to save ladder change, please retry")

const DefaultAdminSecret = "ADMIN"

// Options tunes a Processor. Zero values fall back to defaults.
type Options struct {
	Rules       ladder.Rules
	AdminSecret string
	FeedSize    int
	Clock       clock.Clock
	// IDs generates challenge and match ids.
	IDs func() string
	// Origin identifies this instance on the change feed.
	Origin string
}

// Processor owns the ladder snapshot and serializes every transition on it.
type Processor struct {
	mu     sync.RWMutex
	state  *ladder.State
	engine *ladder.Engine

	store    Store
	sessions session.Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	feed     *notifier.Feed
	tracker  *reconcile.Tracker
	clock    clock.Clock

	// outbox holds events applied under mu that have not been sent yet.
	outbox []ladder.Event

	adminSecret string
	origin      string
}

// AuthResult describes the action that ran after a successful authentication.
type AuthResult struct {
	Purpose   auth.Purpose
	Session   *session.Session
	Challenge *ladder.Challenge
	Match     *ladder.Match
}
