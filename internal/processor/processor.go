package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/club-ladder/internal/clock"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/ladder"
	"github.com/mauv0809/club-ladder/internal/metrics"
	"github.com/mauv0809/club-ladder/internal/notifier"
	"github.com/mauv0809/club-ladder/internal/pubsub"
	"github.com/mauv0809/club-ladder/internal/reconcile"
	"github.com/mauv0809/club-ladder/internal/session"
)

func New(store Store, notif Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, sessions session.Store, opts Options) *Processor {
	if opts.Rules == (ladder.Rules{}) {
		opts.Rules = ladder.DefaultRules()
	}
	if opts.AdminSecret == "" {
		opts.AdminSecret = DefaultAdminSecret
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Origin == "" {
		opts.Origin = uuid.NewString()
	}
	return &Processor{
		state:       ladder.NewState(nil, nil, nil),
		engine:      ladder.NewEngine(opts.Rules, opts.IDs),
		store:       store,
		sessions:    sessions,
		pubsub:      pubsub,
		notifier:    notif,
		metrics:     metrics,
		feed:        notifier.NewFeed(opts.FeedSize),
		tracker:     reconcile.NewTracker(),
		clock:       opts.Clock,
		adminSecret: opts.AdminSecret,
		origin:      opts.Origin,
	}
}

// Load replaces the snapshot with everything in the store.
func (p *Processor) Load(ctx context.Context) error {
	players, err := p.store.FetchPlayers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load players: %w", err)
	}
	challenges, err := p.store.FetchChallenges(ctx)
	if err != nil {
		return fmt.Errorf("failed to load challenges: %w", err)
	}
	matches, err := p.store.FetchMatches(ctx)
	if err != nil {
		return fmt.Errorf("failed to load matches: %w", err)
	}

	state := ladder.NewState(players, challenges, matches)
	if err := state.ValidatePositions(); err != nil {
		log.Warn("Stored ladder has inconsistent positions", "error", err)
	}

	p.mu.Lock()
	state.Version = p.state.Version + 1
	p.state = state
	p.mu.Unlock()

	log.Info("Loaded ladder", "players", len(players), "challenges", len(challenges), "matches", len(matches))
	return nil
}

// apply installs a transition outcome: the snapshot is replaced, events go to
// the feed and the outbox, and commands are written to the store. Must be
// called with p.mu held, and the caller must release it with unlock.
func (p *Processor) apply(ctx context.Context, operation string, out ladder.Outcome) error {
	p.state = out.State

	p.feed.Push(out.Events...)
	p.outbox = append(p.outbox, out.Events...)

	var errs []error
	changed := make(map[pubsub.EventType][]string)
	for _, cmd := range out.Commands {
		ids := commandIDs(cmd)
		p.tracker.Begin(ids...)
		if err := p.persist(ctx, cmd); err != nil {
			log.Error("Failed to persist ladder change", "error", err, "operation", operation, "kind", cmd.Kind, "ids", ids)
			p.metrics.IncPersistenceFailures(operation)
			errs = append(errs, err)
			continue
		}
		p.tracker.Ack(ids...)
		topic := topicFor(cmd.Kind)
		changed[topic] = append(changed[topic], ids...)
	}
	p.publish(changed)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPersistence, errors.Join(errs...))
	}
	return nil
}

// unlock releases p.mu and then sends the queued events, so a slow notifier
// never blocks readers of the ladder.
func (p *Processor) unlock() {
	events := p.outbox
	p.outbox = nil
	p.mu.Unlock()

	for _, event := range events {
		if err := p.notifier.SendLadderEvent(event, false); err != nil {
			log.Error("Failed to send ladder notification", "error", err, "type", event.Type, "challengeID", event.ChallengeID)
		}
	}
}

func (p *Processor) persist(ctx context.Context, cmd ladder.Command) error {
	switch cmd.Kind {
	case ladder.CmdUpdatePlayer:
		return p.store.UpdatePlayer(ctx, cmd.Players[0])
	case ladder.CmdUpdatePlayersBatch:
		return p.store.UpdatePlayersBatch(ctx, cmd.Players)
	case ladder.CmdCreateChallenge:
		return p.store.CreateChallenge(ctx, *cmd.Challenge)
	case ladder.CmdUpdateChallenge:
		return p.store.UpdateChallenge(ctx, *cmd.Challenge)
	case ladder.CmdCreateMatch:
		return p.store.CreateMatch(ctx, *cmd.Match)
	default:
		return fmt.Errorf("unknown command kind %q", cmd.Kind)
	}
}

var publishOrder = []pubsub.EventType{
	pubsub.EventPlayersChanged,
	pubsub.EventChallengesChanged,
	pubsub.EventMatchesChanged,
}

// publish tells other instances which collections were written. Failures are
// logged only; the store is already up to date.
func (p *Processor) publish(changed map[pubsub.EventType][]string) {
	at := p.clock.Now().UnixMilli()
	for _, topic := range publishOrder {
		ids, ok := changed[topic]
		if !ok {
			continue
		}
		msg := pubsub.ChangeMessage{
			Topic:   topic,
			Origin:  p.origin,
			Version: p.state.Version,
			IDs:     ids,
			At:      at,
		}
		if err := p.pubsub.SendMessage(topic, msg); err != nil {
			log.Warn("Failed to publish change", "error", err, "topic", topic)
		}
	}
}

func topicFor(kind ladder.CommandKind) pubsub.EventType {
	switch kind {
	case ladder.CmdCreateChallenge, ladder.CmdUpdateChallenge:
		return pubsub.EventChallengesChanged
	case ladder.CmdCreateMatch:
		return pubsub.EventMatchesChanged
	default:
		return pubsub.EventPlayersChanged
	}
}

func commandIDs(cmd ladder.Command) []string {
	var ids []string
	for _, p := range cmd.Players {
		ids = append(ids, p.ID)
	}
	if cmd.Challenge != nil {
		ids = append(ids, cmd.Challenge.ID)
	}
	if cmd.Match != nil {
		ids = append(ids, cmd.Match.ID)
	}
	return ids
}

// Players returns the ladder ordered by position.
func (p *Processor) Players() []ladder.Player {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.SortedPlayers()
}

func (p *Processor) Player(id string) (ladder.Player, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	player, ok := p.state.Players[id]
	if !ok {
		return ladder.Player{}, fmt.Errorf("%w: %s", ladder.ErrPlayerNotFound, id)
	}
	return player, nil
}

// FindPlayer looks a player up by approximate name.
func (p *Processor) FindPlayer(query string) (ladder.Player, bool) {
	matches := club.MatchPlayersByName(query, p.Players(), 1)
	if len(matches) == 0 {
		return ladder.Player{}, false
	}
	return matches[0].Player, true
}

// Challengeable returns the players playerID may challenge right now.
func (p *Processor) Challengeable(playerID string) ([]ladder.Player, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.ChallengeablePlayers(playerID, p.engine.Rules())
}

func (p *Processor) ActiveChallenges() []ladder.Challenge {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.ActiveChallenges()
}

func (p *Processor) RecentMatches(limit int) []ladder.Match {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.RecentMatches(limit)
}

// Notifications returns the most recent ladder events, newest first.
func (p *Processor) Notifications() []ladder.Event {
	return p.feed.List()
}

func (p *Processor) Version() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state.Version
}

func (p *Processor) Rules() ladder.Rules {
	return p.engine.Rules()
}
