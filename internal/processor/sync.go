package processor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/pubsub"
	"github.com/mauv0809/club-ladder/internal/reconcile"
)

// HandleChange reconciles the collection named by a change message from
// another instance. Messages this instance published are ignored.
func (p *Processor) HandleChange(ctx context.Context, msg pubsub.ChangeMessage) error {
	if msg.Origin == p.origin {
		log.Debug("Ignoring own change message", "topic", msg.Topic, "version", msg.Version)
		return nil
	}
	var collection reconcile.Collection
	switch msg.Topic {
	case pubsub.EventPlayersChanged:
		collection = reconcile.Players
	case pubsub.EventChallengesChanged:
		collection = reconcile.Challenges
	case pubsub.EventMatchesChanged:
		collection = reconcile.Matches
	default:
		return fmt.Errorf("unknown change topic %q", msg.Topic)
	}
	log.Debug("Received change message", "topic", msg.Topic, "origin", msg.Origin, "ids", msg.IDs)
	_, err := p.Refresh(ctx, collection)
	return err
}

// Refresh fetches the given collections and merges them into the snapshot.
// Records written locally since the fetch started, or not yet stored, are
// kept when they are newer than the fetched copy.
func (p *Processor) Refresh(ctx context.Context, collections reconcile.Collection) (reconcile.Report, error) {
	since := p.tracker.Seq()
	remote := reconcile.Remote{Fetched: collections}

	var err error
	if collections&reconcile.Players != 0 {
		if remote.Players, err = p.store.FetchPlayers(ctx); err != nil {
			return reconcile.Report{}, fmt.Errorf("failed to fetch players: %w", err)
		}
	}
	if collections&reconcile.Challenges != 0 {
		if remote.Challenges, err = p.store.FetchChallenges(ctx); err != nil {
			return reconcile.Report{}, fmt.Errorf("failed to fetch challenges: %w", err)
		}
	}
	if collections&reconcile.Matches != 0 {
		if remote.Matches, err = p.store.FetchMatches(ctx); err != nil {
			return reconcile.Report{}, fmt.Errorf("failed to fetch matches: %w", err)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	next, report := reconcile.Apply(p.state, remote, func(id string) bool {
		return p.tracker.InFlight(id, since)
	})
	if !report.Changed() {
		log.Debug("Remote snapshot matches local ladder", "kept", report.Kept)
		return report, nil
	}
	p.state = next
	log.Info("Reconciled remote changes",
		"version", next.Version,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"kept", report.Kept,
		"dropped", report.Dropped,
	)
	return report, nil
}
