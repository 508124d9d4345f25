package processor

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/club"
	"github.com/mauv0809/club-ladder/internal/ladder"
	"github.com/mauv0809/club-ladder/internal/playtomic"
	"github.com/mauv0809/club-ladder/internal/pubsub"
)

// RefreshRanks copies club skill levels onto ladder players. A player without
// a linked club account is linked when exactly one name matches closely
// enough. Returns the number of players updated.
func (p *Processor) RefreshRanks(ctx context.Context, levels []playtomic.Player, dryRun bool) (int, error) {
	now := p.clock.Now()

	p.mu.Lock()
	defer p.mu.Unlock()

	byUserID := make(map[string]playtomic.Player, len(levels))
	candidates := make([]ladder.Player, 0, len(levels))
	for _, l := range levels {
		byUserID[l.UserID] = l
		candidates = append(candidates, ladder.Player{ID: l.UserID, Name: l.Name})
	}
	linked := make(map[string]bool)
	for _, pl := range p.state.Players {
		if pl.PlaytomicID != nil {
			linked[*pl.PlaytomicID] = true
		}
	}

	var updates []club.RankUpdate
	for _, pl := range p.state.SortedPlayers() {
		var (
			level playtomic.Player
			link  *string
		)
		if pl.PlaytomicID != nil {
			l, ok := byUserID[*pl.PlaytomicID]
			if !ok {
				continue
			}
			level = l
		} else {
			matches := club.MatchPlayersByName(pl.Name, candidates, 2)
			if len(matches) == 0 || matches[0].Confidence < club.AutoMatchConfidence {
				continue
			}
			if len(matches) > 1 && matches[1].Confidence >= club.AutoMatchConfidence {
				log.Warn("Ambiguous club account for player", "player", pl.Name, "first", matches[0].Player.Name, "second", matches[1].Player.Name)
				continue
			}
			if linked[matches[0].Player.ID] {
				continue
			}
			level = byUserID[matches[0].Player.ID]
			id := level.UserID
			link = &id
			linked[id] = true
			log.Info("Linking player to club account", "player", pl.Name, "clubName", level.Name, "confidence", matches[0].Confidence)
		}
		if link == nil && level.Level == pl.Rank {
			continue
		}
		updates = append(updates, club.RankUpdate{PlayerID: pl.ID, Rank: level.Level, PlaytomicID: link, UpdatedAt: now})
	}

	if len(updates) == 0 {
		log.Info("Ranks are up to date")
		return 0, nil
	}
	if dryRun {
		for _, u := range updates {
			log.Info("[Dry Run] Would update rank", "playerID", u.PlayerID, "rank", u.Rank, "link", u.PlaytomicID != nil)
		}
		return len(updates), nil
	}

	ids := make([]string, 0, len(updates))
	for _, u := range updates {
		ids = append(ids, u.PlayerID)
	}
	p.tracker.Begin(ids...)
	err := p.store.UpdatePlayerRanks(ctx, updates)
	p.tracker.Ack(ids...)
	if err != nil {
		p.metrics.IncPersistenceFailures("refresh_ranks")
		log.Error("Failed to store ranks", "error", err, "count", len(updates))
		return 0, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	next := p.state.Clone()
	next.Version++
	for _, u := range updates {
		pl := next.Players[u.PlayerID]
		pl.Rank = u.Rank
		if u.PlaytomicID != nil {
			pl.PlaytomicID = u.PlaytomicID
		}
		pl.UpdatedAt = now
		next.Players[pl.ID] = pl
	}
	p.state = next
	p.publish(map[pubsub.EventType][]string{pubsub.EventPlayersChanged: ids})

	log.Info("Refreshed ranks", "updated", len(updates))
	return len(updates), nil
}
