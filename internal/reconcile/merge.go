package reconcile

import (
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/ladder"
)

type Decision string

const (
	DecisionInsert Decision = "insert"
	DecisionUpdate Decision = "update"
	DecisionKeep   Decision = "keep"
	DecisionDrop   Decision = "drop"
)

// Resolve decides what to do with a remote copy of a record. The server wins
// unless the local copy is in flight and strictly newer.
func Resolve(remoteUpdatedAt time.Time, localUpdatedAt *time.Time, inFlight bool) Decision {
	if localUpdatedAt == nil {
		return DecisionInsert
	}
	if inFlight && localUpdatedAt.After(remoteUpdatedAt) {
		return DecisionKeep
	}
	return DecisionUpdate
}

// Collection flags which parts of a Remote snapshot were fetched.
type Collection uint8

const (
	Players Collection = 1 << iota
	Challenges
	Matches

	All = Players | Challenges | Matches
)

// Remote is data fetched from the store. Only collections flagged in Fetched
// are authoritative; the others are left untouched by Apply.
type Remote struct {
	Fetched    Collection
	Players    []ladder.Player
	Challenges []ladder.Challenge
	Matches    []ladder.Match
}

// Report counts merge decisions across all collections.
type Report struct {
	Inserted int
	Updated  int
	Kept     int
	Dropped  int
}

func (r Report) Changed() bool {
	return r.Inserted+r.Updated+r.Dropped > 0
}

// Apply merges remote into local and returns a new versioned state. Local
// records missing remotely are dropped unless in flight.
func Apply(local *ladder.State, remote Remote, inFlight func(id string) bool) (*ladder.State, Report) {
	next := local.Clone()
	var report Report

	if remote.Fetched&Players != 0 {
		next.Players = mergeByID(local.Players, remote.Players,
			func(p ladder.Player) string { return p.ID },
			func(p ladder.Player) time.Time { return p.UpdatedAt },
			inFlight, &report)
	}
	if remote.Fetched&Challenges != 0 {
		next.Challenges = mergeByID(local.Challenges, remote.Challenges,
			func(c ladder.Challenge) string { return c.ID },
			func(c ladder.Challenge) time.Time { return c.UpdatedAt },
			inFlight, &report)
	}
	if remote.Fetched&Matches != 0 {
		next.Matches = mergeMatches(local.Matches, remote.Matches, inFlight, &report)
	}

	next.Version = local.Version + 1
	if err := next.ValidatePositions(); err != nil {
		log.Warn("Reconciled ladder has inconsistent positions", "error", err)
	}
	return next, report
}

func mergeByID[T any](local map[string]T, remote []T, idOf func(T) string, updatedAt func(T) time.Time, inFlight func(string) bool, report *Report) map[string]T {
	out := make(map[string]T, len(remote))
	for _, r := range remote {
		id := idOf(r)
		var localAt *time.Time
		l, ok := local[id]
		if ok {
			at := updatedAt(l)
			localAt = &at
		}
		switch Resolve(updatedAt(r), localAt, inFlight(id)) {
		case DecisionInsert:
			report.Inserted++
			out[id] = r
		case DecisionKeep:
			report.Kept++
			out[id] = l
		default:
			// The store keeps milliseconds.
			if !updatedAt(r).Truncate(time.Millisecond).Equal(localAt.Truncate(time.Millisecond)) {
				report.Updated++
			}
			out[id] = r
		}
	}
	for id, l := range local {
		if _, ok := out[id]; ok {
			continue
		}
		if inFlight(id) {
			report.Kept++
			out[id] = l
			continue
		}
		report.Dropped++
	}
	return out
}

// mergeMatches unions matches by id; matches are immutable so either copy will do.
func mergeMatches(local, remote []ladder.Match, inFlight func(string) bool, report *Report) []ladder.Match {
	byID := make(map[string]ladder.Match, len(remote))
	for _, m := range remote {
		byID[m.ID] = m
	}
	for _, m := range local {
		if _, ok := byID[m.ID]; ok {
			continue
		}
		if inFlight(m.ID) {
			report.Kept++
			byID[m.ID] = m
			continue
		}
		report.Dropped++
	}
	known := make(map[string]bool, len(local))
	for _, m := range local {
		known[m.ID] = true
	}
	out := make([]ladder.Match, 0, len(byID))
	for _, m := range byID {
		if !known[m.ID] {
			report.Inserted++
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}
