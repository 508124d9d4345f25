package reconcile

import "sync"

// Tracker remembers which record ids were written locally, so a snapshot
// fetched before (or while) those writes happened does not roll them back.
type Tracker struct {
	mu      sync.Mutex
	seq     int64
	written map[string]int64
	unacked map[string]bool
}

func NewTracker() *Tracker {
	return &Tracker{
		written: make(map[string]int64),
		unacked: make(map[string]bool),
	}
}

// Seq returns the current write sequence. Capture it before fetching from the
// store and pass it to InFlight when merging the result.
func (t *Tracker) Seq() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seq
}

// Begin marks ids as written locally and not yet acknowledged by the store.
func (t *Tracker) Begin(ids ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	for _, id := range ids {
		t.written[id] = t.seq
		t.unacked[id] = true
	}
}

// Ack records that the store accepted the writes for ids.
func (t *Tracker) Ack(ids ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range ids {
		delete(t.unacked, id)
	}
}

// InFlight reports whether id is unacknowledged or was written after since.
func (t *Tracker) InFlight(id string, since int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unacked[id] || t.written[id] > since
}
