package notifier

import (
	"sync"

	"github.com/mauv0809/club-ladder/internal/ladder"
)

// DefaultFeedSize is the number of notifications the feed retains.
const DefaultFeedSize = 10

// Feed is a bounded, newest-first log of ladder events. When full, the oldest
// entry is dropped. It is safe for concurrent use.
type Feed struct {
	mu    sync.RWMutex
	items []ladder.Event
	next  int
	count int
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultFeedSize
	}
	return &Feed{items: make([]ladder.Event, capacity)}
}

// Push appends events in order; the last one becomes the newest.
func (f *Feed) Push(events ...ladder.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range events {
		f.items[f.next] = ev
		f.next = (f.next + 1) % len(f.items)
		if f.count < len(f.items) {
			f.count++
		}
	}
}

// List returns the retained events, newest first.
func (f *Feed) List() []ladder.Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]ladder.Event, 0, f.count)
	for i := 1; i <= f.count; i++ {
		idx := (f.next - i + len(f.items)) % len(f.items)
		out = append(out, f.items[idx])
	}
	return out
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.count
}
