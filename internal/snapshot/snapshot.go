// Package snapshot holds the current agent collection and guards it against
// stale fetches. Each fetch takes a Ticket; only the most recently issued
// ticket may replace the collection.
package snapshot

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soyeahso/azent/internal/domain"
)

// Source says where a snapshot came from.
type Source string

const (
	SourceNone  Source = ""
	SourceAPI   Source = "api"
	SourceCache Source = "cache"
)

// Snapshot is an immutable view of the collection. Callers must not modify
// Agents.
type Snapshot struct {
	Seq       int64
	Agents    []domain.Agent
	Source    Source
	FetchedAt time.Time
}

// Empty reports whether nothing has been committed yet.
func (s Snapshot) Empty() bool { return s.Seq == 0 }

// Ticket identifies one in-flight fetch.
type Ticket struct {
	seq int64
}

// Seq returns the ticket's sequence number.
func (t Ticket) Seq() int64 { return t.seq }

// Holder is safe for concurrent use.
type Holder struct {
	issued atomic.Int64

	mu      sync.RWMutex
	current Snapshot
	stale   int
	now     func() time.Time
}

// NewHolder returns an empty holder.
func NewHolder() *Holder {
	return &Holder{now: time.Now}
}

// Begin issues a ticket for a new fetch. Tickets are strictly increasing.
func (h *Holder) Begin() Ticket {
	return Ticket{seq: h.issued.Add(1)}
}

// Latest returns the most recently issued sequence number.
func (h *Holder) Latest() int64 {
	return h.issued.Load()
}

// Commit installs agents fetched under t if t is still the latest issued
// ticket and nothing newer has been committed. It reports whether the
// snapshot was accepted; a false result means the fetch was superseded.
func (h *Holder) Commit(t Ticket, agents []domain.Agent, src Source) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if t.seq != h.issued.Load() || t.seq <= h.current.Seq {
		h.stale++
		return false
	}
	h.current = Snapshot{
		Seq:       t.seq,
		Agents:    slices.Clone(agents),
		Source:    src,
		FetchedAt: h.now(),
	}
	return true
}

// Current returns the committed snapshot.
func (h *Holder) Current() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Discarded returns how many commits were rejected as stale.
func (h *Holder) Discarded() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stale
}

// Update applies fn to a copy of the current agents and installs the result
// under a fresh sequence number, superseding any fetch still in flight.
func (h *Holder) Update(fn func([]domain.Agent) []domain.Agent) Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	seq := h.issued.Add(1)
	h.current = Snapshot{
		Seq:       seq,
		Agents:    fn(slices.Clone(h.current.Agents)),
		Source:    h.current.Source,
		FetchedAt: h.current.FetchedAt,
	}
	return h.current
}
