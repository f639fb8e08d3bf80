package snapshot

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/soyeahso/azent/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func agents(ids ...string) []domain.Agent {
	out := make([]domain.Agent, len(ids))
	for i, id := range ids {
		out[i] = domain.Agent{ID: id}
	}
	return out
}

func TestHolderEmpty(t *testing.T) {
	h := NewHolder()
	assert.True(t, h.Current().Empty())
	assert.Equal(t, int64(0), h.Latest())
}

func TestBeginIsMonotonic(t *testing.T) {
	h := NewHolder()
	a := h.Begin()
	b := h.Begin()
	assert.Less(t, a.Seq(), b.Seq())
	assert.Equal(t, b.Seq(), h.Latest())
}

func TestCommitLatest(t *testing.T) {
	h := NewHolder()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	tk := h.Begin()
	require.True(t, h.Commit(tk, agents("a", "b"), SourceAPI))

	snap := h.Current()
	assert.Equal(t, tk.Seq(), snap.Seq)
	assert.Len(t, snap.Agents, 2)
	assert.Equal(t, SourceAPI, snap.Source)
	assert.Equal(t, fixed, snap.FetchedAt)
}

// An older response arriving after a newer request was issued is dropped,
// whether or not the newer one has completed yet.
func TestCommitDiscardsStale(t *testing.T) {
	h := NewHolder()
	older := h.Begin()
	newer := h.Begin()

	assert.False(t, h.Commit(older, agents("old"), SourceAPI))
	assert.True(t, h.Current().Empty())

	assert.True(t, h.Commit(newer, agents("new"), SourceAPI))
	assert.False(t, h.Commit(older, agents("old"), SourceAPI))
	assert.Equal(t, "new", h.Current().Agents[0].ID)
	assert.Equal(t, 2, h.Discarded())
}

func TestCommitSameTicketTwice(t *testing.T) {
	h := NewHolder()
	tk := h.Begin()
	require.True(t, h.Commit(tk, agents("a"), SourceAPI))
	assert.False(t, h.Commit(tk, agents("b"), SourceAPI))
	assert.Equal(t, "a", h.Current().Agents[0].ID)
}

func TestCommitCopiesInput(t *testing.T) {
	h := NewHolder()
	in := agents("a")
	require.True(t, h.Commit(h.Begin(), in, SourceCache))
	in[0].ID = "mutated"
	assert.Equal(t, "a", h.Current().Agents[0].ID)
}

func TestUpdateSupersedesInFlight(t *testing.T) {
	h := NewHolder()
	require.True(t, h.Commit(h.Begin(), []domain.Agent{{ID: "a", Likes: 1}}, SourceAPI))

	inflight := h.Begin()
	snap := h.Update(func(as []domain.Agent) []domain.Agent {
		as[0].Likes++
		return as
	})

	assert.Equal(t, 2, snap.Agents[0].Likes)
	assert.Equal(t, SourceAPI, snap.Source)
	assert.False(t, h.Commit(inflight, agents("stale"), SourceAPI))
	assert.Equal(t, 2, h.Current().Agents[0].Likes)
}

func TestConcurrentFetchesKeepNewest(t *testing.T) {
	h := NewHolder()

	const n = 50
	tickets := make([]Ticket, n)
	for i := range tickets {
		tickets[i] = h.Begin()
	}

	var wg sync.WaitGroup
	for i := n - 1; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Commit(tickets[i], agents(fmt.Sprint(i)), SourceAPI)
		}(i)
	}
	wg.Wait()

	snap := h.Current()
	require.False(t, snap.Empty())
	assert.Equal(t, tickets[n-1].Seq(), snap.Seq)
	assert.Equal(t, fmt.Sprint(n-1), snap.Agents[0].ID)
	assert.Equal(t, n-1, h.Discarded())
}
