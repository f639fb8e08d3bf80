// Package browse is the marketplace session a CLI invocation works with. It
// fetches the agent collection, keeps it in a sequenced snapshot, falls back
// to the local cache when the API is unreachable, and fires hooks for user
// actions.
package browse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soyeahso/azent/internal/catalog"
	"github.com/soyeahso/azent/internal/domain"
	"github.com/soyeahso/azent/internal/hooks"
	"github.com/soyeahso/azent/internal/logging"
	"github.com/soyeahso/azent/internal/market"
	"github.com/soyeahso/azent/internal/snapshot"
	"github.com/soyeahso/azent/internal/store"
)

// API is the subset of the marketplace client the service uses.
type API interface {
	BaseURL() string
	ListAgents(ctx context.Context) ([]domain.Agent, error)
	SearchAgents(ctx context.Context, query string) ([]domain.Agent, error)
	SimilarAgents(ctx context.Context, id string) (*domain.SimilarResult, error)
	Like(ctx context.Context, agentID string) error
	ToggleWishlist(ctx context.Context, agentID string) (domain.WishlistResult, error)
	CreateAgent(ctx context.Context, sub domain.Submission) (*domain.Agent, error)
}

// Cache stores the last fetched collection for offline use.
type Cache interface {
	Replace(apiBase string, agents []domain.Agent, fetchedAt time.Time) error
	Load() (*store.CachedAgents, error)
	Get(id string) (*domain.Agent, error)
	Search(query string, limit int) ([]domain.Agent, error)
}

// Ledger remembers the user's likes and bookmarks.
type Ledger interface {
	RecordLike(apiBase, agentID string) error
	HasLiked(apiBase, agentID string) (bool, error)
	SetBookmark(apiBase, agentID string, saved bool) error
}

// ErrNoData is returned when neither the API nor the cache has agents.
var ErrNoData = errors.New("no agent data available (API unreachable and cache empty)")

const searchLimit = 50

// Options configures a Service. Cache and Ledger may be nil.
type Options struct {
	API    API
	Cache  Cache
	Ledger Ledger
	Hooks  *hooks.Manager
	Now    func() time.Time
}

// Service is safe for concurrent use.
type Service struct {
	api    API
	cache  Cache
	ledger Ledger
	hooks  *hooks.Manager
	holder *snapshot.Holder
	now    func() time.Time
	log    *logging.Logger
}

// New creates a browse service.
func New(opts Options, log *logging.Logger) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	h := opts.Hooks
	if h == nil {
		h = hooks.NewManager(log)
	}
	return &Service{
		api:    opts.API,
		cache:  opts.Cache,
		ledger: opts.Ledger,
		hooks:  h,
		holder: snapshot.NewHolder(),
		now:    now,
		log:    log.Sub("browse"),
	}
}

// Snapshot returns the currently held collection.
func (s *Service) Snapshot() snapshot.Snapshot {
	return s.holder.Current()
}

// Refresh fetches the collection from the API. When a newer refresh was
// started while this one was in flight, the result is discarded and the
// newer snapshot is returned.
func (s *Service) Refresh(ctx context.Context) (snapshot.Snapshot, error) {
	ticket := s.holder.Begin()
	agents, err := s.api.ListAgents(ctx)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("fetching agents: %w", err)
	}

	if !s.holder.Commit(ticket, agents, snapshot.SourceAPI) {
		s.log.Debug().Int64("seq", ticket.Seq()).Int64("latest", s.holder.Latest()).
			Int("discarded", s.holder.Discarded()).Msg("stale agent fetch discarded")
		return s.holder.Current(), nil
	}
	snap := s.holder.Current()

	if s.cache != nil {
		if err := s.cache.Replace(s.api.BaseURL(), agents, snap.FetchedAt); err != nil {
			s.log.Warn().Err(err).Msg("failed to update agent cache")
		}
	}

	s.hooks.EmitAsync(ctx, hooks.EventAgentsRefreshed, map[string]any{
		"count": len(snap.Agents),
		"seq":   snap.Seq,
	})
	s.log.Debug().Int("agents", len(snap.Agents)).Int64("seq", snap.Seq).Msg("agents refreshed")
	return snap, nil
}

// Load returns a collection to derive views from. With offline set, or when
// the API fails and the cache has data, the cached collection is used.
func (s *Service) Load(ctx context.Context, offline bool) (snapshot.Snapshot, error) {
	if offline {
		return s.loadCache()
	}
	snap, err := s.Refresh(ctx)
	if err == nil {
		return snap, nil
	}
	if ctx.Err() != nil || errors.Is(err, market.ErrUnauthorized) {
		return snapshot.Snapshot{}, err
	}

	cached, cerr := s.loadCache()
	if cerr != nil {
		return snapshot.Snapshot{}, err
	}
	s.log.Warn().Err(err).Msg("API unavailable, using cached agents")
	return cached, nil
}

func (s *Service) loadCache() (snapshot.Snapshot, error) {
	if s.cache == nil {
		return snapshot.Snapshot{}, ErrNoData
	}
	ticket := s.holder.Begin()
	cached, err := s.cache.Load()
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("reading agent cache: %w", err)
	}
	if len(cached.Agents) == 0 {
		return snapshot.Snapshot{}, ErrNoData
	}
	if !s.holder.Commit(ticket, cached.Agents, snapshot.SourceCache) {
		return s.holder.Current(), nil
	}
	snap := s.holder.Current()
	snap.FetchedAt = cached.FetchedAt
	return snap, nil
}

// View loads the collection and derives the listing for state.
func (s *Service) View(ctx context.Context, state catalog.ViewState, offline bool) (catalog.View, snapshot.Snapshot, error) {
	snap, err := s.Load(ctx, offline)
	if err != nil {
		return catalog.View{}, snapshot.Snapshot{}, err
	}
	return catalog.Derive(snap.Agents, state), snap, nil
}

// Search queries the API, or the cache's full-text index when offline or
// when the API fails.
func (s *Service) Search(ctx context.Context, query string, offline bool) ([]domain.Agent, snapshot.Source, error) {
	if !offline {
		agents, err := s.api.SearchAgents(ctx, query)
		if err == nil {
			return agents, snapshot.SourceAPI, nil
		}
		if s.cache == nil || ctx.Err() != nil {
			return nil, snapshot.SourceNone, fmt.Errorf("searching agents: %w", err)
		}
		s.log.Warn().Err(err).Msg("API search failed, searching cache")
	}
	if s.cache == nil {
		return nil, snapshot.SourceNone, ErrNoData
	}
	agents, err := s.cache.Search(query, searchLimit)
	if err != nil {
		return nil, snapshot.SourceNone, fmt.Errorf("searching cache: %w", err)
	}
	return agents, snapshot.SourceCache, nil
}

// Show returns an agent and its similar agents. Offline, only the cached
// agent is returned.
func (s *Service) Show(ctx context.Context, id string, offline bool) (*domain.SimilarResult, snapshot.Source, error) {
	if !offline {
		res, err := s.api.SimilarAgents(ctx, id)
		if err == nil {
			return res, snapshot.SourceAPI, nil
		}
		if errors.Is(err, market.ErrNotFound) || s.cache == nil || ctx.Err() != nil {
			return nil, snapshot.SourceNone, err
		}
		s.log.Warn().Err(err).Msg("API unavailable, showing cached agent")
	}
	if s.cache == nil {
		return nil, snapshot.SourceNone, ErrNoData
	}
	a, err := s.cache.Get(id)
	if err != nil {
		return nil, snapshot.SourceNone, err
	}
	if a == nil {
		return nil, snapshot.SourceNone, fmt.Errorf("agent %s: %w", id, market.ErrNotFound)
	}
	return &domain.SimilarResult{Agent: *a}, snapshot.SourceCache, nil
}
