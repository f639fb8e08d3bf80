package browse

import (
	"context"
	"errors"

	"github.com/soyeahso/azent/internal/domain"
	"github.com/soyeahso/azent/internal/hooks"
	"github.com/soyeahso/azent/internal/market"
)

// Like likes an agent. A like the server already has is recorded locally
// and reported as market.ErrAlreadyLiked. On success the held snapshot's
// like count is bumped and the new count returned.
func (s *Service) Like(ctx context.Context, id string) (int, error) {
	if err := s.api.Like(ctx, id); err != nil {
		if errors.Is(err, market.ErrAlreadyLiked) {
			s.recordLike(id)
		}
		return 0, err
	}
	s.recordLike(id)

	likes := 0
	snap := s.holder.Update(func(agents []domain.Agent) []domain.Agent {
		for i := range agents {
			if agents[i].ID == id {
				agents[i].Likes = agents[i].LikeCount() + 1
				likes = agents[i].Likes
			}
		}
		return agents
	})

	s.hooks.EmitAsync(ctx, hooks.EventAgentLiked, map[string]any{
		"agentId": id,
		"likes":   likes,
		"seq":     snap.Seq,
	})
	return likes, nil
}

func (s *Service) recordLike(id string) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.RecordLike(s.api.BaseURL(), id); err != nil {
		s.log.Warn().Err(err).Str("agent", id).Msg("failed to record like")
	}
}

// HasLiked reports whether this client has recorded a like for id.
func (s *Service) HasLiked(id string) bool {
	if s.ledger == nil {
		return false
	}
	liked, err := s.ledger.HasLiked(s.api.BaseURL(), id)
	if err != nil {
		s.log.Warn().Err(err).Str("agent", id).Msg("failed to read like ledger")
	}
	return liked
}

// ToggleBookmark adds id to the wishlist or removes it.
func (s *Service) ToggleBookmark(ctx context.Context, id string) (domain.WishlistResult, error) {
	res, err := s.api.ToggleWishlist(ctx, id)
	if err != nil {
		return res, err
	}
	if s.ledger != nil {
		if err := s.ledger.SetBookmark(s.api.BaseURL(), id, res.Added); err != nil {
			s.log.Warn().Err(err).Str("agent", id).Msg("failed to record bookmark")
		}
	}
	s.holder.Update(func(agents []domain.Agent) []domain.Agent {
		for i := range agents {
			if agents[i].ID == id {
				agents[i].SavedByCount = res.SavedByCount
			}
		}
		return agents
	})

	s.hooks.EmitAsync(ctx, hooks.EventAgentBookmarked, map[string]any{
		"agentId":      id,
		"added":        res.Added,
		"savedByCount": res.SavedByCount,
	})
	return res, nil
}

// Submit sends a new listing for review.
func (s *Service) Submit(ctx context.Context, sub domain.Submission) (*domain.Agent, error) {
	created, err := s.api.CreateAgent(ctx, sub)
	if err != nil {
		return nil, err
	}
	s.hooks.EmitAsync(ctx, hooks.EventAgentSubmitted, map[string]any{
		"agentId": created.ID,
		"name":    created.Name,
	})
	return created, nil
}
