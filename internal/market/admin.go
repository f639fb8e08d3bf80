package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/soyeahso/azent/internal/domain"
)

// AgentsByStatus lists submissions in one review queue.
func (c *Client) AgentsByStatus(ctx context.Context, status domain.Status) ([]domain.Agent, error) {
	var agents []domain.Agent
	if err := c.getJSON(ctx, c.endpoint(nil, "admin", "agents", string(status)), true, &agents); err != nil {
		return nil, fmt.Errorf("listing %s agents: %w", status, err)
	}
	return agents, nil
}

// ReviewQueues fetches all four review queues concurrently. The first
// failure cancels the rest.
func (c *Client) ReviewQueues(ctx context.Context) (domain.ReviewQueues, error) {
	if !c.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	var mu sync.Mutex
	queues := make(domain.ReviewQueues, len(domain.Statuses))

	g, ctx := errgroup.WithContext(ctx)
	for _, st := range domain.Statuses {
		st := st
		g.Go(func() error {
			agents, err := c.AgentsByStatus(ctx, st)
			if err != nil {
				return err
			}
			mu.Lock()
			queues[st] = agents
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return queues, nil
}

// SetAgentStatus moves a submission to another review status. Putting an
// agent on hold requires instructions for the submitter.
func (c *Client) SetAgentStatus(ctx context.Context, id string, change domain.StatusChange) error {
	if change.Status.NeedsInstructions() && change.Instructions == "" {
		return errors.New("instructions are required when putting an agent on hold")
	}
	_, err := c.sendJSON(ctx, http.MethodPut, c.endpoint(nil, "admin", "agents", id, "status"), true, change, nil)
	if err != nil {
		return fmt.Errorf("setting status of %s: %w", id, err)
	}
	return nil
}
